/*
Copyright © 2019 the VCoord authors.
This file is part of VCoord.

VCoord is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

VCoord is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with VCoord.  If not, see <http://www.gnu.org/licenses/>.
*/

package vcoord

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// NoNeighbor marks the missing side of a boundary edge.
const NoNeighbor = -1

// GridTopologyView gives read-only access to the topology of the grid
// partition owned by this process.
type GridTopologyView interface {
	Nc() int    // number of cells
	Ne() int    // number of edges
	Nkmax() int // maximum number of layers in any cell

	Nk(c int) int   // number of active layers in cell c
	Ctop(c int) int // top active layer in cell c
	Nke(e int) int  // number of active layers at edge e
	Etop(e int) int // top active layer at edge e

	// Grad returns the two cells adjoining edge e. Either one may be
	// NoNeighbor if e is on the domain boundary.
	Grad(e int) (nc1, nc2 int)

	Dv(c int) float64 // bathymetric depth of cell c, positive downward [m]
	Dg(e int) float64 // distance between the cell centers adjoining edge e [m]
}

// CellInfo describes a single horizontal grid cell.
type CellInfo struct {
	Depth float64 // bathymetric depth [m]
	Nk    int     // number of active layers
	Ctop  int     // top active layer
}

// EdgeInfo describes a single grid edge.
type EdgeInfo struct {
	Cells    [2]int  // adjoining cells; NoNeighbor for a missing side
	Nke      int     // number of active layers
	Etop     int     // top active layer
	Distance float64 // center-to-center distance of the adjoining cells [m]
}

// Grid holds the topology of a grid partition together with the layer
// thicknesses that the coordinate schemes compute. Topology is immutable
// after NewGrid; only the thicknesses change.
type Grid struct {
	nkmax int
	cells []CellInfo
	edges []EdgeInfo

	dzz    *sparse.DenseArray // layer thickness (cell, layer) [m]
	dzzOld *sparse.DenseArray // layer thickness at the previous step (cell, layer) [m]
}

// NewGrid creates a new grid partition with nkmax layers from the given
// cell and edge descriptions. All layer thicknesses start at zero.
func NewGrid(nkmax int, cells []CellInfo, edges []EdgeInfo) (*Grid, error) {
	if nkmax < 1 {
		return nil, fmt.Errorf("vcoord: Nkmax must be at least 1 but is %d", nkmax)
	}
	for i, c := range cells {
		if c.Nk < 1 || c.Nk > nkmax {
			return nil, fmt.Errorf("vcoord: cell %d: Nk=%d is outside of [1, %d]", i, c.Nk, nkmax)
		}
		if c.Ctop < 0 || c.Ctop >= c.Nk {
			return nil, fmt.Errorf("vcoord: cell %d: ctop=%d is outside of [0, %d)", i, c.Ctop, c.Nk)
		}
	}
	for j, e := range edges {
		if e.Cells[0] == NoNeighbor && e.Cells[1] == NoNeighbor {
			return nil, fmt.Errorf("vcoord: edge %d has no adjoining cells", j)
		}
		for _, nc := range e.Cells {
			if nc != NoNeighbor && (nc < 0 || nc >= len(cells)) {
				return nil, fmt.Errorf("vcoord: edge %d: cell index %d out of range", j, nc)
			}
		}
		if e.Nke < 1 || e.Nke > nkmax {
			return nil, fmt.Errorf("vcoord: edge %d: Nke=%d is outside of [1, %d]", j, e.Nke, nkmax)
		}
		if e.Etop < 0 || e.Etop >= e.Nke {
			return nil, fmt.Errorf("vcoord: edge %d: etop=%d is outside of [0, %d)", j, e.Etop, e.Nke)
		}
		if e.Distance <= 0 {
			return nil, fmt.Errorf("vcoord: edge %d: distance must be positive but is %g", j, e.Distance)
		}
	}
	return &Grid{
		nkmax:  nkmax,
		cells:  cells,
		edges:  edges,
		dzz:    sparse.ZerosDense(len(cells), nkmax),
		dzzOld: sparse.ZerosDense(len(cells), nkmax),
	}, nil
}

// Nc returns the number of cells.
func (g *Grid) Nc() int { return len(g.cells) }

// Ne returns the number of edges.
func (g *Grid) Ne() int { return len(g.edges) }

// Nkmax returns the maximum number of layers.
func (g *Grid) Nkmax() int { return g.nkmax }

// Nk returns the number of active layers in cell c.
func (g *Grid) Nk(c int) int { return g.cells[c].Nk }

// Ctop returns the top active layer in cell c.
func (g *Grid) Ctop(c int) int { return g.cells[c].Ctop }

// Nke returns the number of active layers at edge e.
func (g *Grid) Nke(e int) int { return g.edges[e].Nke }

// Etop returns the top active layer at edge e.
func (g *Grid) Etop(e int) int { return g.edges[e].Etop }

// Grad returns the cells adjoining edge e.
func (g *Grid) Grad(e int) (nc1, nc2 int) {
	return g.edges[e].Cells[0], g.edges[e].Cells[1]
}

// Dv returns the bathymetric depth of cell c.
func (g *Grid) Dv(c int) float64 { return g.cells[c].Depth }

// Dg returns the center-to-center distance across edge e.
func (g *Grid) Dg(e int) float64 { return g.edges[e].Distance }

// SetCtop moves the top active layer of cell c, for example when the free
// surface drops below a nominal layer. It is the caller's responsibility to
// keep ctop within [0, Nk(c)).
func (g *Grid) SetCtop(c, ctop int) { g.cells[c].Ctop = ctop }

// Dzz returns the thickness of layer k in cell c.
func (g *Grid) Dzz(c, k int) float64 { return g.dzz.Get(c, k) }

// SetDzz sets the thickness of layer k in cell c.
func (g *Grid) SetDzz(c, k int, v float64) { g.dzz.Elements[g.dzz.Index1d(c, k)] = v }

// DzzOld returns the previous-step thickness of layer k in cell c.
func (g *Grid) DzzOld(c, k int) float64 { return g.dzzOld.Get(c, k) }

// SetDzzOld sets the previous-step thickness of layer k in cell c.
func (g *Grid) SetDzzOld(c, k int, v float64) { g.dzzOld.Elements[g.dzzOld.Index1d(c, k)] = v }

// ShiftDzz copies the current layer thicknesses into the previous-step
// thicknesses.
func (g *Grid) ShiftDzz() { copy(g.dzzOld.Elements, g.dzz.Elements) }

// Column returns the active-layer thicknesses of cell c, from the top
// active layer down.
func (g *Grid) Column(c int) []float64 {
	col := make([]float64, 0, g.Nk(c)-g.Ctop(c))
	for k := g.Ctop(c); k < g.Nk(c); k++ {
		col = append(col, g.Dzz(c, k))
	}
	return col
}
