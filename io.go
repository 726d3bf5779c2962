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
	"io"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// CaseFile is the TOML representation of a grid partition and the physical
// state it starts from.
type CaseFile struct {
	Nkmax int
	Cells []CaseCell
	Edges []CaseEdge
}

// CaseCell is a cell in a CaseFile.
type CaseCell struct {
	Depth float64   // bathymetric depth [m]
	Nk    int       // number of active layers
	Ctop  int       // top active layer
	H     float64   // free-surface elevation [m]
	Rho   []float64 // density of each layer, from the top
}

// CaseEdge is an edge in a CaseFile.
type CaseEdge struct {
	Cells    []int // the two adjoining cells; -1 for a missing side
	Nke      int
	Etop     int
	Distance float64 // [m]
}

// LoadCase reads a grid partition and its physical state from a TOML case
// file. Layers for which no density is given have a density of zero.
func LoadCase(r io.Reader) (*Grid, *PhysicsState, error) {
	var c CaseFile
	if _, err := toml.DecodeReader(r, &c); err != nil {
		return nil, nil, fmt.Errorf("vcoord: reading case file: %v", err)
	}
	cells := make([]CellInfo, len(c.Cells))
	for i, cc := range c.Cells {
		if len(cc.Rho) > c.Nkmax {
			return nil, nil, fmt.Errorf("vcoord: case file cell %d has %d densities but Nkmax is %d", i, len(cc.Rho), c.Nkmax)
		}
		cells[i] = CellInfo{Depth: cc.Depth, Nk: cc.Nk, Ctop: cc.Ctop}
	}
	edges := make([]EdgeInfo, len(c.Edges))
	for j, ce := range c.Edges {
		if len(ce.Cells) != 2 {
			return nil, nil, fmt.Errorf("vcoord: case file edge %d has %d cells; it must have 2", j, len(ce.Cells))
		}
		edges[j] = EdgeInfo{
			Cells:    [2]int{ce.Cells[0], ce.Cells[1]},
			Nke:      ce.Nke,
			Etop:     ce.Etop,
			Distance: ce.Distance,
		}
	}
	g, err := NewGrid(c.Nkmax, cells, edges)
	if err != nil {
		return nil, nil, err
	}
	phys := NewPhysicsState(g)
	for i, cc := range c.Cells {
		phys.Eta[i] = cc.H
		for k, rho := range cc.Rho {
			phys.SetRho(i, k, rho)
		}
	}
	return g, phys, nil
}

// fieldInfo describes a NetCDF output variable.
type fieldInfo struct {
	name, description, units string
	dims                     []string
	data                     func(g *Grid, s *MonitorFieldState) *sparse.DenseArray
}

var outputFields = []fieldInfo{
	{"dzz", "Layer thickness", "m", []string{"cell", "layer"},
		func(g *Grid, _ *MonitorFieldState) *sparse.DenseArray { return g.dzz }},
	{"dzzold", "Layer thickness at the previous step", "m", []string{"cell", "layer"},
		func(g *Grid, _ *MonitorFieldState) *sparse.DenseArray { return g.dzzOld }},
	{"Mc", "Cell monitor function", "-", []string{"cell", "layer"},
		func(_ *Grid, s *MonitorFieldState) *sparse.DenseArray { return s.Mc }},
	{"MeL", "Edge monitor function at layer interfaces", "-", []string{"edge", "interface"},
		func(_ *Grid, s *MonitorFieldState) *sparse.DenseArray { return s.MeL }},
	{"Msum", "Sum over active layers of the inverse cell monitor function", "-", []string{"cell"},
		func(_ *Grid, s *MonitorFieldState) *sparse.DenseArray { return denseVector(s.Msum) }},
	{"dsigma", "Fractional layer thickness of the sigma coordinate", "fraction", []string{"layer"},
		func(_ *Grid, s *MonitorFieldState) *sparse.DenseArray { return denseVector(s.Dsigma) }},
}

func denseVector(v []float64) *sparse.DenseArray {
	a := sparse.ZerosDense(len(v))
	copy(a.Elements, v)
	return a
}

// WriteFields writes the layer thicknesses and monitor fields to w in
// NetCDF format. Variables along an empty dimension, such as the edge
// variables of a partition without edges, are omitted.
func WriteFields(w cdf.ReaderWriterAt, g *Grid, s *MonitorFieldState) error {
	lengths := map[string]int{
		"cell":      g.Nc(),
		"edge":      g.Ne(),
		"layer":     g.Nkmax(),
		"interface": g.Nkmax() + 1,
	}
	var dims []string
	var dimLengths []int
	for _, d := range []string{"cell", "edge", "layer", "interface"} {
		if lengths[d] > 0 {
			dims = append(dims, d)
			dimLengths = append(dimLengths, lengths[d])
		}
	}
	var fields []fieldInfo
	for _, v := range outputFields {
		ok := true
		for _, d := range v.dims {
			if lengths[d] == 0 {
				ok = false
			}
		}
		if ok {
			fields = append(fields, v)
		}
	}

	h := cdf.NewHeader(dims, dimLengths)
	h.AddAttribute("", "comment", "Vertical coordinate and monitor function data file")
	h.AddAttribute("", "MaxGradientH", []float64{s.MaxGradientH})
	h.AddAttribute("", "MaxGradientHReduced", []float64{s.MaxGradientHReduced})
	h.AddAttribute("", "MaxGradientHGlobal", []float64{s.MaxGradientHGlobal})
	for _, v := range fields {
		h.AddVariable(v.name, v.dims, []float32{0})
		h.AddAttribute(v.name, "description", v.description)
		h.AddAttribute(v.name, "units", v.units)
	}
	h.Define()
	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return fmt.Errorf("vcoord: writing fields: %v", err)
	}
	for _, v := range fields {
		if err := writeNCF(f, v.name, v.data(g, s)); err != nil {
			return fmt.Errorf("vcoord: writing %s: %v", v.name, err)
		}
	}
	return nil
}

func writeNCF(f *cdf.File, Var string, data *sparse.DenseArray) error {
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(Var)
	start := make([]int, len(end))
	w := f.Writer(Var, start, end)
	_, err := w.Write(data32)
	return err
}

// ReadField reads the variable v from a NetCDF file created by WriteFields.
func ReadField(r cdf.ReaderWriterAt, v string) (*sparse.DenseArray, error) {
	f, err := cdf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("vcoord: reading %s: %v", v, err)
	}
	lengths := f.Header.Lengths(v)
	if lengths == nil {
		return nil, fmt.Errorf("vcoord: reading %s: no such variable", v)
	}
	out := sparse.ZerosDense(lengths...)
	data32 := make([]float32, len(out.Elements))
	if _, err := f.Reader(v, nil, nil).Read(data32); err != nil {
		return nil, fmt.Errorf("vcoord: reading %s: %v", v, err)
	}
	for i, e := range data32 {
		out.Elements[i] = float64(e)
	}
	return out, nil
}
