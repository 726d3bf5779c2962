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

import "github.com/ctessum/sparse"

// PhysicsStateView gives read-only access to the physical fields that the
// vertical coordinate depends on. The fields are owned by the physics
// solver and must not change during a coordinate update.
type PhysicsStateView interface {
	H(c int) float64      // free-surface elevation of cell c [m]
	Rho(c, k int) float64 // density of layer k in cell c
}

// PhysicsState is a simple holder for free-surface elevation and density.
type PhysicsState struct {
	Eta     []float64          // free-surface elevation per cell [m]
	Density *sparse.DenseArray // density (cell, layer)
}

// NewPhysicsState returns a PhysicsState with zero elevation and density
// sized for g.
func NewPhysicsState(g GridTopologyView) *PhysicsState {
	return &PhysicsState{
		Eta:     make([]float64, g.Nc()),
		Density: sparse.ZerosDense(g.Nc(), g.Nkmax()),
	}
}

// H returns the free-surface elevation of cell c.
func (p *PhysicsState) H(c int) float64 { return p.Eta[c] }

// Rho returns the density of layer k in cell c.
func (p *PhysicsState) Rho(c, k int) float64 { return p.Density.Get(c, k) }

// SetRho sets the density of layer k in cell c.
func (p *PhysicsState) SetRho(c, k int, v float64) {
	p.Density.Elements[p.Density.Index1d(c, k)] = v
}

// Params holds the run-time physical constants and monitor-function
// settings.
type Params struct {
	Gravity float64 // gravitational acceleration [m/s²]
	Rho0    float64 // reference density [kg/m³]

	Monitor MonitorParams
}

// DefaultParams returns the parameters used in production runs.
func DefaultParams() *Params {
	return &Params{
		Gravity: 9.81,
		Rho0:    1000,
		Monitor: DefaultMonitorParams(),
	}
}

// rScale is the gravity-derived scaling applied to density differences.
func (p *Params) rScale() float64 { return p.Gravity / 10 }

// gradientScale is the factor converting a density difference per unit
// length into the gradient used by the variational monitor function.
func (p *Params) gradientScale() float64 { return p.Rho0 * p.rScale() }

// columnDepth returns the total water-column depth of cell c.
func columnDepth(g GridTopologyView, phys PhysicsStateView, c int) float64 {
	return g.Dv(c) + phys.H(c)
}
