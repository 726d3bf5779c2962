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
	"math"
)

// CellFormulation selects how a vertical density gradient is converted
// into a cell monitor value by the variational method.
type CellFormulation int

const (
	// Unnormalized uses sqrt(1+αV·g²). It is the production formulation.
	Unnormalized CellFormulation = iota

	// Normalized uses sqrt(1+αV·(g/gmax)²), where gmax is the largest
	// gradient magnitude in the column, and saturates at MaxM once
	// g/gmax exceeds (MaxM-1)/sqrt(αV).
	Normalized

	// Damped uses sqrt(1+αV·g²/10) in layers where g/gmax exceeds 0.9
	// and the production formulation elsewhere.
	Damped
)

var cellFormulationNames = map[CellFormulation]string{
	Unnormalized: "unnormalized",
	Normalized:   "normalized",
	Damped:       "damped",
}

func (f CellFormulation) String() string {
	if s, ok := cellFormulationNames[f]; ok {
		return s
	}
	return fmt.Sprintf("CellFormulation(%d)", int(f))
}

// ParseCellFormulation returns the formulation with the given name.
func ParseCellFormulation(s string) (CellFormulation, error) {
	for f, name := range cellFormulationNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("vcoord: invalid cell monitor formulation %q; valid options are "+
		"'unnormalized', 'normalized', and 'damped'", s)
}

// MonitorParams holds the monitor-function settings.
type MonitorParams struct {
	AlphaV          float64 // weight of the vertical density gradient
	AlphaHDiffusion float64 // weight of horizontal diffusion (α_H)
	MaxM            float64 // upper limit of the cell monitor function
	MinM            float64 // lower limit of the cell monitor function (average method)

	// AlphaM is the weight of the normalized vertical density gradient in
	// the average method and AverageScale is the factor it applies to
	// density differences.
	AlphaM       float64
	AverageScale float64

	Formulation CellFormulation

	// NearBottomFraction, if positive, replaces the monitor function in layers
	// deeper than NearBottomFraction·Nk with the weakly varying 1+0.1·g/gmax.
	NearBottomFraction float64

	Normalization Normalization
}

// DefaultMonitorParams returns the monitor settings used in production runs.
func DefaultMonitorParams() MonitorParams {
	return MonitorParams{
		AlphaV:          10e-5,
		AlphaHDiffusion: 1,
		MaxM:            2,
		MinM:            0.15,
		AlphaM:          0,
		AverageScale:    1000,
		Formulation:     Unnormalized,
		Normalization:   FixedNormalization,
	}
}

// AlphaH is the weight of the horizontal density gradient.
func (m *MonitorParams) AlphaH() float64 { return 2 * m.AlphaV }

// variational converts the gradient g of layer k in a column with nk
// layers into a monitor value. gmax is the largest gradient magnitude in
// the column, floored at one.
func (m *MonitorParams) variational(g, gmax float64, k, nk int) float64 {
	if m.NearBottomFraction > 0 && float64(k) > m.NearBottomFraction*float64(nk) {
		return math.Min(1+0.1*g/gmax, m.MaxM)
	}
	if m.AlphaV == 0 {
		return math.Min(1, m.MaxM)
	}
	var mc float64
	switch m.Formulation {
	case Normalized:
		r := g / gmax
		if r > (m.MaxM-1)/math.Sqrt(m.AlphaV) {
			mc = m.MaxM
		} else {
			mc = math.Sqrt(1 + m.AlphaV*r*r)
		}
	case Damped:
		if g/gmax > 0.9 {
			mc = math.Sqrt(1 + m.AlphaV*g*g/10)
		} else {
			mc = math.Sqrt(1 + m.AlphaV*g*g)
		}
	default:
		mc = math.Sqrt(1 + m.AlphaV*g*g)
	}
	return math.Min(mc, m.MaxM)
}

// cellGradients stores the vertical density gradient of every active layer
// of cell i in s.Mc and returns the largest gradient magnitude, floored at
// one. Inactive layers are zeroed.
func cellGradients(g *Grid, phys PhysicsStateView, s *MonitorFieldState, i int, scale float64) float64 {
	ctop, nk := g.Ctop(i), g.Nk(i)
	for k := 0; k < nk; k++ {
		s.setMc(i, k, 0)
	}
	gmax := 0.
	track := func(k int, v float64) {
		s.setMc(i, k, v)
		if math.Abs(v) > gmax {
			gmax = math.Abs(v)
		}
	}
	for k := ctop + 1; k < nk-1; k++ {
		track(k, scale*(phys.Rho(i, k-1)-phys.Rho(i, k+1))/
			(0.5*g.Dzz(i, k-1)+g.Dzz(i, k)+0.5*g.Dzz(i, k+1)))
	}
	// A column with a single active layer has no gradient.
	if ctop+1 < nk {
		k := ctop
		track(k, scale*(phys.Rho(i, k)-phys.Rho(i, k+1))/
			(0.5*g.Dzz(i, k)+0.5*g.Dzz(i, k+1)))
		k = nk - 1
		track(k, scale*(phys.Rho(i, k-1)-phys.Rho(i, k))/
			(0.5*g.Dzz(i, k-1)+0.5*g.Dzz(i, k)))
	}
	if gmax < 1 {
		gmax = 1
	}
	return gmax
}

// VariationalCellMonitor calculates the cell monitor function of the
// variational method, Mc = sqrt(1+αV·(∂ρ/∂z)²) limited to MaxM, for every
// active layer of every cell.
func VariationalCellMonitor(g *Grid, p *Params, phys PhysicsStateView, s *MonitorFieldState) {
	scale := p.gradientScale()
	calculate(g.Nc(), func(i int) float64 {
		gmax := cellGradients(g, phys, s, i, scale)
		nk := g.Nk(i)
		for k := g.Ctop(i); k < nk; k++ {
			s.setMc(i, k, p.Monitor.variational(s.McAt(i, k), gmax, k, nk))
		}
		return 0
	})
}

// AverageCellMonitor calculates the cell monitor function used by the
// averaging regridding strategy, Mc = sqrt(1+αM·(g/gmax)²) limited below
// by MinM, and the per-cell sum of 1/Mc.
func AverageCellMonitor(g *Grid, p *Params, phys PhysicsStateView, s *MonitorFieldState) {
	m := &p.Monitor
	calculate(g.Nc(), func(i int) float64 {
		gmax := cellGradients(g, phys, s, i, m.AverageScale)
		s.Msum[i] = 0
		for k := g.Ctop(i); k < g.Nk(i); k++ {
			r := s.McAt(i, k) / gmax
			mc := math.Sqrt(1 + m.AlphaM*r*r)
			if mc < m.MinM {
				mc = m.MinM
			}
			s.setMc(i, k, mc)
			s.Msum[i] += 1 / mc
		}
		return 0
	})
}

// CellMonitor returns the cell monitor calculation for the given method.
func CellMonitor(method MonitorMethod) func(*Grid, *Params, PhysicsStateView, *MonitorFieldState) {
	if method == AverageMethod {
		return AverageCellMonitor
	}
	return VariationalCellMonitor
}
