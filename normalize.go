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
	"context"
	"fmt"
	"math"
)

// Normalization selects the denominator used to normalize the horizontal
// density gradient before it is converted into the edge monitor function.
type Normalization int

const (
	// FixedNormalization always divides by one. The gradient magnitude is
	// still reduced across processes and recorded.
	FixedNormalization Normalization = iota

	// FloorNormalization divides by the largest gradient magnitude across
	// all processes, or by one if that is smaller.
	FloorNormalization
)

func (n Normalization) String() string {
	switch n {
	case FixedNormalization:
		return "fixed"
	case FloorNormalization:
		return "floor"
	}
	return fmt.Sprintf("Normalization(%d)", int(n))
}

// ParseNormalization returns the normalization policy with the given name.
func ParseNormalization(s string) (Normalization, error) {
	switch s {
	case "fixed":
		return FixedNormalization, nil
	case "floor":
		return FloorNormalization, nil
	}
	return 0, fmt.Errorf("vcoord: invalid edge monitor normalization %q; valid options are 'fixed' and 'floor'", s)
}

func (n Normalization) denominator(reduced float64) float64 {
	if n == FloorNormalization && reduced > 1 {
		return reduced
	}
	return 1
}

// NormalizeEdgeMonitor finds the largest horizontal density gradient across
// all processes in c and converts the gradients stored in s.MeL by
// EdgeMonitor into edge monitor values,
// MeL = α_H·sqrt(1+αH·(MeL/den)²), where den depends on the normalization
// policy. It is a collective operation: every process must call it once per
// update, and the result is identical on all of them.
func NormalizeEdgeMonitor(ctx context.Context, c Communicator, g *Grid, p *Params, s *MonitorFieldState) error {
	reduced, err := GlobalMax(ctx, c, s.MaxGradientH)
	if err != nil {
		return fmt.Errorf("vcoord: finding global horizontal gradient: %v", err)
	}
	s.MaxGradientHReduced = reduced
	s.MaxGradientHGlobal = p.Monitor.Normalization.denominator(reduced)

	den := s.MaxGradientHGlobal
	alphaH := p.Monitor.AlphaH()
	diffusion := p.Monitor.AlphaHDiffusion
	calculate(g.Ne(), func(j int) float64 {
		for k := g.Etop(j); k <= g.Nke(j); k++ {
			r := s.MeLAt(j, k) / den
			s.setMeL(j, k, diffusion*math.Sqrt(1+alphaH*r*r))
		}
		return 0
	})
	return nil
}
