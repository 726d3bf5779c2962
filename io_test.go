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
	"io/ioutil"
	"os"
	"strings"
	"testing"
)

func loadTestCase(t *testing.T) (*Grid, *PhysicsState) {
	f, err := os.Open("testdata/case_0.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	g, phys, err := LoadCase(f)
	if err != nil {
		t.Fatal(err)
	}
	return g, phys
}

func TestLoadCase(t *testing.T) {
	g, phys := loadTestCase(t)
	if g.Nc() != 2 || g.Ne() != 3 || g.Nkmax() != 4 {
		t.Fatalf("grid size: nc=%d, ne=%d, nkmax=%d", g.Nc(), g.Ne(), g.Nkmax())
	}
	if g.Nk(1) != 3 {
		t.Errorf("Nk(1)=%d, want 3", g.Nk(1))
	}
	if nc1, nc2 := g.Grad(1); nc1 != 0 || nc2 != NoNeighbor {
		t.Errorf("Grad(1)=(%d, %d)", nc1, nc2)
	}
	if g.Dg(2) != 120 {
		t.Errorf("Dg(2)=%g, want 120", g.Dg(2))
	}
	if phys.H(1) != 0.5 {
		t.Errorf("H(1)=%g, want 0.5", phys.H(1))
	}
	if phys.Rho(1, 2) != 1004 || phys.Rho(1, 3) != 0 {
		t.Errorf("Rho(1, 2)=%g, Rho(1, 3)=%g", phys.Rho(1, 2), phys.Rho(1, 3))
	}
}

func TestLoadCaseInvalid(t *testing.T) {
	tests := []struct {
		name, data string
	}{
		{"syntax", "Nkmax = ["},
		{"too many densities", `Nkmax = 1
[[Cells]]
Depth = 1.0
Nk = 1
Rho = [1.0, 2.0]`},
		{"one-sided edge", `Nkmax = 1
[[Cells]]
Depth = 1.0
Nk = 1
[[Edges]]
Cells = [0]
Nke = 1
Distance = 1.0`},
		{"invalid grid", `Nkmax = 1
[[Cells]]
Depth = 1.0
Nk = 2`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, _, err := LoadCase(strings.NewReader(test.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestWriteReadFields(t *testing.T) {
	g, phys := loadTestCase(t)
	d, err := NewVertCoord(g, phys, nil, Variational, VariationalMethod, WithLogger(discardLogger()))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := d.Init(ctx); err != nil {
		t.Fatal(err)
	}
	if err := d.Step(ctx); err != nil {
		t.Fatal(err)
	}

	f, err := ioutil.TempFile("", "vcoord_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()
	if err := WriteFields(f, g, d.State); err != nil {
		t.Fatal(err)
	}

	for _, test := range []struct {
		name string
		want func(i, k int) float64
		dims []int
	}{
		{"dzz", g.Dzz, []int{2, 4}},
		{"Mc", d.State.McAt, []int{2, 4}},
		{"MeL", d.State.MeLAt, []int{3, 5}},
	} {
		t.Run(test.name, func(t *testing.T) {
			have, err := ReadField(f, test.name)
			if err != nil {
				t.Fatal(err)
			}
			if len(have.Shape) != 2 || have.Shape[0] != test.dims[0] || have.Shape[1] != test.dims[1] {
				t.Fatalf("shape: have %v, want %v", have.Shape, test.dims)
			}
			for i := 0; i < test.dims[0]; i++ {
				for k := 0; k < test.dims[1]; k++ {
					if want := test.want(i, k); absDifferent(have.Get(i, k), want, 1.e-4*want) {
						t.Errorf("(%d, %d): have %g, want %g", i, k, have.Get(i, k), want)
					}
				}
			}
		})
	}
	if _, err := ReadField(f, "velocity"); err == nil {
		t.Error("expected an error for a missing variable")
	}
}

func TestWriteFieldsNoEdges(t *testing.T) {
	g, phys := column(4, 4, 0, 10, 0, nil)
	s := NewMonitorFieldState(g)
	InitializeSigmaCoordinate(g, phys, s)

	f, err := ioutil.TempFile("", "vcoord_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()
	if err := WriteFields(f, g, s); err != nil {
		t.Fatal(err)
	}
	dsigma, err := ReadField(f, "dsigma")
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range dsigma.Elements {
		if v != 0.25 {
			t.Errorf("dsigma[%d]=%g, want 0.25", k, v)
		}
	}
	if _, err := ReadField(f, "MeL"); err == nil {
		t.Error("expected an error for the edge monitor function of a grid without edges")
	}
}
