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

	"github.com/sirupsen/logrus"
)

// Scheme is a vertical coordinate scheme.
type Scheme int

// The available vertical coordinate schemes.
const (
	User Scheme = iota
	Isopycnal
	Sigma
	Variational
)

var schemeNames = []string{"user", "isopycnal", "sigma", "variational"}

func (s Scheme) String() string {
	if s >= 0 && int(s) < len(schemeNames) {
		return schemeNames[s]
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

// ParseScheme returns the scheme with the given name.
func ParseScheme(s string) (Scheme, error) {
	for i, name := range schemeNames {
		if name == s {
			return Scheme(i), nil
		}
	}
	return 0, fmt.Errorf("vcoord: invalid vertical coordinate scheme %q; valid options are "+
		"'user', 'isopycnal', 'sigma', and 'variational'", s)
}

// MonitorMethod is the strategy used to calculate the monitor functions of
// the variational scheme.
type MonitorMethod int

const (
	// VariationalMethod calculates both the cell and the edge monitor
	// functions.
	VariationalMethod MonitorMethod = iota

	// AverageMethod calculates the cell monitor function together with its
	// per-cell sum, for use with averaging regridding.
	AverageMethod
)

func (m MonitorMethod) String() string {
	switch m {
	case VariationalMethod:
		return "variational"
	case AverageMethod:
		return "average"
	}
	return fmt.Sprintf("MonitorMethod(%d)", int(m))
}

// ParseMonitorMethod returns the monitor method with the given name.
func ParseMonitorMethod(s string) (MonitorMethod, error) {
	switch s {
	case "variational":
		return VariationalMethod, nil
	case "average":
		return AverageMethod, nil
	}
	return 0, fmt.Errorf("vcoord: invalid monitor method %q; valid options are 'variational' and 'average'", s)
}

// Option configures a VertCoord.
type Option func(*VertCoord)

// WithCommunicator sets the communicator used for collective operations.
func WithCommunicator(c Communicator) Option {
	return func(d *VertCoord) { d.Comm = c }
}

// WithHook sets the user-defined coordinate hook.
func WithHook(h UserHook) Option {
	return func(d *VertCoord) { d.Hook = h }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *VertCoord) { d.Log = l }
}

// WithRunFuncs appends f to the functions run at every update cycle, after
// the scheme's own functions.
func WithRunFuncs(f ...DomainManipulator) Option {
	return func(d *VertCoord) { d.RunFuncs = append(d.RunFuncs, f...) }
}

// NewVertCoord creates a vertical coordinate for grid g using scheme.
// The monitor method is only used by the variational scheme. If p is nil,
// DefaultParams is used.
//
// Initialization runs the scheme's initializer followed by the
// initialization hook. Each update cycle runs, depending on the scheme:
//
//	sigma:       the sigma thickness update
//	variational: the cell monitor function and, with the variational
//	             method, the edge monitor function and its normalization
//	user, isopycnal: nothing
//
// followed by the update hook and a status log entry.
func NewVertCoord(g *Grid, phys PhysicsStateView, p *Params, scheme Scheme, method MonitorMethod, options ...Option) (*VertCoord, error) {
	if scheme < User || scheme > Variational {
		return nil, fmt.Errorf("vcoord: invalid scheme %v", scheme)
	}
	if method != VariationalMethod && method != AverageMethod {
		return nil, fmt.Errorf("vcoord: invalid monitor method %v", method)
	}
	if p == nil {
		p = DefaultParams()
	}
	d := &VertCoord{
		Grid:    g,
		Physics: phys,
		Params:  p,
		State:   NewMonitorFieldState(g),
		Scheme:  scheme,
		Method:  method,
		InitFuncs: []DomainManipulator{
			InitializeScheme(scheme),
			UserInit(),
		},
	}
	switch scheme {
	case Sigma:
		d.RunFuncs = append(d.RunFuncs, SigmaUpdate())
	case Variational:
		d.RunFuncs = append(d.RunFuncs, CellMonitorFunction(method))
		if method == VariationalMethod {
			d.RunFuncs = append(d.RunFuncs, EdgeMonitorFunction())
		}
	}
	d.RunFuncs = append(d.RunFuncs, UserUpdate(), Log())
	for _, o := range options {
		o(d)
	}
	d.setDefaults()
	return d, nil
}
