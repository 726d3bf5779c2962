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

package vcutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/vcoord"
	"github.com/spf13/cast"
)

// RunConfig holds the settings for a run.
type RunConfig struct {
	CaseFile, OutputFile string // may contain [rank]
	Scheme               vcoord.Scheme
	Method               vcoord.MonitorMethod
	Params               *vcoord.Params
	Steps                int
	CheckDepth           float64 // negative to disable

	Procs       int // in-process partitions
	NProcs      int // separate programs
	Rank        int
	Coordinator string
	RPCPort     string
}

// runConfig reads the run settings from cfg.
func runConfig(cfg *viper.Viper) (*RunConfig, error) {
	c := &RunConfig{
		CaseFile:    os.ExpandEnv(cfg.GetString("CaseFile")),
		OutputFile:  os.ExpandEnv(cfg.GetString("OutputFile")),
		Coordinator: os.ExpandEnv(cfg.GetString("coordinator")),
		RPCPort:     cfg.GetString("rpcport"),
	}
	var err error
	if c.Scheme, err = vcoord.ParseScheme(cfg.GetString("Scheme")); err != nil {
		return nil, err
	}
	if c.Method, err = vcoord.ParseMonitorMethod(cfg.GetString("MonitorMethod")); err != nil {
		return nil, err
	}
	if c.Params, err = Params(cfg); err != nil {
		return nil, err
	}
	for _, v := range []struct {
		name string
		dst  *int
	}{
		{"steps", &c.Steps},
		{"procs", &c.Procs},
		{"nprocs", &c.NProcs},
		{"rank", &c.Rank},
	} {
		if *v.dst, err = cast.ToIntE(cfg.Get(v.name)); err != nil {
			return nil, fmt.Errorf("vcoord: invalid value for %s: %v", v.name, err)
		}
	}
	if c.CheckDepth, err = cast.ToFloat64E(cfg.Get("checkdepth")); err != nil {
		return nil, fmt.Errorf("vcoord: invalid value for checkdepth: %v", err)
	}
	if c.Steps < 0 {
		return nil, fmt.Errorf("vcoord: steps must not be negative but is %d", c.Steps)
	}
	if c.Procs < 1 || c.NProcs < 1 {
		return nil, fmt.Errorf("vcoord: procs and nprocs must be at least 1")
	}
	if c.Rank < 0 || c.Rank >= c.NProcs {
		return nil, fmt.Errorf("vcoord: rank %d is outside of [0, %d)", c.Rank, c.NProcs)
	}
	if c.NProcs > 1 && c.Rank != 0 && c.Coordinator == "" {
		return nil, fmt.Errorf("vcoord: the coordinator address must be specified for rank %d", c.Rank)
	}
	return c, nil
}

// Params reads the physical and monitor function parameters from cfg.
func Params(cfg *viper.Viper) (*vcoord.Params, error) {
	p := vcoord.DefaultParams()
	for _, v := range []struct {
		name string
		dst  *float64
	}{
		{"Physics.Gravity", &p.Gravity},
		{"Physics.Rho0", &p.Rho0},
		{"Monitor.AlphaV", &p.Monitor.AlphaV},
		{"Monitor.AlphaHDiffusion", &p.Monitor.AlphaHDiffusion},
		{"Monitor.MaxM", &p.Monitor.MaxM},
		{"Monitor.MinM", &p.Monitor.MinM},
		{"Monitor.AlphaM", &p.Monitor.AlphaM},
		{"Monitor.AverageScale", &p.Monitor.AverageScale},
		{"Monitor.NearBottomFraction", &p.Monitor.NearBottomFraction},
	} {
		if !cfg.IsSet(v.name) {
			continue
		}
		f, err := cast.ToFloat64E(cfg.Get(v.name))
		if err != nil {
			return nil, fmt.Errorf("vcoord: invalid value for %s: %v", v.name, err)
		}
		*v.dst = f
	}
	var err error
	if s := cfg.GetString("Monitor.CellFormulation"); s != "" {
		if p.Monitor.Formulation, err = vcoord.ParseCellFormulation(s); err != nil {
			return nil, err
		}
	}
	if s := cfg.GetString("Monitor.Normalization"); s != "" {
		if p.Monitor.Normalization, err = vcoord.ParseNormalization(s); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// rankPath replaces [rank] in path with rank.
func rankPath(path string, rank int) string {
	return strings.Replace(path, "[rank]", strconv.Itoa(rank), -1)
}

// setLogging sets the level and format of the standard logger.
func setLogging(level string) error {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("vcoord: %v", err)
	}
	logrus.SetLevel(l)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})
	return nil
}
