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

// Package vcutil contains the command-line interface and configuration
// handling for VCoord.
package vcutil

import (
	"context"
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/vcoord"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to VCoord.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel specifies the minimum severity of log messages to
              print. Options are 'debug', 'info', 'warning', and 'error'.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "CaseFile",
			usage: `
              CaseFile is the path to the TOML file describing the grid
              partition and its initial physical state. If it contains
              '[rank]', that is replaced with the rank of each process.
              It can include environment variables.`,
			defaultVal: "${GOPATH}/src/github.com/spatialmodel/vcoord/testdata/case_[rank].toml",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where NetCDF output should be written.
              If it contains '[rank]', that is replaced with the rank of each
              process. It can include environment variables.`,
			defaultVal: "vcoord_[rank].nc",
			shorthand:  "o",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Scheme",
			usage: `
              Scheme is the vertical coordinate scheme. Options are 'user',
              'isopycnal', 'sigma', and 'variational'.`,
			defaultVal: "variational",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()},
		},
		{
			name: "MonitorMethod",
			usage: `
              MonitorMethod is the method used to calculate the monitor
              functions of the variational scheme. Options are 'variational'
              and 'average'.`,
			defaultVal: "variational",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()},
		},
		{
			name: "steps",
			usage: `
              steps is the number of coordinate update cycles to run after
              initialization.`,
			shorthand:  "n",
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()},
		},
		{
			name: "checkdepth",
			usage: `
              checkdepth specifies a relative tolerance for checking the
              layer thicknesses against the water column depth after every
              cycle. A negative value disables the check.`,
			defaultVal: -1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "procs",
			usage: `
              procs is the number of processes to simulate within this
              program, each with its own case file. It is ignored when
              nprocs is greater than one.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "nprocs",
			usage: `
              nprocs is the number of separate programs that share the
              domain. Values greater than one require rank and, on ranks other
              than 0, coordinator.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "rank",
			usage: `
              rank is the index of this program among nprocs programs. Rank 0
              hosts the coordinator.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "coordinator",
			usage: `
              coordinator is the address of the coordinator hosted by rank 0,
              for example 'host:6061'.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "rpcport",
			usage: `
              rpcport specifies the port to be used by rank 0 to host the
              coordinator.`,
			defaultVal: "6061",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "cell",
			usage: `
              cell is the index of the cell to plot.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{profileCmd.Flags()},
		},
		{
			name: "variable",
			usage: `
              variable is the variable to plot. Options are 'dzz', 'dzzold',
              'Mc', and 'rho'.`,
			defaultVal: "dzz",
			flagsets:   []*pflag.FlagSet{profileCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is the path where the PNG plot should be written.`,
			defaultVal: "profile.png",
			flagsets:   []*pflag.FlagSet{profileCmd.Flags()},
		},
		{
			name: "Physics.Gravity",
			usage: `
              Physics.Gravity is the gravitational acceleration [m/s²].`,
			defaultVal: 9.81,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()},
		},
		{
			name: "Physics.Rho0",
			usage: `
              Physics.Rho0 is the reference density [kg/m³].`,
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()},
		},
		{
			name: "Monitor.AlphaV",
			usage: `
              Monitor.AlphaV is the weight of the vertical density gradient
              in the cell monitor function. The horizontal weight is twice
              this value.`,
			defaultVal: 10e-5,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()},
		},
		{
			name: "Monitor.AlphaHDiffusion",
			usage: `
              Monitor.AlphaHDiffusion is the horizontal diffusion weight that
              multiplies the edge monitor function.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()},
		},
		{
			name: "Monitor.MaxM",
			usage: `
              Monitor.MaxM is the upper limit of the cell monitor function.`,
			defaultVal: 2.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()},
		},
		{
			name: "Monitor.MinM",
			usage: `
              Monitor.MinM is the lower limit of the cell monitor function
              of the average method.`,
			defaultVal: 0.15,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()},
		},
		{
			name: "Monitor.AlphaM",
			usage: `
              Monitor.AlphaM is the weight of the normalized vertical density
              gradient in the average method.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()},
		},
		{
			name: "Monitor.AverageScale",
			usage: `
              Monitor.AverageScale is the factor applied to density
              differences by the average method.`,
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()},
		},
		{
			name: "Monitor.CellFormulation",
			usage: `
              Monitor.CellFormulation selects the variational cell monitor
              function. Options are 'unnormalized', 'normalized', and 'damped'.`,
			defaultVal: "unnormalized",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()},
		},
		{
			name: "Monitor.NearBottomFraction",
			usage: `
              Monitor.NearBottomFraction, if greater than zero, is the
              fraction of the layers of each cell below which a weaker cell
              monitor function is used.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()},
		},
		{
			name: "Monitor.Normalization",
			usage: `
              Monitor.Normalization selects the denominator for the horizontal
              density gradient. 'fixed' always uses one and 'floor' uses the
              largest gradient across all processes, but at least one.`,
			defaultVal: "fixed",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("VCOORD")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
			Cfg.BindEnv(option.name)
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(profileCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("vcoord: problem reading configuration file: %v", err)
		}
	}
	return setLogging(Cfg.GetString("LogLevel"))
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "vcoord",
	Short: "Vertical coordinates for unstructured ocean models.",
	Long: `VCoord computes layer thicknesses and variational monitor functions for
the vertical coordinate of an unstructured, terrain-following ocean grid.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'VCOORD_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of VCoord.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("VCoord v%s\n", vcoord.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd initializes the vertical coordinate, runs update cycles, and
// writes the results.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the vertical coordinate.",
	Long: `run initializes the vertical coordinate of one or more grid partitions,
runs the requested number of update cycles, and writes the layer thicknesses
and monitor functions to NetCDF files.

To run several partitions within this program, set --procs. To run one
partition per program, start each program with the same --nprocs and its own
--rank; rank 0 hosts the coordinator on --rpcport and the others connect to
it at --coordinator.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := runConfig(Cfg)
		if err != nil {
			return err
		}
		return Run(context.Background(), c)
	},
	DisableAutoGenTag: true,
}

// profileCmd plots the vertical profile of a single cell.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Plot a vertical profile.",
	Long: `profile initializes the vertical coordinate of a single grid partition,
runs the requested number of update cycles, and writes a PNG plot of one
variable in one cell.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := runConfig(Cfg)
		if err != nil {
			return err
		}
		return Profile(context.Background(), c, Cfg.GetString("variable"),
			Cfg.GetInt("cell"), os.ExpandEnv(Cfg.GetString("PlotFile")))
	},
	DisableAutoGenTag: true,
}
