/*
 * root.go, part of ffinspector.
 *
 * Copyright 2026 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rmera/ffinspector/chem"
	"github.com/rmera/ffinspector/chemjson"
	"github.com/rmera/ffinspector/forcefield"
	"github.com/rmera/ffinspector/internal/config"
	"github.com/rmera/ffinspector/internal/logging"
	v3 "github.com/rmera/ffinspector/v3"
)

//Version is set at build time.
var Version = "dev"

//app holds what every command needs, set up before the command runs.
type app struct {
	v        *viper.Viper
	cfgPath  string
	cfg      *config.Config
	logger   *zap.Logger
	registry *forcefield.Registry
	out      io.Writer

	//force field selection, shared by the molecule commands
	ffName string
	ffFile string
}

//NewRootCommand returns the ffinspect command with all its subcommands.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New(), out: os.Stdout}
	root := &cobra.Command{
		Use:           "ffinspect",
		Short:         "Inspect how a force field treats a molecule",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.out = cmd.OutOrStdout()
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				a.logger.Sync()
			}
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", "", "configuration file (YAML)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-format", "console", "log format: json or console")
	pf.String("forcefield-dir", "", "directory with additional force field documents")
	a.v.BindPFlag("log.level", pf.Lookup("log-level"))
	a.v.BindPFlag("log.format", pf.Lookup("log-format"))
	a.v.BindPFlag("registry.dir", pf.Lookup("forcefield-dir"))

	root.AddCommand(
		a.labelCommand(),
		a.energyCommand(),
		a.minimizeCommand(),
		a.geometryCommand(),
		a.forceFieldsCommand(),
		a.serveCommand(),
	)
	return root
}

func (a *app) setup() error {
	if a.cfgPath != "" {
		a.v.SetConfigFile(a.cfgPath)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading %s: %w", a.cfgPath, err)
		}
	}
	cfg, err := config.FromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger, err = logging.New(cfg.Log)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(a.logger)
	a.registry, err = forcefield.NewRegistry(a.logger)
	if err != nil {
		return err
	}
	if cfg.Registry.Dir != "" {
		n, err := a.registry.LoadDir(cfg.Registry.Dir)
		if err != nil {
			return err
		}
		a.logger.Debug("force fields loaded", zap.String("dir", cfg.Registry.Dir), zap.Int("count", n))
	}
	return nil
}

//forceFieldFlags adds the flags that select the force field to cmd.
func (a *app) forceFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.ffName, "forcefield", "f", "", "name of a registered force field (default reference-1.0.0)")
	cmd.Flags().StringVar(&a.ffFile, "forcefield-file", "", "force field document to use instead of a registered one")
}

func (a *app) forceField() (*forcefield.ForceField, error) {
	src := forcefield.Source{Name: a.ffName}
	if a.ffFile != "" {
		data, err := os.ReadFile(a.ffFile)
		if err != nil {
			return nil, err
		}
		src.Document = string(data)
	} else if src.Name == "" {
		src.Name = "reference-1.0.0"
	}
	return src.Resolve(a.registry)
}

//readMolecule reads a molecule from an SDF/MOL file or a chemjson file, by extension.
func readMolecule(path string) (*chem.Topology, []*v3.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	var mol *chemjson.Molecule
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sdf", ".mol":
		mol, err = chemjson.FromSDF(f)
	case ".json":
		mol, err = chemjson.Decode(f)
	default:
		return nil, nil, fmt.Errorf("%s: unknown molecule format, use .sdf, .mol or .json", path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	top, err := mol.Topology()
	if err != nil {
		return nil, nil, err
	}
	coords, err := mol.Coordinates()
	if err != nil {
		return nil, nil, err
	}
	if top.Name == "" {
		top.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return top, coords, nil
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
