/*
 * commands.go, part of ffinspector.
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
	"fmt"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	inspector "github.com/rmera/ffinspector"
	"github.com/rmera/ffinspector/chemplot"
	"github.com/rmera/ffinspector/internal/cache"
	"github.com/rmera/ffinspector/internal/metrics"
	"github.com/rmera/ffinspector/internal/server"
	"github.com/rmera/ffinspector/traj/xyz"
)

func (a *app) labelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label MOLECULE",
		Short: "Print the parameters the force field applies to the molecule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			top, _, err := readMolecule(args[0])
			if err != nil {
				return err
			}
			ff, err := a.forceField()
			if err != nil {
				return err
			}
			applied, err := inspector.Label(top, ff)
			if err != nil {
				return err
			}
			return a.printJSON(applied)
		},
	}
	a.forceFieldFlags(cmd)
	return cmd
}

func (a *app) energyCommand() *cobra.Command {
	var plot string
	var table bool
	cmd := &cobra.Command{
		Use:   "energy MOLECULE",
		Short: "Decompose the potential energy of every conformer by parameter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			top, coords, err := readMolecule(args[0])
			if err != nil {
				return err
			}
			ff, err := a.forceField()
			if err != nil {
				return err
			}
			ret := make([]*inspector.DecomposedEnergy, len(coords))
			for i, c := range coords {
				ret[i], err = inspector.Decompose(top, ff, c, inspector.WithLogger(a.logger), inspector.WithContext(cmd.Context()))
				if err != nil {
					return fmt.Errorf("conformer %d: %w", i, err)
				}
				if plot != "" {
					name := plot
					if len(coords) > 1 {
						name = numbered(plot, i)
					}
					title := fmt.Sprintf("%s, conformer %d", top.Name, i)
					if err := chemplot.Decomposition(ret[i], title, name); err != nil {
						return err
					}
				}
			}
			if table {
				return a.energyTable(ret)
			}
			return a.printJSON(ret)
		},
	}
	a.forceFieldFlags(cmd)
	cmd.Flags().StringVar(&plot, "plot", "", "save a bar chart of the decomposition to this file (png, svg, pdf)")
	cmd.Flags().BoolVar(&table, "table", false, "print a table instead of JSON")
	return cmd
}

func (a *app) energyTable(ds []*inspector.DecomposedEnergy) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for i, d := range ds {
		fmt.Fprintf(w, "conformer %d\t\t\n", i)
		for _, h := range inspector.GroupedHandlers {
			for _, id := range sortedKeys(d.ValenceEnergies[h]) {
				fmt.Fprintf(w, "\t%s %s\t%.6f\n", h, id, d.ValenceEnergies[h][id])
			}
		}
		fmt.Fprintf(w, "\tvdW\t%.6f\n\telectrostatics\t%.6f\n\ttotal\t%.6f\n", d.VdWEnergy, d.ElectrostaticEnergy, d.Total())
	}
	return w.Flush()
}

func (a *app) minimizeCommand() *cobra.Command {
	var trajectory, plot string
	cmd := &cobra.Command{
		Use:   "minimize MOLECULE",
		Short: "Minimize the first conformer of the molecule and print the energy of each frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			top, coords, err := readMolecule(args[0])
			if err != nil {
				return err
			}
			ff, err := a.forceField()
			if err != nil {
				return err
			}
			m := a.cfg.Minimizer
			start := time.Now()
			t, err := inspector.Minimize(top, ff, coords[0],
				inspector.WithTolerance(m.Tolerance),
				inspector.WithMaxIterations(m.MaxIterations),
				inspector.WithGradientThreshold(m.GradientThreshold),
				inspector.WithLogger(a.logger),
				inspector.WithContext(cmd.Context()))
			if err != nil {
				return err
			}
			rmsd, err := t.RMSD()
			if err != nil {
				return err
			}
			a.logger.Info("minimized", zap.String("molecule", top.Name), zap.Int("frames", t.Len()),
				zap.Float64("rmsd", rmsd[len(rmsd)-1]), zap.Duration("elapsed", time.Since(start)))
			if trajectory != "" {
				symbols := make([]string, top.Len())
				for i, at := range top.Atoms {
					symbols[i] = at.Symbol
				}
				w, err := xyz.NewWriter(trajectory, symbols)
				if err != nil {
					return err
				}
				for i, f := range t.Frames {
					c, err := f.Conformer()
					if err == nil {
						err = w.WNext(c, fmt.Sprintf("%s frame %d E = %.6f kJ/mol", top.Name, i, f.PotentialEnergy))
					}
					if err != nil {
						w.Close()
						return err
					}
				}
				if err := w.Close(); err != nil {
					return err
				}
			}
			if plot != "" {
				if err := chemplot.EnergyProfile(t.Energies(), top.Name, plot); err != nil {
					return err
				}
			}
			return a.printJSON(t.Energies())
		},
	}
	a.forceFieldFlags(cmd)
	cmd.Flags().StringVar(&trajectory, "trajectory", "", "write the frames to this XYZ file (.gz and .zst compress it)")
	cmd.Flags().StringVar(&plot, "plot", "", "save the energy profile to this file (png, svg, pdf)")
	cmd.Flags().Float64("tolerance", 0, "absolute energy tolerance, kJ/mol")
	cmd.Flags().Int("max-iterations", 0, "maximum optimizer iterations")
	a.v.BindPFlag("minimizer.tolerance", cmd.Flags().Lookup("tolerance"))
	a.v.BindPFlag("minimizer.max_iterations", cmd.Flags().Lookup("max-iterations"))
	return cmd
}

func (a *app) geometryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "geometry MOLECULE",
		Short: "Print the bond lengths, angles, torsions and hydrogen bonds of every conformer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			top, coords, err := readMolecule(args[0])
			if err != nil {
				return err
			}
			ret := make([]*inspector.GeometrySummary, len(coords))
			for i, c := range coords {
				if ret[i], err = inspector.SummarizeGeometry(top, c); err != nil {
					return err
				}
			}
			return a.printJSON(ret)
		},
	}
}

func (a *app) forceFieldsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forcefields [NAME]",
		Short: "List the registered force fields, or print one of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, n := range a.registry.Names() {
					fmt.Fprintln(a.out, n)
				}
				return nil
			}
			ff, err := a.registry.Get(args[0])
			if err != nil {
				return err
			}
			return ff.Encode(a.out)
		},
	}
	return cmd
}

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the inspector over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var c *cache.Cache
			if a.cfg.Cache.Enabled {
				var store cache.Store
				if addr := a.cfg.Cache.RedisAddr; addr != "" {
					r, err := cache.NewRedis(ctx, addr, a.cfg.Cache.RedisPassword, a.cfg.Cache.RedisDB)
					if err != nil {
						return err
					}
					store = r
				} else {
					store = cache.NewMemory(a.cfg.Cache.MemoryEntries)
				}
				c = cache.New(store, a.cfg.Cache.TTL, a.logger)
				defer c.Close()
			}
			if a.cfg.Registry.Watch && a.cfg.Registry.Dir != "" {
				go func() {
					if err := a.registry.Watch(ctx, a.cfg.Registry.Dir); err != nil {
						a.logger.Error("force field watcher stopped", zap.Error(err))
					}
				}()
			}
			return server.New(*a.cfg, a.registry, c, metrics.New(), a.logger).Run(ctx)
		},
	}
	f := cmd.Flags()
	f.String("addr", ":8080", "address to listen on")
	f.String("redis", "", "redis address for the energy cache (default: in-memory cache)")
	f.Bool("watch", false, "reload force fields when the files in --forcefield-dir change")
	a.v.BindPFlag("server.addr", f.Lookup("addr"))
	a.v.BindPFlag("cache.redis_addr", f.Lookup("redis"))
	a.v.BindPFlag("registry.watch", f.Lookup("watch"))
	return cmd
}

//numbered inserts _i before the extension of name.
func numbered(name string, i int) string {
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%d%s", name[:len(name)-len(ext)], i, ext)
}

func sortedKeys(m map[string]float64) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
