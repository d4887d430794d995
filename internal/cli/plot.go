/*
 * plot.go, part of ffbench.
 *
 * Copyright 2024 The ffbench authors
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

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/rmera/ffbench"
	"github.com/rmera/ffbench/internal/config"
	"github.com/rmera/ffbench/report"
	"github.com/spf13/cobra"
)

func newPlotCmd(a *app) *cobra.Command {
	var (
		pc    config.PlotConfig
		names []string
	)
	def := config.Default()
	cmd := &cobra.Command{
		Use:   "plot FORCEFIELD...",
		Short: "Compare the results of previous runs",
		Long: `Compares the benchmark results of one or more force fields. The results for
each force field are read from ROOT/INPUT_DIR/FORCEFIELD. With several input
directories, the results of all of them are put together.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			f := cmd.Flags()
			for flag, set := range map[string]func(){
				"input-dir":      func() { cfg.Plot.InputDirs = pc.InputDirs },
				"filter-records": func() { cfg.Plot.Records = pc.Records },
				"negate":         func() { cfg.Plot.Negate = pc.Negate },
				"output-dir":     func() { cfg.Plot.OutDir = pc.OutDir },
				"root":           func() { cfg.Plot.Root = pc.Root },
			} {
				if f.Changed(flag) {
					set()
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if len(names) == 0 {
				names = args
			}
			if len(names) != len(args) {
				return fmt.Errorf("plot: %d names given for %d force fields", len(names), len(args))
			}
			p := cfg.Plot
			opts := ffbench.LoadOptions{Logger: a.log}
			if p.Records != "" {
				ids, err := ffbench.ReadRecordList(p.Records)
				if err != nil {
					return err
				}
				opts.Filter = ffbench.NewRecordFilter(ids, p.Negate)
			}
			tables := make([]*ffbench.Table, 0, len(args))
			for i, ff := range args {
				dirs := make([]string, 0, len(p.InputDirs))
				for _, in := range p.InputDirs {
					dirs = append(dirs, filepath.Join(p.Root, in, ff))
				}
				T, err := ffbench.LoadRuns(names[i], dirs, opts)
				if err != nil {
					return err
				}
				tables = append(tables, T)
			}
			res, err := report.Run(tables, names, report.Options{
				OutDir:   p.OutDir,
				Outliers: cfg.Outliers,
				Logger:   a.log,
				Figure:   a.figure(),
			})
			if err != nil {
				return err
			}
			for m, ids := range res.Outliers {
				fmt.Fprintf(cmd.OutOrStdout(), "%s outliers: %v\n", m, ids)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringSliceVarP(&pc.InputDirs, "input-dir", "d", def.Plot.InputDirs, "input directory under the root, can be repeated")
	fl.StringVarP(&pc.Records, "filter-records", "r", "", "file with the record IDs to keep, one per line")
	fl.BoolVarP(&pc.Negate, "negate", "n", false, "keep the records not in the filter file instead")
	fl.StringVarP(&pc.OutDir, "output-dir", "o", def.Plot.OutDir, "output directory")
	fl.StringVar(&pc.Root, "root", def.Plot.Root, "directory with the results of the runs")
	fl.StringSliceVar(&names, "names", nil, "legend names for the force fields, in order")
	return cmd
}
