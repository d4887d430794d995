/*
 * run.go, part of ffbench.
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
	"github.com/rmera/ffbench"
	"github.com/rmera/ffbench/internal/config"
	"github.com/rmera/ffbench/report"
	"github.com/rmera/ffbench/store"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		rc     config.RunConfig
		python string
	)
	def := config.Default()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Optimize a dataset with a force field and report the errors",
		Long: `Optimizes all the molecules in a dataset with a force field, writes the
dde, rmsd, tfd and icrmsd files to the output directory, and plots them there.
An existing database is reused unless --invalidate-cache is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			f := cmd.Flags()
			for flag, set := range map[string]func(){
				"forcefield":       func() { cfg.Run.ForceField = rc.ForceField },
				"dataset":          func() { cfg.Run.Dataset = rc.Dataset },
				"sqlite-file":      func() { cfg.Run.Database = rc.Database },
				"out-dir":          func() { cfg.Run.OutDir = rc.OutDir },
				"procs":            func() { cfg.Run.Procs = rc.Procs },
				"invalidate-cache": func() { cfg.Run.InvalidateCache = rc.InvalidateCache },
				"python":           func() { cfg.Python = python },
			} {
				if f.Changed(flag) {
					set()
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			r := cfg.Run
			s := store.NewExternal(cfg.Python, r.Database, r.Dataset, a.log)
			M, err := store.Bench(cmd.Context(), s, store.Options{
				ForceField:      r.ForceField,
				Dataset:         r.Dataset,
				Database:        r.Database,
				OutDir:          r.OutDir,
				Procs:           r.Procs,
				InvalidateCache: r.InvalidateCache,
				Logger:          a.log,
			})
			if err != nil {
				return err
			}
			a.log.Info("benchmark written", "dir", r.OutDir, "run_id", M.RunID)
			T, err := ffbench.LoadDir(r.OutDir, ffbench.LoadOptions{Logger: a.log})
			if err != nil {
				return err
			}
			_, err = report.Run([]*ffbench.Table{T}, []string{r.ForceField}, report.Options{
				OutDir:   r.OutDir,
				Outliers: cfg.Outliers,
				Logger:   a.log,
				Figure:   a.figure(),
			})
			return err
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&rc.ForceField, "forcefield", "f", def.Run.ForceField, "force field file")
	fl.StringVarP(&rc.Dataset, "dataset", "d", def.Run.Dataset, "cached dataset, used if the database doesn't exist")
	fl.StringVarP(&rc.Database, "sqlite-file", "s", def.Run.Database, "database file")
	fl.StringVarP(&rc.OutDir, "out-dir", "o", def.Run.OutDir, "output directory")
	fl.IntVarP(&rc.Procs, "procs", "p", def.Run.Procs, "number of processes for the optimizations")
	fl.BoolVarP(&rc.InvalidateCache, "invalidate-cache", "i", false, "remove the database before starting")
	fl.StringVar(&python, "python", def.Python, "Python interpreter with yammbs")
	return cmd
}
