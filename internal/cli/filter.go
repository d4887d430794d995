/*
 * filter.go, part of ffbench.
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
	"github.com/rmera/ffbench/internal/config"
	"github.com/rmera/ffbench/qcfilter"
	"github.com/spf13/cobra"
)

func newFilterCmd(a *app) *cobra.Command {
	var (
		input, output, method, status, python string
		pretty, skipCharges                   bool
	)
	def := config.Default()
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter a quantum-chemistry result collection",
		Long: `Removes from a result collection the records that are not complete,
and those for which partial charges or conformers can't be generated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			f := cmd.Flags()
			if f.Changed("pretty-print") {
				cfg.Filter.Pretty = pretty
			}
			if f.Changed("charge-method") {
				cfg.Filter.ChargeMethod = method
			}
			if f.Changed("status") {
				cfg.Filter.Status = status
			}
			if f.Changed("python") {
				cfg.Python = python
			}
			C, err := qcfilter.ReadFile(input)
			if err != nil {
				return err
			}
			var preds []qcfilter.Predicate
			if cfg.Filter.Status != "" {
				preds = append(preds, qcfilter.StatusFilter{Status: cfg.Filter.Status})
			}
			if !skipCharges {
				preds = append(preds, qcfilter.ChargeCheck{Charger: qcfilter.ExternalCharger{Python: cfg.Python}, Method: cfg.Filter.ChargeMethod})
			}
			n := C.Len()
			removed, err := C.Filter(cmd.Context(), preds...)
			if err != nil {
				return err
			}
			a.log.Info("collection filtered", "input", input, "entries", n, "removed", removed)
			return C.WriteFile(output, cfg.Filter.Pretty)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&input, "input-file", "i", "", "input collection (.json, .json.zst or .json.gz)")
	fl.StringVarP(&output, "output-file", "o", "", "output collection")
	fl.BoolVarP(&pretty, "pretty-print", "p", false, "indent the output")
	fl.StringVar(&method, "charge-method", def.Filter.ChargeMethod, "partial charge method to check")
	fl.StringVar(&status, "status", def.Filter.Status, "keep only records with this status, empty for all")
	fl.StringVar(&python, "python", def.Python, "Python interpreter with the OpenFF toolkit")
	fl.BoolVar(&skipCharges, "skip-charge-check", false, "don't check partial charge assignment")
	cmd.MarkFlagRequired("input-file")
	cmd.MarkFlagRequired("output-file")
	return cmd
}
