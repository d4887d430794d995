/*
 * window.go, part of ffbench.
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

package benchstat

import (
	"math"

	"github.com/rmera/ffbench"
)

//Window records the values that could not be log-transformed for
//one force field and metric.
type Window struct {
	Name     string
	Metric   ffbench.Metric
	Excluded []string //IDs of the records with missing or non-positive values
}

//Log10 returns the base-10 logarithms of the strictly positive values in x.
//ids must contain the record ID for each element of x. The IDs of the
//records with non-positive or missing values are returned in the Window,
//those values are not transformed.
func Log10(name string, m ffbench.Metric, ids []string, x []float64) ([]float64, Window, error) {
	w := Window{Name: name, Metric: m}
	if len(ids) != len(x) {
		return nil, w, ffbench.NewError(ffbench.ErrPrecondition, "", "Log10: one ID per value is needed", nil, "benchstat.Log10")
	}
	ret := make([]float64, 0, len(x))
	for i, v := range x {
		if !(v > 0) || math.IsInf(v, 1) {
			w.Excluded = append(w.Excluded, ids[i])
			continue
		}
		ret = append(ret, math.Log10(v))
	}
	return ret, w, nil
}
