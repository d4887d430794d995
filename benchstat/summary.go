/*
 * summary.go, part of ffbench.
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

//Package benchstat computes the statistics used in force field benchmark reports.
package benchstat

import (
	"math"
	"sort"

	"github.com/rmera/ffbench"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Summary contains the summary statistics of one metric for one force field.
//All the statistics ignore missing (NaN) values. N is the number of
//non-missing values. With N==0 all the statistics are NaN.
type Summary struct {
	Name   string
	Metric ffbench.Metric
	N      int
	Mean   float64
	MAE    float64 //mean of the absolute values
	Median float64
	Std    float64 //population standard deviation
}

//Summarize computes the summary statistics for x. x is not modified.
func Summarize(name string, m ffbench.Metric, x []float64) Summary {
	s := Summary{Name: name, Metric: m}
	d := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			d = append(d, v)
		}
	}
	s.N = len(d)
	if s.N == 0 {
		nan := math.NaN()
		s.Mean, s.MAE, s.Median, s.Std = nan, nan, nan, nan
		return s
	}
	s.Mean, s.Std = stat.PopMeanStdDev(d, nil)
	s.MAE = floats.Norm(d, 1) / float64(s.N)
	sort.Float64s(d)
	s.Median = median(d)
	return s
}

//SummarizeComparison returns one Summary per force field (column) in C.
func SummarizeComparison(C *ffbench.Comparison) []Summary {
	ret := make([]Summary, 0, len(C.Names))
	col := make([]float64, C.Len())
	for j, name := range C.Names {
		ret = append(ret, Summarize(name, C.Metric, C.Column(j, col)))
	}
	return ret
}

//median of sorted data, the average of the 2 central values for even lengths.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
