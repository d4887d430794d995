/*
 * outliers.go, part of ffbench.
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

package ffbench

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//ExcludeOutliers removes the rows of C where the value for any force field is not
//strictly within mean ± f*sigma of its column. Means and (population) standard
//deviations are computed over the whole column, before removing anything, ignoring
//missing values. Columns where all the values are equal (sigma 0) keep all their
//rows, even with f=0. Rows with missing values are removed. It returns the
//remaining rows and the IDs of the removed ones.
func ExcludeOutliers(C *Comparison, f float64) (*Comparison, []string) {
	n, cols := C.Len(), len(C.Names)
	means := make([]float64, cols)
	flat := make([]bool, cols) //all the values in the column are equal
	limits := make([]float64, cols)
	col := make([]float64, 0, n)
	for j := 0; j < cols; j++ {
		col = nonMissing(C.Column(j, col[:0]), col[:0])
		if len(col) == 0 {
			means[j] = math.NaN()
			continue
		}
		means[j], limits[j] = stat.PopMeanStdDev(col, nil)
		limits[j] *= f
		flat[j] = floats.Min(col) == floats.Max(col)
	}
	keep := make([]bool, n)
	var removed []string
	for i := 0; i < n; i++ {
		keep[i] = true
		for j, v := range C.Row(i) {
			d := math.Abs(v - means[j])
			if math.IsNaN(d) || (d >= limits[j] && !flat[j]) {
				keep[i] = false
				break
			}
		}
		if !keep[i] {
			removed = append(removed, C.IDs[i])
		}
	}
	return C.Subset(keep), removed
}

//nonMissing puts the non-NaN values of x in dst, which can be x itself,
//and returns it.
func nonMissing(x, dst []float64) []float64 {
	dst = dst[:0]
	for _, v := range x {
		if !math.IsNaN(v) {
			dst = append(dst, v)
		}
	}
	return dst
}
