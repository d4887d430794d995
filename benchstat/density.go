/*
 * density.go, part of ffbench.
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
	"sort"

	"github.com/rmera/ffbench"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

//Defaults for KDE
const (
	GridSize = 200
	Cut      = 3.0
)

//Curve is a sampled function.
type Curve struct {
	X []float64
	Y []float64
}

//KDE returns a Gaussian kernel density estimate of x, evaluated on points
//evenly spaced values between min(x)-cut*bw and max(x)+cut*bw, where bw is the
//bandwidth, given by Scott's rule (n^-1/5 times the sample standard deviation).
//At least 2 different values are needed.
func KDE(x []float64, points int, cut float64) (Curve, float64, error) {
	if points < 2 {
		points = GridSize
	}
	n := len(x)
	if n < 2 {
		return Curve{}, 0, ffbench.NewError(ffbench.ErrNumeric, "", "at least 2 values needed for a density estimate", nil, "benchstat.KDE")
	}
	sd := stat.StdDev(x, nil)
	if sd == 0 || math.IsNaN(sd) {
		return Curve{}, 0, ffbench.NewError(ffbench.ErrNumeric, "", "data with no variance, can't estimate a density", nil, "benchstat.KDE")
	}
	bw := math.Pow(float64(n), -0.2) * sd
	lo, hi := floats.Min(x)-cut*bw, floats.Max(x)+cut*bw
	c := Curve{X: floats.Span(make([]float64, points), lo, hi), Y: make([]float64, points)}
	kernel := distuv.Normal{Mu: 0, Sigma: bw}
	for i, g := range c.X {
		var sum float64
		for _, v := range x {
			sum += kernel.Prob(g - v)
		}
		c.Y[i] = sum / float64(n)
	}
	return c, bw, nil
}

//ECDF returns the empirical cumulative distribution of the finite values in x.
//The X values are sorted, and Y[i] is the fraction of the values <= X[i].
func ECDF(x []float64) Curve {
	d := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			d = append(d, v)
		}
	}
	sort.Float64s(d)
	c := Curve{X: d, Y: make([]float64, len(d))}
	n := float64(len(d))
	for i := len(d) - 1; i >= 0; i-- {
		if i < len(d)-1 && d[i] == d[i+1] {
			c.Y[i] = c.Y[i+1] //ties get the same (largest) value
			continue
		}
		c.Y[i] = float64(i+1) / n
	}
	return c
}
