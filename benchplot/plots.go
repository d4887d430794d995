/*
 * plots.go, part of ffbench.
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

//Package benchplot draws the plots for force field benchmarks, using
//gonum/plot.
package benchplot

import (
	"fmt"
	"math"
	"os"

	"github.com/rmera/ffbench/benchstat"
	"github.com/rmera/ffbench/histo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

//Range is a fixed range for an axis. The zero value means that
//the range is set from the data.
type Range struct {
	Min, Max float64
}

func (r Range) apply(a *plot.Axis) {
	if r.Min < r.Max {
		a.Min = r.Min
		a.Max = r.Max
	}
}

//Figure is the size and resolution of the saved plots.
type Figure struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
}

//DefaultFigure is 6x4 inches at 300 DPI.
var DefaultFigure = Figure{Width: 6 * vg.Inch, Height: 4 * vg.Inch, DPI: 300}

var lineWidth = vg.Points(1.5)

func basicPlot(xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Legend.Top = true
	return p
}

//Stairs draws the histograms in S as unfilled step lines, one per histogram,
//labeled with the histogram names. The y axis goes from 0 to a bit over the
//tallest bin in the set.
func Stairs(S *histo.Set, xlabel string, xr Range) (*plot.Plot, error) {
	p := basicPlot(xlabel, "Count")
	div := S.CopyDividers()
	for i := 0; i < S.Len(); i++ {
		counts := S.View(i).View()
		pts := make(plotter.XYs, 0, len(counts)+3)
		pts = append(pts, plotter.XY{X: div[0], Y: 0})
		for j, c := range counts {
			pts = append(pts, plotter.XY{X: div[j], Y: c})
		}
		last := div[len(div)-1]
		pts = append(pts, plotter.XY{X: last, Y: counts[len(counts)-1]}, plotter.XY{X: last, Y: 0})
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("benchplot.Stairs: %s: %w", S.Name(i), err)
		}
		l.StepStyle = plotter.PostStep
		l.LineStyle.Width = lineWidth
		l.LineStyle.Color = Color(i, S.Len())
		p.Add(l)
		p.Legend.Add(S.Name(i), l)
	}
	xr.apply(&p.X)
	p.Y.Min = 0
	//room for the legend over the tallest bin
	if m := S.Max(); m > 0 {
		p.Y.Max = 1.15 * m
	}
	return p, nil
}

//Curves draws one line per curve, named after names. If step is true, the
//lines are drawn as steps, as is usual for cumulative distributions.
//Curves with no points are skipped.
func Curves(names []string, curves []benchstat.Curve, xlabel, ylabel string, xr Range, step bool) (*plot.Plot, error) {
	if len(names) != len(curves) {
		return nil, fmt.Errorf("benchplot.Curves: %d names for %d curves", len(names), len(curves))
	}
	p := basicPlot(xlabel, ylabel)
	for i, c := range curves {
		if len(c.X) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(c.X))
		for j := range c.X {
			pts[j].X, pts[j].Y = c.X[j], c.Y[j]
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("benchplot.Curves: %s: %w", names[i], err)
		}
		if step {
			l.StepStyle = plotter.PostStep
		}
		l.LineStyle.Width = lineWidth
		l.LineStyle.Color = Color(i, len(curves))
		p.Add(l)
		p.Legend.Add(names[i], l)
	}
	xr.apply(&p.X)
	return p, nil
}

//Boxes draws a box plot with one box per element of values, named after names.
//Missing values are ignored and empty sets of values give no box.
func Boxes(names []string, values [][]float64, ylabel string) (*plot.Plot, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("benchplot.Boxes: %d names for %d value sets", len(names), len(values))
	}
	p := basicPlot("", ylabel)
	w := vg.Points(20)
	for i, v := range values {
		vals := make(plotter.Values, 0, len(v))
		for _, x := range v {
			if !math.IsNaN(x) && !math.IsInf(x, 0) {
				vals = append(vals, x)
			}
		}
		if len(vals) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(w, float64(i), vals)
		if err != nil {
			return nil, fmt.Errorf("benchplot.Boxes: %s: %w", names[i], err)
		}
		b.FillColor = Color(i, len(values))
		p.Add(b)
	}
	p.NominalX(names...)
	return p, nil
}

//Save writes p to the PNG file name, with the size and resolution of F.
func (F Figure) Save(p *plot.Plot, name string) error {
	c := vgimg.NewWith(vgimg.UseWH(F.Width, F.Height), vgimg.UseDPI(F.DPI))
	p.Draw(draw.New(c))
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("benchplot.Figure.Save: %s: %w", name, err)
	}
	return f.Close()
}
