/*
 * report.go, part of ffbench.
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

//Package report renders the plots and statistics comparing the benchmark
//results of several force fields.
package report

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmera/ffbench"
	"github.com/rmera/ffbench/benchplot"
	"github.com/rmera/ffbench/benchstat"
	"github.com/rmera/ffbench/histo"
	"gonum.org/v1/plot"
)

type plotKind int

const (
	histogram plotKind = iota
	density
	boxes
)

//panel describes how one metric is plotted.
type panel struct {
	metric ffbench.Metric
	kind   plotKind
	xrange benchplot.Range
	label  string
}

//DDEEdges are the bin edges for the DDE histograms, in kcal/mol.
var DDEEdges = histo.Linspace(-15, 15, 16)

var panels = []panel{
	{ffbench.DDE, histogram, benchplot.Range{Min: -6, Max: 6}, "DDE (kcal/mol)"},
	{ffbench.RMSD, density, benchplot.Range{Min: -2.0, Max: 0.7}, "Log RMSD"},
	{ffbench.TFD, density, benchplot.Range{Min: -4.0, Max: 0.5}, "Log TFD"},
	{ffbench.Bonds, boxes, benchplot.Range{}, "Bonds RMSD"},
	{ffbench.Angles, boxes, benchplot.Range{}, "Angles RMSD"},
	{ffbench.Dihedrals, boxes, benchplot.Range{}, "Dihedrals RMSD"},
	{ffbench.Impropers, boxes, benchplot.Range{}, "Impropers RMSD"},
}

//Options modifies the behavior of Run.
type Options struct {
	OutDir   string           //created if it doesn't exist
	Outliers *float64         //if not nil, multiplier for the outlier exclusion in the box plots
	Logger   *slog.Logger     //nil means slog.Default()
	Figure   benchplot.Figure //the zero value means benchplot.DefaultFigure
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

//Result summarizes what Run did.
type Result struct {
	Stats    [][]benchstat.Summary //one group per metric, in the order of ffbench.Metrics
	Windowed []benchstat.Window   //values left out of the log transforms
	Outliers map[ffbench.Metric][]string
	Files    []string //all the files written
}

//FileName returns the name of the merged table file for the force field name.
func FileName(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", " ", "_")
	name = strings.Trim(r.Replace(name), "_.")
	if name == "" {
		name = "ff"
	}
	return name + ".csv"
}

//Run writes, to opts.OutDir, one merged table per force field, the plots for
//all the metrics, and the summary statistics in stats.tex and stats.xlsx.
//tables and names are as in ffbench.Compare. If, for any metric, no record
//is common to all the tables, Run returns an ErrEmptyResult error. Names that
//give the same FileName are an ErrPrecondition error. Nothing is written
//unless all the checks pass.
func Run(tables []*ffbench.Table, names []string, opts Options) (*Result, error) {
	log := opts.logger()
	if opts.OutDir == "" {
		return nil, ffbench.NewError(ffbench.ErrPrecondition, "", "no output directory given", nil, "report.Run")
	}
	fig := opts.Figure
	if fig.DPI == 0 {
		fig = benchplot.DefaultFigure
	}
	//all the checks go before writing anything
	comps := make([]*ffbench.Comparison, len(panels))
	for k, pn := range panels {
		C, err := ffbench.Compare(tables, names, pn.metric)
		if err != nil {
			return nil, decorate(err, "report.Run")
		}
		if C.Len() == 0 {
			return nil, ffbench.NewError(ffbench.ErrEmptyResult, "", fmt.Sprintf("no records common to all force fields for %s", pn.metric), nil, "report.Run")
		}
		comps[k] = C
	}
	files := make(map[string]string, len(names))
	for _, n := range names {
		f := FileName(n)
		if prev, ok := files[f]; ok {
			return nil, ffbench.NewError(ffbench.ErrPrecondition, "", fmt.Sprintf("force fields %q and %q would both be written to %s", prev, n, f), nil, "report.Run")
		}
		files[f] = n
	}
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("report.Run: %w", err)
	}
	res := &Result{Outliers: make(map[ffbench.Metric][]string)}
	out := func(base string) string {
		name := filepath.Join(opts.OutDir, base)
		res.Files = append(res.Files, name)
		return name
	}
	for i, T := range tables {
		if err := ffbench.WriteTable(out(FileName(names[i])), T); err != nil {
			return nil, decorate(err, "report.Run")
		}
	}
	for k, pn := range panels {
		C := comps[k]
		var err error
		log.Debug("comparison built", "metric", pn.metric, "records", C.Len(), "force_fields", len(names))
		res.Stats = append(res.Stats, benchstat.SummarizeComparison(C))
		var p *plot.Plot
		switch pn.kind {
		case histogram:
			p, err = stairs(C, pn, log)
		case density:
			var cdf *plot.Plot
			p, cdf, err = densities(C, pn, res, log)
			if err == nil {
				err = fig.Save(cdf, out(string(pn.metric)+"_cdf.png"))
			}
		case boxes:
			if opts.Outliers != nil {
				var removed []string
				C, removed = ffbench.ExcludeOutliers(C, *opts.Outliers)
				res.Outliers[pn.metric] = removed
				log.Info("outliers excluded", "metric", pn.metric, "factor", *opts.Outliers, "removed", len(removed), "records", removed)
			}
			cols := make([][]float64, len(C.Names))
			for j := range cols {
				cols[j] = C.Column(j)
			}
			p, err = benchplot.Boxes(C.Names, cols, pn.label)
		}
		if err != nil {
			return nil, decorate(err, "report.Run")
		}
		if err := fig.Save(p, out(string(pn.metric)+".png")); err != nil {
			return nil, fmt.Errorf("report.Run: %w", err)
		}
	}
	if err := writeTeX(out("stats.tex"), res.Stats); err != nil {
		return nil, fmt.Errorf("report.Run: %w", err)
	}
	if err := benchstat.WriteXLSX(out("stats.xlsx"), res.Stats); err != nil {
		return nil, fmt.Errorf("report.Run: %w", err)
	}
	log.Info("report written", "dir", opts.OutDir, "files", len(res.Files))
	return res, nil
}

func stairs(C *ffbench.Comparison, pn panel, log *slog.Logger) (*plot.Plot, error) {
	S := histo.NewSet(C.Names, DDEEdges)
	for j := range C.Names {
		S.ReHisto(j, C.Column(j))
		D := S.View(j)
		log.Debug("histogram built", "metric", pn.metric, "force_field", C.Names[j], "counted", D.Total(), "omitted", D.Omitted(), "histogram", D)
	}
	xr := benchplot.Range{}
	if len(C.Names) == 1 {
		xr = pn.xrange
	}
	return benchplot.Stairs(S, pn.label, xr)
}

//densities returns the KDE plot of the log values and the ECDF plot of the raw ones.
func densities(C *ffbench.Comparison, pn panel, res *Result, log *slog.Logger) (*plot.Plot, *plot.Plot, error) {
	kdes := make([]benchstat.Curve, len(C.Names))
	cdfs := make([]benchstat.Curve, len(C.Names))
	for j, name := range C.Names {
		col := C.Column(j)
		cdfs[j] = benchstat.ECDF(col)
		logs, w, err := benchstat.Log10(name, pn.metric, C.IDs, col)
		if err != nil {
			return nil, nil, err
		}
		if len(w.Excluded) > 0 {
			log.Warn("values left out of the log transform", "metric", pn.metric, "force_field", name, "count", len(w.Excluded), "records", w.Excluded)
			res.Windowed = append(res.Windowed, w)
		}
		kdes[j], _, err = benchstat.KDE(logs, benchstat.GridSize, benchstat.Cut)
		if errors.Is(err, ffbench.ErrNumeric) {
			log.Warn("no density estimate", "metric", pn.metric, "force_field", name, "error", err)
		} else if err != nil {
			return nil, nil, err
		}
	}
	p, err := benchplot.Curves(C.Names, kdes, pn.label, "Density", pn.xrange, false)
	if err != nil {
		return nil, nil, err
	}
	upper := strings.ToUpper(string(pn.metric))
	cdf, err := benchplot.Curves(C.Names, cdfs, upper, "Proportion", benchplot.Range{}, true)
	if err != nil {
		return nil, nil, err
	}
	return p, cdf, nil
}

func writeTeX(name string, groups [][]benchstat.Summary) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := benchstat.WriteTeX(f, groups); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

//decorate adds caller to the trail of err if it is an *ffbench.Error,
//otherwise it wraps it.
func decorate(err error, caller string) error {
	var e *ffbench.Error
	if errors.As(err, &e) {
		e.Decorate(caller)
		return e
	}
	return fmt.Errorf("%s: %w", caller, err)
}
