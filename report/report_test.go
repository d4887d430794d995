/*
 * report_test.go, part of ffbench.
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

package report

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/ffbench"
	"github.com/rmera/ffbench/benchplot"
	"gonum.org/v1/plot/vg"
)

func testTable(name string, n int, shift float64) *ffbench.Table {
	T := &ffbench.Table{Name: name}
	for i := 0; i < n; i++ {
		f := float64(i+1) / float64(n)
		T.Records = append(T.Records, ffbench.MetricRecord{
			ID:        string(rune('a' + i)),
			DDE:       f*4 - 2 + shift,
			RMSD:      f * 0.5,
			TFD:       f * 0.1,
			Bonds:     f * 0.01,
			Angles:    f * 2,
			Dihedrals: f * 20,
			Impropers: f,
		})
	}
	return T
}

func testOptions(Te *testing.T, logs *bytes.Buffer) Options {
	return Options{
		OutDir: Te.TempDir(),
		Logger: slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Figure: benchplot.Figure{Width: 3 * vg.Inch, Height: 2 * vg.Inch, DPI: 50},
	}
}

func TestRun(Te *testing.T) {
	var logs bytes.Buffer
	opts := testOptions(Te, &logs)
	f := 1.0
	opts.Outliers = &f
	a := testTable("a", 8, 0)
	b := testTable("b", 8, 1)
	b.Records[2].RMSD = 0
	b.Records[3].RMSD = math.NaN()
	res, err := Run([]*ffbench.Table{a, b}, []string{"ff-a", "sage/2.1"}, opts)
	if err != nil {
		Te.Fatal(err)
	}
	for _, base := range []string{"ff-a.csv", "sage_2.1.csv", "dde.png", "rmsd.png", "rmsd_cdf.png", "tfd.png", "tfd_cdf.png",
		"bonds.png", "angles.png", "dihedrals.png", "impropers.png", "stats.tex", "stats.xlsx"} {
		if _, err := os.Stat(filepath.Join(opts.OutDir, base)); err != nil {
			Te.Errorf("missing output %s: %v", base, err)
		}
	}
	if len(res.Stats) != len(ffbench.Metrics) {
		Te.Errorf("expected %d stat groups, got %d", len(ffbench.Metrics), len(res.Stats))
	}
	if len(res.Windowed) != 1 || res.Windowed[0].Name != "sage/2.1" || strings.Join(res.Windowed[0].Excluded, " ") != "c d" {
		Te.Errorf("unexpected windowed values %+v", res.Windowed)
	}
	if len(res.Outliers[ffbench.Bonds]) == 0 {
		Te.Errorf("expected outliers to be removed with f=1")
	}
	tex, err := os.ReadFile(filepath.Join(opts.OutDir, "stats.tex"))
	if err != nil {
		Te.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(tex)), "\n")
	//2 rows per metric, plus the separators
	if len(lines) != 2*len(ffbench.Metrics)+len(ffbench.Metrics)-1 {
		Te.Errorf("unexpected stats.tex:\n%s", tex)
	}
	if !strings.HasPrefix(lines[0], "ff-a & dde & ") || lines[2] != `\hline` {
		Te.Errorf("unexpected stats.tex layout:\n%s", tex)
	}
	if !strings.Contains(logs.String(), "histogram built") {
		Te.Errorf("the DDE histograms were not logged:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), "values left out of the log transform") {
		Te.Errorf("the windowed values were not logged:\n%s", logs.String())
	}
}

//Failed checks leave nothing behind.
func TestRunEmpty(Te *testing.T) {
	var logs bytes.Buffer
	opts := testOptions(Te, &logs)
	a := testTable("a", 3, 0)
	b := testTable("b", 3, 0)
	for i := range b.Records {
		b.Records[i].ID += "x"
	}
	empty := func() {
		Te.Helper()
		left, err := os.ReadDir(opts.OutDir)
		if err != nil {
			Te.Fatal(err)
		}
		if len(left) != 0 {
			Te.Errorf("%d files left after a failed run, first: %s", len(left), left[0].Name())
		}
	}
	_, err := Run([]*ffbench.Table{a, b}, []string{"a", "b"}, opts)
	if !errors.Is(err, ffbench.ErrEmptyResult) {
		Te.Errorf("expected an empty result error, got %v", err)
	}
	empty()
	_, err = Run([]*ffbench.Table{a, b}, []string{"a", "a"}, opts)
	if !errors.Is(err, ffbench.ErrPrecondition) {
		Te.Errorf("expected a precondition error for repeated names, got %v", err)
	}
	empty()
	//different names, same file
	c := testTable("c", 3, 1)
	_, err = Run([]*ffbench.Table{a, c}, []string{"sage/2.1", "sage_2.1"}, opts)
	if !errors.Is(err, ffbench.ErrPrecondition) {
		Te.Errorf("expected a precondition error for names with the same file, got %v", err)
	}
	empty()
}

func TestFileName(Te *testing.T) {
	cases := [][2]string{
		{"openff-2.1.0", "openff-2.1.0.csv"},
		{"output/industry/sage.offxml", "output_industry_sage.offxml.csv"},
		{"/", "ff.csv"},
	}
	for _, c := range cases {
		in, out := c[0], c[1]
		if got := FileName(in); got != out {
			Te.Errorf("FileName(%q) = %q, want %q", in, got, out)
		}
	}
}
