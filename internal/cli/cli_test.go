/*
 * cli_test.go, part of ffbench.
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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/ffbench"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errs bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errs)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func lowDPIConfig(t *testing.T) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "ffbench.yaml")
	require.NoError(t, os.WriteFile(name, []byte("plot:\n  dpi: 30\nlog_level: warn\n"), 0644))
	return name
}

func writeRun(t *testing.T, dir string, ids []string, shift float64) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	vals := make([]ffbench.Value, len(ids))
	ic := make([]ffbench.ICValue, len(ids))
	for i, id := range ids {
		f := float64(i+1) + shift
		vals[i] = ffbench.Value{ID: id, V: f / 10}
		ic[i] = ffbench.ICValue{ID: id, Bonds: f / 100, Angles: f, Dihedrals: 10 * f, Impropers: f / 2}
	}
	for _, base := range []string{ffbench.DDEFile, ffbench.RMSDFile, ffbench.TFDFile} {
		f, err := os.Create(filepath.Join(dir, base+".csv"))
		require.NoError(t, err)
		require.NoError(t, ffbench.WriteValues(f, base, vals))
		require.NoError(t, f.Close())
	}
	f, err := os.Create(filepath.Join(dir, ffbench.ICRMSDFile+".csv"))
	require.NoError(t, err)
	require.NoError(t, ffbench.WriteICValues(f, ic))
	require.NoError(t, f.Close())
}

func TestPlot(t *testing.T) {
	root := t.TempDir()
	ids := []string{"1", "2", "3", "4", "5", "6"}
	writeRun(t, filepath.Join(root, "industry", "sage"), ids, 0)
	writeRun(t, filepath.Join(root, "industry", "parsley"), ids, 0.5)
	writeRun(t, filepath.Join(root, "tm", "sage"), []string{"7", "8"}, 0)
	writeRun(t, filepath.Join(root, "tm", "parsley"), []string{"7", "8"}, 0)
	records := filepath.Join(root, "records.txt")
	require.NoError(t, os.WriteFile(records, []byte("1\n7\n"), 0644))
	out := filepath.Join(root, "plots")
	t.Setenv("FFBENCH_OUTLIERS", "1.5")
	stdout, err := execute(t, "--config", lowDPIConfig(t), "plot", "sage", "parsley",
		"--root", root, "-d", "industry", "-d", "tm", "-r", records, "-n", "-o", out, "--names", "Sage,Parsley")
	require.NoError(t, err)
	for _, base := range []string{"Sage.csv", "Parsley.csv", "dde.png", "rmsd_cdf.png", "impropers.png", "stats.tex", "stats.xlsx"} {
		assert.FileExists(t, filepath.Join(out, base))
	}
	T, err := ffbench.ReadTable(filepath.Join(out, "Sage.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3", "4", "5", "6", "8"}, T.IDs())
	assert.Contains(t, stdout, "bonds outliers:")
}

func TestPlotErrors(t *testing.T) {
	root := t.TempDir()
	writeRun(t, filepath.Join(root, "industry", "sage"), []string{"1", "2"}, 0)
	_, err := execute(t, "--config", lowDPIConfig(t), "plot", "sage", "missing", "--root", root, "-o", t.TempDir())
	assert.ErrorIs(t, err, ffbench.ErrMissingFile)
	_, err = execute(t, "plot", "sage", "--root", root, "--names", "a,b")
	assert.Error(t, err)
	_, err = execute(t, "plot")
	assert.Error(t, err)
	_, err = execute(t, "--log-level", "loud", "plot", "sage", "--root", root)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	python := filepath.Join(dir, "python")
	fake := `#!/bin/sh
script=$(cat)
case "$script" in
*optimize_mm*) exit 0;;
*get_internal_coordinate_rmsd*) printf ',bonds,angles,dihedrals,impropers\n1,0.1,1,10,0.5\n2,0.2,2,20,1\n3,0.3,3,30,1.5\n';;
*) printf ',value\n1,0.5\n2,1.5\n3,2.5\n';;
esac
`
	require.NoError(t, os.WriteFile(python, []byte(fake), 0755))
	out := filepath.Join(dir, "out")
	_, err := execute(t, "--config", lowDPIConfig(t), "run", "--python", python, "-f", "sage.offxml",
		"-s", filepath.Join(dir, "tmp.sqlite"), "-o", out, "-p", "2")
	require.NoError(t, err)
	for _, base := range []string{"dde.csv", "icrmsd.csv", "run.yaml", "sage.offxml.csv", "tfd.png", "stats.tex"} {
		assert.FileExists(t, filepath.Join(out, base))
	}
	tex, err := os.ReadFile(filepath.Join(out, "stats.tex"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(tex), `sage.offxml & dde & 1.50 & 1.50 & 1.50 & 0.82 \\`), string(tex))
}

func TestFilter(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"entries": {"s": [
{"type": "optimization", "record_id": 1, "cmiles": "C", "inchi_key": "A", "status": "complete"},
{"type": "optimization", "record_id": 2, "cmiles": "O", "inchi_key": "B", "status": "error"}]}}`), 0644))
	out := filepath.Join(dir, "out.json")
	_, err := execute(t, "filter", "-i", in, "-o", out, "-p", "--skip-charge-check")
	require.NoError(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "\"record_id\": 1")
	assert.NotContains(t, string(b), "\"record_id\": 2")
	_, err = execute(t, "filter", "-o", out)
	assert.Error(t, err)
}
