/*
 * external.go, part of ffbench.
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

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/rmera/ffbench"
)

//ErrNotRunning is returned (wrapped) when the external program fails.
var ErrNotRunning = errors.New("external program failed")

//Actions understood by the driver script.
const (
	actOptimize = "optimize"
	actDDE      = "dde"
	actRMSD     = "rmsd"
	actTFD      = "tfd"
	actICRMSD   = "internal_coordinate_rmsd"
)

var driver = template.Must(template.New("driver").Funcs(template.FuncMap{"py": strconv.Quote}).Parse(`import sys
{{- if .FromDataset}}
from yammbs import MoleculeStore
from yammbs.cached_result import CachedResultCollection

crc = CachedResultCollection.from_json({{py .Dataset}})
store = MoleculeStore.from_cached_result_collection(crc, {{py .Database}})
{{- else}}
from yammbs import MoleculeStore

store = MoleculeStore({{py .Database}})
{{- end}}
{{if eq .Action "optimize"}}
store.optimize_mm(force_field={{py .ForceField}}, n_processes={{.Procs}})
{{- else}}
store.get_{{.Action}}({{py .ForceField}}, skip_check=True).to_csv(sys.stdout)
{{- end}}
`))

type driverArgs struct {
	Action      string
	ForceField  string
	Procs       int
	Database    string
	Dataset     string
	FromDataset bool
}

//External is a Store backed by a sqlite database, handled by a Python
//interpreter with the yammbs package. If the database doesn't exist, it is
//created from the cached dataset the first time it is needed.
type External struct {
	Python   string //the interpreter, "python" if empty
	Database string
	Dataset  string
	Logger   *slog.Logger //nil means slog.Default()
}

//NewExternal returns an External store for the database file and dataset.
func NewExternal(python, database, dataset string, logger *slog.Logger) *External {
	return &External{Python: python, Database: database, Dataset: dataset, Logger: logger}
}

func (E *External) logger() *slog.Logger {
	if E.Logger == nil {
		return slog.Default()
	}
	return E.Logger
}

//FromDataset returns true if the store will be built from the dataset,
//as its database doesn't exist yet.
func (E *External) FromDataset() bool {
	_, err := os.Stat(E.Database)
	return errors.Is(err, fs.ErrNotExist)
}

//Script returns the driver script for action.
func (E *External) Script(action, forceField string, procs int) (string, error) {
	args := driverArgs{Action: action, ForceField: forceField, Procs: procs, Database: E.Database, Dataset: E.Dataset, FromDataset: E.FromDataset()}
	if args.FromDataset && E.Dataset == "" {
		return "", ffbench.NewError(ffbench.ErrMissingFile, E.Database, "no database and no dataset to build it from", fs.ErrNotExist, "store.External.Script")
	}
	var b strings.Builder
	if err := driver.Execute(&b, args); err != nil {
		return "", fmt.Errorf("store.External.Script: %w", err)
	}
	return b.String(), nil
}

//run runs the script for action, feeding it to the interpreter's standard input,
//and returns the standard output.
func (E *External) run(ctx context.Context, action, forceField string, procs int) ([]byte, error) {
	script, err := E.Script(action, forceField, procs)
	if err != nil {
		return nil, err
	}
	python := E.Python
	if python == "" {
		python = "python"
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, python, "-")
	cmd.Stdin = strings.NewReader(script)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	start := time.Now()
	E.logger().Debug("running store driver", "action", action, "force_field", forceField, "python", python)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("store.External: %s with %s: %w: %v: %s", action, python, ErrNotRunning, err, lastLines(stderr.String(), 5))
	}
	E.logger().Debug("store driver finished", "action", action, "elapsed", time.Since(start))
	return stdout.Bytes(), nil
}

func (E *External) values(ctx context.Context, action, forceField string) ([]ffbench.Value, error) {
	out, err := E.run(ctx, action, forceField, 0)
	if err != nil {
		return nil, err
	}
	return ffbench.DecodeValues(bytes.NewReader(out), action+" output")
}

//Optimize optimizes every molecule in the store with forceField.
func (E *External) Optimize(ctx context.Context, forceField string, procs int) error {
	_, err := E.run(ctx, actOptimize, forceField, procs)
	return err
}

//DDE returns the energy differences.
func (E *External) DDE(ctx context.Context, forceField string) ([]ffbench.Value, error) {
	return E.values(ctx, actDDE, forceField)
}

//RMSD returns the geometry RMSDs.
func (E *External) RMSD(ctx context.Context, forceField string) ([]ffbench.Value, error) {
	return E.values(ctx, actRMSD, forceField)
}

//TFD returns the torsion fingerprint deviations.
func (E *External) TFD(ctx context.Context, forceField string) ([]ffbench.Value, error) {
	return E.values(ctx, actTFD, forceField)
}

//ICRMSD returns the internal coordinate RMSDs.
func (E *External) ICRMSD(ctx context.Context, forceField string) ([]ffbench.ICValue, error) {
	out, err := E.run(ctx, actICRMSD, forceField, 0)
	if err != nil {
		return nil, err
	}
	return ffbench.DecodeICValues(bytes.NewReader(out), actICRMSD+" output")
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
