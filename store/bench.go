/*
 * bench.go, part of ffbench.
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
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rmera/ffbench"
	"gopkg.in/yaml.v3"
)

//ManifestFile is the name of the run description written by Bench.
const ManifestFile = "run.yaml"

var validate = validator.New()

//Options for a benchmark run.
type Options struct {
	ForceField      string `validate:"required"`
	Dataset         string //used only if Database doesn't exist
	Database        string `validate:"required"`
	OutDir          string `validate:"required"`
	Procs           int    `validate:"min=1"`
	InvalidateCache bool   //remove Database before starting
	Logger          *slog.Logger
}

//Manifest describes a benchmark run. It is written, as YAML, next to the
//metric files.
type Manifest struct {
	RunID      string         `yaml:"run_id"`
	ForceField string         `yaml:"force_field"`
	Dataset    string         `yaml:"dataset,omitempty"`
	Database   string         `yaml:"database"`
	Source     string         `yaml:"source"` //"database" or "dataset"
	Procs      int            `yaml:"procs"`
	Started    time.Time      `yaml:"started"`
	Optimize   time.Duration  `yaml:"optimize_time"`
	Records    map[string]int `yaml:"records"`
}

//Bench optimizes the molecules in s with the force field in opts and writes
//the dde, rmsd, tfd and icrmsd files, plus the run manifest, to opts.OutDir.
//If s is nil, an External store is used.
func Bench(ctx context.Context, s Store, opts Options) (*Manifest, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, ffbench.NewError(ffbench.ErrPrecondition, "", err.Error(), nil, "store.Bench")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.InvalidateCache {
		err := os.Remove(opts.Database)
		if err == nil {
			log.Info("removed existing database", "file", opts.Database)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("store.Bench: %w", err)
		}
	}
	if s == nil {
		s = NewExternal("", opts.Database, opts.Dataset, log)
	}
	M := &Manifest{
		RunID:      uuid.NewString(),
		ForceField: opts.ForceField,
		Dataset:    opts.Dataset,
		Database:   opts.Database,
		Source:     "database",
		Procs:      opts.Procs,
		Started:    time.Now().UTC().Truncate(time.Second),
		Records:    make(map[string]int),
	}
	if _, err := os.Stat(opts.Database); errors.Is(err, fs.ErrNotExist) {
		M.Source = "dataset"
		log.Info("loading cached dataset", "file", opts.Dataset)
	} else {
		log.Info("loading existing database", "file", opts.Database)
	}
	log.Info("started optimizing store", "force_field", opts.ForceField, "procs", opts.Procs)
	start := time.Now()
	if err := s.Optimize(ctx, opts.ForceField, opts.Procs); err != nil {
		return nil, fmt.Errorf("store.Bench: %w", err)
	}
	M.Optimize = time.Since(start).Round(time.Millisecond)
	log.Info("finished optimizing", "elapsed", M.Optimize)
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("store.Bench: %w", err)
	}
	for _, m := range []struct {
		base string
		get  func(context.Context, string) ([]ffbench.Value, error)
	}{
		{ffbench.DDEFile, s.DDE},
		{ffbench.RMSDFile, s.RMSD},
		{ffbench.TFDFile, s.TFD},
	} {
		log.Info("getting metric", "metric", m.base)
		vals, err := m.get(ctx, opts.ForceField)
		if err != nil {
			return nil, fmt.Errorf("store.Bench: %s: %w", m.base, err)
		}
		M.Records[m.base] = len(vals)
		err = writeFile(filepath.Join(opts.OutDir, m.base+".csv"), func(w io.Writer) error {
			return ffbench.WriteValues(w, m.base, vals)
		})
		if err != nil {
			return nil, fmt.Errorf("store.Bench: %w", err)
		}
	}
	log.Info("getting metric", "metric", ffbench.ICRMSDFile)
	ic, err := s.ICRMSD(ctx, opts.ForceField)
	if err != nil {
		return nil, fmt.Errorf("store.Bench: %s: %w", ffbench.ICRMSDFile, err)
	}
	M.Records[ffbench.ICRMSDFile] = len(ic)
	err = writeFile(filepath.Join(opts.OutDir, ffbench.ICRMSDFile+".csv"), func(w io.Writer) error {
		return ffbench.WriteICValues(w, ic)
	})
	if err != nil {
		return nil, fmt.Errorf("store.Bench: %w", err)
	}
	if err := M.WriteFile(filepath.Join(opts.OutDir, ManifestFile)); err != nil {
		return nil, fmt.Errorf("store.Bench: %w", err)
	}
	return M, nil
}

//WriteFile writes the manifest as YAML.
func (M *Manifest) WriteFile(name string) error {
	b, err := yaml.Marshal(M)
	if err != nil {
		return err
	}
	return os.WriteFile(name, b, 0644)
}

//ReadManifest reads a manifest written by Manifest.WriteFile.
func ReadManifest(name string) (*Manifest, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	M := new(Manifest)
	if err := yaml.Unmarshal(b, M); err != nil {
		return nil, ffbench.NewError(ffbench.ErrSchema, name, "", err, "store.ReadManifest")
	}
	return M, nil
}

func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
