/*
 * store_test.go, part of ffbench.
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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/ffbench"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeStore struct {
	optimized string
	procs     int
	fail      bool
}

func (f *fakeStore) Optimize(ctx context.Context, ff string, procs int) error {
	if f.fail {
		return ErrNotRunning
	}
	f.optimized, f.procs = ff, procs
	return nil
}

func (f *fakeStore) vals(base float64) []ffbench.Value {
	return []ffbench.Value{{ID: "101", V: base}, {ID: "102", V: base * 2}, {ID: "103", V: base * 3}}
}

func (f *fakeStore) DDE(ctx context.Context, ff string) ([]ffbench.Value, error) {
	return f.vals(-0.5), nil
}

func (f *fakeStore) RMSD(ctx context.Context, ff string) ([]ffbench.Value, error) {
	return f.vals(0.1), nil
}

func (f *fakeStore) TFD(ctx context.Context, ff string) ([]ffbench.Value, error) {
	return f.vals(0.01)[:2], nil
}

func (f *fakeStore) ICRMSD(ctx context.Context, ff string) ([]ffbench.ICValue, error) {
	return []ffbench.ICValue{{ID: "101", Bonds: 0.01, Angles: 1, Dihedrals: 10, Impropers: 0.5}, {ID: "102"}, {ID: "103"}}, nil
}

func TestBench(Te *testing.T) {
	dir := Te.TempDir()
	db := filepath.Join(dir, "tmp.sqlite")
	os.WriteFile(db, []byte("sqlite"), 0644)
	out := filepath.Join(dir, "output", "sage")
	fs := &fakeStore{}
	M, err := Bench(context.Background(), fs, Options{ForceField: "sage.offxml", Database: db, OutDir: out, Procs: 4})
	if err != nil {
		Te.Fatal(err)
	}
	if fs.optimized != "sage.offxml" || fs.procs != 4 {
		Te.Errorf("the store was not optimized as asked: %+v", fs)
	}
	if _, err := os.Stat(db); err != nil {
		Te.Errorf("the database should not be removed without InvalidateCache: %v", err)
	}
	if M.Source != "database" || M.Records[ffbench.TFDFile] != 2 || M.RunID == "" {
		Te.Errorf("unexpected manifest %+v", M)
	}
	T, err := ffbench.LoadDir(out, ffbench.LoadOptions{})
	if err != nil {
		Te.Fatal(err)
	}
	if strings.Join(T.IDs(), " ") != "101 102" {
		Te.Errorf("unexpected records %v", T.IDs())
	}
	M2, err := ReadManifest(filepath.Join(out, ManifestFile))
	if err != nil {
		Te.Fatal(err)
	}
	if M2.RunID != M.RunID || M2.ForceField != "sage.offxml" {
		Te.Errorf("manifest read back as %+v", M2)
	}
}

func TestBenchInvalidate(Te *testing.T) {
	dir := Te.TempDir()
	db := filepath.Join(dir, "tmp.sqlite")
	os.WriteFile(db, []byte("sqlite"), 0644)
	M, err := Bench(context.Background(), &fakeStore{}, Options{ForceField: "ff", Database: db, Dataset: "industry.json", OutDir: dir, Procs: 1, InvalidateCache: true})
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(db); !errors.Is(err, os.ErrNotExist) {
		Te.Errorf("the database should have been removed, got %v", err)
	}
	if M.Source != "dataset" {
		Te.Errorf("expected the dataset to be the source, got %s", M.Source)
	}
	//nothing to remove is fine too
	if _, err := Bench(context.Background(), &fakeStore{}, Options{ForceField: "ff", Database: db, OutDir: dir, Procs: 1, InvalidateCache: true}); err != nil {
		Te.Error(err)
	}
}

func TestBenchErrors(Te *testing.T) {
	dir := Te.TempDir()
	_, err := Bench(context.Background(), &fakeStore{}, Options{Database: "x", OutDir: dir, Procs: 1})
	if !errors.Is(err, ffbench.ErrPrecondition) {
		Te.Errorf("expected a precondition error with no force field, got %v", err)
	}
	_, err = Bench(context.Background(), &fakeStore{fail: true}, Options{ForceField: "ff", Database: "x", OutDir: dir, Procs: 1})
	if !errors.Is(err, ErrNotRunning) {
		Te.Errorf("expected the store error, got %v", err)
	}
}

func TestScript(Te *testing.T) {
	dir := Te.TempDir()
	E := NewExternal("", filepath.Join(dir, "tmp.sqlite"), "datasets/cache/industry.json", nil)
	s, err := E.Script(actOptimize, "openff-2.1.0.offxml", 16)
	if err != nil {
		Te.Fatal(err)
	}
	for _, want := range []string{"CachedResultCollection.from_json(\"datasets/cache/industry.json\")", "optimize_mm(force_field=\"openff-2.1.0.offxml\", n_processes=16)"} {
		if !strings.Contains(s, want) {
			Te.Errorf("script does not contain %q:\n%s", want, s)
		}
	}
	os.WriteFile(E.Database, nil, 0644)
	s, err = E.Script(actICRMSD, "ff", 0)
	if err != nil {
		Te.Fatal(err)
	}
	if strings.Contains(s, "CachedResultCollection") || !strings.Contains(s, "store.get_internal_coordinate_rmsd(\"ff\", skip_check=True).to_csv(sys.stdout)") {
		Te.Errorf("unexpected script:\n%s", s)
	}
	E2 := NewExternal("", filepath.Join(dir, "none.sqlite"), "", nil)
	if _, err := E2.Script(actDDE, "ff", 0); !errors.Is(err, ffbench.ErrMissingFile) {
		Te.Errorf("expected a missing file error, got %v", err)
	}
}
