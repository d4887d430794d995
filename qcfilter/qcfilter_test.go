/*
 * qcfilter_test.go, part of ffbench.
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

package qcfilter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/ffbench"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const server = "https://api.qcarchive.molssi.org:443/"

const collectionJSON = `{"entries": {"https://api.qcarchive.molssi.org:443/": [
{"type": "optimization", "record_id": 1, "cmiles": "[H:1][C:2]", "inchi_key": "A", "status": "complete"},
{"type": "optimization", "record_id": 2, "cmiles": "bad-charge", "inchi_key": "B"},
{"type": "optimization", "record_id": 3, "cmiles": "bad-conf", "inchi_key": "C", "extra_field": [1, 2]},
{"type": "optimization", "record_id": 4, "cmiles": "[H:1][O:2]", "inchi_key": "D", "status": "error"},
{"type": "optimization", "record_id": 5, "cmiles": "[H:1][N:2]", "inchi_key": "E"}
]}, "type": "OptimizationResultCollection"}`

type fakeCharger map[string]error

func (f fakeCharger) AssignCharges(ctx context.Context, cmiles, method string) error {
	if method != DefaultChargeMethod {
		return errors.New("unexpected method " + method)
	}
	return f[cmiles]
}

func ids(C *Collection) string {
	var s []string
	for _, e := range C.Entries[server] {
		s = append(s, string(rune('0'+e.RecordID)))
	}
	return strings.Join(s, " ")
}

func TestFilter(Te *testing.T) {
	C, err := Parse(strings.NewReader(collectionJSON), "test")
	if err != nil {
		Te.Fatal(err)
	}
	if C.Len() != 5 {
		Te.Fatalf("expected 5 entries, got %d", C.Len())
	}
	charger := fakeCharger{"bad-charge": ErrChargeCalculation, "bad-conf": ErrConformerGeneration}
	removed, err := C.Filter(context.Background(), StatusFilter{Status: StatusComplete}, ChargeCheck{Charger: charger})
	if err != nil {
		Te.Fatal(err)
	}
	if removed != 3 || ids(C) != "1 5" {
		Te.Errorf("removed %d, kept %s", removed, ids(C))
	}
}

func TestFilterError(Te *testing.T) {
	C, err := Parse(strings.NewReader(collectionJSON), "test")
	if err != nil {
		Te.Fatal(err)
	}
	boom := errors.New("toolkit not available")
	_, err = C.Filter(context.Background(), ChargeCheck{Charger: fakeCharger{"[H:1][N:2]": boom}})
	if !errors.Is(err, boom) {
		Te.Errorf("expected the charger error, got %v", err)
	}
	if C.Len() != 5 {
		Te.Errorf("the collection changed after a failed filter: %d entries", C.Len())
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := C.Filter(ctx, StatusFilter{Status: StatusComplete}); !errors.Is(err, context.Canceled) {
		Te.Errorf("expected a canceled context error, got %v", err)
	}
}

func TestWriteRoundTrip(Te *testing.T) {
	dir := Te.TempDir()
	C, err := Parse(strings.NewReader(collectionJSON), "test")
	if err != nil {
		Te.Fatal(err)
	}
	name := filepath.Join(dir, "out.json")
	if err := C.WriteFile(name, true); err != nil {
		Te.Fatal(err)
	}
	b, _ := os.ReadFile(name)
	if !bytes.Contains(b, []byte("\n  \"entries\": {")) {
		Te.Errorf("output is not indented:\n%s", b)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		Te.Fatal(err)
	}
	if raw["type"] != "OptimizationResultCollection" {
		Te.Errorf("unknown top-level field lost: %v", raw["type"])
	}
	if !bytes.Contains(b, []byte("extra_field")) {
		Te.Errorf("unknown entry field lost")
	}
	//compressed input
	zname := filepath.Join(dir, "out.json.zst")
	f, _ := os.Create(zname)
	w, _ := zstd.NewWriter(f)
	w.Write(b)
	w.Close()
	f.Close()
	C2, err := ReadFile(zname)
	if err != nil {
		Te.Fatal(err)
	}
	if C2.Len() != 5 || C2.Entries[server][2].CMILES != "bad-conf" {
		Te.Errorf("unexpected collection read back: %d entries", C2.Len())
	}
	var plain bytes.Buffer
	C2.Write(&plain, false)
	if bytes.Contains(plain.Bytes(), []byte("\n")) {
		Te.Errorf("non-pretty output should be on one line")
	}
	if _, err := ReadFile(filepath.Join(dir, "none.json")); !errors.Is(err, ffbench.ErrMissingFile) {
		Te.Errorf("expected a missing file error, got %v", err)
	}
	if _, err := Parse(strings.NewReader("{"), "bad"); !errors.Is(err, ffbench.ErrSchema) {
		Te.Errorf("expected a schema error, got %v", err)
	}
}

func TestExternalCharger(Te *testing.T) {
	fake := filepath.Join(Te.TempDir(), "python")
	script := "#!/bin/sh\ncase \"$3\" in\nbad-charge) exit 3;;\nbad-conf) exit 4;;\nboom) echo oops >&2; exit 1;;\nesac\nexit 0\n"
	if err := os.WriteFile(fake, []byte(script), 0755); err != nil {
		Te.Fatal(err)
	}
	X := ExternalCharger{Python: fake}
	ctx := context.Background()
	if err := X.AssignCharges(ctx, "fine", DefaultChargeMethod); err != nil {
		Te.Errorf("unexpected error %v", err)
	}
	if err := X.AssignCharges(ctx, "bad-charge", DefaultChargeMethod); !errors.Is(err, ErrChargeCalculation) {
		Te.Errorf("expected a charge error, got %v", err)
	}
	if err := X.AssignCharges(ctx, "bad-conf", DefaultChargeMethod); !errors.Is(err, ErrConformerGeneration) {
		Te.Errorf("expected a conformer error, got %v", err)
	}
	err := X.AssignCharges(ctx, "boom", DefaultChargeMethod)
	if err == nil || errors.Is(err, ErrChargeCalculation) || !strings.Contains(err.Error(), "oops") {
		Te.Errorf("expected a plain failure with the program's output, got %v", err)
	}
}
