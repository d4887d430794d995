/*
 * collection.go, part of ffbench.
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

//Package qcfilter filters quantum-chemistry result collections before they
//are used in a benchmark.
package qcfilter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rmera/ffbench"
)

//Entry is one record in a collection. Fields not known to Entry are kept
//and written back unchanged.
type Entry struct {
	Type     string `json:"type"`
	RecordID int64  `json:"record_id"`
	CMILES   string `json:"cmiles"`
	InChIKey string `json:"inchi_key"`
	Status   string `json:"status,omitempty"`

	extra map[string]json.RawMessage
}

var entryKeys = []string{"type", "record_id", "cmiles", "inchi_key", "status"}

type plainEntry Entry

func (E *Entry) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, (*plainEntry)(E)); err != nil {
		return err
	}
	extra, err := unknownFields(b, entryKeys)
	E.extra = extra
	return err
}

func (E Entry) MarshalJSON() ([]byte, error) {
	return withFields((plainEntry)(E), E.extra)
}

//Collection is a set of records, grouped by the server they come from.
type Collection struct {
	Entries map[string][]Entry `json:"entries"`

	extra map[string]json.RawMessage
}

type plainCollection Collection

func (C *Collection) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, (*plainCollection)(C)); err != nil {
		return err
	}
	extra, err := unknownFields(b, []string{"entries"})
	C.extra = extra
	return err
}

func (C Collection) MarshalJSON() ([]byte, error) {
	return withFields((plainCollection)(C), C.extra)
}

//unknownFields returns the fields of the JSON object in b that are not in known.
func unknownFields(b []byte, known []string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

//withFields marshals v, which must give a JSON object, adding the fields in extra.
func withFields(v any, extra map[string]json.RawMessage) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return b, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := all[k]; !ok {
			all[k] = v
		}
	}
	return json.Marshal(all)
}

//Parse reads a collection from r. name is used only in error messages.
func Parse(r io.Reader, name string) (*Collection, error) {
	C := new(Collection)
	if err := json.NewDecoder(r).Decode(C); err != nil {
		return nil, ffbench.NewError(ffbench.ErrSchema, name, "not a valid collection", err, "qcfilter.Parse")
	}
	if C.Entries == nil {
		C.Entries = make(map[string][]Entry)
	}
	return C, nil
}

//ReadFile reads a collection from a JSON file, which can be zstd or gzip
//compressed (.json.zst, .json.gz).
func ReadFile(name string) (*Collection, error) {
	f, err := ffbench.OpenInput(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, name)
}

//Len returns the total number of entries in the collection.
func (C *Collection) Len() int {
	n := 0
	for _, e := range C.Entries {
		n += len(e)
	}
	return n
}

//Filter keeps only the entries for which all the predicates are true,
//evaluated in order. It returns the number of entries removed. If a predicate
//returns an error, the collection is left unchanged.
func (C *Collection) Filter(ctx context.Context, preds ...Predicate) (int, error) {
	kept := make(map[string][]Entry, len(C.Entries))
	removed := 0
	for server, entries := range C.Entries {
		k := make([]Entry, 0, len(entries))
	Entries:
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			for _, p := range preds {
				ok, err := p.Keep(ctx, e)
				if err != nil {
					return 0, fmt.Errorf("qcfilter.Collection.Filter: record %d: %w", e.RecordID, err)
				}
				if !ok {
					removed++
					continue Entries
				}
			}
			k = append(k, e)
		}
		kept[server] = k
	}
	C.Entries = kept
	return removed, nil
}

//Write writes the collection as JSON to w, indented by 2 spaces if pretty is true.
func (C *Collection) Write(w io.Writer, pretty bool) error {
	b, err := json.Marshal(C)
	if err != nil {
		return err
	}
	if pretty {
		var ind bytes.Buffer
		if err := json.Indent(&ind, b, "", "  "); err != nil {
			return err
		}
		b = ind.Bytes()
	}
	_, err = w.Write(b)
	return err
}

//WriteFile writes the collection to the file name.
func (C *Collection) WriteFile(name string, pretty bool) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := C.Write(f, pretty); err != nil {
		f.Close()
		return fmt.Errorf("qcfilter.Collection.WriteFile: %w", err)
	}
	return f.Close()
}
