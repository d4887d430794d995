/*
 * csvio.go, part of ffbench.
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

package ffbench

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

//TableHeader is the header of the merged per-force-field CSV files.
var TableHeader = []string{"rec_id", "dde", "rmsd", "tfd", "bonds", "angles", "dihedrals", "impropers"}

//icHeader is the header written for icrmsd.csv files, index column first.
var icHeader = []string{"", "bonds", "angles", "dihedrals", "impropers"}

//*zstd.Decoder doesn't implement io.ReadCloser, so we wrap it.
type zstdCloser struct {
	*zstd.Decoder
	f *os.File
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

type gzipCloser struct {
	*gzip.Reader
	f *os.File
}

func (g gzipCloser) Close() error {
	g.Reader.Close()
	return g.f.Close()
}

//OpenInput opens name for reading. Files ending in .zst and .gz are
//decompressed on the fly. A missing file gives an ErrMissingFile error.
func OpenInput(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewError(ErrMissingFile, name, "", err, "OpenInput")
		}
		return nil, err
	}
	switch {
	case strings.HasSuffix(name, ".zst"):
		d, err := zstd.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, NewError(ErrSchema, name, "can't open zstd stream", err, "OpenInput")
		}
		return zstdCloser{d, f}, nil
	case strings.HasSuffix(name, ".gz"):
		g, err := gzip.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, NewError(ErrSchema, name, "can't open gzip stream", err, "OpenInput")
		}
		return gzipCloser{g, f}, nil
	}
	return f, nil
}

//resolveInput returns the first existing file among base.csv, base.csv.zst
//and base.csv.gz in dir. If none exists, it returns an ErrMissingFile error
//for the plain name.
func resolveInput(dir, base string) (string, error) {
	plain := filepath.Join(dir, base+".csv")
	for _, name := range []string{plain, plain + ".zst", plain + ".gz"} {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", NewError(ErrMissingFile, plain, "", fs.ErrNotExist, "resolveInput")
}

//parseFloat reads a CSV cell. Empty cells and NaN spellings are missing values.
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "none", "null":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

//decodeRows reads all the rows of a CSV stream, skipping the header, and checks that
//each has exactly ncols fields. For each row, f is called with the record ID and
//the remaining fields already parsed.
func decodeRows(r io.Reader, file string, ncols int, f func(id string, vals []float64)) error {
	c := csv.NewReader(r)
	c.FieldsPerRecord = -1
	c.ReuseRecord = true
	vals := make([]float64, ncols-1)
	line := 0
	for {
		rec, err := c.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return NewError(ErrSchema, file, "", err, "decodeRows")
		}
		if len(rec) != ncols {
			return NewError(ErrSchema, file, fmt.Sprintf("line %d: %d columns, expected %d", line, len(rec), ncols), nil, "decodeRows")
		}
		if line == 1 {
			continue //header
		}
		for i, v := range rec[1:] {
			vals[i], err = parseFloat(v)
			if err != nil {
				return NewError(ErrSchema, file, fmt.Sprintf("line %d, column %d", line, i+2), err, "decodeRows")
			}
		}
		f(strings.TrimSpace(rec[0]), vals)
	}
	if line == 0 {
		return NewError(ErrSchema, file, "empty file, no header", nil, "decodeRows")
	}
	return nil
}

//DecodeValues reads a two-column (record ID, value) CSV stream with a header.
//file is used only for error messages.
func DecodeValues(r io.Reader, file string) ([]Value, error) {
	ret := make([]Value, 0, 64)
	err := decodeRows(r, file, 2, func(id string, v []float64) {
		ret = append(ret, Value{ID: id, V: v[0]})
	})
	if err != nil {
		return nil, errDecorate(err, "DecodeValues")
	}
	return ret, nil
}

//DecodeICValues reads a five-column internal coordinate RMSD stream, with header.
func DecodeICValues(r io.Reader, file string) ([]ICValue, error) {
	ret := make([]ICValue, 0, 64)
	err := decodeRows(r, file, 5, func(id string, v []float64) {
		ret = append(ret, ICValue{ID: id, Bonds: v[0], Angles: v[1], Dihedrals: v[2], Impropers: v[3]})
	})
	if err != nil {
		return nil, errDecorate(err, "DecodeICValues")
	}
	return ret, nil
}

//ReadValues reads a two-column metric file.
func ReadValues(name string) ([]Value, error) {
	r, err := OpenInput(name)
	if err != nil {
		return nil, errDecorate(err, "ReadValues")
	}
	defer r.Close()
	v, err := DecodeValues(r, name)
	return v, errDecorate(err, "ReadValues")
}

//ReadICValues reads an internal coordinate RMSD file.
func ReadICValues(name string) ([]ICValue, error) {
	r, err := OpenInput(name)
	if err != nil {
		return nil, errDecorate(err, "ReadICValues")
	}
	defer r.Close()
	v, err := DecodeICValues(r, name)
	return v, errDecorate(err, "ReadICValues")
}

//WriteValues writes vals with the record ID as the first, unnamed,
//column and the values in a column called name.
func WriteValues(w io.Writer, name string, vals []Value) error {
	c := csv.NewWriter(w)
	c.Write([]string{"", name})
	for _, v := range vals {
		c.Write([]string{v.ID, formatFloat(v.V)})
	}
	c.Flush()
	return c.Error()
}

//WriteICValues writes vals in the icrmsd.csv layout.
func WriteICValues(w io.Writer, vals []ICValue) error {
	c := csv.NewWriter(w)
	c.Write(icHeader)
	for _, v := range vals {
		c.Write([]string{v.ID, formatFloat(v.Bonds), formatFloat(v.Angles), formatFloat(v.Dihedrals), formatFloat(v.Impropers)})
	}
	c.Flush()
	return c.Error()
}

//EncodeTable writes the full table, one record per row, with TableHeader as header.
func EncodeTable(w io.Writer, T *Table) error {
	c := csv.NewWriter(w)
	c.Write(TableHeader)
	row := make([]string, len(TableHeader))
	for _, r := range T.Records {
		row[0] = r.ID
		for i, m := range Metrics {
			row[i+1] = formatFloat(m.Of(r))
		}
		c.Write(row)
	}
	c.Flush()
	return c.Error()
}

//WriteTable writes T to the file name.
func WriteTable(name string, T *Table) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := EncodeTable(f, T); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

//ReadTable reads a table written by WriteTable. The table is named after nothing,
//callers can set the Name field.
func ReadTable(name string) (*Table, error) {
	r, err := OpenInput(name)
	if err != nil {
		return nil, errDecorate(err, "ReadTable")
	}
	defer r.Close()
	T := new(Table)
	err = decodeRows(r, name, len(TableHeader), func(id string, v []float64) {
		T.Records = append(T.Records, MetricRecord{ID: id, DDE: v[0], RMSD: v[1], TFD: v[2],
			Bonds: v[3], Angles: v[4], Dihedrals: v[5], Impropers: v[6]})
	})
	if err != nil {
		return nil, errDecorate(err, "ReadTable")
	}
	return T, nil
}
