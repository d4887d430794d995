/*
 * load.go, part of ffbench.
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
	"log/slog"
)

//Base names of the four files produced by a benchmark run.
const (
	DDEFile    = "dde"
	RMSDFile   = "rmsd"
	TFDFile    = "tfd"
	ICRMSDFile = "icrmsd"
)

//LoadOptions modifies the behavior of LoadDir and LoadRuns.
//The zero value is usable.
type LoadOptions struct {
	Filter *RecordFilter //if not nil, only the records passing the filter are kept
	Logger *slog.Logger  //nil means slog.Default()
}

func (o LoadOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

//LoadDir reads the dde, rmsd, tfd and icrmsd files in dir and joins them
//on the record ID. Only the records present in all four files are kept.
//A join with no common records gives an empty table, and a warning is logged.
func LoadDir(dir string, opts LoadOptions) (*Table, error) {
	var vals [3][]Value
	for i, base := range []string{DDEFile, RMSDFile, TFDFile} {
		name, err := resolveInput(dir, base)
		if err != nil {
			return nil, errDecorate(err, "LoadDir")
		}
		vals[i], err = ReadValues(name)
		if err != nil {
			return nil, errDecorate(err, "LoadDir")
		}
	}
	name, err := resolveInput(dir, ICRMSDFile)
	if err != nil {
		return nil, errDecorate(err, "LoadDir")
	}
	ic, err := ReadICValues(name)
	if err != nil {
		return nil, errDecorate(err, "LoadDir")
	}

	recs := make([]MetricRecord, 0, len(vals[0]))
	for _, v := range vals[0] {
		recs = append(recs, MetricRecord{ID: v.ID, DDE: v.V})
	}
	recs = joinValues(recs, vals[1], func(r *MetricRecord, v float64) { r.RMSD = v })
	recs = joinValues(recs, vals[2], func(r *MetricRecord, v float64) { r.TFD = v })
	recs = joinIC(recs, ic)

	T := &Table{Name: dir, Records: recs}
	if len(recs) == 0 {
		opts.logger().Warn("no records common to all input files", "dir", dir,
			"dde", len(vals[0]), "rmsd", len(vals[1]), "tfd", len(vals[2]), "icrmsd", len(ic))
	}
	if opts.Filter != nil {
		before := T.Len()
		T = opts.Filter.Apply(T)
		opts.logger().Debug("filtered records", "dir", dir, "before", before, "after", T.Len(), "negate", opts.Filter.Negate)
	}
	return T, nil
}

//LoadRuns loads each of dirs with LoadDir and stacks the results in one
//table called name. Record IDs repeated across runs are kept, as each run
//is an independent sample.
func LoadRuns(name string, dirs []string, opts LoadOptions) (*Table, error) {
	if len(dirs) == 0 {
		return nil, NewError(ErrPrecondition, "", "no run directories given for "+name, nil, "LoadRuns")
	}
	tables := make([]*Table, 0, len(dirs))
	for _, d := range dirs {
		T, err := LoadDir(d, opts)
		if err != nil {
			return nil, errDecorate(err, "LoadRuns")
		}
		tables = append(tables, T)
	}
	return Concat(name, tables...), nil
}

//joinValues is an inner join of left and right on the record ID. A key repeated
//in both sides gives all the combinations. The order of left is kept.
func joinValues(left []MetricRecord, right []Value, set func(*MetricRecord, float64)) []MetricRecord {
	idx := make(map[string][]float64, len(right))
	for _, v := range right {
		idx[v.ID] = append(idx[v.ID], v.V)
	}
	ret := make([]MetricRecord, 0, len(left))
	for _, l := range left {
		for _, v := range idx[l.ID] {
			r := l
			set(&r, v)
			ret = append(ret, r)
		}
	}
	return ret
}

//Same as joinValues, for the internal coordinate file.
func joinIC(left []MetricRecord, right []ICValue) []MetricRecord {
	idx := make(map[string][]ICValue, len(right))
	for _, v := range right {
		idx[v.ID] = append(idx[v.ID], v)
	}
	ret := make([]MetricRecord, 0, len(left))
	for _, l := range left {
		for _, v := range idx[l.ID] {
			r := l
			r.Bonds, r.Angles, r.Dihedrals, r.Impropers = v.Bonds, v.Angles, v.Dihedrals, v.Impropers
			ret = append(ret, r)
		}
	}
	return ret
}
