/*
 * compare.go, part of ffbench.
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
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gonum.org/v1/gonum/mat"
)

var validate = validator.New()

//Comparison holds the values of one metric for several force fields,
//one column per force field, one row per record present in all of them.
type Comparison struct {
	Metric Metric
	IDs    []string
	Names  []string
	Values *mat.Dense //nil if there are no rows
}

//Len returns the number of rows (records) in the comparison.
func (C *Comparison) Len() int {
	return len(C.IDs)
}

//Column returns a copy of the values for the jth force field. If dst is given
//and has enough capacity, it is used.
func (C *Comparison) Column(j int, dst ...[]float64) []float64 {
	var d []float64
	if len(dst) > 0 && cap(dst[0]) >= C.Len() {
		d = dst[0][:C.Len()]
	} else {
		d = make([]float64, C.Len())
	}
	if C.Values == nil {
		return d
	}
	return mat.Col(d, j, C.Values)
}

//Row returns a view of the ith row.
func (C *Comparison) Row(i int) []float64 {
	return C.Values.RawRowView(i)
}

//Subset returns a new comparison with only the rows for which keep is true.
func (C *Comparison) Subset(keep []bool) *Comparison {
	ret := &Comparison{Metric: C.Metric, Names: C.Names}
	rows := make([]float64, 0, len(C.Names)*C.Len())
	for i, k := range keep {
		if !k {
			continue
		}
		ret.IDs = append(ret.IDs, C.IDs[i])
		rows = append(rows, C.Row(i)...)
	}
	if len(ret.IDs) > 0 {
		ret.Values = mat.NewDense(len(ret.IDs), len(C.Names), rows)
	}
	return ret
}

type compareArgs struct {
	Tables []*Table `validate:"min=1,dive,required"`
	Names  []string `validate:"min=1,unique,dive,required"`
}

//Compare builds a comparison of metric m for the given tables, with the columns
//named after names, in the same order. The rows are the records of the first
//table that are also present in every other table (an inner join on the record ID).
//names must be as many as tables, non-empty and unique.
func Compare(tables []*Table, names []string, m Metric) (*Comparison, error) {
	if err := validate.Struct(compareArgs{Tables: tables, Names: names}); err != nil {
		return nil, validationError(err, "Compare")
	}
	if len(names) != len(tables) {
		return nil, NewError(ErrPrecondition, "", fmt.Sprintf("%d names given for %d tables", len(names), len(tables)), nil, "Compare")
	}
	if _, err := ParseMetric(string(m)); err != nil {
		return nil, errDecorate(err, "Compare")
	}
	ids := make([]string, 0, tables[0].Len())
	rows := make([][]float64, 0, tables[0].Len())
	for _, r := range tables[0].Records {
		ids = append(ids, r.ID)
		rows = append(rows, []float64{m.Of(r)})
	}
	for _, T := range tables[1:] {
		idx := make(map[string][]float64, T.Len())
		for _, r := range T.Records {
			idx[r.ID] = append(idx[r.ID], m.Of(r))
		}
		nids := make([]string, 0, len(ids))
		nrows := make([][]float64, 0, len(rows))
		for i, id := range ids {
			for _, v := range idx[id] {
				row := make([]float64, len(rows[i]), len(rows[i])+1)
				copy(row, rows[i])
				nids = append(nids, id)
				nrows = append(nrows, append(row, v))
			}
		}
		ids, rows = nids, nrows
	}
	C := &Comparison{Metric: m, IDs: ids, Names: append([]string(nil), names...)}
	if len(ids) == 0 {
		return C, nil
	}
	data := make([]float64, 0, len(ids)*len(names))
	for _, r := range rows {
		data = append(data, r...)
	}
	C.Values = mat.NewDense(len(ids), len(names), data)
	return C, nil
}

//validationError turns validator errors into ErrPrecondition errors.
func validationError(err error, caller string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewError(ErrPrecondition, "", "", err, caller)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "unique":
			msgs = append(msgs, e.Field()+" must be unique")
		case "min":
			msgs = append(msgs, e.Field()+" can't be empty")
		case "required":
			msgs = append(msgs, e.Namespace()+" is required")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag()))
		}
	}
	return NewError(ErrPrecondition, "", strings.Join(msgs, "; "), nil, caller)
}
