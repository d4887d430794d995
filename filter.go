/*
 * filter.go, part of ffbench.
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
	"strings"
)

//RecordFilter keeps only the records whose ID is in IDs, or, if Negate is
//true, only those whose ID is not.
type RecordFilter struct {
	IDs    []string
	Negate bool
	set    map[string]struct{}
}

//NewRecordFilter returns a filter for the given IDs.
func NewRecordFilter(ids []string, negate bool) *RecordFilter {
	F := &RecordFilter{IDs: ids, Negate: negate}
	F.index()
	return F
}

func (F *RecordFilter) index() {
	F.set = make(map[string]struct{}, len(F.IDs))
	for _, id := range F.IDs {
		F.set[id] = struct{}{}
	}
}

//Keep returns true if a record with the given ID passes the filter.
func (F *RecordFilter) Keep(id string) bool {
	if F.set == nil {
		F.index()
	}
	_, in := F.set[id]
	return in != F.Negate
}

//Apply returns a new table with the records of T that pass the filter.
func (F *RecordFilter) Apply(T *Table) *Table {
	ret := &Table{Name: T.Name, Records: make([]MetricRecord, 0, T.Len())}
	for _, r := range T.Records {
		if F.Keep(r.ID) {
			ret.Records = append(ret.Records, r)
		}
	}
	return ret
}

//ReadRecordList reads a file with one record ID per line. Surrounding whitespace
//is removed and blank lines are ignored.
func ReadRecordList(name string) ([]string, error) {
	r, err := OpenInput(name)
	if err != nil {
		return nil, errDecorate(err, "ReadRecordList")
	}
	defer r.Close()
	ret := make([]string, 0, 64)
	s := bufio.NewScanner(r)
	for s.Scan() {
		l := strings.TrimSpace(s.Text())
		if l == "" {
			continue
		}
		ret = append(ret, l)
	}
	if err := s.Err(); err != nil {
		return nil, NewError(ErrSchema, name, "", err, "ReadRecordList")
	}
	return ret, nil
}
