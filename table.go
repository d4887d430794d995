/*
 * table.go, part of ffbench.
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
	"fmt"
	"math"
)

//Metric is the name of one of the error metrics computed for each record.
type Metric string

const (
	DDE       Metric = "dde"
	RMSD      Metric = "rmsd"
	TFD       Metric = "tfd"
	Bonds     Metric = "bonds"
	Angles    Metric = "angles"
	Dihedrals Metric = "dihedrals"
	Impropers Metric = "impropers"
)

//Metrics contains all the metrics, in the order used for tables and reports.
var Metrics = []Metric{DDE, RMSD, TFD, Bonds, Angles, Dihedrals, Impropers}

//ICMetrics are the internal-coordinate metrics, all read from icrmsd.csv
var ICMetrics = []Metric{Bonds, Angles, Dihedrals, Impropers}

//ParseMetric returns the Metric named s, or an error if there is none.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", NewError(ErrPrecondition, "", fmt.Sprintf("unknown metric %q", s), nil, "ParseMetric")
}

//MetricRecord holds the metrics for one QC record. Missing values are NaN.
type MetricRecord struct {
	ID        string
	DDE       float64
	RMSD      float64
	TFD       float64
	Bonds     float64
	Angles    float64
	Dihedrals float64
	Impropers float64
}

//Of returns the value of the metric m in r.
func (m Metric) Of(r MetricRecord) float64 {
	switch m {
	case DDE:
		return r.DDE
	case RMSD:
		return r.RMSD
	case TFD:
		return r.TFD
	case Bonds:
		return r.Bonds
	case Angles:
		return r.Angles
	case Dihedrals:
		return r.Dihedrals
	case Impropers:
		return r.Impropers
	}
	return math.NaN()
}

//Value is a row of a two-column metric file.
type Value struct {
	ID string
	V  float64
}

//ICValue is a row of an internal-coordinate RMSD file.
type ICValue struct {
	ID        string
	Bonds     float64
	Angles    float64
	Dihedrals float64
	Impropers float64
}

//Table is the set of records for one force field (and one or more runs).
type Table struct {
	Name    string
	Records []MetricRecord
}

//Len returns the number of records in the table.
func (T *Table) Len() int {
	if T == nil {
		return 0
	}
	return len(T.Records)
}

//IDs returns the record IDs, in table order.
func (T *Table) IDs() []string {
	ret := make([]string, 0, T.Len())
	for _, r := range T.Records {
		ret = append(ret, r.ID)
	}
	return ret
}

//Column returns the values of metric m, in table order.
func (T *Table) Column(m Metric) []float64 {
	ret := make([]float64, 0, T.Len())
	for _, r := range T.Records {
		ret = append(ret, m.Of(r))
	}
	return ret
}

//Concat stacks the records of the given tables, one after the other, in a new
//table called name. Repeated IDs are kept.
func Concat(name string, tables ...*Table) *Table {
	n := 0
	for _, t := range tables {
		n += t.Len()
	}
	ret := &Table{Name: name, Records: make([]MetricRecord, 0, n)}
	for _, t := range tables {
		if t == nil {
			continue
		}
		ret.Records = append(ret.Records, t.Records...)
	}
	return ret
}
