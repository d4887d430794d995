/*
 * histo.go, part of ffbench.
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

//Package histo provides histograms with fixed dividers (bin edges), and
//sets of histograms sharing the same dividers, one per force field.
package histo

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Linspace returns n evenly spaced dividers from lo to hi, both included.
func Linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}

//Set is a group of named histograms, all with the same dividers.
type Set struct {
	names    []string
	d        []*Data
	dividers []float64
}

//NewSet returns a new set of histograms, one for each name, with the given dividers.
//The histograms are empty.
func NewSet(names []string, dividers []float64) *Set {
	S := &Set{names: names, d: make([]*Data, len(names))}
	S.dividers = make([]float64, len(dividers))
	copy(S.dividers, dividers)
	for i := range names {
		S.d[i] = NewData(S.dividers, nil)
	}
	return S
}

//Len returns the number of histograms in the set.
func (S *Set) Len() int {
	return len(S.d)
}

//Name returns the name of the ith histogram.
func (S *Set) Name(i int) string {
	return S.names[i]
}

//View Returns a view of the ith histogram in the set
func (S *Set) View(i int) *Data {
	return S.d[i]
}

//ReHisto replaces the data of the ith histogram with rawdata.
func (S *Set) ReHisto(i int, rawdata []float64) {
	S.d[i].ReHisto(S.dividers, rawdata)
}

//Copies the dividers of the set
func (S *Set) CopyDividers(dest ...[]float64) []float64 {
	d := getCopySlice(len(S.dividers), dest...)
	return floats.ScaleTo(d, 1, S.dividers)
}

//Max returns the largest bin count in any of the histograms.
func (S *Set) Max() float64 {
	var m float64
	for _, v := range S.d {
		if len(v.histo) > 0 {
			m = math.Max(m, floats.Max(v.histo))
		}
	}
	return m
}

//Data is one histogram.
type Data struct {
	total    int //data points in the histogram
	omitted  int //data points out of range or missing
	dividers []float64
	histo    []float64
}

//Total returns the number of data points counted in the histogram.
func (D *Data) Total() int {
	return D.total
}

//Omitted returns the number of data points that were out of the range
//of the dividers, or NaN.
func (D *Data) Omitted() int {
	return D.omitted
}

//String prints a -hopefully- pretty string representation of
//the histogram, in 3 lines of text.
func (D *Data) String() string {
	ret := fmt.Sprintf("TotalData: %d, Omitted: %d\n", D.total, D.omitted)
	d := make([]string, 0, len(D.dividers)-1)
	h := make([]string, 0, len(D.dividers)-1)
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

//NewData returns a new histogram from the dividers and rawdata given
//rawdata can be nil. In that case, an empty histogram is created.
//NewData panics if less than 2 dividers are given.
func NewData(dividers []float64, rawdata []float64) *Data {
	if len(dividers) < 2 {
		panic("ffbench/histo.NewData: at least 2 dividers are needed")
	}
	d := new(Data)
	d.dividers = make([]float64, len(dividers))
	copy(d.dividers, dividers)
	d.histo = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(d.dividers, rawdata)
	}
	return d
}

//View returns the bin values, not a copy.
func (D *Data) View() []float64 {
	return D.histo
}

//ReHisto replaces the data in the histogram with rawdata, using the dividers given.
//Bins are closed on the left, except the last one, which is also closed on the right.
//Points out of range, and NaNs, are omitted. Neither rawdata nor dividers are
//kept or modified.
func (D *Data) ReHisto(dividers, rawdata []float64) {
	data := make([]float64, 0, len(rawdata))
	for _, v := range rawdata {
		if !math.IsNaN(v) {
			data = append(data, v)
		}
	}
	D.omitted = len(rawdata) - len(data)
	sort.Float64s(data)
	//stat.Histogram just panics instead of omitting the values that are off limits
	//so we remove them here before the call. The values equal to the last
	//divider are counted apart, as they belong to the last bin.
	last := dividers[len(dividers)-1]
	maxi := sort.SearchFloat64s(data, last)
	mini := sort.SearchFloat64s(data, dividers[0])
	onedge := 0
	for i := maxi; i < len(data) && data[i] == last; i++ {
		onedge++
	}
	D.omitted += len(data) - maxi - onedge + mini
	data = data[mini:maxi]
	if len(D.dividers) != len(dividers) {
		D.dividers = make([]float64, len(dividers))
	}
	copy(D.dividers, dividers)
	D.histo = stat.Histogram(nil, D.dividers, data, nil)
	D.histo[len(D.histo)-1] += float64(onedge)
	D.total = len(data) + onedge
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	var d []float64
	if len(dest) > 0 && len(dest[0]) >= N {
		d = dest[0]
		if len(dest[0]) > N {
			d = dest[0][:N] //floats.ScaleTo wants both slices to _match_
		}
	} else {
		d = make([]float64, N)
	}
	return d
}
