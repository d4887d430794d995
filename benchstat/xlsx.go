/*
 * xlsx.go, part of ffbench.
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

package benchstat

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"
)

var xlsxHeader = []interface{}{"force field", "n", "mean", "mae", "median", "std"}

//WriteXLSX writes the summaries to a spreadsheet, one sheet per metric.
//Missing statistics are left as empty cells.
func WriteXLSX(name string, groups [][]Summary) error {
	f := excelize.NewFile()
	defer f.Close()
	sheets := 0
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		sheet := string(g[0].Metric)
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return fmt.Errorf("benchstat.WriteXLSX: sheet %s: %w", sheet, err)
		}
		if sheets == 0 {
			f.SetActiveSheet(idx)
		}
		sheets++
		if err := f.SetSheetRow(sheet, "A1", &xlsxHeader); err != nil {
			return fmt.Errorf("benchstat.WriteXLSX: %w", err)
		}
		for i, s := range g {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return fmt.Errorf("benchstat.WriteXLSX: %w", err)
			}
			row := []interface{}{s.Name, s.N, cellValue(s.Mean), cellValue(s.MAE), cellValue(s.Median), cellValue(s.Std)}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("benchstat.WriteXLSX: %w", err)
			}
		}
	}
	if sheets > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("benchstat.WriteXLSX: %w", err)
		}
	}
	return f.SaveAs(name)
}

//Spreadsheets have no NaN, so missing values are empty cells.
func cellValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return math.Round(v*100) / 100
}
