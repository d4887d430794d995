/*
 * tex.go, part of ffbench.
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
	"bufio"
	"fmt"
	"io"
	"strings"
)

//TeXRow formats s as a LaTeX table row:
//name & metric & mean & mae & median & std \\
func TeXRow(s Summary) string {
	return fmt.Sprintf("%s & %s & %.2f & %.2f & %.2f & %.2f \\\\", texEscape(s.Name), s.Metric, s.Mean, s.MAE, s.Median, s.Std)
}

//WriteTeX writes the rows for all the summaries, one group per metric,
//with a \hline between groups.
func WriteTeX(w io.Writer, groups [][]Summary) error {
	b := bufio.NewWriter(w)
	first := true
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		if !first {
			b.WriteString("\\hline\n")
		}
		first = false
		for _, s := range g {
			b.WriteString(TeXRow(s))
			b.WriteByte('\n')
		}
	}
	return b.Flush()
}

var texReplacer = strings.NewReplacer(`_`, `\_`, `&`, `\&`, `%`, `\%`, `#`, `\#`)

func texEscape(s string) string {
	return texReplacer.Replace(s)
}
