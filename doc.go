/*
 * doc.go, part of ffbench.
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

/*Package ffbench is the main package of the ffbench tools, used to benchmark
molecular mechanics force fields against quantum-chemistry reference data.

	**ffbench Capabilities**

    Reads the per-record error metrics produced by a benchmark run
	(dde.csv, rmsd.csv, tfd.csv and icrmsd.csv, optionally zstd or gzip
	compressed) and joins them into one table per force field.

    Filters records by an allow or deny list of record IDs.

    Stacks several runs of the same force field.

    Builds comparison tables for one metric across force fields, and removes
	outliers from them.

    The benchstat, histo and benchplot packages compute the statistics and
	draw the plots, and the report package puts everything together. The store
	package drives the external program that optimizes the molecules, and
	qcfilter filters the quantum-chemistry datasets before a run.

*/
package ffbench
