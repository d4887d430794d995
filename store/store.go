/*
 * store.go, part of ffbench.
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

//Package store runs the force field optimizations and obtains the per-record
//error metrics that the rest of ffbench reads.
package store

import (
	"context"

	"github.com/rmera/ffbench"
)

//Store is a collection of molecules with quantum-chemistry reference
//geometries and energies, which can be optimized with a force field and
//compared with the reference.
type Store interface {
	//Optimize optimizes all the molecules with forceField, using procs
	//processes.
	Optimize(ctx context.Context, forceField string, procs int) error

	//DDE returns the relative energy differences between the force field
	//and the reference, in kcal/mol.
	DDE(ctx context.Context, forceField string) ([]ffbench.Value, error)

	//RMSD returns the RMSD between the force field and the reference
	//geometries.
	RMSD(ctx context.Context, forceField string) ([]ffbench.Value, error)

	//TFD returns the torsion fingerprint deviations.
	TFD(ctx context.Context, forceField string) ([]ffbench.Value, error)

	//ICRMSD returns the RMSDs for each class of internal coordinate.
	ICRMSD(ctx context.Context, forceField string) ([]ffbench.ICValue, error)
}
