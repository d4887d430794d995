/*
 * predicates.go, part of ffbench.
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

package qcfilter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

//Predicate decides whether an entry stays in a collection.
type Predicate interface {
	Keep(ctx context.Context, e Entry) (bool, error)
}

//PredicateFunc allows to use a function as a Predicate.
type PredicateFunc func(ctx context.Context, e Entry) (bool, error)

func (f PredicateFunc) Keep(ctx context.Context, e Entry) (bool, error) {
	return f(ctx, e)
}

//StatusComplete is the status of successful records.
const StatusComplete = "complete"

//StatusFilter keeps the entries with the given status. Entries with no
//recorded status are kept.
type StatusFilter struct {
	Status string
}

func (S StatusFilter) Keep(ctx context.Context, e Entry) (bool, error) {
	return e.Status == "" || strings.EqualFold(e.Status, S.Status), nil
}

//Errors from a Charger that mean the molecule can't be used.
var (
	ErrChargeCalculation   = errors.New("partial charge calculation failed")
	ErrConformerGeneration = errors.New("conformer generation failed")
)

//DefaultChargeMethod is the partial charge method used by ChargeCheck if none is given.
const DefaultChargeMethod = "am1bccelf10"

//Charger assigns partial charges to the molecule with the given mapped SMILES.
type Charger interface {
	AssignCharges(ctx context.Context, cmiles, method string) error
}

//ChargeCheck keeps the entries for which partial charges can be assigned.
//Charge or conformer failures exclude the entry, other errors are returned.
type ChargeCheck struct {
	Charger Charger
	Method  string
}

func (C ChargeCheck) Keep(ctx context.Context, e Entry) (bool, error) {
	method := C.Method
	if method == "" {
		method = DefaultChargeMethod
	}
	err := C.Charger.AssignCharges(ctx, e.CMILES, method)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrChargeCalculation), errors.Is(err, ErrConformerGeneration):
		return false, nil
	}
	return false, err
}

//Exit codes of the charge script.
const (
	exitCharge    = 3
	exitConformer = 4
)

const chargeScript = `import sys
from openff.toolkit import Molecule
from openff.toolkit.utils.exceptions import ChargeCalculationError, ConformerGenerationError
from openff.toolkit.utils.toolkits import OpenEyeToolkitWrapper

mol = Molecule.from_mapped_smiles(sys.argv[1], allow_undefined_stereo=True)
try:
    OpenEyeToolkitWrapper().assign_partial_charges(mol, partial_charge_method=sys.argv[2])
except ChargeCalculationError:
    sys.exit(3)
except ConformerGenerationError:
    sys.exit(4)
`

//ExternalCharger assigns charges with the OpenFF toolkit and OpenEye, through
//a Python interpreter.
type ExternalCharger struct {
	Python string //"python" if empty
}

func (X ExternalCharger) AssignCharges(ctx context.Context, cmiles, method string) error {
	python := X.Python
	if python == "" {
		python = "python"
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, python, "-c", chargeScript, cmiles, method)
	cmd.Stderr = &stderr
	err := cmd.Run()
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		switch exit.ExitCode() {
		case exitCharge:
			return fmt.Errorf("%w: %s", ErrChargeCalculation, cmiles)
		case exitConformer:
			return fmt.Errorf("%w: %s", ErrConformerGeneration, cmiles)
		}
	}
	if err != nil {
		return fmt.Errorf("qcfilter.ExternalCharger: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
