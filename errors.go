/*
 * errors.go, part of ffbench.
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
)

//Error kinds. Use errors.Is(err, ffbench.ErrSchema) and so on to tell them apart.
var (
	ErrMissingFile  = errors.New("missing input file")
	ErrSchema       = errors.New("malformed input")
	ErrPrecondition = errors.New("precondition failed")
	ErrEmptyResult  = errors.New("no common records")
	ErrNumeric      = errors.New("invalid numeric data")
)

//Error is the error type returned by all the packages in ffbench.
//The Decorate method allows to add the names of the calling functions
//as the error is passed up, without wrapping it.
type Error struct {
	kind    error
	file    string //the file with problems, or empty string if none.
	message string
	cause   error
	deco    []string
}

//NewError returns an error of the given kind, caused by cause (which can be nil).
func NewError(kind error, file, message string, cause error, deco ...string) *Error {
	return &Error{kind: kind, file: file, message: message, cause: cause, deco: deco}
}

func (E *Error) Error() string {
	var b strings.Builder
	if len(E.deco) > 0 {
		b.WriteString(strings.Join(E.deco, ": "))
		b.WriteString(": ")
	}
	b.WriteString(E.kind.Error())
	if E.file != "" {
		fmt.Fprintf(&b, " (%s)", E.file)
	}
	if E.message != "" {
		b.WriteString(": " + E.message)
	}
	if E.cause != nil {
		b.WriteString(": " + E.cause.Error())
	}
	return b.String()
}

//Decorate adds dec to the decoration trail and returns the trail.
//An empty string just returns the current trail.
func (E *Error) Decorate(dec string) []string {
	if dec != "" {
		E.deco = append([]string{dec}, E.deco...)
	}
	return E.deco
}

//Kind returns the kind of the error (ErrSchema, ErrMissingFile...)
func (E *Error) Kind() error { return E.kind }

//FileName returns the file the error is associated to, if any.
func (E *Error) FileName() string { return E.file }

func (E *Error) Is(target error) bool { return target == E.kind }

func (E *Error) Unwrap() error { return E.cause }

//errDecorate decorates err with caller if err is an *Error.
//Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}
