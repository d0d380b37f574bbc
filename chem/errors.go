/*
 * errors.go, part of ffinspector.
 *
 * Copyright 2026 Raul Mera <rmera{at}usachDOTcl>
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

package chem

//Error is the error type for the chem package. It carries a decoration
//slice with the chain of functions the error passed through.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical returns whether the error is critical or it can be ignored
func (err Error) Critical() bool { return err.critical }

//errDecorate returns err with caller added to its decoration, if err is
//a chem Error. Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	e, ok := err.(Error)
	if !ok {
		return err
	}
	e.deco = append(e.deco[:len(e.deco):len(e.deco)], caller)
	return e
}

//PanicMsg is the type used for all the panics raised in the chem package.
//Panics are reserved for programming errors, like asking for an atom that is not there.
type PanicMsg string

//Error returns a string with an error message
func (v PanicMsg) Error() string { return string(v) }

const (
	ErrAtomOutOfRange = PanicMsg("chem: Atom index out of range")
	ErrNilTopology    = PanicMsg("chem: Attempted to use a nil Topology")
	ErrNoBond         = PanicMsg("chem: The atom is not part of the bond")
)
