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

package inspector

import "fmt"

//Decorator is implemented by the errors of every package in this module. Decorate adds
//the name of a caller (plus, optionally, some information in the form "Function: info")
//and returns the resulting call chain. An empty string just returns the current chain.
type Decorator interface {
	Error() string
	Decorate(string) []string
}

//Error is the general error type of the inspector package. Errors from other libraries
//are kept and can be reached with errors.Unwrap.
type Error struct {
	message  string
	deco     []string
	critical bool
	wrapped  error
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

func (err Error) Unwrap() error { return err.wrapped }

//wrap returns an Error for err, which comes from another package.
func wrap(err error, caller, format string, a ...interface{}) error {
	return Error{fmt.Sprintf(format, a...) + ": " + err.Error(), []string{caller}, true, err}
}

func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case Error:
		e.deco = append(e.deco[:len(e.deco):len(e.deco)], caller)
		return e
	case *GroupingConsistencyError:
		e.deco = append(e.deco, caller)
		return e
	}
	return err
}

//GroupingConsistencyError means that the potential split by parameter doesn't account
//for the same terms, or the same energy, as the original one. It points to a labeling
//that disagrees with the construction of the potential, and can't be recovered from.
type GroupingConsistencyError struct {
	message string
	deco    []string
}

func (err *GroupingConsistencyError) Error() string {
	return "inspector: inconsistent force groups: " + err.message
}

//Decorate adds dec to the call chain of the error and returns the chain.
func (err *GroupingConsistencyError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical is always true for this error.
func (err *GroupingConsistencyError) Critical() bool { return true }

func groupingError(caller, format string, a ...interface{}) *GroupingConsistencyError {
	return &GroupingConsistencyError{fmt.Sprintf(format, a...), []string{caller}}
}

//MinimizationError means that the optimizer did not converge, or was stopped. Message
//is the optimizer's own message.
type MinimizationError struct {
	Message    string
	Iterations int
}

func (err *MinimizationError) Error() string {
	return "inspector: minimization failed: " + err.Message
}
