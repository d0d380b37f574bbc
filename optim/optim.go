/*
 * optim.go, part of ffinspector.
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

/*Package optim defines a small interface for local minimizers driven by an
energy/gradient oracle, and an L-BFGS implementation on top of gonum/optimize.

An Optimizer owns the iteration loop. It calls the Oracle at candidate points and
reports every accepted point (major iteration) to an Observer, which can ask for the
minimization to stop. Failure to converge is not an error: it is reported in the
Result, together with a message from the optimizer.
*/
package optim

import "fmt"

//Oracle returns the value of the function and its gradient at x. x must not be
//kept or modified. A non-nil error aborts the minimization.
type Oracle func(x []float64) (f float64, grad []float64, err error)

//Step is an accepted point of the minimization. Iterations are counted from 1.
type Step struct {
	Iteration int
	X         []float64
	F         float64
}

//Observer receives every accepted point after the starting one, in order. Returning
//false asks the optimizer to stop. The step's X belongs to the observer.
type Observer func(Step) bool

//Result is the outcome of a minimization.
type Result struct {
	X           []float64
	F           float64
	Success     bool
	Message     string
	Iterations  int
	Evaluations int
}

//Optimizer minimizes the function given by an oracle, starting from x0.
type Optimizer interface {
	//Minimize runs the optimizer. The error is reserved for failures of the oracle
	//or invalid input. Non-convergence gives a Result with Success false.
	Minimize(oracle Oracle, x0 []float64, observe Observer) (*Result, error)
}

//Error is the error type for the optim package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string { return err.message }

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

//oracleError wraps an error returned by the oracle.
type oracleError struct {
	err error
}

func (e oracleError) Error() string { return fmt.Sprintf("optim: oracle failed: %s", e.err.Error()) }

func (e oracleError) Unwrap() error { return e.err }
