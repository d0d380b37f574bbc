/*
 * lbfgs.go, part of ffinspector.
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

package optim

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

//Defaults for LBFGS.
const (
	DefaultMaxIterations     = 2000
	DefaultGradientThreshold = 1e-4
	DefaultStore             = 15
)

//LBFGS is a limited-memory BFGS minimizer. The zero value uses the defaults.
type LBFGS struct {
	//FunctionTolerance stops the minimization, successfully, when a major iteration
	//improves the function by less than this. 0 disables the check.
	FunctionTolerance float64
	//GradientThreshold stops the minimization, successfully, when the infinity norm
	//of the gradient falls below it.
	GradientThreshold float64
	//MaxIterations caps the major iterations. Reaching it is a failure.
	MaxIterations int
	//Store is the number of past updates kept to approximate the Hessian.
	Store int
}

//errStop is the reason given to gonum when the observer or a non-finite value ends the run.
var errStop = errors.New("minimization stopped")

//the statuses gonum reports for a converged run.
var converged = map[optimize.Status]bool{
	optimize.Success:             true,
	optimize.FunctionThreshold:   true,
	optimize.FunctionConvergence: true,
	optimize.GradientThreshold:   true,
	optimize.StepConvergence:     true,
	optimize.MethodConverge:      true,
}

//evaluator caches the last oracle call, since gonum asks for the value and the
//gradient at the same point separately.
type evaluator struct {
	oracle  Oracle
	x       []float64
	f       float64
	g       []float64
	calls   int
	err     error
	stopped string
}

func (E *evaluator) at(x []float64) {
	if E.x != nil && equal(E.x, x) {
		return
	}
	E.calls++
	f, g, err := E.oracle(x)
	E.x = append(E.x[:0], x...)
	E.f, E.g = f, g
	if err != nil && E.err == nil {
		E.err = err
	}
	if E.err != nil {
		E.f, E.g = math.NaN(), make([]float64, len(x))
		return
	}
	if len(g) != len(x) {
		E.err = fmt.Errorf("gradient of length %d for %d variables", len(g), len(x))
		E.f, E.g = math.NaN(), make([]float64, len(x))
		return
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		E.stopped = fmt.Sprintf("non-finite function value %v", f)
	}
}

func equal(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

//recorder passes gonum's major iterations on to the observer.
type recorder struct {
	observe Observer
	eval    *evaluator
}

func (R *recorder) Init() error { return nil }

func (R *recorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if op != optimize.MajorIteration || R.observe == nil || R.eval.stopped != "" {
		return nil
	}
	step := Step{Iteration: stats.MajorIterations, X: append([]float64(nil), loc.X...), F: loc.F}
	if !R.observe(step) {
		R.eval.stopped = "stop requested by the observer"
	}
	return nil
}

//Minimize runs L-BFGS from x0. The initial point is not reported to the observer.
func (L *LBFGS) Minimize(oracle Oracle, x0 []float64, observe Observer) (*Result, error) {
	if len(x0) == 0 {
		return nil, Error{"optim: empty starting point", []string{"LBFGS.Minimize"}, true}
	}
	maxIter := L.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	gthr := L.GradientThreshold
	if gthr <= 0 {
		gthr = DefaultGradientThreshold
	}
	store := L.Store
	if store <= 0 {
		store = DefaultStore
	}
	eval := &evaluator{oracle: oracle}
	eval.at(x0)
	if eval.err != nil {
		return nil, oracleError{eval.err}
	}
	x := append([]float64(nil), x0...)
	if eval.stopped != "" {
		return &Result{X: x, F: eval.f, Message: fmt.Sprintf("Failure: %s: %s", errStop, eval.stopped), Evaluations: eval.calls}, nil
	}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			eval.at(x)
			return eval.f
		},
		Grad: func(grad, x []float64) {
			eval.at(x)
			copy(grad, eval.g)
		},
		Status: func() (optimize.Status, error) {
			if eval.err != nil || eval.stopped != "" {
				return optimize.Failure, errStop
			}
			return optimize.NotTerminated, nil
		},
	}
	settings := &optimize.Settings{
		InitValues:        &optimize.Location{F: eval.f, Gradient: append([]float64(nil), eval.g...)},
		GradientThreshold: gthr,
		MajorIterations:   maxIter,
		Recorder:          &recorder{observe: observe, eval: eval},
	}
	if L.FunctionTolerance > 0 {
		settings.Converger = &optimize.FunctionConverge{Absolute: L.FunctionTolerance, Iterations: 1}
	}
	res, err := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{Store: store})
	if eval.err != nil {
		return nil, oracleError{eval.err}
	}
	if res == nil {
		return nil, Error{fmt.Sprintf("optim: %s", err), []string{"LBFGS.Minimize"}, true}
	}
	ret := &Result{
		X:           append([]float64(nil), res.X...),
		F:           res.F,
		Iterations:  res.MajorIterations,
		Evaluations: eval.calls,
		Success:     converged[res.Status] && err == nil && eval.stopped == "",
	}
	switch {
	case eval.stopped != "":
		ret.Message = fmt.Sprintf("Failure: %s: %s", errStop, eval.stopped)
	case err != nil:
		ret.Message = fmt.Sprintf("%s: %s", res.Status, err)
	case ret.Success:
		ret.Message = fmt.Sprintf("Converged: %s", res.Status)
	default:
		ret.Message = fmt.Sprintf("Failed to converge: %s", res.Status)
	}
	return ret, nil
}
