/*
 * options.go, part of ffinspector.
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

import (
	"context"

	"go.uber.org/zap"

	"github.com/rmera/ffinspector/optim"
)

//Defaults for Minimize.
const (
	DefaultTolerance     = 1e-6 //kJ/mol
	DefaultMaxIterations = optim.DefaultMaxIterations
)

type options struct {
	tolerance         float64
	maxIterations     int
	gradientThreshold float64
	optimizer         optim.Optimizer
	logger            *zap.Logger
	ctx               context.Context
}

//Option changes the behavior of Decompose and Minimize.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		tolerance:     DefaultTolerance,
		maxIterations: DefaultMaxIterations,
		ctx:           context.Background(),
	}
	for _, f := range opts {
		f(o)
	}
	if o.logger == nil {
		o.logger = zap.L()
	}
	if o.optimizer == nil {
		o.optimizer = &optim.LBFGS{
			FunctionTolerance: o.tolerance,
			GradientThreshold: o.gradientThreshold,
			MaxIterations:     o.maxIterations,
		}
	}
	return o
}

//WithTolerance sets the energy change (kJ/mol) between iterations below which the
//minimization is considered converged. Ignored if WithOptimizer is given.
func WithTolerance(tol float64) Option {
	return func(o *options) { o.tolerance = tol }
}

//WithMaxIterations caps the number of optimizer iterations. Ignored if WithOptimizer is given.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIterations = n }
}

//WithGradientThreshold sets the largest gradient component (kJ/mol/nm) at which the
//minimization is considered converged. Ignored if WithOptimizer is given.
func WithGradientThreshold(g float64) Option {
	return func(o *options) { o.gradientThreshold = g }
}

//WithOptimizer replaces the default L-BFGS optimizer.
func WithOptimizer(opt optim.Optimizer) Option {
	return func(o *options) { o.optimizer = opt }
}

//WithLogger sets the logger. The default is zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

//WithContext makes Minimize stop, with a *MinimizationError, once ctx is done.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}
