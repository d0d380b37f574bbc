/*
 * evaluate.go, part of ffinspector.
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
	"fmt"

	"github.com/rmera/ffinspector/forcefield"
	"github.com/rmera/ffinspector/potential"
	v3 "github.com/rmera/ffinspector/v3"
)

//EvaluateEnergy returns the total potential energy of sys, in kJ/mol, at the given
//conformer (in A), and the energy of each force group. Every call works on its own
//evaluation context.
func EvaluateEnergy(sys *potential.System, conformer *v3.Matrix) (float64, map[int]float64, error) {
	if sys == nil || conformer == nil {
		return 0, nil, Error{"nil system or conformer", []string{"EvaluateEnergy"}, true, nil}
	}
	if conformer.NVecs() != sys.NumParticles() {
		return 0, nil, Error{fmt.Sprintf("conformer with %d atoms for a system with %d", conformer.NVecs(), sys.NumParticles()), []string{"EvaluateEnergy"}, true, nil}
	}
	ctx, err := newContext(sys, conformer.Flat(forcefield.AngstromToNm))
	if err != nil {
		return 0, nil, errDecorate(err, "EvaluateEnergy")
	}
	total, err := ctx.Energy()
	if err != nil {
		return 0, nil, wrap(err, "EvaluateEnergy", "evaluating the energy")
	}
	groups, err := ctx.GroupEnergies()
	if err != nil {
		return 0, nil, wrap(err, "EvaluateEnergy", "evaluating the group energies")
	}
	return total, groups, nil
}

//EvaluateEnergyAndGradient returns the potential energy of sys (kJ/mol) at the flat
//positions x, in nm, and its gradient (kJ/mol/nm), which is minus the force.
func EvaluateEnergyAndGradient(sys *potential.System, x []float64) (float64, []float64, error) {
	if sys == nil {
		return 0, nil, Error{"nil system", []string{"EvaluateEnergyAndGradient"}, true, nil}
	}
	ctx, err := newContext(sys, x)
	if err != nil {
		return 0, nil, errDecorate(err, "EvaluateEnergyAndGradient")
	}
	e, g, err := ctx.EnergyAndGradient()
	if err != nil {
		return 0, nil, wrap(err, "EvaluateEnergyAndGradient", "evaluating the energy")
	}
	return e, g, nil
}

//newContext returns a new evaluation context for sys at x (nm).
func newContext(sys *potential.System, x []float64) (*potential.Context, error) {
	ctx, err := potential.NewContext(sys)
	if err != nil {
		return nil, wrap(err, "newContext", "invalid system")
	}
	if err := ctx.SetPositions(x); err != nil {
		return nil, wrap(err, "newContext", "invalid positions")
	}
	return ctx, nil
}
