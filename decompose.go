/*
 * decompose.go, part of ffinspector.
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

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/rmera/ffinspector/chem"
	"github.com/rmera/ffinspector/forcefield"
	v3 "github.com/rmera/ffinspector/v3"
)

//Tolerance for the comparison between the total energy and the sum of the group energies.
const sumTolerance = 1e-8

//DecomposedEnergy is the potential energy of a conformer split by parameter and
//interaction kind, in kJ/mol.
type DecomposedEnergy struct {
	//ValenceEnergies holds the energy of each valence parameter, by handler and id.
	ValenceEnergies     map[string]map[string]float64 `json:"valence_energies"`
	VdWEnergy           float64                       `json:"vdw_energy"`
	ElectrostaticEnergy float64                       `json:"electrostatic_energy"`
}

//Valence returns the sum of all the valence energies.
func (D *DecomposedEnergy) Valence() float64 {
	var e float64
	for _, h := range GroupedHandlers {
		for _, v := range D.ValenceEnergies[h] {
			e += v
		}
	}
	return e
}

//Total returns the total potential energy.
func (D *DecomposedEnergy) Total() float64 {
	return D.Valence() + D.VdWEnergy + D.ElectrostaticEnergy
}

//withoutConstraints returns ff, or a copy of it without the Constraints handler if ff
//has constraints.
func withoutConstraints(ff *forcefield.ForceField, logger *zap.Logger, why string) *forcefield.ForceField {
	n := ff.NumParameters(forcefield.Constraints)
	if n == 0 {
		return ff
	}
	if logger != nil {
		logger.Warn("removing the constraints of the force field "+why,
			zap.String("forcefield", ff.Name), zap.Int("constraints", n))
	}
	return ff.WithoutHandler(forcefield.Constraints)
}

//Decompose returns the potential energy of the conformer (A) of top under ff, split
//into the contribution of each valence parameter plus the van der Waals and the
//electrostatic energies. Constraints in ff are dropped, with a warning, since they
//would take the constrained bonds out of the energy. The only option used is WithLogger.
//If the parts don't add up to the energy of the system, a *GroupingConsistencyError is
//returned.
func Decompose(top *chem.Topology, ff *forcefield.ForceField, conformer *v3.Matrix, opts ...Option) (*DecomposedEnergy, error) {
	o := newOptions(opts)
	if top == nil || ff == nil || conformer == nil {
		return nil, Error{"nil topology, force field or conformer", []string{"Decompose"}, true, nil}
	}
	if conformer.NVecs() != top.Len() {
		return nil, Error{fmt.Sprintf("conformer with %d atoms for a molecule with %d", conformer.NVecs(), top.Len()), []string{"Decompose"}, true, nil}
	}
	top = top.Copy()
	ff = withoutConstraints(ff.Copy(), o.logger, "for the energy decomposition")
	applied, err := Label(top, ff)
	if err != nil {
		return nil, errDecorate(err, "Decompose")
	}
	sys, err := ff.CreateSystem(top)
	if err != nil {
		return nil, wrap(err, "Decompose", "building the system")
	}
	grouped, index, err := GroupByParameter(sys, applied)
	if err != nil {
		return nil, errDecorate(err, "Decompose")
	}
	total, groups, err := EvaluateEnergy(grouped, conformer)
	if err != nil {
		return nil, errDecorate(err, "Decompose")
	}
	var sum float64
	for _, e := range groups {
		sum += e
	}
	if !scalar.EqualWithinAbsOrRel(total, sum, sumTolerance, sumTolerance) {
		return nil, groupingError("Decompose", "total energy %g, sum of the group energies %g", total, sum)
	}
	nonbonded := groups[NonbondedGroup]
	_, neutral, err := EvaluateEnergy(grouped.WithoutCharges(), conformer)
	if err != nil {
		return nil, errDecorate(err, "Decompose")
	}
	ret := &DecomposedEnergy{
		ValenceEnergies:     make(map[string]map[string]float64, len(index)),
		VdWEnergy:           neutral[NonbondedGroup],
		ElectrostaticEnergy: nonbonded - neutral[NonbondedGroup],
	}
	for h, ids := range index {
		ret.ValenceEnergies[h] = make(map[string]float64, len(ids))
		for id, g := range ids {
			ret.ValenceEnergies[h][id] = groups[g]
		}
	}
	o.logger.Debug("decomposed energy", zap.String("molecule", top.Name), zap.Float64("total", total),
		zap.Float64("vdw", ret.VdWEnergy), zap.Float64("electrostatic", ret.ElectrostaticEnergy))
	return ret, nil
}
