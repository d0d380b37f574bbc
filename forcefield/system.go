/*
 * system.go, part of ffinspector.
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

package forcefield

import (
	"fmt"
	"math"
	"sort"

	"github.com/rmera/ffinspector/chem"
	"github.com/rmera/ffinspector/potential"
)

//Unit conversions from the document units to the ones used by the potential package.
const (
	KcalToKJ     = 4.184
	AngstromToNm = 0.1
	DegToRad     = math.Pi / 180
)

//exception sigma for excluded pairs. It has no effect, since their epsilon is zero.
const excludedSigma = 1.0

//CreateSystem applies the force field to top and returns the resulting potential energy
//function. The system has one force per valence handler present in the force field
//(tagged with the handler name) and exactly one nonbonded force, tagged with the vdW
//handler name. Bonds matched by a constraint get no bond term. Every bond, angle and
//proper torsion of the molecule must get a parameter from the corresponding handler,
//if the handler is present, and so must every atom from the vdW handler. Neither top
//nor the force field are modified.
func (F *ForceField) CreateSystem(top *chem.Topology) (*potential.System, error) {
	sys := potential.NewSystem(top.Masses())
	bonds, err := F.Match(top, Bonds)
	if err != nil {
		return nil, errDecorate(err, "CreateSystem")
	}
	bondLength := make(map[[2]int]float64, len(bonds))
	for _, a := range bonds {
		bondLength[[2]int{a.Atoms[0], a.Atoms[1]}] = a.Parameter.Bond.Length * AngstromToNm
	}
	if F.handlers[Bonds] != nil {
		for _, b := range top.Bonds {
			p := pair(b.At1, b.At2)
			if _, ok := bondLength[p]; !ok {
				return nil, UnassignedError{Bonds, p[:]}
			}
		}
	}
	constraints, err := F.Match(top, Constraints)
	if err != nil {
		return nil, errDecorate(err, "CreateSystem")
	}
	constrained := make(map[[2]int]bool)
	for _, a := range constraints {
		p := pair(a.Atoms[0], a.Atoms[1])
		var d float64
		if dist := a.Parameter.Constraint.Distance; dist != nil {
			d = *dist * AngstromToNm
		} else if l, ok := bondLength[p]; ok {
			d = l
		} else {
			return nil, Error{fmt.Sprintf("constraint %q on atoms %s has no distance and there is no bond parameter for them", a.Parameter.ID, tupleString(a.Atoms)), []string{"CreateSystem"}, true}
		}
		constrained[p] = true
		sys.AddConstraint(p[0], p[1], d)
	}
	if F.handlers[Bonds] != nil {
		force := potential.NewHarmonicBondForce(Bonds)
		for _, a := range bonds {
			if constrained[pair(a.Atoms[0], a.Atoms[1])] {
				continue
			}
			b := a.Parameter.Bond
			force.AddBond(a.Atoms[0], a.Atoms[1], b.Length*AngstromToNm, b.K*KcalToKJ/(AngstromToNm*AngstromToNm))
		}
		sys.AddForce(force)
	}
	if err := F.addAngles(top, sys); err != nil {
		return nil, errDecorate(err, "CreateSystem")
	}
	if err := F.addTorsions(top, sys); err != nil {
		return nil, errDecorate(err, "CreateSystem")
	}
	if err := F.addNonbonded(top, sys); err != nil {
		return nil, errDecorate(err, "CreateSystem")
	}
	return sys, nil
}

func pair(i, j int) [2]int {
	if i > j {
		return [2]int{j, i}
	}
	return [2]int{i, j}
}

func (F *ForceField) addAngles(top *chem.Topology, sys *potential.System) error {
	if F.handlers[Angles] == nil {
		return nil
	}
	angles, err := F.Match(top, Angles)
	if err != nil {
		return err
	}
	assigned := make(map[[3]int]bool, len(angles))
	force := potential.NewHarmonicAngleForce(Angles)
	for _, a := range angles {
		assigned[[3]int{a.Atoms[0], a.Atoms[1], a.Atoms[2]}] = true
		p := a.Parameter.Angle
		force.AddAngle(a.Atoms[0], a.Atoms[1], a.Atoms[2], p.Angle*DegToRad, p.K*KcalToKJ)
	}
	for _, v := range top.Angles() {
		if !assigned[v] {
			return UnassignedError{Angles, v[:]}
		}
	}
	sys.AddForce(force)
	return nil
}

func (F *ForceField) addTorsions(top *chem.Topology, sys *potential.System) error {
	if H := F.handlers[ProperTorsions]; H != nil {
		propers, err := F.Match(top, ProperTorsions)
		if err != nil {
			return err
		}
		assigned := make(map[[4]int]bool, len(propers))
		force := potential.NewPeriodicTorsionForce(ProperTorsions)
		for _, a := range propers {
			assigned[[4]int{a.Atoms[0], a.Atoms[1], a.Atoms[2], a.Atoms[3]}] = true
			t := a.Parameter.Torsion
			for n := range t.Periodicity {
				force.AddTorsion(a.Atoms[0], a.Atoms[1], a.Atoms[2], a.Atoms[3], t.Periodicity[n], t.Phase[n]*DegToRad, t.K[n]*KcalToKJ/idivf(H, t, n, 1))
			}
		}
		for _, v := range top.ProperTorsions() {
			if !assigned[v] {
				return UnassignedError{ProperTorsions, v[:]}
			}
		}
		sys.AddForce(force)
	}
	if H := F.handlers[ImproperTorsions]; H != nil {
		impropers, err := F.Match(top, ImproperTorsions)
		if err != nil {
			return err
		}
		force := potential.NewPeriodicTorsionForce(ImproperTorsions)
		for _, a := range impropers {
			t := a.Parameter.Torsion
			center := a.Atoms[1]
			others := [3]int{a.Atoms[0], a.Atoms[2], a.Atoms[3]}
			for n := range t.Periodicity {
				k := t.K[n] * KcalToKJ / idivf(H, t, n, 3)
				for _, r := range [3][3]int{{0, 1, 2}, {1, 2, 0}, {2, 0, 1}} {
					force.AddTorsion(center, others[r[0]], others[r[1]], others[r[2]], t.Periodicity[n], t.Phase[n]*DegToRad, k)
				}
			}
		}
		sys.AddForce(force)
	}
	return nil
}

//idivf returns the idivf for the term n of t, falling back to the handler default and then to auto.
func idivf(H *Handler, t *Torsion, n int, auto float64) float64 {
	if t.IDivf != nil {
		return t.IDivf[n]
	}
	if H.DefaultIDivf != 0 {
		return H.DefaultIDivf
	}
	return auto
}

func (F *ForceField) addNonbonded(top *chem.Topology, sys *potential.System) error {
	charges, err := F.Charges(top)
	if err != nil {
		return err
	}
	n := top.Len()
	sigma := make([]float64, n)
	epsilon := make([]float64, n)
	scaleVdW := DefaultVdWScale14
	if H := F.handlers[VdW]; H != nil {
		scaleVdW = H.Scale14
		vdw, err := F.Match(top, VdW)
		if err != nil {
			return err
		}
		assigned := make([]bool, n)
		for _, a := range vdw {
			i := a.Atoms[0]
			assigned[i] = true
			sigma[i] = a.Parameter.VdW.Sigma * AngstromToNm
			epsilon[i] = a.Parameter.VdW.Epsilon * KcalToKJ
		}
		for i, v := range assigned {
			if !v {
				return UnassignedError{VdW, []int{i}}
			}
		}
	}
	scaleElec := DefaultElectrostaticsScale14
	if H := F.handlers[Electrostatics]; H != nil {
		scaleElec = H.Scale14
	}
	force := potential.NewNonbondedForce(VdW)
	for i := 0; i < n; i++ {
		force.AddParticle(charges[i], sigma[i], epsilon[i])
	}
	sep := top.Separations()
	pairs := make([][2]int, 0, len(sep))
	for k := range sep {
		pairs = append(pairs, k)
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a][0] != pairs[b][0] {
			return pairs[a][0] < pairs[b][0]
		}
		return pairs[a][1] < pairs[b][1]
	})
	for _, p := range pairs {
		i, j := p[0], p[1]
		if sep[p] < 3 {
			force.AddException(i, j, 0, excludedSigma, 0)
			continue
		}
		force.AddException(i, j, charges[i]*charges[j]*scaleElec, 0.5*(sigma[i]+sigma[j]), math.Sqrt(epsilon[i]*epsilon[j])*scaleVdW)
	}
	sys.AddForce(force)
	return nil
}

//Charges returns the partial charge of each atom of top. If the library charges cover
//the whole molecule they are used. Otherwise the charges are the formal charges plus
//the increments of the ChargeIncrementModel handler, if present.
func (F *ForceField) Charges(top *chem.Topology) ([]float64, error) {
	n := top.Len()
	charges := make([]float64, n)
	if F.handlers[LibraryCharges] != nil {
		lib, err := F.Match(top, LibraryCharges)
		if err != nil {
			return nil, errDecorate(err, "Charges")
		}
		covered := make([]bool, n)
		for _, a := range lib {
			for k, at := range a.Atoms {
				charges[at] = a.Parameter.Charge.Charges[k]
				covered[at] = true
			}
		}
		all := true
		for _, v := range covered {
			all = all && v
		}
		if all {
			return charges, nil
		}
	}
	for i, at := range top.Atoms {
		charges[i] = float64(at.FormalCharge)
	}
	if F.handlers[ChargeIncrementModel] != nil {
		incs, err := F.Match(top, ChargeIncrementModel)
		if err != nil {
			return nil, errDecorate(err, "Charges")
		}
		for _, a := range incs {
			for k, at := range a.Atoms {
				charges[at] += a.Parameter.Charge.Charges[k]
			}
		}
	}
	return charges, nil
}
