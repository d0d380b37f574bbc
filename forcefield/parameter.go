/*
 * parameter.go, part of ffinspector.
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
	"encoding/json"
	"fmt"
	"strings"
)

//Kind identifies the type of a parameter.
type Kind string

const (
	ConstraintType      Kind = "ConstraintType"
	BondType            Kind = "BondType"
	AngleType           Kind = "AngleType"
	ProperTorsionType   Kind = "ProperTorsionType"
	ImproperTorsionType Kind = "ImproperTorsionType"
	VdWType             Kind = "vdWType"
	LibraryChargeType   Kind = "LibraryChargeType"
	ChargeIncrementType Kind = "ChargeIncrementType"
)

//Bond is the payload of a BondType parameter.
type Bond struct {
	Length float64 //A
	K      float64 //kcal/mol/A^2
}

//Angle is the payload of an AngleType parameter.
type Angle struct {
	Angle float64 //deg
	K     float64 //kcal/mol/rad^2
}

//Torsion is the payload of proper and improper torsion parameters. All slices have
//the same length, one element per cosine term. IDivf can be nil, in which case the
//default of the handler is used.
type Torsion struct {
	Periodicity []int
	Phase       []float64 //deg
	K           []float64 //kcal/mol
	IDivf       []float64
}

//VdWParams is the payload of a vdWType parameter.
type VdWParams struct {
	Epsilon float64 //kcal/mol
	Sigma   float64 //A
}

//Charge is the payload of library charge and charge increment parameters, one value
//per tagged atom.
type Charge struct {
	Charges []float64 //e
}

//Constraint is the payload of a ConstraintType parameter. A nil Distance means that the
//equilibrium bond length is used.
type Constraint struct {
	Distance *float64 //A
}

//Parameter is a force field parameter. It is a tagged variant: Kind tells which one of
//the payload pointers is set, the others are nil. Parameters should not be modified once
//they are part of a force field.
type Parameter struct {
	Kind       Kind
	SMIRKS     string
	ID         string
	Bond       *Bond
	Angle      *Angle
	Torsion    *Torsion
	VdW        *VdWParams
	Charge     *Charge
	Constraint *Constraint
}

//Copy returns a deep copy of the parameter.
func (P *Parameter) Copy() *Parameter {
	r := &Parameter{Kind: P.Kind, SMIRKS: P.SMIRKS, ID: P.ID}
	if P.Bond != nil {
		b := *P.Bond
		r.Bond = &b
	}
	if P.Angle != nil {
		a := *P.Angle
		r.Angle = &a
	}
	if P.Torsion != nil {
		r.Torsion = &Torsion{
			Periodicity: append([]int(nil), P.Torsion.Periodicity...),
			Phase:       append([]float64(nil), P.Torsion.Phase...),
			K:           append([]float64(nil), P.Torsion.K...),
		}
		if P.Torsion.IDivf != nil {
			r.Torsion.IDivf = append([]float64(nil), P.Torsion.IDivf...)
		}
	}
	if P.VdW != nil {
		v := *P.VdW
		r.VdW = &v
	}
	if P.Charge != nil {
		r.Charge = &Charge{append([]float64(nil), P.Charge.Charges...)}
	}
	if P.Constraint != nil {
		r.Constraint = &Constraint{}
		if P.Constraint.Distance != nil {
			d := *P.Constraint.Distance
			r.Constraint.Distance = &d
		}
	}
	return r
}

//Validate checks that exactly the payload corresponding to the kind is set and that
//its values are consistent.
func (P *Parameter) Validate() error {
	set := 0
	for _, v := range []bool{P.Bond != nil, P.Angle != nil, P.Torsion != nil, P.VdW != nil, P.Charge != nil, P.Constraint != nil} {
		if v {
			set++
		}
	}
	fail := func(msg string, a ...interface{}) error {
		return Error{fmt.Sprintf("parameter %q: ", P.ID) + fmt.Sprintf(msg, a...), []string{"Parameter.Validate"}, true}
	}
	if P.ID == "" {
		return fail("missing id")
	}
	if strings.TrimSpace(P.SMIRKS) == "" {
		return fail("missing smirks")
	}
	if set != 1 {
		return fail("%d payloads set, expected 1", set)
	}
	ok := false
	switch P.Kind {
	case BondType:
		ok = P.Bond != nil
	case AngleType:
		ok = P.Angle != nil
	case ProperTorsionType, ImproperTorsionType:
		ok = P.Torsion != nil
		if ok {
			t := P.Torsion
			n := len(t.Periodicity)
			if n == 0 || len(t.Phase) != n || len(t.K) != n || (t.IDivf != nil && len(t.IDivf) != n) {
				return fail("periodicity, phase, k and idivf must be lists of the same, non-zero, length")
			}
			for _, v := range t.IDivf {
				if v == 0 {
					return fail("idivf can't be zero")
				}
			}
		}
	case VdWType:
		ok = P.VdW != nil
		if ok && (P.VdW.Sigma < 0 || P.VdW.Epsilon < 0) {
			return fail("negative sigma or epsilon")
		}
	case LibraryChargeType, ChargeIncrementType:
		ok = P.Charge != nil && len(P.Charge.Charges) > 0
	case ConstraintType:
		ok = P.Constraint != nil
	default:
		return fail("unknown kind %q", P.Kind)
	}
	if !ok {
		return fail("payload does not correspond to kind %s", P.Kind)
	}
	return nil
}

//MarshalJSON writes the parameter as a flat object, with the kind under "type" and the
//payload fields next to the smirks and the id.
func (P *Parameter) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{"type": P.Kind, "smirks": P.SMIRKS, "id": P.ID}
	switch {
	case P.Bond != nil:
		m["length"], m["k"] = P.Bond.Length, P.Bond.K
	case P.Angle != nil:
		m["angle"], m["k"] = P.Angle.Angle, P.Angle.K
	case P.Torsion != nil:
		m["periodicity"], m["phase"], m["k"] = P.Torsion.Periodicity, P.Torsion.Phase, P.Torsion.K
		m["idivf"] = P.Torsion.IDivf
	case P.VdW != nil:
		m["epsilon"], m["sigma"] = P.VdW.Epsilon, P.VdW.Sigma
	case P.Charge != nil && P.Kind == ChargeIncrementType:
		m["charge_increment"] = P.Charge.Charges
	case P.Charge != nil:
		m["charge"] = P.Charge.Charges
	case P.Constraint != nil:
		m["distance"] = P.Constraint.Distance
	}
	return json.Marshal(m)
}
