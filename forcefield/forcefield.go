/*
 * forcefield.go, part of ffinspector.
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

	"github.com/rmera/ffinspector/smirks"
)

//Handler names.
const (
	Constraints          = "Constraints"
	Bonds                = "Bonds"
	Angles               = "Angles"
	ProperTorsions       = "ProperTorsions"
	ImproperTorsions     = "ImproperTorsions"
	VdW                  = "vdW"
	Electrostatics       = "Electrostatics"
	LibraryCharges       = "LibraryCharges"
	ChargeIncrementModel = "ChargeIncrementModel"
)

//HandlerOrder is the canonical order of the handlers.
var HandlerOrder = []string{Constraints, Bonds, Angles, ProperTorsions, ImproperTorsions, VdW, Electrostatics, LibraryCharges, ChargeIncrementModel}

//the parameter kind each handler holds, and the number of tagged atoms it needs
//(0 means any number).
var handlerKind = map[string]Kind{
	Constraints:          ConstraintType,
	Bonds:                BondType,
	Angles:               AngleType,
	ProperTorsions:       ProperTorsionType,
	ImproperTorsions:     ImproperTorsionType,
	VdW:                  VdWType,
	LibraryCharges:       LibraryChargeType,
	ChargeIncrementModel: ChargeIncrementType,
}

var handlerTags = map[string]int{
	Constraints:      2,
	Bonds:            2,
	Angles:           3,
	ProperTorsions:   4,
	ImproperTorsions: 4,
	VdW:              1,
}

//Default 1-4 scaling factors.
const (
	DefaultVdWScale14            = 0.5
	DefaultElectrostaticsScale14 = 0.8333333333
)

//Handler is a named, ordered list of parameters of the same kind.
type Handler struct {
	Name string
	//Scale14 is the 1-4 scaling factor. Only used by vdW and Electrostatics.
	Scale14 float64
	//DefaultIDivf is the idivf used for torsion parameters without one. 0 means "auto":
	//1 for proper torsions, 3 for impropers.
	DefaultIDivf float64
	Parameters   []*Parameter
	patterns     []*smirks.Pattern
}

//Len returns the number of parameters in the handler.
func (H *Handler) Len() int { return len(H.Parameters) }

//Parameter returns the parameter with the given id, or nil.
func (H *Handler) Parameter(id string) *Parameter {
	for _, p := range H.Parameters {
		if p.ID == id {
			return p
		}
	}
	return nil
}

//Copy returns a deep copy of the handler. Parsed patterns are immutable and shared.
func (H *Handler) Copy() *Handler {
	r := &Handler{Name: H.Name, Scale14: H.Scale14, DefaultIDivf: H.DefaultIDivf}
	r.Parameters = make([]*Parameter, len(H.Parameters))
	for i, p := range H.Parameters {
		r.Parameters[i] = p.Copy()
	}
	r.patterns = append([]*smirks.Pattern(nil), H.patterns...)
	return r
}

//NewHandler validates the given parameters, parses their patterns and returns a handler.
//The parameters are not copied.
func NewHandler(name string, params []*Parameter) (*Handler, error) {
	H := &Handler{Name: name, Parameters: params}
	switch name {
	case VdW:
		H.Scale14 = DefaultVdWScale14
	case Electrostatics:
		H.Scale14 = DefaultElectrostaticsScale14
		if len(params) > 0 {
			return nil, Error{"the Electrostatics handler takes no parameters", []string{"NewHandler"}, true}
		}
	}
	kind, known := handlerKind[name]
	if !known && name != Electrostatics {
		return nil, Error{fmt.Sprintf("unsupported handler %q", name), []string{"NewHandler"}, true}
	}
	ids := make(map[string]bool, len(params))
	for _, p := range params {
		if p == nil {
			return nil, Error{fmt.Sprintf("nil parameter in handler %s", name), []string{"NewHandler"}, true}
		}
		if p.Kind != kind {
			return nil, Error{fmt.Sprintf("parameter %q of kind %s in handler %s", p.ID, p.Kind, name), []string{"NewHandler"}, true}
		}
		if err := p.Validate(); err != nil {
			return nil, errDecorate(err, "NewHandler")
		}
		if ids[p.ID] {
			return nil, Error{fmt.Sprintf("parameter id %q repeated in handler %s", p.ID, name), []string{"NewHandler"}, true}
		}
		ids[p.ID] = true
		pat, err := smirks.Parse(p.SMIRKS)
		if err != nil {
			return nil, Error{fmt.Sprintf("parameter %q: %s", p.ID, err.Error()), []string{"NewHandler"}, true}
		}
		want, fixed := handlerTags[name]
		tagged := pat.NumTagged()
		switch {
		case fixed && tagged != want:
			return nil, Error{fmt.Sprintf("parameter %q: %d tagged atoms in a %s pattern, need %d", p.ID, tagged, name, want), []string{"NewHandler"}, true}
		case p.Charge != nil && len(p.Charge.Charges) != tagged:
			return nil, Error{fmt.Sprintf("parameter %q: %d charges for %d tagged atoms", p.ID, len(p.Charge.Charges), tagged), []string{"NewHandler"}, true}
		case tagged == 0:
			return nil, Error{fmt.Sprintf("parameter %q: no tagged atoms", p.ID), []string{"NewHandler"}, true}
		}
		H.patterns = append(H.patterns, pat)
	}
	return H, nil
}

//ForceField is a set of handlers. A ForceField is not modified by any function in this
//library; the functions that need a modified force field derive a copy.
type ForceField struct {
	Name     string
	Version  string
	handlers map[string]*Handler
}

//New returns an empty force field.
func New(name string) *ForceField {
	return &ForceField{Name: name, handlers: make(map[string]*Handler)}
}

//SetHandler adds H to the force field, replacing any handler with the same name.
func (F *ForceField) SetHandler(H *Handler) {
	F.handlers[H.Name] = H
}

//Handler returns the handler with the given name, or nil if the force field doesn't have it.
func (F *ForceField) Handler(name string) *Handler {
	return F.handlers[name]
}

//HandlerNames returns the names of the handlers present, in canonical order.
func (F *ForceField) HandlerNames() []string {
	var ret []string
	for _, v := range HandlerOrder {
		if _, ok := F.handlers[v]; ok {
			ret = append(ret, v)
		}
	}
	return ret
}

//NumParameters returns the number of parameters in the given handler, 0 if the handler is absent.
func (F *ForceField) NumParameters(handler string) int {
	if h := F.handlers[handler]; h != nil {
		return h.Len()
	}
	return 0
}

//Copy returns a deep copy of the force field.
func (F *ForceField) Copy() *ForceField {
	r := New(F.Name)
	r.Version = F.Version
	for k, v := range F.handlers {
		r.handlers[k] = v.Copy()
	}
	return r
}

//WithoutHandler returns a copy of the force field without the given handler. F is
//not modified.
func (F *ForceField) WithoutHandler(name string) *ForceField {
	r := F.Copy()
	delete(r.handlers, name)
	return r
}
