/*
 * label.go, part of ffinspector.
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

	"github.com/rmera/ffinspector/chem"
	"github.com/rmera/ffinspector/forcefield"
)

//AppliedParameters is the result of labeling a molecule with a force field.
//Parameters holds, for each handler with at least one match, the parameters applied,
//without repetitions and in the order they were first found. ParameterMap gives the atom
//tuples each parameter was applied to. Tuples are in the canonical order of the
//forcefield package: valence tuples start with the smaller index, and improper torsions
//have the central atom in the second place.
type AppliedParameters struct {
	Parameters   map[string][]*forcefield.Parameter `json:"parameters"`
	ParameterMap map[string][][]int                 `json:"parameter_map"`
}

//Handlers returns the handlers present, in canonical order.
func (A *AppliedParameters) Handlers() []string {
	var ret []string
	for _, v := range forcefield.HandlerOrder {
		if _, ok := A.Parameters[v]; ok {
			ret = append(ret, v)
		}
	}
	return ret
}

//IDs returns the ids of the parameters applied from the given handler, in order.
func (A *AppliedParameters) IDs(handler string) []string {
	ret := make([]string, 0, len(A.Parameters[handler]))
	for _, p := range A.Parameters[handler] {
		ret = append(ret, p.ID)
	}
	return ret
}

//Label applies every handler of ff to top and collects the parameters used. Within a
//handler, the last parameter matching a tuple is the one applied. Parameter ids must be
//unique across the whole force field, since they key ParameterMap. Neither top nor ff
//are modified.
func Label(top *chem.Topology, ff *forcefield.ForceField) (*AppliedParameters, error) {
	if top == nil || ff == nil {
		return nil, Error{"nil topology or force field", []string{"Label"}, true, nil}
	}
	ret := &AppliedParameters{
		Parameters:   make(map[string][]*forcefield.Parameter),
		ParameterMap: make(map[string][][]int),
	}
	owner := make(map[string]string) //parameter id -> handler
	for _, h := range ff.HandlerNames() {
		assigned, err := ff.Match(top, h)
		if err != nil {
			return nil, errDecorate(err, "Label")
		}
		for _, a := range assigned {
			id := a.Parameter.ID
			if o, seen := owner[id]; !seen {
				owner[id] = h
				ret.Parameters[h] = append(ret.Parameters[h], a.Parameter.Copy())
			} else if o != h {
				return nil, Error{fmt.Sprintf("parameter id %q used in both %s and %s", id, o, h), []string{"Label"}, true, nil}
			}
			ret.ParameterMap[id] = append(ret.ParameterMap[id], append([]int(nil), a.Atoms...))
		}
	}
	return ret, nil
}
