/*
 * match.go, part of ffinspector.
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
	"sort"
	"strconv"
	"strings"

	"github.com/rmera/ffinspector/chem"
)

//Assignment is a parameter applied to a tuple of atoms.
type Assignment struct {
	Atoms     []int
	Parameter *Parameter
}

//canonical returns the key under which a matched tuple is stored. Valence tuples are
//stored with the first index smaller than the last. Impropers keep the central (second)
//atom in place and sort the other three around it. Library charge tuples are kept as
//they are.
func canonical(handler string, t []int) []int {
	r := append([]int(nil), t...)
	switch handler {
	case ImproperTorsions:
		others := []int{r[0], r[2], r[3]}
		sort.Ints(others)
		return []int{others[0], r[1], others[1], others[2]}
	case LibraryCharges:
		return r
	}
	if r[0] > r[len(r)-1] {
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
	}
	return r
}

func tupleString(t []int) string {
	s := make([]string, len(t))
	for i, v := range t {
		s[i] = strconv.Itoa(v)
	}
	return "(" + strings.Join(s, ", ") + ")"
}

//Match applies the parameters of the given handler to top. For every tuple matched by
//at least one parameter it returns the last matching parameter in the handler, with the
//tuple in canonical form (see the package documentation). Charge increments keep the
//tuple in the orientation of the winning match. The result is sorted by canonical tuple.
//A handler absent from the force field gives no assignments.
func (F *ForceField) Match(top *chem.Topology, handler string) ([]Assignment, error) {
	if _, ok := handlerKind[handler]; !ok && handler != Electrostatics {
		return nil, Error{fmt.Sprintf("unknown handler %q", handler), []string{"ForceField.Match"}, true}
	}
	H := F.handlers[handler]
	if H == nil {
		return nil, nil
	}
	type slot struct {
		key   []int
		atoms []int
		param *Parameter
	}
	slots := make(map[string]*slot)
	for i, p := range H.Parameters {
		for _, t := range H.patterns[i].Match(top) {
			key := canonical(handler, t)
			ks := tupleString(key)
			atoms := key
			if handler == ChargeIncrementModel {
				atoms = t
			}
			slots[ks] = &slot{key, atoms, p}
		}
	}
	all := make([]*slot, 0, len(slots))
	for _, v := range slots {
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i].key, all[j].key
		for l := 0; l < len(a) && l < len(b); l++ {
			if a[l] != b[l] {
				return a[l] < b[l]
			}
		}
		return len(a) < len(b)
	})
	ret := make([]Assignment, len(all))
	for i, v := range all {
		ret[i] = Assignment{Atoms: v.atoms, Parameter: v.param}
	}
	return ret, nil
}
