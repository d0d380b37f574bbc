/*
 * group.go, part of ffinspector.
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
	"github.com/rmera/ffinspector/forcefield"
	"github.com/rmera/ffinspector/potential"
)

//NonbondedGroup is the force group that holds all the nonbonded interactions.
const NonbondedGroup = 0

//ForceGroupIndex gives the force group of each parameter, by handler and parameter id.
type ForceGroupIndex map[string]map[string]int

//GroupedHandlers are the handlers whose terms GroupByParameter splits, in the order
//groups are assigned.
var GroupedHandlers = []string{forcefield.Bonds, forcefield.Angles, forcefield.ProperTorsions, forcefield.ImproperTorsions}

//termKey is an atom tuple of up to 4 atoms, padded with -1.
type termKey [4]int

func keyOf(atoms []int) termKey {
	k := termKey{-1, -1, -1, -1}
	copy(k[:], atoms)
	return k
}

//candidates returns the term tuples that belong to an assigned tuple. Improper tuples
//(a, center, b, c) give the three trefoil rotations (center, a, b, c), (center, b, c, a)
//and (center, c, a, b). Other tuples give themselves and their reverse.
func candidates(handler string, t []int) []termKey {
	if handler == forcefield.ImproperTorsions && len(t) == 4 {
		a, center, b, c := t[0], t[1], t[2], t[3]
		return []termKey{{center, a, b, c}, {center, b, c, a}, {center, c, a, b}}
	}
	rev := make([]int, len(t))
	for i, v := range t {
		rev[len(t)-1-i] = v
	}
	return []termKey{keyOf(t), keyOf(rev)}
}

type termRef struct {
	force *potential.Valence
	term  int
}

//GroupByParameter returns a copy of sys where the nonbonded force is in group 0 and
//the terms of each valence parameter in applied are in a force of their own, with
//groups numbered from 1 in handler and then parameter order. It also returns the
//group of each parameter. sys must have exactly one nonbonded force, and no forces
//from handlers other than the grouped ones. If the number of terms moved for a handler
//is not the number of terms sys had for it, a *GroupingConsistencyError is returned.
//sys is not modified.
func GroupByParameter(sys *potential.System, applied *AppliedParameters) (*potential.System, ForceGroupIndex, error) {
	if sys == nil || applied == nil {
		return nil, nil, Error{"nil system or applied parameters", []string{"GroupByParameter"}, true, nil}
	}
	nb := sys.Nonbonded()
	if len(nb) != 1 {
		return nil, nil, groupingError("GroupByParameter", "%d nonbonded forces in the system, need exactly 1", len(nb))
	}
	byHandler := make(map[string][]potential.Valence)
	grouped := make(map[string]bool, len(GroupedHandlers))
	for _, h := range GroupedHandlers {
		grouped[h] = true
	}
	for i, f := range sys.Forces {
		if i == nb[0] {
			continue
		}
		v, ok := f.(potential.Valence)
		if !ok || !grouped[f.Handler()] {
			return nil, nil, groupingError("GroupByParameter", "force %T from handler %q can't be grouped by parameter", f, f.Handler())
		}
		byHandler[f.Handler()] = append(byHandler[f.Handler()], v.Copy().(potential.Valence))
	}
	out := potential.NewSystem(sys.Masses)
	out.Constraints = append(out.Constraints, sys.Constraints...)
	nonbonded := sys.Forces[nb[0]].Copy()
	nonbonded.SetGroup(NonbondedGroup)
	out.AddForce(nonbonded)
	index := make(ForceGroupIndex)
	group := NonbondedGroup
	for _, h := range GroupedHandlers {
		sources := byHandler[h]
		params := applied.Parameters[h]
		if len(sources) == 0 {
			if len(params) > 0 {
				return nil, nil, groupingError("GroupByParameter", "%d %s parameters applied, but the system has no %s force", len(params), h, h)
			}
			continue
		}
		lookup := make(map[termKey][]termRef)
		total := 0
		for i := range sources {
			n := sources[i].NumTerms()
			total += n
			for t := 0; t < n; t++ {
				k := keyOf(sources[i].TermAtoms(t))
				lookup[k] = append(lookup[k], termRef{&sources[i], t})
			}
		}
		migrated := 0
		done := make(map[termRef]bool)
		index[h] = make(map[string]int, len(params))
		for _, p := range params {
			group++
			dst := sources[0].Empty()
			dst.SetGroup(group)
			for _, tuple := range applied.ParameterMap[p.ID] {
				for _, k := range candidates(h, tuple) {
					for _, ref := range lookup[k] {
						if done[ref] {
							continue
						}
						if err := (*ref.force).MigrateTerm(ref.term, dst); err != nil {
							return nil, nil, wrap(err, "GroupByParameter", "moving a %s term", h)
						}
						done[ref] = true
						migrated++
					}
				}
			}
			index[h][p.ID] = group
			out.AddForce(dst)
		}
		if migrated != total {
			return nil, nil, groupingError("GroupByParameter", "%s: %d terms assigned to parameters, the system has %d", h, migrated, total)
		}
	}
	return out, index, nil
}
