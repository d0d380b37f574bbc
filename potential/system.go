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

package potential

import "fmt"

//Constraint fixes the distance between two atoms.
type Constraint struct {
	Atoms    [2]int
	Distance float64 //nm
}

//System is a potential energy function: particles with masses, distance constraints and
//an ordered list of forces.
type System struct {
	Masses      []float64
	Constraints []Constraint
	Forces      []Force
}

//NewSystem returns a system with one particle per given mass and no forces.
func NewSystem(masses []float64) *System {
	return &System{Masses: append([]float64(nil), masses...)}
}

//NumParticles returns the number of particles in the system.
func (S *System) NumParticles() int { return len(S.Masses) }

//AddForce appends f to the system and returns its index.
func (S *System) AddForce(f Force) int {
	S.Forces = append(S.Forces, f)
	return len(S.Forces) - 1
}

//AddConstraint adds a distance constraint (nm) between atoms i and j.
func (S *System) AddConstraint(i, j int, distance float64) {
	S.Constraints = append(S.Constraints, Constraint{[2]int{i, j}, distance})
}

//Nonbonded returns the indexes of the nonbonded forces in the system.
func (S *System) Nonbonded() []int {
	var ret []int
	for i, f := range S.Forces {
		if _, ok := f.(*NonbondedForce); ok {
			ret = append(ret, i)
		}
	}
	return ret
}

//Copy returns a deep copy of the system.
func (S *System) Copy() *System {
	r := &System{
		Masses:      append([]float64(nil), S.Masses...),
		Constraints: append([]Constraint(nil), S.Constraints...),
		Forces:      make([]Force, len(S.Forces)),
	}
	for i, f := range S.Forces {
		r.Forces[i] = f.Copy()
	}
	return r
}

//WithoutCharges returns a copy of the system where every nonbonded force has zero
//particle charges and zero exception charge products. S is not modified.
func (S *System) WithoutCharges() *System {
	r := S.Copy()
	for _, i := range r.Nonbonded() {
		r.Forces[i].(*NonbondedForce).ZeroCharges()
	}
	return r
}

//Groups returns the distinct group ids used by the forces of the system, in the order they appear.
func (S *System) Groups() []int {
	seen := make(map[int]bool)
	var ret []int
	for _, f := range S.Forces {
		if !seen[f.Group()] {
			seen[f.Group()] = true
			ret = append(ret, f.Group())
		}
	}
	return ret
}

//validate checks that every atom index used by the forces exists.
func (S *System) validate() error {
	n := S.NumParticles()
	check := func(f Force, atoms []int) error {
		for _, a := range atoms {
			if a < 0 || a >= n {
				return fmt.Errorf("potential: force %T of handler %q refers to atom %d, the system has %d particles", f, f.Handler(), a, n)
			}
		}
		return nil
	}
	for _, f := range S.Forces {
		switch ff := f.(type) {
		case Valence:
			for i := 0; i < ff.NumTerms(); i++ {
				if err := check(f, ff.TermAtoms(i)); err != nil {
					return err
				}
			}
		case *NonbondedForce:
			if len(ff.Particles) != n {
				return fmt.Errorf("potential: nonbonded force has %d particles, the system has %d", len(ff.Particles), n)
			}
			for _, e := range ff.Exceptions {
				if err := check(f, e.Atoms[:]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
