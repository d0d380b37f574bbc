/*
 * topology.go, part of ffinspector.
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

//Package chem provides the atom, bond and topology structures used by ffinspector,
//a reader for MDL SDF files and some functions for geometric measurements on
//conformers.
package chem

import (
	"fmt"
	"sort"
)

//Atom contains the per-atom information of a molecule, except for the coordinates,
//which will be in a v3.Matrix.
type Atom struct {
	Name         string
	ID           int //The position of the atom in its topology. Set by NewTopology.
	Symbol       string
	Number       int //Atomic number
	FormalCharge int
	Mass         float64
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("chem: Attempted to copy a nil atom")
	}
	ret := *A
	return &ret
}

//Bond joins the atoms At1 and At2 (indexes in the topology).
//Order 4 means aromatic.
type Bond struct {
	At1   int
	At2   int
	Order int
}

//Cross returns the other atom in the bond, given one of them.
func (B *Bond) Cross(origin int) int {
	if origin == B.At1 {
		return B.At2
	}
	if origin == B.At2 {
		return B.At1
	}
	panic(ErrNoBond)
}

/*****Topology type***/

//Topology contains information about a molecule which is not expected to change in time, i.e. everything except for
//the coordinates. A Topology should be treated as read only after creation.
type Topology struct {
	Name  string
	Atoms []*Atom
	Bonds []*Bond
	neigh [][]int
}

//NewTopology builds a topology from the given atoms and bonds. Atom IDs are reset
//to the position of each atom in the slice. Missing atomic numbers and masses are filled
//from the element symbol. It returns an error for unknown elements, bonds referring to
//atoms out of range, self-bonds and repeated bonds.
func NewTopology(name string, atoms []*Atom, bonds []*Bond) (*Topology, error) {
	if len(atoms) == 0 {
		return nil, Error{"Topology without atoms", []string{"NewTopology"}, true}
	}
	T := &Topology{Name: name, Atoms: make([]*Atom, len(atoms)), Bonds: make([]*Bond, 0, len(bonds))}
	for i, v := range atoms {
		if v == nil {
			return nil, Error{fmt.Sprintf("Atom %d is nil", i), []string{"NewTopology"}, true}
		}
		at := v.Copy()
		at.ID = i
		if at.Number == 0 {
			at.Number = Number(at.Symbol)
		}
		if at.Symbol == "" {
			at.Symbol = Symbol(at.Number)
		}
		if at.Number == 0 || at.Symbol == "" {
			return nil, Error{fmt.Sprintf("Unknown element for atom %d: %q", i, v.Symbol), []string{"NewTopology"}, true}
		}
		if at.Mass == 0 {
			at.Mass, _ = Mass(at.Symbol)
		}
		T.Atoms[i] = at
	}
	T.neigh = make([][]int, len(atoms))
	seen := make(map[[2]int]bool, len(bonds))
	for i, b := range bonds {
		if b == nil || b.At1 < 0 || b.At2 < 0 || b.At1 >= len(atoms) || b.At2 >= len(atoms) {
			return nil, Error{fmt.Sprintf("Bond %d refers to atoms out of range", i), []string{"NewTopology"}, true}
		}
		if b.At1 == b.At2 {
			return nil, Error{fmt.Sprintf("Bond %d joins atom %d with itself", i, b.At1), []string{"NewTopology"}, true}
		}
		key := pairKey(b.At1, b.At2)
		if seen[key] {
			return nil, Error{fmt.Sprintf("Bond %d-%d given more than once", b.At1, b.At2), []string{"NewTopology"}, true}
		}
		seen[key] = true
		nb := *b
		if nb.Order == 0 {
			nb.Order = 1
		}
		T.Bonds = append(T.Bonds, &nb)
		T.neigh[b.At1] = append(T.neigh[b.At1], b.At2)
		T.neigh[b.At2] = append(T.neigh[b.At2], b.At1)
	}
	for i, v := range T.neigh {
		sort.Ints(v)
		if max := symbolMaxBonds[T.Atoms[i].Symbol]; max > 0 && len(v) > max {
			return nil, Error{fmt.Sprintf("Atom %d (%s) has %d bonds", i, T.Atoms[i].Symbol, len(v)), []string{"NewTopology"}, true}
		}
	}
	return T, nil
}

func pairKey(i, j int) [2]int {
	if i > j {
		return [2]int{j, i}
	}
	return [2]int{i, j}
}

/*Topology methods*/

//Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	if T == nil {
		panic(ErrNilTopology)
	}
	return len(T.Atoms)
}

//Atom returns the Atom corresponding to the index i
//of the Atom slice in the Topology. Panics if
//out of range.
func (T *Topology) Atom(i int) *Atom {
	if i < 0 || i >= T.Len() {
		panic(ErrAtomOutOfRange)
	}
	return T.Atoms[i]
}

//Neighbors returns the indexes of the atoms bonded to atom i, in ascending order.
//The returned slice must not be modified.
func (T *Topology) Neighbors(i int) []int {
	if i < 0 || i >= T.Len() {
		panic(ErrAtomOutOfRange)
	}
	return T.neigh[i]
}

//Degree returns the number of atoms bonded to atom i.
func (T *Topology) Degree(i int) int {
	return len(T.Neighbors(i))
}

//HydrogenCount returns the number of hydrogens bonded to atom i.
func (T *Topology) HydrogenCount(i int) int {
	n := 0
	for _, v := range T.Neighbors(i) {
		if T.Atoms[v].Number == 1 {
			n++
		}
	}
	return n
}

//BondBetween returns the bond between atoms i and j, or nil if they are not bonded.
func (T *Topology) BondBetween(i, j int) *Bond {
	for _, b := range T.Bonds {
		if (b.At1 == i && b.At2 == j) || (b.At1 == j && b.At2 == i) {
			return b
		}
	}
	return nil
}

//Charge returns the total formal charge of the topology.
func (T *Topology) Charge() int {
	c := 0
	for _, v := range T.Atoms {
		c += v.FormalCharge
	}
	return c
}

//Masses returns a slice with the mass of each atom.
func (T *Topology) Masses() []float64 {
	ret := make([]float64, T.Len())
	for i, v := range T.Atoms {
		ret[i] = v.Mass
	}
	return ret
}

//Copy returns a deep copy of the topology.
func (T *Topology) Copy() *Topology {
	if T == nil {
		panic(ErrNilTopology)
	}
	r := &Topology{Name: T.Name, Atoms: make([]*Atom, len(T.Atoms)), Bonds: make([]*Bond, len(T.Bonds)), neigh: make([][]int, len(T.neigh))}
	for i, v := range T.Atoms {
		r.Atoms[i] = v.Copy()
	}
	for i, v := range T.Bonds {
		b := *v
		r.Bonds[i] = &b
	}
	for i, v := range T.neigh {
		r.neigh[i] = append([]int(nil), v...)
	}
	return r
}
