/*
 * expr.go, part of ffinspector.
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

package smirks

import "github.com/rmera/ffinspector/chem"

//predicate is a boolean test over atoms or bonds.
type predicate[T any] interface {
	matches(T) bool
}

type notExpr[T any] struct{ p predicate[T] }

func (n notExpr[T]) matches(v T) bool { return !n.p.matches(v) }

type andExpr[T any] []predicate[T]

func (a andExpr[T]) matches(v T) bool {
	for _, p := range a {
		if !p.matches(v) {
			return false
		}
	}
	return true
}

type orExpr[T any] []predicate[T]

func (o orExpr[T]) matches(v T) bool {
	for _, p := range o {
		if p.matches(v) {
			return true
		}
	}
	return false
}

//atomRef is an atom in the context of its topology.
type atomRef struct {
	top *chem.Topology
	i   int
}

type atomKind int

const (
	anyAtom atomKind = iota
	atomicNumber
	connectivity //X, total connections
	degree       //D, explicit connections
	hydrogens    //H, total hydrogen count
	charge
)

type atomPrimitive struct {
	kind  atomKind
	value int
}

func (a atomPrimitive) matches(r atomRef) bool {
	at := r.top.Atom(r.i)
	switch a.kind {
	case anyAtom:
		return true
	case atomicNumber:
		return at.Number == a.value
	case connectivity, degree:
		//hydrogens are always explicit in a topology, so X and D coincide.
		return r.top.Degree(r.i) == a.value
	case hydrogens:
		return r.top.HydrogenCount(r.i) == a.value
	case charge:
		return at.FormalCharge == a.value
	}
	return false
}

//bondOrder tests a bond order. Order 0 matches any bond.
type bondOrder int

func (b bondOrder) matches(bond *chem.Bond) bool {
	return b == 0 || int(b) == bond.Order
}

//the bond used when two atoms are written next to each other: single or aromatic.
var implicitBond predicate[*chem.Bond] = orExpr[*chem.Bond]{bondOrder(1), bondOrder(4)}
