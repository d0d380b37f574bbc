/*
 * force.go, part of ffinspector.
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

import (
	"fmt"
	"math"
)

//CoulombConstant is 1/(4 pi eps0) in kJ nm / (mol e^2).
const CoulombConstant = 138.935456

//Force is one contribution to the potential energy of a system.
type Force interface {
	//Handler returns the name of the force-field handler that produced the force.
	Handler() string
	Group() int
	SetGroup(int)
	//NumTerms returns the number of interaction terms in the force.
	NumTerms() int
	//Copy returns a deep copy of the force.
	Copy() Force
	//energy returns the energy of the force for the flat positions x. If grad is not nil,
	//the gradient of the energy is added to it.
	energy(x, grad []float64) float64
}

//Valence is a force made of independent terms, each acting on a fixed tuple of atoms.
//Terms can be moved to another (empty) force of the same kind without changing their parameters.
type Valence interface {
	Force
	//TermAtoms returns the atoms the term i acts on. The slice must not be modified.
	TermAtoms(i int) []int
	//Empty returns a force of the same kind and handler, without terms, in group 0.
	Empty() Valence
	//MigrateTerm appends a copy of the term i to dst, which must be of the same kind.
	MigrateTerm(i int, dst Valence) error
}

//Tag holds the handler name and group shared by all forces.
type Tag struct {
	handler string
	group   int
}

//Handler returns the name of the handler that produced the force.
func (T *Tag) Handler() string { return T.handler }

//Group returns the group of the force.
func (T *Tag) Group() int { return T.group }

//SetGroup sets the group of the force.
func (T *Tag) SetGroup(g int) { T.group = g }

func kindError(src, dst Force) error {
	return fmt.Errorf("potential: can't migrate a term from %T to %T", src, dst)
}

//vector helpers on the flat coordinate slice

func vec(x []float64, i int) [3]float64 {
	return [3]float64{x[3*i], x[3*i+1], x[3*i+2]}
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}

func norm(a [3]float64) float64 {
	return math.Sqrt(dot(a, a))
}

//addGrad adds s*v to the gradient of atom i.
func addGrad(grad []float64, i int, s float64, v [3]float64) {
	grad[3*i] += s * v[0]
	grad[3*i+1] += s * v[1]
	grad[3*i+2] += s * v[2]
}
