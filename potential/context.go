/*
 * context.go, part of ffinspector.
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

//Context evaluates a System at a set of positions. It owns a private copy of the system,
//so later changes to the original system don't affect it. A Context is not safe for
//concurrent use; create one per evaluation.
type Context struct {
	sys       *System
	positions []float64
}

//NewContext returns a context for a deep copy of sys.
func NewContext(sys *System) (*Context, error) {
	s := sys.Copy()
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &Context{sys: s}, nil
}

//SetPositions sets the flat (3N) positions, in nm. x is copied.
func (C *Context) SetPositions(x []float64) error {
	if len(x) != 3*C.sys.NumParticles() {
		return fmt.Errorf("potential: got %d coordinates for %d particles", len(x), C.sys.NumParticles())
	}
	C.positions = append(C.positions[:0], x...)
	return nil
}

func (C *Context) ready() error {
	if C.positions == nil {
		return fmt.Errorf("potential: positions not set")
	}
	return nil
}

//Energy returns the total potential energy in kJ/mol.
func (C *Context) Energy() (float64, error) {
	if err := C.ready(); err != nil {
		return 0, err
	}
	var e float64
	for _, f := range C.sys.Forces {
		e += f.energy(C.positions, nil)
	}
	return e, nil
}

//GroupEnergies returns the potential energy of each force group in kJ/mol.
func (C *Context) GroupEnergies() (map[int]float64, error) {
	if err := C.ready(); err != nil {
		return nil, err
	}
	ret := make(map[int]float64)
	for _, f := range C.sys.Forces {
		ret[f.Group()] += f.energy(C.positions, nil)
	}
	return ret, nil
}

//EnergyAndGradient returns the total potential energy (kJ/mol) and its gradient with
//respect to the flat positions (kJ/mol/nm), which is the negated force.
func (C *Context) EnergyAndGradient() (float64, []float64, error) {
	if err := C.ready(); err != nil {
		return 0, nil, err
	}
	grad := make([]float64, len(C.positions))
	var e float64
	for _, f := range C.sys.Forces {
		e += f.energy(C.positions, grad)
	}
	return e, grad, nil
}

//Finite returns true if v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
