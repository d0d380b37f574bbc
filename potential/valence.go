/*
 * valence.go, part of ffinspector.
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

import "math"

//BondTerm is a harmonic bond, E = 1/2 K (r - Length)^2.
type BondTerm struct {
	Atoms  [2]int
	Length float64 //nm
	K      float64 //kJ/mol/nm^2
}

//HarmonicBondForce is a set of harmonic bonds.
type HarmonicBondForce struct {
	Tag
	Terms []BondTerm
}

//NewHarmonicBondForce returns an empty bond force for the given handler.
func NewHarmonicBondForce(handler string) *HarmonicBondForce {
	return &HarmonicBondForce{Tag: Tag{handler: handler}}
}

//AddBond adds a term and returns its index.
func (F *HarmonicBondForce) AddBond(i, j int, length, k float64) int {
	F.Terms = append(F.Terms, BondTerm{[2]int{i, j}, length, k})
	return len(F.Terms) - 1
}

func (F *HarmonicBondForce) NumTerms() int         { return len(F.Terms) }
func (F *HarmonicBondForce) TermAtoms(i int) []int { return F.Terms[i].Atoms[:] }
func (F *HarmonicBondForce) Empty() Valence        { return NewHarmonicBondForce(F.handler) }

func (F *HarmonicBondForce) Copy() Force {
	r := *F
	r.Terms = append([]BondTerm(nil), F.Terms...)
	return &r
}

func (F *HarmonicBondForce) MigrateTerm(i int, dst Valence) error {
	d, ok := dst.(*HarmonicBondForce)
	if !ok {
		return kindError(F, dst)
	}
	d.Terms = append(d.Terms, F.Terms[i])
	return nil
}

func (F *HarmonicBondForce) energy(x, grad []float64) float64 {
	var e float64
	for _, t := range F.Terms {
		d := sub(vec(x, t.Atoms[0]), vec(x, t.Atoms[1]))
		r := norm(d)
		dr := r - t.Length
		e += 0.5 * t.K * dr * dr
		if grad != nil && r > 0 {
			s := t.K * dr / r
			addGrad(grad, t.Atoms[0], s, d)
			addGrad(grad, t.Atoms[1], -s, d)
		}
	}
	return e
}

//AngleTerm is a harmonic angle, E = 1/2 K (theta - Angle)^2. Atoms[1] is the vertex.
type AngleTerm struct {
	Atoms [3]int
	Angle float64 //rad
	K     float64 //kJ/mol/rad^2
}

//HarmonicAngleForce is a set of harmonic angles.
type HarmonicAngleForce struct {
	Tag
	Terms []AngleTerm
}

//NewHarmonicAngleForce returns an empty angle force for the given handler.
func NewHarmonicAngleForce(handler string) *HarmonicAngleForce {
	return &HarmonicAngleForce{Tag: Tag{handler: handler}}
}

//AddAngle adds a term and returns its index.
func (F *HarmonicAngleForce) AddAngle(i, j, k int, angle, K float64) int {
	F.Terms = append(F.Terms, AngleTerm{[3]int{i, j, k}, angle, K})
	return len(F.Terms) - 1
}

func (F *HarmonicAngleForce) NumTerms() int         { return len(F.Terms) }
func (F *HarmonicAngleForce) TermAtoms(i int) []int { return F.Terms[i].Atoms[:] }
func (F *HarmonicAngleForce) Empty() Valence        { return NewHarmonicAngleForce(F.handler) }

func (F *HarmonicAngleForce) Copy() Force {
	r := *F
	r.Terms = append([]AngleTerm(nil), F.Terms...)
	return &r
}

func (F *HarmonicAngleForce) MigrateTerm(i int, dst Valence) error {
	d, ok := dst.(*HarmonicAngleForce)
	if !ok {
		return kindError(F, dst)
	}
	d.Terms = append(d.Terms, F.Terms[i])
	return nil
}

func (F *HarmonicAngleForce) energy(x, grad []float64) float64 {
	var e float64
	for _, t := range F.Terms {
		u := sub(vec(x, t.Atoms[0]), vec(x, t.Atoms[1]))
		v := sub(vec(x, t.Atoms[2]), vec(x, t.Atoms[1]))
		lu, lv := norm(u), norm(v)
		if lu == 0 || lv == 0 {
			return math.NaN()
		}
		c := dot(u, v) / (lu * lv)
		c = math.Max(-1, math.Min(1, c))
		theta := math.Acos(c)
		dt := theta - t.Angle
		e += 0.5 * t.K * dt * dt
		if grad == nil {
			continue
		}
		s := math.Sqrt(1 - c*c)
		if s < 1e-12 {
			s = 1e-12
		}
		pref := t.K * dt / s
		var gi, gk [3]float64
		for d := 0; d < 3; d++ {
			gi[d] = -pref * (v[d]/(lu*lv) - c*u[d]/(lu*lu))
			gk[d] = -pref * (u[d]/(lu*lv) - c*v[d]/(lv*lv))
		}
		addGrad(grad, t.Atoms[0], 1, gi)
		addGrad(grad, t.Atoms[2], 1, gk)
		addGrad(grad, t.Atoms[1], -1, gi)
		addGrad(grad, t.Atoms[1], -1, gk)
	}
	return e
}

//TorsionTerm is a periodic torsion, E = K (1 + cos(Periodicity phi - Phase)).
type TorsionTerm struct {
	Atoms       [4]int
	Periodicity int
	Phase       float64 //rad
	K           float64 //kJ/mol
}

//PeriodicTorsionForce is a set of periodic torsions, both proper and improper.
type PeriodicTorsionForce struct {
	Tag
	Terms []TorsionTerm
}

//NewPeriodicTorsionForce returns an empty torsion force for the given handler.
func NewPeriodicTorsionForce(handler string) *PeriodicTorsionForce {
	return &PeriodicTorsionForce{Tag: Tag{handler: handler}}
}

//AddTorsion adds a term and returns its index.
func (F *PeriodicTorsionForce) AddTorsion(i, j, k, l, periodicity int, phase, K float64) int {
	F.Terms = append(F.Terms, TorsionTerm{[4]int{i, j, k, l}, periodicity, phase, K})
	return len(F.Terms) - 1
}

func (F *PeriodicTorsionForce) NumTerms() int         { return len(F.Terms) }
func (F *PeriodicTorsionForce) TermAtoms(i int) []int { return F.Terms[i].Atoms[:] }
func (F *PeriodicTorsionForce) Empty() Valence        { return NewPeriodicTorsionForce(F.handler) }

func (F *PeriodicTorsionForce) Copy() Force {
	r := *F
	r.Terms = append([]TorsionTerm(nil), F.Terms...)
	return &r
}

func (F *PeriodicTorsionForce) MigrateTerm(i int, dst Valence) error {
	d, ok := dst.(*PeriodicTorsionForce)
	if !ok {
		return kindError(F, dst)
	}
	d.Terms = append(d.Terms, F.Terms[i])
	return nil
}

func (F *PeriodicTorsionForce) energy(x, grad []float64) float64 {
	var e float64
	for _, t := range F.Terms {
		xi, xj, xk, xl := vec(x, t.Atoms[0]), vec(x, t.Atoms[1]), vec(x, t.Atoms[2]), vec(x, t.Atoms[3])
		f := sub(xi, xj)
		g := sub(xj, xk)
		h := sub(xl, xk)
		a := cross(f, g)
		b := cross(h, g)
		lg := norm(g)
		a2, b2 := dot(a, a), dot(b, b)
		if lg == 0 || a2 == 0 || b2 == 0 {
			//three collinear atoms: phi is undefined, take phi = 0 with no force.
			e += t.K * (1 + math.Cos(-t.Phase))
			continue
		}
		//same convention as chem.Dihedral
		m := cross(a, b)
		phi := math.Atan2(-dot(m, g)/lg, dot(a, b))
		arg := float64(t.Periodicity)*phi - t.Phase
		e += t.K * (1 + math.Cos(arg))
		if grad == nil {
			continue
		}
		dEdphi := -t.K * float64(t.Periodicity) * math.Sin(arg)
		fg, hg := dot(f, g), dot(h, g)
		var gi, gj, gk, gl [3]float64
		for d := 0; d < 3; d++ {
			gi[d] = -lg / a2 * a[d]
			gl[d] = lg / b2 * b[d]
			gj[d] = lg/a2*a[d] + fg/(a2*lg)*a[d] - hg/(b2*lg)*b[d]
			gk[d] = -lg/b2*b[d] - fg/(a2*lg)*a[d] + hg/(b2*lg)*b[d]
		}
		addGrad(grad, t.Atoms[0], dEdphi, gi)
		addGrad(grad, t.Atoms[1], dEdphi, gj)
		addGrad(grad, t.Atoms[2], dEdphi, gk)
		addGrad(grad, t.Atoms[3], dEdphi, gl)
	}
	return e
}
