/*
 * geometric.go, part of ffinspector.
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

package chem

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	v3 "github.com/rmera/ffinspector/v3"
)

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//Distance returns the distance between the first vectors of a and b.
func Distance(a, b *v3.Matrix) float64 {
	d := v3.Zeros(1)
	d.Sub(a.VecView(0), b.VecView(0))
	return d.Norm()
}

//Angle takes 2 vectors and calculate the angle in radians between them
//It does not check for correctness or return errors!
func Angle(v1, v2 *v3.Matrix) float64 {
	normproduct := v1.Norm() * v2.Norm()
	dotprod := v1.Dot(v2)
	argument := dotprod / normproduct
	//Take care of floating point math errors
	if argument > 1 {
		argument = 1
	} else if argument < -1 {
		argument = -1
	}
	angle := math.Acos(argument)
	if math.Abs(angle) <= appzero {
		return 0.00
	}
	return angle
}

//AngleAt returns the angle in radians formed by the points a, b and c, with b as
//the vertex.
func AngleAt(a, b, c *v3.Matrix) float64 {
	ba := v3.Zeros(1)
	bc := v3.Zeros(1)
	ba.Sub(a.VecView(0), b.VecView(0))
	bc.Sub(c.VecView(0), b.VecView(0))
	return Angle(ba, bc)
}

//Dihedral calculates the dihedral between the points a, b, c, d, where the first plane
//is defined by abc and the second by bcd. The result is in radians, in (-pi, pi].
func Dihedral(a, b, c, d *v3.Matrix) float64 {
	all := []*v3.Matrix{a, b, c, d}
	for number, point := range all {
		if point == nil {
			panic(PanicMsg(fmt.Sprintf("chem: Dihedral: vector %d is nil", number)))
		}
		if pr, pc := point.Dims(); pr != 1 || pc != 3 {
			panic(PanicMsg(fmt.Sprintf("chem: Dihedral: vector %d has invalid shape", number)))
		}
	}
	//bma=b minus a
	bma := v3.Zeros(1)
	cmb := v3.Zeros(1)
	dmc := v3.Zeros(1)
	bmascaled := v3.Zeros(1)
	bma.Sub(b, a)
	cmb.Sub(c, b)
	dmc.Sub(d, c)
	bmascaled.Scale(cmb.Norm(), bma)
	v2 := v3.Zeros(1)
	v2.Cross(cmb, dmc)
	first := bmascaled.Dot(v2)
	v1 := v3.Zeros(1)
	v1.Cross(bma, cmb)
	second := v1.Dot(v2)
	return math.Atan2(first, second)
}

//centered returns a copy of coords with its centroid at the origin, and the centroid.
func centered(coords *v3.Matrix) (*v3.Matrix, *v3.Matrix) {
	n := coords.NVecs()
	cen := v3.Zeros(1)
	for i := 0; i < n; i++ {
		cen.Dense.Add(cen.Dense, coords.VecView(i).Dense)
	}
	cen.Dense.Scale(1/float64(n), cen.Dense)
	ret := v3.Zeros(n)
	ret.SubVec(coords, cen)
	return ret, cen
}

//Super returns a copy of test superimposed on template, with the rotation and
//translation that minimize the RMSD between the two (Kabsch). Reflections are not
//allowed, so specular images won't fit exactly.
func Super(test, template *v3.Matrix) (*v3.Matrix, error) {
	n := test.NVecs()
	if n == 0 || n != template.NVecs() {
		return nil, Error{fmt.Sprintf("Can't superimpose %d atoms on %d", n, template.NVecs()), []string{"Super"}, true}
	}
	ctest, _ := centered(test)
	ctempla, tcen := centered(template)
	var h mat.Dense
	h.Mul(ctest.Dense.T(), ctempla.Dense)
	var svd mat.SVD
	if !svd.Factorize(&h, mat.SVDFull) {
		return nil, Error{"SVD failed", []string{"Super"}, true}
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	d := 1.0
	if mat.Det(&u)*mat.Det(&v) < 0 {
		d = -1
	}
	var rot mat.Dense
	rot.Product(&u, mat.NewDiagDense(3, []float64{1, 1, d}), v.T())
	ret := v3.Zeros(n)
	ret.Mul(ctest.Dense, &rot)
	for i := 0; i < n; i++ {
		row := ret.VecView(i)
		row.Dense.Add(row.Dense, tcen.Dense)
	}
	return ret, nil
}

//RMSD returns the root of the mean square deviation between the sets of coordinates
//test and template, without superimposing them.
func RMSD(test, template *v3.Matrix) (float64, error) {
	n := test.NVecs()
	if n == 0 || n != template.NVecs() {
		return 0, Error{fmt.Sprintf("Can't compare %d atoms with %d", n, template.NVecs()), []string{"RMSD"}, true}
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := Distance(test.VecView(i), template.VecView(i))
		sum += d * d
	}
	return math.Sqrt(sum / float64(n)), nil
}
