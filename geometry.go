/*
 * geometry.go, part of ffinspector.
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
	"math"

	"github.com/rmera/ffinspector/chem"
	v3 "github.com/rmera/ffinspector/v3"
)

//Wernet-Nilsson hydrogen bond criterion: r_DA < hbondCutoff - hbondCurvature*delta^2,
//with r_DA in A and delta, the H-D-A angle, in degrees.
const (
	hbondCutoff    = 3.3
	hbondCurvature = 0.00044
)

//BondGeometry is the length (A) of a bond.
type BondGeometry struct {
	Atoms  [2]int  `json:"atoms"`
	Order  int     `json:"order"`
	Length float64 `json:"length"`
}

//AngleGeometry is an angle (degrees) between two bonds sharing the central atom.
type AngleGeometry struct {
	Atoms [3]int  `json:"atoms"`
	Angle float64 `json:"angle"`
}

//TorsionGeometry is a proper dihedral angle (degrees) in (-180, 180].
type TorsionGeometry struct {
	Atoms [4]int  `json:"atoms"`
	Angle float64 `json:"angle"`
}

//HydrogenBond is a hydrogen bond between the donor, to which the hydrogen is bonded,
//and the acceptor. Distance is the donor-acceptor distance (A), and Angle the
//hydrogen-donor-acceptor angle (degrees).
type HydrogenBond struct {
	Donor    int     `json:"donor"`
	Hydrogen int     `json:"hydrogen"`
	Acceptor int     `json:"acceptor"`
	Distance float64 `json:"distance"`
	Angle    float64 `json:"angle"`
}

//GeometrySummary collects the internal coordinates of a conformer.
type GeometrySummary struct {
	Bonds          []BondGeometry    `json:"bonds"`
	Angles         []AngleGeometry   `json:"angles"`
	ProperTorsions []TorsionGeometry `json:"proper_torsions"`
	HydrogenBonds  []HydrogenBond    `json:"hydrogen_bonds"`
}

func hbondHeavy(sym string) bool {
	return sym == "N" || sym == "O"
}

//SummarizeGeometry measures every bond, angle and proper torsion of top in the given
//conformer (A), and finds its intramolecular hydrogen bonds. Donors and acceptors are
//N and O atoms. Neither top nor conformer are modified.
func SummarizeGeometry(top *chem.Topology, conformer *v3.Matrix) (*GeometrySummary, error) {
	if top == nil || conformer == nil {
		return nil, Error{"nil topology or conformer", []string{"SummarizeGeometry"}, true, nil}
	}
	if conformer.NVecs() != top.Len() {
		return nil, Error{fmt.Sprintf("conformer with %d atoms for a molecule with %d", conformer.NVecs(), top.Len()), []string{"SummarizeGeometry"}, true, nil}
	}
	deg := 180 / math.Pi
	at := conformer.VecView
	ret := &GeometrySummary{
		Bonds:          make([]BondGeometry, 0, len(top.Bonds)),
		Angles:         []AngleGeometry{},
		ProperTorsions: []TorsionGeometry{},
		HydrogenBonds:  []HydrogenBond{},
	}
	for _, b := range top.Bonds {
		i, j := b.At1, b.At2
		if i > j {
			i, j = j, i
		}
		ret.Bonds = append(ret.Bonds, BondGeometry{[2]int{i, j}, b.Order, chem.Distance(at(i), at(j))})
	}
	for _, a := range top.Angles() {
		ret.Angles = append(ret.Angles, AngleGeometry{a, chem.AngleAt(at(a[0]), at(a[1]), at(a[2])) * deg})
	}
	for _, t := range top.ProperTorsions() {
		ret.ProperTorsions = append(ret.ProperTorsions, TorsionGeometry{t, chem.Dihedral(at(t[0]), at(t[1]), at(t[2]), at(t[3])) * deg})
	}
	for d := 0; d < top.Len(); d++ {
		if !hbondHeavy(top.Atom(d).Symbol) {
			continue
		}
		for _, h := range top.Neighbors(d) {
			if top.Atom(h).Number != 1 {
				continue
			}
			for a := 0; a < top.Len(); a++ {
				if a == d || !hbondHeavy(top.Atom(a).Symbol) {
					continue
				}
				r := chem.Distance(at(d), at(a))
				delta := chem.AngleAt(at(h), at(d), at(a)) * deg
				if r < hbondCutoff-hbondCurvature*delta*delta {
					ret.HydrogenBonds = append(ret.HydrogenBonds, HydrogenBond{d, h, a, r, delta})
				}
			}
		}
	}
	return ret, nil
}
