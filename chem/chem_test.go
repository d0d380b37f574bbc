/*
 * chem_test.go, part of ffinspector.
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
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v3 "github.com/rmera/ffinspector/v3"
)

//propenal returns the topology of (Z)-3-hydroxypropenal.
func propenal(Te *testing.T) *Topology {
	syms := []string{"C", "C", "O", "C", "O", "H", "H", "H", "H"}
	atoms := make([]*Atom, len(syms))
	for i, v := range syms {
		atoms[i] = &Atom{Symbol: v}
	}
	bonds := []*Bond{{0, 1, 2}, {1, 2, 1}, {0, 3, 1}, {3, 4, 2}, {0, 5, 1}, {1, 6, 1}, {2, 7, 1}, {3, 8, 1}}
	top, err := NewTopology("propenal", atoms, bonds)
	require.NoError(Te, err)
	return top
}

func TestNewTopology(Te *testing.T) {
	top := propenal(Te)
	assert.Equal(Te, 9, top.Len())
	assert.Equal(Te, 8, top.Atom(4).Number)
	assert.InDelta(Te, 16.00, top.Atom(4).Mass, 1e-9)
	assert.Equal(Te, []int{1, 3, 5}, top.Neighbors(0))
	assert.Equal(Te, 1, top.HydrogenCount(2))
	assert.Equal(Te, 2, top.BondBetween(1, 0).Order)
	assert.Nil(Te, top.BondBetween(0, 2))

	_, err := NewTopology("bad", []*Atom{{Symbol: "Xx"}}, nil)
	assert.Error(Te, err)
	_, err = NewTopology("bad", []*Atom{{Symbol: "C"}, {Symbol: "C"}}, []*Bond{{0, 2, 1}})
	assert.Error(Te, err)
	_, err = NewTopology("bad", []*Atom{{Symbol: "C"}, {Symbol: "C"}}, []*Bond{{0, 1, 1}, {1, 0, 1}})
	assert.Error(Te, err)
	_, err = NewTopology("bad", []*Atom{{Symbol: "H"}, {Symbol: "H"}, {Symbol: "H"}}, []*Bond{{0, 1, 1}, {0, 2, 1}})
	assert.Error(Te, err)
}

func TestTopologyCopy(Te *testing.T) {
	top := propenal(Te)
	c := top.Copy()
	c.Atoms[0].FormalCharge = 1
	c.Bonds[0].Order = 1
	assert.Equal(Te, 0, top.Atoms[0].FormalCharge)
	assert.Equal(Te, 2, top.Bonds[0].Order)
	assert.Equal(Te, top.Neighbors(3), c.Neighbors(3))
}

func TestGraphEnumeration(Te *testing.T) {
	top := propenal(Te)
	angles := top.Angles()
	assert.Len(Te, angles, 10)
	for _, a := range angles {
		assert.Less(Te, a[0], a[2])
	}
	propers := top.ProperTorsions()
	assert.Len(Te, propers, 10)
	assert.Contains(Te, propers, [4]int{2, 1, 0, 3})
	sep := top.Separations()
	assert.Equal(Te, 1, sep[[2]int{0, 1}])
	assert.Equal(Te, 2, sep[[2]int{1, 3}])
	assert.Equal(Te, 3, sep[[2]int{2, 3}])
	_, ok := sep[[2]int{7, 8}]
	assert.False(Te, ok)
}

func TestGeometry(Te *testing.T) {
	a, _ := v3.NewMatrix([]float64{1, 0, 0})
	b, _ := v3.NewMatrix([]float64{0, 0, 0})
	c, _ := v3.NewMatrix([]float64{0, 1, 0})
	d, _ := v3.NewMatrix([]float64{0, 1, 1})
	assert.InDelta(Te, 1.0, Distance(a, b), 1e-12)
	assert.InDelta(Te, math.Pi/2, AngleAt(a, b, c), 1e-12)
	assert.InDelta(Te, math.Pi/2, math.Abs(Dihedral(a, b, c, d)), 1e-12)
	e, _ := v3.NewMatrix([]float64{1, 1, 0})
	assert.InDelta(Te, 0.0, Dihedral(a, b, c, e), 1e-12)
}

func TestSDFRead(Te *testing.T) {
	top, geo, err := SDFFileRead("testdata/methane.sdf")
	require.NoError(Te, err)
	assert.Equal(Te, "methane", top.Name)
	assert.Equal(Te, 5, top.Len())
	assert.Len(Te, top.Bonds, 4)
	assert.Equal(Te, "C", top.Atom(0).Symbol)
	assert.InDelta(Te, 1.0874, geo.At(1, 1), 1e-9)
	assert.Equal(Te, 0, top.Charge())

	top, _, err = SDFFileRead("testdata/ammonium.sdf")
	require.NoError(Te, err)
	assert.Equal(Te, 1, top.Atom(0).FormalCharge)
	assert.Equal(Te, 1, top.Charge())

	_, _, err = SDFRead(strings.NewReader("x\n\n\n  2  0  0  0  0  0  0  0  0  0999 V2000\n"))
	assert.Error(Te, err)
	_, _, err = SDFFileRead("testdata/nothere.sdf")
	assert.Error(Te, err)
}

func TestSuperAndRMSD(Te *testing.T) {
	templa, err := v3.NewMatrix([]float64{
		-0.0001, 0, 0,
		-0.0567, 1.0874, -0.0859,
		0.6195, -0.3971, -0.8072,
		-1.0043, -0.4236, -0.0696,
		0.4416, -0.2666, 0.9627,
	})
	require.NoError(Te, err)
	//rotate 90 degrees around z and translate.
	test := v3.Zeros(5)
	for i := 0; i < 5; i++ {
		x, y, z := templa.At(i, 0), templa.At(i, 1), templa.At(i, 2)
		test.Set(i, 0, -y+1)
		test.Set(i, 1, x+2)
		test.Set(i, 2, z+3)
	}
	rmsd, err := RMSD(test, templa)
	require.NoError(Te, err)
	assert.Greater(Te, rmsd, 1.0)

	fit, err := Super(test, templa)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, templa.Flat(1), fit.Flat(1), 1e-9)
	rmsd, err = RMSD(fit, templa)
	require.NoError(Te, err)
	assert.InDelta(Te, 0, rmsd, 1e-9)
	//test is not modified
	assert.InDelta(Te, 1-1.0874, test.At(1, 0), 1e-12)
	//a structure fits itself, and neither copy moves.
	self, err := Super(templa, templa.Clone())
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, templa.Flat(1), self.Flat(1), 1e-9)
	assert.InDelta(Te, -0.0001, templa.At(0, 0), 1e-12)

	_, err = Super(v3.Zeros(2), templa)
	assert.Error(Te, err)
	_, err = RMSD(v3.Zeros(2), templa)
	assert.Error(Te, err)
}
