/*
 * smirks_test.go, part of ffinspector.
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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmera/ffinspector/chem"
)

func mol(Te *testing.T, syms []string, charges map[int]int, bonds []*chem.Bond) *chem.Topology {
	atoms := make([]*chem.Atom, len(syms))
	for i, v := range syms {
		atoms[i] = &chem.Atom{Symbol: v, FormalCharge: charges[i]}
	}
	top, err := chem.NewTopology("", atoms, bonds)
	require.NoError(Te, err)
	return top
}

func methane(Te *testing.T) *chem.Topology {
	return mol(Te, []string{"C", "H", "H", "H", "H"}, nil, []*chem.Bond{{At1: 0, At2: 1, Order: 1}, {At1: 0, At2: 2, Order: 1}, {At1: 0, At2: 3, Order: 1}, {At1: 0, At2: 4, Order: 1}})
}

func propenal(Te *testing.T) *chem.Topology {
	return mol(Te, []string{"C", "C", "O", "C", "O", "H", "H", "H", "H"}, nil,
		[]*chem.Bond{{At1: 0, At2: 1, Order: 2}, {At1: 1, At2: 2, Order: 1}, {At1: 0, At2: 3, Order: 1}, {At1: 3, At2: 4, Order: 2},
			{At1: 0, At2: 5, Order: 1}, {At1: 1, At2: 6, Order: 1}, {At1: 2, At2: 7, Order: 1}, {At1: 3, At2: 8, Order: 1}})
}

func TestParseErrors(Te *testing.T) {
	for _, s := range []string{"", "C1CC1", "[c:1]", "[#6:1]-[#1:1]", "[#6:2]", "[#6:1](", "[#6:1])", "[#6:1]-", "[#6R:1]", "[#6:1].[#1:2]", "[$(C):1]", "-[#6:1]", "[#6X4:1"} {
		_, err := Parse(s)
		assert.Error(Te, err, s)
	}
	var serr Error
	_, err := Parse("[#6:1]~[#1:1]")
	require.ErrorAs(Te, err, &serr)
	assert.Equal(Te, "[#6:1]~[#1:1]", serr.Pattern())
}

func TestParse(Te *testing.T) {
	p, err := Parse("[*:1]~[#6X3:2](~[*:3])~[*:4]")
	require.NoError(Te, err)
	assert.Equal(Te, 4, p.NumTagged())
	assert.Equal(Te, "[*:1]~[#6X3:2](~[*:3])~[*:4]", p.String())
	p = MustParse("[#8X2H1+0:1]")
	assert.Equal(Te, 1, p.NumTagged())
	assert.Panics(Te, func() { MustParse("[#6") })
}

func TestMatchMethane(Te *testing.T) {
	top := methane(Te)
	b := MustParse("[#6X4:1]-[#1:2]").Match(top)
	assert.Equal(Te, [][]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}}, b)
	//both orientations of every H-C-H angle.
	a := MustParse("[#1:1]-[#6X4:2]-[#1:3]").Match(top)
	assert.Len(Te, a, 12)
	assert.Equal(Te, []int{1, 0, 2}, a[0])
	assert.Empty(Te, MustParse("[#6X3:1]-[#1:2]").Match(top))
	assert.Len(Te, MustParse("[#1:1]").Match(top), 4)
	assert.Len(Te, MustParse("[#1:1]-[#6X4]").Match(top), 4)
}

func TestMatchPropenal(Te *testing.T) {
	top := propenal(Te)
	assert.Equal(Te, [][]int{{2}}, MustParse("[#8X2H1+0:1]").Match(top))
	assert.Equal(Te, [][]int{{4, 3}}, MustParse("[#8:1]=[#6:2]").Match(top))
	assert.Equal(Te, [][]int{{0, 3}, {3, 0}}, MustParse("[#6:1]-,:[#6:2]").Match(top))
	assert.Equal(Te, [][]int{{0, 3}, {3, 0}}, MustParse("[#6:1][#6:2]").Match(top))
	assert.Equal(Te, [][]int{{0, 1}, {1, 0}}, MustParse("[#6:1]=[#6:2]").Match(top))
	assert.Len(Te, MustParse("[!#1:1]").Match(top), 5)
	assert.Equal(Te, [][]int{{0}, {1}, {3}}, MustParse("[#6,#8;X3:1]").Match(top))
	assert.Equal(Te, [][]int{{5}, {6}, {8}}, MustParse("C-[#1:1]").Match(top))
	assert.Len(Te, MustParse("[*:1]~[#6X3:2](~[*:3])~[*:4]").Match(top), 18)
	assert.Equal(Te, [][]int{{7}}, MustParse("[#1:1]-[#8]").Match(top))
	assert.Len(Te, MustParse("[*:1]~[#6X3:2]-[#8X2:3]~[*:4]").Match(top), 2)
}

func TestMatchCharge(Te *testing.T) {
	top := mol(Te, []string{"N", "H", "H", "H", "H"}, map[int]int{0: 1}, []*chem.Bond{{At1: 0, At2: 1}, {At1: 0, At2: 2}, {At1: 0, At2: 3}, {At1: 0, At2: 4}})
	assert.Len(Te, MustParse("[#7+1:1]").Match(top), 1)
	assert.Len(Te, MustParse("[#7+:1]").Match(top), 1)
	assert.Empty(Te, MustParse("[#7+0:1]").Match(top))
	assert.Empty(Te, MustParse("[#7-:1]").Match(top))
	assert.Len(Te, MustParse("[#7X4H4:1]").Match(top), 1)
}
