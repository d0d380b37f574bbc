/*
 * plot_test.go, part of ffinspector.
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

package chemplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inspector "github.com/rmera/ffinspector"
)

func nonEmpty(Te *testing.T, name string) {
	info, err := os.Stat(name)
	require.NoError(Te, err)
	assert.Greater(Te, info.Size(), int64(0))
}

func TestEnergyProfile(Te *testing.T) {
	dir := Te.TempDir()
	png := filepath.Join(dir, "profile.png")
	require.NoError(Te, EnergyProfile([]float64{12.5, 8.1, 3.3, 2.9, 2.89}, "Minimization", png))
	nonEmpty(Te, png)
	svg := filepath.Join(dir, "profile.svg")
	require.NoError(Te, EnergyProfile([]float64{1}, "One frame", svg))
	nonEmpty(Te, svg)

	assert.Error(Te, EnergyProfile(nil, "empty", filepath.Join(dir, "empty.png")))
	assert.Error(Te, EnergyProfile([]float64{1, 2}, "bad", filepath.Join(dir, "profile.nope")))
}

func TestDecomposition(Te *testing.T) {
	d := &inspector.DecomposedEnergy{
		ValenceEnergies: map[string]map[string]float64{
			"Bonds":          {"b5": 1.2, "b4": 0.3},
			"Angles":         {"a10": 2.1},
			"ProperTorsions": {"t14": -0.4},
		},
		VdWEnergy:           1.5,
		ElectrostaticEnergy: -30.2,
	}
	name := filepath.Join(Te.TempDir(), "decomposition.png")
	require.NoError(Te, Decomposition(d, "Propenal", name))
	nonEmpty(Te, name)

	assert.Error(Te, Bars([]string{"a"}, []float64{1, 2}, "bad", "", name))
}

func TestPalette(Te *testing.T) {
	seen := map[[3]uint8]bool{}
	for i := 0; i < 6; i++ {
		c := palette(i, 6)
		assert.Equal(Te, uint8(255), c.A)
		seen[[3]uint8{c.R, c.G, c.B}] = true
	}
	assert.Len(Te, seen, 6)
	r, g, b := iHVS2RGB(0, 1, 0)
	assert.Equal(Te, [3]uint8{255, 255, 255}, [3]uint8{r, g, b})
}
