/*
 * v3_test.go, part of ffinspector.
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

package v3

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(Te *testing.T) {
	_, err := NewMatrix([]float64{1, 2, 3, 4})
	require.Error(Te, err)
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	assert.Equal(Te, 2, A.NVecs())
}

func TestFlatRoundTrip(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	flat := A.Flat(0.1)
	assert.InDeltaSlice(Te, []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}, flat, 1e-12)
	B, err := FromFlat(flat, 10)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, A.Flat(1), B.Flat(1), 1e-12)
	//FromFlat must not alias its input.
	B.Set(0, 0, 100)
	assert.InDelta(Te, 0.1, flat[0], 1e-12)
}

func TestCrossDotNorm(Te *testing.T) {
	x, _ := NewMatrix([]float64{1, 0, 0})
	y, _ := NewMatrix([]float64{0, 1, 0})
	z := Zeros(1)
	z.Cross(x, y)
	assert.InDeltaSlice(Te, []float64{0, 0, 1}, z.Flat(1), 1e-12)
	assert.InDelta(Te, 0.0, x.Dot(y), 1e-12)
	w, _ := NewMatrix([]float64{3, 4, 0})
	assert.InDelta(Te, 5.0, w.Norm(), 1e-12)
	//Frobenius for several vectors: sqrt(9+16+144), where the spectral norm would be 12.
	m, _ := NewMatrix([]float64{3, 4, 0, 0, 0, 12})
	assert.InDelta(Te, 13.0, m.Norm(), 1e-12)
}

func TestViewsAndClone(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	v := A.VecView(1)
	v.Set(0, 0, -4)
	assert.Equal(Te, -4.0, A.At(1, 0))
	C := A.Clone()
	C.Set(0, 0, math.Pi)
	assert.Equal(Te, 1.0, A.At(0, 0))
	B := Zeros(3)
	B.SubVec(A, A.VecView(0))
	assert.InDeltaSlice(Te, []float64{0, 0, 0}, B.VecView(0).Flat(1), 1e-12)
	assert.Equal(Te, 2, A.View(1, 2).NVecs())
}
