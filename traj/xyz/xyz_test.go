/*
 * xyz_test.go, part of ffinspector.
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

package xyz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v3 "github.com/rmera/ffinspector/v3"
)

func waterFrames(Te *testing.T) []*v3.Matrix {
	a, err := v3.NewMatrix([]float64{0, 0, 0, 0.9572, 0, 0, -0.24, 0.9266, 0})
	require.NoError(Te, err)
	b, err := v3.NewMatrix([]float64{0, 0, 0, 0.96, 0.01, 0, -0.2399, 0.9271, 0.001})
	require.NoError(Te, err)
	return []*v3.Matrix{a, b}
}

func TestRoundTrip(Te *testing.T) {
	for _, name := range []string{"water.xyz", "water.xyz.gz", "water.xyz.zst"} {
		Te.Run(name, func(Te *testing.T) {
			path := filepath.Join(Te.TempDir(), name)
			frames := waterFrames(Te)
			w, err := NewWriter(path, []string{"O", "H", "H"})
			require.NoError(Te, err)
			require.NoError(Te, w.WNext(frames[0], "frame 0\nE = 1.0"))
			require.NoError(Te, w.WNext(frames[1], "frame 1"))
			assert.Error(Te, w.WNext(v3.Zeros(2), "bad"))
			assert.Equal(Te, 2, w.Len())
			require.NoError(Te, w.Close())

			r, err := New(path)
			require.NoError(Te, err)
			defer r.Close()
			assert.Equal(Te, []string{"O", "H", "H"}, r.Symbols())
			out := v3.Zeros(r.Len())
			for i, f := range frames {
				require.NoError(Te, r.Next(out))
				assert.InDeltaSlice(Te, f.Flat(1), out.Flat(1), 1e-6)
				if i == 0 {
					assert.Equal(Te, "frame 0 E = 1.0", r.Comment())
				}
			}
			err = r.Next(out)
			require.Error(Te, err)
			_, ok := err.(LastFrameError)
			assert.True(Te, ok)
		})
	}
}

func TestCompressed(Te *testing.T) {
	assert.Equal(Te, "gzip", Compression("a.XYZ.GZ"))
	assert.Equal(Te, "zstd", Compression("traj.zst"))
	assert.Equal(Te, "", Compression("traj.xyz"))

	dir := Te.TempDir()
	plain, gz := filepath.Join(dir, "t.xyz"), filepath.Join(dir, "t.xyz.gz")
	for _, name := range []string{plain, gz} {
		w, err := NewWriter(name, []string{"O", "H", "H"})
		require.NoError(Te, err)
		for i := 0; i < 50; i++ {
			require.NoError(Te, w.WNext(waterFrames(Te)[0], "same frame"))
		}
		require.NoError(Te, w.Close())
	}
	p, err := os.Stat(plain)
	require.NoError(Te, err)
	g, err := os.Stat(gz)
	require.NoError(Te, err)
	assert.Less(Te, g.Size(), p.Size())
}

func TestReadErrors(Te *testing.T) {
	dir := Te.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(Te, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	_, err := New(write("empty.xyz", ""))
	assert.Error(Te, err)
	_, err = New(write("count.xyz", "two\n\nH 0 0 0\n"))
	assert.Error(Te, err)
	_, err = New(write("short.xyz", "2\n\nH 0 0 0\n"))
	assert.Error(Te, err)
	_, err = New(filepath.Join(dir, "missing.xyz"))
	assert.Error(Te, err)

	r, err := New(write("mismatch.xyz", "1\n\nH 0 0 0\n2\n\nH 0 0 0\nH 1 0 0\n"))
	require.NoError(Te, err)
	defer r.Close()
	require.NoError(Te, r.Next(nil))
	err = r.Next(v3.Zeros(1))
	require.Error(Te, err)
	assert.True(Te, err.(Error).Critical())
	_, err = NewWriter(filepath.Join(dir, "none.xyz"), nil)
	assert.Error(Te, err)
}
