/*
 * match.go, part of ffinspector.
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
	"sort"

	"github.com/rmera/ffinspector/chem"
)

//Match returns every distinct tuple of atoms of top matched by the pattern. Tuples follow
//map-index order. Different embeddings that only differ on untagged atoms give one tuple.
//Tuples are sorted in ascending lexicographic order. The topology is only read.
func (P *Pattern) Match(top *chem.Topology) [][]int {
	n := len(P.atoms)
	assign := make([]int, n)
	used := make([]bool, top.Len())
	seen := make(map[string]bool)
	var ret [][]int
	var rec func(k int)
	rec = func(k int) {
		if k == n {
			t := make([]int, len(P.tagged))
			for i, v := range P.tagged {
				t[i] = assign[v]
			}
			key := tupleKey(t)
			if !seen[key] {
				seen[key] = true
				ret = append(ret, t)
			}
			return
		}
		try := func(c int) {
			if used[c] || !P.atoms[k].matches(atomRef{top, c}) {
				return
			}
			if k > 0 {
				b := top.BondBetween(assign[P.parent[k]], c)
				if b == nil || !P.bonds[k].matches(b) {
					return
				}
			}
			used[c] = true
			assign[k] = c
			rec(k + 1)
			used[c] = false
		}
		if k == 0 {
			for c := 0; c < top.Len(); c++ {
				try(c)
			}
			return
		}
		for _, c := range top.Neighbors(assign[P.parent[k]]) {
			try(c)
		}
	}
	rec(0)
	sort.Slice(ret, func(i, j int) bool {
		for l := range ret[i] {
			if ret[i][l] != ret[j][l] {
				return ret[i][l] < ret[j][l]
			}
		}
		return false
	})
	return ret
}

func tupleKey(t []int) string {
	b := make([]byte, 0, 4*len(t))
	for _, v := range t {
		b = append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return string(b)
}
