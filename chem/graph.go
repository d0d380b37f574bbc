/*
 * graph.go, part of ffinspector.
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

import "sort"

//Angles returns all the (i, j, k) triplets where j is bonded to both i and k, with i<k.
//The triplets are sorted.
func (T *Topology) Angles() [][3]int {
	var ret [][3]int
	for j := range T.Atoms {
		n := T.neigh[j]
		for a := 0; a < len(n); a++ {
			for b := a + 1; b < len(n); b++ {
				ret = append(ret, [3]int{n[a], j, n[b]})
			}
		}
	}
	sort.Slice(ret, func(a, b int) bool { return lessInts(ret[a][:], ret[b][:]) })
	return ret
}

//ProperTorsions returns all the (i, j, k, l) quadruplets of atoms forming a bonded chain.
//Each torsion is returned once, oriented so that i<l, and the result is sorted.
func (T *Topology) ProperTorsions() [][4]int {
	var ret [][4]int
	for _, b := range T.Bonds {
		j, k := b.At1, b.At2
		for _, i := range T.neigh[j] {
			if i == k {
				continue
			}
			for _, l := range T.neigh[k] {
				if l == j || l == i {
					continue
				}
				t := [4]int{i, j, k, l}
				if i > l {
					t = [4]int{l, k, j, i}
				}
				ret = append(ret, t)
			}
		}
	}
	sort.Slice(ret, func(a, b int) bool { return lessInts(ret[a][:], ret[b][:]) })
	return ret
}

//Separations returns, for each pair of atoms i<j separated by 3 bonds or less, the
//smallest number of bonds between them.
func (T *Topology) Separations() map[[2]int]int {
	ret := make(map[[2]int]int)
	dist := make([]int, T.Len())
	for start := range T.Atoms {
		for i := range dist {
			dist[i] = -1
		}
		dist[start] = 0
		queue := []int{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if dist[cur] == 3 {
				continue
			}
			for _, n := range T.neigh[cur] {
				if dist[n] >= 0 {
					continue
				}
				dist[n] = dist[cur] + 1
				queue = append(queue, n)
				if start < n {
					ret[[2]int{start, n}] = dist[n]
				}
			}
		}
	}
	return ret
}

func lessInts(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
