/*
 * atomicdata.go, part of ffinspector.
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

//A map for assigning mass to elements.
//Note that just common "bio-elements" are present
var symbolMass = map[string]float64{
	"H":  1.008,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.1,
	"Ca": 40.08,
	"Mg": 24.30,
	"Cl": 35.45,
	"Na": 22.99,
	"Zn": 65.38,
	"Si": 28.08,
	"B":  10.81,
	"Li": 6.94,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
}

//atomic numbers, same coverage as symbolMass.
var symbolNumber = map[string]int{
	"H":  1,
	"Li": 3,
	"B":  5,
	"C":  6,
	"N":  7,
	"O":  8,
	"F":  9,
	"Na": 11,
	"Mg": 12,
	"Si": 14,
	"P":  15,
	"S":  16,
	"Cl": 17,
	"K":  19,
	"Ca": 20,
	"Zn": 30,
	"Se": 34,
	"Br": 35,
	"I":  53,
}

//A map for checking that atoms don't
//have too many bonds. A value of 0 means
//undefined, i.e. that this atom shouldn't
//be checked for max bonds.
var symbolMaxBonds = map[string]int{
	"H":  1, //this is the only one truly important.
	"C":  4,
	"O":  2,
	"F":  1,
	"Cl": 1,
	"Br": 1,
	"I":  1,
}

//Mass returns the mass for the element with the given symbol, and whether the
//element is known.
func Mass(symbol string) (float64, bool) {
	m, ok := symbolMass[symbol]
	return m, ok
}

//Number returns the atomic number for the given symbol, or 0 if the symbol is unknown.
func Number(symbol string) int {
	return symbolNumber[symbol]
}

//Symbol returns the element symbol for atomic number z, or the empty string
//if the element is not known.
func Symbol(z int) string {
	for k, v := range symbolNumber {
		if v == z {
			return k
		}
	}
	return ""
}
