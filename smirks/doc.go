/*
 * doc.go, part of ffinspector.
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

/*Package smirks parses the subset of SMIRKS used by SMIRNOFF force fields and finds the
tuples of atoms in a chem.Topology that a pattern matches.

Supported: bracket atoms with the primitives *, #n, element symbols, Xn, Dn, Hn, +n/-n
combined with the !, &, implicit and, ',' and ';' operators, and with an optional :n map
index; unbracketed * and organic-subset atoms; the bonds -, =, #, :, ~ with the same
operators; branches. Ring closures, ring and aromaticity primitives and recursive
SMARTS are rejected with an error.

A match is the tuple of molecule atoms that correspond to the pattern atoms carrying map
indexes 1..n, in map-index order.
*/
package smirks
