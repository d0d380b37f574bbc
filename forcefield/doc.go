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

/*Package forcefield implements SMIRNOFF-style force fields: ordered lists of parameters,
grouped by handler, each with a SMIRKS pattern that decides which tuples of atoms it
applies to. Inside a handler, when several parameters match the same tuple, the last one
wins.

Force fields are read from YAML (or JSON) documents. A registry holds the built-in force
fields and any read from a directory, and can follow changes in that directory.
CreateSystem applies a force field to a chem.Topology and returns the potential.System
with the corresponding energy function.

Parameters are stored in the units used by the documents: A, degrees, kcal/mol and e.
CreateSystem converts to nm, radians and kJ/mol.
*/
package forcefield
