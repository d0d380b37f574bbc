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

/*Package potential implements the potential-energy backend of ffinspector. A System holds
particle masses, distance constraints and an ordered list of forces. Each force remembers
the force-field handler that produced it and carries a group id, so that the energy can be
split per group. Energies are in kJ/mol, distances in nm, angles in radians.

Systems are evaluated through a Context, which takes a private deep copy of the system.
Contexts are cheap and meant to be created for each evaluation.
*/
package potential
