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

/*Package inspector assigns force field parameters to a molecule, splits its potential
energy into the contribution of each parameter, and minimizes its geometry while
recording the trajectory.

Label reports which parameter of each handler applies to which atoms. GroupByParameter
moves every valence term of a potential into one force group per parameter, so that
EvaluateEnergy can return the energy of each parameter. Decompose puts those together
and also separates the nonbonded energy into its van der Waals and electrostatic parts,
by evaluating it a second time with all charges set to zero. Minimize runs an
optim.Optimizer (L-BFGS by default) on the energy and records one frame per iteration.

Lengths at the boundary are in A, energies in kJ/mol and angles in degrees.

None of the functions modify the topology, the force field or the coordinates they
are given. Every call works on its own copies, so the functions can be used
concurrently.
*/
package inspector
