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

//Package chemjson implements the compact JSON form of a molecule used to exchange
//molecules with other programs, such as the clients of the HTTP API. A molecule is a
//list of element symbols, a list of bonds with their orders, and one or more conformers
//as flat lists of coordinates in A.
//chemjson also implements an error type that can be serialized and sent back to the
//client, telling in which stage the problem happened.
package chemjson
