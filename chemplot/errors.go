/*
 * errors.go, part of ffinspector.
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

package chemplot

//Error is the error type for the chemplot package.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string { return err.message }

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//errDecorate adds caller to the decoration of err, turning it into an Error if needed.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	e, ok := err.(Error)
	if !ok {
		return Error{err.Error(), []string{caller}}
	}
	e.deco = append(e.deco[:len(e.deco):len(e.deco)], caller)
	return e
}
