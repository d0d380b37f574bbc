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

package xyz

//Error is the error type for the xyz package.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string { return "xyz file " + err.filename + ": " + err.message }

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

func (err Error) Critical() bool   { return err.critical }
func (err Error) FileName() string { return err.filename }
func (err Error) Format() string   { return "xyz" }

//LastFrameError is returned when trying to read past the last frame of a trajectory.
//It is not a real error.
type LastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing.
func (E LastFrameError) NormalLastFrameTermination() {}

func (E LastFrameError) FileName() string { return E.fileName }

func (E LastFrameError) Error() string { return "EOF" }

func (E LastFrameError) Critical() bool { return false }

func (E LastFrameError) Format() string { return "xyz" }

func (E LastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newLastFrameError(filename string, caller string) LastFrameError {
	return LastFrameError{deco: []string{caller}, fileName: filename}
}
