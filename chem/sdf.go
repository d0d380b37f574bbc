/*
 * sdf.go, part of ffinspector.
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

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/ffinspector/v3"
)

//charge codes in the V2000 atom block.
var sdfChargeCode = map[int]int{0: 0, 1: 3, 2: 2, 3: 1, 4: 0, 5: -1, 6: -2, 7: -3}

//SDFFileRead reads the first molecule in the MDL SDF (V2000) file sdfname.
func SDFFileRead(sdfname string) (*Topology, *v3.Matrix, error) {
	sdffile, err := os.Open(sdfname)
	if err != nil {
		return nil, nil, Error{fmt.Sprintf("Unable to open file %s: %s", sdfname, err.Error()), []string{"SDFFileRead"}, true}
	}
	defer sdffile.Close()
	top, coords, err := SDFRead(sdffile)
	if err != nil {
		return nil, nil, errDecorate(err, "SDFFileRead")
	}
	if top.Name == "" {
		top.Name = sdfname
	}
	return top, coords, nil
}

//SDFRead reads the first molecule of an MDL SDF/MOL (V2000) stream and returns its topology and
//its coordinates, in A. Formal charges are taken from the atom block and overriden by
//"M  CHG" property lines, as the format prescribes.
func SDFRead(in io.Reader) (*Topology, *v3.Matrix, error) {
	sdf := bufio.NewScanner(in)
	lines := 0
	next := func() (string, bool) {
		ok := sdf.Scan()
		lines++
		return strings.TrimRight(sdf.Text(), "\r"), ok
	}
	deco := []string{"SDFRead"}
	name, ok := next()
	if !ok {
		return nil, nil, Error{"Empty SDF stream", deco, true}
	}
	//program and comment lines, we don't care about them
	next()
	next()
	counts, ok := next()
	if !ok || len(counts) < 6 {
		return nil, nil, Error{"Ill formatted SDF: missing counts line", deco, true}
	}
	if strings.Contains(counts, "V3000") {
		return nil, nil, Error{"V3000 SDF files are not supported", deco, true}
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(counts[0:3]))
	if err != nil {
		return nil, nil, Error{fmt.Sprintf("Ill formatted SDF counts line: %q", counts), deco, true}
	}
	nbonds, err := strconv.Atoi(strings.TrimSpace(counts[3:6]))
	if err != nil {
		return nil, nil, Error{fmt.Sprintf("Ill formatted SDF counts line: %q", counts), deco, true}
	}
	atoms := make([]*Atom, natoms)
	coords := make([]float64, 3*natoms)
	for i := 0; i < natoms; i++ {
		line, ok := next()
		if !ok || len(line) < 34 {
			return nil, nil, Error{fmt.Sprintf("Line %d in SDF ill formed or missing", lines), deco, true}
		}
		for j := 0; j < 3; j++ {
			coords[3*i+j], err = strconv.ParseFloat(strings.TrimSpace(line[10*j:10*j+10]), 64)
			if err != nil {
				return nil, nil, Error{fmt.Sprintf("Line %d in SDF: bad coordinate", lines), deco, true}
			}
		}
		at := &Atom{Symbol: strings.TrimSpace(line[31:34]), Name: fmt.Sprintf("%s%d", strings.TrimSpace(line[31:34]), i+1)}
		if len(line) >= 39 {
			code, err := strconv.Atoi(strings.TrimSpace(line[36:39]))
			if err == nil {
				at.FormalCharge = sdfChargeCode[code]
			}
		}
		atoms[i] = at
	}
	bonds := make([]*Bond, 0, nbonds)
	for i := 0; i < nbonds; i++ {
		line, ok := next()
		if !ok || len(line) < 9 {
			return nil, nil, Error{fmt.Sprintf("Line %d in SDF ill formed or missing", lines), deco, true}
		}
		var b [3]int
		for j := range b {
			b[j], err = strconv.Atoi(strings.TrimSpace(line[3*j : 3*j+3]))
			if err != nil {
				return nil, nil, Error{fmt.Sprintf("Line %d in SDF: bad bond field", lines), deco, true}
			}
		}
		bonds = append(bonds, &Bond{At1: b[0] - 1, At2: b[1] - 1, Order: b[2]})
	}
	//property block
	for {
		line, ok := next()
		if !ok || strings.HasPrefix(line, "M  END") || strings.HasPrefix(line, "$$$$") {
			break
		}
		if !strings.HasPrefix(line, "M  CHG") {
			continue
		}
		fields := strings.Fields(line[6:])
		if len(fields) < 1 {
			continue
		}
		for k := 1; k+1 < len(fields); k += 2 {
			idx, err1 := strconv.Atoi(fields[k])
			chg, err2 := strconv.Atoi(fields[k+1])
			if err1 != nil || err2 != nil || idx < 1 || idx > natoms {
				return nil, nil, Error{fmt.Sprintf("Line %d in SDF: bad charge property", lines), deco, true}
			}
			atoms[idx-1].FormalCharge = chg
		}
	}
	if err := sdf.Err(); err != nil {
		return nil, nil, Error{fmt.Sprintf("Reading SDF: %s", err.Error()), deco, true}
	}
	top, err := NewTopology(strings.TrimSpace(name), atoms, bonds)
	if err != nil {
		return nil, nil, errDecorate(err, "SDFRead")
	}
	geo, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, nil, Error{err.Error(), deco, true}
	}
	return top, geo, nil
}
