/*
 * json.go, part of ffinspector.
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

package chemjson

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/rmera/ffinspector/chem"
	v3 "github.com/rmera/ffinspector/v3"
)

//SchemaVersion is the version of the molecule format written by this package.
const SchemaVersion = "0.0.1-alpha.1"

var semver = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

//Elements are the element symbols a molecule can contain.
var Elements = []string{"C", "O", "H", "N", "S", "F", "Br", "Cl", "I", "P"}

//Allowed returns whether symbol is one of Elements.
func Allowed(symbol string) bool {
	for _, v := range Elements {
		if v == symbol {
			return true
		}
	}
	return false
}

//Molecule is the JSON form of a molecule. Geometry holds the coordinates (A) of the
//first conformer, flattened, and Conformers any further ones. Connectivity holds one
//(atom a, atom b, bond order) triplet per bond. FormalCharges can be omitted, in which
//case all atoms are neutral.
type Molecule struct {
	SchemaVersion string      `json:"schema_version"`
	Name          string      `json:"name,omitempty"`
	Symbols       []string    `json:"symbols"`
	FormalCharges []int       `json:"formal_charges,omitempty"`
	Connectivity  [][3]int    `json:"connectivity"`
	Geometry      []float64   `json:"geometry"`
	Conformers    [][]float64 `json:"conformers,omitempty"`
}

//Validate checks the molecule. It returns a *Error (with InValidation set) or nil.
func (M *Molecule) Validate() error {
	const funcname = "Molecule.Validate"
	fail := func(format string, a ...interface{}) error {
		return NewError("validation", funcname, fmt.Errorf(format, a...))
	}
	if M.SchemaVersion != "" && !semver.MatchString(M.SchemaVersion) {
		return fail("schema_version %q is not a semantic version", M.SchemaVersion)
	}
	n := len(M.Symbols)
	if n == 0 {
		return fail("no atoms")
	}
	for i, s := range M.Symbols {
		if !Allowed(s) {
			return fail("element %q of atom %d not supported", s, i)
		}
	}
	if M.FormalCharges != nil && len(M.FormalCharges) != n {
		return fail("%d formal charges for %d atoms", len(M.FormalCharges), n)
	}
	for _, b := range M.Connectivity {
		if b[0] < 0 || b[0] >= n || b[1] < 0 || b[1] >= n {
			return fail("atom index out of range in bond %v", b)
		}
		if b[2] < 1 || b[2] > 4 {
			return fail("invalid bond order in bond %v", b)
		}
	}
	for i, g := range append([][]float64{M.Geometry}, M.Conformers...) {
		if len(g)%3 != 0 {
			return fail("geometry %d: length not divisible by three", i)
		}
		if len(g)/3 != n {
			return fail("geometry %d: incorrect length, %d coordinates for %d atoms", i, len(g), n)
		}
	}
	return nil
}

//Topology returns the topology of the molecule.
func (M *Molecule) Topology() (*chem.Topology, error) {
	if err := M.Validate(); err != nil {
		return nil, err
	}
	atoms := make([]*chem.Atom, len(M.Symbols))
	for i, s := range M.Symbols {
		atoms[i] = &chem.Atom{Symbol: s}
		if M.FormalCharges != nil {
			atoms[i].FormalCharge = M.FormalCharges[i]
		}
	}
	bonds := make([]*chem.Bond, len(M.Connectivity))
	for i, b := range M.Connectivity {
		bonds[i] = &chem.Bond{At1: b[0], At2: b[1], Order: b[2]}
	}
	top, err := chem.NewTopology(M.Name, atoms, bonds)
	if err != nil {
		return nil, NewError("validation", "Molecule.Topology", err)
	}
	return top, nil
}

//Coordinates returns every conformer of the molecule, starting with Geometry.
func (M *Molecule) Coordinates() ([]*v3.Matrix, error) {
	if err := M.Validate(); err != nil {
		return nil, err
	}
	ret := make([]*v3.Matrix, 0, 1+len(M.Conformers))
	for _, g := range append([][]float64{M.Geometry}, M.Conformers...) {
		c, err := v3.FromFlat(g, 1)
		if err != nil {
			return nil, NewError("validation", "Molecule.Coordinates", err)
		}
		ret = append(ret, c)
	}
	return ret, nil
}

//FromTopology returns the JSON form of top with the given conformers. At least one
//conformer is needed.
func FromTopology(top *chem.Topology, coords ...*v3.Matrix) (*Molecule, error) {
	const funcname = "FromTopology"
	if top == nil || len(coords) == 0 {
		return nil, NewError("postprocess", funcname, fmt.Errorf("a topology and at least one conformer are needed"))
	}
	M := &Molecule{SchemaVersion: SchemaVersion, Name: top.Name}
	charged := false
	for _, a := range top.Atoms {
		M.Symbols = append(M.Symbols, a.Symbol)
		M.FormalCharges = append(M.FormalCharges, a.FormalCharge)
		charged = charged || a.FormalCharge != 0
	}
	if !charged {
		M.FormalCharges = nil
	}
	M.Connectivity = make([][3]int, 0, len(top.Bonds))
	for _, b := range top.Bonds {
		M.Connectivity = append(M.Connectivity, [3]int{b.At1, b.At2, b.Order})
	}
	for i, c := range coords {
		if c.NVecs() != top.Len() {
			return nil, NewError("postprocess", funcname, fmt.Errorf("conformer %d has %d atoms, the topology %d", i, c.NVecs(), top.Len()))
		}
		if i == 0 {
			M.Geometry = c.Flat(1)
			continue
		}
		M.Conformers = append(M.Conformers, c.Flat(1))
	}
	return M, nil
}

//FromSDF reads the first molecule of an SDF (V2000) stream.
func FromSDF(r io.Reader) (*Molecule, error) {
	top, coords, err := chem.SDFRead(r)
	if err != nil {
		return nil, NewError("decoding", "FromSDF", err)
	}
	return FromTopology(top, coords)
}

//Decode reads a molecule from a JSON stream and validates it.
func Decode(r io.Reader) (*Molecule, error) {
	M := new(Molecule)
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(M); err != nil {
		return nil, NewError("decoding", "Decode", err)
	}
	if err := M.Validate(); err != nil {
		return nil, err
	}
	return M, nil
}

//Encode writes the molecule as JSON to out.
func (M *Molecule) Encode(out io.Writer) error {
	if err := json.NewEncoder(out).Encode(M); err != nil {
		return NewError("postprocess", "Molecule.Encode", err)
	}
	return nil
}

//Error is an easily JSON-serializable error type.
type Error struct {
	deco          []string
	IsError       bool `json:"is_error"` //If this is false (no error) all the other fields will be at their zero-values.
	InDecoding    bool `json:"in_decoding"`
	InValidation  bool `json:"in_validation"`
	InProcess     bool `json:"in_process"`
	InPostProcess bool `json:"in_postprocess"` //was it in preparing the output?
	//Function is the go function that gave the error.
	Function string `json:"function"`
	Message  string `json:"message"`
	wrapped  error
}

//Error implements the error interface
func (J *Error) Error() string {
	return J.Message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (J *Error) Decorate(dec string) []string {
	if dec == "" {
		return J.deco
	}
	J.deco = append(J.deco, dec)
	return J.deco
}

//Unwrap returns the error this one was built from.
func (J *Error) Unwrap() error { return J.wrapped }

//Marshal serializes the error. Panics on failure.
func (J *Error) Marshal() []byte {
	ret, err2 := json.Marshal(J)
	if err2 != nil {
		panic(strings.Join([]string{J.Error(), err2.Error()}, " - "))
	}
	return ret
}

//NewError takes an error and some additional info to create a json-marshal-ble error.
//where is one of "decoding", "validation", "postprocess"; anything else counts as
//processing.
func NewError(where, function string, err error) *Error {
	jerr := &Error{IsError: true, Function: function, Message: err.Error(), wrapped: err}
	switch where {
	case "decoding":
		jerr.InDecoding = true
	case "validation":
		jerr.InValidation = true
	case "postprocess":
		jerr.InPostProcess = true
	default:
		jerr.InProcess = true
	}
	return jerr
}
