/*
 * load.go, part of ffinspector.
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

package forcefield

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//document is the on-disk form of a force field.
type document struct {
	Name                 string   `yaml:"name,omitempty"`
	Version              string   `yaml:"version,omitempty"`
	Constraints          *section `yaml:"Constraints,omitempty"`
	Bonds                *section `yaml:"Bonds,omitempty"`
	Angles               *section `yaml:"Angles,omitempty"`
	ProperTorsions       *section `yaml:"ProperTorsions,omitempty"`
	ImproperTorsions     *section `yaml:"ImproperTorsions,omitempty"`
	VdW                  *section `yaml:"vdW,omitempty"`
	Electrostatics       *section `yaml:"Electrostatics,omitempty"`
	LibraryCharges       *section `yaml:"LibraryCharges,omitempty"`
	ChargeIncrementModel *section `yaml:"ChargeIncrementModel,omitempty"`
}

func (D *document) sections() map[string]**section {
	return map[string]**section{
		Constraints:          &D.Constraints,
		Bonds:                &D.Bonds,
		Angles:               &D.Angles,
		ProperTorsions:       &D.ProperTorsions,
		ImproperTorsions:     &D.ImproperTorsions,
		VdW:                  &D.VdW,
		Electrostatics:       &D.Electrostatics,
		LibraryCharges:       &D.LibraryCharges,
		ChargeIncrementModel: &D.ChargeIncrementModel,
	}
}

type section struct {
	Scale14      *float64   `yaml:"scale14,omitempty"`
	DefaultIDivf string     `yaml:"default_idivf,omitempty"` //"auto" or a number
	Parameters   []paramDoc `yaml:"parameters,omitempty"`
}

//paramDoc holds the fields of every parameter kind. Torsion fields and charges are
//lists; a scalar is accepted for single-term torsions.
type paramDoc struct {
	SMIRKS          string    `yaml:"smirks"`
	ID              string    `yaml:"id"`
	Length          *float64  `yaml:"length,omitempty"`
	Angle           *float64  `yaml:"angle,omitempty"`
	K               floatList `yaml:"k,omitempty"`
	Periodicity     floatList `yaml:"periodicity,omitempty"`
	Phase           floatList `yaml:"phase,omitempty"`
	IDivf           floatList `yaml:"idivf,omitempty"`
	Epsilon         *float64  `yaml:"epsilon,omitempty"`
	Sigma           *float64  `yaml:"sigma,omitempty"`
	RMinHalf        *float64  `yaml:"rmin_half,omitempty"`
	Charge          floatList `yaml:"charge,omitempty"`
	ChargeIncrement floatList `yaml:"charge_increment,omitempty"`
	Distance        *float64  `yaml:"distance,omitempty"`
}

//floatList decodes either a number or a list of numbers.
type floatList []float64

func (f *floatList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var v float64
		if err := value.Decode(&v); err != nil {
			return err
		}
		*f = floatList{v}
		return nil
	}
	var v []float64
	if err := value.Decode(&v); err != nil {
		return err
	}
	*f = v
	return nil
}

//sigma = 2 rmin_half / 2^(1/6)
const rminHalfToSigma = 2 / 1.122462048309373

//Parse reads a force field from a YAML or JSON document.
func Parse(data []byte) (*ForceField, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, Error{"empty force field document", []string{"Parse"}, true}
		}
		return nil, Error{fmt.Sprintf("invalid force field document: %s", err.Error()), []string{"Parse"}, true}
	}
	F := New(doc.Name)
	F.Version = doc.Version
	secs := doc.sections()
	for _, name := range HandlerOrder {
		sec := *secs[name]
		if sec == nil {
			continue
		}
		H, err := sec.handler(name)
		if err != nil {
			return nil, errDecorate(err, "Parse")
		}
		F.SetHandler(H)
	}
	return F, nil
}

func (S *section) handler(name string) (*Handler, error) {
	params := make([]*Parameter, 0, len(S.Parameters))
	for _, pd := range S.Parameters {
		p, err := pd.parameter(name)
		if err != nil {
			return nil, errDecorate(err, "section.handler")
		}
		params = append(params, p)
	}
	H, err := NewHandler(name, params)
	if err != nil {
		return nil, errDecorate(err, "section.handler")
	}
	if S.Scale14 != nil {
		H.Scale14 = *S.Scale14
	}
	if S.DefaultIDivf != "" && S.DefaultIDivf != "auto" {
		v, err := strconv.ParseFloat(S.DefaultIDivf, 64)
		if err != nil || v == 0 {
			return nil, Error{fmt.Sprintf("%s: invalid default_idivf %q", name, S.DefaultIDivf), []string{"section.handler"}, true}
		}
		H.DefaultIDivf = v
	}
	return H, nil
}

func (D paramDoc) parameter(handler string) (*Parameter, error) {
	P := &Parameter{Kind: handlerKind[handler], SMIRKS: D.SMIRKS, ID: D.ID}
	missing := func(field string) error {
		return Error{fmt.Sprintf("%s parameter %q: missing %s", handler, D.ID, field), []string{"paramDoc.parameter"}, true}
	}
	switch handler {
	case Bonds:
		if D.Length == nil || len(D.K) != 1 {
			return nil, missing("length or k")
		}
		P.Bond = &Bond{Length: *D.Length, K: D.K[0]}
	case Angles:
		if D.Angle == nil || len(D.K) != 1 {
			return nil, missing("angle or k")
		}
		P.Angle = &Angle{Angle: *D.Angle, K: D.K[0]}
	case ProperTorsions, ImproperTorsions:
		if len(D.Periodicity) == 0 || len(D.K) == 0 || len(D.Phase) == 0 {
			return nil, missing("periodicity, phase or k")
		}
		per := make([]int, len(D.Periodicity))
		for i, v := range D.Periodicity {
			per[i] = int(v)
			if float64(per[i]) != v || per[i] < 0 {
				return nil, Error{fmt.Sprintf("%s parameter %q: periodicity must be a non-negative integer", handler, D.ID), []string{"paramDoc.parameter"}, true}
			}
		}
		P.Torsion = &Torsion{Periodicity: per, Phase: D.Phase, K: D.K}
		if len(D.IDivf) > 0 {
			P.Torsion.IDivf = D.IDivf
		}
	case VdW:
		if D.Epsilon == nil || (D.Sigma == nil) == (D.RMinHalf == nil) {
			return nil, missing("epsilon, or exactly one of sigma and rmin_half")
		}
		sigma := 0.0
		if D.Sigma != nil {
			sigma = *D.Sigma
		} else {
			sigma = *D.RMinHalf * rminHalfToSigma
		}
		P.VdW = &VdWParams{Epsilon: *D.Epsilon, Sigma: sigma}
	case LibraryCharges:
		if len(D.Charge) == 0 {
			return nil, missing("charge")
		}
		P.Charge = &Charge{Charges: D.Charge}
	case ChargeIncrementModel:
		if len(D.ChargeIncrement) == 0 {
			return nil, missing("charge_increment")
		}
		P.Charge = &Charge{Charges: D.ChargeIncrement}
	case Constraints:
		P.Constraint = &Constraint{Distance: D.Distance}
	default:
		return nil, Error{fmt.Sprintf("handler %s takes no parameters", handler), []string{"paramDoc.parameter"}, true}
	}
	return P, nil
}

//Load reads a force field from a YAML or JSON stream.
func Load(r io.Reader) (*ForceField, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Error{fmt.Sprintf("reading force field: %s", err.Error()), []string{"Load"}, true}
	}
	F, err := Parse(data)
	return F, errDecorate(err, "Load")
}

//LoadFile reads a force field from a YAML or JSON file.
func LoadFile(path string) (*ForceField, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Error{fmt.Sprintf("reading force field: %s", err.Error()), []string{"LoadFile"}, true}
	}
	F, err := Parse(data)
	if err != nil {
		return nil, errDecorate(err, "LoadFile")
	}
	return F, nil
}

//Encode writes F as a YAML document that Parse can read back.
func (F *ForceField) Encode(w io.Writer) error {
	doc := &document{Name: F.Name, Version: F.Version}
	secs := doc.sections()
	for _, name := range F.HandlerNames() {
		H := F.handlers[name]
		sec := &section{}
		if name == VdW || name == Electrostatics {
			s := H.Scale14
			sec.Scale14 = &s
		}
		if H.DefaultIDivf != 0 {
			sec.DefaultIDivf = strconv.FormatFloat(H.DefaultIDivf, 'g', -1, 64)
		}
		for _, p := range H.Parameters {
			sec.Parameters = append(sec.Parameters, toDoc(p))
		}
		*secs[name] = sec
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return Error{fmt.Sprintf("encoding force field: %s", err.Error()), []string{"Encode"}, true}
	}
	return enc.Close()
}

func toDoc(p *Parameter) paramDoc {
	d := paramDoc{SMIRKS: p.SMIRKS, ID: p.ID}
	f := func(v float64) *float64 { return &v }
	switch {
	case p.Bond != nil:
		d.Length, d.K = f(p.Bond.Length), floatList{p.Bond.K}
	case p.Angle != nil:
		d.Angle, d.K = f(p.Angle.Angle), floatList{p.Angle.K}
	case p.Torsion != nil:
		for _, v := range p.Torsion.Periodicity {
			d.Periodicity = append(d.Periodicity, float64(v))
		}
		d.Phase, d.K, d.IDivf = p.Torsion.Phase, p.Torsion.K, p.Torsion.IDivf
	case p.VdW != nil:
		d.Epsilon, d.Sigma = f(p.VdW.Epsilon), f(p.VdW.Sigma)
	case p.Kind == ChargeIncrementType:
		d.ChargeIncrement = p.Charge.Charges
	case p.Charge != nil:
		d.Charge = p.Charge.Charges
	case p.Constraint != nil:
		d.Distance = p.Constraint.Distance
	}
	return d
}
