/*
 * source.go, part of ffinspector.
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

import "strings"

//Source tells where to get a force field from: either an inline document or the name
//of a force field in a registry. Exactly one of the two must be given.
type Source struct {
	Document string `json:"document,omitempty" yaml:"document,omitempty" mapstructure:"document"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
}

//Validate returns an error unless exactly one of Document and Name is set.
func (S Source) Validate() error {
	doc := strings.TrimSpace(S.Document) != ""
	name := strings.TrimSpace(S.Name) != ""
	if doc == name {
		return Error{"a force field source needs exactly one of a document or a name", []string{"Source.Validate"}, true}
	}
	return nil
}

//Resolve returns the force field the source refers to. R is only used for named sources.
func (S Source) Resolve(R *Registry) (*ForceField, error) {
	if err := S.Validate(); err != nil {
		return nil, errDecorate(err, "Source.Resolve")
	}
	if S.Document != "" {
		F, err := Parse([]byte(S.Document))
		if err != nil {
			return nil, errDecorate(err, "Source.Resolve")
		}
		return F, nil
	}
	if R == nil {
		return nil, Error{"named force field source without a registry", []string{"Source.Resolve"}, true}
	}
	F, err := R.Get(strings.TrimSpace(S.Name))
	if err != nil {
		return nil, errDecorate(err, "Source.Resolve")
	}
	return F, nil
}
