/*
 * parse.go, part of ffinspector.
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

package smirks

import (
	"fmt"
	"strings"

	"github.com/rmera/ffinspector/chem"
)

//Pattern is a parsed SMIRKS pattern. It is immutable and safe for concurrent use.
type Pattern struct {
	source string
	atoms  []predicate[atomRef]
	parent []int                   //parent[k] is the pattern atom k is bonded to, -1 for the first atom.
	bonds  []predicate[*chem.Bond] //bonds[k] joins k and parent[k].
	tagged []int                   //pattern atoms with map index 1..n, in map index order.
}

//String returns the pattern as it was written.
func (P *Pattern) String() string { return P.source }

//NumTagged returns the number of atoms with a map index in the pattern, i.e. the
//length of the tuples returned by Match.
func (P *Pattern) NumTagged() int { return len(P.tagged) }

//MustParse is like Parse but panics on error. For patterns known at compile time.
func MustParse(s string) *Pattern {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

//Parse parses a SMIRKS pattern. Map indexes must be unique and go from 1 to
//the number of tagged atoms.
func Parse(s string) (*Pattern, error) {
	p := &parser{s: s}
	P := &Pattern{source: s}
	p.pat = P
	p.maps = make(map[int]int)
	if strings.TrimSpace(s) == "" {
		return nil, p.fail("empty pattern")
	}
	if err := p.chain(-1); err != nil {
		return nil, err
	}
	if p.pos != len(s) {
		return nil, p.fail("unbalanced parenthesis")
	}
	P.tagged = make([]int, len(p.maps))
	for m, at := range p.maps {
		if m < 1 || m > len(p.maps) {
			return nil, Error{fmt.Sprintf("map indexes must go from 1 to %d, found %d", len(p.maps), m), s, 0, []string{"Parse"}, true}
		}
		P.tagged[m-1] = at
	}
	return P, nil
}

type parser struct {
	s    string
	pos  int
	pat  *Pattern
	maps map[int]int //map index -> pattern atom
}

func (p *parser) fail(msg string) error {
	return Error{msg, p.s, p.pos, []string{"Parse"}, true}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *parser) number() (int, bool) {
	start := p.pos
	n := 0
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		n = n*10 + int(p.s[p.pos]-'0')
		p.pos++
	}
	return n, p.pos > start
}

func isBondChar(c byte) bool {
	return strings.IndexByte("-=#:~@!&,;", c) >= 0
}

//chain parses a sequence of bonded atoms and branches, starting from the pattern atom prev
//(or from nothing if prev is -1). It returns at a closing parenthesis or at the end of the string.
func (p *parser) chain(prev int) error {
	for p.pos < len(p.s) {
		c := p.peek()
		switch {
		case c == '(':
			if prev < 0 {
				return p.fail("branch without a preceding atom")
			}
			p.pos++
			if err := p.chain(prev); err != nil {
				return err
			}
			if p.peek() != ')' {
				return p.fail("unclosed branch")
			}
			p.pos++
		case c == ')':
			if prev < 0 {
				return p.fail("empty branch")
			}
			return nil
		case c >= '0' && c <= '9', c == '%':
			return p.fail("ring closures are not supported")
		case c == '.':
			return p.fail("disconnected patterns are not supported")
		case c == '$':
			return p.fail("recursive SMARTS are not supported")
		default:
			var bond predicate[*chem.Bond]
			if isBondChar(c) {
				if prev < 0 {
					return p.fail("bond without a preceding atom")
				}
				var err error
				if bond, err = p.bond(); err != nil {
					return err
				}
			} else if prev >= 0 {
				bond = implicitBond
			}
			idx, err := p.atom()
			if err != nil {
				return err
			}
			p.pat.parent = append(p.pat.parent, prev)
			p.pat.bonds = append(p.pat.bonds, bond)
			prev = idx
		}
	}
	return nil
}

//organic subset and the other elements allowed inside brackets. Two letter symbols first.
var elements = []string{"Cl", "Br", "Na", "Mg", "Si", "Se", "Ca", "Zn", "Li", "B", "C", "N", "O", "P", "S", "F", "I", "K"}

var organic = map[string]bool{"B": true, "C": true, "N": true, "O": true, "P": true, "S": true, "F": true, "Cl": true, "Br": true, "I": true}

func (p *parser) element(organicOnly bool) (string, bool) {
	for _, e := range elements {
		if strings.HasPrefix(p.s[p.pos:], e) && (!organicOnly || organic[e]) {
			p.pos += len(e)
			return e, true
		}
	}
	return "", false
}

//atom parses an atom and adds it to the pattern, returning its index.
func (p *parser) atom() (int, error) {
	idx := len(p.pat.atoms)
	c := p.peek()
	switch {
	case c == '*':
		p.pos++
		p.pat.atoms = append(p.pat.atoms, atomPrimitive{kind: anyAtom})
		return idx, nil
	case c == '[':
		p.pos++
		e, err := parseExpr[atomRef](p, p.atomPrimitive, func(c byte) bool { return c == ':' || c == ']' })
		if err != nil {
			return 0, err
		}
		if p.peek() == ':' {
			p.pos++
			m, ok := p.number()
			if !ok {
				return 0, p.fail("map index expected")
			}
			if _, dup := p.maps[m]; dup {
				return 0, p.fail(fmt.Sprintf("map index %d used twice", m))
			}
			p.maps[m] = idx
		}
		if p.peek() != ']' {
			return 0, p.fail("unclosed bracket atom")
		}
		p.pos++
		p.pat.atoms = append(p.pat.atoms, e)
		return idx, nil
	}
	if e, ok := p.element(true); ok {
		p.pat.atoms = append(p.pat.atoms, atomPrimitive{kind: atomicNumber, value: chem.Number(e)})
		return idx, nil
	}
	if c >= 'a' && c <= 'z' {
		return 0, p.fail("aromatic atoms are not supported")
	}
	return 0, p.fail("atom expected")
}

//atomPrimitive parses one primitive inside a bracket atom.
func (p *parser) atomPrimitive() (predicate[atomRef], error) {
	c := p.peek()
	countDefault := func(kind atomKind) predicate[atomRef] {
		p.pos++
		n, ok := p.number()
		if !ok {
			n = 1
		}
		return atomPrimitive{kind: kind, value: n}
	}
	switch c {
	case '*':
		p.pos++
		return atomPrimitive{kind: anyAtom}, nil
	case '#':
		p.pos++
		n, ok := p.number()
		if !ok {
			return nil, p.fail("atomic number expected")
		}
		return atomPrimitive{kind: atomicNumber, value: n}, nil
	case 'X':
		return countDefault(connectivity), nil
	case 'D':
		return countDefault(degree), nil
	case 'H':
		return countDefault(hydrogens), nil
	case '+', '-':
		p.pos++
		sign := 1
		if c == '-' {
			sign = -1
		}
		n, ok := p.number()
		if !ok {
			n = 1
			for p.peek() == c {
				p.pos++
				n++
			}
		}
		return atomPrimitive{kind: charge, value: sign * n}, nil
	case 'R', 'r', 'x', 'v', 'a', 'A', '@':
		return nil, p.fail(fmt.Sprintf("primitive %q is not supported", c))
	case '$':
		return nil, p.fail("recursive SMARTS are not supported")
	}
	if e, ok := p.element(false); ok {
		return atomPrimitive{kind: atomicNumber, value: chem.Number(e)}, nil
	}
	if c >= 'a' && c <= 'z' {
		return nil, p.fail("aromatic atoms are not supported")
	}
	return nil, p.fail("atom primitive expected")
}

//bond parses a bond expression.
func (p *parser) bond() (predicate[*chem.Bond], error) {
	return parseExpr[*chem.Bond](p, p.bondPrimitive, func(c byte) bool { return !isBondChar(c) })
}

func (p *parser) bondPrimitive() (predicate[*chem.Bond], error) {
	c := p.peek()
	p.pos++
	switch c {
	case '-':
		return bondOrder(1), nil
	case '=':
		return bondOrder(2), nil
	case '#':
		return bondOrder(3), nil
	case ':':
		return bondOrder(4), nil
	case '~':
		return bondOrder(0), nil
	case '@':
		p.pos--
		return nil, p.fail("ring bonds are not supported")
	}
	p.pos--
	return nil, p.fail("bond primitive expected")
}

//parseExpr parses a SMARTS logical expression. From lowest to highest precedence the
//operators are ';', ',', '&' (or nothing) and '!'. The expression ends before the first
//character for which stop returns true.
func parseExpr[T any](p *parser, prim func() (predicate[T], error), stop func(byte) bool) (predicate[T], error) {
	ended := func() bool { return p.pos >= len(p.s) || stop(p.peek()) }
	unary := func() (predicate[T], error) {
		nots := 0
		for p.peek() == '!' {
			nots++
			p.pos++
		}
		if ended() {
			return nil, p.fail("unexpected end of expression")
		}
		e, err := prim()
		if err != nil {
			return nil, err
		}
		if nots%2 == 1 {
			e = notExpr[T]{e}
		}
		return e, nil
	}
	highAnd := func() (predicate[T], error) {
		var terms andExpr[T]
		for {
			e, err := unary()
			if err != nil {
				return nil, err
			}
			terms = append(terms, e)
			if p.peek() == '&' {
				p.pos++
				continue
			}
			if ended() || p.peek() == ',' || p.peek() == ';' {
				break
			}
		}
		if len(terms) == 1 {
			return terms[0], nil
		}
		return terms, nil
	}
	or := func() (predicate[T], error) {
		var terms orExpr[T]
		for {
			e, err := highAnd()
			if err != nil {
				return nil, err
			}
			terms = append(terms, e)
			if p.peek() != ',' {
				break
			}
			p.pos++
		}
		if len(terms) == 1 {
			return terms[0], nil
		}
		return terms, nil
	}
	var terms andExpr[T]
	for {
		e, err := or()
		if err != nil {
			return nil, err
		}
		terms = append(terms, e)
		if p.peek() != ';' {
			break
		}
		p.pos++
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return terms, nil
}
