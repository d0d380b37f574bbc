/*
 * forcefield_test.go, part of ffinspector.
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
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rmera/ffinspector/chem"
	"github.com/rmera/ffinspector/potential"
)

const tinyFF = `name: tiny-0.1
Bonds:
  parameters:
    - {smirks: "[#1:1]-[#1:2]", id: hh, length: 0.74, k: 500}
`

func molecule(Te *testing.T, name string, syms []string, bonds []*chem.Bond) *chem.Topology {
	atoms := make([]*chem.Atom, len(syms))
	for i, v := range syms {
		atoms[i] = &chem.Atom{Symbol: v}
	}
	top, err := chem.NewTopology(name, atoms, bonds)
	require.NoError(Te, err)
	return top
}

func methane(Te *testing.T) *chem.Topology {
	return molecule(Te, "methane", []string{"C", "H", "H", "H", "H"}, []*chem.Bond{{At1: 0, At2: 1, Order: 1}, {At1: 0, At2: 2, Order: 1}, {At1: 0, At2: 3, Order: 1}, {At1: 0, At2: 4, Order: 1}})
}

func water(Te *testing.T) *chem.Topology {
	return molecule(Te, "water", []string{"O", "H", "H"}, []*chem.Bond{{At1: 0, At2: 1, Order: 1}, {At1: 0, At2: 2, Order: 1}})
}

func propenal(Te *testing.T) *chem.Topology {
	return molecule(Te, "propenal", []string{"C", "C", "O", "C", "O", "H", "H", "H", "H"},
		[]*chem.Bond{{At1: 0, At2: 1, Order: 2}, {At1: 1, At2: 2, Order: 1}, {At1: 0, At2: 3, Order: 1}, {At1: 3, At2: 4, Order: 2}, {At1: 0, At2: 5, Order: 1}, {At1: 1, At2: 6, Order: 1}, {At1: 2, At2: 7, Order: 1}, {At1: 3, At2: 8, Order: 1}})
}

func reference(Te *testing.T) *ForceField {
	R, err := NewRegistry(zap.NewNop())
	require.NoError(Te, err)
	F, err := R.Get("reference-1.0.0")
	require.NoError(Te, err)
	return F
}

func ids(as []Assignment) []string {
	r := make([]string, len(as))
	for i, a := range as {
		r[i] = a.Parameter.ID
	}
	return r
}

func TestParse(Te *testing.T) {
	F, err := Parse([]byte(tinyFF))
	require.NoError(Te, err)
	assert.Equal(Te, "tiny-0.1", F.Name)
	assert.Equal(Te, []string{Bonds}, F.HandlerNames())
	assert.Equal(Te, 1, F.NumParameters(Bonds))
	assert.Equal(Te, 0, F.NumParameters(Angles))
	assert.InDelta(Te, 0.74, F.Handler(Bonds).Parameter("hh").Bond.Length, 1e-12)

	bad := map[string]string{
		"empty":          "",
		"unknown field":  "Bonds:\n  parameters:\n    - {smirks: \"[#1:1]-[#1:2]\", id: hh, length: 1, k: 1, foo: 2}\n",
		"unknown header": "Nope:\n  parameters: []\n",
		"missing k":      "Bonds:\n  parameters:\n    - {smirks: \"[#1:1]-[#1:2]\", id: hh, length: 1}\n",
		"bad smirks":     "Bonds:\n  parameters:\n    - {smirks: \"[#1:1]-[#1:2\", id: hh, length: 1, k: 1}\n",
		"wrong tags":     "Angles:\n  parameters:\n    - {smirks: \"[#1:1]-[#8:2]\", id: a, angle: 100, k: 1}\n",
		"repeated id":    "Bonds:\n  parameters:\n    - {smirks: \"[#1:1]-[#1:2]\", id: hh, length: 1, k: 1}\n    - {smirks: \"[#1:1]-[#6:2]\", id: hh, length: 1, k: 1}\n",
		"both radii":     "vdW:\n  parameters:\n    - {smirks: \"[#1:1]\", id: n, epsilon: 1, sigma: 1, rmin_half: 1}\n",
		"charge count":   "LibraryCharges:\n  parameters:\n    - {smirks: \"[#1:1]-[#8:2]\", id: q, charge: [0.1]}\n",
		"torsion length": "ProperTorsions:\n  parameters:\n    - {smirks: \"[*:1]-[#6:2]-[#6:3]-[*:4]\", id: t, periodicity: [1, 2], phase: [0], k: [1]}\n",
		"bad idivf":      "ProperTorsions:\n  default_idivf: many\n  parameters: []\n",
		"elec params":    "Electrostatics:\n  parameters:\n    - {smirks: \"[#1:1]\", id: e}\n",
	}
	for name, doc := range bad {
		_, err := Parse([]byte(doc))
		assert.Error(Te, err, name)
	}
}

func TestScalarTorsionFields(Te *testing.T) {
	doc := "ProperTorsions:\n  default_idivf: 2\n  parameters:\n    - {smirks: \"[*:1]-[#6:2]-[#6:3]-[*:4]\", id: t, periodicity: 3, phase: 0, k: 0.5}\n"
	F, err := Parse([]byte(doc))
	require.NoError(Te, err)
	H := F.Handler(ProperTorsions)
	assert.InDelta(Te, 2.0, H.DefaultIDivf, 1e-12)
	t := H.Parameter("t").Torsion
	assert.Equal(Te, []int{3}, t.Periodicity)
	assert.Nil(Te, t.IDivf)
}

func TestRMinHalf(Te *testing.T) {
	F := reference(Te)
	n16 := F.Handler(VdW).Parameter("n16").VdW
	assert.InDelta(Te, 3.3996695, n16.Sigma, 1e-6)
	assert.InDelta(Te, 0.5, F.Handler(VdW).Scale14, 1e-12)
	n1 := F.Handler(VdW).Parameter("n1").VdW
	assert.IsType(Te, &VdWParams{}, n1)
	assert.InDelta(Te, 0.0157, n1.Epsilon, 1e-12)
	assert.InDelta(Te, 1.0690785, n1.Sigma, 1e-6)
}

func TestEncodeRoundTrip(Te *testing.T) {
	F := reference(Te)
	var buf bytes.Buffer
	require.NoError(Te, F.Encode(&buf))
	G, err := Load(&buf)
	require.NoError(Te, err)
	assert.Equal(Te, F.Name, G.Name)
	assert.Equal(Te, F.HandlerNames(), G.HandlerNames())
	for _, h := range F.HandlerNames() {
		assert.Equal(Te, F.Handler(h).Parameters, G.Handler(h).Parameters, h)
		assert.InDelta(Te, F.Handler(h).Scale14, G.Handler(h).Scale14, 1e-12, h)
	}
}

func TestParameterJSON(Te *testing.T) {
	F := reference(Te)
	b, err := json.Marshal(F.Handler(Bonds).Parameter("b83"))
	require.NoError(Te, err)
	var m map[string]interface{}
	require.NoError(Te, json.Unmarshal(b, &m))
	assert.Equal(Te, "BondType", m["type"])
	assert.Equal(Te, "b83", m["id"])
	assert.InDelta(Te, 1.093899492634, m["length"], 1e-12)
}

func TestMatchMethane(Te *testing.T) {
	F := reference(Te)
	top := methane(Te)
	cases := []struct {
		handler string
		n       int
		ids     []string
	}{
		{Constraints, 4, []string{"c1", "c1", "c1", "c1"}},
		{Bonds, 4, []string{"b83", "b83", "b83", "b83"}},
		{Angles, 6, []string{"a2", "a2", "a2", "a2", "a2", "a2"}},
		{ProperTorsions, 0, []string{}},
		{ImproperTorsions, 0, []string{}},
		{VdW, 5, []string{"n16", "n2", "n2", "n2", "n2"}},
	}
	for _, c := range cases {
		as, err := F.Match(top, c.handler)
		require.NoError(Te, err)
		assert.Len(Te, as, c.n, c.handler)
		assert.Equal(Te, c.ids, ids(as), c.handler)
	}
	as, _ := F.Match(top, Angles)
	assert.Equal(Te, []int{1, 0, 2}, as[0].Atoms)
	_, err := F.Match(top, "Nope")
	assert.Error(Te, err)
	as, err = F.WithoutHandler(Angles).Match(top, Angles)
	assert.NoError(Te, err)
	assert.Nil(Te, as)
}

func TestMatchCanonical(Te *testing.T) {
	F := reference(Te)
	top := propenal(Te)
	as, err := F.Match(top, ImproperTorsions)
	require.NoError(Te, err)
	require.Len(Te, as, 3)
	assert.Equal(Te, []int{0, 1, 2, 6}, as[0].Atoms)
	assert.Equal(Te, "i1", as[0].Parameter.ID)
	assert.Equal(Te, []int{0, 3, 4, 8}, as[1].Atoms)
	assert.Equal(Te, "i2", as[1].Parameter.ID)
	assert.Equal(Te, []int{1, 0, 3, 5}, as[2].Atoms)
	for _, a := range as {
		assert.Less(Te, a.Atoms[0], a.Atoms[2])
		assert.Less(Te, a.Atoms[2], a.Atoms[3])
	}
	propers, err := F.Match(top, ProperTorsions)
	require.NoError(Te, err)
	assert.Len(Te, propers, 10)
	for _, a := range propers {
		assert.Less(Te, a.Atoms[0], a.Atoms[3])
		if a.Atoms[0] == 1 && a.Atoms[3] == 4 {
			assert.Equal(Te, "t15", a.Parameter.ID)
		}
	}
}

func TestCreateSystemPropenal(Te *testing.T) {
	F := reference(Te).WithoutHandler(Constraints)
	sys, err := F.CreateSystem(propenal(Te))
	require.NoError(Te, err)
	assert.Empty(Te, sys.Constraints)
	counts := map[string]int{}
	for _, f := range sys.Forces {
		counts[f.Handler()] += f.NumTerms()
	}
	assert.Equal(Te, map[string]int{Bonds: 8, Angles: 10, ProperTorsions: 11, ImproperTorsions: 9, VdW: 9 + 28}, counts)
	assert.Len(Te, sys.Nonbonded(), 1)

	//The constrained force field drops the four X-H bond terms.
	sys, err = reference(Te).CreateSystem(propenal(Te))
	require.NoError(Te, err)
	assert.Len(Te, sys.Constraints, 4)
	for _, f := range sys.Forces {
		if f.Handler() == Bonds {
			assert.Equal(Te, 4, f.NumTerms())
		}
	}
}

func TestCreateSystemUnits(Te *testing.T) {
	sys, err := reference(Te).WithoutHandler(Constraints).CreateSystem(methane(Te))
	require.NoError(Te, err)
	for _, f := range sys.Forces {
		switch v := f.(type) {
		case *potential.HarmonicBondForce:
			assert.InDelta(Te, 0.1093899492634, v.Terms[0].Length, 1e-12)
			assert.InDelta(Te, 740.0934137725*4.184*100, v.Terms[0].K, 1e-6)
		case *potential.NonbondedForce:
			assert.InDelta(Te, -0.24, v.Particles[0].Charge, 1e-12)
			assert.InDelta(Te, 0.1094*4.184, v.Particles[0].Epsilon, 1e-12)
			//methane has no 1-4 pairs, only 4 bonded and 6 geminal exceptions
			assert.Len(Te, v.Exceptions, 10)
			for _, e := range v.Exceptions {
				assert.Zero(Te, e.Epsilon)
				assert.Zero(Te, e.ChargeProd)
			}
		}
	}
}

func TestUnassigned(Te *testing.T) {
	top := molecule(Te, "ammonia", []string{"N", "H", "H", "H"}, []*chem.Bond{{At1: 0, At2: 1, Order: 1}, {At1: 0, At2: 2, Order: 1}, {At1: 0, At2: 3, Order: 1}})
	_, err := reference(Te).CreateSystem(top)
	require.Error(Te, err)
	var u UnassignedError
	require.ErrorAs(Te, err, &u)
	assert.Equal(Te, Bonds, u.Handler)
	assert.Equal(Te, []int{0, 1}, u.Atoms)
	assert.True(Te, strings.Contains(err.Error(), "Bonds"))
}

func TestCharges(Te *testing.T) {
	F := reference(Te)
	q, err := F.Charges(water(Te))
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{-0.834, 0.417, 0.417}, q, 1e-12)

	q, err = F.Charges(propenal(Te))
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{-0.115, 0.15, -0.685, 0.385, -0.5, 0.115, 0.115, 0.42, 0.115}, q, 1e-12)

	q, err = F.WithoutHandler(ChargeIncrementModel).Charges(methane(Te))
	require.NoError(Te, err)
	assert.Equal(Te, []float64{0, 0, 0, 0, 0}, q)
}

func TestCopyIndependence(Te *testing.T) {
	F := reference(Te)
	C := F.Copy()
	C.Handler(Bonds).Parameter("b83").Bond.K = 1
	C.Handler(Bonds).Parameters[0].ID = "changed"
	assert.InDelta(Te, 740.0934137725, F.Handler(Bonds).Parameter("b83").Bond.K, 1e-12)
	assert.Equal(Te, "b1", F.Handler(Bonds).Parameters[0].ID)
	W := F.WithoutHandler(Constraints)
	assert.Nil(Te, W.Handler(Constraints))
	assert.NotNil(Te, F.Handler(Constraints))
}

func TestRegistry(Te *testing.T) {
	R, err := NewRegistry(zap.NewNop())
	require.NoError(Te, err)
	assert.Equal(Te, []string{"reference-1.0.0", "reference_unconstrained-1.0.0"}, R.Names())
	U, err := R.Get("reference_unconstrained-1.0.0")
	require.NoError(Te, err)
	assert.Nil(Te, U.Handler(Constraints))
	A, _ := R.Get("reference-1.0.0")
	A.SetHandler(&Handler{Name: Angles})
	B, _ := R.Get("reference-1.0.0")
	assert.Equal(Te, 6, B.NumParameters(Angles))
	_, err = R.Get("nope")
	assert.Error(Te, err)
	assert.Equal(Te, "foo_unconstrained", UnconstrainedName("foo"))
}

func TestRegistryLoadDir(Te *testing.T) {
	dir := Te.TempDir()
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "tiny.yaml"), []byte(tinyFF), 0o644))
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "unnamed.yml"), []byte("Angles:\n  parameters: []\n"), 0o644))
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("not a force field"), 0o644))
	R, err := NewRegistry(zap.NewNop())
	require.NoError(Te, err)
	n, err := R.LoadDir(dir)
	require.NoError(Te, err)
	assert.Equal(Te, 2, n)
	assert.Contains(Te, R.Names(), "tiny-0.1")
	assert.Contains(Te, R.Names(), "unnamed")

	require.NoError(Te, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("Bonds: [1"), 0o644))
	_, err = R.LoadDir(dir)
	assert.Error(Te, err)
	_, err = R.LoadDir(filepath.Join(dir, "missing"))
	assert.Error(Te, err)
}

func TestRegistryWatch(Te *testing.T) {
	dir := Te.TempDir()
	R, err := NewRegistry(zap.NewNop())
	require.NoError(Te, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- R.Watch(ctx, dir) }()
	path := filepath.Join(dir, "tiny.yaml")
	assert.Eventually(Te, func() bool {
		//rewritten on every try, in case the watcher wasn't ready for the first write
		_ = os.WriteFile(path, []byte(tinyFF), 0o644)
		_, err := R.Get("tiny-0.1")
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(Te, err)
	case <-time.After(5 * time.Second):
		Te.Fatal("Watch did not return after cancellation")
	}
	assert.Error(Te, R.Watch(context.Background(), filepath.Join(dir, "missing")))
}

func TestSource(Te *testing.T) {
	R, err := NewRegistry(zap.NewNop())
	require.NoError(Te, err)
	assert.Error(Te, Source{}.Validate())
	assert.Error(Te, Source{Document: tinyFF, Name: "reference-1.0.0"}.Validate())
	F, err := Source{Name: "reference-1.0.0"}.Resolve(R)
	require.NoError(Te, err)
	assert.Equal(Te, "reference-1.0.0", F.Name)
	F, err = Source{Document: tinyFF}.Resolve(nil)
	require.NoError(Te, err)
	assert.Equal(Te, "tiny-0.1", F.Name)
	_, err = Source{Name: "reference-1.0.0"}.Resolve(nil)
	assert.Error(Te, err)
	_, err = Source{Name: "nope"}.Resolve(R)
	assert.Error(Te, err)
}
