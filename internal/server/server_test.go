/*
 * server_test.go, part of ffinspector.
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

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rmera/ffinspector/chemjson"
	"github.com/rmera/ffinspector/forcefield"
	"github.com/rmera/ffinspector/internal/cache"
	"github.com/rmera/ffinspector/internal/config"
	"github.com/rmera/ffinspector/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var methane = &chemjson.Molecule{
	SchemaVersion: chemjson.SchemaVersion,
	Name:          "methane",
	Symbols:       []string{"C", "H", "H", "H", "H"},
	Connectivity:  [][3]int{{0, 1, 1}, {0, 2, 1}, {0, 3, 1}, {0, 4, 1}},
	Geometry: []float64{
		-0.0000658, -0.0000061, 0.0000215,
		-0.0566733, 1.0873573, -0.0859463,
		0.6194599, -0.3971111, -0.8071615,
		-1.0042799, -0.4236047, -0.0695677,
		0.4415590, -0.2666354, 0.9626540,
	},
	Conformers: [][]float64{{
		0, 0, 0,
		0, 1.2, 0,
		1.0, -0.4, -0.5,
		-1.0, -0.4, -0.5,
		0, -0.4, 1.1,
	}},
}

func testServer(Te *testing.T, withCache bool) *Server {
	cfg, err := config.Load("")
	require.NoError(Te, err)
	cfg.Server.MaxBodyBytes = 64 << 10
	logger := zaptest.NewLogger(Te)
	reg, err := forcefield.NewRegistry(logger)
	require.NoError(Te, err)
	var c *cache.Cache
	if withCache {
		c = cache.New(cache.NewMemory(16), time.Hour, logger)
	}
	return New(*cfg, reg, c, metrics.New(), logger)
}

func do(Te *testing.T, S *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(Te, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	S.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(Te *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	require.NoError(Te, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func request(mol *chemjson.Molecule, ff string) MoleculeRequest {
	return MoleculeRequest{Molecule: mol, ForceField: forcefield.Source{Name: ff}}
}

func TestHealthAndRequestID(Te *testing.T) {
	S := testServer(Te, false)
	rec := do(Te, S, http.MethodGet, "/healthz", nil)
	assert.Equal(Te, http.StatusOK, rec.Code)
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(Te, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec = httptest.NewRecorder()
	S.Handler().ServeHTTP(rec, req)
	assert.Equal(Te, id, rec.Header().Get(RequestIDHeader))
}

func TestForceFields(Te *testing.T) {
	S := testServer(Te, false)
	rec := do(Te, S, http.MethodGet, "/api/v1/forcefields", nil)
	require.Equal(Te, http.StatusOK, rec.Code)
	var out struct {
		ForceFields []string `json:"forcefields"`
	}
	decode(Te, rec, &out)
	assert.Contains(Te, out.ForceFields, "reference-1.0.0")
	assert.Contains(Te, out.ForceFields, "reference_unconstrained-1.0.0")

	rec = do(Te, S, http.MethodGet, "/api/v1/forcefields/reference-1.0.0", nil)
	require.Equal(Te, http.StatusOK, rec.Code)
	ff, err := forcefield.Parse(rec.Body.Bytes())
	require.NoError(Te, err)
	assert.Equal(Te, "reference-1.0.0", ff.Name)

	rec = do(Te, S, http.MethodGet, "/api/v1/forcefields/nope-0.0", nil)
	assert.Equal(Te, http.StatusNotFound, rec.Code)
}

func TestMoleculeFromFile(Te *testing.T) {
	S := testServer(Te, false)
	sdf, err := os.ReadFile("../../chem/testdata/methane.sdf")
	require.NoError(Te, err)
	rec := do(Te, S, http.MethodPost, "/api/v1/molecules/json", FileRequest{FileContents: string(sdf), FileFormat: "SDF"})
	require.Equal(Te, http.StatusOK, rec.Code, rec.Body.String())
	var mol chemjson.Molecule
	decode(Te, rec, &mol)
	assert.Equal(Te, methane.Symbols, mol.Symbols)
	assert.Len(Te, mol.Geometry, 15)

	rec = do(Te, S, http.MethodPost, "/api/v1/molecules/json", FileRequest{FileContents: string(sdf), FileFormat: "PDB"})
	assert.Equal(Te, http.StatusBadRequest, rec.Code)
	var jerr chemjson.Error
	decode(Te, rec, &jerr)
	assert.True(Te, jerr.IsError)
	assert.True(Te, jerr.InValidation)
}

func TestParameters(Te *testing.T) {
	S := testServer(Te, false)
	rec := do(Te, S, http.MethodPost, "/api/v1/molecules/parameters", request(methane, "reference-1.0.0"))
	require.Equal(Te, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		ParameterMap map[string][][]int `json:"parameter_map"`
	}
	decode(Te, rec, &out)
	assert.Len(Te, out.ParameterMap["c1"], 4)
	assert.Len(Te, out.ParameterMap["b83"], 4)
	assert.Len(Te, out.ParameterMap["a2"], 6)

	both := MoleculeRequest{Molecule: methane, ForceField: forcefield.Source{Name: "reference-1.0.0", Document: "name: x"}}
	rec = do(Te, S, http.MethodPost, "/api/v1/molecules/parameters", both)
	assert.Equal(Te, http.StatusBadRequest, rec.Code)
	rec = do(Te, S, http.MethodPost, "/api/v1/molecules/parameters", request(methane, "unknown-1.0"))
	assert.Equal(Te, http.StatusBadRequest, rec.Code)
	rec = do(Te, S, http.MethodPost, "/api/v1/molecules/parameters", map[string]string{"molecule": "no"})
	assert.Equal(Te, http.StatusBadRequest, rec.Code)

	ammonia := &chemjson.Molecule{
		Symbols:      []string{"N", "H", "H", "H"},
		Connectivity: [][3]int{{0, 1, 1}, {0, 2, 1}, {0, 3, 1}},
		Geometry:     []float64{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1},
	}
	rec = do(Te, S, http.MethodPost, "/api/v1/molecules/energy", request(ammonia, "reference-1.0.0"))
	assert.Equal(Te, http.StatusUnprocessableEntity, rec.Code)
}

func TestEnergy(Te *testing.T) {
	S := testServer(Te, true)
	var first []ConformerEnergy
	for i := 0; i < 2; i++ {
		rec := do(Te, S, http.MethodPost, "/api/v1/molecules/energy", request(methane, "reference-1.0.0"))
		require.Equal(Te, http.StatusOK, rec.Code, rec.Body.String())
		var out struct {
			Conformers []ConformerEnergy `json:"conformers"`
		}
		decode(Te, rec, &out)
		require.Len(Te, out.Conformers, 2)
		for j, c := range out.Conformers {
			assert.Equal(Te, j, c.Conformer)
			assert.Equal(Te, i == 1, c.Cached)
			require.NotNil(Te, c.Decomposition)
			assert.InDelta(Te, c.Total, c.Decomposition.Total(), 1e-9)
			assert.Contains(Te, c.Decomposition.ValenceEnergies["Angles"], "a2")
		}
		if i == 0 {
			first = out.Conformers
			//the distorted conformer is higher in energy
			assert.Greater(Te, first[1].Total, first[0].Total)
			continue
		}
		assert.InDelta(Te, first[0].Total, out.Conformers[0].Total, 1e-9)
	}
	rec := do(Te, S, http.MethodGet, "/metrics", nil)
	assert.Contains(Te, rec.Body.String(), "ffinspect_cache_hits_total 2")
	assert.Contains(Te, rec.Body.String(), `ffinspect_evaluations_total{kind="decomposition"} 2`)
}

func TestMinimize(Te *testing.T) {
	S := testServer(Te, false)
	req := MinimizeRequest{MoleculeRequest: request(methane, "reference-1.0.0"), MaxIterations: 500}
	rec := do(Te, S, http.MethodPost, "/api/v1/molecules/minimize", req)
	require.Equal(Te, http.StatusOK, rec.Code, rec.Body.String())
	var out MinimizeResponse
	decode(Te, rec, &out)
	require.NotNil(Te, out.Trajectory)
	require.GreaterOrEqual(Te, out.Trajectory.Len(), 2)
	e := out.Trajectory.Energies()
	assert.LessOrEqual(Te, e[len(e)-1], e[0])
	assert.InDeltaSlice(Te, methane.Geometry, out.Trajectory.Frames[0].Geometry, 1e-12)
	assert.Equal(Te, out.Trajectory.Last().Geometry, out.Molecule.Geometry)
	require.Len(Te, out.RMSD, out.Trajectory.Len())
	assert.Equal(Te, 0.0, out.RMSD[0])

	req.MaxIterations = 1
	req.Tolerance = 1e-12
	req.GradientThreshold = 1e-12
	rec = do(Te, S, http.MethodPost, "/api/v1/molecules/minimize", req)
	assert.Equal(Te, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	var jerr chemjson.Error
	decode(Te, rec, &jerr)
	assert.Contains(Te, jerr.Message, "Failed")
}

func TestGeometry(Te *testing.T) {
	S := testServer(Te, false)
	rec := do(Te, S, http.MethodPost, "/api/v1/molecules/geometry", MoleculeRequest{Molecule: methane})
	require.Equal(Te, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Conformers []struct {
			Bonds  []map[string]interface{} `json:"bonds"`
			Angles []map[string]interface{} `json:"angles"`
		} `json:"conformers"`
	}
	decode(Te, rec, &out)
	require.Len(Te, out.Conformers, 2)
	assert.Len(Te, out.Conformers[0].Bonds, 4)
	assert.Len(Te, out.Conformers[0].Angles, 6)
}

func TestBodyLimit(Te *testing.T) {
	S := testServer(Te, false)
	big := *methane
	big.Conformers = make([][]float64, 1000)
	for i := range big.Conformers {
		big.Conformers[i] = methane.Geometry
	}
	rec := do(Te, S, http.MethodPost, "/api/v1/molecules/geometry", MoleculeRequest{Molecule: &big})
	assert.Equal(Te, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRun(Te *testing.T) {
	S := testServer(Te, false)
	S.cfg.Server.Addr = "127.0.0.1:0"
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- S.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(Te, err)
	case <-time.After(5 * time.Second):
		Te.Fatal("server did not shut down")
	}
}
