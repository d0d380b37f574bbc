/*
 * handlers.go, part of ffinspector.
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
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	inspector "github.com/rmera/ffinspector"
	"github.com/rmera/ffinspector/chem"
	"github.com/rmera/ffinspector/chemjson"
	"github.com/rmera/ffinspector/forcefield"
	"github.com/rmera/ffinspector/internal/cache"
	v3 "github.com/rmera/ffinspector/v3"
)

//FileRequest asks for a file in another format to be turned into a chemjson molecule.
type FileRequest struct {
	FileContents string `json:"file_contents" binding:"required"`
	FileFormat   string `json:"file_format" binding:"required"`
}

//MoleculeRequest is the body of the requests that work on a molecule. ForceField is
//ignored by the geometry endpoint.
type MoleculeRequest struct {
	Molecule   *chemjson.Molecule `json:"molecule" binding:"required"`
	ForceField forcefield.Source  `json:"forcefield"`
}

//MinimizeRequest is a MoleculeRequest with optional minimizer settings. Zero values
//take the server configuration.
type MinimizeRequest struct {
	MoleculeRequest
	Tolerance         float64 `json:"tolerance"`
	MaxIterations     int     `json:"max_iterations"`
	GradientThreshold float64 `json:"gradient_threshold"`
}

//ConformerEnergy is the energy of one conformer.
type ConformerEnergy struct {
	Conformer     int                         `json:"conformer"`
	Total         float64                     `json:"total"`
	Valence       float64                     `json:"valence"`
	Decomposition *inspector.DecomposedEnergy `json:"decomposition"`
	Cached        bool                        `json:"cached"`
}

//MinimizeResponse holds the trajectory of a minimization and the minimized molecule.
type MinimizeResponse struct {
	Trajectory *inspector.MinimizationTrajectory `json:"trajectory"`
	Molecule   *chemjson.Molecule                `json:"molecule"`
	//RMSD is the deviation (A) of each frame from the starting geometry.
	RMSD []float64 `json:"rmsd"`
}

//abort sends err as a chemjson error, with a status that depends on its kind.
func (S *Server) abort(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var jerr *chemjson.Error
	var unassigned forcefield.UnassignedError
	var minerr *inspector.MinimizationError
	var grouping *inspector.GroupingConsistencyError
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		status = http.StatusRequestEntityTooLarge
	case errors.As(err, &jerr) && (jerr.InDecoding || jerr.InValidation):
		status = http.StatusBadRequest
	case errors.As(err, &unassigned), errors.As(err, &minerr), errors.As(err, &grouping):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if jerr == nil {
		jerr = chemjson.NewError("process", c.HandlerName(), err)
	}
	c.Header("Content-Type", "application/json")
	c.AbortWithStatusJSON(status, jerr)
}

func badRequest(function string, err error) error {
	return chemjson.NewError("validation", function, err)
}

//molecule decodes the request body into req and returns the topology and conformers
//of its molecule.
func (S *Server) molecule(c *gin.Context, req interface{}, mol func() *chemjson.Molecule) (*chem.Topology, []*v3.Matrix, bool) {
	if err := c.ShouldBindJSON(req); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			S.abort(c, err)
			return nil, nil, false
		}
		S.abort(c, chemjson.NewError("decoding", "bind", err))
		return nil, nil, false
	}
	m := mol()
	top, err := m.Topology()
	if err != nil {
		S.abort(c, err)
		return nil, nil, false
	}
	coords, err := m.Coordinates()
	if err != nil {
		S.abort(c, err)
		return nil, nil, false
	}
	return top, coords, true
}

func (S *Server) forceField(c *gin.Context, src forcefield.Source) (*forcefield.ForceField, bool) {
	ff, err := src.Resolve(S.registry)
	if err != nil {
		S.abort(c, badRequest("forcefield", err))
		return nil, false
	}
	return ff, true
}

func (S *Server) requestLogger(c *gin.Context) *zap.Logger {
	return S.logger.With(zap.String("request_id", c.GetString("request_id")))
}

func (S *Server) listForceFields(c *gin.Context) {
	names := S.registry.Names()
	S.metrics.ForceFields.Set(float64(len(names)))
	c.JSON(http.StatusOK, gin.H{"forcefields": names})
}

func (S *Server) getForceField(c *gin.Context) {
	ff, err := S.registry.Get(c.Param("name"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, chemjson.NewError("validation", "getForceField", err))
		return
	}
	var buf bytes.Buffer
	if err := ff.Encode(&buf); err != nil {
		S.abort(c, err)
		return
	}
	c.Data(http.StatusOK, "application/yaml", buf.Bytes())
}

func (S *Server) moleculeFromFile(c *gin.Context) {
	var req FileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		S.abort(c, chemjson.NewError("decoding", "moleculeFromFile", err))
		return
	}
	switch strings.ToUpper(req.FileFormat) {
	case "SDF", "MOL":
	default:
		S.abort(c, badRequest("moleculeFromFile", fmt.Errorf("unsupported file format %q", req.FileFormat)))
		return
	}
	mol, err := chemjson.FromSDF(strings.NewReader(req.FileContents))
	if err != nil {
		S.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mol)
}

func (S *Server) parameters(c *gin.Context) {
	var req MoleculeRequest
	top, _, ok := S.molecule(c, &req, func() *chemjson.Molecule { return req.Molecule })
	if !ok {
		return
	}
	ff, ok := S.forceField(c, req.ForceField)
	if !ok {
		return
	}
	applied, err := inspector.Label(top, ff)
	if err != nil {
		S.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, applied)
}

//energy decomposes the energy of every conformer of the molecule, concurrently.
func (S *Server) energy(c *gin.Context) {
	var req MoleculeRequest
	top, coords, ok := S.molecule(c, &req, func() *chemjson.Molecule { return req.Molecule })
	if !ok {
		return
	}
	ff, ok := S.forceField(c, req.ForceField)
	if !ok {
		return
	}
	var ffdoc bytes.Buffer
	if err := ff.Encode(&ffdoc); err != nil {
		S.abort(c, err)
		return
	}
	logger := S.requestLogger(c)
	results := make([]ConformerEnergy, len(coords))
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(S.cfg.Server.Workers)
	for i, conf := range coords {
		i, conf := i, conf
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			compute := func() (interface{}, error) {
				S.metrics.Evaluations.WithLabelValues("decomposition").Inc()
				return inspector.Decompose(top.Copy(), ff.Copy(), conf, inspector.WithLogger(logger), inspector.WithContext(ctx))
			}
			d := new(inspector.DecomposedEnergy)
			var hit bool
			if S.cache != nil {
				var err error
				key := cache.Key("energy", []byte(topologyKey(top)), ffdoc.Bytes(), floatsKey(conf.Flat(1)))
				hit, err = S.cache.GetOrCompute(ctx, key, d, compute)
				if err != nil {
					return err
				}
			} else {
				v, err := compute()
				if err != nil {
					return err
				}
				d = v.(*inspector.DecomposedEnergy)
			}
			results[i] = ConformerEnergy{Conformer: i, Total: d.Total(), Valence: d.Valence(), Decomposition: d, Cached: hit}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		S.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conformers": results})
}

func (S *Server) minimize(c *gin.Context) {
	var req MinimizeRequest
	top, coords, ok := S.molecule(c, &req, func() *chemjson.Molecule { return req.Molecule })
	if !ok {
		return
	}
	ff, ok := S.forceField(c, req.ForceField)
	if !ok {
		return
	}
	m := S.cfg.Minimizer
	if req.Tolerance > 0 {
		m.Tolerance = req.Tolerance
	}
	if req.MaxIterations > 0 {
		m.MaxIterations = req.MaxIterations
	}
	if req.GradientThreshold > 0 {
		m.GradientThreshold = req.GradientThreshold
	}
	S.metrics.Evaluations.WithLabelValues("minimization").Inc()
	traj, err := inspector.Minimize(top, ff, coords[0],
		inspector.WithTolerance(m.Tolerance),
		inspector.WithMaxIterations(m.MaxIterations),
		inspector.WithGradientThreshold(m.GradientThreshold),
		inspector.WithLogger(S.requestLogger(c)),
		inspector.WithContext(c.Request.Context()))
	if err != nil {
		S.abort(c, err)
		return
	}
	S.metrics.MinimizationSteps.Observe(float64(traj.Len()))
	last, err := traj.Last().Conformer()
	if err != nil {
		S.abort(c, err)
		return
	}
	mol, err := chemjson.FromTopology(top, last)
	if err != nil {
		S.abort(c, err)
		return
	}
	rmsd, err := traj.RMSD()
	if err != nil {
		S.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, MinimizeResponse{Trajectory: traj, Molecule: mol, RMSD: rmsd})
}

func (S *Server) geometry(c *gin.Context) {
	var req MoleculeRequest
	top, coords, ok := S.molecule(c, &req, func() *chemjson.Molecule { return req.Molecule })
	if !ok {
		return
	}
	ret := make([]*inspector.GeometrySummary, len(coords))
	for i, conf := range coords {
		s, err := inspector.SummarizeGeometry(top, conf)
		if err != nil {
			S.abort(c, err)
			return
		}
		ret[i] = s
	}
	c.JSON(http.StatusOK, gin.H{"conformers": ret})
}

//topologyKey identifies the molecular graph, for the cache.
func topologyKey(top *chem.Topology) string {
	var b strings.Builder
	for _, a := range top.Atoms {
		fmt.Fprintf(&b, "%s%+d;", a.Symbol, a.FormalCharge)
	}
	for _, bond := range top.Bonds {
		fmt.Fprintf(&b, "%d-%d:%d;", bond.At1, bond.At2, bond.Order)
	}
	return b.String()
}

func floatsKey(x []float64) []byte {
	return []byte(fmt.Sprint(x))
}
