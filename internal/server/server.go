/*
 * server.go, part of ffinspector.
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

//Package server exposes the inspector over HTTP, with gin. Molecules travel in the
//chemjson format, and errors as chemjson errors.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rmera/ffinspector/forcefield"
	"github.com/rmera/ffinspector/internal/cache"
	"github.com/rmera/ffinspector/internal/config"
	"github.com/rmera/ffinspector/internal/metrics"
)

//RequestIDHeader carries the id of each request. A valid id sent by the client is kept,
//otherwise a new one is generated.
const RequestIDHeader = "X-Request-ID"

type Server struct {
	cfg      config.Config
	registry *forcefield.Registry
	cache    *cache.Cache
	metrics  *metrics.Metrics
	logger   *zap.Logger
	engine   *gin.Engine
}

//New returns a server over the force fields in registry. c can be nil, to disable the
//cache of energy results.
func New(cfg config.Config, registry *forcefield.Registry, c *cache.Cache, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	S := &Server{cfg: cfg, registry: registry, cache: c, metrics: m, logger: logger.Named("server")}
	if c != nil {
		c.OnHit = m.CacheHits.Inc
		c.OnMiss = m.CacheMisses.Inc
	}
	m.ForceFields.Set(float64(len(registry.Names())))
	S.engine = S.routes()
	return S
}

//Handler returns the HTTP handler of the server.
func (S *Server) Handler() http.Handler { return S.engine }

func (S *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), S.requestID, S.observe, S.limitBody)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(S.metrics.Handler()))
	api := r.Group("/api/v1")
	api.GET("/forcefields", S.listForceFields)
	api.GET("/forcefields/:name", S.getForceField)
	mol := api.Group("/molecules")
	mol.POST("/json", S.moleculeFromFile)
	mol.POST("/parameters", S.parameters)
	mol.POST("/energy", S.energy)
	mol.POST("/minimize", S.minimize)
	mol.POST("/geometry", S.geometry)
	return r
}

func (S *Server) requestID(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	c.Set("request_id", id)
	c.Header(RequestIDHeader, id)
	c.Next()
}

func (S *Server) limitBody(c *gin.Context) {
	if S.cfg.Server.MaxBodyBytes > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, S.cfg.Server.MaxBodyBytes)
	}
	c.Next()
}

//observe logs every request and records it in the metrics.
func (S *Server) observe(c *gin.Context) {
	start := time.Now()
	c.Next()
	elapsed := time.Since(start)
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := c.Writer.Status()
	S.metrics.ObserveRequest(route, c.Request.Method, strconv.Itoa(status), elapsed)
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Duration("duration", elapsed),
		zap.String("request_id", c.GetString("request_id")),
	}
	switch {
	case status >= 500:
		S.logger.Error("request failed", fields...)
	case status >= 400:
		S.logger.Warn("request rejected", fields...)
	default:
		S.logger.Info("request", fields...)
	}
}

//Run serves HTTP on the configured address until ctx is done, and then shuts the
//server down gracefully.
func (S *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         S.cfg.Server.Addr,
		Handler:      S.engine,
		ReadTimeout:  S.cfg.Server.ReadTimeout,
		WriteTimeout: S.cfg.Server.WriteTimeout,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		S.logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), S.cfg.Server.ShutdownTimeout)
		defer cancel()
		S.logger.Info("shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
