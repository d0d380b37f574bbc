/*
 * metrics.go, part of ffinspector.
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

//Package metrics holds the prometheus collectors of the server, on a registry of their own.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ffinspect"

type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	//Evaluations counts the energy evaluations, by kind (energy, decomposition, minimization).
	Evaluations *prometheus.CounterVec
	//MinimizationSteps observes the number of frames of each minimization.
	MinimizationSteps prometheus.Histogram
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	ForceFields       prometheus.Gauge
}

//New returns the collectors, registered on a new registry together with the Go and
//process collectors.
func New() *Metrics {
	M := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"route"}),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Energy evaluations by kind.",
		}, []string{"kind"}),
		MinimizationSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "minimization_frames",
			Help:      "Frames in the trajectory of each minimization.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Energy results served from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Energy results not found in the cache.",
		}),
		ForceFields: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "forcefields",
			Help:      "Force fields in the registry.",
		}),
	}
	M.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		M.Requests, M.RequestDuration, M.Evaluations, M.MinimizationSteps,
		M.CacheHits, M.CacheMisses, M.ForceFields,
	)
	return M
}

//Registry returns the registry the collectors are registered on.
func (M *Metrics) Registry() *prometheus.Registry { return M.registry }

//Handler serves the metrics in the prometheus exposition format.
func (M *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(M.registry, promhttp.HandlerOpts{})
}

//ObserveRequest records one finished request.
func (M *Metrics) ObserveRequest(route, method, code string, elapsed time.Duration) {
	M.Requests.WithLabelValues(route, method, code).Inc()
	M.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
