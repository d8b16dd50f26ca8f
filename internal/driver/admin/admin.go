/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package admin serves the agent's probes, metrics and job journal over HTTP.
package admin

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexandremahdhaoui/vmagent/internal/adapter"
	"github.com/alexandremahdhaoui/vmagent/internal/util/httputil"
)

const (
	DefaultLivenessPath  = "/healthz"
	DefaultReadinessPath = "/readyz"
	DefaultMetricsPath   = "/metrics"
	DefaultJobsPath      = "/jobs"

	defaultJobsLimit = 100
)

var ErrNotReady = errors.New("agent is not ready")

type BasicAuth struct {
	Username string
	Password string
}

type Config struct {
	Port          int
	LivenessPath  string
	ReadinessPath string
	MetricsPath   string
	JobsPath      string
	// BasicAuth protects the jobs endpoint when set.
	BasicAuth *BasicAuth
	TLS       *tls.Config
}

// Check is one readiness condition. A nil error means ready.
type Check func(ctx context.Context) error

// Readiness gates the readiness probe. It is not ready until MarkReady is
// called, and then only while every check passes.
type Readiness struct {
	ready  atomic.Bool
	checks []Check
}

func NewReadiness(checks ...Check) *Readiness {
	return &Readiness{checks: checks}
}

func (r *Readiness) MarkReady() {
	r.ready.Store(true)
}

func (r *Readiness) MarkNotReady() {
	r.ready.Store(false)
}

// Check returns the first failing condition.
func (r *Readiness) Check(ctx context.Context) error {
	if !r.ready.Load() {
		return ErrNotReady
	}

	for _, check := range r.checks {
		if err := check(ctx); err != nil {
			return err
		}
	}

	return nil
}

// New returns the admin server. Metrics are read from gatherer and jobs from
// journal; a nil journal disables the jobs endpoint.
func New(cfg Config, readiness *Readiness, gatherer prometheus.Gatherer, journal adapter.Journal) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+orDefault(cfg.LivenessPath, DefaultLivenessPath), func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET "+orDefault(cfg.ReadinessPath, DefaultReadinessPath), func(w http.ResponseWriter, r *http.Request) {
		if err := readiness.Check(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.Handle("GET "+orDefault(cfg.MetricsPath, DefaultMetricsPath),
		promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	if journal != nil {
		var jobs http.Handler = jobsHandler(journal)
		if cfg.BasicAuth != nil {
			jobs = httputil.BasicAuth(jobs, httputil.StaticCredentials(cfg.BasicAuth.Username, cfg.BasicAuth.Password))
		}

		mux.Handle("GET "+orDefault(cfg.JobsPath, DefaultJobsPath), jobs)
	}

	return &http.Server{ //nolint:exhaustruct
		Addr:      fmt.Sprintf(":%d", cfg.Port),
		Handler:   mux,
		TLSConfig: cfg.TLS,
	}
}

type jobsResponse struct {
	Jobs []adapter.Job `json:"jobs"`
}

func jobsHandler(journal adapter.Journal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultJobsLimit

		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				httputil.WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "limit must be a non-negative integer"})
				return
			}

			limit = n
		}

		jobs, err := journal.List(r.Context(), limit)
		if err != nil {
			slog.ErrorContext(r.Context(), "❌ listing jobs", "error", err)
			httputil.WriteJSON(w, http.StatusInternalServerError, map[string]string{"message": "cannot list jobs"})

			return
		}

		httputil.WriteJSON(w, http.StatusOK, jobsResponse{Jobs: jobs})
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}

	return v
}
