//go:build unit

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

package httputil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/vmagent/internal/util/gracefulshutdown"
	"github.com/alexandremahdhaoui/vmagent/internal/util/httputil"
)

func TestBasicAuth(t *testing.T) {
	tests := []struct {
		name         string
		setupAuth    func(*http.Request)
		validator    httputil.Validator
		expectStatus int
		expectNext   bool
	}{
		{
			name:         "valid credentials",
			setupAuth:    func(r *http.Request) { r.SetBasicAuth("admin", "s3cret") },
			validator:    httputil.StaticCredentials("admin", "s3cret"),
			expectStatus: http.StatusOK,
			expectNext:   true,
		},
		{
			name:         "wrong password",
			setupAuth:    func(r *http.Request) { r.SetBasicAuth("admin", "guess") },
			validator:    httputil.StaticCredentials("admin", "s3cret"),
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "wrong username",
			setupAuth:    func(r *http.Request) { r.SetBasicAuth("root", "s3cret") },
			validator:    httputil.StaticCredentials("admin", "s3cret"),
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "no credentials",
			setupAuth:    func(*http.Request) {},
			validator:    httputil.StaticCredentials("admin", "s3cret"),
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:      "validator error",
			setupAuth: func(r *http.Request) { r.SetBasicAuth("admin", "s3cret") },
			validator: func(string, string, *http.Request) (bool, error) {
				return false, assert.AnError
			},
			expectStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
			tt.setupAuth(req)
			rr := httptest.NewRecorder()

			httputil.BasicAuth(next, tt.validator).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectStatus, rr.Code)
			assert.Equal(t, tt.expectNext, nextCalled)

			if tt.expectStatus == http.StatusUnauthorized {
				assert.Contains(t, rr.Header().Get("WWW-Authenticate"), "Basic realm")
				assert.JSONEq(t, `{"message":"Unauthorized"}`, rr.Body.String())
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	httputil.WriteJSON(rr, http.StatusTeapot, map[string]int{"jobs": 3})

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"jobs":3}`, rr.Body.String())
}

type exitRecorder struct {
	mu     sync.Mutex
	called bool
	code   int
}

func (e *exitRecorder) exit(code int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.called {
		e.called, e.code = true, code
	}
}

func (e *exitRecorder) get() (bool, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.called, e.code
}

func TestServe(t *testing.T) {
	t.Run("stops on shutdown", func(t *testing.T) {
		rec := &exitRecorder{}
		gs := gracefulshutdown.NewWithExit("vmagent", rec.exit)

		server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

		httputil.Serve(map[string]*http.Server{"admin": server}, gs)
		gs.Ready()

		gs.CancelFunc()()

		assert.Eventually(t, func() bool {
			called, _ := rec.get()
			return called
		}, 2*time.Second, 10*time.Millisecond)

		_, code := rec.get()
		assert.Equal(t, 0, code)
		assert.Equal(t, "admin", httputil.ServerName(server.BaseContext(nil)))
	})

	t.Run("exits 1 when the address is taken", func(t *testing.T) {
		rec := &exitRecorder{}
		gs := gracefulshutdown.NewWithExit("vmagent", rec.exit)

		blocker := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		defer blocker.Close()

		server := &http.Server{Addr: blocker.Listener.Addr().String()}

		httputil.Serve(map[string]*http.Server{"admin": server}, gs)
		gs.Ready()

		require.Eventually(t, func() bool {
			called, _ := rec.get()
			return called
		}, 2*time.Second, 10*time.Millisecond)

		_, code := rec.get()
		assert.Equal(t, 1, code)
		assert.ErrorIs(t, gs.Context().Err(), context.Canceled)
	})
}
