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

package httputil

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/alexandremahdhaoui/vmagent/internal/util/gracefulshutdown"
)

// ShutdownTimeout bounds the time a server gets to finish in-flight requests.
const ShutdownTimeout = 30 * time.Second

type serverNameKey struct{}

// ServerName returns the name a request's server was registered with in Serve.
func ServerName(ctx context.Context) string {
	name, _ := ctx.Value(serverNameKey{}).(string)
	return name
}

// Serve starts the servers in the background. Each server stops when the
// GracefulShutdown context is cancelled; a server that stops on its own
// triggers a shutdown, with exit code 1 if it failed.
//
// Serve adds to the WaitGroup, so it must be called before gs.Ready.
func Serve(servers map[string]*http.Server, gs *gracefulshutdown.GracefulShutdown) {
	for name, server := range servers {
		ctx := context.WithValue(gs.Context(), serverNameKey{}, name)
		server.BaseContext = func(_ net.Listener) context.Context { return ctx }

		gs.WaitGroup().Add(1)

		errCh := make(chan error, 1)
		go func() { errCh <- listenAndServe(server) }()

		go func() {
			select {
			case err := <-errCh:
				// Done must come first: Shutdown waits for the WaitGroup.
				gs.WaitGroup().Done()

				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.ErrorContext(ctx, "❌ server stopped", "server", name, "error", err)
					gs.Shutdown(1)

					return
				}

				gs.Shutdown(0)
			case <-ctx.Done():
				defer gs.WaitGroup().Done()

				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.ErrorContext(ctx, "❌ shutting down server", "server", name, "error", err)
					return
				}

				slog.InfoContext(ctx, "✅ gracefully shut down server", "server", name)
			}
		}()
	}
}

// listenAndServe serves TLS when the server carries a TLS config with
// certificates.
func listenAndServe(server *http.Server) error {
	if server.TLSConfig != nil {
		return server.ListenAndServeTLS("", "")
	}

	return server.ListenAndServe()
}
