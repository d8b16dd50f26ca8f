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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/alexandremahdhaoui/vmagent/internal/adapter"
	"github.com/alexandremahdhaoui/vmagent/internal/controller"
	"github.com/alexandremahdhaoui/vmagent/internal/dispatcher"
	"github.com/alexandremahdhaoui/vmagent/internal/driver/admin"
	"github.com/alexandremahdhaoui/vmagent/internal/driver/natschannel"
	"github.com/alexandremahdhaoui/vmagent/internal/util/gracefulshutdown"
	"github.com/alexandremahdhaoui/vmagent/internal/util/httputil"
	"github.com/alexandremahdhaoui/vmagent/internal/util/logging"
	"github.com/alexandremahdhaoui/vmagent/internal/util/netutil"
	"github.com/alexandremahdhaoui/vmagent/internal/util/tlsutil"
	"github.com/alexandremahdhaoui/vmagent/internal/util/tracing"
	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
	"github.com/alexandremahdhaoui/vmagent/pkg/vmm"
)

const (
	Name = "vmagent"
)

var (
	Version        = "dev" //nolint:gochecknoglobals // set by ldflags
	CommitSHA      = "n/a" //nolint:gochecknoglobals // set by ldflags
	BuildTimestamp = "n/a" //nolint:gochecknoglobals // set by ldflags
)

// ------------------------------------------------- Main ----------------------------------------------------------- //

func main() {
	_, _ = fmt.Fprintf(
		os.Stdout,
		"Starting %s version %s (%s) %s\n",
		Name,
		Version,
		CommitSHA,
		BuildTimestamp,
	)

	// --------------------------------------------- Graceful Shutdown ---------------------------------------------- //

	gs := gracefulshutdown.New(Name)
	ctx := gs.Context()

	// --------------------------------------------- Config --------------------------------------------------------- //

	config, err := LoadConfig(os.Getenv(ConfigPathEnvKey))
	if err != nil {
		slog.ErrorContext(ctx, "loading configuration", "error", err.Error())
		gs.Shutdown(1)
	}

	// --------------------------------------------- Logging -------------------------------------------------------- //

	level, _ := logging.ParseLevel(config.Logging.Level) // checked by Validate

	_, flush, err := logging.Setup(logging.Options{Development: config.Logging.Development, Level: level})
	if err != nil {
		slog.ErrorContext(ctx, "setting up logging", "error", err.Error())
		gs.Shutdown(1)
	}

	gs.OnShutdown("logging", func(context.Context) error {
		flush()
		return nil
	})

	// --------------------------------------------- Tracing -------------------------------------------------------- //

	tp, shutdownTracing, err := tracing.Setup(tracing.Options{
		Enabled:        config.Tracing.Enabled,
		ServiceName:    Name,
		ServiceVersion: Version,
		MachineID:      config.Agent.MachineID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "setting up tracing", "error", err.Error())
		gs.Shutdown(1)
	}

	gs.OnShutdown("tracing", gracefulshutdown.CloseFunc(shutdownTracing))

	// --------------------------------------------- Hypervisor ----------------------------------------------------- //

	gateway, err := vmm.Connect(
		config.Hypervisor.URI,
		vmm.WithCallTimeout(config.Hypervisor.CallTimeout.Duration),
		vmm.WithTracerProvider(tp),
	)
	if err != nil {
		slog.ErrorContext(ctx, "connecting to hypervisor", "uri", config.Hypervisor.URI, "error", err.Error())
		gs.Shutdown(1)
	}

	gs.OnShutdown("hypervisor", func(context.Context) error { return gateway.Close() })

	// --------------------------------------------- Adapter -------------------------------------------------------- //

	address, err := netutil.AdvertiseAddress(config.Agent.AdvertiseAddress, config.Agent.AddressProbeTarget)
	if err != nil {
		slog.ErrorContext(ctx, "resolving advertise address", "error", err.Error())
		gs.Shutdown(1)
	}

	workDir := adapter.NewWorkDir(config.WorkDir.BaseDir)

	dir, err := workDir.Ensure(config.Agent.MachineID)
	if err != nil {
		slog.ErrorContext(ctx, "preparing working directory", "error", err.Error())
		gs.Shutdown(1)
	}

	agent, err := controller.NewAgentContext(config.Agent.MachineID, address, dir, gateway)
	if err != nil {
		slog.ErrorContext(ctx, "creating agent context", "error", err.Error())
		gs.Shutdown(1)
	}

	gs.OnShutdown("machine", func(context.Context) error { return agent.Close() })

	journal, err := adapter.NewJournal(config.Journal.Path)
	if err != nil {
		slog.ErrorContext(ctx, "opening journal", "path", config.Journal.Path, "error", err.Error())
		gs.Shutdown(1)
	}

	gs.OnShutdown("journal", func(context.Context) error { return journal.Close() })

	if config.WorkDir.RemoveOnExit {
		gs.OnShutdown("workdir", func(context.Context) error { return workDir.Remove(config.Agent.MachineID) })
	}

	// --------------------------------------------- Control Channel ------------------------------------------------ //

	natsTLS, err := tlsutil.BuildClientTLSConfig(&config.NATS.TLS)
	if err != nil {
		slog.ErrorContext(ctx, "building nats tls config", "error", err.Error())
		gs.Shutdown(1)
	}

	session, err := natschannel.Connect(ctx, natschannel.Config{
		URL:             config.NATS.URL,
		Name:            config.NATS.Name,
		CredentialsFile: config.NATS.CredentialsFile,
		SubjectPrefix:   config.NATS.SubjectPrefix,
		TLS:             natsTLS,
		ReconnectWait:   config.NATS.ReconnectWait.Duration,
	}, config.Agent.MachineID)
	if err != nil {
		slog.ErrorContext(ctx, "connecting to control channel", "url", config.NATS.URL, "error", err.Error())
		gs.Shutdown(1)
	}

	gs.OnShutdown("control channel", session.Close)

	// --------------------------------------------- Controller ----------------------------------------------------- //

	lifecycle := controller.NewLifecycle(agent, session)
	definition := controller.NewDefinition(agent, session)

	if err := lifecycle.Start(ctx); err != nil {
		slog.ErrorContext(ctx, "starting lifecycle controller", "error", err.Error())
		gs.Shutdown(1)
	}

	// --------------------------------------------- Dispatcher ----------------------------------------------------- //

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	d, err := dispatcher.New(lifecycle, definition,
		dispatcher.WithStrictOperations(config.Dispatcher.StrictOperations),
		dispatcher.WithRegisterer(registry),
		dispatcher.WithTracerProvider(tp),
		dispatcher.WithJournal(journal),
	)
	if err != nil {
		slog.ErrorContext(ctx, "creating dispatcher", "error", err.Error())
		gs.Shutdown(1)
	}

	for _, family := range []protocol.Family{protocol.FamilyControl, protocol.FamilyDefinition} {
		if err := session.Register(family, d); err != nil {
			slog.ErrorContext(ctx, "registering request handler", "family", family, "error", err.Error())
			gs.Shutdown(1)
		}
	}

	// --------------------------------------------- Journal Pruning ------------------------------------------------ //

	gs.WaitGroup().Add(1)

	go func() {
		defer gs.WaitGroup().Done()

		pruneJournal(ctx, journal, config.Journal.MaxJobs, config.Journal.PruneInterval.Duration)
	}()

	// --------------------------------------------- Admin Server --------------------------------------------------- //

	adminTLS, err := tlsutil.BuildServerTLSConfig(&config.AdminServer.TLS)
	if err != nil {
		slog.ErrorContext(ctx, "building admin server tls config", "error", err.Error())
		gs.Shutdown(1)
	}

	readiness := admin.NewReadiness(func(context.Context) error {
		if !session.Connected() {
			return natschannel.ErrSessionClosed
		}

		return nil
	})

	adminConfig := admin.Config{
		Port:          config.AdminServer.Port,
		LivenessPath:  config.AdminServer.LivenessPath,
		ReadinessPath: config.AdminServer.ReadinessPath,
		MetricsPath:   config.AdminServer.MetricsPath,
		JobsPath:      config.AdminServer.JobsPath,
		TLS:           adminTLS,
	}

	if auth := config.AdminServer.BasicAuth; auth != nil {
		adminConfig.BasicAuth = &admin.BasicAuth{Username: auth.Username, Password: auth.Password}
	}

	httputil.Serve(map[string]*http.Server{
		"admin": admin.New(adminConfig, readiness, registry, journal),
	}, gs)

	// --------------------------------------------- Run ------------------------------------------------------------ //

	gs.Ready()
	readiness.MarkReady()

	slog.InfoContext(ctx, "agent is ready",
		"machine", agent.ID(),
		"address", agent.Address(),
		"subjects", session.Subjects(),
	)

	<-ctx.Done()
	readiness.MarkNotReady()

	// blocks until the closers have run, whoever started the shutdown.
	gs.Shutdown(0)
}

// pruneJournal keeps the journal at most maxJobs long until ctx is done.
func pruneJournal(ctx context.Context, journal adapter.Journal, maxJobs int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := journal.Prune(ctx, maxJobs)
			if err != nil {
				slog.WarnContext(ctx, "pruning journal", "error", err.Error())
				continue
			}

			if n > 0 {
				slog.DebugContext(ctx, "pruned journal", "deleted", n)
			}
		}
	}
}
