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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"sigs.k8s.io/yaml"

	"github.com/alexandremahdhaoui/vmagent/internal/adapter"
	"github.com/alexandremahdhaoui/vmagent/internal/util/logging"
	"github.com/alexandremahdhaoui/vmagent/internal/util/netutil"
	"github.com/alexandremahdhaoui/vmagent/internal/util/tlsutil"
	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
	"github.com/alexandremahdhaoui/vmagent/pkg/vmm"
)

const (
	// ConfigPathEnvKey is the environment variable holding the config file path.
	ConfigPathEnvKey = "VMAGENT_CONFIG_PATH"
	// MachineIDEnvKey overrides agent.machineID.
	MachineIDEnvKey = "VMAGENT_MACHINE_ID"
	// NATSURLEnvKey overrides nats.url.
	NATSURLEnvKey = "VMAGENT_NATS_URL"
)

var errInvalidConfig = errors.New("invalid configuration")

// Duration reads "30s"-style strings as well as integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return err
		}

		d.Duration = parsed

		return nil
	}

	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\" or an integer: %s", b)
	}

	d.Duration = time.Duration(n)

	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Config is the configuration of vmagent.
type Config struct {
	Agent       AgentConfig       `json:"agent"`
	Hypervisor  HypervisorConfig  `json:"hypervisor"`
	NATS        NATSConfig        `json:"nats"`
	Dispatcher  DispatcherConfig  `json:"dispatcher"`
	WorkDir     WorkDirConfig     `json:"workDir"`
	Journal     JournalConfig     `json:"journal"`
	AdminServer AdminServerConfig `json:"adminServer"`
	Tracing     TracingConfig     `json:"tracing"`
	Logging     LoggingConfig     `json:"logging"`
}

type AgentConfig struct {
	// MachineID is the uuid of the machine this agent is bound to.
	MachineID string `json:"machineID"`
	// AdvertiseAddress is the host returned with console ports. When empty,
	// the outbound address toward AddressProbeTarget is used.
	AdvertiseAddress   string `json:"advertiseAddress,omitempty"`
	AddressProbeTarget string `json:"addressProbeTarget,omitempty"`
}

type HypervisorConfig struct {
	URI         string   `json:"uri"`
	CallTimeout Duration `json:"callTimeout"`
}

type NATSConfig struct {
	URL             string         `json:"url"`
	Name            string         `json:"name,omitempty"`
	CredentialsFile string         `json:"credentialsFile,omitempty"`
	SubjectPrefix   string         `json:"subjectPrefix"`
	ReconnectWait   Duration       `json:"reconnectWait"`
	TLS             tlsutil.Config `json:"tls"`
}

type DispatcherConfig struct {
	// StrictOperations replies feature-not-implemented to unrecognized
	// operations instead of dropping them.
	StrictOperations bool `json:"strictOperations"`
}

type WorkDirConfig struct {
	BaseDir      string `json:"baseDir"`
	RemoveOnExit bool   `json:"removeOnExit"`
}

type JournalConfig struct {
	// Path of the badger directory. Empty keeps the journal in memory.
	Path          string   `json:"path,omitempty"`
	MaxJobs       int      `json:"maxJobs"`
	PruneInterval Duration `json:"pruneInterval"`
}

type BasicAuthConfig struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminServerConfig struct {
	Port          int              `json:"port"`
	LivenessPath  string           `json:"livenessPath"`
	ReadinessPath string           `json:"readinessPath"`
	MetricsPath   string           `json:"metricsPath"`
	JobsPath      string           `json:"jobsPath"`
	BasicAuth     *BasicAuthConfig `json:"basicAuth,omitempty"`
	TLS           tlsutil.Config   `json:"tls"`
}

type TracingConfig struct {
	Enabled bool `json:"enabled"`
}

type LoggingConfig struct {
	Development bool   `json:"development"`
	Level       string `json:"level,omitempty"`
}

// NewDefaultConfig returns the configuration used for every unset field.
func NewDefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{AddressProbeTarget: netutil.DefaultProbeTarget},
		Hypervisor: HypervisorConfig{
			URI:         vmm.DefaultURI,
			CallTimeout: Duration{vmm.DefaultCallTimeout},
		},
		NATS: NATSConfig{
			URL:           "nats://127.0.0.1:4222",
			SubjectPrefix: protocol.DefaultSubjectPrefix,
			ReconnectWait: Duration{2 * time.Second},
		},
		WorkDir: WorkDirConfig{BaseDir: "/var/lib/vmagent"},
		Journal: JournalConfig{
			MaxJobs:       adapter.DefaultMaxJobs,
			PruneInterval: Duration{time.Minute},
		},
		AdminServer: AdminServerConfig{
			Port:          8081,
			LivenessPath:  "/healthz",
			ReadinessPath: "/readyz",
			MetricsPath:   "/metrics",
			JobsPath:      "/jobs",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig reads the YAML or JSON file at configPath over the defaults,
// then applies environment overrides. An empty path uses the defaults and
// the environment only.
func LoadConfig(configPath string) (*Config, error) {
	config := NewDefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	}

	config.applyEnvironmentOverrides()

	if err := config.Validate(); err != nil {
		return nil, errors.Join(errInvalidConfig, err)
	}

	return config, nil
}

func (c *Config) applyEnvironmentOverrides() {
	if val := os.Getenv(MachineIDEnvKey); val != "" {
		c.Agent.MachineID = val
	}

	if val := os.Getenv(NATSURLEnvKey); val != "" {
		c.NATS.URL = val
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Agent.MachineID == "" {
		errs = append(errs, errors.New("agent.machineID cannot be empty"))
	} else if _, err := uuid.Parse(c.Agent.MachineID); err != nil {
		errs = append(errs, fmt.Errorf("agent.machineID must be a uuid: %w", err))
	}

	if c.Hypervisor.URI == "" {
		errs = append(errs, errors.New("hypervisor.uri cannot be empty"))
	}

	if c.Hypervisor.CallTimeout.Duration <= 0 {
		errs = append(errs, errors.New("hypervisor.callTimeout must be positive"))
	}

	if c.NATS.URL == "" {
		errs = append(errs, errors.New("nats.url cannot be empty"))
	}

	if c.NATS.SubjectPrefix == "" || strings.ContainsAny(c.NATS.SubjectPrefix, " *>") {
		errs = append(errs, fmt.Errorf("nats.subjectPrefix %q is not a valid subject token", c.NATS.SubjectPrefix))
	}

	if c.WorkDir.BaseDir == "" {
		errs = append(errs, errors.New("workDir.baseDir cannot be empty"))
	}

	if c.Journal.MaxJobs <= 0 {
		errs = append(errs, errors.New("journal.maxJobs must be positive"))
	}

	if c.Journal.PruneInterval.Duration <= 0 {
		errs = append(errs, errors.New("journal.pruneInterval must be positive"))
	}

	if c.AdminServer.Port < 0 || c.AdminServer.Port > 65535 {
		errs = append(errs, fmt.Errorf("adminServer.port %d is out of range", c.AdminServer.Port))
	}

	if auth := c.AdminServer.BasicAuth; auth != nil && (auth.Username == "" || auth.Password == "") {
		errs = append(errs, errors.New("adminServer.basicAuth requires a username and a password"))
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	return errors.Join(errs...)
}
