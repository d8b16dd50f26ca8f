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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/alexandremahdhaoui/vmagent/pkg/client"
	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
)

const (
	URLEnvKey       = "VMAGENT_NATS_URL"
	MachineIDEnvKey = "VMAGENT_MACHINE_ID"
)

var errUnknownOutput = errors.New("unknown output format")

// options are the persistent flags shared by every command.
type options struct {
	url             string
	machineID       string
	subjectPrefix   string
	credentialsFile string
	cbor            bool
	timeout         time.Duration
	output          string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   Name,
		Short: "Drive a vmagent over its control channel.",
		Long: `vmagentctl sends lifecycle and definition requests to the agent bound to
one virtual machine, and prints the presence and events it broadcasts.`,
		SilenceUsage: true,
		Version:      fmt.Sprintf("%s (%s) %s", Version, CommitSHA, BuildTimestamp),
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.url, "url", envOr(URLEnvKey, nats.DefaultURL), "NATS server URL")
	flags.StringVar(&opts.machineID, "id", envOr(MachineIDEnvKey, ""), "uuid of the machine the agent is bound to")
	flags.StringVar(&opts.subjectPrefix, "prefix", protocol.DefaultSubjectPrefix, "subject prefix of the agent")
	flags.StringVar(&opts.credentialsFile, "creds", "", "NATS user credentials file")
	flags.BoolVar(&opts.cbor, "cbor", false, "encode requests with CBOR instead of JSON")
	flags.DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "time to wait for a reply")
	flags.StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")

	root.AddCommand(
		newInfoCommand(opts),
		newCreateCommand(opts),
		newCommand(opts, "shutdown", "Shut the machine down.", (*client.Client).Shutdown),
		newCommand(opts, "reboot", "Reboot the machine.", (*client.Client).Reboot),
		newCommand(opts, "suspend", "Pause the machine.", (*client.Client).Suspend),
		newCommand(opts, "resume", "Resume a paused machine.", (*client.Client).Resume),
		newCommand(opts, "undefine", "Remove the machine definition.", (*client.Client).Undefine),
		newVNCDisplayCommand(opts),
		newXMLDescCommand(opts),
		newDefineCommand(opts),
		newGenerateCommand(opts),
		newWatchCommand(opts),
	)

	return root
}

// connect opens a client for the agent selected by the persistent flags.
func (o *options) connect() (*client.Client, error) {
	if o.machineID == "" {
		return nil, fmt.Errorf("--id or %s is required", MachineIDEnvKey)
	}

	natsOpts := []nats.Option{nats.Name(Name)}
	if o.credentialsFile != "" {
		natsOpts = append(natsOpts, nats.UserCredentials(o.credentialsFile))
	}

	codec := protocol.JSON
	if o.cbor {
		codec = protocol.CBOR
	}

	return client.Connect(o.url, o.machineID, natsOpts,
		client.WithCodec(codec),
		client.WithTimeout(o.timeout),
		client.WithSubjectPrefix(o.subjectPrefix),
	)
}

// run connects, calls fn and closes the connection.
func (o *options) run(cmd *cobra.Command, fn func(ctx context.Context, c *client.Client) error) error {
	c, err := o.connect()
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(cmd.Context(), c)
}

// print writes v to w in the selected output format.
func (o *options) print(w io.Writer, v any) error {
	var (
		out []byte
		err error
	)

	switch o.output {
	case "json":
		out, err = json.MarshalIndent(v, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("%w: %q", errUnknownOutput, o.output)
	}

	if err != nil {
		return err
	}

	_, err = w.Write(out)

	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
