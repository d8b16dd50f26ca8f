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
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/alexandremahdhaoui/vmagent/pkg/client"
	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor"
)

func newInfoCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the runtime information of the machine.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *client.Client) error {
				info, err := c.Info(ctx)
				if err != nil {
					return err
				}

				return opts.print(cmd.OutOrStdout(), info)
			})
		},
	}
}

func newCreateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Start the machine and print its hypervisor id.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *client.Client) error {
				id, err := c.Create(ctx)
				if err != nil {
					return err
				}

				return opts.print(cmd.OutOrStdout(), map[string]uint{"id": id})
			})
		},
	}
}

// newCommand builds a command for an operation without result.
func newCommand(opts *options, use, short string, op func(*client.Client, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *client.Client) error {
				return op(c, ctx)
			})
		},
	}
}

func newVNCDisplayCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "vncdisplay",
		Short: "Print the host and port of the machine console.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *client.Client) error {
				console, err := c.VNCDisplay(ctx)
				if err != nil {
					return err
				}

				return opts.print(cmd.OutOrStdout(), console)
			})
		},
	}
}

func newXMLDescCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "xmldesc",
		Short: "Print the description document of the machine.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *client.Client) error {
				doc, err := c.XMLDesc(ctx)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), doc)

				return err
			})
		},
	}
}

// specFlags binds the flags describing a generated machine.
func specFlags(cmd *cobra.Command, spec *hypervisor.MachineSpec) {
	flags := cmd.Flags()
	flags.StringVar(&spec.Name, "name", "", "machine name (default vm-<first uuid group>)")
	flags.UintVar(&spec.MemoryMiB, "memory", 0, "memory in MiB")
	flags.UintVar(&spec.VCPUs, "vcpus", 0, "number of virtual CPUs")
	flags.StringVar(&spec.DiskPath, "disk", "", "qcow2 image attached as vda")
	flags.StringVar(&spec.NetworkMode, "network-mode", "", "user, nat, network or bridge")
	flags.StringVar(&spec.NetworkSource, "network-source", "", "bridge or libvirt network name")
	flags.StringVar(&spec.MACAddress, "mac", "", "MAC address (generated when empty)")
	flags.StringSliceVar(&spec.BootOrder, "boot", nil, "boot devices in order")
}

func newDefineCommand(opts *options) *cobra.Command {
	var (
		file     string
		generate bool
		spec     hypervisor.MachineSpec
	)

	cmd := &cobra.Command{
		Use:   "define (-f FILE | --generate)",
		Short: "Define the machine from a description document.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var doc string

			switch {
			case generate:
				spec.UUID = opts.machineID

				generated, err := hypervisor.GenerateDocument(spec)
				if err != nil {
					return err
				}

				doc = generated
			case file == "-":
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}

				doc = string(data)
			default:
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}

				doc = string(data)
			}

			return opts.run(cmd, func(ctx context.Context, c *client.Client) error {
				return c.Define(ctx, doc)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "description document, - for stdin")
	cmd.Flags().BoolVar(&generate, "generate", false, "generate a starter document for --id")
	cmd.MarkFlagsMutuallyExclusive("file", "generate")
	cmd.MarkFlagsOneRequired("file", "generate")
	specFlags(cmd, &spec)

	return cmd
}

func newGenerateCommand(opts *options) *cobra.Command {
	var spec hypervisor.MachineSpec

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a starter description document for --id without sending it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec.UUID = opts.machineID

			doc, err := hypervisor.GenerateDocument(spec)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), doc)

			return err
		},
	}

	specFlags(cmd, &spec)

	return cmd
}

func newWatchCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print presence changes and events until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			c, err := opts.connect()
			if err != nil {
				return err
			}
			defer c.Close()

			var printErr error

			watchErr := c.Watch(ctx, func(n client.Notification) {
				var v any = n.Event
				if n.Presence != nil {
					v = n.Presence
				}

				if err := opts.print(cmd.OutOrStdout(), v); err != nil && printErr == nil {
					printErr = err
					stop()
				}
			})
			if watchErr != nil {
				return watchErr
			}

			return printErr
		},
	}
}
