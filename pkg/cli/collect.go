// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/skytap-tools/skytap-facts/pkg/defaults"
	"github.com/skytap-tools/skytap-facts/pkg/gateway"
	"github.com/skytap-tools/skytap-facts/pkg/metadata"
	"github.com/skytap-tools/skytap-facts/pkg/serializer"
	"github.com/skytap-tools/skytap-facts/pkg/snapshotter"
)

// collectFlags are defined on the root command and inherited by every
// subcommand, so `skytap-facts --facts-file x` and
// `skytap-facts collect --facts-file x` are equivalent.
func collectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   fmt.Sprintf("How to find the metadata service (%s)", strings.Join(gateway.SupportedModes(), ", ")),
			Sources: envVars("ENDPOINT"),
			Value:   string(gateway.ModeGateway),
		},
		&cli.StringFlag{
			Name:    "host",
			Usage:   "Metadata service IPv4 address, overrides --endpoint",
			Sources: envVars("HOST"),
		},
		&cli.StringFlag{
			Name:    "route-file",
			Usage:   "Kernel routing table used to find the default gateway",
			Sources: envVars("ROUTE_FILE"),
			Value:   defaults.RouteTablePath,
		},
		&cli.BoolFlag{
			Name:    "stdout",
			Usage:   "Print the facts to stdout",
			Sources: envVars("STDOUT"),
			Value:   true,
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"t"},
			Usage:   fmt.Sprintf("Stdout format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
			Sources: envVars("FORMAT"),
			Value:   string(serializer.FormatKV),
		},
		&cli.StringFlag{
			Name:    "facts-file",
			Usage:   fmt.Sprintf("Write the facts to this file, format from extension (Facter reads %s)", defaults.FactsFilePath),
			Sources: envVars("FACTS_FILE"),
		},
		&cli.BoolFlag{
			Name:    "record-history",
			Usage:   "Append the VM id to the history file and print the history",
			Sources: envVars("RECORD_HISTORY"),
		},
		&cli.StringFlag{
			Name:    "history-file",
			Usage:   "JSON array of VM ids seen on this machine",
			Sources: envVars("HISTORY_FILE"),
			Value:   defaults.HistoryFilePath,
		},
		&cli.StringFlag{
			Name:    "roles-file",
			Usage:   fmt.Sprintf("Toggle role lines in this file to match the facts (e.g. %s)", defaults.RolesFilePath),
			Sources: envVars("ROLES_FILE"),
		},
		&cli.StringFlag{
			Name:    "metrics-file",
			Usage:   "Write run metrics in Prometheus textfile format",
			Sources: envVars("METRICS_FILE"),
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "Timeout for the metadata request",
			Sources: envVars("TIMEOUT"),
			Value:   defaults.HTTPClientTimeout,
		},
	}
}

func collectCmd() *cli.Command {
	return &cli.Command{
		Name:  "collect",
		Usage: "Fetch VM metadata and emit facts",
		Description: `Fetches http://<host>/skytap and emits the facts.

# Examples

Executable external fact (key=value on stdout):
  skytap-facts

Facter JSON facts file, nothing on stdout:
  skytap-facts --stdout=false --facts-file /etc/puppetlabs/facter/facts.d/skytap.json

Use the link-local endpoint and record the VM id history:
  skytap-facts --endpoint link-local --record-history`,
		Action: runCollect,
	}
}

func runCollect(ctx context.Context, cmd *cli.Command) error {
	s, err := snapshotterFromCommand(cmd)
	if err != nil {
		return err
	}
	_, err = s.Run(ctx)
	return err
}

// snapshotterFromCommand builds the pipeline configuration from flags.
func snapshotterFromCommand(cmd *cli.Command) (*snapshotter.FactSnapshotter, error) {
	mode := gateway.Mode(cmd.String("endpoint"))
	if !mode.IsValid() {
		return nil, fmt.Errorf("unknown endpoint %q, supported: %s",
			mode, strings.Join(gateway.SupportedModes(), ", "))
	}

	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, err
	}

	var outputs []snapshotter.Output
	if cmd.Bool("stdout") {
		outputs = append(outputs, snapshotter.Output{Format: outFormat, Path: snapshotter.StdoutPath})
	}
	if path := strings.TrimSpace(cmd.String("facts-file")); path != "" {
		outputs = append(outputs, snapshotter.Output{Format: serializer.FormatFromPath(path), Path: path})
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("no output selected: use --stdout or --facts-file")
	}

	s := &snapshotter.FactSnapshotter{
		Version: version,
		Resolver: gateway.NewResolver(
			gateway.WithMode(mode),
			gateway.WithHost(strings.TrimSpace(cmd.String("host"))),
			gateway.WithRouteTablePath(cmd.String("route-file")),
		),
		Fetcher: metadata.NewClient(
			metadata.WithTimeout(cmd.Duration("timeout")),
			metadata.WithUserAgent(fmt.Sprintf("%s/%s", name, version)),
		),
		Outputs:     outputs,
		RolesFile:   strings.TrimSpace(cmd.String("roles-file")),
		MetricsFile: strings.TrimSpace(cmd.String("metrics-file")),
		Stdout:      cmd.Root().Writer,
	}

	if cmd.Bool("record-history") {
		s.HistoryFile = cmd.String("history-file")
	}

	return s, nil
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", outFormat)
	}
	return outFormat, nil
}
