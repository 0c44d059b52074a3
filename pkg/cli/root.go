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
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/skytap-tools/skytap-facts/pkg/logging"
)

const (
	name           = "skytap-facts"
	versionDefault = "dev"
	envPrefix      = "SKYTAP_FACTS_"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the root command with the process arguments and exits 1 on
// any error. This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := newRootCmd(os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

// envVars returns the environment source for a flag, e.g. SKYTAP_FACTS_HOST.
func envVars(flag string) cli.ValueSourceChain {
	return cli.EnvVars(envPrefix + flag)
}

func newRootCmd(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Emit Skytap VM metadata as Facter facts",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Description: `Queries the Skytap metadata service from inside the VM, prefixes every
key with "skytap_", flattens the environment id, hardware UUID, NAT addresses
and user data, drops credentials and raw interface data, and writes the
result as Facter external facts.

Without a subcommand the facts are collected (same as "collect").`,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars(envPrefix+"LOG_LEVEL", logging.EnvLogLevel),
				Value:   "warn",
			},
		}, collectFlags()...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			initLogger(stderr, cmd.String("log-level"))
			return ctx, nil
		},
		Action: runCollect,
		Commands: []*cli.Command{
			collectCmd(),
			historyCmd(),
			versionCmd(),
		},
	}
}

// initLogger configures slog once flags are parsed so --log-level takes
// effect before any command executes.
func initLogger(w io.Writer, level string) {
	slog.SetDefault(logging.NewStructuredLoggerWithWriter(w, name, version, level))
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", level)
}
