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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/skytap-tools/skytap-facts/pkg/serializer"
	"github.com/skytap-tools/skytap-facts/pkg/snapshotter"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{
			name:       "valid kv format",
			format:     "kv",
			wantFormat: serializer.FormatKV,
			wantErr:    false,
		},
		{
			name:       "valid yaml format",
			format:     "yaml",
			wantFormat: serializer.FormatYAML,
			wantErr:    false,
		},
		{
			name:       "valid json format",
			format:     "json",
			wantFormat: serializer.FormatJSON,
			wantErr:    false,
		},
		{
			name:       "invalid format table",
			format:     "table",
			wantFormat: "",
			wantErr:    true,
		},
		{
			name:       "empty format",
			format:     "",
			wantFormat: "",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a minimal CLI command with the format flag
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: tt.format,
					},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("parseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if !tt.wantErr && got != tt.wantFormat {
						t.Errorf("parseOutputFormat() = %v, want %v", got, tt.wantFormat)
					}
					return nil
				},
			}

			err := cmd.Run(context.Background(), []string{"test"})
			if err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

// captureSnapshotter runs the root command with args, replacing the collect
// action so the parsed configuration can be inspected without a network.
func captureSnapshotter(t *testing.T, args ...string) (*snapshotter.FactSnapshotter, error) {
	t.Helper()

	var got *snapshotter.FactSnapshotter
	root := newRootCmd(&bytes.Buffer{}, &bytes.Buffer{})
	capture := func(_ context.Context, cmd *cli.Command) error {
		s, err := snapshotterFromCommand(cmd)
		got = s
		return err
	}
	root.Action = capture
	for _, c := range root.Commands {
		if c.Name == "collect" {
			c.Action = capture
		}
	}

	err := root.Run(context.Background(), append([]string{name}, args...))
	return got, err
}

func TestSnapshotterFromCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantOutputs []snapshotter.Output
		wantHistory string
		wantRoles   string
	}{
		{
			name:        "defaults",
			args:        nil,
			wantOutputs: []snapshotter.Output{{Format: serializer.FormatKV, Path: snapshotter.StdoutPath}},
		},
		{
			name: "facts file only",
			args: []string{"--stdout=false", "--facts-file", "/tmp/skytap.json"},
			wantOutputs: []snapshotter.Output{
				{Format: serializer.FormatJSON, Path: "/tmp/skytap.json"},
			},
		},
		{
			name: "collect subcommand with both outputs",
			args: []string{"collect", "--format", "yaml", "--facts-file", "/tmp/skytap.txt"},
			wantOutputs: []snapshotter.Output{
				{Format: serializer.FormatYAML, Path: snapshotter.StdoutPath},
				{Format: serializer.FormatKV, Path: "/tmp/skytap.txt"},
			},
		},
		{
			name:        "history and roles",
			args:        []string{"--record-history", "--history-file", "/tmp/h.log", "--roles-file", "/tmp/roles.txt"},
			wantOutputs: []snapshotter.Output{{Format: serializer.FormatKV, Path: snapshotter.StdoutPath}},
			wantHistory: "/tmp/h.log",
			wantRoles:   "/tmp/roles.txt",
		},
		{
			name:        "history file without record flag is ignored",
			args:        []string{"--history-file", "/tmp/h.log"},
			wantOutputs: []snapshotter.Output{{Format: serializer.FormatKV, Path: snapshotter.StdoutPath}},
		},
		{
			name:    "invalid endpoint",
			args:    []string{"--endpoint", "dhcp"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			args:    []string{"--format", "xml"},
			wantErr: true,
		},
		{
			name:    "no outputs",
			args:    []string{"--stdout=false"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := captureSnapshotter(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if s == nil {
				t.Fatal("snapshotter was not built")
			}
			if len(s.Outputs) != len(tt.wantOutputs) {
				t.Fatalf("outputs = %+v, want %+v", s.Outputs, tt.wantOutputs)
			}
			for i := range tt.wantOutputs {
				if s.Outputs[i] != tt.wantOutputs[i] {
					t.Errorf("output[%d] = %+v, want %+v", i, s.Outputs[i], tt.wantOutputs[i])
				}
			}
			if s.HistoryFile != tt.wantHistory {
				t.Errorf("HistoryFile = %q, want %q", s.HistoryFile, tt.wantHistory)
			}
			if s.RolesFile != tt.wantRoles {
				t.Errorf("RolesFile = %q, want %q", s.RolesFile, tt.wantRoles)
			}
		})
	}
}

func TestSnapshotterFromCommand_EnvVars(t *testing.T) {
	t.Setenv("SKYTAP_FACTS_FACTS_FILE", "/tmp/env.yaml")
	t.Setenv("SKYTAP_FACTS_STDOUT", "false")

	s, err := captureSnapshotter(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := snapshotter.Output{Format: serializer.FormatYAML, Path: "/tmp/env.yaml"}
	if len(s.Outputs) != 1 || s.Outputs[0] != want {
		t.Errorf("outputs = %+v, want [%+v]", s.Outputs, want)
	}
}

func TestCollect_InvalidHostFails(t *testing.T) {
	var stdout bytes.Buffer
	root := newRootCmd(&stdout, &bytes.Buffer{})

	err := root.Run(context.Background(), []string{name, "--host", "300.1.1.1"})
	if err == nil {
		t.Fatal("expected error for invalid host")
	}
	if stdout.Len() != 0 {
		t.Errorf("expected no facts on stdout, got %q", stdout.String())
	}
}

func TestHistoryCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.log")
	if err := os.WriteFile(path, []byte(`["1", 2]`), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	root := newRootCmd(&stdout, &bytes.Buffer{})
	if err := root.Run(context.Background(), []string{name, "history", "--history-file", path}); err != nil {
		t.Fatalf("history failed: %v", err)
	}

	var got []string
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("output is not a JSON array: %q", stdout.String())
	}
	if len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Errorf("history = %v, want [1 2]", got)
	}
}

func TestHistoryCmd_MissingFile(t *testing.T) {
	var stdout bytes.Buffer
	root := newRootCmd(&stdout, &bytes.Buffer{})
	path := filepath.Join(t.TempDir(), "none.log")

	if err := root.Run(context.Background(), []string{name, "history", "--history-file", path}); err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != "[]" {
		t.Errorf("output = %q, want []", stdout.String())
	}
}

func TestVersionCmd(t *testing.T) {
	var stdout bytes.Buffer
	root := newRootCmd(&stdout, &bytes.Buffer{})

	if err := root.Run(context.Background(), []string{name, "version"}); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), name+" "+version) {
		t.Errorf("unexpected version output %q", stdout.String())
	}
}

func TestRootCmd_Structure(t *testing.T) {
	root := newRootCmd(&bytes.Buffer{}, &bytes.Buffer{})

	wantCommands := []string{"collect", "history", "version"}
	for _, want := range wantCommands {
		found := false
		for _, c := range root.Commands {
			if c.Name == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not found", want)
		}
	}

	wantFlags := []string{
		"endpoint", "host", "route-file", "stdout", "format", "facts-file",
		"record-history", "history-file", "roles-file", "metrics-file",
		"timeout", "log-level",
	}
	for _, flagName := range wantFlags {
		found := false
		for _, flag := range root.Flags {
			if hasName(flag, flagName) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("flag %q not found", flagName)
		}
	}

	if root.Action == nil {
		t.Error("Action should not be nil")
	}
}

func hasName(flag cli.Flag, name string) bool {
	if flag == nil {
		return false
	}
	for _, n := range flag.Names() {
		if n == name {
			return true
		}
	}
	return false
}
