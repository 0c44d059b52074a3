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

package snapshotter

import (
	"context"

	"github.com/skytap-tools/skytap-facts/pkg/facts"
	"github.com/skytap-tools/skytap-facts/pkg/history"
	"github.com/skytap-tools/skytap-facts/pkg/metadata"
	"github.com/skytap-tools/skytap-facts/pkg/roles"
	"github.com/skytap-tools/skytap-facts/pkg/serializer"
)

// Snapshotter collects the facts of the current VM and writes them out.
type Snapshotter interface {
	Run(ctx context.Context) (*Result, error)
}

// Resolver locates the metadata host.
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Fetcher retrieves the metadata document from a host.
type Fetcher interface {
	Fetch(ctx context.Context, host string) (metadata.Document, error)
}

// StdoutPath selects standard output as an Output destination.
const StdoutPath = "-"

// Output is one destination for the collected facts.
type Output struct {
	Format serializer.Format
	// Path is the file to overwrite, or StdoutPath (or empty) for stdout.
	Path string
}

// IsStdout reports whether o writes to standard output.
func (o Output) IsStdout() bool {
	return o.Path == "" || o.Path == StdoutPath
}

// Result describes a completed run.
type Result struct {
	// Host is the metadata host that was queried.
	Host string `json:"host" yaml:"host"`

	// Facts are the emitted facts.
	Facts facts.Facts `json:"facts" yaml:"facts"`

	// History is the VM history after recording, nil when disabled.
	History history.History `json:"history,omitempty" yaml:"history,omitempty"`

	// HistoryChanged is true when the current VM id was appended.
	HistoryChanged bool `json:"historyChanged,omitempty" yaml:"historyChanged,omitempty"`

	// Roles is the role file outcome, nil when disabled.
	Roles *roles.Result `json:"roles,omitempty" yaml:"roles,omitempty"`
}
