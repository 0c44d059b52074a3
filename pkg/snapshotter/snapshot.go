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
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/skytap-tools/skytap-facts/pkg/errors"
	"github.com/skytap-tools/skytap-facts/pkg/facts"
	"github.com/skytap-tools/skytap-facts/pkg/gateway"
	"github.com/skytap-tools/skytap-facts/pkg/history"
	"github.com/skytap-tools/skytap-facts/pkg/metadata"
	"github.com/skytap-tools/skytap-facts/pkg/roles"
	"github.com/skytap-tools/skytap-facts/pkg/serializer"
)

// FactSnapshotter runs the fact collection pipeline once:
// resolve, fetch, normalize and extract, emit, then the optional history,
// role file and metrics steps. Stages run strictly in sequence and the
// first failure ends the run.
type FactSnapshotter struct {
	// Version is the tool version, used in log output.
	Version string

	// Resolver locates the metadata host. If nil, the default gateway is used.
	Resolver Resolver

	// Fetcher retrieves the metadata document. If nil, a default client is used.
	Fetcher Fetcher

	// Outputs are the fact destinations. If empty, kv to stdout is used.
	Outputs []Output

	// HistoryFile enables VM history recording when set.
	HistoryFile string

	// RolesFile enables role file toggling when set.
	RolesFile string

	// MetricsFile enables the Prometheus textfile when set.
	MetricsFile string

	// Metrics collects run metrics. If nil, a fresh set is created.
	Metrics *Metrics

	// Stdout receives stdout outputs and the history array. If nil, os.Stdout is used.
	Stdout io.Writer
}

// Run collects the facts and writes every configured output.
func (s *FactSnapshotter) Run(ctx context.Context) (res *Result, err error) {
	s.setDefaults()

	slog.Debug("starting fact collection", "version", s.Version)

	start := time.Now()
	defer func() {
		s.Metrics.observeRun(start, err)
		if s.MetricsFile == "" {
			return
		}
		if werr := s.Metrics.WriteToTextfile(s.MetricsFile); werr != nil {
			slog.Error("failed to write metrics textfile", "path", s.MetricsFile, "error", werr)
			if err == nil {
				err = errors.Wrap(errors.ErrCodeInternal, "failed to write metrics textfile", werr)
			}
		}
	}()

	stageStart := time.Now()
	host, err := s.Resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	s.Metrics.observeStage(stageResolve, stageStart)

	stageStart = time.Now()
	doc, err := s.Fetcher.Fetch(ctx, host)
	if err != nil {
		return nil, err
	}
	s.Metrics.observeStage(stageFetch, stageStart)

	stageStart = time.Now()
	f := facts.Build(doc)
	s.Metrics.observeStage(stageExtract, stageStart)
	s.Metrics.observeFacts(f)

	res = &Result{Host: host, Facts: f}

	stageStart = time.Now()
	for _, out := range s.Outputs {
		if err := s.emit(ctx, out, f); err != nil {
			return nil, err
		}
	}
	s.Metrics.observeStage(stageEmit, stageStart)

	if s.HistoryFile != "" {
		stageStart = time.Now()
		if err := s.recordHistory(ctx, res); err != nil {
			return nil, err
		}
		s.Metrics.observeStage(stageHistory, stageStart)
	}

	if s.RolesFile != "" {
		stageStart = time.Now()
		rr, err := roles.Apply(s.RolesFile, f)
		if err != nil {
			return nil, err
		}
		res.Roles = rr
		s.Metrics.observeStage(stageRoles, stageStart)
	}

	slog.Debug("fact collection complete",
		"host", host,
		"facts", len(f),
		"duration_ms", time.Since(start).Milliseconds())

	return res, nil
}

func (s *FactSnapshotter) setDefaults() {
	if s.Resolver == nil {
		s.Resolver = gateway.NewResolver()
	}
	if s.Fetcher == nil {
		s.Fetcher = metadata.NewClient()
	}
	if len(s.Outputs) == 0 {
		s.Outputs = []Output{{Format: serializer.FormatKV, Path: StdoutPath}}
	}
	if s.Metrics == nil {
		s.Metrics = NewMetrics()
	}
	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}
}

// emit writes f to one output. Files are opened only once the facts are
// known, so a failed fetch leaves the previous facts file in place.
func (s *FactSnapshotter) emit(ctx context.Context, out Output, f facts.Facts) error {
	if out.IsStdout() {
		return serializer.NewWriter(out.Format, s.Stdout).Serialize(ctx, f)
	}

	w, err := serializer.NewFileWriter(out.Format, out.Path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to open facts file", err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			slog.Warn("failed to close facts file", "path", out.Path, "error", cerr)
		}
	}()

	if err := w.Serialize(ctx, f); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to write facts to %s", out.Path), err)
	}

	slog.Debug("facts written", "path", out.Path, "format", out.Format, "facts", len(f))
	return nil
}

func (s *FactSnapshotter) recordHistory(ctx context.Context, res *Result) error {
	vmid := res.Facts.String(facts.KeyVMID)
	if vmid == "" {
		return errors.New(errors.ErrCodeNotFound, "metadata has no VM id to record in history")
	}

	h, changed, err := history.Update(s.HistoryFile, vmid)
	if err != nil {
		return err
	}
	res.History = h
	res.HistoryChanged = changed
	s.Metrics.historyEntries.Set(float64(len(h)))

	if changed {
		slog.Info("recorded new VM id in history", "vmid", vmid, "path", s.HistoryFile, "entries", len(h))
	}

	return serializer.NewWriter(serializer.FormatJSON, s.Stdout).Serialize(ctx, h)
}
