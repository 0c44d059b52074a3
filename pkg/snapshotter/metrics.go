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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/skytap-tools/skytap-facts/pkg/facts"
)

// Pipeline stages reported in skytap_facts_stage_duration_seconds.
const (
	stageResolve = "resolve"
	stageFetch   = "fetch"
	stageExtract = "extract"
	stageEmit    = "emit"
	stageHistory = "history"
	stageRoles   = "roles"
)

// Metrics holds the run metrics of a single invocation. The process exits
// after one run, so values are gauges written to a node_exporter textfile
// rather than served.
type Metrics struct {
	registry *prometheus.Registry

	runDuration      prometheus.Gauge
	lastRunSuccess   prometheus.Gauge
	lastRunTimestamp prometheus.Gauge
	stageDuration    *prometheus.GaugeVec
	factCount        prometheus.Gauge
	userDataStatus   *prometheus.GaugeVec
	historyEntries   prometheus.Gauge
}

// NewMetrics creates the metrics on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "skytap_facts_run_duration_seconds",
			Help: "Time taken by the last fact collection run",
		}),
		lastRunSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "skytap_facts_last_run_success",
			Help: "1 if the last fact collection run succeeded, 0 otherwise",
		}),
		lastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "skytap_facts_last_run_timestamp_seconds",
			Help: "Unix time the last fact collection run finished",
		}),
		stageDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "skytap_facts_stage_duration_seconds",
			Help: "Time taken by each pipeline stage in the last run",
		}, []string{"stage"}),
		factCount: factory.NewGauge(prometheus.GaugeOpts{
			Name: "skytap_facts_facts",
			Help: "Number of facts emitted by the last run",
		}),
		userDataStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "skytap_facts_user_data_status",
			Help: "Parse status of each user data field, 1 for the current status",
		}, []string{"source", "status"}),
		historyEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "skytap_facts_history_entries",
			Help: "Number of VM ids in the history file",
		}),
	}
}

// Registry returns the registry holding the run metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile writes the metrics in the text exposition format.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observeStage(stage string, start time.Time) {
	m.stageDuration.WithLabelValues(stage).Set(time.Since(start).Seconds())
}

func (m *Metrics) observeFacts(f facts.Facts) {
	m.factCount.Set(float64(len(f)))

	for _, source := range facts.UserDataSources {
		status, ok := f[facts.StatusKey(source)].(string)
		if !ok {
			continue
		}
		for _, s := range []facts.UserDataStatus{facts.StatusGood, facts.StatusEmpty, facts.StatusError} {
			v := 0.0
			if string(s) == status {
				v = 1
			}
			m.userDataStatus.WithLabelValues(source, string(s)).Set(v)
		}
	}
}

func (m *Metrics) observeRun(start time.Time, err error) {
	m.runDuration.Set(time.Since(start).Seconds())
	m.lastRunTimestamp.SetToCurrentTime()
	if err != nil {
		m.lastRunSuccess.Set(0)
		return
	}
	m.lastRunSuccess.Set(1)
}
