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

// Package snapshotter runs the fact collection pipeline for the current VM.
//
// A run resolves the metadata host, fetches the metadata document, builds
// the namespaced facts and writes them to every configured output. It can
// also record the VM id in the history file, toggle the role file and
// write run metrics for the node_exporter textfile collector.
//
// # Usage
//
// Defaults (gateway lookup, kv facts on stdout):
//
//	s := &snapshotter.FactSnapshotter{Version: "v1.0.0"}
//	if _, err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// Facter JSON file plus history:
//
//	s := &snapshotter.FactSnapshotter{
//	    Version: "v1.0.0",
//	    Outputs: []snapshotter.Output{
//	        {Format: serializer.FormatJSON, Path: defaults.FactsFilePath},
//	    },
//	    HistoryFile: defaults.HistoryFilePath,
//	}
//
// Link-local endpoint with a timeout:
//
//	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
//	defer cancel()
//
//	s := &snapshotter.FactSnapshotter{
//	    Resolver: gateway.NewResolver(gateway.WithMode(gateway.ModeLinkLocal)),
//	}
//
// Output files are overwritten in place and only opened after the facts
// have been built, so a failed fetch never truncates an existing file.
package snapshotter
