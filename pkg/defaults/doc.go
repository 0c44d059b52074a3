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

// Package defaults provides centralized configuration constants for the
// fact collector.
//
// This package defines the metadata endpoint location, fact namespace,
// output file locations, and HTTP client timeouts. Every value here can be
// overridden from the command line; nothing else in the module hardcodes a
// path or host.
//
// # Categories
//
//   - Endpoint: link-local host, metadata path, route table location
//   - Facts: namespace prefix
//   - Paths: facts file, history log, roles file
//   - HTTP client timeouts: for the single outbound metadata request
package defaults
