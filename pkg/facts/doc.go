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

// Package facts turns the metadata document into flat Facter facts.
//
// # Pipeline
//
// Build runs two steps over a decoded document:
//
//  1. Normalize prefixes every mapping key with "skytap_", recursively and
//     idempotently.
//  2. Extract derives the flat fact set:
//     - skytap_envid: last path segment of skytap_configuration_url
//     - skytap_vmid: renamed from skytap_id
//     - skytap_hardware_uuid: hoisted from skytap_hardware
//     - skytap_nat_ip_<id>: one per NAT address entry
//     - skytap_user_data_* and skytap_configuration_user_data_*: the
//     top-level keys of those fields parsed as YAML, plus a _status fact
//     of good, empty, or error
//     - credentials, raw interfaces, raw hardware, UI flags, and the
//     consumed user-data sources are removed
//
// Malformed user data never fails the run; it is reported through the
// status fact and a matching _error fact.
package facts
