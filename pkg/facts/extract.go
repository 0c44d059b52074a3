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

package facts

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Build normalizes a decoded metadata document and extracts the facts.
func Build(doc map[string]any) Facts {
	return Extract(NormalizeDocument(doc))
}

// Extract turns a normalized metadata document into flat facts. The input
// is not modified. Steps run in a fixed order: environment id, vm id,
// hardware uuid, NAT addresses, user data, redaction.
func Extract(doc map[string]any) Facts {
	f := make(Facts, len(doc)+8)
	for k, v := range doc {
		f[k] = v
	}

	extractEnvID(f)
	extractVMID(f)
	extractHardwareUUID(f)
	extractNATAddresses(f)
	for _, source := range UserDataSources {
		ExtractUserData(f, source)
	}
	Redact(f)

	return f
}

// Redact deletes every key in RedactedKeys.
func Redact(f Facts) {
	for _, k := range RedactedKeys {
		delete(f, k)
	}
}

// EnvIDFromURL returns the last path segment of a configuration URL,
// e.g. "12345" for https://cloud.skytap.com/configurations/12345.
func EnvIDFromURL(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

func extractEnvID(f Facts) {
	raw, ok := f[KeyConfigurationURL].(string)
	if !ok {
		slog.Warn("configuration url missing, environment id not set", "key", KeyConfigurationURL)
		return
	}
	if id := EnvIDFromURL(raw); id != "" {
		f[KeyEnvID] = id
	}
}

func extractVMID(f Facts) {
	id, ok := f[KeyID]
	if !ok {
		slog.Warn("vm id missing", "key", KeyID)
		return
	}
	f[KeyVMID] = id
	delete(f, KeyID)
}

func extractHardwareUUID(f Facts) {
	hw, ok := f[KeyHardware].(map[string]any)
	if !ok {
		return
	}
	raw, ok := hw[KeyUUID]
	if !ok {
		return
	}
	if s, isStr := raw.(string); isStr {
		if _, err := uuid.Parse(s); err != nil {
			slog.Warn("hardware uuid is not a valid UUID", "uuid", s, "error", err)
		}
	}
	f[KeyHardwareUUID] = raw
}

// extractNATAddresses emits one fact per NAT entry found at the top level
// or under any interface.
func extractNATAddresses(f Facts) {
	var entries []any
	if list, ok := f[KeyNATAddresses].([]any); ok {
		entries = append(entries, list...)
		delete(f, KeyNATAddresses)
	}

	if ifaces, ok := f[KeyInterfaces].([]any); ok {
		for _, iface := range ifaces {
			m, ok := iface.(map[string]any)
			if !ok {
				continue
			}
			entries = append(entries, natEntries(m[KeyNATAddresses])...)
		}
	}

	for k, v := range NATFacts(entries) {
		f[k] = v
	}
}

func natEntries(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		var out []any
		for _, k := range []string{KeyVPNNATAddresses, KeyNetworkNATAddresses} {
			if list, ok := t[k].([]any); ok {
				out = append(out, list...)
			}
		}
		return out
	default:
		return nil
	}
}

// NATFacts maps normalized NAT entries to skytap_nat_ip_<id> = <ip>.
// Entries lacking an id or an ip are skipped.
func NATFacts(entries []any) Facts {
	out := make(Facts, len(entries))
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		id := firstString(m, natIDKeys)
		ip := firstString(m, natIPKeys)
		if id == "" || ip == "" {
			slog.Debug("skipping incomplete nat entry", "id", id, "ip", ip)
			continue
		}
		out[NATKeyPrefix+SanitizeKey(id)] = ip
	}
	return out
}

func firstString(m map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s := FormatValue(v); s != "" {
				return s
			}
		}
	}
	return ""
}
