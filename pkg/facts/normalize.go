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
	"strings"

	"github.com/skytap-tools/skytap-facts/pkg/defaults"
)

// PrefixKey returns key with the fact namespace prepended unless it is
// already there.
func PrefixKey(key string) string {
	if strings.HasPrefix(key, defaults.FactPrefix) {
		return key
	}
	return defaults.FactPrefix + key
}

// Normalize returns a copy of v in which every mapping key, at any depth
// and including mappings nested in lists, carries the fact prefix exactly
// once. Scalars are returned unchanged. Normalize(Normalize(v)) equals
// Normalize(v).
//
// When a mapping holds both "x" and "skytap_x", the already prefixed entry
// wins so the result does not depend on map iteration order.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if !strings.HasPrefix(k, defaults.FactPrefix) {
				out[PrefixKey(k)] = Normalize(val)
			}
		}
		for k, val := range t {
			if strings.HasPrefix(k, defaults.FactPrefix) {
				out[k] = Normalize(val)
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	default:
		return v
	}
}

// NormalizeDocument is Normalize for a decoded top-level object.
func NormalizeDocument(doc map[string]any) map[string]any {
	out, _ := Normalize(doc).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	return out
}
