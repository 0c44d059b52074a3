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
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"
)

// UserDataStatus reports how a user-data field was handled.
type UserDataStatus string

const (
	// StatusGood means the field parsed to a non-empty mapping.
	StatusGood UserDataStatus = "good"
	// StatusEmpty means the field was blank or an empty mapping.
	StatusEmpty UserDataStatus = "empty"
	// StatusError means the field could not be parsed as a YAML mapping.
	StatusError UserDataStatus = "error"
)

// StatusKey returns the fact holding the status for source.
func StatusKey(source string) string {
	return source + "_status"
}

// ErrorKey returns the fact holding the parse failure detail for source.
func ErrorKey(source string) string {
	return source + "_error"
}

// UserData is the parse result for one free-text field.
type UserData struct {
	Status UserDataStatus
	// Values holds the top-level keys of a good document.
	Values map[string]any
	// Err is set when Status is StatusError.
	Err error
}

// ParseUserData parses a free-text field as YAML. A nil value is treated as
// blank. Only a mapping (or nothing) is accepted at the top level.
func ParseUserData(raw any) UserData {
	var text string
	switch t := raw.(type) {
	case nil:
	case string:
		text = t
	default:
		return UserData{Status: StatusError, Err: fmt.Errorf("user data is %T, not text", raw)}
	}

	if strings.TrimSpace(text) == "" {
		return UserData{Status: StatusEmpty}
	}

	var doc any
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return UserData{Status: StatusError, Err: err}
	}

	values, err := toStringMap(doc)
	if err != nil {
		return UserData{Status: StatusError, Err: err}
	}
	if len(values) == 0 {
		return UserData{Status: StatusEmpty}
	}
	return UserData{Status: StatusGood, Values: values}
}

func toStringMap(doc any) (map[string]any, error) {
	switch t := doc.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return t, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[fmt.Sprint(k)] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("user data is not a mapping (got %T)", doc)
	}
}

// ExtractUserData parses f[source] and records the outcome in f: a status
// fact, one fact per top-level key on success, or an error detail fact on
// failure. Absent sources are left alone. The source key itself is kept;
// Redact removes it.
func ExtractUserData(f Facts, source string) UserData {
	raw, ok := f[source]
	if !ok {
		return UserData{}
	}

	res := ParseUserData(raw)

	switch res.Status {
	case StatusGood:
		for k, v := range res.Values {
			f[source+"_"+SanitizeKey(k)] = flattenUserValue(v)
		}
	case StatusError:
		f[ErrorKey(source)] = res.Err.Error()
		slog.Warn("failed to parse user data", "source", source, "error", res.Err)
	case StatusEmpty:
	}

	// Written last so a user key named "status" cannot mask it.
	f[StatusKey(source)] = string(res.Status)
	return res
}

// flattenUserValue keeps scalars and renders nested structures as JSON text
// so every fact stays a single value.
func flattenUserValue(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case map[string]any, []any:
		return FormatValue(t)
	case map[any]any:
		m, _ := toStringMap(t)
		return FormatValue(m)
	default:
		return v
	}
}
