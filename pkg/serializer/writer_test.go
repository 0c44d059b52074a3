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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const (
	test1Name = "test1"
)

type testConfig struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	data := []testConfig{
		{Name: test1Name, Value: 123},
		{Name: "test2", Value: 456},
	}

	err := writer.Serialize(context.Background(), data)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result []testConfig
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	if len(result) != 2 {
		t.Errorf("Expected 2 items, got %d", len(result))
	}

	if result[0].Name != test1Name || result[0].Value != 123 {
		t.Errorf("Unexpected data: %+v", result[0])
	}

	if !strings.Contains(buf.String(), "\n  ") {
		t.Errorf("Expected indented JSON, got %q", buf.String())
	}
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	data := map[string]any{
		"skytap_name": "web-01",
		"skytap_tags": []any{"a", "b"},
	}

	err := writer.Serialize(context.Background(), data)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}

	if result["skytap_name"] != "web-01" {
		t.Errorf("Unexpected data: %+v", result)
	}
}

func TestWriter_SerializeKV(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{
			name: "sorted map",
			data: map[string]any{
				"skytap_vmid":  "123",
				"skytap_envid": "456",
				"skytap_name":  "web-01",
			},
			want: "skytap_envid=456\nskytap_name=web-01\nskytap_vmid=123\n",
		},
		{
			name: "composite values become json",
			data: map[string]any{
				"skytap_tags": []any{"a", "b"},
				"skytap_meta": map[string]any{"k": "v"},
			},
			want: "skytap_meta={\"k\":\"v\"}\nskytap_tags=[\"a\",\"b\"]\n",
		},
		{
			name: "scalars",
			data: map[string]any{
				"skytap_runstate": true,
				"skytap_cpus":     json.Number("2"),
				"skytap_empty":    nil,
			},
			want: "skytap_cpus=2\nskytap_empty=\nskytap_runstate=true\n",
		},
		{
			name: "embedded newline is escaped",
			data: map[string]any{"skytap_note": "a\nb"},
			want: "skytap_note=a\\nb\n",
		},
		{
			name: "struct is flattened",
			data: testConfig{Name: test1Name, Value: 7},
			want: "Name=test1\nValue=7\n",
		},
		{
			name: "slice is flattened",
			data: []string{"x", "y"},
			want: "0=x\n1=y\n",
		},
		{
			name: "scalar uses default key",
			data: "alone",
			want: "value=alone\n",
		},
		{
			name: "empty map",
			data: map[string]any{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writer := NewWriter(FormatKV, &buf)
			if err := writer.Serialize(context.Background(), tt.data); err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriter_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(Format("unsupported"), &buf)

	err := writer.Serialize(context.Background(), map[string]any{"skytap_a": "1"})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	// Unknown formats fall back to JSON
	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Expected JSON fallback, got %q: %v", buf.String(), err)
	}
}

func TestWriter_CanceledContext(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := writer.Serialize(ctx, map[string]any{}); err == nil {
		t.Error("Expected error for canceled context")
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}

func TestNewFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skytap.json")

	if err := os.WriteFile(path, []byte("stale content that is longer than the new one"), 0o600); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	writer, err := NewFileWriter(FormatJSON, path)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}

	if err := writer.Serialize(context.Background(), map[string]any{"skytap_vmid": "1"}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(content, &result); err != nil {
		t.Fatalf("file is not valid JSON after overwrite: %q", content)
	}
	if result["skytap_vmid"] != "1" {
		t.Errorf("Unexpected data: %+v", result)
	}
}

func TestNewFileWriter_Errors(t *testing.T) {
	if _, err := NewFileWriter(FormatJSON, "  "); err == nil {
		t.Error("Expected error for empty path")
	}

	missing := filepath.Join(t.TempDir(), "missing", "dir", "skytap.json")
	if _, err := NewFileWriter(FormatJSON, missing); err == nil {
		t.Error("Expected error for unwritable path")
	}
}

func TestWriter_Close(t *testing.T) {
	writer := NewStdoutWriter(FormatJSON)

	// Closing a stdout writer is a no-op and idempotent
	if err := writer.Close(); err != nil {
		t.Errorf("First Close failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.txt")
	fileWriter, err := NewFileWriter(FormatKV, path)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	if err := fileWriter.Close(); err != nil {
		t.Errorf("First Close failed: %v", err)
	}
	if err := fileWriter.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"/etc/puppetlabs/facter/facts.d/skytap.json", FormatJSON},
		{"facts.YAML", FormatYAML},
		{"facts.yml", FormatYAML},
		{"facts.txt", FormatKV},
		{"facts", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	if len(formats) != 3 {
		t.Fatalf("Expected 3 formats, got %d", len(formats))
	}
	for _, f := range formats {
		if Format(f).IsUnknown() {
			t.Errorf("format %q reported unknown", f)
		}
	}
}
