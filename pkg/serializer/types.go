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

// Package serializer writes facts and history in the formats Facter and
// operators consume.
//
// The package supports three output formats:
//   - KV: sorted key=value lines, the Facter external text fact format
//   - JSON: indented JSON, the Facter external JSON fact format
//   - YAML: human-readable YAML
//
// Usage:
//
//	writer, err := serializer.NewFileWriter(serializer.FormatJSON, path)
//	if err != nil {
//		return err
//	}
//	defer writer.Close() // Important: close to release file handles
//	if err := writer.Serialize(ctx, facts); err != nil {
//		return err
//	}
//
// Files are truncated and overwritten in place; there is no atomic rename.
package serializer

import "context"

// Serializer writes a value to its destination.
type Serializer interface {
	Serialize(ctx context.Context, data any) error
}

// Closer is an optional interface that Serializers can implement
// if they need to release resources (e.g., close file handles).
type Closer interface {
	Close() error
}
