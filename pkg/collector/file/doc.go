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

// Package file provides a small parser for line-oriented system files.
//
// # Overview
//
// The collector reads two kinds of local files: the kernel routing table
// (/proc/net/route, whitespace-separated columns with a header row) and
// Facter text fact files (key=value lines, optionally commented out with
// "#"). Parser covers both with functional options.
//
// # Usage
//
// Reading the routing table:
//
//	rows, err := file.NewParser(file.WithSkipHeader(1)).GetFields("/proc/net/route")
//
// Reading a fact file line for line, comments included:
//
//	p := file.NewParser(file.WithSkipComments(false), file.WithKeepEmpty(true))
//	lines, err := p.GetLines(path)
//
// # Limits
//
// Files larger than 1MB (configurable) or not valid UTF-8 are rejected.
package file
