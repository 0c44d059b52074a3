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

package file

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// CommentPrefix marks a line as commented out.
const CommentPrefix = "#"

// Option configures a Parser.
type Option func(*Parser)

// Parser reads small line-oriented system files such as /proc/net/route or
// Facter key=value fact files.
type Parser struct {
	delimiter    string
	maxSize      int
	skipComments bool
	keepEmpty    bool
	skipHeader   int
	kvDelimiter  string
	vTrimChars   string
}

// WithDelimiter sets the delimiter used to split entries in the file.
// Default is newline ("\n").
func WithDelimiter(delim string) Option {
	return func(p *Parser) {
		p.delimiter = delim
	}
}

// WithMaxSize sets the maximum size (in bytes) of the file to be parsed.
// Default is 1MB.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments sets whether lines starting with "#" are dropped.
// Default is true.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithKeepEmpty keeps blank entries and leaves surrounding whitespace intact,
// so a file can be rewritten line for line. Default is false.
func WithKeepEmpty(keep bool) Option {
	return func(p *Parser) {
		p.keepEmpty = keep
	}
}

// WithSkipHeader drops the first n entries, e.g. the column header of
// /proc/net/route. Default is 0.
func WithSkipHeader(n int) Option {
	return func(p *Parser) {
		p.skipHeader = n
	}
}

// WithKVDelimiter sets the key-value delimiter used by GetMap and SplitKV.
// Default is "=".
func WithKVDelimiter(kvDelim string) Option {
	return func(p *Parser) {
		p.kvDelimiter = kvDelim
	}
}

// WithVTrimChars sets characters to trim from values.
// Default is no trimming.
func WithVTrimChars(trimChars string) Option {
	return func(p *Parser) {
		p.vTrimChars = trimChars
	}
}

// NewParser creates a new file parser with the provided options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		delimiter:    "\n",
		maxSize:      1 << 20, // 1MB default
		skipComments: true,
		kvDelimiter:  "=",
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetLines reads the file at path and splits it into entries.
// Blank entries are dropped unless WithKeepEmpty is set.
func (p *Parser) GetLines(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}

	if len(b) > p.maxSize {
		return nil, fmt.Errorf("file %q exceeds maximum size of %d bytes", path, p.maxSize)
	}

	if !utf8.Valid(b) {
		return nil, fmt.Errorf("content of file %q is not valid UTF-8", path)
	}

	content := string(b)
	if p.keepEmpty {
		content = strings.TrimSuffix(content, p.delimiter)
		if content == "" {
			return []string{}, nil
		}
	}
	parts := strings.Split(content, p.delimiter)

	result := make([]string, 0, len(parts))
	for i, part := range parts {
		if i < p.skipHeader {
			continue
		}

		clean := strings.TrimSpace(part)
		if p.skipComments && strings.HasPrefix(clean, CommentPrefix) {
			continue
		}

		if p.keepEmpty {
			result = append(result, strings.TrimRight(part, "\r"))
			continue
		}
		if clean == "" {
			continue
		}
		result = append(result, clean)
	}

	slog.Debug("read file", "path", path, "entries", len(result))
	return result, nil
}

// GetMap reads the file at path and parses each entry as a key-value pair.
// Entries without the delimiter are skipped.
func (p *Parser) GetMap(path string) (map[string]string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(lines))
	for _, line := range lines {
		key, value, ok := p.SplitKV(line)
		if !ok {
			slog.Debug("skipping entry without delimiter", "path", path, "entry", line)
			continue
		}
		result[key] = value
	}
	return result, nil
}

// GetFields reads the file at path and splits every entry on whitespace.
// Used for column-oriented kernel tables.
func (p *Parser) GetFields(path string) ([][]string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, fields)
	}
	return rows, nil
}

// SplitKV splits a single entry into a trimmed key and value.
// A leading comment marker is not stripped; see Uncomment.
func (p *Parser) SplitKV(line string) (key, value string, ok bool) {
	k, v, found := strings.Cut(line, p.kvDelimiter)
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(k)
	if key == "" {
		return "", "", false
	}
	value = strings.TrimSpace(v)
	if p.vTrimChars != "" {
		value = strings.Trim(value, p.vTrimChars)
	}
	return key, value, true
}

// Uncomment strips a leading comment marker and reports whether one was present.
func Uncomment(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, CommentPrefix) {
		return line, false
	}
	return strings.TrimLeft(strings.TrimPrefix(trimmed, CommentPrefix), " \t"), true
}
