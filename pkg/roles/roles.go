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

// Package roles toggles entries in a role assignment file to match the
// facts of the current VM.
//
// The file holds key=value lines, any of which may be commented out with
// "#". For every line whose key is a known fact, the line is enabled when
// its value equals the fact and commented out otherwise. A template image
// can therefore carry the role lines for every environment and keep only
// the matching ones active after each clone.
//
//	# web tier
//	skytap_envid=12345
//	# skytap_envid=67890
//
// Lines with unknown keys, blank lines and free-form comments are left as
// they are.
package roles

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/skytap-tools/skytap-facts/pkg/collector/file"
	"github.com/skytap-tools/skytap-facts/pkg/errors"
	"github.com/skytap-tools/skytap-facts/pkg/facts"
)

// Result summarizes an Apply call.
type Result struct {
	Enabled  int
	Disabled int
	Changed  bool
}

// Apply rewrites the role file at path in place so that it agrees with f.
// The file is only written when at least one line changed.
func Apply(path string, f facts.Facts) (*Result, error) {
	parser := file.NewParser(
		file.WithSkipComments(false),
		file.WithKeepEmpty(true),
	)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound,
				fmt.Sprintf("role file %s not found", path), err)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to stat role file", err)
	}

	lines, err := parser.GetLines(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to read role file", err)
	}

	res := &Result{}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = toggle(parser, line, f, res)
		if out[i] != line {
			res.Changed = true
		}
	}

	if !res.Changed {
		slog.Debug("role file already up to date", "path", path)
		return res, nil
	}

	content := strings.Join(out, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("failed to write role file %s", path), err)
	}

	slog.Info("role file updated",
		"path", path,
		"enabled", res.Enabled,
		"disabled", res.Disabled)

	return res, nil
}

// toggle returns the line as it should appear for f.
func toggle(parser *file.Parser, line string, f facts.Facts, res *Result) string {
	body, commented := file.Uncomment(line)

	key, value, ok := parser.SplitKV(body)
	if !ok {
		return line
	}

	actual, known := f[key]
	if !known {
		return line
	}

	if value == facts.FormatValue(actual) {
		res.Enabled++
		if !commented {
			return line
		}
		return body
	}

	res.Disabled++
	if commented {
		return line
	}
	return file.CommentPrefix + " " + line
}
