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

// Package history keeps the list of VM ids a machine has reported.
//
// A VM id changes when the machine is cloned from a template or copied
// between environments, so the list records every identity the disk has
// carried. The list is persisted as a JSON array. Ids are only ever
// appended, and each id appears at most once.
//
// There is no locking. Two concurrent runs that both load, record and save
// the file race, and the last writer wins.
package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/skytap-tools/skytap-facts/pkg/defaults"
	"github.com/skytap-tools/skytap-facts/pkg/errors"
)

// History is the ordered list of VM ids seen on this machine.
type History []string

// Contains reports whether id has already been recorded.
func (h History) Contains(id string) bool {
	return slices.Contains(h, id)
}

// Record returns h with id appended when it is not already present.
// The boolean is true when the history changed.
func (h History) Record(id string) (History, bool) {
	if id == "" || h.Contains(id) {
		return h, false
	}
	return append(slices.Clone(h), id), true
}

// Load reads the history at path. A missing or empty file is an empty
// history. Numeric entries are accepted and stored as strings.
func Load(path string) (History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return History{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("failed to read history file %s", path), err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return History{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("history file %s is not a JSON array", path), err)
	}

	h := make(History, 0, len(raw))
	for i, v := range raw {
		switch t := v.(type) {
		case string:
			h = append(h, t)
		case json.Number:
			h = append(h, t.String())
		default:
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"history entry is not a string or number",
				map[string]any{"path": path, "index": i})
		}
	}

	return h, nil
}

// Save writes h to path as a JSON array, replacing any existing content.
func Save(path string, h History) error {
	if h == nil {
		h = History{}
	}

	data, err := json.Marshal(h)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to encode history", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), defaults.FactsFileMode); err != nil {
		return errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("failed to write history file %s", path), err)
	}

	return nil
}

// Update loads the history at path, records id and saves the result when
// it changed. It returns the resulting history.
func Update(path, id string) (History, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, errors.New(errors.ErrCodeInvalidRequest, "vm id is required to record history")
	}

	h, err := Load(path)
	if err != nil {
		return nil, false, err
	}

	updated, changed := h.Record(id)
	if !changed {
		return updated, false, nil
	}

	if err := Save(path, updated); err != nil {
		return nil, false, err
	}

	return updated, true, nil
}
