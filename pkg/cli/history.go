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

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/skytap-tools/skytap-facts/pkg/history"
	"github.com/skytap-tools/skytap-facts/pkg/serializer"
)

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Print the recorded VM id history",
		Description: `Prints the JSON array of VM ids stored in --history-file without
contacting the metadata service. A missing file prints an empty array.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			h, err := history.Load(cmd.String("history-file"))
			if err != nil {
				return err
			}
			return serializer.NewWriter(serializer.FormatJSON, cmd.Root().Writer).Serialize(ctx, h)
		},
	}
}
