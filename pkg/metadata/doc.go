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

// Package metadata retrieves the VM self-description from the metadata
// service.
//
// One GET is issued against http://<host>/skytap. The response must carry
// status 200 and an application/json media type; anything else is returned
// as a structured error and the caller is expected to abort. There are no
// retries.
//
//	doc, err := metadata.NewClient().Fetch(ctx, host)
//	if err != nil {
//	    return err
//	}
package metadata
