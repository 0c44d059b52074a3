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

// Package gateway locates the metadata service from inside the VM.
//
// The service answers on the default IPv4 gateway, read from
// /proc/net/route, or on the fixed link-local address 169.254.169.254.
// An explicit host can also be supplied. Whatever the source, the result
// must be a dotted-quad IPv4 address or Resolve fails.
//
//	host, err := gateway.NewResolver(gateway.WithMode(gateway.ModeGateway)).Resolve(ctx)
package gateway
