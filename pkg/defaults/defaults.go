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

package defaults

import "time"

// Metadata endpoint location.
const (
	// LinkLocalHost is the fixed address of the metadata service when the
	// default gateway is not used.
	LinkLocalHost = "169.254.169.254"

	// MetadataPath is the request path served by the metadata service.
	MetadataPath = "/skytap"

	// RouteTablePath is the kernel IPv4 routing table consulted to find the
	// default gateway.
	RouteTablePath = "/proc/net/route"
)

// Fact naming.
const (
	// FactPrefix namespaces every emitted fact key.
	FactPrefix = "skytap_"
)

// Output locations.
const (
	// FactsFilePath is where Facter picks up external JSON facts.
	FactsFilePath = "/etc/puppetlabs/facter/facts.d/skytap.json"

	// HistoryFilePath holds the JSON array of VM ids seen on this machine.
	HistoryFilePath = "/var/log/skytap-history.log"

	// RolesFilePath is the conventional location of the role assignment file.
	RolesFilePath = "/etc/puppetlabs/facter/facts.d/roles.txt"
)

// HTTP client timeouts for the metadata request.
const (
	// HTTPClientTimeout is the default total timeout for the request.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing the connection.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// File permissions for written outputs.
const (
	// FactsFileMode is readable by Facter running as any user.
	FactsFileMode = 0o644
)
