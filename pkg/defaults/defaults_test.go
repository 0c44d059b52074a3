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

import (
	"net/netip"
	"strings"
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		{"HTTPClientTimeout", HTTPClientTimeout, 10 * time.Second, 60 * time.Second},
		{"HTTPConnectTimeout", HTTPConnectTimeout, 1 * time.Second, 15 * time.Second},
		{"HTTPResponseHeaderTimeout", HTTPResponseHeaderTimeout, 1 * time.Second, 30 * time.Second},
		{"HTTPKeepAlive", HTTPKeepAlive, 10 * time.Second, 120 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) exceeds maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestTimeoutRelationships(t *testing.T) {
	if HTTPConnectTimeout >= HTTPClientTimeout {
		t.Errorf("HTTPConnectTimeout (%v) should be less than HTTPClientTimeout (%v)",
			HTTPConnectTimeout, HTTPClientTimeout)
	}
	if HTTPResponseHeaderTimeout >= HTTPClientTimeout {
		t.Errorf("HTTPResponseHeaderTimeout (%v) should be less than HTTPClientTimeout (%v)",
			HTTPResponseHeaderTimeout, HTTPClientTimeout)
	}
}

func TestLinkLocalHost(t *testing.T) {
	addr, err := netip.ParseAddr(LinkLocalHost)
	if err != nil {
		t.Fatalf("LinkLocalHost %q is not an address: %v", LinkLocalHost, err)
	}
	if !addr.Is4() || !addr.IsLinkLocalUnicast() {
		t.Errorf("LinkLocalHost %q should be an IPv4 link-local address", LinkLocalHost)
	}
}

func TestFactPrefix(t *testing.T) {
	if !strings.HasSuffix(FactPrefix, "_") {
		t.Errorf("FactPrefix %q should end with an underscore", FactPrefix)
	}
	if !strings.HasPrefix(MetadataPath, "/") {
		t.Errorf("MetadataPath %q should be absolute", MetadataPath)
	}
}
