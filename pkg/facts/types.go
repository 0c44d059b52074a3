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

package facts

import (
	"sort"

	"github.com/skytap-tools/skytap-facts/pkg/defaults"
)

// Facts is the flat, namespaced mapping handed to Facter.
type Facts map[string]any

// Keys returns the fact names in sorted order.
func (f Facts) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns the fact value for key rendered as text, or "" when absent.
func (f Facts) String(key string) string {
	v, ok := f[key]
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// Metadata document keys after normalization.
const (
	KeyID                    = defaults.FactPrefix + "id"
	KeyVMID                  = defaults.FactPrefix + "vmid"
	KeyConfigurationURL      = defaults.FactPrefix + "configuration_url"
	KeyEnvID                 = defaults.FactPrefix + "envid"
	KeyHardware              = defaults.FactPrefix + "hardware"
	KeyUUID                  = defaults.FactPrefix + "uuid"
	KeyHardwareUUID          = defaults.FactPrefix + "hardware_uuid"
	KeyInterfaces            = defaults.FactPrefix + "interfaces"
	KeyNATAddresses          = defaults.FactPrefix + "nat_addresses"
	KeyVPNNATAddresses       = defaults.FactPrefix + "vpn_nat_addresses"
	KeyNetworkNATAddresses   = defaults.FactPrefix + "network_nat_addresses"
	KeyCredentials           = defaults.FactPrefix + "credentials"
	KeyLocalMouseCursor      = defaults.FactPrefix + "local_mouse_cursor"
	KeyDesktopResizable      = defaults.FactPrefix + "desktop_resizable"
	KeyUserData              = defaults.FactPrefix + "user_data"
	KeyConfigurationUserData = defaults.FactPrefix + "configuration_user_data"

	// NATKeyPrefix starts every synthesized NAT fact, e.g. skytap_nat_ip_2.
	NATKeyPrefix = defaults.FactPrefix + "nat_ip_"
)

// NAT entry fields, tried in order.
var (
	natIDKeys = []string{
		defaults.FactPrefix + "id",
		defaults.FactPrefix + "vpn_id",
		defaults.FactPrefix + "network_id",
	}
	natIPKeys = []string{
		defaults.FactPrefix + "ip",
		defaults.FactPrefix + "ip_address",
	}
)

// UserDataSources are the free-text fields parsed as YAML.
var UserDataSources = []string{
	KeyUserData,
	KeyConfigurationUserData,
}

// RedactedKeys are always absent from the emitted facts.
var RedactedKeys = []string{
	KeyInterfaces,
	KeyHardware,
	KeyCredentials,
	KeyLocalMouseCursor,
	KeyDesktopResizable,
	KeyUserData,
	KeyConfigurationUserData,
}
