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

package gateway

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/netip"
	"strconv"

	"github.com/skytap-tools/skytap-facts/pkg/collector/file"
	"github.com/skytap-tools/skytap-facts/pkg/defaults"
	"github.com/skytap-tools/skytap-facts/pkg/errors"
)

// Mode selects how the metadata host is located.
type Mode string

const (
	// ModeGateway uses the default IPv4 gateway from the routing table.
	ModeGateway Mode = "gateway"
	// ModeLinkLocal uses the fixed link-local metadata address.
	ModeLinkLocal Mode = "link-local"
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeGateway, ModeLinkLocal:
		return true
	default:
		return false
	}
}

// SupportedModes returns the accepted --endpoint values.
func SupportedModes() []string {
	return []string{string(ModeGateway), string(ModeLinkLocal)}
}

// Route table columns and flags, see route(8) and linux/route.h.
const (
	colDestination = 1
	colGateway     = 2
	colFlags       = 3

	rtfUp      = 0x0001
	rtfGateway = 0x0002

	defaultDestination = "00000000"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithMode sets the resolution mode. Default is ModeGateway.
func WithMode(m Mode) Option {
	return func(r *Resolver) {
		r.mode = m
	}
}

// WithHost pins the metadata host, bypassing mode-based discovery.
// The value is still validated as an IPv4 address.
func WithHost(host string) Option {
	return func(r *Resolver) {
		r.host = host
	}
}

// WithRouteTablePath overrides the routing table location.
func WithRouteTablePath(path string) Option {
	return func(r *Resolver) {
		r.routeTablePath = path
	}
}

// Resolver finds the address of the metadata service.
type Resolver struct {
	mode           Mode
	host           string
	routeTablePath string
}

// NewResolver creates a Resolver with the provided options.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		mode:           ModeGateway,
		routeTablePath: defaults.RouteTablePath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the metadata host as a dotted-quad IPv4 string.
// Any value that is not a valid IPv4 address is an INVALID_REQUEST error.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var candidate string
	switch {
	case r.host != "":
		candidate = r.host
	case r.mode == ModeLinkLocal:
		candidate = defaults.LinkLocalHost
	case r.mode == ModeGateway:
		gw, err := DefaultGateway(r.routeTablePath)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidRequest, "could not determine the gateway", err)
		}
		candidate = gw
	default:
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown endpoint mode %q", r.mode),
			map[string]any{"supported": SupportedModes()})
	}

	addr, err := netip.ParseAddr(candidate)
	if err != nil || !addr.Is4() {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("metadata host %q is not a valid IPv4 address", candidate),
			map[string]any{"mode": string(r.mode)})
	}

	slog.Debug("resolved metadata host", "host", addr.String(), "mode", r.mode)
	return addr.String(), nil
}

// DefaultGateway returns the gateway of the first usable default route in
// the kernel routing table at path.
func DefaultGateway(path string) (string, error) {
	rows, err := file.NewParser(file.WithSkipHeader(1)).GetFields(path)
	if err != nil {
		return "", fmt.Errorf("failed to read route table: %w", err)
	}

	for _, row := range rows {
		if len(row) <= colFlags || row[colDestination] != defaultDestination {
			continue
		}

		flags, err := strconv.ParseUint(row[colFlags], 16, 32)
		if err != nil {
			slog.Debug("skipping route with malformed flags", "flags", row[colFlags])
			continue
		}
		if flags&rtfUp == 0 || flags&rtfGateway == 0 {
			continue
		}

		addr, err := parseHexAddr(row[colGateway])
		if err != nil {
			return "", err
		}
		return addr.String(), nil
	}

	return "", errors.NewWithContext(errors.ErrCodeNotFound, "no default route",
		map[string]any{"path": path})
}

// parseHexAddr decodes the little-endian hex form used by /proc/net/route.
func parseHexAddr(s string) (netip.Addr, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 4 {
		return netip.Addr{}, fmt.Errorf("malformed gateway %q in route table", s)
	}
	var ip [4]byte
	binary.BigEndian.PutUint32(ip[:], binary.LittleEndian.Uint32(b))
	return netip.AddrFrom4(ip), nil
}
