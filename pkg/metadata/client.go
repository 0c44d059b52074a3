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

package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/skytap-tools/skytap-facts/pkg/defaults"
	"github.com/skytap-tools/skytap-facts/pkg/errors"
)

const (
	// ClientUserAgent identifies the collector to the metadata service.
	ClientUserAgent = "skytap-facts/1.0"

	// JSONMediaType is the only accepted response media type.
	JSONMediaType = "application/json"

	// maxBodySize bounds the response; metadata documents are a few KB.
	maxBodySize = 4 << 20
)

// Document is the decoded metadata response. Numbers are kept as
// json.Number so identifiers round-trip without float conversion.
type Document map[string]any

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the total request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithPath overrides the request path. Default is /skytap.
func WithPath(path string) ClientOption {
	return func(c *Client) {
		c.path = path
	}
}

// WithHTTPClient supplies a preconfigured client; the timeout option is then
// applied only when the supplied client has none.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.http = client
	}
}

// Client fetches the VM metadata document over plain HTTP.
type Client struct {
	userAgent string
	timeout   time.Duration
	path      string
	http      *http.Client
}

// NewClient creates a Client with the provided options.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		userAgent: ClientUserAgent,
		timeout:   defaults.HTTPClientTimeout,
		path:      defaults.MetadataPath,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{
			Timeout:   c.timeout,
			Transport: newTransport(),
		}
	} else if c.http.Timeout == 0 {
		c.http.Timeout = c.timeout
	}
	return c
}

func newTransport() *http.Transport {
	return &http.Transport{
		// The metadata service sits on the local link; never go through a proxy.
		Proxy: nil,
		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		MaxIdleConns:          1,
	}
}

// URL returns the metadata URL for host.
func (c *Client) URL(host string) string {
	u := url.URL{Scheme: "http", Host: host, Path: c.path}
	return u.String()
}

// Fetch issues a single GET against host and decodes the JSON document.
// It fails when the status is not 200, when the media type is not
// application/json, or when the body is not a JSON object. No retries.
func (c *Client) Fetch(ctx context.Context, host string) (Document, error) {
	if host == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "metadata host is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	target := c.URL(host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("failed to create request for %s", target), err)
	}
	req.Header.Set("Accept", JSONMediaType)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	slog.Debug("fetching metadata", "url", target)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		code := errors.ErrCodeUnavailable
		if ctx.Err() == context.DeadlineExceeded {
			code = errors.ErrCodeTimeout
		}
		return nil, errors.WrapWithContext(code, "metadata request failed", err,
			map[string]any{"url": target})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewWithContext(errors.ErrCodeUnavailable,
			fmt.Sprintf("error received by JSON request, status code: %d", resp.StatusCode),
			map[string]any{"url": target, "status": resp.Status})
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err != nil || mediaType != JSONMediaType {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("returned text from server isn't JSON, content-type: %q", contentType),
			map[string]any{"url": target})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to read metadata response", err)
	}

	doc, err := Decode(body)
	if err != nil {
		return nil, err
	}

	slog.Debug("fetched metadata",
		"url", target,
		"keys", len(doc),
		"duration_ms", time.Since(start).Milliseconds())
	return doc, nil
}

// Decode parses a metadata document. The top level must be a JSON object.
func Decode(body []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to decode metadata JSON", err)
	}
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "metadata document is not a JSON object")
	}
	return doc, nil
}
