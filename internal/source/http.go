// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/tfctl/nodectl/internal/cacheutil"
	"github.com/tfctl/nodectl/internal/log"
)

type httpSource struct {
	base       *url.URL
	token      string
	augmenters []Augmenter
	client     *retryablehttp.Client
	cacheAge   time.Duration
	noCache    bool
}

func newHTTPSource(spec string, o options) (*httpSource, error) {
	base, err := url.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL: %w", err)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("source URL has no host: %s", spec)
	}

	client := retryablehttp.NewClient()
	client.RetryMax = o.retries
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = o.timeout
	client.Logger = leveledLogger{}

	return &httpSource{
		base:       base,
		token:      o.token,
		augmenters: o.augmenters,
		client:     client,
		cacheAge:   o.cacheAge,
		noCache:    o.noCache,
	}, nil
}

// URL returns the request URL with augmented query parameters.
func (s *httpSource) URL(ctx context.Context) (string, error) {
	u := *s.base
	query := u.Query()
	for _, augment := range s.augmenters {
		if err := augment(ctx, query); err != nil {
			return "", fmt.Errorf("failed to augment query: %w", err)
		}
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

func (s *httpSource) Fetch(ctx context.Context) ([]byte, error) {
	target, err := s.URL(ctx)
	if err != nil {
		return nil, err
	}

	subdirs := []string{"http", s.base.Host}
	key := cacheutil.Key(target, tokenHash(s.token))
	if !s.noCache {
		if entry, ok := cacheutil.Read(subdirs, key, s.cacheAge); ok {
			log.Debugf("cache hit: path=%s", entry.Path)
			return entry.Data, nil
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	log.Debugf("fetching: url=%s", target)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	if !s.noCache {
		if err := cacheutil.Write(subdirs, key, data); err != nil {
			log.WithError(err).Warn("failed to write response to cache")
		}
	}

	return data, nil
}

func (s *httpSource) String() string {
	return s.base.String()
}

// leveledLogger routes retryablehttp's messages through the package logger.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, kv ...interface{}) { log.Errorf("%s", formatKV(msg, kv)) }
func (leveledLogger) Info(msg string, kv ...interface{})  { log.Debugf("%s", formatKV(msg, kv)) }
func (leveledLogger) Debug(msg string, kv ...interface{}) { log.Tracef("%s", formatKV(msg, kv)) }
func (leveledLogger) Warn(msg string, kv ...interface{})  { log.Warnf("%s", formatKV(msg, kv)) }

func formatKV(msg string, kv []interface{}) string {
	for i := 0; i+1 < len(kv); i += 2 {
		msg += fmt.Sprintf(" %v=%v", kv[i], kv[i+1])
	}
	return msg
}

// tokenHash keeps tokens out of cache keys while still separating callers.
func tokenHash(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
