// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/tfctl/nodectl/internal/log"
)

// EnvToken names the environment variable holding the API bearer token.
const EnvToken = "NODECTL_TOKEN"

// ErrNoRecords is returned when a payload carries no record list.
var ErrNoRecords = errors.New("payload is not a record list")

// Source fetches one raw inventory payload.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// Augmenter customizes the query parameters of an HTTP source before the
// request is sent. Return an error to abort the fetch.
type Augmenter func(ctx context.Context, query url.Values) error

type options struct {
	stdin      io.Reader
	token      string
	region     string
	profile    string
	s3Client   ObjectGetter
	augmenters []Augmenter
	retries    int
	timeout    time.Duration
	cacheAge   time.Duration
	noCache    bool
}

// Option customizes a Source.
type Option func(*options)

// WithStdin replaces os.Stdin for the "-" spec.
func WithStdin(r io.Reader) Option {
	return func(o *options) { o.stdin = r }
}

// WithToken sets the HTTP bearer token. Defaults to NODECTL_TOKEN.
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// WithRegion sets the AWS region override for S3 sources.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithProfile sets the AWS shared config profile for S3 sources.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithObjectGetter replaces the S3 client, mostly for tests.
func WithObjectGetter(client ObjectGetter) Option {
	return func(o *options) { o.s3Client = client }
}

// WithAugmenter adds a query parameter augmenter to HTTP sources.
func WithAugmenter(fn Augmenter) Option {
	return func(o *options) { o.augmenters = append(o.augmenters, fn) }
}

// WithRetries sets how many times a failed HTTP request is retried.
func WithRetries(n int) Option {
	return func(o *options) { o.retries = n }
}

// WithTimeout bounds each HTTP attempt.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithCache enables the disk cache for HTTP sources. Entries older than
// maxAge are refetched; maxAge <= 0 disables the cache.
func WithCache(maxAge time.Duration) Option {
	return func(o *options) {
		o.cacheAge = maxAge
		o.noCache = maxAge <= 0
	}
}

// New resolves spec into a Source.
func New(ctx context.Context, spec string, opts ...Option) (Source, error) {
	o := options{
		stdin:   os.Stdin,
		token:   os.Getenv(EnvToken),
		retries: 3,
		timeout: 30 * time.Second,
		noCache: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("resolving source: spec=%q", spec)

	switch {
	case spec == "" || spec == "-":
		return &stdinSource{r: o.stdin}, nil
	case strings.HasPrefix(spec, "s3://"):
		return newS3Source(ctx, spec, o)
	case strings.HasPrefix(spec, "http://"), strings.HasPrefix(spec, "https://"):
		return newHTTPSource(spec, o)
	default:
		return &fileSource{path: spec}, nil
	}
}

// Load fetches spec and extracts its records.
func Load(ctx context.Context, spec string, opts ...Option) ([]gjson.Result, error) {
	src, err := New(ctx, spec, opts...)
	if err != nil {
		return nil, err
	}
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
	}
	records, err := Records(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	log.Debugf("records loaded: source=%s, count=%d", src, len(records))
	return records, nil
}

// Records extracts the record list from a payload. Non-object entries are
// skipped.
func Records(data []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("payload is not valid JSON")
	}

	doc := gjson.ParseBytes(data)
	list := doc
	if doc.IsObject() {
		for _, key := range []string{"items", "data"} {
			if v := doc.Get(key); v.IsArray() {
				list = v
				break
			}
		}
	}
	if !list.IsArray() {
		return nil, ErrNoRecords
	}

	var records []gjson.Result
	for _, r := range list.Array() {
		if !r.IsObject() {
			log.Debugf("skipping non-object record: %s", r.Raw)
			continue
		}
		records = append(records, r)
	}
	return records, nil
}
