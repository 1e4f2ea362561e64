// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/nodectl/internal/cacheutil"
)

func hostnames(t *testing.T, ctx context.Context, spec string, opts ...Option) []string {
	t.Helper()
	records, err := Load(ctx, spec, opts...)
	require.NoError(t, err)
	var names []string
	for _, r := range records {
		names = append(names, r.Get("hostname").String())
	}
	return names
}

func TestRecords(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
		wantErr string
	}{
		{"array", `[{"a":1},{"a":2}]`, 2, ""},
		{"items", `{"items":[{"a":1}]}`, 1, ""},
		{"data", `{"data":[{"a":1},{"a":2},{"a":3}]}`, 3, ""},
		{"skips scalars", `[{"a":1}, 2, "x", null]`, 1, ""},
		{"empty array", `[]`, 0, ""},
		{"object without list", `{"items": {"a": 1}}`, 0, "not a record list"},
		{"scalar", `42`, 0, "not a record list"},
		{"invalid", `[{"a":`, 0, "not valid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Records([]byte(tt.payload))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestFileSource(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, []string{"moon", "sun"}, hostnames(t, ctx, filepath.Join("testdata", "machines.json")))

	records, err := Load(ctx, filepath.Join("testdata", "wrapped.json"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "pod-2", records[1].Get("name").String())

	_, err = Load(ctx, filepath.Join("testdata", "missing.json"))
	assert.ErrorContains(t, err, "failed to read file")
}

func TestStdinSource(t *testing.T) {
	ctx := context.Background()
	stdin := strings.NewReader(`{"data": [{"hostname": "mars"}]}`)

	src, err := New(ctx, "-", WithStdin(stdin))
	require.NoError(t, err)
	assert.Equal(t, "stdin", src.String())

	assert.Equal(t, []string{"venus"}, hostnames(t, ctx, "", WithStdin(strings.NewReader(`[{"hostname":"venus"}]`))))
	data, err := src.Fetch(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mars")
}

type fakeS3 struct {
	bucket, key string
	body        string
	err         error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	f.bucket = awsv2.ToString(in.Bucket)
	f.key = awsv2.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3v2.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Source(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{body: `[{"hostname": "moon"}]`}

	assert.Equal(t, []string{"moon"},
		hostnames(t, ctx, "s3://inventory/dc1/machines.json", WithObjectGetter(fake)))
	assert.Equal(t, "inventory", fake.bucket)
	assert.Equal(t, "dc1/machines.json", fake.key)

	fake.err = errors.New("access denied")
	_, err := Load(ctx, "s3://inventory/x.json", WithObjectGetter(fake))
	assert.ErrorContains(t, err, "access denied")
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := ParseS3URL("s3://b/a/b/c.json")
	require.NoError(t, err)
	assert.Equal(t, "b", bucket)
	assert.Equal(t, "a/b/c.json", key)

	for _, bad := range []string{"s3://", "s3://bucket", "s3://bucket/", "s3:///key", "http://b/k"} {
		_, _, err := ParseS3URL(bad)
		assert.Error(t, err, bad)
	}
}

func TestHTTPSource(t *testing.T) {
	t.Setenv(cacheutil.EnvDir, t.TempDir())
	t.Setenv(cacheutil.EnvEnabled, "")

	var hits atomic.Int32
	var gotQuery url.Values
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `[{"hostname": "moon"}]`)
	}))
	defer srv.Close()

	ctx := context.Background()
	augment := WithAugmenter(func(_ context.Context, q url.Values) error {
		q.Set("status", "new")
		return nil
	})
	opts := []Option{WithToken("s3cret"), WithRetries(0), augment}

	assert.Equal(t, []string{"moon"}, hostnames(t, ctx, srv.URL+"/machines/?op=list", opts...))
	assert.Equal(t, "Bearer s3cret", gotAuth)
	assert.Equal(t, "list", gotQuery.Get("op"))
	assert.Equal(t, "new", gotQuery.Get("status"))
	assert.EqualValues(t, 1, hits.Load())

	// Without a cache every load hits the server.
	hostnames(t, ctx, srv.URL+"/machines/?op=list", opts...)
	assert.EqualValues(t, 2, hits.Load())

	// With a cache the second load is served from disk.
	cached := append(opts, WithCache(time.Hour))
	hostnames(t, ctx, srv.URL+"/machines/?op=list", cached...)
	hostnames(t, ctx, srv.URL+"/machines/?op=list", cached...)
	assert.EqualValues(t, 3, hits.Load())

	// A different token is a different cache entry.
	hostnames(t, ctx, srv.URL+"/machines/?op=list", append(cached, WithToken("other"))...)
	assert.EqualValues(t, 4, hits.Load())
}

func TestHTTPSource_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	ctx := context.Background()
	_, err := Load(ctx, srv.URL, WithRetries(0))
	assert.ErrorContains(t, err, "404")

	_, err = Load(ctx, srv.URL, WithRetries(0), WithAugmenter(func(context.Context, url.Values) error {
		return errors.New("bad filter")
	}))
	assert.ErrorContains(t, err, "bad filter")

	_, err = New(ctx, "http://")
	assert.ErrorContains(t, err, "no host")
}

func TestTokenHash(t *testing.T) {
	assert.Empty(t, tokenHash(""))
	assert.Len(t, tokenHash("x"), 16)
	assert.NotContains(t, tokenHash("s3cret"), "s3cret")
}
