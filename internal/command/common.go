// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/nodectl/internal/attrs"
	"github.com/tfctl/nodectl/internal/cacheutil"
	"github.com/tfctl/nodectl/internal/config"
	"github.com/tfctl/nodectl/internal/log"
	"github.com/tfctl/nodectl/internal/meta"
	"github.com/tfctl/nodectl/internal/nodes"
	"github.com/tfctl/nodectl/internal/output"
	"github.com/tfctl/nodectl/internal/search"
	"github.com/tfctl/nodectl/internal/source"
	"github.com/tfctl/nodectl/internal/store"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (attrs.AttrList, error) {
	var al attrs.AttrList
	for _, d := range defaults {
		if err := al.Set(d); err != nil {
			return nil, err
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err := al.Set(extras); err != nil {
			return nil, fmt.Errorf("invalid --attrs: %w", err)
		}
	}
	if err := al.SetGlobalTransformSpec(); err != nil {
		return nil, err
	}
	return al, nil
}

// DumpSchemaIfRequested writes the attributes found in records to the
// command's writer when --schema is set, and returns true if it handled the
// request.
func DumpSchemaIfRequested(cmd *cli.Command, kind *nodes.Kind, records []gjson.Result) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(records, kind.FilterNames(), writer(cmd))
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// ResolveKind looks up a kind by name and merges the prefixed filters
// declared for it in the config file.
func ResolveKind(name string) (*nodes.Kind, error) {
	if name == "" {
		return nil, fmt.Errorf("missing kind (want one of %s)", strings.Join(nodes.Names(), ", "))
	}
	kind, err := nodes.Lookup(name)
	if err != nil {
		return nil, err
	}
	extra, err := config.GetPrefixed(kind.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if len(extra) > 0 {
		log.Debugf("config prefixed filters: kind=%s, filters=%v", kind.Name, extra)
		kind = kind.WithPrefixed(extra...)
	}
	return kind, nil
}

// SourceOptions maps the source flags of cmd to source options. When
// filter is non-empty and --remote-filter is set, http(s) sources receive the
// filter as query parameters.
func SourceOptions(cmd *cli.Command, kind *nodes.Kind, filter string) []source.Option {
	opts := []source.Option{
		source.WithRegion(cmd.String("region")),
		source.WithProfile(cmd.String("profile")),
		source.WithTimeout(cmd.Duration("timeout")),
		source.WithCache(cmd.Duration("cache")),
	}
	if r := cmd.Root().Reader; r != nil {
		opts = append(opts, source.WithStdin(r))
	}
	if token := cmd.String("token"); token != "" {
		opts = append(opts, source.WithToken(token))
	}
	if filter != "" && cmd.Bool("remote-filter") {
		opts = append(opts, source.WithAugmenter(FetchFiltersAugmenter(kind, filter)))
	}
	return opts
}

// LoadRecords fetches the records of spec. The raw payload is returned too
// for --output=raw.
func LoadRecords(ctx context.Context, cmd *cli.Command, kind *nodes.Kind, spec, filter string) ([]gjson.Result, []byte, error) {
	PurgeCache()

	src, err := source.New(ctx, spec, SourceOptions(cmd, kind, filter)...)
	if err != nil {
		return nil, nil, err
	}
	raw, err := src.Fetch(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch %s: %w", src, err)
	}
	records, err := source.Records(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", src, err)
	}
	log.Debugf("records loaded: source=%s, count=%d", src, len(records))
	return records, raw, nil
}

// NewStore loads records into a store for kind, resolving tag ids through
// the --tags source when given.
func NewStore(ctx context.Context, cmd *cli.Command, kind *nodes.Kind, records []gjson.Result) (*store.Store, error) {
	var opts []store.Option
	if spec := cmd.String("tags"); spec != "" {
		tags, err := source.Load(ctx, spec, SourceOptions(cmd, kind, "")...)
		if err != nil {
			return nil, fmt.Errorf("failed to load tags: %w", err)
		}
		opts = append(opts, store.WithAccessorOptions(nodes.WithTags(tags)))
	}

	st, err := store.New(kind, opts...)
	if err != nil {
		return nil, err
	}
	st.Load(records)
	st.SetSelected(cmd.StringSlice("selected"))
	return st, nil
}

// WarnUnknownKeys logs a warning for filter keys no record carries, with
// suggestions for what may have been meant.
func WarnUnknownKeys(kind *nodes.Kind, filter string, records []gjson.Result) {
	h := search.NewHandlers(kind.Prefixed...)
	for _, key := range kind.UnknownKeys(h.CurrentFilters(filter), records) {
		if hints := kind.Suggest(key, records); len(hints) > 0 {
			log.Warnf("unknown filter %q, did you mean %s?", key, strings.Join(hints, ", "))
		} else {
			log.Warnf("unknown filter %q", key)
		}
	}
}

// PurgeCache removes cache entries older than cache.clean hours.
func PurgeCache() {
	cleanHours, _ := config.GetInt("cache.clean", 0)
	if err := cacheutil.Purge(cleanHours); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}
}

// writer returns the root command's writer.
func writer(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}
