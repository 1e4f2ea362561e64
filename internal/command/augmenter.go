// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tfctl/nodectl/internal/log"
	"github.com/tfctl/nodectl/internal/nodes"
	"github.com/tfctl/nodectl/internal/search"
	"github.com/tfctl/nodectl/internal/source"
)

// Augmenter[T] is a callback function that customizes options before a
// fetch. It receives the context and a pointer to the options object,
// allowing mutation of options. Return an error to abort the fetch.
type Augmenter[T any] func(context.Context, *T) error

// FetchFiltersAugmenter translates filter into the kind's server-side
// parameters and adds them to the request query. The in:selected filter
// stays client side.
func FetchFiltersAugmenter(kind *nodes.Kind, filter string) source.Augmenter {
	var augment Augmenter[url.Values] = func(_ context.Context, query *url.Values) error {
		h := search.NewHandlers(kind.Prefixed...)
		params := kind.FetchFilters(h.CurrentFilters(filter))

		qs := strings.TrimPrefix(h.FiltersToQueryString(params), "?")
		if qs == "" {
			return nil
		}
		values, err := url.ParseQuery(qs)
		if err != nil {
			return fmt.Errorf("failed to build query %q: %w", qs, err)
		}
		for key, vals := range values {
			for _, v := range vals {
				query.Add(key, v)
			}
		}
		log.Debugf("query augmented: kind=%s, query=%s", kind.Name, qs)
		return nil
	}

	return func(ctx context.Context, query url.Values) error {
		return augment(ctx, &query)
	}
}
