// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package nodes

import (
	"strings"

	"github.com/tfctl/nodectl/internal/search"
)

// FreeTextParam carries positive free-text terms to the server.
const FreeTextParam = "free_text"

// FetchFilters translates filters into server-side parameters so an API can
// narrow a listing before it is transferred. Negated values go to a "not_"
// parameter. Filters the server doesn't know, negated free text and the
// selected pseudo-filter are left out and only applied locally, so the
// local pass must always run on the response.
func (k *Kind) FetchFilters(filters search.Filters) search.Filters {
	var params search.Filters

	for _, entry := range filters {
		switch {
		case entry.Key == search.FreeTextKey:
			for _, raw := range entry.Values {
				if term := search.ParseTerm(raw); !term.Negate && term.Value != "" {
					params.Append(FreeTextParam, term.Value)
				}
			}
		case entry.Key == search.SelectedKey:
		case k.isPrefixedKey(entry.Key):
			k.appendPrefixed(&params, entry)
		default:
			param, ok := k.FetchKeys[entry.Key]
			if !ok {
				continue
			}
			for _, raw := range entry.Values {
				term := search.ParseTerm(raw)
				key := param
				if term.Negate {
					key = "not_" + param
				}
				params.Append(key, search.Term{Value: term.Value, Exact: term.Exact}.String())
			}
		}
	}

	return params
}

// appendPrefixed sends "name:value" pairs for a prefixed filter whose
// namespace has a server-side parameter.
func (k *Kind) appendPrefixed(params *search.Filters, entry search.Filter) {
	for _, pf := range k.Prefixed {
		name, ok := strings.CutPrefix(entry.Key, pf.Prefix+"-")
		if !ok {
			continue
		}
		param, ok := k.FetchKeys[pf.Filter]
		if !ok {
			return
		}
		for _, raw := range entry.Values {
			term := search.ParseTerm(raw)
			if term.Negate {
				continue
			}
			params.Append(param, name+":"+term.Value)
		}
		return
	}
}
