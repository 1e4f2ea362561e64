// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/nodectl/internal/log"
	"github.com/tfctl/nodectl/internal/nodes"
	"github.com/tfctl/nodectl/internal/output"
	"github.com/tfctl/nodectl/internal/search"
	"github.com/tfctl/nodectl/internal/store"
)

// ListActionRunner encapsulates the common action of the record commands:
// resolve the kind, short-circuit --query, fetch, short-circuit --schema,
// build attrs, search and emit. Fetching the records and post-processing the
// store are provided by the command.
type ListActionRunner struct {
	CommandName string
	// FetchFn returns the records and the raw payload.
	FetchFn func(context.Context, *cli.Command, *nodes.Kind, string) ([]gjson.Result, []byte, error)
	// PrepareFn, when set, runs on the loaded store before the search.
	PrepareFn func(context.Context, *cli.Command, *store.Store) error
}

// Run executes the list action with the provided context and command.
func (lar *ListActionRunner) Run(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("executing action: command=%s, args=%v", lar.CommandName, cmd.Args().Slice())

	kind := m.Kind
	if kind == nil {
		var err error
		if kind, err = ResolveKind(cmd.Args().First()); err != nil {
			return err
		}
	}

	filter := cmd.String("filter")
	if cmd.Bool("query") {
		h := search.NewHandlers(kind.Prefixed...)
		_, err := fmt.Fprintln(writer(cmd), h.FiltersToQueryString(h.CurrentFilters(filter)))
		return err
	}

	records, raw, err := lar.FetchFn(ctx, cmd, kind, filter)
	if err != nil {
		return err
	}

	if DumpSchemaIfRequested(cmd, kind, records) {
		return nil
	}

	attrList, err := BuildAttrs(cmd, kind.Columns...)
	if err != nil {
		return err
	}
	log.Debugf("attrs: %v", attrList.String())

	st, err := NewStore(ctx, cmd, kind, records)
	if err != nil {
		return err
	}
	if lar.PrepareFn != nil {
		if err := lar.PrepareFn(ctx, cmd, st); err != nil {
			return err
		}
		// The payload no longer reflects the store.
		raw = rawRecords(st.Items())
	}

	WarnUnknownKeys(kind, filter, st.Items())
	results := st.Search(filter)
	log.Debugf("search done: filter=%q, matched=%d of %d", filter, len(results), st.Len())

	return output.SliceDiceSpit(results, raw, attrList, st.Accessor().Value, output.OptionsFromCommand(cmd), writer(cmd))
}

// NewListActionRunner creates a ListActionRunner with the provided
// configuration.
func NewListActionRunner(
	commandName string,
	fetchFn func(context.Context, *cli.Command, *nodes.Kind, string) ([]gjson.Result, []byte, error),
) *ListActionRunner {
	return &ListActionRunner{
		CommandName: commandName,
		FetchFn:     fetchFn,
	}
}

// rawRecords re-encodes records as a JSON array.
func rawRecords(records []gjson.Result) []byte {
	parts := make([]string, 0, len(records))
	for _, r := range records {
		parts = append(parts, r.Raw)
	}
	return []byte("[" + strings.Join(parts, ",") + "]\n")
}
