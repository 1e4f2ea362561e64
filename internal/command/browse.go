// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/nodectl/internal/browse"
	"github.com/tfctl/nodectl/internal/config"
	"github.com/tfctl/nodectl/internal/meta"
)

// browseCommandAction opens an interactive search box over the records of a
// source. On exit it prints the final search, the active record and the
// selection, so they can be fed back to ls.
func browseCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "browse"

	kind, err := ResolveKind(cmd.Args().First())
	if err != nil {
		return err
	}
	// The search changes interactively, so nothing is filtered remotely.
	records, _, err := LoadRecords(ctx, cmd, kind, cmd.Args().Get(1), "")
	if err != nil {
		return err
	}
	columns, err := BuildAttrs(cmd, kind.Columns...)
	if err != nil {
		return err
	}
	st, err := NewStore(ctx, cmd, kind, records)
	if err != nil {
		return err
	}

	res, err := browse.Run(ctx, st,
		browse.WithSearch(cmd.String("filter")),
		browse.WithColumns(columns))
	if err != nil {
		return err
	}

	w := writer(cmd)
	fmt.Fprintf(w, "filter: %s\n", res.Search)
	if res.Active != "" {
		fmt.Fprintf(w, "active: %s\n", res.Active)
	}
	if len(res.Selected) > 0 {
		fmt.Fprintf(w, "selected: %s\n", strings.Join(res.Selected, ","))
	}
	return nil
}

// browseCommandBuilder constructs the cli.Command for "browse".
func browseCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "search records interactively",
		UsageText: "nodectl browse <kind> [source] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "attrs",
				Aliases: []string{"a"},
				Usage:   "comma-separated list of attributes to show for each record",
			},
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "initial search terms",
			},
			&cli.StringSliceFlag{
				Name:  "selected",
				Usage: "primary keys of the initially selected records",
			},
			&cli.StringFlag{
				Name:  "tags",
				Usage: "source of tag records used to resolve numeric tag ids",
			},
		}, NewSourceFlags("browse", meta.Config.Source)...),
		Action: browseCommandAction,
	}
}
