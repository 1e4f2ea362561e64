// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/nodectl/internal/config"
	"github.com/tfctl/nodectl/internal/differ"
	"github.com/tfctl/nodectl/internal/log"
	"github.com/tfctl/nodectl/internal/meta"
)

// diffCommandAction filters two snapshots of the same kind and prints the
// delta between them keyed by primary key.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "diff"

	if cmd.Args().Len() != 3 {
		return fmt.Errorf("want a kind and two sources (usage: %s)", cmd.UsageText)
	}
	kind, err := ResolveKind(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	older, newer := cmd.Args().Get(1), cmd.Args().Get(2)
	if older == "-" && newer == "-" {
		return fmt.Errorf("only one snapshot can come from stdin")
	}

	filter := cmd.String("filter")
	load := func(spec string) ([]gjson.Result, error) {
		records, _, err := LoadRecords(ctx, cmd, kind, spec, filter)
		if err != nil {
			return nil, err
		}
		st, err := NewStore(ctx, cmd, kind, records)
		if err != nil {
			return nil, err
		}
		return st.Search(filter), nil
	}

	left, err := load(older)
	if err != nil {
		return err
	}
	right, err := load(newer)
	if err != nil {
		return err
	}

	ignore := cmd.StringSlice("ignore")
	if len(ignore) == 0 {
		ignore, _ = config.GetStringSlice("ignore")
	}

	changes, err := differ.Diff(left, right, kind.NewAccessor().PrimaryKey, differ.Options{
		Ignore: ignore,
		Color:  cmd.Bool("color"),
	}, writer(cmd))
	if err != nil {
		return err
	}
	log.Debugf("diff done: kind=%s, added=%v, removed=%v, changed=%v",
		kind.Name, changes.Added, changes.Removed, changes.Changed)

	if cmd.Bool("exit-code") && !changes.Empty() {
		return cli.Exit("", 1)
	}
	return nil
}

// diffCommandBuilder constructs the cli.Command for "diff".
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "compare two snapshots of records",
		UsageText: "nodectl diff <kind> <old> <new> [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "enable colored diff output",
			},
			&cli.BoolFlag{
				Name:  "exit-code",
				Usage: "exit with status 1 when the snapshots differ",
			},
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "search terms applied to both snapshots",
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "top level attributes left out of the comparison",
			},
			&cli.StringSliceFlag{
				Name:  "selected",
				Usage: "primary keys of the selected records, used by in:selected",
			},
			&cli.StringFlag{
				Name:  "tags",
				Usage: "source of tag records used to resolve numeric tag ids",
			},
		}, NewSourceFlags("diff", meta.Config.Source)...),
		Action: diffCommandAction,
	}
}
