// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/nodectl/internal/log"
	"github.com/tfctl/nodectl/internal/meta"
	"github.com/tfctl/nodectl/internal/output"
	"github.com/tfctl/nodectl/internal/search"
)

// filterHandlers returns the handlers for the kind named by --kind, so the
// kind's prefixed filters are recognized.
func filterHandlers(cmd *cli.Command) (*search.Handlers, error) {
	kind, err := ResolveKind(cmd.String("kind"))
	if err != nil {
		return nil, err
	}
	return search.NewHandlers(kind.Prefixed...), nil
}

// filterArgs checks the positional argument count of a filter subcommand.
func filterArgs(cmd *cli.Command, want int) ([]string, error) {
	args := cmd.Args().Slice()
	if len(args) != want {
		return nil, fmt.Errorf("want %d argument(s), got %d (usage: %s)", want, len(args), cmd.UsageText)
	}
	return args, nil
}

// filterParseAction prints the filters of a search string.
func filterParseAction(ctx context.Context, cmd *cli.Command) error {
	args, err := filterArgs(cmd, 1)
	if err != nil {
		return err
	}
	h, err := filterHandlers(cmd)
	if err != nil {
		return err
	}

	filters := h.CurrentFilters(args[0])
	log.Debugf("filters parsed: search=%q, keys=%v", args[0], filters.Keys())

	w := writer(cmd)
	switch cmd.String("output") {
	case output.FormatJSON:
		out, err := json.Marshal(filters)
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case output.FormatYAML:
		out, err := yaml.Marshal(filters)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		for _, entry := range filters {
			quoted := make([]string, 0, len(entry.Values))
			for _, v := range entry.Values {
				quoted = append(quoted, strconv.Quote(v))
			}
			fmt.Fprintf(w, "%s: %s\n", entry.Key, strings.Join(quoted, ", "))
		}
		return nil
	}
}

// filterStringAction normalizes a search string.
func filterStringAction(ctx context.Context, cmd *cli.Command) error {
	args, err := filterArgs(cmd, 1)
	if err != nil {
		return err
	}
	h, err := filterHandlers(cmd)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer(cmd), h.FiltersToString(h.CurrentFilters(args[0])))
	return err
}

// filterQSAction converts a search string to a URL query string.
func filterQSAction(ctx context.Context, cmd *cli.Command) error {
	args, err := filterArgs(cmd, 1)
	if err != nil {
		return err
	}
	h, err := filterHandlers(cmd)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer(cmd), h.FiltersToQueryString(h.CurrentFilters(args[0])))
	return err
}

// filterFromQSAction converts a URL query string to a search string.
func filterFromQSAction(ctx context.Context, cmd *cli.Command) error {
	args, err := filterArgs(cmd, 1)
	if err != nil {
		return err
	}
	h, err := filterHandlers(cmd)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer(cmd), h.FiltersToString(h.QueryStringToFilters(args[0])))
	return err
}

// filterToggleAction toggles a value in a search string and prints the
// updated search.
func filterToggleAction(ctx context.Context, cmd *cli.Command) error {
	args, err := filterArgs(cmd, 3)
	if err != nil {
		return err
	}
	h, err := filterHandlers(cmd)
	if err != nil {
		return err
	}

	var opts []search.ToggleOption
	if cmd.Bool("exact") {
		opts = append(opts, search.Exact())
	}
	switch cmd.String("exist") {
	case "":
	case "true":
		opts = append(opts, search.ShouldExist(true))
	case "false":
		opts = append(opts, search.ShouldExist(false))
	default:
		return fmt.Errorf("--exist must be true or false")
	}

	filters := h.ToggleFilter(h.CurrentFilters(args[0]), args[1], args[2], opts...)
	_, err = fmt.Fprintln(writer(cmd), h.FiltersToString(filters))
	return err
}

// filterActiveAction reports whether a value is set in a search string.
func filterActiveAction(ctx context.Context, cmd *cli.Command) error {
	args, err := filterArgs(cmd, 3)
	if err != nil {
		return err
	}
	h, err := filterHandlers(cmd)
	if err != nil {
		return err
	}

	active := h.IsFilterActive(h.CurrentFilters(args[0]), args[1], args[2], cmd.Bool("exact"))
	if _, err := fmt.Fprintln(writer(cmd), active); err != nil {
		return err
	}
	if !active && cmd.Bool("exit-code") {
		return cli.Exit("", 1)
	}
	return nil
}

// filterCommandBuilder constructs the cli.Command for "filter" and its
// subcommands.
func filterCommandBuilder(meta meta.Meta) *cli.Command {
	kindFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "kind",
			Aliases: []string{"k"},
			Usage:   "record kind whose prefixed filters apply",
			Value:   "machine",
			Validator: func(value string) error {
				return FlagValidators(value, KindValidator)
			},
		}
	}
	exactFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:  "exact",
			Usage: "use the exact (=) form of the value",
		}
	}

	return &cli.Command{
		Name:      "filter",
		Usage:     "parse, convert and edit search strings",
		UsageText: "nodectl filter <parse|string|qs|from-qs|toggle|active> [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			{
				Name:      "parse",
				Usage:     "print the filters of a search string",
				UsageText: "nodectl filter parse <search> [options]",
				Flags: []cli.Flag{
					kindFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "output format",
						Value:   "text",
						Validator: func(value string) error {
							return FlagValidators(value, OutputValidator)
						},
					},
				},
				Action: filterParseAction,
			},
			{
				Name:      "string",
				Usage:     "normalize a search string",
				UsageText: "nodectl filter string <search> [options]",
				Flags:     []cli.Flag{kindFlag()},
				Action:    filterStringAction,
			},
			{
				Name:      "qs",
				Usage:     "convert a search string to a URL query string",
				UsageText: "nodectl filter qs <search> [options]",
				Flags:     []cli.Flag{kindFlag()},
				Action:    filterQSAction,
			},
			{
				Name:      "from-qs",
				Usage:     "convert a URL query string to a search string",
				UsageText: "nodectl filter from-qs <query> [options]",
				Flags:     []cli.Flag{kindFlag()},
				Action:    filterFromQSAction,
			},
			{
				Name:      "toggle",
				Usage:     "add or remove a filter value",
				UsageText: "nodectl filter toggle <search> <filter> <value> [options]",
				Flags: []cli.Flag{
					kindFlag(),
					exactFlag(),
					&cli.StringFlag{
						Name:  "exist",
						Usage: "force the value present (true) or absent (false) instead of flipping it",
					},
				},
				Action: filterToggleAction,
			},
			{
				Name:      "active",
				Usage:     "report whether a filter value is set",
				UsageText: "nodectl filter active <search> <filter> <value> [options]",
				Flags: []cli.Flag{
					kindFlag(),
					exactFlag(),
					&cli.BoolFlag{
						Name:  "exit-code",
						Usage: "exit with status 1 when the value is not set",
					},
				},
				Action: filterActiveAction,
			},
		},
	}
}
