// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/nodectl/internal/source"
)

// newSchemaFlag returns a --schema flag. Flags hold parsed state, so each
// command gets its own.
func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "list the attributes found in the records",
		HideDefault: true,
	}
}

func newQueryFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "query",
		Aliases:     []string{"q"},
		Usage:       "print the filter as a URL query string instead of the records",
		HideDefault: true,
	}
}

// NewGlobalFlags returns the flags shared by the record listing commands.
// params[0] is the command namespace and params[1] the config file; when both
// are given, flag defaults may come from the config file.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   `search terms, e.g. "moon status:(new,deployed) tags:!virtual"`,
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "show local timestamps",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "spaces between text columns",
			Value: 2,
		},
		&cli.StringSliceFlag{
			Name:  "selected",
			Usage: "primary keys of the selected records, used by in:selected",
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.StringFlag{
			Name:  "tags",
			Usage: "source of tag records used to resolve numeric tag ids",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	flags = append(flags, NewSourceFlags(params...)...)

	if len(params) == 2 {
		for _, f := range flags {
			if sf, ok := f.(*cli.StringFlag); ok && (sf.Name == "attrs" || sf.Name == "sort") {
				NameSpacedValueChainFlagFromConfigFile(params[0], params[1], sf)
			}
		}
	}

	return
}

// NewSourceFlags returns the flags controlling where records come from.
func NewSourceFlags(params ...string) []cli.Flag {
	region := &cli.StringFlag{
		Name:  "region",
		Usage: "AWS region for s3:// sources",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWS_REGION"),
		),
	}
	if len(params) == 2 {
		region = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], region)
	}

	return []cli.Flag{
		region,
		&cli.StringFlag{
			Name:  "profile",
			Usage: "AWS shared config profile for s3:// sources",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("AWS_PROFILE"),
			),
		},
		&cli.StringFlag{
			Name:  "token",
			Usage: "bearer token for http(s) sources",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar(source.EnvToken),
			),
		},
		&cli.DurationFlag{
			Name:  "cache",
			Usage: "reuse cached http(s) responses younger than this; 0 disables",
			Value: 0,
		},
		&cli.BoolFlag{
			Name:  "remote-filter",
			Usage: "send the filter to http(s) sources as query parameters",
			Value: true,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "timeout of each http(s) request",
			Value: 30 * time.Second,
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
