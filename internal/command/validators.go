// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/nodectl/internal/nodes"
	"github.com/tfctl/nodectl/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator checks flag combinations that no single flag
// validator can see.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.Bool("query") && c.Bool("schema") {
		return fmt.Errorf("--query and --schema are mutually exclusive")
	}
	return nil
}

// OutputValidator accepts the --output formats the renderer knows.
func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(output.Formats, s) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

// KindValidator accepts a record kind name or alias, e.g. "machine" or "m".
func KindValidator(value any) error {
	s, _ := value.(string)
	_, err := nodes.Lookup(s)
	return err
}
