// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/osmx/osmx/internal/filters"
	"github.com/osmx/osmx/internal/log"
	"github.com/osmx/osmx/internal/meta"
	"github.com/osmx/osmx/internal/store"
)

// lsDefaultAttrs specifies the default attributes displayed by "ls".
var lsDefaultAttrs = []string{"file_name"}

// lsSizeAttrs are added by --sizes.
var lsSizeAttrs = []string{"size_bytes|size|h", "last_modified|modified|t"}

// lsAugmenters adjust the listing request before it is sent.
var lsAugmenters = []Augmenter[lsOptions]{lsServerSideFilterAugmenter}

// lsOptions is the listing request built from the positional prefix and any
// server-side filters.
type lsOptions struct {
	Prefix string
}

// lsCommandAction is the action handler for the "ls" subcommand. It lists
// objects in the bucket under an optional prefix.
func lsCommandAction(ctx context.Context, cmd *cli.Command) error {
	defaults := lsDefaultAttrs
	if cmd.Bool("sizes") {
		defaults = append(append([]string{}, lsDefaultAttrs...), lsSizeAttrs...)
	}

	fetch := func(ctx context.Context, cmd *cli.Command) ([]store.Object, error) {
		opts := &lsOptions{Prefix: firstArg(cmd)}
		for _, augment := range lsAugmenters {
			if err := augment(ctx, cmd, opts); err != nil {
				return nil, err
			}
		}

		s, err := InitStore(ctx, cmd, false)
		if err != nil {
			return nil, err
		}
		return s.ListFilesWithSizes(ctx, opts.Prefix)
	}

	return NewQueryActionRunner("ls", defaults, fetch, objectRow).Run(ctx, cmd)
}

// lsServerSideFilterAugmenter narrows the S3 listing with a server-side
// "_file_name^prefix" filter. It conflicts with a positional prefix that
// does not agree with it.
func lsServerSideFilterAugmenter(
	_ context.Context,
	cmd *cli.Command,
	opts *lsOptions,
) error {
	for _, f := range filters.BuildFilters(cmd.String("filter")) {
		if !f.ServerSide {
			continue
		}
		if f.Key != "file_name" || f.Operand != "^" || f.Negate {
			return fmt.Errorf("only _file_name^PREFIX can be applied by S3, got _%s%s", f.Key, f.Operand)
		}
		if opts.Prefix != "" && opts.Prefix != f.Value {
			return fmt.Errorf("prefix %q conflicts with filter _file_name^%s", opts.Prefix, f.Value)
		}
		opts.Prefix = f.Value
	}

	log.Debugf("opts after augmentation: %+v", opts)

	return nil
}

// objectRow converts a listed object to an output row.
func objectRow(o store.Object) map[string]interface{} {
	row := map[string]interface{}{
		"file_name":  o.Key,
		"size_bytes": o.Size,
	}
	if !o.LastModified.IsZero() {
		row["last_modified"] = o.LastModified.UTC().Format(time.RFC3339)
	}
	return row
}

// lsCommandBuilder constructs the cli.Command for "ls", wiring metadata,
// flags, and action handlers.
func lsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "ls",
		Usage:     "list objects in the bucket",
		UsageText: "osmx ls [PREFIX] [options]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "sizes",
				Usage: "include object size and modification time",
			},
		},
		Action: lsCommandAction,
		Meta:   meta,
	}).Build()
}
