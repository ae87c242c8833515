// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/osmx/osmx/internal/meta"
	"github.com/osmx/osmx/internal/store"
)

// ErrMissing is returned by "exists" when the object is absent so the process
// exits non-zero.
var ErrMissing = errors.New("object does not exist")

// existsCommandAction is the action handler for the "exists" subcommand.
func existsCommandAction(ctx context.Context, cmd *cli.Command) error {
	logAction(cmd)

	name := firstArg(cmd)
	if name == "" {
		return errors.New("exists requires a NAME")
	}

	s, err := InitStore(ctx, cmd, false)
	if err != nil {
		return err
	}

	folder := cmd.String("folder")
	var (
		key   string
		found bool
	)
	if cmd.Bool("raw") {
		key = store.Key(folder, name, "")
		found, err = s.FileExists(ctx, name, folder)
	} else {
		name = strings.TrimSuffix(name, ".geojson")
		key = store.Key(folder, name, ".geojson")
		found, err = s.GeoJSONExists(ctx, name, folder)
	}
	if err != nil {
		return err
	}

	if !found {
		return fmt.Errorf("%w: %s", ErrMissing, s.URI(key))
	}
	fmt.Fprintln(stdout, s.URI(key))
	return nil
}

// existsCommandBuilder constructs the cli.Command for "exists".
func existsCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "exists",
		Usage:     "check whether a collection exists in the bucket",
		UsageText: "osmx exists NAME [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewFolderFlag("exists", meta.Config.Source),
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "NAME is a file name with its extension, not a collection",
			},
		}, NewStoreFlags("exists", meta.Config.Source)...),
		Action: existsCommandAction,
	}
}
