// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/osmx/osmx/internal/differ"
	"github.com/osmx/osmx/internal/meta"
	"github.com/osmx/osmx/internal/store"
)

// ErrDifferent is returned by "diff --exit-code" when the collections differ.
var ErrDifferent = errors.New("collections differ")

// selectObjects picks two objects interactively. Tests replace it.
var selectObjects = differ.SelectObjects

// diffCommandAction is the action handler for the "diff" subcommand. Each
// operand is a local file when one exists at that path, otherwise a
// collection in the bucket. Without operands the collections under --folder
// are offered in a picker.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	logAction(cmd)

	args := cmd.Args().Slice()
	folder := cmd.String("folder")

	var s *store.Store
	bucket := func() (*store.Store, error) {
		if s != nil {
			return s, nil
		}
		var err error
		s, err = InitStore(ctx, cmd, false)
		return s, err
	}

	var keys []string
	switch len(args) {
	case 0:
		st, err := bucket()
		if err != nil {
			return err
		}
		picked, err := pickCollections(ctx, st, folder)
		if err != nil {
			return err
		}
		if picked == nil {
			return nil
		}
		keys = picked
	case 2: //nolint:mnd
		keys = args
	default:
		return errors.New("diff requires two operands, or none to pick from the bucket")
	}

	docs := make([][]byte, 2) //nolint:mnd
	for i, k := range keys {
		doc, err := loadOperand(ctx, bucket, k, folder, len(args) == 0)
		if err != nil {
			return err
		}
		docs[i] = doc
	}

	summary, err := differ.Diff(stdout, docs[0], docs[1], differ.Options{
		Ignore: splitList(cmd.String("ignore")),
		Color:  cmd.Bool("color"),
	})
	if err != nil {
		return err
	}
	if cmd.Bool("exit-code") && summary.Modified() {
		return fmt.Errorf("%w: %s", ErrDifferent, summary)
	}
	return nil
}

// pickCollections lists the collections under folder and lets the user pick
// two. It returns nil keys when the picker is abandoned.
func pickCollections(ctx context.Context, s *store.Store, folder string) ([]string, error) {
	prefix := strings.Trim(folder, "/")
	if prefix != "" {
		prefix += "/"
	}
	objects, err := s.ListFilesWithSizes(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var collections []store.Object
	for _, o := range objects {
		if strings.HasSuffix(o.Key, ".geojson") {
			collections = append(collections, o)
		}
	}
	if len(collections) < 2 { //nolint:mnd
		return nil, fmt.Errorf("need at least two collections under %s, found %d", s.URI(prefix), len(collections))
	}

	picked, err := selectObjects(collections)
	if err != nil || picked == nil {
		return nil, err
	}
	return []string{picked[0].Key, picked[1].Key}, nil
}

// loadOperand reads a local file, or the collection named by operand. When
// isKey is set operand is already a full object key.
func loadOperand(ctx context.Context, bucket func() (*store.Store, error), operand, folder string, isKey bool) ([]byte, error) {
	if !isKey {
		if info, err := os.Stat(operand); err == nil && !info.IsDir() {
			return os.ReadFile(operand)
		}
	}

	s, err := bucket()
	if err != nil {
		return nil, err
	}
	key := operand
	if !isKey {
		key = store.Key(folder, strings.TrimSuffix(operand, ".geojson"), ".geojson")
	}
	return s.Get(ctx, key)
}

// diffCommandBuilder constructs the cli.Command for "diff".
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "compare two collections",
		UsageText: "osmx diff [LEFT RIGHT] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewFolderFlag("diff", meta.Config.Source),
			&cli.StringFlag{
				Name:  "ignore",
				Usage: "comma-separated properties left out of the comparison",
			},
			&cli.BoolFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "enable colored diff output",
			},
			&cli.BoolFlag{
				Name:  "exit-code",
				Usage: "exit non-zero when the collections differ",
			},
		}, NewStoreFlags("diff", meta.Config.Source)...),
		Action: diffCommandAction,
	}
}
