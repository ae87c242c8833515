// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/urfave/cli/v3"

	"github.com/osmx/osmx/internal/meta"
	"github.com/osmx/osmx/internal/store"
)

// putCommandAction is the action handler for the "put" subcommand. GeoJSON
// files are validated and stored as collections; anything else is uploaded
// as is.
func putCommandAction(ctx context.Context, cmd *cli.Command) error {
	logAction(cmd)

	path := firstArg(cmd)
	if path == "" {
		return errors.New("put requires a FILE")
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	s, err := InitStore(ctx, cmd, false)
	if err != nil {
		return err
	}

	folder := cmd.String("folder")
	ext := strings.ToLower(filepath.Ext(path))
	name := cmd.String("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	var key string
	switch ext {
	case ".geojson", ".json":
		fc, err := geojson.UnmarshalFeatureCollection(body)
		if err != nil {
			return fmt.Errorf("%s is not a GeoJSON FeatureCollection: %w", path, err)
		}
		if key, _, err = s.UploadGeoJSON(ctx, fc, strings.TrimSuffix(name, ".geojson"), folder); err != nil {
			return err
		}
	default:
		key = store.Key(folder, name, ext)
		if err := s.Put(ctx, key, body, mime.TypeByExtension(ext)); err != nil {
			return err
		}
	}

	fmt.Fprintln(stdout, s.URI(key))
	return nil
}

// putCommandBuilder constructs the cli.Command for "put".
func putCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "put",
		Usage:     "upload a local file to the bucket",
		UsageText: "osmx put FILE [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewFolderFlag("put", meta.Config.Source),
			&cli.StringFlag{
				Name:  "name",
				Usage: "object name, defaults to the file name without extension",
			},
		}, NewStoreFlags("put", meta.Config.Source)...),
		Action: putCommandAction,
	}
}
