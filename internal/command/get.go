// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/urfave/cli/v3"

	"github.com/osmx/osmx/internal/config"
	"github.com/osmx/osmx/internal/filters"
	"github.com/osmx/osmx/internal/log"
	"github.com/osmx/osmx/internal/meta"
	"github.com/osmx/osmx/internal/output"
)

// getDefaultAttrs specifies the default attributes displayed by "get".
var getDefaultAttrs = []string{"id", "name"}

// getCommandAction is the action handler for the "get" subcommand. It
// downloads a collection and prints its features, or saves it with --out.
func getCommandAction(ctx context.Context, cmd *cli.Command) error {
	logAction(cmd)

	if ShortCircuitTLDR(ctx, cmd, "get") {
		return nil
	}

	config.Config.Namespace = "get"

	name := strings.TrimSuffix(firstArg(cmd), ".geojson")
	if name == "" {
		return errors.New("get requires a NAME")
	}

	s, err := InitStore(ctx, cmd, false)
	if err != nil {
		return err
	}
	fc, err := s.GetGeoJSON(ctx, name, cmd.String("folder"))
	if err != nil {
		return err
	}
	fc = filters.Apply(fc, cmd.String("filter"))

	if out := cmd.String("out"); out != "" {
		return writeCollection(fc, out)
	}

	al := BuildAttrs(cmd, getDefaultAttrs...)
	rows := make([]map[string]interface{}, 0, len(fc.Features))
	for _, f := range fc.Features {
		rows = append(rows, featureRow(f))
	}
	return output.Spit(stdout, rows, al, OutputOptions(cmd))
}

// writeCollection writes fc to path, or to stdout when path is "-".
func writeCollection(fc *geojson.FeatureCollection, path string) error {
	body, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}

	if path == "-" {
		_, err = fmt.Fprintln(stdout, string(body))
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Infof("wrote %s features=%d bytes=%d", path, len(fc.Features), len(body))
	return nil
}

// featureRow flattens a feature into a row: its properties plus id, geometry
// type and centroid.
func featureRow(f *geojson.Feature) map[string]interface{} {
	row := make(map[string]interface{}, len(f.Properties)+4) //nolint:mnd
	for k, v := range f.Properties {
		row[k] = v
	}
	if f.ID != nil {
		row["id"] = fmt.Sprint(f.ID)
	}
	if f.Geometry != nil {
		row["geometry"] = f.Geometry.GeoJSONType()
		c, _ := planar.CentroidArea(f.Geometry)
		row["lon"] = round(c.Lon(), 7) //nolint:mnd
		row["lat"] = round(c.Lat(), 7) //nolint:mnd
	}
	return row
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// getCommandBuilder constructs the cli.Command for "get".
func getCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "get",
		Usage:     "download a collection from the bucket",
		UsageText: "osmx get NAME [options]",
		Flags: []cli.Flag{
			NewFolderFlag("get", meta.Config.Source),
			&cli.StringFlag{
				Name:  "out",
				Usage: "write the GeoJSON collection to a file, - for stdout",
			},
		},
		Action: getCommandAction,
		Meta:   meta,
	}).Build()
}
