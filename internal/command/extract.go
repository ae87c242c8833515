// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/osmx/osmx/internal/config"
	"github.com/osmx/osmx/internal/extract"
	"github.com/osmx/osmx/internal/log"
	"github.com/osmx/osmx/internal/meta"
	"github.com/osmx/osmx/internal/output"
	"github.com/osmx/osmx/internal/progress"
)

// extractDefaultAttrs are the columns of the run summary.
var extractDefaultAttrs = []string{"place", "key", "features", "size_bytes|size|h", "status"}

// newSource returns the OSM data source. Tests replace it.
var newSource = func(cmd *cli.Command) extract.Source {
	return InitOSMClient(cmd)
}

// extractCommandAction is the action handler for the "extract" subcommand.
// It extracts amenities for every place and stores them in the bucket, or
// below --out-dir with --dry-run.
func extractCommandAction(ctx context.Context, cmd *cli.Command) error {
	logAction(cmd)

	if ShortCircuitTLDR(ctx, cmd, "extract") {
		return nil
	}

	config.Config.Namespace = "extract"

	jobs, err := buildJobs(cmd)
	if err != nil {
		return err
	}
	log.Debugf("jobs: count=%d dry_run=%t", len(jobs), cmd.Bool("dry-run"))

	var sink extract.Sink
	if cmd.Bool("dry-run") {
		sink = extract.DirSink{Dir: cmd.String("out-dir")}
	} else {
		s, err := InitStore(ctx, cmd, true)
		if err != nil {
			return err
		}
		sink = s
	}

	opts := extract.Options{
		Parallel:   int(cmd.Int("parallel")),
		Force:      cmd.Bool("force"),
		AllowEmpty: cmd.Bool("allow-empty"),
	}
	source := newSource(cmd)

	var results []extract.Result
	live := !cmd.Bool("no-progress") && cmd.String("output") == output.FormatText
	runErr := progress.Run(ctx, os.Stderr, live, jobs, func(ctx context.Context, r extract.Reporter) error {
		opts.Reporter = r
		var err error
		results, err = extract.New(source, sink, opts).Run(ctx, jobs)
		return err
	})

	al := BuildAttrs(cmd, extractDefaultAttrs...)
	rows := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		rows = append(rows, resultRow(r))
	}
	if err := output.Spit(stdout, rows, al, OutputOptions(cmd)); err != nil {
		return err
	}

	return runErr
}

// buildJobs assembles jobs from --jobs and the positional places. Flags given
// explicitly override values from the jobs file.
func buildJobs(cmd *cli.Command) ([]extract.Job, error) {
	flagJob := extract.Job{
		Folder: cmd.String("folder"),
		Key:    cmd.String("key"),
		Values: splitList(cmd.String("values")),
		Filter: cmd.String("filter"),
	}

	var jobs []extract.Job
	if path := cmd.String("jobs"); path != "" {
		fromFile, err := extract.LoadJobs(path)
		if err != nil {
			return nil, err
		}
		for _, j := range fromFile {
			if cmd.IsSet("folder") {
				j.Folder = flagJob.Folder
			}
			if cmd.IsSet("key") {
				j.Key = flagJob.Key
			}
			if cmd.IsSet("values") {
				j.Values = flagJob.Values
			}
			if cmd.IsSet("filter") {
				j.Filter = flagJob.Filter
			}
			jobs = append(jobs, j)
		}
	}

	places := cmd.Args().Slice()
	name := cmd.String("name")
	if name != "" && len(places) != 1 {
		return nil, errors.New("--name requires exactly one PLACE")
	}
	for _, p := range places {
		j := flagJob
		j.Place = p
		j.Name = name
		j = j.WithDefaults(extract.Job{})
		if err := j.Validate(); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	if len(jobs) == 0 {
		return nil, errors.New("extract requires at least one PLACE or --jobs FILE")
	}
	return jobs, nil
}

// resultRow converts a job result to an output row.
func resultRow(r extract.Result) map[string]interface{} {
	status := "stored"
	switch {
	case r.Err != nil:
		status = "failed"
	case r.Skipped:
		status = "skipped"
	}
	row := map[string]interface{}{
		"place":      r.Job.Place,
		"name":       r.Job.Name,
		"folder":     r.Job.Folder,
		"key":        r.Key,
		"features":   r.Features,
		"size_bytes": r.Bytes,
		"status":     status,
		"duration":   r.Duration.Round(time.Millisecond).String(),
	}
	if r.Place != nil {
		row["display_name"] = r.Place.DisplayName
		row["osm_id"] = fmt.Sprintf("%s/%d", r.Place.OSMType, r.Place.OSMID)
	}
	if r.Err != nil {
		row["error"] = r.Err.Error()
	}
	return row
}

// splitList splits a comma separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// extractCommandBuilder constructs the cli.Command for "extract", wiring
// metadata, flags, and action/validator handlers.
func extractCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		newTldrFlag(),
		&cli.StringFlag{
			Name:    "key",
			Aliases: []string{"k"},
			Usage:   "OSM tag key to extract",
			Value:   extract.DefaultKey,
		},
		&cli.StringFlag{
			Name:    "values",
			Aliases: []string{"V"},
			Usage:   "comma-separated tag values to keep, all values when empty",
		},
		NewFolderFlag("extract", meta.Config.Source),
		&cli.StringFlag{
			Name:  "name",
			Usage: "object name, defaults to the slug of PLACE",
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated feature filters, a leading _ runs the filter in Overpass",
		},
		&cli.StringFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Usage:   "YAML file listing jobs",
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "re-extract places whose collection already exists",
		},
		&cli.BoolFlag{
			Name:  "allow-empty",
			Usage: "store collections with no features",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "write collections below --out-dir instead of the bucket",
		},
		&cli.StringFlag{
			Name:  "out-dir",
			Usage: "directory used by --dry-run",
			Value: ".",
		},
		&cli.IntFlag{
			Name:    "parallel",
			Aliases: []string{"p"},
			Usage:   "number of places extracted at once",
			Value:   extract.DefaultParallel,
			Validator: func(v int) error {
				return FlagValidators(v, PositiveValidator)
			},
		},
		&cli.BoolFlag{
			Name:  "no-progress",
			Usage: "log progress instead of drawing it",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "do not cache OSM responses",
		},
	}
	flags = append(flags, NewStoreFlags("extract", meta.Config.Source)...)
	flags = append(flags, NewOSMFlags("extract", meta.Config.Source)...)
	flags = append(flags, globalFlagsExcept("filter")...)

	return &cli.Command{
		Name:      "extract",
		Usage:     "extract OSM amenities for places into the bucket",
		UsageText: "osmx extract PLACE... [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: extractCommandAction,
	}
}

// globalFlagsExcept returns NewGlobalFlags without the named flags.
func globalFlagsExcept(names ...string) []cli.Flag {
	var out []cli.Flag
outer:
	for _, f := range NewGlobalFlags() {
		for _, n := range names {
			if f.Names()[0] == n {
				continue outer
			}
		}
		out = append(out, f)
	}
	return out
}
