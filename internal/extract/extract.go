// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"

	"github.com/osmx/osmx/internal/filters"
	"github.com/osmx/osmx/internal/log"
	"github.com/osmx/osmx/internal/osm"
)

// ErrNoFeatures is returned when a query matches nothing and empty
// collections are not allowed.
var ErrNoFeatures = errors.New("no matching features")

// Source geocodes places and runs Overpass queries. *osm.Client satisfies it.
type Source interface {
	Geocode(ctx context.Context, query string) (*osm.Place, error)
	Run(ctx context.Context, q osm.Query) (*osm.Response, error)
}

// Sink stores collections. *store.Store and DirSink satisfy it.
type Sink interface {
	GeoJSONExists(ctx context.Context, name, folder string) (bool, error)
	UploadGeoJSON(ctx context.Context, fc *geojson.FeatureCollection, name, folder string) (string, int, error)
}

// Options controls Run.
type Options struct {
	// Parallel bounds concurrent jobs. Values below 1 use DefaultParallel.
	Parallel int
	// Force re-extracts jobs whose collection already exists.
	Force bool
	// AllowEmpty stores collections with no features instead of failing.
	AllowEmpty bool
	Reporter   Reporter
}

// Result is the outcome of one job.
type Result struct {
	Job      Job           `json:"job"`
	Key      string        `json:"key"`
	Place    *osm.Place    `json:"place,omitempty"`
	Features int           `json:"features"`
	Bytes    int           `json:"bytes"`
	Skipped  bool          `json:"skipped"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// Extractor runs jobs from a Source into a Sink.
type Extractor struct {
	source Source
	sink   Sink
	opts   Options
}

// New returns an Extractor.
func New(source Source, sink Sink, opts Options) *Extractor {
	if opts.Parallel < 1 {
		opts.Parallel = DefaultParallel
	}
	if opts.Reporter == nil {
		opts.Reporter = LogReporter{}
	}
	return &Extractor{source: source, sink: sink, opts: opts}
}

// Run executes jobs concurrently and returns one Result per job in input
// order. The error joins every job failure.
func (x *Extractor) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))

	var g errgroup.Group
	g.SetLimit(x.opts.Parallel)
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = x.runJob(ctx, i, job)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}

func (x *Extractor) runJob(ctx context.Context, i int, job Job) (res Result) {
	start := time.Now()
	res = Result{Job: job, Key: job.ObjectKey()}

	report := func(t EventType) {
		x.opts.Reporter.Report(Event{
			Index:    i,
			Job:      job,
			Type:     t,
			Features: res.Features,
			Key:      res.Key,
			Bytes:    res.Bytes,
			Err:      res.Err,
			Time:     time.Now(),
		})
	}

	defer func() {
		res.Duration = time.Since(start)
		if res.Err != nil {
			res.Err = fmt.Errorf("%s: %w", job.Place, res.Err)
			report(Failed)
		}
	}()

	report(Started)

	if err := job.Validate(); err != nil {
		res.Err = err
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	if !x.opts.Force {
		exists, err := x.sink.GeoJSONExists(ctx, job.Name, job.Folder)
		if err != nil {
			res.Err = err
			return res
		}
		if exists {
			res.Skipped = true
			report(Skipped)
			return res
		}
	}

	fc, place, err := x.collect(ctx, job)
	res.Place = place
	if err != nil {
		res.Err = err
		return res
	}
	res.Features = len(fc.Features)
	report(Fetched)

	if res.Features == 0 && !x.opts.AllowEmpty {
		res.Err = ErrNoFeatures
		return res
	}

	key, n, err := x.sink.UploadGeoJSON(ctx, fc, job.Name, job.Folder)
	if err != nil {
		res.Err = err
		return res
	}
	res.Key = key
	res.Bytes = n
	report(Uploaded)
	return res
}

// collect geocodes the job's place and returns its filtered features.
func (x *Extractor) collect(ctx context.Context, job Job) (*geojson.FeatureCollection, *osm.Place, error) {
	place, err := x.source.Geocode(ctx, job.Place)
	if err != nil {
		return nil, nil, err
	}

	server, _ := filters.Split(filters.BuildFilters(job.Filter))
	where, err := filters.OverpassPredicates(server)
	if err != nil {
		return nil, place, err
	}

	resp, err := x.source.Run(ctx, osm.Query{
		Place:  place,
		Key:    job.Key,
		Values: job.Values,
		Where:  where,
	})
	if err != nil {
		return nil, place, err
	}

	fc := osm.ToFeatureCollection(resp.Elements)
	fc = filters.Apply(fc, job.Filter)
	log.Debugf("collected %s: elements=%d features=%d", job.Place, len(resp.Elements), len(fc.Features))
	return fc, place, nil
}
