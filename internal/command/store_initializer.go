// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/osmx/osmx/internal/aws"
	"github.com/osmx/osmx/internal/cacheutil"
	"github.com/osmx/osmx/internal/config"
	"github.com/osmx/osmx/internal/log"
	"github.com/osmx/osmx/internal/osm"
	"github.com/osmx/osmx/internal/store"
)

// newS3API builds the S3 client. Tests replace it with a fake.
var newS3API = func(ctx context.Context, cmd *cli.Command) (store.API, error) {
	var opts []aws.Option
	if p := cmd.String("profile"); p != "" {
		opts = append(opts, aws.WithProfile(p))
	}
	if r := cmd.String("region"); r != "" {
		opts = append(opts, aws.WithRegion(r))
	}

	cfg, err := aws.LoadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return aws.NewS3(cfg, aws.WithEndpoint(cmd.String("endpoint"))), nil
}

// InitStore resolves the bucket and returns a Store for it. When check is set
// the bucket is probed before returning.
func InitStore(ctx context.Context, cmd *cli.Command, check bool) (*store.Store, error) {
	bucket := config.Bucket(cmd.String("bucket"))
	if bucket == "" {
		return nil, store.ErrNoBucket
	}

	api, err := newS3API(ctx, cmd)
	if err != nil {
		return nil, err
	}

	s, err := store.New(ctx, api, bucket, check)
	if err != nil {
		return nil, err
	}
	log.Debugf("store: bucket=%s", s.Bucket())
	return s, nil
}

// InitOSMClient returns an OSM client configured from flags and the config
// file. Responses are cached on disk unless caching is disabled.
func InitOSMClient(cmd *cli.Command) *osm.Client {
	opts := []osm.Option{
		osm.WithOverpassURL(cmd.String("overpass-url")),
		osm.WithNominatimURL(cmd.String("nominatim-url")),
	}

	if rps, err := config.GetInt("osm.rate"); err == nil && rps > 0 {
		opts = append(opts, osm.WithRate(rate.Limit(rps), 1))
	}
	if tries, err := config.GetInt("osm.tries"); err == nil && tries > 0 {
		opts = append(opts, osm.WithMaxTries(uint(tries)))
	}

	if cmd.Bool("no-cache") {
		log.Debug("response cache disabled by flag")
	} else if _, ok, _ := cacheutil.EnsureBaseDir(); ok {
		hours, _ := config.GetInt("cache.ttl", 24) //nolint:mnd
		opts = append(opts, osm.WithCache(cacheutil.Disk{
			Subdirs: []string{"osm"},
			MaxAge:  time.Duration(hours) * time.Hour,
		}))
	}

	return osm.NewClient(opts...)
}
