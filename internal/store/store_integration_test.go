// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

//go:build integration
// +build integration

package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmx/osmx/internal/aws"
)

// integrationStore returns a Store for a throwaway bucket. The bucket is
// removed, with its objects, when the test ends. Honors AWS_ENDPOINT_URL_S3
// so the suite can run against a local S3-compatible server.
func integrationStore(t *testing.T) (*Store, *s3v2.Client) {
	t.Helper()
	ctx := context.Background()

	region := os.Getenv("AWS_DEFAULT_REGION")
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := aws.LoadAWSConfig(ctx, aws.WithRegion(region))
	require.NoError(t, err)
	client := aws.NewS3(cfg, aws.WithEndpoint(os.Getenv("AWS_ENDPOINT_URL_S3")))

	bucket := fmt.Sprintf("osmx-test-%d", time.Now().UnixNano())
	_, err = client.CreateBucket(ctx, &s3v2.CreateBucketInput{Bucket: awsv2.String(bucket)})
	require.NoError(t, err)

	t.Cleanup(func() {
		out, err := client.ListObjectsV2(ctx, &s3v2.ListObjectsV2Input{Bucket: awsv2.String(bucket)})
		if err == nil {
			for _, o := range out.Contents {
				client.DeleteObject(ctx, &s3v2.DeleteObjectInput{Bucket: awsv2.String(bucket), Key: o.Key})
			}
		}
		client.DeleteBucket(ctx, &s3v2.DeleteBucketInput{Bucket: awsv2.String(bucket)})
	})

	s, err := New(ctx, client, bucket, true)
	require.NoError(t, err)
	return s, client
}

func TestIntegration_GeoJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := integrationStore(t)

	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{2.3522, 48.8566}))

	exists, err := s.GeoJSONExists(ctx, "paris_france", DefaultFolder)
	require.NoError(t, err)
	assert.False(t, exists)

	key, _, err := s.UploadGeoJSON(ctx, fc, "paris_france", DefaultFolder)
	require.NoError(t, err)
	assert.Equal(t, "amenities/paris_france.geojson", key)

	exists, err = s.GeoJSONExists(ctx, "paris_france", DefaultFolder)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := s.GetGeoJSON(ctx, "paris_france", DefaultFolder)
	require.NoError(t, err)
	assert.Len(t, got.Features, 1)

	objects, err := s.ListFilesWithSizes(ctx, DefaultFolder)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Positive(t, objects[0].Size)
}

func TestIntegration_NoSuchBucket(t *testing.T) {
	ctx := context.Background()
	_, client := integrationStore(t)

	_, err := New(ctx, client, fmt.Sprintf("osmx-missing-%d", time.Now().UnixNano()), true)
	assert.ErrorIs(t, err, ErrNoSuchBucket)
}
