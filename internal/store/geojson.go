// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// GeoJSONContentType is the registered media type for GeoJSON (RFC 7946).
const GeoJSONContentType = "application/geo+json"

// UploadGeoJSON writes fc to folder/name.geojson and returns the key and the
// number of bytes written.
func (s *Store) UploadGeoJSON(ctx context.Context, fc *geojson.FeatureCollection, name, folder string) (string, int, error) {
	body, err := fc.MarshalJSON()
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode %s as GeoJSON: %w", name, err)
	}

	key := Key(folder, name, ".geojson")
	if err := s.Put(ctx, key, body, GeoJSONContentType); err != nil {
		return "", 0, err
	}
	return key, len(body), nil
}

// GetGeoJSON downloads and decodes folder/name.geojson.
func (s *Store) GetGeoJSON(ctx context.Context, name, folder string) (*geojson.FeatureCollection, error) {
	key := Key(folder, name, ".geojson")
	body, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.URI(key), err)
	}
	return fc, nil
}

// GeoJSONExists reports whether folder/name.geojson exists.
func (s *Store) GeoJSONExists(ctx context.Context, name, folder string) (bool, error) {
	return s.Exists(ctx, Key(folder, name, ".geojson"))
}
