// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"

	"github.com/osmx/osmx/internal/log"
	"github.com/osmx/osmx/internal/store"
)

// DirSink writes collections below a local directory using the same key
// layout as the bucket. It backs --dry-run.
type DirSink struct {
	Dir string
}

func (d DirSink) path(name, folder string) string {
	return filepath.Join(d.Dir, filepath.FromSlash(store.Key(folder, name, ".geojson")))
}

// GeoJSONExists reports whether the file is already present.
func (d DirSink) GeoJSONExists(_ context.Context, name, folder string) (bool, error) {
	_, err := os.Stat(d.path(name, folder))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	}
	return false, err
}

// UploadGeoJSON writes fc to disk and returns the file path.
func (d DirSink) UploadGeoJSON(_ context.Context, fc *geojson.FeatureCollection, name, folder string) (string, int, error) {
	body, err := fc.MarshalJSON()
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode %s as GeoJSON: %w", name, err)
	}

	p := d.path(name, folder)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil { //nolint:mnd
		return "", 0, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(p, body, 0o644); err != nil { //nolint:mnd
		return "", 0, fmt.Errorf("failed to write %s: %w", p, err)
	}
	log.Infof("wrote %s bytes=%d", p, len(body))
	return p, len(body), nil
}
