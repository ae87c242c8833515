// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read from the working directory when no other env file is
// requested.
const DefaultEnvFile = ".env"

// Environment keys understood by osmx. The AWS SDK reads the credential and
// region keys itself once they are in the process environment.
const (
	EnvAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	EnvDefaultRegion   = "AWS_DEFAULT_REGION"
	EnvBucket          = "AWS_S3_BUCKET"
	EnvBucketLegacy    = "S3_BUCKET_NAME"
	EnvEnvFile         = "OSMX_ENV_FILE"
)

// LoadEnv loads KEY=VALUE pairs from an env file into the process
// environment. Variables already present in the environment win over the
// file. The path comes from the argument, then OSMX_ENV_FILE, then
// DefaultEnvFile. A missing DefaultEnvFile is not an error; a missing file that
// was asked for explicitly is. The absolute path of the loaded file is
// returned, or "" when nothing was loaded.
func LoadEnv(path string) (string, error) {
	explicit := path != ""
	if !explicit {
		if p := os.Getenv(EnvEnvFile); p != "" {
			path = p
			explicit = true
		}
	}
	if path == "" {
		path = DefaultEnvFile
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			log.Debugf("no env file at %s", path)
			return "", nil
		}
		return "", fmt.Errorf("env file %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("env file %s is a directory", path)
	}

	if err := godotenv.Load(path); err != nil {
		return "", fmt.Errorf("failed to load env file %s: %w", path, err)
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	log.Debugf("env file loaded: %s", path)
	return path, nil
}

// Bucket resolves the target bucket name. Precedence: the explicit flag value,
// AWS_S3_BUCKET, S3_BUCKET_NAME, then the "bucket" config key. An empty result
// means no bucket is configured.
func Bucket(flag string) string {
	if b := strings.TrimSpace(flag); b != "" {
		return b
	}
	for _, key := range []string{EnvBucket, EnvBucketLegacy} {
		if b := strings.TrimSpace(os.Getenv(key)); b != "" {
			return b
		}
	}
	b, _ := GetString("bucket", "")
	return strings.TrimSpace(b)
}
