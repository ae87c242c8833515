// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/osmx/osmx/internal/log"
)

// DefaultFolder is the key prefix extracted collections are written under.
const DefaultFolder = "amenities"

var (
	ErrNoBucket     = errors.New("S3 bucket name not found in environment variables")
	ErrAccessDenied = errors.New("access denied to bucket")
	ErrNoSuchBucket = errors.New("bucket does not exist")
	ErrNotFound     = errors.New("object not found")
)

// API is the subset of the S3 client used by Store. *s3.Client satisfies it.
type API interface {
	s3v2.ListObjectsV2APIClient
	HeadObject(context.Context, *s3v2.HeadObjectInput, ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error)
	GetObject(context.Context, *s3v2.GetObjectInput, ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(context.Context, *s3v2.PutObjectInput, ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

// Object describes a single listed key.
type Object struct {
	Key          string    `json:"file_name" yaml:"file_name"`
	Size         int64     `json:"size_bytes" yaml:"size_bytes"`
	LastModified time.Time `json:"last_modified" yaml:"last_modified"`
}

// Store reads and writes extraction artifacts in one bucket.
type Store struct {
	bucket string
	api    API
}

// New returns a Store for bucket. When check is true the bucket is probed with
// CheckPermissions before returning.
func New(ctx context.Context, api API, bucket string, check bool) (*Store, error) {
	if bucket == "" {
		return nil, ErrNoBucket
	}

	s := &Store{bucket: bucket, api: api}
	if check {
		if err := s.CheckPermissions(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Bucket returns the bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// CheckPermissions verifies the bucket exists and can be listed.
func (s *Store) CheckPermissions(ctx context.Context) error {
	_, err := s.api.ListObjectsV2(ctx, &s3v2.ListObjectsV2Input{
		Bucket:  awsv2.String(s.bucket),
		MaxKeys: awsv2.Int32(1),
	})
	if err != nil {
		return s.classify(err, "")
	}
	log.Infof("permissions verified for bucket: %s", s.bucket)
	return nil
}

// ListFiles returns every key under prefix.
func (s *Store) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	objects, err := s.ListFilesWithSizes(ctx, prefix)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, o.Key)
	}
	return keys, nil
}

// ListFilesWithSizes returns every object under prefix with its size, walking
// all result pages.
func (s *Store) ListFilesWithSizes(ctx context.Context, prefix string) ([]Object, error) {
	input := &s3v2.ListObjectsV2Input{Bucket: awsv2.String(s.bucket)}
	if prefix != "" {
		input.Prefix = awsv2.String(prefix)
	}

	objects := []Object{}
	paginator := s3v2.NewListObjectsV2Paginator(s.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.classify(err, prefix)
		}
		for _, c := range page.Contents {
			objects = append(objects, objectFrom(c))
		}
	}
	log.Debugf("listed objects: bucket=%s prefix=%s count=%d", s.bucket, prefix, len(objects))
	return objects, nil
}

// Key joins folder, name and extension into an object key. An empty folder
// yields a key at the bucket root. A name already ending in ext is used as is,
// so "lisbon.geojson" and "lisbon" address the same object.
func Key(folder, name, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	file := name
	if ext != "" && !strings.HasSuffix(name, ext) {
		file = name + ext
	}
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return file
	}
	return path.Join(folder, file)
}

// Exists reports whether key exists. A missing key is (false, nil); any other
// failure is returned.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.api.HeadObject(ctx, &s3v2.HeadObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(key),
	})
	if err == nil {
		return true, nil
	}

	err = s.classify(err, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// FileExists reports whether folder/name exists, name including its extension.
func (s *Store) FileExists(ctx context.Context, name, folder string) (bool, error) {
	return s.Exists(ctx, Key(folder, name, ""))
}

// Get downloads the object at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return nil, s.classify(err, key)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", s.bucket, key, err)
	}
	log.Debugf("downloaded s3://%s/%s bytes=%d", s.bucket, key, len(data))
	return data, nil
}

// Put uploads body to key.
func (s *Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	input := &s3v2.PutObjectInput{
		Bucket:        awsv2.String(s.bucket),
		Key:           awsv2.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: awsv2.Int64(int64(len(body))),
	}
	if contentType != "" {
		input.ContentType = awsv2.String(contentType)
	}

	if _, err := s.api.PutObject(ctx, input); err != nil {
		return s.classify(err, key)
	}
	log.Infof("uploaded s3://%s/%s bytes=%d", s.bucket, key, len(body))
	return nil
}

// URI returns the s3:// form of key in this bucket.
func (s *Store) URI(key string) string {
	return "s3://" + s.bucket + "/" + key
}

// classify maps S3 API errors onto the package sentinels, keeping the
// original error in the chain.
func (s *Store) classify(err error, key string) error {
	var (
		noSuchKey    *types.NoSuchKey
		notFound     *types.NotFound
		noSuchBucket *types.NoSuchBucket
	)
	switch {
	case errors.As(err, &noSuchKey), errors.As(err, &notFound):
		return fmt.Errorf("%w: s3://%s/%s: %w", ErrNotFound, s.bucket, key, err)
	case errors.As(err, &noSuchBucket):
		return fmt.Errorf("%w: %s: %w", ErrNoSuchBucket, s.bucket, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "Forbidden", "403":
			return fmt.Errorf("%w: %s: %w", ErrAccessDenied, s.bucket, err)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %s: %w", ErrNoSuchBucket, s.bucket, err)
		case "NoSuchKey", "NotFound", "404":
			return fmt.Errorf("%w: s3://%s/%s: %w", ErrNotFound, s.bucket, key, err)
		}
	}

	// HEAD responses carry no body, so some stores only expose the status.
	var statusErr interface{ HTTPStatusCode() int }
	if errors.As(err, &statusErr) {
		switch statusErr.HTTPStatusCode() {
		case 403:
			return fmt.Errorf("%w: %s: %w", ErrAccessDenied, s.bucket, err)
		case 404:
			return fmt.Errorf("%w: s3://%s/%s: %w", ErrNotFound, s.bucket, key, err)
		}
	}

	return fmt.Errorf("s3 request for s3://%s/%s failed: %w", s.bucket, key, err)
}

func objectFrom(c types.Object) Object {
	o := Object{Key: awsv2.ToString(c.Key), Size: awsv2.ToInt64(c.Size)}
	if c.LastModified != nil {
		o.LastModified = *c.LastModified
	}
	return o
}
