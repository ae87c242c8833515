// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aws

import (
	"context"
	"os"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOptions verifies that each Option sets its field.
func TestOptions(t *testing.T) {
	var opts options
	WithProfile("extracts")(&opts)
	WithRegion("eu-west-1")(&opts)
	WithRetryer(func() awsv2.Retryer { return retry.NewStandard() })(&opts)
	WithCredentials("AKIAEXAMPLE", "secret", "")(&opts)

	assert.Equal(t, "extracts", opts.profile)
	assert.Equal(t, "eu-west-1", opts.region)
	require.NotNil(t, opts.retryer)
	assert.NotNil(t, opts.retryer())
	assert.Equal(t, "AKIAEXAMPLE", opts.keyID)
	assert.Equal(t, "secret", opts.secret)
	assert.Empty(t, opts.session)
}

// TestLoadAWSConfig_WithRegion verifies that region option is applied
// during config loading.
func TestLoadAWSConfig_WithRegion(t *testing.T) {
	cfg, err := LoadAWSConfig(context.Background(), WithRegion("us-west-2"))
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", cfg.Region)
}

// TestLoadAWSConfig_RegionFromEnv verifies that AWS_DEFAULT_REGION, as
// written into .env files, is honored by the default chain.
func TestLoadAWSConfig_RegionFromEnv(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	os.Unsetenv("AWS_REGION")
	t.Setenv("AWS_DEFAULT_REGION", "ap-southeast-2")

	cfg, err := LoadAWSConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ap-southeast-2", cfg.Region)
}

// TestLoadAWSConfig_OptionsOrder verifies that later options override
// earlier ones.
func TestLoadAWSConfig_OptionsOrder(t *testing.T) {
	cfg, err := LoadAWSConfig(
		context.Background(),
		WithRegion("us-east-1"),
		WithRegion("eu-west-1"),
	)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)
}

// TestLoadAWSConfig_StaticCredentials verifies that explicit credentials are
// returned by the configured provider without touching the network.
func TestLoadAWSConfig_StaticCredentials(t *testing.T) {
	ctx := context.Background()
	cfg, err := LoadAWSConfig(ctx,
		WithRegion("eu-west-1"),
		WithCredentials("AKIAEXAMPLE", "secret", "token"),
	)
	require.NoError(t, err)

	creds, err := cfg.Credentials.Retrieve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AKIAEXAMPLE", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
	assert.Equal(t, "token", creds.SessionToken)
}

// TestNewS3_BasicConstruction verifies that NewS3 constructs an S3 client
// from a valid config.
func TestNewS3_BasicConstruction(t *testing.T) {
	cfg, err := LoadAWSConfig(context.Background(), WithRegion("us-east-1"))
	require.NoError(t, err)

	client := NewS3(cfg)
	assert.NotNil(t, client)
	assert.IsType(t, &s3v2.Client{}, client)
}

// TestWithEndpoint verifies that a custom endpoint switches to path-style
// addressing and that an empty endpoint is a no-op.
func TestWithEndpoint(t *testing.T) {
	var o s3v2.Options
	WithEndpoint("http://localhost:9000")(&o)
	require.NotNil(t, o.BaseEndpoint)
	assert.Equal(t, "http://localhost:9000", *o.BaseEndpoint)
	assert.True(t, o.UsePathStyle)

	var empty s3v2.Options
	WithEndpoint("")(&empty)
	assert.Nil(t, empty.BaseEndpoint)
	assert.False(t, empty.UsePathStyle)
}

// TestNewS3_WithEndpoint verifies the endpoint option is accepted by NewS3.
func TestNewS3_WithEndpoint(t *testing.T) {
	cfg, err := LoadAWSConfig(context.Background(), WithRegion("us-east-1"))
	require.NoError(t, err)

	client := NewS3(cfg, WithEndpoint("http://127.0.0.1:9000"))
	require.NotNil(t, client)
	assert.True(t, client.Options().UsePathStyle)
}
