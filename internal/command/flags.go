// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/osmx/osmx/internal/config"
	"github.com/osmx/osmx/internal/output"
	"github.com/osmx/osmx/internal/store"
)

// newEnvFileFlag constructs the root --env-file flag.
func newEnvFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "env-file",
		Usage: "dotenv file holding AWS credentials and the bucket name",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar(config.EnvEnvFile),
		),
		Value: config.DefaultEnvFile,
	}
}

// newTldrFlag constructs the --tldr flag, hidden when tldr is not installed.
func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

// NewGlobalFlags returns the result shaping flags shared by commands that
// print tables.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   output.FormatText,
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewStoreFlags returns the flags that select the bucket and how to reach it.
// params[0] is the command namespace and params[1] the config file.
func NewStoreFlags(params ...string) []cli.Flag {
	bucket := &cli.StringFlag{
		Name:    "bucket",
		Aliases: []string{"b"},
		Usage:   "S3 bucket holding the extracts",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar(config.EnvBucket),
			cli.EnvVar(config.EnvBucketLegacy),
		),
	}
	region := &cli.StringFlag{
		Name:  "region",
		Usage: "AWS region of the bucket",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar(config.EnvDefaultRegion),
			cli.EnvVar("AWS_REGION"),
		),
	}
	endpoint := &cli.StringFlag{
		Name:  "endpoint",
		Usage: "endpoint of an S3-compatible store",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWS_ENDPOINT_URL_S3"),
		),
	}
	profile := &cli.StringFlag{
		Name:  "profile",
		Usage: "shared AWS config profile",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWS_PROFILE"),
		),
	}

	if len(params) == 2 {
		bucket = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], bucket)
		region = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], region)
		endpoint = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], endpoint)
	}

	return []cli.Flag{bucket, region, endpoint, profile}
}

// NewFolderFlag constructs the --folder flag, optionally namespaced to a
// command and config file.
func NewFolderFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "folder",
		Usage: "key prefix inside the bucket",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("OSMX_FOLDER"),
		),
		Value: store.DefaultFolder,
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewOSMFlags returns the flags that point at Overpass and Nominatim.
func NewOSMFlags(params ...string) []cli.Flag {
	overpass := &cli.StringFlag{
		Name:  "overpass-url",
		Usage: "Overpass API interpreter endpoint",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("OSMX_OVERPASS_URL"),
		),
	}
	nominatim := &cli.StringFlag{
		Name:  "nominatim-url",
		Usage: "Nominatim geocoder base URL",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("OSMX_NOMINATIM_URL"),
		),
	}

	if len(params) == 2 {
		overpass = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], overpass)
		nominatim = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], nominatim)
	}

	return []cli.Flag{overpass, nominatim}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas reports whether target is on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
