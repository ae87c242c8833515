// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/osmx/osmx/internal/config"
	"github.com/osmx/osmx/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	// Save the CWD at startup and then defer restoring it so we're tidy.
	sd, _ := os.Getwd()
	defer func() {
		if err := os.Chdir(sd); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to restore directory: %v\n", err)
		}
	}()

	// The arg[1] immediately following the binary (arg[0]) is the osmx
	// subcommand and also represents the namespace key to be used when retrieving
	// config values. arg[1] could be -h/--help, so ignore it if it appears to be
	// a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// Credentials and the bucket name come from the env file. It has to be
	// loaded before the flags resolve their env sources.
	envFile, err := config.LoadEnv(EnvFileArg(args))
	if err != nil {
		return nil, err
	}

	cfg, _ := config.Load() //nolint
	cfg.Namespace = ns
	config.Config.Namespace = ns
	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
		EnvFile:     envFile,
	}

	return newApp(meta), nil
}

// newApp assembles the command tree.
func newApp(meta meta.Meta) *cli.Command {
	app := &cli.Command{
		Name:  "osmx",
		Usage: "OpenStreetMap amenity extracts in S3",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "osmx version info",
				HideDefault: true,
			},
			newEnvFileFlag(),
		},
	}

	app.Commands = append(app.Commands,
		extractCommandBuilder(meta),
		lsCommandBuilder(meta),
		existsCommandBuilder(meta),
		getCommandBuilder(meta),
		putCommandBuilder(meta),
		xlsxCommandBuilder(meta),
		checkCommandBuilder(meta),
		diffCommandBuilder(meta),
		inspectCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app
}

// BoolFlagNames returns every spelling of the bool flags defined anywhere in
// the command tree, e.g. "--force" and "-c". Bool flags never take the next
// argument as their value.
func BoolFlagNames() map[string]bool {
	names := map[string]bool{}
	var walk func(cmd *cli.Command)
	walk = func(cmd *cli.Command) {
		for _, f := range cmd.Flags {
			if _, ok := f.(*cli.BoolFlag); !ok {
				continue
			}
			for _, n := range f.Names() {
				if len(n) == 1 {
					names["-"+n] = true
				} else {
					names["--"+n] = true
				}
			}
		}
		for _, sub := range cmd.Commands {
			walk(sub)
		}
	}
	walk(newApp(meta.Meta{}))
	return names
}

// EnvFileArg returns the value given to --env-file in args, or "".
func EnvFileArg(args []string) string {
	for i, a := range args {
		switch {
		case a == "--":
			return ""
		case a == "--env-file" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(a, "--env-file="):
			return strings.TrimPrefix(a, "--env-file=")
		}
	}
	return ""
}
