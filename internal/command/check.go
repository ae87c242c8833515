// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/osmx/osmx/internal/meta"
)

// checkCommandAction is the action handler for the "check" subcommand. It
// verifies the bucket exists and the credentials can list it.
func checkCommandAction(ctx context.Context, cmd *cli.Command) error {
	logAction(cmd)

	s, err := InitStore(ctx, cmd, true)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "permissions verified for bucket: %s\n", s.Bucket())
	return nil
}

// checkCommandBuilder constructs the cli.Command for "check".
func checkCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "verify access to the bucket",
		UsageText: "osmx check [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  NewStoreFlags("check", meta.Config.Source),
		Action: checkCommandAction,
	}
}
