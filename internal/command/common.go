// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/urfave/cli/v3"

	"github.com/osmx/osmx/internal/attrs"
	"github.com/osmx/osmx/internal/filters"
	"github.com/osmx/osmx/internal/log"
	"github.com/osmx/osmx/internal/meta"
	"github.com/osmx/osmx/internal/output"
)

// stdout is where command results are written. Tests swap it.
var stdout io.Writer = os.Stdout

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	for _, d := range defaults {
		al.Set(d) //nolint:errcheck
	}
	return ExtendAttrs(cmd, al)
}

// ExtendAttrs merges --attrs into al and applies the global transform spec.
func ExtendAttrs(cmd *cli.Command, al attrs.AttrList) attrs.AttrList {
	//nolint:errcheck
	{
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return al
}

// OutputOptions collects the table rendering flags.
func OutputOptions(cmd *cli.Command) output.Options {
	return output.Options{
		Format:  cmd.String("output"),
		Sort:    cmd.String("sort"),
		Titles:  cmd.Bool("titles"),
		Color:   cmd.Bool("color"),
		Padding: 2, //nolint:mnd
	}
}

// EmitRows applies --filter to rows and passes them to the common output
// routine.
func EmitRows(rows []map[string]interface{}, al attrs.AttrList, cmd *cli.Command) error {
	rows = filters.FilterRows(rows, cmd.String("filter"))
	return output.Spit(stdout, rows, al, OutputOptions(cmd))
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// logAction logs the arguments the command runs with.
func logAction(cmd *cli.Command) {
	if m := GetMeta(cmd); len(m.Args) > 1 {
		log.Debugf("Executing action for %v", m.Args[1:])
	}
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr osmx <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "osmx", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// firstArg returns the first positional argument or "".
func firstArg(cmd *cli.Command) string {
	if cmd.Args().Len() == 0 {
		return ""
	}
	return cmd.Args().First()
}
