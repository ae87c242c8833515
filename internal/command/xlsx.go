// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/osmx/osmx/internal/meta"
)

// xlsxCommandAction is the action handler for the "xlsx" subcommand. It
// prints the first sheet of folder/NAME.xlsx.
func xlsxCommandAction(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSuffix(firstArg(cmd), ".xlsx")
	if name == "" {
		return errors.New("xlsx requires a workbook NAME")
	}

	var columns []string
	fetch := func(ctx context.Context, cmd *cli.Command) ([]map[string]interface{}, error) {
		s, err := InitStore(ctx, cmd, false)
		if err != nil {
			return nil, err
		}
		table, err := s.GetExcel(ctx, name, cmd.String("folder"))
		if err != nil {
			return nil, err
		}
		columns = table.ColumnNames()
		return table.Records(), nil
	}

	runner := NewQueryActionRunner("xlsx", nil, fetch, func(r map[string]interface{}) map[string]interface{} { return r })
	runner.ColumnsFn = func([]map[string]interface{}) []string { return columns }
	return runner.Run(ctx, cmd)
}

// xlsxCommandBuilder constructs the cli.Command for "xlsx".
func xlsxCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "xlsx",
		Usage:     "print a workbook stored in the bucket",
		UsageText: "osmx xlsx NAME [options]",
		Flags: []cli.Flag{
			NewFolderFlag("xlsx", meta.Config.Source),
		},
		Action: xlsxCommandAction,
		Meta:   meta,
	}).Build()
}
