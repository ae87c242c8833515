// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/osmx/osmx/internal/attrs"
	"github.com/osmx/osmx/internal/config"
	"github.com/osmx/osmx/internal/log"
)

// QueryActionRunner[T] encapsulates the common action pattern for the row
// printing subcommands: GetMeta, short-circuit checks, BuildAttrs, fetching
// through FetchFn, converting with RowFn and emitting.
type QueryActionRunner[T any] struct {
	CommandName  string
	DefaultAttrs []string
	FetchFn      func(context.Context, *cli.Command) ([]T, error)
	RowFn        func(T) map[string]interface{}
	// ColumnsFn, when set, derives the default columns from the fetched
	// items. Column names are used verbatim.
	ColumnsFn func([]T) []string
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner[T]) Run(
	ctx context.Context,
	cmd *cli.Command,
) error {
	// Step 1: GetMeta + debug.
	logAction(cmd)
	config.Config.Namespace = qar.CommandName

	// Step 2: Short-circuit checks.
	if ShortCircuitTLDR(ctx, cmd, qar.CommandName) {
		return nil
	}

	// Step 3: Fetch data.
	results, err := qar.FetchFn(ctx, cmd)
	if err != nil {
		return err
	}

	// Step 4: BuildAttrs + debug.
	var al attrs.AttrList
	if qar.ColumnsFn != nil {
		al = ExtendAttrs(cmd, attrs.New(qar.ColumnsFn(results)...))
	} else {
		al = BuildAttrs(cmd, qar.DefaultAttrs...)
	}
	log.Debugf("attrs: %v", al.String())

	// Step 5: Emit + return.
	rows := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		rows = append(rows, qar.RowFn(r))
	}
	return EmitRows(rows, al, cmd)
}

// NewQueryActionRunner creates a QueryActionRunner with the provided
// configuration.
func NewQueryActionRunner[T any](
	commandName string,
	defaultAttrs []string,
	fetchFn func(context.Context, *cli.Command) ([]T, error),
	rowFn func(T) map[string]interface{},
) *QueryActionRunner[T] {
	return &QueryActionRunner[T]{
		CommandName:  commandName,
		DefaultAttrs: defaultAttrs,
		FetchFn:      fetchFn,
		RowFn:        rowFn,
	}
}
