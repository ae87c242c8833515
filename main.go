// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/osmx/osmx/internal/cacheutil"
	"github.com/osmx/osmx/internal/command"
	"github.com/osmx/osmx/internal/config"
	"github.com/osmx/osmx/internal/log"
	"github.com/osmx/osmx/internal/version"
)

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	switch {
	case len(args) > 1 && args[1] == "completion":
		// Short-circuit completion: pass args directly.
		return args
	default:
		args = processSetOnly(args)
		log.Debugf("args after set processing: args=%v", args)
		return deduplicateFlags(args, command.BoolFlagNames())
	}
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(ctx context.Context, args []string) int {
	// Pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	} else if ok {
		hours, _ := config.GetInt("cache.clean", 0)
		if err := cacheutil.Purge(hours); err != nil {
			log.Debugf("cache purge err: err=%v", err)
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return initAndRunApp(ctx, args)
}

// processSetOnly handles the @set logic for all commands, expanding the
// <command>.<set> config entry at the @set position. Without an explicit @set
// the <command>.defaults entry is inserted right after the command.
func processSetOnly(args []string) []string {
	if len(args) < 2 { //nolint:mnd
		return args
	}

	// Look for an explicit @set argument starting from index 2.
	idx := 2
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			removeIdx := idx + i
			set := a[1:]
			args = append(args[:removeIdx:removeIdx], args[removeIdx+1:]...)
			return injectConfigSet(args, args[1]+"."+set, removeIdx)
		}
	}

	return injectConfigSet(args, args[1]+".defaults", idx)
}

// injectConfigSet inserts the whitespace separated arguments of the config
// string slice at key into args at insertIdx.
func injectConfigSet(args []string, key string, insertIdx int) []string {
	entries, err := config.GetStringSlice(key)
	if err != nil || len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}
	log.Debugf("config set %s: %v", key, expanded)

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

// deduplicateFlags drops earlier occurrences of a repeated flag, together
// with its value, so a flag given on the command line overrides one injected
// from a config set. Order is otherwise preserved. A flag takes the next
// argument as its value unless it is listed in boolFlags or that argument is
// itself a flag.
func deduplicateFlags(args []string, boolFlags map[string]bool) []string {
	out := make([]string, 0, len(args))
	if len(args) <= 2 { //nolint:mnd
		return append(out, args...)
	}

	type group struct {
		name  string
		words []string
	}

	var groups []group
	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		a := rest[i]
		if a == "--" {
			groups = append(groups, group{words: rest[i:]})
			break
		}
		if !strings.HasPrefix(a, "-") || a == "-" {
			groups = append(groups, group{words: []string{a}})
			continue
		}

		name, _, hasValue := strings.Cut(a, "=")
		g := group{name: name, words: []string{a}}
		if !hasValue && !boolFlags[name] && i+1 < len(rest) && !strings.HasPrefix(rest[i+1], "-") {
			g.words = append(g.words, rest[i+1])
			i++
		}
		groups = append(groups, g)
	}

	last := map[string]int{}
	for i, g := range groups {
		if g.name != "" {
			last[g.name] = i
		}
	}

	out = append(out, args[:2]...)
	for i, g := range groups {
		if g.name != "" && last[g.name] != i {
			continue
		}
		out = append(out, g.words...)
	}
	return out
}
