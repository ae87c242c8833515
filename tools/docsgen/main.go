// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docsgen renders the osmx command reference and tldr pages from
// docs/templates/osmx.yaml.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Subcommands []Subcommand `yaml:"subcommands"`
	Common      Common       `yaml:"common"`
}

type Common struct {
	Flags []Flag `yaml:"flags"`
}

type Subcommand struct {
	ID          string    `yaml:"id"`
	Short       string    `yaml:"short"`
	Description string    `yaml:"description"`
	Usage       string    `yaml:"usage"`
	Flags       []Flag    `yaml:"flags"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
	// Common controls whether the common flags are merged in.
	Common bool `yaml:"common"`
}

type Flag struct {
	ID          string `yaml:"id"`
	Syntax      string `yaml:"syntax"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	More        string `yaml:"more,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
}

type Outputs struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

func main() {
	if len(os.Args) != 2 { //nolint:mnd
		fmt.Fprintln(os.Stderr, "usage: docsgen DOCS_DIR")
		os.Exit(1)
	}

	if err := generate(os.Stdout, os.Args[1], getVersion(), time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// generate renders one page per subcommand and output type below docs.
func generate(w io.Writer, docs, version string, now time.Time) error {
	data, err := os.ReadFile(filepath.Join(docs, "templates", "osmx.yaml"))
	if err != nil {
		return err
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse osmx.yaml: %w", err)
	}

	types := []Outputs{
		{Template: filepath.Join(docs, "templates", "osmx.md.tmpl"), Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
		{Template: filepath.Join(docs, "templates", "osmx.tldr.tmpl"), Folder: filepath.Join(docs, "tldr"), Prefix: "osmx-", Suffix: ".md"},
	}

	for _, sub := range config.Subcommands {
		var merged []Flag
		if sub.Common {
			merged = append(merged, config.Common.Flags...)
		}
		merged = append(merged, sub.Flags...)
		sort.Slice(merged, func(i, j int) bool {
			return merged[i].ID < merged[j].ID
		})
		sub.Flags = merged

		metadata := TemplateData{
			Subcommand: sub,
			Date:       now.Format("January 2, 2006"),
			Version:    version,
		}

		for _, t := range types {
			if err := render(w, t, sub.ID, metadata); err != nil {
				return err
			}
		}
	}
	return nil
}

func render(w io.Writer, t Outputs, id string, metadata TemplateData) error {
	if err := os.MkdirAll(t.Folder, 0o755); err != nil { //nolint:mnd
		return err
	}

	tmpl, err := template.ParseFiles(t.Template)
	if err != nil {
		return err
	}

	path := filepath.Join(t.Folder, t.Prefix+id+t.Suffix)
	fmt.Fprintln(w, "Generating", path)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return tmpl.Execute(file, metadata)
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
