// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/osmx/osmx/internal/store"
)

const (
	DefaultKey      = "amenity"
	DefaultParallel = 2
)

var ErrNoPlace = errors.New("job has no place")

// Job describes one extraction.
type Job struct {
	Place  string   `yaml:"place" json:"place"`
	Name   string   `yaml:"name,omitempty" json:"name,omitempty"`
	Folder string   `yaml:"folder,omitempty" json:"folder,omitempty"`
	Key    string   `yaml:"key,omitempty" json:"key,omitempty"`
	Values []string `yaml:"values,omitempty" json:"values,omitempty"`
	Filter string   `yaml:"filter,omitempty" json:"filter,omitempty"`
}

// WithDefaults fills empty fields from d, then from the package defaults.
// Name falls back to the slug of Place.
func (j Job) WithDefaults(d Job) Job {
	if j.Folder == "" {
		j.Folder = d.Folder
	}
	if j.Folder == "" {
		j.Folder = store.DefaultFolder
	}
	if j.Key == "" {
		j.Key = d.Key
	}
	if j.Key == "" {
		j.Key = DefaultKey
	}
	if len(j.Values) == 0 {
		j.Values = d.Values
	}
	if j.Filter == "" {
		j.Filter = d.Filter
	}
	if j.Name == "" {
		j.Name = Slug(j.Place)
	}
	return j
}

// Validate reports whether j can run.
func (j Job) Validate() error {
	if strings.TrimSpace(j.Place) == "" {
		return ErrNoPlace
	}
	if j.Name == "" {
		return fmt.Errorf("job %q has no usable name", j.Place)
	}
	return nil
}

// ObjectKey is where the job's collection is stored.
func (j Job) ObjectKey() string {
	return store.Key(j.Folder, j.Name, ".geojson")
}

// Slug turns a place name into an object name: "Lisbon, Portugal" becomes
// "lisbon_portugal". Letters and digits are kept, lower-cased; every other
// run of characters becomes one underscore.
func Slug(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pending = true
	}
	return b.String()
}

// jobFile is the layout of a --jobs file.
type jobFile struct {
	Defaults Job   `yaml:"defaults"`
	Jobs     []Job `yaml:"jobs"`
}

// LoadJobs reads jobs from a YAML file. The file is either a list of jobs or
// a mapping with optional defaults and a jobs list. Defaults are applied.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs file: %w", err)
	}
	return ParseJobs(data)
}

// ParseJobs decodes a jobs document. See LoadJobs.
func ParseJobs(data []byte) ([]Job, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse jobs: %w", err)
	}

	var jf jobFile
	if len(node.Content) == 0 {
		return []Job{}, nil
	}
	if node.Content[0].Kind == yaml.SequenceNode {
		if err := node.Content[0].Decode(&jf.Jobs); err != nil {
			return nil, fmt.Errorf("failed to parse jobs: %w", err)
		}
	} else if err := node.Decode(&jf); err != nil {
		return nil, fmt.Errorf("failed to parse jobs: %w", err)
	}

	jobs := make([]Job, 0, len(jf.Jobs))
	for i, j := range jf.Jobs {
		j = j.WithDefaults(jf.Defaults)
		if err := j.Validate(); err != nil {
			return nil, fmt.Errorf("job %d: %w", i+1, err)
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}
