// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// no-cloc
package driller

import (
	"embed"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

// drillerTestCase represents a single test case for TestDrill.
type drillerTestCase struct {
	Name        string                 `yaml:"name"`
	JSON        map[string]interface{} `yaml:"json"`
	Path        string                 `yaml:"path"`
	ExpectedStr string                 `yaml:"expectedStr"`
	IsNil       bool                   `yaml:"isNil"`
	IsArray     bool                   `yaml:"isArray"`
}

// loadTestData loads test data from embedded YAML files.
func loadTestData(filename string, v interface{}) error {
	data, err := testDataFS.ReadFile("testdata/" + filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func TestDrill(t *testing.T) {
	var tests []drillerTestCase
	err := loadTestData("driller_cases.yaml", &tests)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			doc, err := json.Marshal(tt.JSON)
			require.NoError(t, err)
			result := Drill(doc, tt.Path)

			if tt.IsNil {
				assert.False(t, result.Exists(), "got %v", result.Value())
				return
			}

			require.True(t, result.Exists(), "expected a result")
			if tt.IsArray {
				assert.True(t, result.IsArray(), "got %v", result.Value())
			}
			if tt.ExpectedStr != "" {
				assert.Equal(t, tt.ExpectedStr, result.String())
			}
		})
	}
}
