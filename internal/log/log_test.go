// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   log.Level
		wantOK bool
	}{
		{name: "trace maps to debug", input: "trace", want: log.DebugLevel, wantOK: true},
		{name: "debug", input: "debug", want: log.DebugLevel, wantOK: true},
		{name: "info upper case", input: "INFO", want: log.InfoLevel, wantOK: true},
		{name: "warning alias", input: "warning", want: log.WarnLevel, wantOK: true},
		{name: "error", input: " error ", want: log.ErrorLevel, wantOK: true},
		{name: "fatal", input: "fatal", want: log.FatalLevel, wantOK: true},
		{name: "unknown", input: "chatty", want: log.ErrorLevel, wantOK: false},
		{name: "empty", input: "", want: log.ErrorLevel, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestCustomHandler_HandleLog(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf)

	logger := &log.Logger{Handler: h, Level: log.DebugLevel}

	logger.Info("uploaded")
	logger.WithField("key", "amenities/lisbon.geojson").Warn("slow upload")
	logger.Debug("TRACE: deep detail")
	logger.WithError(errors.New("boom")).Error("failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], " I uploaded")
	assert.Contains(t, lines[1], " W slow upload key=amenities/lisbon.geojson")
	assert.Contains(t, lines[2], " T deep detail")
	assert.Contains(t, lines[3], " E failed error=boom")
}

func TestInitLogger_Levels(t *testing.T) {
	t.Setenv("OSMX_LOG", "trace")
	InitLogger()
	assert.True(t, traceEnabled)

	t.Setenv("OSMX_LOG", "bogus")
	InitLogger()
	assert.False(t, traceEnabled)
}
