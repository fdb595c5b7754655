// MIT License
//
// Copyright (c) 2024-2026 Meshwork Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "WARNING", WarningLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}

func TestLogInfo(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := New(InfoLevel, buffer)
	logger.Info("routing envelope")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &record))
	assert.Equal(t, "info", record["level"])
	assert.Equal(t, "routing envelope", record["msg"])
	assert.Equal(t, InfoLevel, logger.LogLevel())
	assert.Len(t, logger.LogOutput(), 1)
}

func TestLogDebugFiltered(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := New(InfoLevel, buffer)
	logger.Debug("should not appear")
	assert.Zero(t, buffer.Len())
}

func TestLogFormatted(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := New(DebugLevel, buffer)
	logger.Debugf("actor %s spawned", "worker-1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &record))
	assert.Equal(t, "actor worker-1 spawned", record["msg"])
}

func TestDiscardLogger(t *testing.T) {
	DiscardLogger.Info("dropped")
	DiscardLogger.Warnf("dropped %d", 1)
	assert.Equal(t, InfoLevel, DiscardLogger.LogLevel())
	assert.NotNil(t, DiscardLogger.StdLogger())
	assert.Panics(t, func() { DiscardLogger.Panic("boom") })
}
