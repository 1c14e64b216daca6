package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	original := log.Writer()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(original)
	fn()
	return buf.String()
}

func TestLogInfoHumanFormat(t *testing.T) {
	logger := NewLogger(LogLevelInfo, LogFormatHuman)

	out := captureLog(t, func() {
		logger.LogInfo(context.Background(), "run started", map[string]interface{}{"files": 3})
	})

	assert.Contains(t, out, "[info] run started")
	assert.Contains(t, out, "files:3")
}

func TestLogInfoWithoutFields(t *testing.T) {
	logger := NewLogger(LogLevelInfo, LogFormatHuman)

	out := captureLog(t, func() {
		logger.LogInfo(context.Background(), "done", nil)
	})

	assert.Contains(t, out, "[info] done")
	assert.False(t, strings.Contains(out, "map["))
}

func TestLogInfoSuppressedAboveLevel(t *testing.T) {
	logger := NewLogger(LogLevelError, LogFormatHuman)

	out := captureLog(t, func() {
		logger.LogInfo(context.Background(), "hidden", nil)
	})

	assert.Empty(t, out)
}

func TestLogWarningAlwaysEmitted(t *testing.T) {
	logger := NewLogger(LogLevelError, LogFormatHuman)

	out := captureLog(t, func() {
		logger.LogWarning(context.Background(), "analyzer failed", map[string]interface{}{"file": "A.hs"})
	})

	assert.Contains(t, out, "[warning] analyzer failed")
}

func TestJSONFormat(t *testing.T) {
	logger := NewLogger(LogLevelInfo, LogFormatJSON)

	out := captureLog(t, func() {
		logger.LogWarning(context.Background(), "dropped findings", map[string]interface{}{"dropped": 2})
	})

	start := strings.Index(out, "{")
	require.GreaterOrEqual(t, start, 0)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out[start:])), &record))
	assert.Equal(t, "warning", record["level"])
	assert.Equal(t, "dropped findings", record["message"])
	assert.Equal(t, float64(2), record["dropped"])
	assert.NotEmpty(t, record["timestamp"])
}
