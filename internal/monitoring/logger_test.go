package monitoring

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bufferLogger captures log output for inspection.
func bufferLogger() (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}, &buf
}

func TestScoreLogger(t *testing.T) {
	tests := []struct {
		name         string
		repository   string
		expectedMode string
	}{
		{name: "flat mode when no repository", repository: "", expectedMode: "flat"},
		{name: "mapping mode with repository", repository: "openneuro", expectedMode: "mapping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := bufferLogger()
			logger.ScoreLogger(tt.repository, 3, 74.0, 2*time.Millisecond)

			var line map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			assert.Equal(t, "Scoring Completed", line["msg"])
			assert.Equal(t, tt.expectedMode, line["mode"])
			assert.Equal(t, 3.0, line["records"])
			assert.Equal(t, 74.0, line["total"])
		})
	}
}

func TestSIndexLogger(t *testing.T) {
	logger, buf := bufferLogger()
	logger.SIndexLogger(5, 3, time.Millisecond)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "S-Index Computed", line["msg"])
	assert.Equal(t, 5.0, line["datasets"])
	assert.Equal(t, 3.0, line["s_index"])
}
