package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type testLogConfig struct {
	level, output, file string
}

func (c testLogConfig) GetLevel() string  { return c.level }
func (c testLogConfig) GetOutput() string { return c.output }
func (c testLogConfig) GetFile() string   { return c.file }

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"warning", WARN},
		{"error", ERROR},
		{"fatal", FATAL},
		{"bogus", INFO},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.in), tt.in)
	}
}

func TestNewWithWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(WARN, zapcore.AddSync(&buf))
	require.NoError(t, err)

	l.Info("dropped %d", 1)
	l.Warn("kept %s", "warn")
	l.Sync()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept warn", entry["message"])
	assert.Equal(t, "WARN", entry["level"])
}

func TestInitRequiresFileForFileOutput(t *testing.T) {
	err := Init(testLogConfig{level: "info", output: "file"})
	require.Error(t, err)
}

func TestInitFileOutput(t *testing.T) {
	prev := current()
	t.Cleanup(func() { SetDefaultLogger(prev) })

	file := t.TempDir() + "/app.log"
	require.NoError(t, Init(testLogConfig{level: "debug", output: "file", file: file}))
	Info("campaign refresh finished")
	Sync()
}
