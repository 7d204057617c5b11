package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebug_SilentWhenNotVerbose(t *testing.T) {
	buf := new(bytes.Buffer)
	SetOutput(buf)
	SetVerbose(false)
	defer SetOutput(os.Stderr)

	Debug("hidden %d", 1)

	assert.Empty(t, buf.String())
}

func TestDebug_PrintsWhenVerbose(t *testing.T) {
	buf := new(bytes.Buffer)
	SetOutput(buf)
	SetVerbose(true)
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	Debug("value=%d", 42)
	Info("info line")
	Warn("warn line")
	Section("Pipeline")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] value=42")
	assert.Contains(t, out, "[INFO] info line")
	assert.Contains(t, out, "[WARN] warn line")
	assert.Contains(t, out, "=== Pipeline ===")
}
