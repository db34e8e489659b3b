package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelPrefixes(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Info("report %d created", 7)
	Warning("redis unavailable")
	Error("payment %s failed", "chrg_1")

	out := buf.String()
	assert.Contains(t, out, "INFO: ")
	assert.Contains(t, out, "report 7 created")
	assert.Contains(t, out, "WARNING: ")
	assert.Contains(t, out, "ERROR: ")
	assert.Contains(t, out, "payment chrg_1 failed")
	assert.Contains(t, out, "logger_test.go")
}

func TestSetupLoggerWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SetupLogger(dir))
	defer SetOutput(os.Stdout)

	Info("written to file")

	data, err := os.ReadFile(filepath.Join(dir, time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
