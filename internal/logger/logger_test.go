package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/go-kit/log/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)

	require.NoError(t, level.Info(l).Log("msg", "record saved", "slot", "1-2"))

	line := buf.String()
	assert.Contains(t, line, "level=info")
	assert.Contains(t, line, `msg="record saved"`)
	assert.Contains(t, line, "slot=1-2")
	assert.Contains(t, line, "ts=")
	assert.Contains(t, line, "caller=")
}

func TestNewCreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, l.Log("msg", "hello"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
