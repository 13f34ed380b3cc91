package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevel(t *testing.T) {
	require.NoError(t, Init("debug", "", false))
	assert.Equal(t, logrus.DebugLevel, Get().GetLevel())

	require.NoError(t, Init("not-a-level", "", false))
	assert.Equal(t, logrus.InfoLevel, Get().GetLevel())
}

func TestInitFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "vulqueno.log")
	require.NoError(t, Init("info", file, false))

	WithField("device", "test").Info("hello")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "device=test")
}
