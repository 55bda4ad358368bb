package logger_test

import (
	"os"
	"strings"
	"testing"

	"github.com/APTrust/pharos/util/logger"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	dir, err := os.MkdirTemp("", "pharos-log-test")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	log, filename := logger.InitLogger(dir, logging.INFO)
	require.NotNil(t, log)
	assert.True(t, strings.HasPrefix(filename, dir))
	assert.True(t, strings.HasSuffix(filename, ".log"))

	log.Info("Bloomsday")
	data, err := os.ReadFile(filename)
	require.Nil(t, err)
	assert.Contains(t, string(data), "[INFO] Bloomsday")
}

func TestDiscardLogger(t *testing.T) {
	log := logger.DiscardLogger("pharos_test")
	require.NotNil(t, log)
	log.Error("goes nowhere")
}

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, logging.DEBUG, logger.LevelFromString("debug"))
	assert.Equal(t, logging.WARNING, logger.LevelFromString("WARNING"))
	assert.Equal(t, logging.INFO, logger.LevelFromString("chatty"))
}
