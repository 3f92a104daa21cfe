package logging

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, GetLevel("warning"))
	assert.Equal(t, log.ErrorLevel, GetLevel("error"))
	assert.Equal(t, log.InfoLevel, GetLevel(""))
	assert.Equal(t, log.InfoLevel, GetLevel("nonsense"))
}

func TestSetup_WritesToRotatedFile(t *testing.T) {
	prevOut, prevLevel, prevFormatter := log.StandardLogger().Out, log.GetLevel(), log.StandardLogger().Formatter
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetLevel(prevLevel)
		log.SetFormatter(prevFormatter)
	})

	name := filepath.Join(t.TempDir(), "server")
	Setup(LoggerSetupParams{LogFileName: name, LogLevel: "info", LogFormatJSON: true})

	log.Info("hello from test")

	data, err := os.ReadFile(name + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello from test"`)
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
