package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.NotNil(t, config)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 5050, config.Server.Port)
	assert.Equal(t, 30*time.Second, config.Server.ShutdownTimeout)
	assert.Equal(t, "yt-dlp", config.Extractor.Binary)
	assert.Zero(t, config.Extractor.Timeout)
	assert.Equal(t, 200, config.Download.TitleByteLimit)
	assert.Empty(t, config.Download.TempDir)
	assert.True(t, config.RateLimit.Enabled)
	assert.Equal(t, time.Minute, config.RateLimit.Window)
	assert.False(t, config.History.Enabled)
	assert.Equal(t, "info", config.Logging.Level)
}
