package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/rocketscienceinc/gameroom-backend/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestInitLogger(t *testing.T) {
	t.Run("Debug level enables debug records", func(t *testing.T) {
		logger := initLogger(&config.Config{LogLevel: "debug"})

		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("Unknown level falls back to info", func(t *testing.T) {
		logger := initLogger(&config.Config{LogLevel: "verbose"})

		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
		assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	})
}
