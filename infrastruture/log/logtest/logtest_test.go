package logtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewObserved(t *testing.T) {
	logger, logs := NewObserved()
	logger.Debug("tick", zap.Int("tick", 1))
	logger.With(zap.String("strategy", "FOLLOW_RIGHT")).Info("strategy switched")

	require.Equal(t, 2, logs.Len())
	entries := logs.FilterMessage("strategy switched").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "FOLLOW_RIGHT", entries[0].ContextMap()["strategy"])
}
