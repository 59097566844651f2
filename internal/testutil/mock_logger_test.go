package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)
	v, ok := messages[0].Field("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
	assert.Equal(t, 1, logger.CountLevel("error"))
}

func TestMockLogger_ChildrenShareBuffer(t *testing.T) {
	root := testutil.NewMockLogger()
	child := root.Named("cache").Named("redis").With(logging.String("key", "k"))

	child.Warn("get failed")

	msgs := root.GetMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "cache.redis", msgs[0].Logger)
	v, ok := msgs[0].Field("key")
	assert.True(t, ok)
	assert.Equal(t, "k", v)
}

//Personal.AI order the ending
