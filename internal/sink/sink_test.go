package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nettelescope/reportcore/internal/config"
	"github.com/nettelescope/reportcore/internal/resultrow"
	"github.com/nettelescope/reportcore/internal/tag"
)

func TestNew_DefaultsToConsole(t *testing.T) {
	s, err := New(config.SinkConfig{})
	require.NoError(t, err)
	_, ok := s.(*Console)
	assert.True(t, ok)
}

func TestNew_RejectsUnknownType(t *testing.T) {
	_, err := New(config.SinkConfig{Type: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestNew_KafkaRequiresBrokersAndTopic(t *testing.T) {
	_, err := New(config.SinkConfig{Type: "kafka", Config: map[string]any{}})
	assert.Error(t, err)
}

func TestConsole_EmitDoesNotError(t *testing.T) {
	c := NewConsole()
	err := c.Emit([]resultrow.ResultRow{{Timestamp: 1, Class: tag.Combined}})
	assert.NoError(t, err)
	assert.NoError(t, c.Close())
}
