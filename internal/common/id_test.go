package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequestID(t *testing.T) {
	id := NewRequestID()

	assert.True(t, strings.HasPrefix(id, "req_"))
	assert.Greater(t, len(id), len("req_"))
	assert.NotEqual(t, id, NewRequestID())
}

func TestNewChunkID(t *testing.T) {
	id := NewChunkID()

	assert.True(t, strings.HasPrefix(id, "chunk_"))
	assert.Greater(t, len(id), len("chunk_"))
	assert.NotEqual(t, id, NewChunkID())
}
