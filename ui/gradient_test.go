package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLerp(t *testing.T) {
	assert.Equal(t, uint8(10), lerp(10, 200, 0))
	assert.Equal(t, uint8(200), lerp(10, 200, 1))
	assert.Equal(t, uint8(105), lerp(10, 200, 0.5))
	assert.Equal(t, uint8(50), lerp(100, 0, 0.5))
}
