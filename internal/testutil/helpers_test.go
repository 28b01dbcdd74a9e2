package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceRand(t *testing.T) {
	r := NewSequenceRand(3, 12, -1)

	assert.Equal(t, 3, r.Intn(10))
	assert.Equal(t, 2, r.Intn(10))
	assert.Equal(t, 9, r.Intn(10))
	assert.Equal(t, 3, r.Intn(10), "sequence should wrap")
	assert.Equal(t, 4, r.Draws())

	empty := NewSequenceRand()
	assert.Equal(t, 0, empty.Intn(10))
}
