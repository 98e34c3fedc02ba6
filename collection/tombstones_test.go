package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTombstonesMarkReviveAlive(t *testing.T) {
	ts := newTombstones()
	ts.append()
	ts.append()

	assert.True(t, ts.alive(0))
	assert.True(t, ts.alive(1))

	ts.mark(0)
	assert.False(t, ts.alive(0))
	assert.True(t, ts.alive(1))

	ts.revive(0)
	assert.True(t, ts.alive(0))
}
