package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftAndReset(t *testing.T) {
	m := NewManager()
	assert.Equal(t, 0, m.GetOffset(1))

	assert.Equal(t, 1, m.Shift(1, 1))
	assert.Equal(t, 2, m.Shift(1, 1))
	assert.Equal(t, -1, m.Shift(2, -1))
	assert.Equal(t, 2, m.GetOffset(1))

	assert.Equal(t, 0, m.Shift(2, 1))
	assert.NotContains(t, m.offsets, int64(2))

	m.Reset(1)
	assert.Equal(t, 0, m.GetOffset(1))
	assert.Empty(t, m.offsets)
}

func TestConcurrentShift(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Shift(7, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, m.GetOffset(7))
}
