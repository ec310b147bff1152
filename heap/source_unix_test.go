//go:build unix

package heap

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestMmapSource(t *testing.T) {
	s, err := NewMmapSource(1 << 16)
	assert.NoError(t, err)
	defer func() {
		assert.NoError(t, s.Close())
	}()

	addr, err := s.Extend(0, 64)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), addr)

	_, err = s.Extend(32, 64)
	assert.Equal(t, ErrBoundaryMismatch, err)
}

func TestHeapOverMmapSource(t *testing.T) {
	s, err := NewMmapSource(1 << 16)
	assert.NoError(t, err)
	defer func() {
		assert.NoError(t, s.Close())
	}()

	h := New(WithStrategy(FirstFit), WithSource(s))

	p := h.Malloc(64)
	assert.NotNil(t, p)

	b := unsafe.Slice((*byte)(p), 64)
	for i := range b {
		b[i] = byte(i)
	}

	h.Free(p)
	q := h.Malloc(64)
	assert.Equal(t, p, q)
	assert.Equal(t, uint64(1), h.Stats().Grows)
	assert.Equal(t, uint64(1), h.Stats().Reuses)
}
