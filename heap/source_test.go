package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBumpSourceExtend(t *testing.T) {
	s := NewBumpSource(128)
	base := s.Base()

	addr, err := s.Extend(0, 48)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), addr)

	addr, err = s.Extend(48, 32)
	assert.NoError(t, err)
	assert.Equal(t, uint32(48), addr)

	// base never moves
	assert.Equal(t, base, s.Base())
}

func TestBumpSourceBoundaryMismatch(t *testing.T) {
	s := NewBumpSource(128)

	_, err := s.Extend(0, 48)
	assert.NoError(t, err)

	_, err = s.Extend(0, 16)
	assert.Equal(t, ErrBoundaryMismatch, err)

	// the failed call has no side effects
	addr, err := s.Extend(48, 16)
	assert.NoError(t, err)
	assert.Equal(t, uint32(48), addr)
}

func TestBumpSourceOutOfMemory(t *testing.T) {
	s := NewBumpSource(64)

	_, err := s.Extend(0, 48)
	assert.NoError(t, err)

	_, err = s.Extend(48, 32)
	assert.Equal(t, ErrOutOfMemory, err)

	// remaining capacity still usable
	addr, err := s.Extend(48, 16)
	assert.NoError(t, err)
	assert.Equal(t, uint32(48), addr)
}
