package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bustubgo/config"
)

func TestHeaderPage_InitClearsSlots(t *testing.T) {
	buf := make([]byte, HeaderPageSize)
	h := NewHeaderPage(buf)
	h.Init(2)

	assert.Equal(t, uint32(2), h.MaxDepth())
	assert.Equal(t, uint32(4), h.MaxSize())
	for i := uint32(0); i < h.MaxSize(); i++ {
		assert.Equal(t, config.InvalidPageID, h.GetDirectoryPageID(i))
	}
}

func TestHeaderPage_HashToDirectoryIndexUsesTopBits(t *testing.T) {
	buf := make([]byte, HeaderPageSize)
	h := NewHeaderPage(buf)
	h.Init(2)

	assert.Equal(t, uint32(0), h.HashToDirectoryIndex(0x00000000))
	assert.Equal(t, uint32(3), h.HashToDirectoryIndex(0xFFFFFFFF))
	assert.Equal(t, uint32(2), h.HashToDirectoryIndex(0x80000000))
}

func TestHeaderPage_HashToDirectoryIndexIsAlwaysZeroAtMaxDepthZero(t *testing.T) {
	buf := make([]byte, HeaderPageSize)
	h := NewHeaderPage(buf)
	h.Init(0)

	assert.Equal(t, uint32(1), h.MaxSize())
	assert.Equal(t, uint32(0), h.HashToDirectoryIndex(0x00000000))
	assert.Equal(t, uint32(0), h.HashToDirectoryIndex(0xFFFFFFFF))
	assert.Equal(t, uint32(0), h.HashToDirectoryIndex(0x12345678))
}

func TestHeaderPage_SetAndGetDirectoryPageID(t *testing.T) {
	buf := make([]byte, HeaderPageSize)
	h := NewHeaderPage(buf)
	h.Init(3)

	h.SetDirectoryPageID(5, 42)
	assert.Equal(t, int64(42), h.GetDirectoryPageID(5))
	assert.Equal(t, config.InvalidPageID, h.GetDirectoryPageID(0))
	assert.Contains(t, h.String(), "[5]=42")
}
