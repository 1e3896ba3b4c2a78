// Header page: spec.md §3/§6. Layout is a fixed array of directory page
// ids sized to config.HeaderMaxDepth's upper bound, followed by a uint32
// max_depth, matching original_source's
// extendible_htable_header_page.h ("DirectoryPageIds(2048) | MaxDepth(4)").
package hash

import (
	"encoding/binary"
	"fmt"
	"strings"

	"bustubgo/config"
)

const headerArrayCapacity = 1 << config.HeaderMaxDepth
const headerMaxDepthOffset = headerArrayCapacity * 4

// HeaderPageSize is the on-page size, in bytes, of a header page.
const HeaderPageSize = headerMaxDepthOffset + 4

// HeaderPage is a view over a frame's raw bytes as an extendible hash
// header page.
type HeaderPage struct {
	data []byte
}

// NewHeaderPage wraps data (at least HeaderPageSize bytes) as a header
// page view.
func NewHeaderPage(data []byte) HeaderPage {
	return HeaderPage{data: data}
}

// Init sets the header's max depth and clears every directory slot to
// config.InvalidPageID. maxDepth must not exceed config.HeaderMaxDepth.
func (h HeaderPage) Init(maxDepth uint32) {
	binary.LittleEndian.PutUint32(h.data[headerMaxDepthOffset:], maxDepth)
	for i := 0; i < headerArrayCapacity; i++ {
		h.SetDirectoryPageID(uint32(i), config.InvalidPageID)
	}
}

// MaxDepth returns the number of top hash bits used to index the
// directory array.
func (h HeaderPage) MaxDepth() uint32 {
	return binary.LittleEndian.Uint32(h.data[headerMaxDepthOffset:])
}

// MaxSize returns the number of directory slots this header currently
// addresses (1 << MaxDepth).
func (h HeaderPage) MaxSize() uint32 {
	return uint32(1) << h.MaxDepth()
}

// HashToDirectoryIndex returns the directory index a 32-bit hash maps to:
// its top MaxDepth bits.
func (h HeaderPage) HashToDirectoryIndex(hash uint32) uint32 {
	return hash >> (32 - h.MaxDepth())
}

// GetDirectoryPageID returns the directory page id stored at index.
func (h HeaderPage) GetDirectoryPageID(index uint32) int64 {
	off := int(index) * 4
	return int64(int32(binary.LittleEndian.Uint32(h.data[off:])))
}

// SetDirectoryPageID sets the directory page id stored at index.
func (h HeaderPage) SetDirectoryPageID(index uint32, pageID int64) {
	off := int(index) * 4
	binary.LittleEndian.PutUint32(h.data[off:], uint32(int32(pageID)))
}

// String dumps the header's occupied slots, for diagnostic logging.
func (h HeaderPage) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "header(max_depth=%d)", h.MaxDepth())
	for i := uint32(0); i < h.MaxSize(); i++ {
		if id := h.GetDirectoryPageID(i); id != config.InvalidPageID {
			fmt.Fprintf(&b, " [%d]=%d", i, id)
		}
	}
	return b.String()
}
