// Directory page: spec.md §3/§6. Layout is uint32 max_depth; uint32
// global_depth; uint8 local_depths[capacity]; then a page_id array of
// bucket page ids, capacity sized to config.DirectoryMaxDepth's upper
// bound, matching original_source's extendible_htable_directory_page.
package hash

import (
	"encoding/binary"
	"fmt"
	"strings"

	"bustubgo/config"
)

const directoryArrayCapacity = 1 << config.DirectoryMaxDepth
const (
	directoryMaxDepthOffset    = 0
	directoryGlobalDepthOffset = 4
	directoryLocalDepthsOffset = 8
	directoryBucketIDsOffset   = directoryLocalDepthsOffset + directoryArrayCapacity
)

// DirectoryPageSize is the on-page size, in bytes, of a directory page.
const DirectoryPageSize = directoryBucketIDsOffset + directoryArrayCapacity*4

// DirectoryPage is a view over a frame's raw bytes as an extendible hash
// directory page.
type DirectoryPage struct {
	data []byte
}

// NewDirectoryPage wraps data (at least DirectoryPageSize bytes) as a
// directory page view.
func NewDirectoryPage(data []byte) DirectoryPage {
	return DirectoryPage{data: data}
}

// Init sets the directory's max depth to maxDepth, its global depth to 0,
// and clears every slot's local depth to 0 and bucket page id to
// config.InvalidPageID.
func (d DirectoryPage) Init(maxDepth uint32) {
	binary.LittleEndian.PutUint32(d.data[directoryMaxDepthOffset:], maxDepth)
	binary.LittleEndian.PutUint32(d.data[directoryGlobalDepthOffset:], 0)
	for i := 0; i < directoryArrayCapacity; i++ {
		d.data[directoryLocalDepthsOffset+i] = 0
		d.SetBucketPageID(uint32(i), config.InvalidPageID)
	}
}

// MaxDepth returns the maximum global depth this directory may grow to.
func (d DirectoryPage) MaxDepth() uint32 {
	return binary.LittleEndian.Uint32(d.data[directoryMaxDepthOffset:])
}

// GlobalDepth returns the number of low hash bits currently used to index
// the directory.
func (d DirectoryPage) GlobalDepth() uint32 {
	return binary.LittleEndian.Uint32(d.data[directoryGlobalDepthOffset:])
}

func (d DirectoryPage) setGlobalDepth(v uint32) {
	binary.LittleEndian.PutUint32(d.data[directoryGlobalDepthOffset:], v)
}

// Size returns the number of directory slots currently in use: 1 <<
// GlobalDepth.
func (d DirectoryPage) Size() uint32 {
	return uint32(1) << d.GlobalDepth()
}

// MaxSize returns the number of directory slots this directory could grow
// to: 1 << MaxDepth.
func (d DirectoryPage) MaxSize() uint32 {
	return uint32(1) << d.MaxDepth()
}

// HashToBucketIndex returns the bucket slot a 32-bit hash maps to: its low
// GlobalDepth bits.
func (d DirectoryPage) HashToBucketIndex(hash uint32) uint32 {
	depth := d.GlobalDepth()
	if depth == 0 {
		return 0
	}
	return hash & ((uint32(1) << depth) - 1)
}

// GetBucketPageID returns the bucket page id stored at index.
func (d DirectoryPage) GetBucketPageID(index uint32) int64 {
	off := directoryBucketIDsOffset + int(index)*4
	return int64(int32(binary.LittleEndian.Uint32(d.data[off:])))
}

// SetBucketPageID sets the bucket page id stored at index.
func (d DirectoryPage) SetBucketPageID(index uint32, pageID int64) {
	off := directoryBucketIDsOffset + int(index)*4
	binary.LittleEndian.PutUint32(d.data[off:], uint32(int32(pageID)))
}

// GetLocalDepth returns the local depth of the bucket at index.
func (d DirectoryPage) GetLocalDepth(index uint32) uint32 {
	return uint32(d.data[directoryLocalDepthsOffset+int(index)])
}

// SetLocalDepth sets the local depth of the bucket at index.
func (d DirectoryPage) SetLocalDepth(index uint32, depth uint32) {
	d.data[directoryLocalDepthsOffset+int(index)] = byte(depth)
}

// IncrLocalDepth increments the local depth of the bucket at index.
func (d DirectoryPage) IncrLocalDepth(index uint32) {
	d.SetLocalDepth(index, d.GetLocalDepth(index)+1)
}

// GetSplitImageIndex returns the split image of index at its current
// local depth: index XOR (1 << (local_depth - 1)).
func (d DirectoryPage) GetSplitImageIndex(index uint32) uint32 {
	localDepth := d.GetLocalDepth(index)
	return index ^ (uint32(1) << (localDepth - 1))
}

// IncrGlobalDepth doubles the directory: every new slot at i +
// old-size inherits the bucket page id and local depth of slot i, then
// GlobalDepth is incremented.
func (d DirectoryPage) IncrGlobalDepth() {
	oldSize := d.Size()
	for i := uint32(0); i < oldSize; i++ {
		mirror := i + oldSize
		d.SetBucketPageID(mirror, d.GetBucketPageID(i))
		d.SetLocalDepth(mirror, d.GetLocalDepth(i))
	}
	d.setGlobalDepth(d.GlobalDepth() + 1)
}

// String dumps the directory's active slots, for diagnostic logging.
func (d DirectoryPage) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "directory(global_depth=%d)", d.GlobalDepth())
	for i := uint32(0); i < d.Size(); i++ {
		fmt.Fprintf(&b, " [%d]=%d(ld=%d)", i, d.GetBucketPageID(i), d.GetLocalDepth(i))
	}
	return b.String()
}
