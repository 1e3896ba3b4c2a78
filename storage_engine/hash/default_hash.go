// Default codecs and hash function for this module's exercised
// instantiations of DiskExtendibleHashTable: int64 keys/values and
// fixed-width string keys. The hash function is xxhash truncated to 32
// bits, per SPEC_FULL.md's Domain Stack section — a fast non-cryptographic
// hash is exactly what an on-disk hash index wants for H : K -> uint32,
// and it is one of the teacher's real go.mod dependencies.
package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Int64Codec packs an int64 key or value into 8 bytes.
type Int64Codec struct{}

func (Int64Codec) Size() int { return 8 }
func (Int64Codec) Encode(v int64, buf []byte) {
	binary.LittleEndian.PutUint64(buf, uint64(v))
}
func (Int64Codec) Decode(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf))
}

// FixedStringCodec packs a string into a fixed-width, NUL-padded slot.
type FixedStringCodec struct {
	Width int
}

func (c FixedStringCodec) Size() int { return c.Width }
func (c FixedStringCodec) Encode(v string, buf []byte) {
	n := copy(buf[:c.Width], v)
	for i := n; i < c.Width; i++ {
		buf[i] = 0
	}
}
func (c FixedStringCodec) Decode(buf []byte) string {
	n := 0
	for n < c.Width && buf[n] != 0 {
		n++
	}
	return string(buf[:n])
}

// Int64Comparator totally orders int64 keys.
func Int64Comparator(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// StringComparator totally orders string keys byte-lexicographically.
func StringComparator(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// XXHashInt64 is the default HashFunc for int64 keys.
func XXHashInt64(key int64) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(key))
	return uint32(xxhash.Sum64(buf[:]))
}

// XXHashString is the default HashFunc for string keys.
func XXHashString(key string) uint32 {
	return uint32(xxhash.Sum64String(key))
}
