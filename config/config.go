// Package config holds the storage-runtime core's build constants: page
// size, sentinel ids, and the extendible hash index's default depth limits.
// Grounded on the teacher's types package, which centralizes page/size
// constants in one file rather than scattering them across packages.
package config

// PageSize is the fixed size, in bytes, of every page and frame.
const PageSize = 4096

// InvalidPageID is the sentinel meaning "no page".
const InvalidPageID int64 = -1

// InvalidFrameID is the sentinel used for an unset frame id.
const InvalidFrameID = -1

// LRUKReplacerK is the default lookback constant for the LRU-K replacer.
const LRUKReplacerK = 2

// HeaderMaxDepth is the default number of top hash bits the header page
// uses to index into its directory-page-id array.
const HeaderMaxDepth = 9

// DirectoryMaxDepth is the default maximum global depth a directory page
// may grow to.
const DirectoryMaxDepth = 9

// BucketMaxSize is the default maximum number of (key, value) pairs a
// bucket page holds before it must split.
const BucketMaxSize = 4
