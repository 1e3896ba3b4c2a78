// Package dbgout is the storage-runtime core's diagnostic logger. It
// carries forward the teacher's bracket-tagged Printf convention
// ("[BufferPool] HIT pageID=...", "[BufferPool] EVICT pageID=...") as a
// small wrapper over the standard library's log.Logger, so every package in
// this module logs the same way instead of reaching for fmt.Printf ad hoc.
package dbgout

import (
	"log"
	"os"

	"github.com/dustin/go-humanize"
)

// Logger is a tag-prefixed diagnostic logger, e.g. New("BufferPool").
type Logger struct {
	tag *log.Logger
}

// New returns a Logger that prefixes every line with "[tag] ".
func New(tag string) *Logger {
	return &Logger{tag: log.New(os.Stderr, "["+tag+"] ", log.LstdFlags)}
}

// Printf logs a formatted diagnostic line.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.tag == nil {
		return
	}
	l.tag.Printf(format, args...)
}

// Bytes renders a byte count the way this module's stats lines report
// resident buffer-pool memory.
func Bytes(n uint64) string {
	return humanize.Bytes(n)
}

// Comma renders an integer count with thousands separators, used for frame
// and page counts in stats output.
func Comma(n int64) string {
	return humanize.Comma(n)
}
