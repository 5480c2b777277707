package seqio

import (
	"bytes"
	"fmt"
)

// Position identifies a point in a parsed stream: the absolute byte
// offset from the start of the stream, the 1-indexed line number (1 plus
// every '\n' before the offset; a '\n' at the offset itself is not yet
// counted), and the 0-indexed index of the record starting at (or about
// to start at) that offset.
type Position struct {
	ByteOffset  uint64
	Line        uint64
	RecordIndex uint64
}

func (p Position) String() string {
	return fmt.Sprintf("byte %d (line %d, record %d)", p.ByteOffset, p.Line, p.RecordIndex)
}

// countNewlines returns the number of '\n' bytes in b. It is used to keep
// the running line counter in sync as bytes are consumed or as a scanner
// reports an error at some offset into the still-unconsumed view.
func countNewlines(b []byte) uint64 {
	return uint64(bytes.Count(b, newline))
}

var newline = []byte{'\n'}
