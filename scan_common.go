package seqio

import "bytes"

// scanOutcome is the verdict a format scanner reaches for the current
// view. It mirrors ScanOutcome in the design doc (Record/NeedMore/Eof);
// Error is instead returned as a *scanError alongside the zero outcome.
type scanOutcome int

const (
	outcomeNeedMore scanOutcome = iota
	outcomeRecord
	outcomeEOF
)

// scanLine locates the line starting at start. It returns the end of the
// line's content (excluding a trailing '\r' and the terminating '\n'),
// the index of the byte following the line (i.e. the start of the next
// line), whether the line was properly terminated by a '\n', and whether
// a verdict could be reached at all from the bytes on hand (false means
// the caller must refill and retry). At EOF with no '\n' in sight, an
// unterminated trailing line is accepted: contentEnd and lineEnd both
// equal len(view) and terminated is false.
func scanLine(view []byte, start int, atEOF bool) (contentEnd, lineEnd int, terminated, ok bool) {
	rel := bytes.IndexByte(view[start:], '\n')
	if rel < 0 {
		if atEOF {
			return len(view), len(view), false, true
		}
		return 0, 0, false, false
	}
	nlIdx := start + rel
	contentEnd = nlIdx
	if contentEnd > start && view[contentEnd-1] == '\r' {
		contentEnd--
	}
	return contentEnd, nlIdx + 1, true, true
}

// skipBlankLines advances past any run of lines that contain nothing but
// an optional '\r' before their '\n'. It returns the index of the first
// byte that is not part of such a blank line, and needMore if the
// decision requires bytes beyond what is currently buffered.
func skipBlankLines(view []byte, atEOF bool) (pos int, needMore bool) {
	i := 0
	for {
		if i >= len(view) {
			if atEOF {
				return i, false
			}
			return i, true
		}
		switch view[i] {
		case '\n':
			i++
			continue
		case '\r':
			if i+1 < len(view) && view[i+1] == '\n' {
				i += 2
				continue
			}
			if i+1 >= len(view) {
				if atEOF {
					return i, false
				}
				return i, true
			}
			return i, false
		default:
			return i, false
		}
	}
}

// newScanErr is a small constructor to keep scanner bodies terse.
func newScanErr(kind ErrorKind, offset int, msg string) *scanError {
	return &scanError{kind: kind, offset: offset, message: msg}
}

// rawID returns the raw (unvalidated) bytes of the first
// ASCII-whitespace-delimited token of a header.
func rawID(head []byte) []byte {
	end := bytes.IndexFunc(head, isASCIISpace)
	if end < 0 {
		end = len(head)
	}
	return head[:end]
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\v', '\f':
		return true
	default:
		return false
	}
}
