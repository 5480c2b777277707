package seqio

import (
	"bytes"
	"unicode/utf8"
)

// FASTABoundaries locates one FASTA record within a buffer view. All
// offsets are relative to the start of the view at scan time;
// buffer[HeaderStart] is always '>' (HeaderStart is past any blank lines
// the scanner skipped before the header).
type FASTABoundaries struct {
	HeaderStart int // index of '>'
	HeaderEnd   int // end of header content, excluding '\r' and '\n'
	SeqStart    int
	SeqEnd      int
	NextStart   int
	// Breaks holds the index of every '\n' inside [SeqStart, SeqEnd),
	// including the one ending the last sequence line. It is empty only
	// when the sequence has no '\n' at all (e.g. it ends at EOF).
	Breaks []int
}

// scanFASTA locates the next complete FASTA record in view. Blank lines
// before the header are tolerated and skipped; a record ends immediately
// before the next line-initial '>' or at EOF, with no requirement for a
// trailing newline. Blank lines between records are therefore tolerated
// as empty sequence lines of the preceding record.
func scanFASTA(view []byte, atEOF bool) (FASTABoundaries, scanOutcome, *scanError) {
	i, needMore := skipBlankLines(view, atEOF)
	if needMore {
		return FASTABoundaries{}, outcomeNeedMore, nil
	}
	if i >= len(view) {
		return FASTABoundaries{}, outcomeEOF, nil
	}
	if view[i] != '>' {
		return FASTABoundaries{}, 0, newScanErr(KindInvalidStart, i, "expected '>' at start of FASTA record")
	}
	headerStart := i
	headerEnd, afterHeader, _, ok := scanLine(view, headerStart+1, atEOF)
	if !ok {
		return FASTABoundaries{}, outcomeNeedMore, nil
	}

	seqStart := afterHeader
	pos := seqStart
	var breaks []int
	for {
		if pos >= len(view) {
			if atEOF {
				break
			}
			return FASTABoundaries{}, outcomeNeedMore, nil
		}
		if view[pos] == '>' {
			break
		}
		_, lineEnd, _, lok := scanLine(view, pos, atEOF)
		if !lok {
			return FASTABoundaries{}, outcomeNeedMore, nil
		}
		if lineEnd > pos && lineEnd-1 < len(view) && view[lineEnd-1] == '\n' {
			breaks = append(breaks, lineEnd-1)
		}
		pos = lineEnd
	}

	return FASTABoundaries{
		HeaderStart: headerStart,
		HeaderEnd:   headerEnd,
		SeqStart:    seqStart,
		SeqEnd:      pos,
		NextStart:   pos,
		Breaks:      breaks,
	}, outcomeRecord, nil
}

// shifted returns a copy of b with every offset translated by delta, used
// when copying a record's bytes into a RecordSet's independent slab.
func (b FASTABoundaries) shifted(delta int) FASTABoundaries {
	out := FASTABoundaries{
		HeaderStart: b.HeaderStart + delta,
		HeaderEnd:   b.HeaderEnd + delta,
		SeqStart:    b.SeqStart + delta,
		SeqEnd:      b.SeqEnd + delta,
		NextStart:   b.NextStart + delta,
	}
	if len(b.Breaks) > 0 {
		out.Breaks = make([]int, len(b.Breaks))
		for i, brk := range b.Breaks {
			out.Breaks[i] = brk + delta
		}
	}
	return out
}

// FASTAView is a borrowed handle onto one FASTA record. It aliases the
// reader's internal buffer and must not be retained past the next call
// that advances the reader (Next, ReadRecordSet, Seek).
type FASTAView struct {
	b   FASTABoundaries
	buf []byte
}

// Head returns the full header line (the text after '>'), without its
// line terminator.
func (v FASTAView) Head() []byte {
	return v.buf[v.b.HeaderStart+1 : v.b.HeaderEnd]
}

// ID returns the ASCII-whitespace-delimited first token of the header,
// UTF-8 validated on demand.
func (v FASTAView) ID() (string, error) {
	return idFromHead(v.Head())
}

// Desc returns the remainder of the header after the first whitespace
// run, if any.
func (v FASTAView) Desc() (string, bool, error) {
	return descFromHead(v.Head())
}

// SeqLineCount returns the number of sequence lines in the record (at
// least 1, even for an empty single-line sequence).
func (v FASTAView) SeqLineCount() int {
	return lineCount(v.b.SeqStart, v.b.SeqEnd, v.b.Breaks)
}

// SeqLines calls fn with each sequence line, in order, stopping early if
// fn returns false. It is not restartable without re-obtaining the view.
func (v FASTAView) SeqLines(fn func(line []byte) bool) {
	iterLines(v.buf, v.b.SeqStart, v.b.SeqEnd, v.b.Breaks, fn)
}

// FullSeqGiven returns the full sequence as a single slice. If the
// sequence is single-line, the borrowed slice is returned directly with
// no copy; otherwise the lines are concatenated into dst (which is
// reused/grown as needed) and a slice of dst is returned.
func (v FASTAView) FullSeqGiven(dst *[]byte) []byte {
	if len(v.b.Breaks) == 0 {
		return v.buf[v.b.SeqStart:v.b.SeqEnd]
	}
	if len(v.b.Breaks) == 1 && v.b.Breaks[0] == v.b.SeqEnd-1 {
		return v.buf[v.b.SeqStart:v.b.Breaks[0]]
	}
	*dst = (*dst)[:0]
	v.SeqLines(func(line []byte) bool {
		*dst = append(*dst, line...)
		return true
	})
	return *dst
}

// CloneIntoOwned copies this view into dst, reusing dst's existing
// allocations where possible.
func (v FASTAView) CloneIntoOwned(dst *OwnedRecord) {
	dst.Head = append(dst.Head[:0], v.Head()...)
	dst.Seq = dst.Seq[:0]
	v.SeqLines(func(line []byte) bool {
		dst.Seq = append(dst.Seq, line...)
		return true
	})
	dst.Qual = dst.Qual[:0]
}

func idFromHead(head []byte) (string, error) {
	id := rawID(head)
	if !utf8.Valid(id) {
		return "", &Error{Kind: KindUTF8, Message: "record id is not valid UTF-8"}
	}
	return string(id), nil
}

func descFromHead(head []byte) (string, bool, error) {
	sepIdx := bytes.IndexFunc(head, isASCIISpace)
	if sepIdx < 0 {
		return "", false, nil
	}
	rest := bytes.TrimLeftFunc(head[sepIdx:], isASCIISpace)
	if len(rest) == 0 {
		return "", false, nil
	}
	if !utf8.Valid(rest) {
		return "", true, &Error{Kind: KindUTF8, Message: "record description is not valid UTF-8"}
	}
	return string(rest), true, nil
}
