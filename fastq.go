package seqio

import (
	"bytes"
)

// FASTQBoundaries locates one FASTQ record within a buffer view. Used by
// both the single-line and multi-line scanners; SeqBreaks/QualBreaks are
// always empty for single-line records.
type FASTQBoundaries struct {
	HeaderStart int // index of '@'
	HeaderEnd   int
	SeqStart    int
	SeqEnd      int
	SepStart    int // index of '+'
	SepEnd      int
	QualStart   int
	QualEnd     int
	NextStart   int
	SeqBreaks   []int
	QualBreaks  []int
}

// scanFASTQSingle implements the default, single-line-per-field FASTQ
// wire format: exactly four logical lines per record, with sequence and
// quality required to carry the same byte count.
func scanFASTQSingle(view []byte, atEOF bool, skipLeadingBlank bool) (FASTQBoundaries, scanOutcome, *scanError) {
	i := 0
	if skipLeadingBlank {
		var needMore bool
		i, needMore = skipBlankLines(view, atEOF)
		if needMore {
			return FASTQBoundaries{}, outcomeNeedMore, nil
		}
		if i >= len(view) {
			return FASTQBoundaries{}, outcomeEOF, nil
		}
	} else if i >= len(view) {
		if atEOF {
			return FASTQBoundaries{}, outcomeEOF, nil
		}
		return FASTQBoundaries{}, outcomeNeedMore, nil
	}
	if view[i] != '@' {
		return FASTQBoundaries{}, 0, newScanErr(KindInvalidStart, i, "expected '@' at start of FASTQ record")
	}
	headerStart := i
	headerEnd, afterHeader, hTerm, hOk := scanLine(view, headerStart+1, atEOF)
	if !hOk {
		return FASTQBoundaries{}, outcomeNeedMore, nil
	}
	if !hTerm {
		return FASTQBoundaries{}, 0, newScanErr(KindUnexpectedEnd, headerStart, "truncated FASTQ header line")
	}

	seqStart := afterHeader
	seqEnd, afterSeq, sTerm, sOk := scanLine(view, seqStart, atEOF)
	if !sOk {
		return FASTQBoundaries{}, outcomeNeedMore, nil
	}
	if !sTerm {
		return FASTQBoundaries{}, 0, newScanErr(KindUnexpectedEnd, seqStart, "truncated FASTQ sequence line")
	}

	sepStart := afterSeq
	if sepStart >= len(view) {
		if atEOF {
			return FASTQBoundaries{}, 0, newScanErr(KindUnexpectedEnd, sepStart, "missing '+' separator line")
		}
		return FASTQBoundaries{}, outcomeNeedMore, nil
	}
	if view[sepStart] != '+' {
		return FASTQBoundaries{}, 0, newScanErr(KindInvalidSeparator, sepStart, "expected '+' separator line")
	}
	sepContentEnd, afterSep, sepTerm, sepOk := scanLine(view, sepStart+1, atEOF)
	if !sepOk {
		return FASTQBoundaries{}, outcomeNeedMore, nil
	}
	if !sepTerm {
		return FASTQBoundaries{}, 0, newScanErr(KindUnexpectedEnd, sepStart, "truncated FASTQ separator line")
	}
	if sepContentEnd > sepStart+1 {
		sepContent := view[sepStart+1 : sepContentEnd]
		id := rawID(view[headerStart+1 : headerEnd])
		if !bytes.Equal(sepContent, id) {
			return FASTQBoundaries{}, 0, newScanErr(KindInvalidSeparator, sepStart, "non-empty '+' line does not match record id")
		}
	}

	qualStart := afterSep
	qualEnd, afterQual, _, qOk := scanLine(view, qualStart, atEOF)
	if !qOk {
		return FASTQBoundaries{}, outcomeNeedMore, nil
	}

	seqLen := seqEnd - seqStart
	qualLen := qualEnd - qualStart
	if seqLen != qualLen {
		return FASTQBoundaries{}, 0, newScanErr(KindUnequalLengths, qualStart, "sequence and quality lengths differ")
	}

	return FASTQBoundaries{
		HeaderStart: headerStart,
		HeaderEnd:   headerEnd,
		SeqStart:    seqStart,
		SeqEnd:      seqEnd,
		SepStart:    sepStart,
		SepEnd:      sepContentEnd,
		QualStart:   qualStart,
		QualEnd:     qualEnd,
		NextStart:   afterQual,
	}, outcomeRecord, nil
}

// scanFASTQMulti implements the multi-line FASTQ variant, where sequence
// and quality may each be split across several lines. Sequence lines
// accumulate until a line begins with '+'; quality lines then accumulate
// until their cumulative length equals the sequence length, since a
// quality line may itself legally begin with '@' or '+'.
func scanFASTQMulti(view []byte, atEOF bool, skipLeadingBlank bool) (FASTQBoundaries, scanOutcome, *scanError) {
	i := 0
	if skipLeadingBlank {
		var needMore bool
		i, needMore = skipBlankLines(view, atEOF)
		if needMore {
			return FASTQBoundaries{}, outcomeNeedMore, nil
		}
		if i >= len(view) {
			return FASTQBoundaries{}, outcomeEOF, nil
		}
	} else if i >= len(view) {
		if atEOF {
			return FASTQBoundaries{}, outcomeEOF, nil
		}
		return FASTQBoundaries{}, outcomeNeedMore, nil
	}
	if view[i] != '@' {
		return FASTQBoundaries{}, 0, newScanErr(KindInvalidStart, i, "expected '@' at start of FASTQ record")
	}
	headerStart := i
	headerEnd, afterHeader, hTerm, hOk := scanLine(view, headerStart+1, atEOF)
	if !hOk {
		return FASTQBoundaries{}, outcomeNeedMore, nil
	}
	if !hTerm {
		return FASTQBoundaries{}, 0, newScanErr(KindUnexpectedEnd, headerStart, "truncated FASTQ header line")
	}

	seqStart := afterHeader
	pos := seqStart
	seqLen := 0
	var seqBreaks []int
	sepStart := -1
	for {
		if pos >= len(view) {
			if atEOF {
				return FASTQBoundaries{}, 0, newScanErr(KindUnexpectedEnd, seqStart, "EOF before '+' separator line")
			}
			return FASTQBoundaries{}, outcomeNeedMore, nil
		}
		if view[pos] == '+' {
			sepStart = pos
			break
		}
		contentEnd, lineEnd, terminated, ok := scanLine(view, pos, atEOF)
		if !ok {
			return FASTQBoundaries{}, outcomeNeedMore, nil
		}
		if !terminated {
			return FASTQBoundaries{}, 0, newScanErr(KindUnexpectedEnd, seqStart, "EOF before '+' separator line")
		}
		seqLen += contentEnd - pos
		seqBreaks = append(seqBreaks, lineEnd-1)
		pos = lineEnd
	}
	seqEnd := sepStart

	sepContentEnd, afterSep, sepTerm, sepOk := scanLine(view, sepStart+1, atEOF)
	if !sepOk {
		return FASTQBoundaries{}, outcomeNeedMore, nil
	}
	if !sepTerm {
		return FASTQBoundaries{}, 0, newScanErr(KindUnexpectedEnd, sepStart, "truncated FASTQ separator line")
	}

	qualStart := afterSep
	pos = qualStart
	qualLen := 0
	var qualBreaks []int
	for qualLen < seqLen {
		if pos >= len(view) {
			if atEOF {
				return FASTQBoundaries{}, 0, newScanErr(KindUnexpectedEnd, qualStart, "EOF before quality length reached sequence length")
			}
			return FASTQBoundaries{}, outcomeNeedMore, nil
		}
		contentEnd, lineEnd, terminated, ok := scanLine(view, pos, atEOF)
		if !ok {
			return FASTQBoundaries{}, outcomeNeedMore, nil
		}
		lineLen := contentEnd - pos
		if qualLen+lineLen > seqLen {
			return FASTQBoundaries{}, 0, newScanErr(KindUnequalLengths, qualStart, "quality length exceeds sequence length")
		}
		qualLen += lineLen
		if terminated {
			qualBreaks = append(qualBreaks, lineEnd-1)
		}
		pos = lineEnd
	}
	qualEnd := pos

	return FASTQBoundaries{
		HeaderStart: headerStart,
		HeaderEnd:   headerEnd,
		SeqStart:    seqStart,
		SeqEnd:      seqEnd,
		SepStart:    sepStart,
		SepEnd:      sepContentEnd,
		QualStart:   qualStart,
		QualEnd:     qualEnd,
		NextStart:   pos,
		SeqBreaks:   seqBreaks,
		QualBreaks:  qualBreaks,
	}, outcomeRecord, nil
}

// shifted returns a copy of b with every offset translated by delta, used
// when copying a record's bytes into a RecordSet's independent slab.
func (b FASTQBoundaries) shifted(delta int) FASTQBoundaries {
	out := FASTQBoundaries{
		HeaderStart: b.HeaderStart + delta,
		HeaderEnd:   b.HeaderEnd + delta,
		SeqStart:    b.SeqStart + delta,
		SeqEnd:      b.SeqEnd + delta,
		SepStart:    b.SepStart + delta,
		SepEnd:      b.SepEnd + delta,
		QualStart:   b.QualStart + delta,
		QualEnd:     b.QualEnd + delta,
		NextStart:   b.NextStart + delta,
	}
	if len(b.SeqBreaks) > 0 {
		out.SeqBreaks = make([]int, len(b.SeqBreaks))
		for i, brk := range b.SeqBreaks {
			out.SeqBreaks[i] = brk + delta
		}
	}
	if len(b.QualBreaks) > 0 {
		out.QualBreaks = make([]int, len(b.QualBreaks))
		for i, brk := range b.QualBreaks {
			out.QualBreaks[i] = brk + delta
		}
	}
	return out
}

// FASTQView is a borrowed handle onto one FASTQ record. It aliases the
// reader's internal buffer and must not be retained past the next call
// that advances the reader.
type FASTQView struct {
	b   FASTQBoundaries
	buf []byte
}

// Head returns the full header line (the text after '@'), without its
// line terminator.
func (v FASTQView) Head() []byte {
	return v.buf[v.b.HeaderStart+1 : v.b.HeaderEnd]
}

// ID returns the ASCII-whitespace-delimited first token of the header,
// UTF-8 validated on demand.
func (v FASTQView) ID() (string, error) {
	return idFromHead(v.Head())
}

// Desc returns the remainder of the header after the first whitespace
// run, if any.
func (v FASTQView) Desc() (string, bool, error) {
	return descFromHead(v.Head())
}

// SeqLines calls fn with each sequence line, in order.
func (v FASTQView) SeqLines(fn func(line []byte) bool) {
	iterLines(v.buf, v.b.SeqStart, v.b.SeqEnd, v.b.SeqBreaks, fn)
}

// QualLines calls fn with each quality line, in order.
func (v FASTQView) QualLines(fn func(line []byte) bool) {
	iterLines(v.buf, v.b.QualStart, v.b.QualEnd, v.b.QualBreaks, fn)
}

// FullSeqGiven returns the full sequence as a single slice, copying
// multi-line sequences into dst.
func (v FASTQView) FullSeqGiven(dst *[]byte) []byte {
	if len(v.b.SeqBreaks) == 0 {
		return v.buf[v.b.SeqStart:v.b.SeqEnd]
	}
	*dst = (*dst)[:0]
	v.SeqLines(func(line []byte) bool {
		*dst = append(*dst, line...)
		return true
	})
	return *dst
}

// FullQualGiven returns the full quality string as a single slice,
// copying multi-line quality into dst.
func (v FASTQView) FullQualGiven(dst *[]byte) []byte {
	if len(v.b.QualBreaks) == 0 {
		return v.buf[v.b.QualStart:v.b.QualEnd]
	}
	*dst = (*dst)[:0]
	v.QualLines(func(line []byte) bool {
		*dst = append(*dst, line...)
		return true
	})
	return *dst
}

// CloneIntoOwned copies this view into dst, reusing dst's existing
// allocations where possible.
func (v FASTQView) CloneIntoOwned(dst *OwnedRecord) {
	dst.Head = append(dst.Head[:0], v.Head()...)
	dst.Seq = dst.Seq[:0]
	v.SeqLines(func(line []byte) bool {
		dst.Seq = append(dst.Seq, line...)
		return true
	})
	dst.Qual = dst.Qual[:0]
	v.QualLines(func(line []byte) bool {
		dst.Qual = append(dst.Qual, line...)
		return true
	})
}

// iterLines walks a field of a record (start, end, and the breaks
// recorded within it) line by line, calling fn for each.
func iterLines(buf []byte, start, end int, breaks []int, fn func(line []byte) bool) {
	cur := start
	for _, brk := range breaks {
		if !fn(buf[cur:brk]) {
			return
		}
		cur = brk + 1
	}
	// If the last break lands exactly at end-1, the field's final line is
	// itself the newline-terminated one already yielded above; there is no
	// further content to report and emitting an empty slice here would
	// fabricate a spurious trailing line.
	if cur == end && len(breaks) > 0 {
		return
	}
	fn(buf[cur:end])
}

// lineCount returns the number of lines iterLines would yield for the same
// (start, end, breaks) triple.
func lineCount(start, end int, breaks []int) int {
	if len(breaks) > 0 && breaks[len(breaks)-1] == end-1 {
		return len(breaks)
	}
	return len(breaks) + 1
}
