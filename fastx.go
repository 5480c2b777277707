package seqio

import "io"

// Format identifies which of the two wire formats a FASTXReader
// classified its stream as.
type Format int

const (
	// FormatUnknown means classification hasn't happened yet, or the
	// stream was empty/all-whitespace and no record was ever found.
	FormatUnknown Format = iota
	FormatFASTA
	FormatFASTQ
)

func (f Format) String() string {
	switch f {
	case FormatFASTA:
		return "fasta"
	case FormatFASTQ:
		return "fastq"
	default:
		return "unknown"
	}
}

// FASTXReader peeks the first non-blank byte of a stream to decide
// whether it holds FASTA or FASTQ, then behaves like the corresponding
// dedicated reader. After classification it does not re-check: callers
// mixing formats within a single stream get whatever error the chosen
// format's scanner reports.
type FASTXReader struct {
	coreReader
	format    Format
	multiLine bool

	pendingFASTA *FASTABoundaries
	pendingFASTQ *FASTQBoundaries
}

// NewFASTXReader returns a reader over src. WithMultiLine configures the
// FASTQ scanner to use if the stream turns out to be FASTQ.
func NewFASTXReader(src io.Reader, opts ...ReaderOption) *FASTXReader {
	cfg := applyOptions(opts)
	return &FASTXReader{
		coreReader: newCoreReader(src, cfg.initialCap, cfg.policy, cfg.logger),
		multiLine:  cfg.multiLine,
	}
}

// Detected returns the format this reader classified its stream as, or
// FormatUnknown before the first byte has been examined (or if the
// stream turned out to be empty).
func (r *FASTXReader) Detected() Format {
	return r.format
}

// Seek repositions the reader as coreReader.Seek does and also drops the
// record yielded before the seek, so the next call does not advance past
// bytes of the old buffer.
func (r *FASTXReader) Seek(p Position) error {
	if err := r.coreReader.Seek(p); err != nil {
		return err
	}
	r.pendingFASTA = nil
	r.pendingFASTQ = nil
	return nil
}

// detect peeks at the buffer until it can classify the stream or confirm
// clean EOF. It never consumes bytes.
func (r *FASTXReader) detect() error {
	if r.format != FormatUnknown {
		return nil
	}
	for {
		view := r.buf.view()
		i, needMore := skipBlankLines(view, r.atEOF)
		if needMore {
			if err := r.refill(); err != nil {
				if err == errBufferFull {
					e := r.bufferLimitErr()
					return e
				}
				e := ioError(r.posAt(0), err)
				r.sticky = e
				return e
			}
			continue
		}
		if i >= len(view) {
			return nil // clean EOF, still unknown
		}
		switch view[i] {
		case '>':
			r.format = FormatFASTA
		case '@':
			r.format = FormatFASTQ
		default:
			e := &Error{Kind: KindInvalidStart, Position: r.posAt(i), Message: "stream is neither FASTA nor FASTQ"}
			r.sticky = e
			return e
		}
		return nil
	}
}

// Next advances past the previously yielded record (if any) and returns
// the next one as a format-tagged view. It returns (nil, nil) at clean
// EOF, including on a stream that never contained any record.
func (r *FASTXReader) Next() (*FASTXView, error) {
	if r.sticky != nil {
		return nil, r.sticky
	}
	if err := r.detect(); err != nil {
		return nil, err
	}
	switch r.format {
	case FormatFASTA:
		if r.pendingFASTA != nil {
			r.consume(r.pendingFASTA.NextStart)
			r.pendingFASTA = nil
		}
		for {
			view := r.buf.view()
			b, outcome, serr := scanFASTA(view, r.atEOF)
			if serr != nil {
				return nil, r.translate(serr)
			}
			switch outcome {
			case outcomeRecord:
				r.lastPos = r.posAt(0)
				r.nextIndex++
				bc := b
				r.pendingFASTA = &bc
				return &FASTXView{format: FormatFASTA, fasta: FASTAView{b: bc, buf: r.buf.view()}}, nil
			case outcomeEOF:
				return nil, nil
			default:
				if err := r.refill(); err != nil {
					if err == errBufferFull {
						return nil, r.bufferLimitErr()
					}
					e := ioError(r.posAt(0), err)
					r.sticky = e
					return nil, e
				}
			}
		}
	case FormatFASTQ:
		if r.pendingFASTQ != nil {
			r.consume(r.pendingFASTQ.NextStart)
			r.pendingFASTQ = nil
		}
		for {
			view := r.buf.view()
			var b FASTQBoundaries
			var outcome scanOutcome
			var serr *scanError
			if r.multiLine {
				b, outcome, serr = scanFASTQMulti(view, r.atEOF, !r.yieldedAny)
			} else {
				b, outcome, serr = scanFASTQSingle(view, r.atEOF, !r.yieldedAny)
			}
			if serr != nil {
				return nil, r.translate(serr)
			}
			switch outcome {
			case outcomeRecord:
				r.lastPos = r.posAt(0)
				r.nextIndex++
				r.yieldedAny = true
				bc := b
				r.pendingFASTQ = &bc
				return &FASTXView{format: FormatFASTQ, fastq: FASTQView{b: bc, buf: r.buf.view()}}, nil
			case outcomeEOF:
				return nil, nil
			default:
				if err := r.refill(); err != nil {
					if err == errBufferFull {
						return nil, r.bufferLimitErr()
					}
					e := ioError(r.posAt(0), err)
					r.sticky = e
					return nil, e
				}
			}
		}
	default: // FormatUnknown: empty or all-whitespace stream
		return nil, nil
	}
}

// FASTXView is a format-tagged borrowed record view produced by
// FASTXReader, letting callers treat FASTA and FASTQ uniformly when they
// only need id/description/sequence.
type FASTXView struct {
	format Format
	fasta  FASTAView
	fastq  FASTQView
}

// Format reports which concrete format this view holds.
func (v FASTXView) Format() Format { return v.format }

// ID returns the record's id, dispatching to the underlying format.
func (v FASTXView) ID() (string, error) {
	if v.format == FormatFASTQ {
		return v.fastq.ID()
	}
	return v.fasta.ID()
}

// Desc returns the record's description, dispatching to the underlying
// format.
func (v FASTXView) Desc() (string, bool, error) {
	if v.format == FormatFASTQ {
		return v.fastq.Desc()
	}
	return v.fasta.Desc()
}

// Head returns the record's raw header bytes (without the '>' / '@'
// sigil), dispatching to the underlying format.
func (v FASTXView) Head() []byte {
	if v.format == FormatFASTQ {
		return v.fastq.Head()
	}
	return v.fasta.Head()
}

// SeqLines calls fn with each sequence line, dispatching to the
// underlying format.
func (v FASTXView) SeqLines(fn func(line []byte) bool) {
	if v.format == FormatFASTQ {
		v.fastq.SeqLines(fn)
		return
	}
	v.fasta.SeqLines(fn)
}

// FullSeqGiven returns the full sequence, dispatching to the underlying
// format.
func (v FASTXView) FullSeqGiven(dst *[]byte) []byte {
	if v.format == FormatFASTQ {
		return v.fastq.FullSeqGiven(dst)
	}
	return v.fasta.FullSeqGiven(dst)
}

// HasQuality reports whether this record carries FASTQ quality data.
func (v FASTXView) HasQuality() bool { return v.format == FormatFASTQ }

// QualLines calls fn with each quality line. It is a no-op for FASTA
// records.
func (v FASTXView) QualLines(fn func(line []byte) bool) {
	if v.format == FormatFASTQ {
		v.fastq.QualLines(fn)
	}
}

// FullQualGiven returns the full quality string, or nil for FASTA
// records.
func (v FASTXView) FullQualGiven(dst *[]byte) []byte {
	if v.format == FormatFASTQ {
		return v.fastq.FullQualGiven(dst)
	}
	return nil
}

// AsFASTA returns the underlying FASTAView and true if this view is
// FASTA.
func (v FASTXView) AsFASTA() (FASTAView, bool) {
	return v.fasta, v.format == FormatFASTA
}

// AsFASTQ returns the underlying FASTQView and true if this view is
// FASTQ.
func (v FASTXView) AsFASTQ() (FASTQView, bool) {
	return v.fastq, v.format == FormatFASTQ
}

// Write writes the record in its own canonical form, dispatching to the
// underlying format.
func (v FASTXView) Write(w io.Writer) error {
	if v.format == FormatFASTQ {
		return v.fastq.Write(w)
	}
	return v.fasta.Write(w)
}

// FASTXRecordSet is an independently owned batch produced by
// FASTXReader.ReadRecordSet or FASTXReader.ReadRecordSetExact. Exactly one of FASTA/FASTQ holds
// records, according to Format.
type FASTXRecordSet struct {
	Format Format
	FASTA  FASTARecordSet
	FASTQ  FASTQRecordSet
}

// Len returns the number of records in the set.
func (rs *FASTXRecordSet) Len() int {
	if rs.Format == FormatFASTQ {
		return rs.FASTQ.Len()
	}
	return rs.FASTA.Len()
}

// IsEmpty reports whether the set holds no records.
func (rs *FASTXRecordSet) IsEmpty() bool { return rs.Len() == 0 }

// Iter calls fn with a tagged view of each record in order.
func (rs *FASTXRecordSet) Iter(fn func(FASTXView) bool) {
	if rs.Format == FormatFASTQ {
		rs.FASTQ.Iter(func(v FASTQView) bool {
			return fn(FASTXView{format: FormatFASTQ, fastq: v})
		})
		return
	}
	rs.FASTA.Iter(func(v FASTAView) bool {
		return fn(FASTXView{format: FormatFASTA, fasta: v})
	})
}

// Reset empties the set while retaining its backing allocations.
func (rs *FASTXRecordSet) Reset() {
	rs.FASTA.Reset()
	rs.FASTQ.Reset()
}

// ReadRecordSet fills rs with as many complete records as currently fit in
// one buffer window, without forcing an extra refill once at least one
// record has been collected, mirroring FASTAReader.ReadRecordSet /
// FASTQReader.ReadRecordSet for whichever format this stream classified
// as. It returns false only at clean EOF with nothing collected.
func (r *FASTXReader) ReadRecordSet(rs *FASTXRecordSet) (bool, error) {
	if r.sticky != nil {
		return false, r.sticky
	}
	if err := r.detect(); err != nil {
		return false, err
	}
	rs.Format = r.format
	switch r.format {
	case FormatFASTA:
		rs.FASTQ.Reset()
		return r.fillFASTA(&rs.FASTA)
	case FormatFASTQ:
		rs.FASTA.Reset()
		return r.fillFASTQ(&rs.FASTQ)
	default:
		rs.FASTA.Reset()
		rs.FASTQ.Reset()
		return false, nil
	}
}

// ReadRecordSetExact fills rs with exactly n records from the classified
// format. It returns false only if EOF is reached before any record is
// read.
func (r *FASTXReader) ReadRecordSetExact(rs *FASTXRecordSet, n int) (bool, error) {
	if r.sticky != nil {
		return false, r.sticky
	}
	if err := r.detect(); err != nil {
		return false, err
	}
	rs.Format = r.format
	switch r.format {
	case FormatFASTA:
		rs.FASTQ.Reset()
		return r.fillFASTAExact(&rs.FASTA, n)
	case FormatFASTQ:
		rs.FASTA.Reset()
		return r.fillFASTQExact(&rs.FASTQ, n)
	default:
		rs.FASTA.Reset()
		rs.FASTQ.Reset()
		return false, nil
	}
}

func (r *FASTXReader) fillFASTA(rs *FASTARecordSet) (bool, error) {
	if r.pendingFASTA != nil {
		r.consume(r.pendingFASTA.NextStart)
		r.pendingFASTA = nil
	}
	rs.Reset()
	rs.StartPosition = r.posAt(0)
	collected := 0
	for {
		view := r.buf.view()
		b, outcome, serr := scanFASTA(view, r.atEOF)
		if serr != nil {
			if collected > 0 {
				return true, nil
			}
			return false, r.translate(serr)
		}
		switch outcome {
		case outcomeEOF:
			return collected > 0, nil
		case outcomeNeedMore:
			if collected > 0 {
				return true, nil
			}
			if err := r.refill(); err != nil {
				if err == errBufferFull {
					return false, r.bufferLimitErr()
				}
				e := ioError(r.posAt(0), err)
				r.sticky = e
				return false, e
			}
		case outcomeRecord:
			start := len(rs.Bytes)
			rs.Bytes = append(rs.Bytes, view[:b.NextStart]...)
			rs.Records = append(rs.Records, b.shifted(start))
			r.consume(b.NextStart)
			r.nextIndex++
			collected++
		}
	}
}

func (r *FASTXReader) fillFASTQ(rs *FASTQRecordSet) (bool, error) {
	if r.pendingFASTQ != nil {
		r.consume(r.pendingFASTQ.NextStart)
		r.pendingFASTQ = nil
	}
	rs.Reset()
	rs.StartPosition = r.posAt(0)
	collected := 0
	for {
		view := r.buf.view()
		var b FASTQBoundaries
		var outcome scanOutcome
		var serr *scanError
		if r.multiLine {
			b, outcome, serr = scanFASTQMulti(view, r.atEOF, !r.yieldedAny)
		} else {
			b, outcome, serr = scanFASTQSingle(view, r.atEOF, !r.yieldedAny)
		}
		if serr != nil {
			if collected > 0 {
				return true, nil
			}
			return false, r.translate(serr)
		}
		switch outcome {
		case outcomeEOF:
			return collected > 0, nil
		case outcomeNeedMore:
			if collected > 0 {
				return true, nil
			}
			if err := r.refill(); err != nil {
				if err == errBufferFull {
					return false, r.bufferLimitErr()
				}
				e := ioError(r.posAt(0), err)
				r.sticky = e
				return false, e
			}
		case outcomeRecord:
			start := len(rs.Bytes)
			rs.Bytes = append(rs.Bytes, view[:b.NextStart]...)
			rs.Records = append(rs.Records, b.shifted(start))
			r.consume(b.NextStart)
			r.nextIndex++
			r.yieldedAny = true
			collected++
		}
	}
}

func (r *FASTXReader) fillFASTAExact(rs *FASTARecordSet, n int) (bool, error) {
	if r.pendingFASTA != nil {
		r.consume(r.pendingFASTA.NextStart)
		r.pendingFASTA = nil
	}
	rs.Reset()
	rs.StartPosition = r.posAt(0)
	for len(rs.Records) < n {
		view := r.buf.view()
		b, outcome, serr := scanFASTA(view, r.atEOF)
		if serr != nil {
			return false, r.translate(serr)
		}
		switch outcome {
		case outcomeEOF:
			if len(rs.Records) == 0 {
				return false, nil
			}
			e := &Error{Kind: KindUnexpectedEnd, Position: r.posAt(0), Message: "EOF before record set batch was full"}
			r.sticky = e
			return false, e
		case outcomeNeedMore:
			if err := r.refill(); err != nil {
				if err == errBufferFull {
					return false, r.bufferLimitErr()
				}
				e := ioError(r.posAt(0), err)
				r.sticky = e
				return false, e
			}
		case outcomeRecord:
			start := len(rs.Bytes)
			rs.Bytes = append(rs.Bytes, view[:b.NextStart]...)
			rs.Records = append(rs.Records, b.shifted(start))
			r.consume(b.NextStart)
			r.nextIndex++
		}
	}
	return true, nil
}

func (r *FASTXReader) fillFASTQExact(rs *FASTQRecordSet, n int) (bool, error) {
	if r.pendingFASTQ != nil {
		r.consume(r.pendingFASTQ.NextStart)
		r.pendingFASTQ = nil
	}
	rs.Reset()
	rs.StartPosition = r.posAt(0)
	for len(rs.Records) < n {
		view := r.buf.view()
		var b FASTQBoundaries
		var outcome scanOutcome
		var serr *scanError
		if r.multiLine {
			b, outcome, serr = scanFASTQMulti(view, r.atEOF, !r.yieldedAny)
		} else {
			b, outcome, serr = scanFASTQSingle(view, r.atEOF, !r.yieldedAny)
		}
		if serr != nil {
			return false, r.translate(serr)
		}
		switch outcome {
		case outcomeEOF:
			if len(rs.Records) == 0 {
				return false, nil
			}
			e := &Error{Kind: KindUnexpectedEnd, Position: r.posAt(0), Message: "EOF before record set batch was full"}
			r.sticky = e
			return false, e
		case outcomeNeedMore:
			if err := r.refill(); err != nil {
				if err == errBufferFull {
					return false, r.bufferLimitErr()
				}
				e := ioError(r.posAt(0), err)
				r.sticky = e
				return false, e
			}
		case outcomeRecord:
			start := len(rs.Bytes)
			rs.Bytes = append(rs.Bytes, view[:b.NextStart]...)
			rs.Records = append(rs.Records, b.shifted(start))
			r.consume(b.NextStart)
			r.nextIndex++
			r.yieldedAny = true
		}
	}
	return true, nil
}
