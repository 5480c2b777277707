package seqio

import "io"

// FASTAReader is a streaming, single-threaded FASTA parser: buffer +
// scanner + position tracker combined into one "advance to next record"
// iterator.
type FASTAReader struct {
	coreReader
	pending *FASTABoundaries
}

// NewFASTAReader returns a reader over src.
func NewFASTAReader(src io.Reader, opts ...ReaderOption) *FASTAReader {
	cfg := applyOptions(opts)
	return &FASTAReader{coreReader: newCoreReader(src, cfg.initialCap, cfg.policy, cfg.logger)}
}

// advance commits the previously yielded record, if any.
func (r *FASTAReader) advance() {
	if r.pending != nil {
		r.consume(r.pending.NextStart)
		r.pending = nil
	}
}

// Seek repositions the reader as coreReader.Seek does and also drops the
// record yielded before the seek, so the next call does not advance past
// bytes of the old buffer.
func (r *FASTAReader) Seek(p Position) error {
	if err := r.coreReader.Seek(p); err != nil {
		return err
	}
	r.pending = nil
	return nil
}

// Next advances past the previously yielded record (if any) and returns
// the next one. It returns (nil, nil) at clean EOF.
func (r *FASTAReader) Next() (*FASTAView, error) {
	if r.sticky != nil {
		return nil, r.sticky
	}
	r.advance()
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
			r.yieldedAny = true
			bc := b
			r.pending = &bc
			return &FASTAView{b: bc, buf: r.buf.view()}, nil
		case outcomeEOF:
			return nil, nil
		default: // outcomeNeedMore
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
}

// ReadRecordSet fills rs with as many complete records as currently fit
// in one buffer window, without forcing an extra refill once at least
// one record has been collected. It returns false only at clean EOF with
// nothing collected.
func (r *FASTAReader) ReadRecordSet(rs *FASTARecordSet) (bool, error) {
	if r.sticky != nil {
		return false, r.sticky
	}
	r.advance()
	rs.Bytes = rs.Bytes[:0]
	rs.Records = rs.Records[:0]
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

// ReadRecordSetExact fills rs with exactly n records, refilling and
// growing as needed. It returns false only if EOF is reached before any
// record is read; EOF partway through the batch is an error.
func (r *FASTAReader) ReadRecordSetExact(rs *FASTARecordSet, n int) (bool, error) {
	if r.sticky != nil {
		return false, r.sticky
	}
	r.advance()
	rs.Bytes = rs.Bytes[:0]
	rs.Records = rs.Records[:0]
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

// FASTARecordSet is an independently owned snapshot of N consecutive
// FASTA records: a copied byte slab plus record-boundary index, suitable
// for transfer to another goroutine.
type FASTARecordSet struct {
	Bytes         []byte
	Records       []FASTABoundaries
	StartPosition Position
}

// Len returns the number of records in the set.
func (rs *FASTARecordSet) Len() int { return len(rs.Records) }

// IsEmpty reports whether the set holds no records.
func (rs *FASTARecordSet) IsEmpty() bool { return len(rs.Records) == 0 }

// BufCapacity returns the capacity of the set's backing byte slab.
func (rs *FASTARecordSet) BufCapacity() int { return cap(rs.Bytes) }

// ShrinkBufferToFit reallocates the backing slab to exactly its used
// length, releasing any slack left over from growth during collection.
func (rs *FASTARecordSet) ShrinkBufferToFit() {
	if cap(rs.Bytes) == len(rs.Bytes) {
		return
	}
	b := make([]byte, len(rs.Bytes))
	copy(b, rs.Bytes)
	rs.Bytes = b
}

// Iter calls fn with a view of each record in order, stopping early if fn
// returns false. Views borrow from the set's own bytes and remain valid
// for the set's lifetime.
func (rs *FASTARecordSet) Iter(fn func(FASTAView) bool) {
	for _, b := range rs.Records {
		if !fn(FASTAView{b: b, buf: rs.Bytes}) {
			return
		}
	}
}

// Reset empties the set while retaining its backing allocations, so it
// can be recycled back to a reader for refilling.
func (rs *FASTARecordSet) Reset() {
	rs.Bytes = rs.Bytes[:0]
	rs.Records = rs.Records[:0]
	rs.StartPosition = Position{}
}
