package seqio

import (
	"io"

	"go.uber.org/zap"
)

// refillChunk is the minimum free space requested on every refill. It is
// deliberately small: buffer.fillTo reads into however much tail space is
// actually free (typically the whole remaining capacity after a
// compaction), so this only controls when a refill forces a compaction
// or a grow.
const refillChunk = 1

// coreReader holds the buffer- and position-tracking substrate shared by
// every format-specific reader (FASTAReader, FASTQReader, FASTXReader).
// The scanning logic itself is deliberately NOT shared: see the
// per-format scanFASTA/scanFASTQSingle/scanFASTQMulti functions.
type coreReader struct {
	src        io.Reader
	buf        *buffer
	atEOF      bool
	yieldedAny bool

	streamOffset uint64 // absolute offset of buf.view()[0]
	line         uint64 // line number at buf.view()[0]
	nextIndex    uint64 // record index that will be assigned next
	lastPos      Position

	sticky *Error // once set (by any error but KindUTF8), Next always returns it
}

func newCoreReader(src io.Reader, initialCap int, policy GrowthPolicy, log *zap.SugaredLogger) coreReader {
	return coreReader{
		src:     src,
		buf:     newBuffer(initialCap, policy, log),
		line:    1,
		lastPos: Position{ByteOffset: 0, Line: 1, RecordIndex: 0},
	}
}

// refill pulls more bytes from src into the buffer. It returns
// errBufferFull (translated by the caller into KindBufferLimit) or an I/O
// error as-is.
func (r *coreReader) refill() error {
	n, err := r.buf.fillTo(r.src, refillChunk)
	if err != nil {
		return err
	}
	if n == 0 {
		r.atEOF = true
	}
	return nil
}

// consume advances past n bytes at the front of the current view,
// keeping the line counter and absolute offset in sync.
func (r *coreReader) consume(n int) {
	r.line += countNewlines(r.buf.view()[:n])
	r.buf.consume(n)
	r.streamOffset += uint64(n)
}

// posAt returns the Position corresponding to relOffset bytes into the
// current view, without consuming anything.
func (r *coreReader) posAt(relOffset int) Position {
	extra := countNewlines(r.buf.view()[:relOffset])
	return Position{
		ByteOffset:  r.streamOffset + uint64(relOffset),
		Line:        r.line + extra,
		RecordIndex: r.nextIndex,
	}
}

// Position returns the position at the start of the record most recently
// yielded by Next. Before Next has yielded a record it returns the start
// of the stream, and right after a Seek it returns the position passed to
// Seek; records taken with ReadRecordSet or ReadRecordSetExact do not
// move it.
func (r *coreReader) Position() Position {
	return r.lastPos
}

// Seek repositions the reader at an absolute Position obtained from a
// previous call to Position. It is only valid when the underlying source
// implements io.Seeker. Any scanner state ("mid-record") is discarded; a
// subsequent Next call that doesn't land exactly on a record boundary
// will surface KindInvalidStart.
func (r *coreReader) Seek(p Position) error {
	seeker, ok := r.src.(io.Seeker)
	if !ok {
		return &Error{Kind: KindIO, Position: r.lastPos, Message: "underlying source is not seekable"}
	}
	if _, err := seeker.Seek(int64(p.ByteOffset), io.SeekStart); err != nil {
		return ioError(r.lastPos, err)
	}
	r.buf.reset()
	r.atEOF = false
	r.sticky = nil
	r.streamOffset = p.ByteOffset
	r.line = p.Line
	r.nextIndex = p.RecordIndex
	r.lastPos = p
	// A seek always targets an exact, known-good record boundary (or the
	// caller is deliberately probing misalignment); blank-line leniency
	// is for stream-start only, so disable it here unconditionally.
	r.yieldedAny = true
	return nil
}

// translate turns a scanner error into a reader-level *Error with an
// absolute position, and remembers it as sticky.
func (r *coreReader) translate(se *scanError) *Error {
	e := &Error{Kind: se.kind, Position: r.posAt(se.offset), Message: se.message}
	r.sticky = e
	return e
}

// bufferLimitErr builds the KindBufferLimit error surfaced when the
// growth policy refuses to grow further while a scan is in progress. The
// offending record's start is offset 0 in the current view.
func (r *coreReader) bufferLimitErr() *Error {
	e := &Error{Kind: KindBufferLimit, Position: r.posAt(0), Message: "record exceeds growth policy cap"}
	r.sticky = e
	return e
}
