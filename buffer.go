package seqio

import (
	"errors"
	"io"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// errBufferFull is returned internally by fillTo when the growth policy
// refuses to grow the buffer any further. Readers translate it into a
// *Error with KindBufferLimit and the offending record's start position.
var errBufferFull = errors.New("seqio: buffer full")

// buffer is a growable contiguous byte region with a read cursor
// (consumed) and a fill cursor (filled). buf[consumed:filled] is the
// portion available to a scanner; consume is the only legal way to
// release bytes at the front.
//
// Invariant: 0 <= consumed <= filled <= len(buf).
type buffer struct {
	buf      []byte
	consumed int
	filled   int
	policy   GrowthPolicy
	log      *zap.SugaredLogger
}

func newBuffer(initialCap int, policy GrowthPolicy, log *zap.SugaredLogger) *buffer {
	if initialCap <= 0 {
		initialCap = DefaultInitialCapacity
	}
	if policy == nil {
		policy = NewDoublingPolicy()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &buffer{
		buf:    make([]byte, initialCap),
		policy: policy,
		log:    log,
	}
}

// view returns the bytes available to a scanner: buf[consumed:filled].
// The slice aliases b's backing array; it is invalidated by the next
// call to fillTo or reset.
func (b *buffer) view() []byte {
	return b.buf[b.consumed:b.filled]
}

// consume advances the consumed cursor by n, releasing those bytes. It is
// the only legal way to release bytes back to the buffer.
func (b *buffer) consume(n int) {
	if n < 0 || b.consumed+n > b.filled {
		panic("seqio: consume out of range")
	}
	b.consumed += n
}

// cap returns the buffer's current total capacity.
func (b *buffer) cap() int {
	return len(b.buf)
}

// compactIfNeeded moves buf[consumed:filled] to the front when doing so
// is the cheapest way to make room, resetting consumed to 0.
func (b *buffer) compactIfNeeded(minFree int) {
	freeAtTail := len(b.buf) - b.filled
	if freeAtTail >= minFree {
		return
	}
	if b.consumed == 0 {
		return
	}
	n := copy(b.buf, b.buf[b.consumed:b.filled])
	b.log.Debugw("compacting buffer", "discarded", b.consumed, "retained", n)
	b.filled = n
	b.consumed = 0
}

// grow asks the policy for a larger backing array able to hold minFree
// additional bytes beyond what is currently filled, and reallocates if
// granted. It returns errBufferFull if the policy refuses.
func (b *buffer) grow(minFree int) error {
	needed := b.filled + minFree
	next, ok := b.policy.Grow(len(b.buf), needed)
	if !ok {
		b.log.Debugw("growth policy refused to grow",
			"current", humanize.IBytes(uint64(len(b.buf))), "needed", humanize.IBytes(uint64(needed)))
		return errBufferFull
	}
	b.log.Debugw("growing buffer",
		"from", humanize.IBytes(uint64(len(b.buf))), "to", humanize.IBytes(uint64(next)))
	grown := make([]byte, next)
	copy(grown, b.buf[:b.filled])
	b.buf = grown
	return nil
}

// fillTo ensures at least minFree bytes of free space follow filled,
// compacting and growing as necessary, then reads once from src to
// extend filled. It returns the number of bytes read (0 meaning clean
// EOF) or errBufferFull if minFree cannot be satisfied under the growth
// policy.
func (b *buffer) fillTo(src io.Reader, minFree int) (int, error) {
	b.compactIfNeeded(minFree)
	if len(b.buf)-b.filled < minFree {
		if err := b.grow(minFree); err != nil {
			return 0, err
		}
	}
	n, err := src.Read(b.buf[b.filled:])
	b.filled += n
	if err != nil && err != io.EOF {
		return n, err
	}
	return n, nil
}

// reset discards all buffered content, preparing the buffer to be
// refilled from a new absolute offset (used by Seek).
func (b *buffer) reset() {
	b.consumed = 0
	b.filled = 0
}
