package seqio

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFASTAReaderNext(t *testing.T) {
	r := NewFASTAReader(strings.NewReader(">a\nACGT\n>b desc\nTTT\nGG\n"))

	v, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	id, err := v.ID()
	require.NoError(t, err)
	require.Equal(t, "a", id)

	v, err = r.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	id, err = v.ID()
	require.NoError(t, err)
	require.Equal(t, "b", id)
	desc, has, err := v.Desc()
	require.NoError(t, err)
	require.True(t, has)
	require.Equal(t, "desc", desc)

	v, err = r.Next()
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestFASTAReaderEmptyInput(t *testing.T) {
	r := NewFASTAReader(strings.NewReader(""))
	v, err := r.Next()
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestFASTAReaderBlankOnlyInput(t *testing.T) {
	r := NewFASTAReader(strings.NewReader("\n\n\n"))
	v, err := r.Next()
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestFASTAReaderNoTrailingNewline(t *testing.T) {
	r := NewFASTAReader(strings.NewReader(">a\nACGT"))
	v, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	var buf []byte
	require.Equal(t, "ACGT", string(v.FullSeqGiven(&buf)))

	v, err = r.Next()
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestFASTAReaderRejectsGarbage(t *testing.T) {
	r := NewFASTAReader(strings.NewReader("not a fasta stream"))
	_, err := r.Next()
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, KindInvalidStart, se.Kind)
}

func TestFASTAReaderGrowsPastInitialCapacity(t *testing.T) {
	// A record larger than the initial capacity but smaller than the cap
	// must still parse correctly after growth.
	seq := strings.Repeat("A", 10_000)
	in := ">big\n" + seq + "\n"
	r := NewFASTAReader(strings.NewReader(in), WithInitialCapacity(64))
	v, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	var buf []byte
	require.Equal(t, seq, string(v.FullSeqGiven(&buf)))
}

func TestFASTAReaderBufferLimitError(t *testing.T) {
	seq := strings.Repeat("A", 5_000_000)
	in := ">a\n" + seq + "\n"
	r := NewFASTAReader(
		strings.NewReader(in),
		WithInitialCapacity(64),
		WithGrowthPolicy(DoublingPolicy{Factor: 2, Cap: 4 << 20}),
	)
	_, err := r.Next()
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, KindBufferLimit, se.Kind)
	require.Equal(t, uint64(0), se.Position.RecordIndex)
}

func TestFASTAReaderPositionAndSeek(t *testing.T) {
	src := bytes.NewReader([]byte(">a\nACGT\n>b\nTTTT\n"))
	r := NewFASTAReader(src)

	_, err := r.Next()
	require.NoError(t, err)
	posOfFirst := r.Position()

	_, err = r.Next()
	require.NoError(t, err)

	require.NoError(t, r.Seek(posOfFirst))
	v, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	id, err := v.ID()
	require.NoError(t, err)
	require.Equal(t, "a", id)
}

func TestFASTAReaderSeekIntoMiddleOfRecordIsInvalidStart(t *testing.T) {
	src := bytes.NewReader([]byte(">a\nACGT\n>b\nTTTT\n"))
	r := NewFASTAReader(src)

	require.NoError(t, r.Seek(Position{ByteOffset: 4}))
	_, err := r.Next()
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, KindInvalidStart, se.Kind)
}

func TestFASTAReaderReadRecordSetExact(t *testing.T) {
	r := NewFASTAReader(strings.NewReader(">a\nA\n>b\nC\n>c\nG\n"))
	var rs FASTARecordSet
	ok, err := r.ReadRecordSetExact(&rs, 2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, rs.Len())

	var ids []string
	rs.Iter(func(v FASTAView) bool {
		id, _ := v.ID()
		ids = append(ids, id)
		return true
	})
	require.Equal(t, []string{"a", "b"}, ids)
}

func TestFASTAReaderReadRecordSetExactEOFWithZeroRecordsIsClean(t *testing.T) {
	r := NewFASTAReader(strings.NewReader(""))
	var rs FASTARecordSet
	ok, err := r.ReadRecordSetExact(&rs, 3)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFASTAReaderReadRecordSetExactPartialBatchIsError(t *testing.T) {
	r := NewFASTAReader(strings.NewReader(">a\nA\n>b\nC\n"))
	var rs FASTARecordSet
	_, err := r.ReadRecordSetExact(&rs, 5)
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, KindUnexpectedEnd, se.Kind)
}

func TestFASTAReaderReadRecordSet(t *testing.T) {
	r := NewFASTAReader(strings.NewReader(">a\nA\n>b\nC\n"))
	var rs FASTARecordSet
	ok, err := r.ReadRecordSet(&rs)
	require.NoError(t, err)
	require.True(t, ok)
	require.GreaterOrEqual(t, rs.Len(), 1)
}

// slowReader returns bytes one at a time to exercise the refill loop
// without relying on a single bulk Read.
type slowReader struct {
	data []byte
	pos  int
}

func (r *slowReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:r.pos+1])
	r.pos += n
	return n, nil
}

func TestFASTAReaderWithSlowSource(t *testing.T) {
	r := NewFASTAReader(&slowReader{data: []byte(">a\nACGT\n")})
	v, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	var buf []byte
	require.Equal(t, "ACGT", string(v.FullSeqGiven(&buf)))
}
