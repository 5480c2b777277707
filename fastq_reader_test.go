package seqio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFASTQReaderNext(t *testing.T) {
	r := NewFASTQReader(strings.NewReader("@r1\nACGT\n+\n!!!!\n@r2\nA\n+\n!\n"))

	v, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	id, err := v.ID()
	require.NoError(t, err)
	require.Equal(t, "r1", id)

	v, err = r.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	id, err = v.ID()
	require.NoError(t, err)
	require.Equal(t, "r2", id)

	v, err = r.Next()
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestFASTQReaderUnequalLengthsError(t *testing.T) {
	r := NewFASTQReader(strings.NewReader("@r1\nACGT\n+\n!!!\n"))
	_, err := r.Next()
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, KindUnequalLengths, se.Kind)
}

func TestFASTQReaderMultiLine(t *testing.T) {
	r := NewFASTQReader(strings.NewReader("@r1\nACG\nT\n+\n!!!\n!\n"), WithMultiLine())
	v, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	var seqBuf, qualBuf []byte
	require.Equal(t, "ACGT", string(v.FullSeqGiven(&seqBuf)))
	require.Equal(t, "!!!!", string(v.FullQualGiven(&qualBuf)))
}

func TestFASTQReaderBlankLinesToleratedOnlyAtStart(t *testing.T) {
	r := NewFASTQReader(strings.NewReader("\n\n@r1\nACGT\n+\n!!!!\n"))
	v, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, v)

	// A blank line between records is not tolerated for single-line FASTQ.
	r2 := NewFASTQReader(strings.NewReader("@r1\nACGT\n+\n!!!!\n\n@r2\nA\n+\n!\n"))
	_, err = r2.Next()
	require.NoError(t, err)
	_, err = r2.Next()
	require.Error(t, err)
}

func TestFASTQReaderReadRecordSetExact(t *testing.T) {
	r := NewFASTQReader(strings.NewReader("@r1\nA\n+\n!\n@r2\nC\n+\n!\n"))
	var rs FASTQRecordSet
	ok, err := r.ReadRecordSetExact(&rs, 2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, rs.Len())
}

func TestFASTQReaderReadRecordSetExactCleanEOF(t *testing.T) {
	r := NewFASTQReader(strings.NewReader(""))
	var rs FASTQRecordSet
	ok, err := r.ReadRecordSetExact(&rs, 1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFASTQRecordSetShrinkBufferToFit(t *testing.T) {
	r := NewFASTQReader(strings.NewReader("@r1\nA\n+\n!\n"))
	var rs FASTQRecordSet
	ok, err := r.ReadRecordSetExact(&rs, 1)
	require.NoError(t, err)
	require.True(t, ok)
	rs.ShrinkBufferToFit()
	require.Equal(t, len(rs.Bytes), rs.BufCapacity())
}
