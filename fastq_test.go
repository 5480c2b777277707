package seqio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanFASTQSingleTwoRecords(t *testing.T) {
	// Concrete end-to-end scenario from the format contract.
	in := []byte("@r1\nACGT\n+\n!!!!\n@r2\nA\n+\n!\n")
	b1, outcome, serr := scanFASTQSingle(in, true, true)
	require.Nil(t, serr)
	require.Equal(t, outcomeRecord, outcome)
	v1 := FASTQView{b: b1, buf: in}
	id1, err := v1.ID()
	require.NoError(t, err)
	require.Equal(t, "r1", id1)
	var seqBuf, qualBuf []byte
	require.Equal(t, "ACGT", string(v1.FullSeqGiven(&seqBuf)))
	require.Equal(t, "!!!!", string(v1.FullQualGiven(&qualBuf)))

	rest := in[b1.NextStart:]
	b2, outcome, serr := scanFASTQSingle(rest, true, false)
	require.Nil(t, serr)
	require.Equal(t, outcomeRecord, outcome)
	v2 := FASTQView{b: b2, buf: rest}
	id2, _ := v2.ID()
	require.Equal(t, "r2", id2)
	require.Equal(t, "A", string(v2.FullSeqGiven(&seqBuf)))
	require.Equal(t, "!", string(v2.FullQualGiven(&qualBuf)))
}

func TestScanFASTQSingleUnequalLengths(t *testing.T) {
	in := []byte("@r1\nACGT\n+\n!!!\n")
	_, _, serr := scanFASTQSingle(in, true, true)
	require.NotNil(t, serr)
	require.Equal(t, KindUnequalLengths, serr.kind)
}

func TestScanFASTQSingleMissingSeparator(t *testing.T) {
	in := []byte("@r1\nACGT\nXXXX\n!!!!\n")
	_, _, serr := scanFASTQSingle(in, true, true)
	require.NotNil(t, serr)
	require.Equal(t, KindInvalidSeparator, serr.kind)
}

func TestScanFASTQSingleSeparatorMustMatchID(t *testing.T) {
	in := []byte("@r1\nACGT\n+r2\n!!!!\n")
	_, _, serr := scanFASTQSingle(in, true, true)
	require.NotNil(t, serr)
	require.Equal(t, KindInvalidSeparator, serr.kind)
}

func TestScanFASTQSingleSeparatorMayRepeatID(t *testing.T) {
	in := []byte("@r1\nACGT\n+r1\n!!!!\n")
	b, outcome, serr := scanFASTQSingle(in, true, true)
	require.Nil(t, serr)
	require.Equal(t, outcomeRecord, outcome)
	v := FASTQView{b: b, buf: in}
	require.Equal(t, "r1", string(v.Sep()))
}

func TestScanFASTQSingleRejectsInvalidStart(t *testing.T) {
	_, _, serr := scanFASTQSingle([]byte(">not-fastq\n"), true, true)
	require.NotNil(t, serr)
	require.Equal(t, KindInvalidStart, serr.kind)
}

func TestScanFASTQSingleNeedsMore(t *testing.T) {
	_, outcome, serr := scanFASTQSingle([]byte("@r1\nACGT\n+\n!!"), false, true)
	require.Nil(t, serr)
	require.Equal(t, outcomeNeedMore, outcome)
}

func TestScanFASTQSingleEmptyIsEOF(t *testing.T) {
	_, outcome, serr := scanFASTQSingle(nil, true, true)
	require.Nil(t, serr)
	require.Equal(t, outcomeEOF, outcome)
}

func TestScanFASTQMultiLine(t *testing.T) {
	in := []byte("@r1\nACG\nT\n+\n!!!\n!\n")
	b, outcome, serr := scanFASTQMulti(in, true, true)
	require.Nil(t, serr)
	require.Equal(t, outcomeRecord, outcome)
	v := FASTQView{b: b, buf: in}
	var seqBuf, qualBuf []byte
	require.Equal(t, "ACGT", string(v.FullSeqGiven(&seqBuf)))
	require.Equal(t, "!!!!", string(v.FullQualGiven(&qualBuf)))
}

func TestScanFASTQMultiQualityMayContainSigilBytes(t *testing.T) {
	// Quality lines are free to start with '@' or '+'; only cumulative
	// length against the sequence decides where the record ends.
	in := []byte("@r1\nAC\n+\n@+\n")
	b, outcome, serr := scanFASTQMulti(in, true, true)
	require.Nil(t, serr)
	require.Equal(t, outcomeRecord, outcome)
	v := FASTQView{b: b, buf: in}
	var qualBuf []byte
	require.Equal(t, "@+", string(v.FullQualGiven(&qualBuf)))
}

func TestScanFASTQMultiQualityExceedingSeqIsError(t *testing.T) {
	in := []byte("@r1\nAC\n+\n!!!!\n")
	_, _, serr := scanFASTQMulti(in, true, true)
	require.NotNil(t, serr)
	require.Equal(t, KindUnequalLengths, serr.kind)
}

func TestScanFASTQMultiEOFBeforeSeparatorIsUnexpectedEnd(t *testing.T) {
	in := []byte("@r1\nACGT\n")
	_, _, serr := scanFASTQMulti(in, true, true)
	require.NotNil(t, serr)
	require.Equal(t, KindUnexpectedEnd, serr.kind)
}
