package seqio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanFASTASingleRecord(t *testing.T) {
	in := []byte(">a\nACGT\n")
	b, outcome, serr := scanFASTA(in, true)
	require.Nil(t, serr)
	require.Equal(t, outcomeRecord, outcome)
	require.Equal(t, byte('>'), in[b.HeaderStart])
	v := FASTAView{b: b, buf: in}
	id, err := v.ID()
	require.NoError(t, err)
	require.Equal(t, "a", id)
	var seqBuf []byte
	require.Equal(t, "ACGT", string(v.FullSeqGiven(&seqBuf)))
}

func TestScanFASTAMultiLineRecordWithDesc(t *testing.T) {
	// Concrete end-to-end scenario: two records, the second spanning
	// multiple sequence lines and carrying a description.
	in := []byte(">a\nACGT\n>b desc\nTTT\nGG\n")
	b1, outcome, serr := scanFASTA(in, true)
	require.Nil(t, serr)
	require.Equal(t, outcomeRecord, outcome)
	v1 := FASTAView{b: b1, buf: in}
	id1, _ := v1.ID()
	require.Equal(t, "a", id1)

	rest := in[b1.NextStart:]
	b2, outcome, serr := scanFASTA(rest, true)
	require.Nil(t, serr)
	require.Equal(t, outcomeRecord, outcome)
	v2 := FASTAView{b: b2, buf: rest}
	id2, _ := v2.ID()
	require.Equal(t, "b", id2)
	desc2, has, err := v2.Desc()
	require.NoError(t, err)
	require.True(t, has)
	require.Equal(t, "desc", desc2)

	var lines []string
	v2.SeqLines(func(line []byte) bool {
		lines = append(lines, string(line))
		return true
	})
	require.Equal(t, []string{"TTT", "GG"}, lines)

	var seqBuf []byte
	require.Equal(t, "TTTGG", string(v2.FullSeqGiven(&seqBuf)))
}

func TestScanFASTANeedsMoreMidHeader(t *testing.T) {
	in := []byte(">abc")
	_, outcome, serr := scanFASTA(in, false)
	require.Nil(t, serr)
	require.Equal(t, outcomeNeedMore, outcome)
}

func TestScanFASTAEmptyInputIsEOF(t *testing.T) {
	_, outcome, serr := scanFASTA(nil, true)
	require.Nil(t, serr)
	require.Equal(t, outcomeEOF, outcome)
}

func TestScanFASTABlankOnlyInputIsEOF(t *testing.T) {
	_, outcome, serr := scanFASTA([]byte("\n\n\n"), true)
	require.Nil(t, serr)
	require.Equal(t, outcomeEOF, outcome)
}

func TestScanFASTARejectsInvalidStart(t *testing.T) {
	_, _, serr := scanFASTA([]byte("not a record\n"), true)
	require.NotNil(t, serr)
	require.Equal(t, KindInvalidStart, serr.kind)
}

func TestScanFASTANoTrailingNewline(t *testing.T) {
	in := []byte(">a\nACGT")
	b, outcome, serr := scanFASTA(in, true)
	require.Nil(t, serr)
	require.Equal(t, outcomeRecord, outcome)
	require.Equal(t, len(in), b.NextStart)
	v := FASTAView{b: b, buf: in}
	var seqBuf []byte
	require.Equal(t, "ACGT", string(v.FullSeqGiven(&seqBuf)))
}

func TestFASTAViewCloneIntoOwned(t *testing.T) {
	in := []byte(">a desc\nAC\nGT\n")
	b, outcome, serr := scanFASTA(in, true)
	require.Nil(t, serr)
	require.Equal(t, outcomeRecord, outcome)
	v := FASTAView{b: b, buf: in}
	var owned OwnedRecord
	v.CloneIntoOwned(&owned)
	require.Equal(t, "a desc", string(owned.Head))
	require.Equal(t, "ACGT", string(owned.Seq))
	require.Empty(t, owned.Qual)
}
