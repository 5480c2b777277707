package seqio

// OwnedRecord is a fully independent copy of a record, with any internal
// line breaks removed from Seq and Qual. Qual is nil/empty for records
// cloned from a FASTA view. It is produced by CloneIntoOwned on a
// FASTAView or FASTQView, which reuse OwnedRecord's existing allocations
// rather than allocating fresh slices every time.
type OwnedRecord struct {
	Head []byte
	Seq  []byte
	Qual []byte
}

// Reset clears the record's contents while retaining its backing arrays.
func (r *OwnedRecord) Reset() {
	r.Head = r.Head[:0]
	r.Seq = r.Seq[:0]
	r.Qual = r.Qual[:0]
}
