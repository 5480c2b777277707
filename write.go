package seqio

import "io"

// Sep returns the (possibly empty) content of the FASTQ separator line,
// i.e. whatever followed '+'.
func (v FASTQView) Sep() []byte {
	return v.buf[v.b.SepStart+1 : v.b.SepEnd]
}

// Write writes the record in canonical form: ">" + head + "\n", followed
// by the sequence lines exactly as stored (preserving internal breaks),
// each terminated by "\n".
func (v FASTAView) Write(w io.Writer) error {
	if err := writeAll(w, []byte{'>'}, v.Head(), newline); err != nil {
		return err
	}
	var werr error
	v.SeqLines(func(line []byte) bool {
		werr = writeAll(w, line, newline)
		return werr == nil
	})
	return werr
}

// WriteWrap writes the record with its sequence re-flowed to width bytes
// per line (a width <= 0 disables wrapping and behaves like Write).
func (v FASTAView) WriteWrap(w io.Writer, width int) error {
	if width <= 0 {
		return v.Write(w)
	}
	if err := writeAll(w, []byte{'>'}, v.Head(), newline); err != nil {
		return err
	}
	var buf []byte
	seq := v.FullSeqGiven(&buf)
	for i := 0; i < len(seq); i += width {
		end := i + width
		if end > len(seq) {
			end = len(seq)
		}
		if err := writeAll(w, seq[i:end], newline); err != nil {
			return err
		}
	}
	return nil
}

// Write writes the record in canonical single-line form: four lines,
// header/sequence/separator/quality, each terminated by "\n". The
// separator line reproduces whatever this record's '+' line carried.
func (v FASTQView) Write(w io.Writer) error {
	if err := writeAll(w, []byte{'@'}, v.Head(), newline); err != nil {
		return err
	}
	var seqBuf, qualBuf []byte
	seq := v.FullSeqGiven(&seqBuf)
	qual := v.FullQualGiven(&qualBuf)
	if err := writeAll(w, seq, newline); err != nil {
		return err
	}
	if err := writeAll(w, []byte{'+'}, v.Sep(), newline); err != nil {
		return err
	}
	return writeAll(w, qual, newline)
}

// Write writes an owned FASTA-style record (Qual empty) or FASTQ-style
// record (Qual non-empty) in single-line form: the sequence (and quality)
// on one line each, with a bare "+" separator line for FASTQ.
func (r *OwnedRecord) Write(w io.Writer) error {
	if len(r.Qual) == 0 {
		if err := writeAll(w, []byte{'>'}, r.Head, newline); err != nil {
			return err
		}
		return writeAll(w, r.Seq, newline)
	}
	if err := writeAll(w, []byte{'@'}, r.Head, newline); err != nil {
		return err
	}
	if err := writeAll(w, r.Seq, newline); err != nil {
		return err
	}
	if err := writeAll(w, []byte{'+'}, newline); err != nil {
		return err
	}
	return writeAll(w, r.Qual, newline)
}

func writeAll(w io.Writer, chunks ...[]byte) error {
	for _, c := range chunks {
		if len(c) == 0 {
			continue
		}
		if _, err := w.Write(c); err != nil {
			return err
		}
	}
	return nil
}
