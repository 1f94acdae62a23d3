// core/seq/seq.go
package seq

import (
	"bytes"
	"fmt"

	"segul-core/alphabet"
)

// Record is a single parsed sequence.
type Record struct {
	ID   string
	Desc string // FASTA description, kept only for FASTA round-trips
	Seq  []byte
}

// Header carries the matrix dimensions and format metadata.
type Header struct {
	Ntax     int
	Nchar    int
	Datatype alphabet.Datatype
	Missing  byte
	Gap      byte
}

// NewHeader returns a header with the conventional missing/gap symbols.
func NewHeader(d alphabet.Datatype) Header {
	return Header{Datatype: d, Missing: '?', Gap: '-'}
}

// Alignment maps taxon ids to residue strings, keeping insertion order.
type Alignment struct {
	Header Header
	ids    []string
	seqs   map[string]*Record
}

// NewAlignment returns an empty alignment for datatype d.
func NewAlignment(d alphabet.Datatype) *Alignment {
	return &Alignment{Header: NewHeader(d), seqs: make(map[string]*Record)}
}

// Insert appends a record. A duplicate id with a bit-identical sequence is
// dropped and reported via the bool return; a conflicting duplicate is an
// error.
func (a *Alignment) Insert(rec Record) (dropped bool, err error) {
	if prev, ok := a.seqs[rec.ID]; ok {
		if bytes.Equal(prev.Seq, rec.Seq) {
			return true, nil
		}
		return false, fmt.Errorf("duplicate id %q with conflicting sequences", rec.ID)
	}
	r := rec
	a.seqs[rec.ID] = &r
	a.ids = append(a.ids, rec.ID)
	if len(rec.Seq) > a.Header.Nchar {
		a.Header.Nchar = len(rec.Seq)
	}
	a.Header.Ntax = len(a.ids)
	return false, nil
}

// Get returns the record for id, if present.
func (a *Alignment) Get(id string) (*Record, bool) {
	r, ok := a.seqs[id]
	return r, ok
}

// Delete removes id; unknown ids are a no-op.
func (a *Alignment) Delete(id string) {
	if _, ok := a.seqs[id]; !ok {
		return
	}
	delete(a.seqs, id)
	for i, v := range a.ids {
		if v == id {
			a.ids = append(a.ids[:i], a.ids[i+1:]...)
			break
		}
	}
	a.Header.Ntax = len(a.ids)
	a.recomputeNchar()
}

// Rename changes the id of a record in place, keeping its position.
func (a *Alignment) Rename(from, to string) error {
	r, ok := a.seqs[from]
	if !ok {
		return fmt.Errorf("unknown id %q", from)
	}
	if from == to {
		return nil
	}
	if _, clash := a.seqs[to]; clash {
		return fmt.Errorf("rename collision: %q already present", to)
	}
	delete(a.seqs, from)
	r.ID = to
	a.seqs[to] = r
	for i, v := range a.ids {
		if v == from {
			a.ids[i] = to
			break
		}
	}
	return nil
}

// Len returns the number of taxa.
func (a *Alignment) Len() int { return len(a.ids) }

// Nchar returns the length of the longest sequence.
func (a *Alignment) Nchar() int { return a.Header.Nchar }

// IDs returns ids in insertion order.
func (a *Alignment) IDs() []string {
	out := make([]string, len(a.ids))
	copy(out, a.ids)
	return out
}

// SortedIDs returns ids in alphanumeric order (digit runs compare
// numerically).
func (a *Alignment) SortedIDs() []string {
	out := a.IDs()
	SortAlnum(out)
	return out
}

// Sort reorders the alignment in alphanumeric id order.
func (a *Alignment) Sort() { SortAlnum(a.ids) }

// IsAligned reports whether every sequence has length Nchar.
func (a *Alignment) IsAligned() bool {
	for _, id := range a.ids {
		if len(a.seqs[id].Seq) != a.Header.Nchar {
			return false
		}
	}
	return true
}

// Records returns the records in current id order.
func (a *Alignment) Records() []Record {
	out := make([]Record, 0, len(a.ids))
	for _, id := range a.ids {
		out = append(out, *a.seqs[id])
	}
	return out
}

func (a *Alignment) recomputeNchar() {
	n := 0
	for _, r := range a.seqs {
		if len(r.Seq) > n {
			n = len(r.Seq)
		}
	}
	a.Header.Nchar = n
}
