package seq

import (
	"testing"

	"segul-core/alphabet"
)

func TestInsertDuplicate(t *testing.T) {
	a := NewAlignment(alphabet.DNA)
	if _, err := a.Insert(Record{ID: "a", Seq: []byte("ACGT")}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	dropped, err := a.Insert(Record{ID: "a", Seq: []byte("ACGT")})
	if err != nil || !dropped {
		t.Fatalf("identical duplicate should be dropped, got dropped=%v err=%v", dropped, err)
	}
	if _, err := a.Insert(Record{ID: "a", Seq: []byte("ACGA")}); err == nil {
		t.Fatal("conflicting duplicate should error")
	}
	if a.Len() != 1 {
		t.Fatalf("len = %d, want 1", a.Len())
	}
}

func TestIsAligned(t *testing.T) {
	a := NewAlignment(alphabet.DNA)
	_, _ = a.Insert(Record{ID: "a", Seq: []byte("ACGT")})
	_, _ = a.Insert(Record{ID: "b", Seq: []byte("AC-T")})
	if !a.IsAligned() {
		t.Fatal("expected aligned")
	}
	_, _ = a.Insert(Record{ID: "c", Seq: []byte("AC")})
	if a.IsAligned() {
		t.Fatal("expected ragged")
	}
}

func TestRenameCollision(t *testing.T) {
	a := NewAlignment(alphabet.DNA)
	_, _ = a.Insert(Record{ID: "a", Seq: []byte("AC")})
	_, _ = a.Insert(Record{ID: "b", Seq: []byte("GT")})
	if err := a.Rename("a", "b"); err == nil {
		t.Fatal("collision should error")
	}
	if err := a.Rename("a", "c"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if got := a.IDs(); got[0] != "c" || got[1] != "b" {
		t.Fatalf("order after rename: %v", got)
	}
}

func TestSortAlnum(t *testing.T) {
	ids := []string{"locus10", "locus2", "locus1", "a_2", "a_10", "a_02"}
	SortAlnum(ids)
	want := []string{"a_2", "a_02", "a_10", "locus1", "locus2", "locus10"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", ids, want)
		}
	}
}
