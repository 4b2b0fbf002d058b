package store

import (
	"testing"

	"prospector_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func leadWithScore(name string, score int) domain.Lead {
	return domain.NewLead(domain.NewLeadParams{
		CompanyName:        name,
		Source:             "google",
		QualificationScore: &score,
	})
}

func names(leads []domain.Lead) []string {
	out := make([]string, len(leads))
	for i, l := range leads {
		out[i] = l.CompanyName
	}
	return out
}

func TestInsertRankedPlacesNewLeadsAheadSortedByScore(t *testing.T) {
	s := New()
	s.InsertRanked([]domain.Lead{leadWithScore("existing50", 50), leadWithScore("existing30", 30)})

	// New batch arrives unsorted; existing order must be untouched.
	s.InsertRanked([]domain.Lead{leadWithScore("new10", 10), leadWithScore("new90", 90)})

	got := names(s.All())
	want := []string{"new90", "new10", "existing50", "existing30"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestInsertRankedTreatsAbsentScoreAsZero(t *testing.T) {
	s := New()
	unscored := domain.NewLead(domain.NewLeadParams{CompanyName: "unscored", Source: "google"})
	s.InsertRanked([]domain.Lead{unscored, leadWithScore("scored40", 40)})

	got := names(s.All())
	if got[0] != "scored40" || got[1] != "unscored" {
		t.Fatalf("order = %v, want scored lead first", got)
	}
	// The absent score itself must stay absent, not be coerced to 0.
	all := s.All()
	if all[1].QualificationScore != nil {
		t.Error("ranking must not write a zero score into the lead")
	}
}

func TestUpdateByIDMutatesExactlyOne(t *testing.T) {
	s := New()
	a := leadWithScore("a", 10)
	b := leadWithScore("b", 20)
	s.InsertRanked([]domain.Lead{a, b})

	ok := s.UpdateByID(a.ID, func(l *domain.Lead) {
		l.CompanyName = "renamed"
	})
	if !ok {
		t.Fatal("expected update to find the lead")
	}

	got, _ := s.GetByID(a.ID)
	if got.CompanyName != "renamed" {
		t.Errorf("companyName = %q, want renamed", got.CompanyName)
	}
	other, _ := s.GetByID(b.ID)
	if other.CompanyName != "b" {
		t.Errorf("unrelated lead mutated: %q", other.CompanyName)
	}
}

func TestUpdateByIDAbsentIsNoOp(t *testing.T) {
	s := New()
	if s.UpdateByID(uuid.New(), func(l *domain.Lead) { l.CompanyName = "x" }) {
		t.Error("update of absent id must report false")
	}
}

func TestRemoveByIDIsIdempotent(t *testing.T) {
	s := New()
	a := leadWithScore("a", 10)
	s.InsertRanked([]domain.Lead{a})

	if !s.RemoveByID(a.ID) {
		t.Fatal("first removal must succeed")
	}
	if s.RemoveByID(a.ID) {
		t.Error("second removal must be a no-op")
	}
	if s.Len() != 0 {
		t.Errorf("len = %d, want 0", s.Len())
	}
}

func TestAllReturnsCopies(t *testing.T) {
	s := New()
	a := leadWithScore("a", 10)
	s.InsertRanked([]domain.Lead{a})

	snapshot := s.All()
	snapshot[0].CompanyName = "mutated"

	got, _ := s.GetByID(a.ID)
	if got.CompanyName != "a" {
		t.Error("mutating a snapshot must not affect the store")
	}
}

func TestFindByStatus(t *testing.T) {
	s := New()
	a := leadWithScore("a", 10)
	b := leadWithScore("b", 20)
	s.InsertRanked([]domain.Lead{a, b})
	s.UpdateByID(a.ID, func(l *domain.Lead) {
		if err := l.BeginDraft(); err != nil {
			t.Fatal(err)
		}
	})

	newOnes := s.FindByStatus(domain.StatusNew)
	if len(newOnes) != 1 || newOnes[0].ID != b.ID {
		t.Fatalf("FindByStatus(NEW) = %v, want only b", names(newOnes))
	}
	if len(s.FindByStatus(domain.StatusSent)) != 0 {
		t.Error("FindByStatus(SENT) must be empty")
	}
}
