package movecheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/park285/oh-my-chess/internal/rules"
)

func TestMemoryRepositoryOrderingAndLimit(t *testing.T) {
	repo := NewMemoryRepository(0)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		rec := &AuditRecord{
			CheckID:   uuid.New(),
			Move:      rules.M(i, 0, i, 1),
			Mover:     rules.White,
			Reason:    rules.ReasonEmptySource,
			CheckedAt: base.Add(time.Duration(i%3) * time.Minute),
		}
		ids = append(ids, rec.CheckID)
		if err := repo.InsertCheck(ctx, rec); err != nil {
			t.Fatalf("InsertCheck: %v", err)
		}
	}

	got, err := repo.RecentChecks(ctx, 3)
	if err != nil {
		t.Fatalf("RecentChecks: %v", err)
	}
	gotIDs := make([]uuid.UUID, len(got))
	for i, r := range got {
		gotIDs[i] = r.CheckID
	}
	// minute offsets are 0,1,2,0,1
	want := []uuid.UUID{ids[2], ids[4], ids[1]}
	if diff := cmp.Diff(want, gotIDs); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	all, _ := repo.RecentChecks(ctx, 0)
	if len(all) != 5 {
		t.Fatalf("default limit returned %d", len(all))
	}
}

func TestMemoryRepositoryDuplicate(t *testing.T) {
	repo := NewMemoryRepository(0)
	rec := &AuditRecord{CheckID: uuid.New(), CheckedAt: time.Now()}
	if err := repo.InsertCheck(context.Background(), rec); err != nil {
		t.Fatalf("InsertCheck: %v", err)
	}
	if err := repo.InsertCheck(context.Background(), rec); !errors.Is(err, ErrDuplicateCheck) {
		t.Fatalf("err = %v, want ErrDuplicateCheck", err)
	}
}

func TestOpenPostgresRequiresURL(t *testing.T) {
	if _, err := OpenPostgres(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestMemoryRepositoryEvictsOldest(t *testing.T) {
	repo := NewMemoryRepository(4)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 10; i++ {
		rec := &AuditRecord{CheckID: uuid.New(), CheckedAt: base.Add(time.Duration(i) * time.Second)}
		ids = append(ids, rec.CheckID)
		if err := repo.InsertCheck(ctx, rec); err != nil {
			t.Fatalf("InsertCheck %d: %v", i, err)
		}
	}
	if n := repo.(*memrepo).count(); n != 4 {
		t.Fatalf("retained %d records, want 4", n)
	}

	got, err := repo.RecentChecks(ctx, 10)
	if err != nil {
		t.Fatalf("RecentChecks: %v", err)
	}
	gotIDs := make([]uuid.UUID, len(got))
	for i, r := range got {
		gotIDs[i] = r.CheckID
	}
	want := []uuid.UUID{ids[9], ids[8], ids[7], ids[6]}
	if diff := cmp.Diff(want, gotIDs); diff != "" {
		t.Fatalf("recent mismatch (-want +got):\n%s", diff)
	}

	// an evicted id can be inserted again
	if err := repo.InsertCheck(ctx, &AuditRecord{CheckID: ids[0], CheckedAt: base}); err != nil {
		t.Fatalf("reinsert evicted: %v", err)
	}
}

func TestMemoryRepositoryBoundsServiceTraffic(t *testing.T) {
	repo := NewMemoryRepository(8)
	svc := NewService(WithRepository(repo))
	b := rules.NewBoard()
	for i := 0; i < 100; i++ {
		if _, err := svc.Check(context.Background(), CheckInput{Board: b, Move: rules.M(0, 0, 0, 1), Mover: rules.White}); err != nil {
			t.Fatalf("Check: %v", err)
		}
	}
	if n := repo.(*memrepo).count(); n != 8 {
		t.Fatalf("retained %d records, want 8", n)
	}
}
