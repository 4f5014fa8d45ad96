package memory

import (
	"context"
	"errors"
	"testing"

	"orgdesk.org/internal/auth"
	"orgdesk.org/internal/org"
)

func TestUserStoreUniqueEmail(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()

	if err := s.Create(ctx, &auth.User{ID: "u1", Email: "a@x.com"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Create(ctx, &auth.User{ID: "u2", Email: "a@x.com"}); !errors.Is(err, auth.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := s.FindByEmail(ctx, "b@x.com"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrganizationStoreLifecycle(t *testing.T) {
	s := NewOrganizationStore()
	ctx := context.Background()

	first := org.Organization{ID: "o1", Name: "First", Description: "one"}
	second := org.Organization{ID: "o2", Name: "Second", Description: "two"}
	if err := s.Insert(ctx, &first); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Insert(ctx, &second); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "o1" || list[1].ID != "o2" {
		t.Fatalf("expected insertion order, got %+v", list)
	}

	modified, err := s.Update(ctx, "o1", org.Update{Name: "Renamed", Description: "one"})
	if err != nil || !modified {
		t.Fatalf("expected modified update, got %v %v", modified, err)
	}
	modified, err = s.Update(ctx, "o1", org.Update{Name: "Renamed", Description: "one"})
	if err != nil || modified {
		t.Fatalf("expected no-change, got %v %v", modified, err)
	}

	if err := s.AppendMember(ctx, "o2", org.Member{Email: "a@x.com", AccessLevel: org.AccessGuest}); err != nil {
		t.Fatalf("AppendMember: %v", err)
	}
	got, err := s.Find(ctx, "o2")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got.Members) != 1 {
		t.Fatalf("expected appended member, got %+v", got.Members)
	}

	// Mutating the returned copy must not leak into the store.
	got.Members[0].AccessLevel = org.AccessOwner
	again, _ := s.Find(ctx, "o2")
	if again.Members[0].AccessLevel != org.AccessGuest {
		t.Fatalf("store copy was mutated through a returned value")
	}

	if err := s.Delete(ctx, "o1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "o1"); err != nil {
		t.Fatalf("Delete must be idempotent: %v", err)
	}
	if _, err := s.Find(ctx, "o1"); !errors.Is(err, org.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRevocationLedger(t *testing.T) {
	l := NewRevocationLedger()
	ctx := context.Background()

	revoked, err := l.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("fresh jti should not be revoked: %v %v", revoked, err)
	}
	if err := l.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := l.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("Revoke must be idempotent: %v", err)
	}
	revoked, err = l.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected jti to be revoked: %v %v", revoked, err)
	}
}
