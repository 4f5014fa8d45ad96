package auth

import (
	"context"
	"errors"
	"testing"
)

type stubUserStore struct {
	users map[string]User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: make(map[string]User)}
}

func (s *stubUserStore) Create(_ context.Context, u *User) error {
	if _, ok := s.users[u.Email]; ok {
		return ErrConflict
	}
	s.users[u.Email] = *u
	return nil
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (User, error) {
	u, ok := s.users[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func TestRegisterAndVerify(t *testing.T) {
	svc, err := NewAccounts(newStubUserStore())
	if err != nil {
		t.Fatalf("NewAccounts: %v", err)
	}
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "A@X.com", "pw1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "a@x.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "pw1" {
		t.Fatalf("password must be stored hashed")
	}
	if user.ID == "" {
		t.Fatalf("expected generated user id")
	}

	got, err := svc.Verify(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("verify returned wrong user: %s", got.ID)
	}

	if _, err := svc.Verify(ctx, "a@x.com", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for bad password, got %v", err)
	}
	if _, err := svc.Verify(ctx, "b@x.com", "pw1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown email, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, err := NewAccounts(newStubUserStore())
	if err != nil {
		t.Fatalf("NewAccounts: %v", err)
	}
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "a@x.com", "pw1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "Other", "a@x.com", "pw2"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, err := NewAccounts(newStubUserStore())
	if err != nil {
		t.Fatalf("NewAccounts: %v", err)
	}
	ctx := context.Background()

	cases := [][3]string{
		{"", "a@x.com", "pw"},
		{"Alice", "", "pw"},
		{"Alice", "a@x.com", ""},
		{"  ", "a@x.com", "pw"},
	}
	for _, c := range cases {
		if _, err := svc.Register(ctx, c[0], c[1], c[2]); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Register(%q,%q,%q): expected ErrInvalidInput, got %v", c[0], c[1], c[2], err)
		}
	}
}
