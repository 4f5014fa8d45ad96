package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"orgdesk.org/internal/ids"
)

// Accounts implements signup and credential verification over a UserStore.
type Accounts struct {
	store UserStore
	now   func() time.Time
}

// NewAccounts constructs the credential service.
func NewAccounts(store UserStore) (*Accounts, error) {
	if store == nil {
		return nil, errors.New("auth: user store is required")
	}
	return &Accounts{store: store, now: time.Now}, nil
}

// Register creates a new user. The email is the unique key; registering an
// existing email fails with ErrConflict. The find-then-insert check is not
// transactional in every backend, so a concurrent duplicate may surface as a
// store error instead.
func (a *Accounts) Register(ctx context.Context, name, email, password string) (User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return User{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if _, err := a.store.FindByEmail(ctx, email); err == nil {
		return User{}, fmt.Errorf("%w: email %s", ErrConflict, email)
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:           ids.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    a.now().UTC(),
	}
	if err := a.store.Create(ctx, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Verify checks email and password against the stored credentials. Unknown
// email and hash mismatch are both reported as ErrUnauthorized.
func (a *Accounts) Verify(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return User{}, ErrUnauthorized
	}
	user, err := a.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrUnauthorized
		}
		return User{}, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return User{}, ErrUnauthorized
	}
	return user, nil
}

// Lookup resolves a user by email. Used when seeding organization membership.
func (a *Accounts) Lookup(ctx context.Context, email string) (User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return User{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	return a.store.FindByEmail(ctx, email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
