// Package memory provides in-process store implementations used by tests and
// the default development mode.
package memory

import (
	"context"
	"fmt"
	"sync"

	"orgdesk.org/internal/auth"
	"orgdesk.org/internal/org"
)

// UserStore is a mutex-guarded in-memory auth.UserStore.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]auth.User // keyed by email
}

var _ auth.UserStore = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]auth.User)}
}

func (s *UserStore) Create(_ context.Context, u *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Email]; ok {
		return fmt.Errorf("%w: email %s", auth.ErrConflict, u.Email)
	}
	s.users[u.Email] = *u
	return nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return u, nil
}

// OrganizationStore is a mutex-guarded in-memory org.Store preserving
// insertion order for List.
type OrganizationStore struct {
	mu    sync.RWMutex
	order []string
	orgs  map[string]org.Organization
}

var _ org.Store = (*OrganizationStore)(nil)

func NewOrganizationStore() *OrganizationStore {
	return &OrganizationStore{orgs: make(map[string]org.Organization)}
}

func (s *OrganizationStore) Insert(_ context.Context, o *org.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[o.ID]; !ok {
		s.order = append(s.order, o.ID)
	}
	s.orgs[o.ID] = cloneOrg(*o)
	return nil
}

func (s *OrganizationStore) Find(_ context.Context, id string) (org.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orgs[id]
	if !ok {
		return org.Organization{}, org.ErrNotFound
	}
	return cloneOrg(o), nil
}

func (s *OrganizationStore) List(_ context.Context) ([]org.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]org.Organization, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneOrg(s.orgs[id]))
	}
	return out, nil
}

func (s *OrganizationStore) Update(_ context.Context, id string, upd org.Update) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orgs[id]
	if !ok {
		return false, nil
	}
	if o.Name == upd.Name && o.Description == upd.Description {
		return false, nil
	}
	o.Name = upd.Name
	o.Description = upd.Description
	s.orgs[id] = o
	return true, nil
}

func (s *OrganizationStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[id]; !ok {
		return nil
	}
	delete(s.orgs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *OrganizationStore) AppendMember(_ context.Context, id string, m org.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orgs[id]
	if !ok {
		return org.ErrNotFound
	}
	o.Members = append(o.Members, m)
	s.orgs[id] = o
	return nil
}

func cloneOrg(o org.Organization) org.Organization {
	members := make([]org.Member, len(o.Members))
	copy(members, o.Members)
	o.Members = members
	return o
}

// RevocationLedger is a mutex-guarded in-memory auth.RevocationLedger.
type RevocationLedger struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

var _ auth.RevocationLedger = (*RevocationLedger)(nil)

func NewRevocationLedger() *RevocationLedger {
	return &RevocationLedger{revoked: make(map[string]struct{})}
}

func (l *RevocationLedger) Revoke(_ context.Context, jti string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[jti] = struct{}{}
	return nil
}

func (l *RevocationLedger) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.revoked[jti]
	return ok, nil
}
