package org

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"orgdesk.org/internal/auth"
	"orgdesk.org/internal/ids"
)

// UserResolver resolves registered users by email. Satisfied by
// auth.Accounts; organization membership stores the resolved display name
// next to the email.
type UserResolver interface {
	Lookup(ctx context.Context, email string) (auth.User, error)
}

// Service implements organization lifecycle and the owner-only mutation gate.
type Service struct {
	store Store
	users UserResolver
	now   func() time.Time
}

// NewService constructs the organization service.
func NewService(store Store, users UserResolver) (*Service, error) {
	if store == nil {
		return nil, errors.New("org: store is required")
	}
	if users == nil {
		return nil, errors.New("org: user resolver is required")
	}
	return &Service{store: store, users: users, now: time.Now}, nil
}

// Create stores a new organization seeded with exactly one member: the
// creator, as owner. The creator's display name is resolved from the
// credential store.
func (s *Service) Create(ctx context.Context, creatorEmail, name, description string) (Organization, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return Organization{}, fmt.Errorf("%w: name and description are required", ErrInvalidInput)
	}
	creator, err := s.users.Lookup(ctx, creatorEmail)
	if err != nil {
		return Organization{}, err
	}
	now := s.now().UTC()
	o := Organization{
		ID:          ids.New(),
		Name:        name,
		Description: description,
		Members: []Member{{
			Name:        creator.Name,
			Email:       creator.Email,
			AccessLevel: AccessOwner,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, &o); err != nil {
		return Organization{}, err
	}
	return o, nil
}

// Get loads a single organization.
func (s *Service) Get(ctx context.Context, id string) (Organization, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Organization{}, ErrNotFound
	}
	return s.store.Find(ctx, id)
}

// List returns all organizations in natural store order.
func (s *Service) List(ctx context.Context) ([]Organization, error) {
	return s.store.List(ctx)
}

// UpdateAttributes sets new name and description. The boolean reports whether
// the stored document changed; an identical or absent document yields false
// without an error, a distinct no-op signal rather than a failure.
func (s *Service) UpdateAttributes(ctx context.Context, id, name, description string) (bool, error) {
	return s.store.Update(ctx, id, Update{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	})
}

// Delete removes an organization. Deleting an absent one is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Invite appends the invited user as a guest member. The invitee must be a
// registered user; their display name is resolved from the credential store.
// Inviting the same email twice appends a second entry, matching the
// append-only membership contract.
func (s *Service) Invite(ctx context.Context, id, inviteeEmail string) (Member, error) {
	invitee, err := s.users.Lookup(ctx, inviteeEmail)
	if err != nil {
		return Member{}, err
	}
	m := Member{
		Name:        invitee.Name,
		Email:       invitee.Email,
		AccessLevel: AccessGuest,
	}
	if err := s.store.AppendMember(ctx, id, m); err != nil {
		return Member{}, err
	}
	return m, nil
}

// Authorize is the gate applied before mutating operations: the organization
// must exist and the caller must be an owner member. A missing organization
// is reported as ErrNotFound, guests and non-members as ErrForbidden.
func (s *Service) Authorize(ctx context.Context, id, email string) error {
	o, err := s.store.Find(ctx, id)
	if err != nil {
		return err
	}
	if !CanManage(o, email) {
		return ErrForbidden
	}
	return nil
}
