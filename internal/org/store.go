package org

import "context"

// Store persists organizations with their embedded member lists. Each method
// maps to a single atomic store operation; there is no cross-operation
// transaction, so concurrent updates resolve last-write-wins per document.
type Store interface {
	Insert(ctx context.Context, o *Organization) error
	Find(ctx context.Context, id string) (Organization, error)
	List(ctx context.Context) ([]Organization, error)
	// Update applies new name/description and reports whether the stored
	// document actually changed. A missing or identical document yields
	// modified=false without an error.
	Update(ctx context.Context, id string, upd Update) (modified bool, err error)
	// Delete is idempotent; deleting an absent organization is not an error.
	Delete(ctx context.Context, id string) error
	AppendMember(ctx context.Context, id string, m Member) error
}
