package org

import "time"

// Membership access levels.
const (
	AccessOwner = "owner"
	AccessGuest = "guest"
)

// Member is a membership entry embedded in an organization. Entries are only
// ever appended; removal is not exposed.
type Member struct {
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	AccessLevel string `json:"access_level" bson:"access_level"`
}

// Organization is a named group of members. Every organization carries at
// least one member from creation: its creator, with the owner access level.
type Organization struct {
	ID          string    `json:"organization_id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Members     []Member  `json:"organization_members" bson:"organization_members"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Update carries new organization attributes for an update operation.
type Update struct {
	Name        string
	Description string
}
