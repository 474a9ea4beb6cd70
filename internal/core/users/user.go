package users

import (
	"time"
)

// User represents an account in the Chirp database.
// The ID is the stable subject identifier issued by the identity provider;
// it never changes. Username is the user-chosen handle and is optional -
// display code falls back to the ID when it is unset.
type User struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	Username  *string   `json:"username,omitempty" db:"username"`
	Image     *string   `json:"image,omitempty" db:"image"`
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
}

// Profile is a user together with their social graph.
// Following and Followers are ordered newest-first; callers display the
// most recent follow at the top, so this ordering is part of the contract.
type Profile struct {
	User      *User  `json:"user"`
	Following []User `json:"following"`
	Followers []User `json:"followers"`
}

// EnsureUserRequest is the input for creating or refreshing a user record
// after the identity provider has authenticated the caller.
type EnsureUserRequest struct {
	Image *string `json:"image,omitempty"`
	ID    string  `json:"id"`
	Name  string  `json:"name"`
}
