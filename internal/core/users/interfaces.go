package users

import "context"

// Repository defines the interface for user and follow-graph persistence
type Repository interface {
	Upsert(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdateUsername(ctx context.Context, id, username string) (*User, error)

	// ListFollowing returns the users the given user follows, newest-first.
	ListFollowing(ctx context.Context, userID string) ([]User, error)

	// ListFollowers returns the users following the given user, newest-first.
	ListFollowers(ctx context.Context, userID string) ([]User, error)

	// CreateFollow inserts a follow edge. Inserting an edge that already
	// exists is not an error (the insert is a no-op), so replays are safe.
	CreateFollow(ctx context.Context, followerID, followeeID string) error

	// DeleteFollow removes a follow edge. Removing a missing edge is a no-op.
	DeleteFollow(ctx context.Context, followerID, followeeID string) error
}

// Service defines the social-graph business logic
type Service interface {
	// EnsureUser creates or refreshes a user record. Idempotent - called
	// after every sign-in so first-time callers are immediately queryable.
	EnsureUser(ctx context.Context, req EnsureUserRequest) (*User, error)

	// GetUser resolves a username or, failing that, an immutable ID.
	GetUser(ctx context.Context, identifier string) (*User, error)

	// GetProfile returns the resolved user with followers and following.
	GetProfile(ctx context.Context, identifier string) (*Profile, error)

	UpdateUsername(ctx context.Context, actorID, username string) (*User, error)

	// Follow adds targetID to actorID's following set. Following yourself,
	// an already-followed user, or a user that does not exist is a silent
	// no-op, never an error.
	Follow(ctx context.Context, actorID, targetID string) (*Profile, error)

	// Unfollow removes targetID from actorID's following set. Unfollowing
	// a user that is not followed is a silent no-op.
	Unfollow(ctx context.Context, actorID, targetID string) (*Profile, error)
}
