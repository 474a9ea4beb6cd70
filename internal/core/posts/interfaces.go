package posts

import "context"

// Repository defines the interface for post persistence
type Repository interface {
	// Create persists a post and its attachments atomically
	Create(ctx context.Context, post *Post, attachments []Attachment) (*Post, error)

	GetByID(ctx context.Context, id string) (*Post, error)
	UpdateText(ctx context.Context, id, text string) (*Post, error)

	// Delete removes the post; the store cascades to attachments, likes,
	// dependent replies, and repost wrappers
	Delete(ctx context.Context, id string) error

	// ListLikerIDs returns the IDs of users who like the post, newest-first
	ListLikerIDs(ctx context.Context, postID string) ([]string, error)

	// CreateLike inserts a like edge; inserting an existing edge is a no-op
	CreateLike(ctx context.Context, userID, postID string) error

	// DeleteLike removes a like edge; removing a missing edge is a no-op
	DeleteLike(ctx context.Context, userID, postID string) error
}

// Service defines the post business logic
type Service interface {
	// Create makes a top-level post, allocating a storage key and upload
	// grant for each declared file. The grants are returned alongside the
	// post; the binary upload happens out of band and is never awaited.
	Create(ctx context.Context, req CreatePostRequest) (*CreatePostResponse, error)

	// Reply creates a post whose RepliedToID links to the parent
	Reply(ctx context.Context, authorID, repliedToID, text string) (*Post, error)

	// Repost creates a textless wrapper referencing the target post.
	// There is no duplicate suppression: every call makes a distinct post.
	Repost(ctx context.Context, authorID, repostID string) (*Post, error)

	// Edit replaces the post text. Fails with ErrNotAuthorized unless the
	// post exists and the actor is its author.
	Edit(ctx context.Context, actorID, postID, newText string) (*Post, error)

	// Delete removes the post under the same authorization rule as Edit
	Delete(ctx context.Context, actorID, postID string) error

	// Like and Unlike are idempotent membership toggles over the post's
	// likes set. A missing post or an already-satisfied state is a silent
	// no-op, never an error.
	Like(ctx context.Context, actorID, postID string) error
	Unlike(ctx context.Context, actorID, postID string) error
}
