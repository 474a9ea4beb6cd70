package feeds

import (
	"context"
	"errors"
	"time"

	"Chirp/internal/core/posts"
	"Chirp/internal/core/users"
)

// ProfileView selects which slice of a user's activity a profile feed shows
type ProfileView string

const (
	// ViewPosts shows top-level posts only (replies filtered out)
	ViewPosts ProfileView = "posts"
	// ViewPostsAndReplies shows everything the user authored
	ViewPostsAndReplies ProfileView = "replies"
	// ViewLikes shows the posts the user has liked
	ViewLikes ProfileView = "likes"
)

// UserRef is the author/liker projection embedded in post views
type UserRef struct {
	Username *string `json:"username,omitempty"`
	Image    *string `json:"image,omitempty"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
}

// AttachmentView carries the durable storage key for one attachment
type AttachmentView struct {
	ID   string `json:"id"`
	Hash string `json:"hash"`
}

// PostView is the hydrated, nested projection of one post. Nesting is
// intentionally shallow: Replies and the Repost target are expanded one
// level, their own children appear as leaf lists, and anything deeper is
// fetched on demand by navigating to the child post.
type PostView struct {
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Text        *string          `json:"text"`
	RepliedToID *string          `json:"repliedToId,omitempty"`
	RepostID    *string          `json:"repostId,omitempty"`
	Repost      *PostView        `json:"repost,omitempty"`
	ID          string           `json:"id"`
	Author      UserRef          `json:"author"`
	Likes       []UserRef        `json:"likes"`
	Attachments []AttachmentView `json:"attachments"`
	Replies     []*PostView      `json:"replies"`
	Reposts     []*PostView      `json:"reposts"`
}

// Repository defines the read-side data access the assembler builds on.
// Every list of posts comes back ordered by creation time descending, and
// the batch methods group their results by the owning post.
type Repository interface {
	// ListTimeline returns top-level posts (no replies) authored by the
	// viewer or anyone the viewer follows
	ListTimeline(ctx context.Context, viewerID string) ([]posts.Post, error)

	// ListByAuthor returns a user's posts; replies are filtered out unless
	// includeReplies is set
	ListByAuthor(ctx context.Context, userID string, includeReplies bool) ([]posts.Post, error)

	// ListLikedBy returns the posts the user has liked
	ListLikedBy(ctx context.Context, userID string) ([]posts.Post, error)

	GetPost(ctx context.Context, id string) (*posts.Post, error)
	GetPosts(ctx context.Context, ids []string) (map[string]*posts.Post, error)

	// ListReplies groups direct replies by parent post ID
	ListReplies(ctx context.Context, parentIDs []string) (map[string][]posts.Post, error)

	// ListReposts groups repost wrappers by target post ID
	ListReposts(ctx context.Context, targetIDs []string) (map[string][]posts.Post, error)

	// ListLikes groups liking users by post ID, newest like first
	ListLikes(ctx context.Context, postIDs []string) (map[string][]users.User, error)

	// ListAttachments groups attachments by post ID
	ListAttachments(ctx context.Context, postIDs []string) (map[string][]posts.Attachment, error)

	GetUsers(ctx context.Context, ids []string) (map[string]*users.User, error)
}

// Service defines the feed assembly logic
type Service interface {
	// Timeline returns the viewer's reverse-chronological feed: their own
	// top-level posts plus those of everyone they follow
	Timeline(ctx context.Context, viewerID string) ([]*PostView, error)

	// Profile returns one of the three profile feed views for the user
	// resolved from identifier. An unknown user yields an empty feed.
	Profile(ctx context.Context, identifier string, view ProfileView) ([]*PostView, error)

	// Thread returns one post fully hydrated with its complete replies list
	Thread(ctx context.Context, postID string) (*PostView, error)
}

// ErrUnauthenticated is returned when a feed requiring a viewer identity
// is requested without one
var ErrUnauthenticated = errors.New("authentication required")

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
