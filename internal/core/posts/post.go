package posts

import (
	"time"

	"Chirp/internal/core/storage"
)

// Post is a row in the posts table.
//
// Exactly one of two shapes is valid:
//   - an original post or reply: Text is set, RepostID is nil
//   - a repost wrapper: Text is nil, RepostID points at the reposted post
//
// A post with nil Text and nil RepostID is an error state and is rejected
// at both the service and schema level.
type Post struct {
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
	Text        *string   `json:"text" db:"text"`
	RepliedToID *string   `json:"repliedToId,omitempty" db:"replied_to_id"`
	RepostID    *string   `json:"repostId,omitempty" db:"repost_id"`
	ID          string    `json:"id" db:"id"`
	AuthorID    string    `json:"authorId" db:"author_id"`
}

// IsRepost reports whether this post is a pure repost wrapper
func (p *Post) IsRepost() bool {
	return p.Text == nil && p.RepostID != nil
}

// Attachment links a post to an object-storage key. The key is the durable
// handle; whether the bytes behind it exist yet is the uploader's problem.
type Attachment struct {
	ID     string `json:"id" db:"id"`
	PostID string `json:"postId" db:"post_id"`
	Hash   string `json:"hash" db:"hash"`
}

// FileDescriptor describes one attachment the client intends to upload
type FileDescriptor struct {
	Name        string `json:"name"`
	ContentType string `json:"type"`
}

// CreatePostRequest is the input for creating a new top-level post
type CreatePostRequest struct {
	AuthorID string           `json:"-"`
	Text     string           `json:"text"`
	Files    []FileDescriptor `json:"files"`
}

// CreatePostResponse pairs the created post with the upload grants the
// caller needs to push the attachment binaries out of band
type CreatePostResponse struct {
	Post    *Post                  `json:"post"`
	Uploads []*storage.UploadGrant `json:"uploads"`
}
