package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"Chirp/internal/core/storage"
)

const (
	maxTextLength  = 1000
	maxAttachments = 4
)

type postService struct {
	repo    Repository
	storage storage.Client
}

// NewPostService creates a new post service.
// storageClient may be nil when attachment uploads are not configured;
// Create then rejects requests that declare files.
func NewPostService(repo Repository, storageClient storage.Client) Service {
	return &postService{
		repo:    repo,
		storage: storageClient,
	}
}

// Create makes a top-level post with optional attachments.
// Flow:
//  1. Validate text and file descriptors
//  2. Allocate a storage key and presigned upload grant per file
//  3. Persist the post and attachment rows atomically
//  4. Return the post plus grants; the binary upload is the caller's job
func (s *postService) Create(ctx context.Context, req CreatePostRequest) (*CreatePostResponse, error) {
	if strings.TrimSpace(req.AuthorID) == "" {
		return nil, fmt.Errorf("author ID is required")
	}
	if err := validateText(req.Text); err != nil {
		return nil, err
	}
	if len(req.Files) > maxAttachments {
		return nil, NewValidationError("files",
			fmt.Sprintf("at most %d attachments per post", maxAttachments))
	}
	if len(req.Files) > 0 && s.storage == nil {
		return nil, NewValidationError("files", "attachment uploads are not enabled")
	}

	post := &Post{
		ID:       uuid.NewString(),
		AuthorID: req.AuthorID,
		Text:     &req.Text,
	}

	grants := make([]*storage.UploadGrant, 0, len(req.Files))
	attachments := make([]Attachment, 0, len(req.Files))
	for _, file := range req.Files {
		if file.ContentType == "" {
			return nil, NewValidationError("files", "attachment content type is required")
		}

		key := uuid.NewString()
		grant, err := s.storage.GrantUpload(ctx, key, file.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to grant upload for %s: %w", file.Name, err)
		}

		grants = append(grants, grant)
		attachments = append(attachments, Attachment{
			ID:     uuid.NewString(),
			PostID: post.ID,
			Hash:   key,
		})
	}

	created, err := s.repo.Create(ctx, post, attachments)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return &CreatePostResponse{
		Post:    created,
		Uploads: grants,
	}, nil
}

// Reply creates a post linked to its parent via RepliedToID
func (s *postService) Reply(ctx context.Context, authorID, repliedToID, text string) (*Post, error) {
	if strings.TrimSpace(authorID) == "" {
		return nil, fmt.Errorf("author ID is required")
	}
	if strings.TrimSpace(repliedToID) == "" {
		return nil, NewValidationError("repliedToId", "parent post ID is required")
	}
	if err := validateText(text); err != nil {
		return nil, err
	}

	// Replying into the void makes an unreachable post; reject it
	if _, err := s.repo.GetByID(ctx, repliedToID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to look up parent post: %w", err)
	}

	post := &Post{
		ID:          uuid.NewString(),
		AuthorID:    authorID,
		Text:        &text,
		RepliedToID: &repliedToID,
	}

	created, err := s.repo.Create(ctx, post, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}
	return created, nil
}

// Repost creates a textless wrapper referencing the target post
func (s *postService) Repost(ctx context.Context, authorID, repostID string) (*Post, error) {
	if strings.TrimSpace(authorID) == "" {
		return nil, fmt.Errorf("author ID is required")
	}
	if strings.TrimSpace(repostID) == "" {
		return nil, NewValidationError("repostId", "repost target ID is required")
	}

	if _, err := s.repo.GetByID(ctx, repostID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to look up repost target: %w", err)
	}

	post := &Post{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		RepostID: &repostID,
	}

	created, err := s.repo.Create(ctx, post, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create repost: %w", err)
	}
	return created, nil
}

// Edit replaces the post text after verifying authorship.
// Authorization runs before text validation so a non-author always sees
// ErrNotAuthorized, whatever they submitted.
func (s *postService) Edit(ctx context.Context, actorID, postID, newText string) (*Post, error) {
	if err := s.authorizeAuthor(ctx, actorID, postID); err != nil {
		return nil, err
	}

	if err := validateText(newText); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateText(ctx, postID, newText)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return updated, nil
}

// Delete removes the post after verifying authorship
func (s *postService) Delete(ctx context.Context, actorID, postID string) error {
	if err := s.authorizeAuthor(ctx, actorID, postID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// Like adds the actor to the post's likes set.
// Read-check-write: fetch the current set, decide membership, then insert.
// The insert tolerates a lost race (duplicate edges collapse in the store).
func (s *postService) Like(ctx context.Context, actorID, postID string) error {
	if strings.TrimSpace(actorID) == "" {
		return fmt.Errorf("actor ID is required")
	}

	liked, missing, err := s.likeState(ctx, actorID, postID)
	if err != nil {
		return err
	}
	// Missing post or already liked: succeed silently so retries after a
	// timeout stay cheap for the caller
	if missing || liked {
		return nil
	}

	if err := s.repo.CreateLike(ctx, actorID, postID); err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// Unlike removes the actor from the post's likes set
func (s *postService) Unlike(ctx context.Context, actorID, postID string) error {
	if strings.TrimSpace(actorID) == "" {
		return fmt.Errorf("actor ID is required")
	}

	liked, missing, err := s.likeState(ctx, actorID, postID)
	if err != nil {
		return err
	}
	if missing || !liked {
		return nil
	}

	if err := s.repo.DeleteLike(ctx, actorID, postID); err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

// likeState reports whether the actor currently likes the post and whether
// the post is missing entirely
func (s *postService) likeState(ctx context.Context, actorID, postID string) (liked, missing bool, err error) {
	if _, err := s.repo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return false, true, nil
		}
		return false, false, fmt.Errorf("failed to look up post: %w", err)
	}

	likerIDs, err := s.repo.ListLikerIDs(ctx, postID)
	if err != nil {
		return false, false, fmt.Errorf("failed to list likes: %w", err)
	}

	for _, id := range likerIDs {
		if id == actorID {
			return true, false, nil
		}
	}
	return false, false, nil
}

// authorizeAuthor verifies the actor owns the post. A missing post reports
// ErrNotAuthorized, not ErrPostNotFound - see the comment on the sentinel.
func (s *postService) authorizeAuthor(ctx context.Context, actorID, postID string) error {
	if strings.TrimSpace(actorID) == "" {
		return fmt.Errorf("actor ID is required")
	}
	if strings.TrimSpace(postID) == "" {
		return NewValidationError("postId", "post ID is required")
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return ErrNotAuthorized
		}
		return fmt.Errorf("failed to look up post: %w", err)
	}

	if post.AuthorID != actorID {
		return ErrNotAuthorized
	}
	return nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return NewValidationError("text", "text must not be empty")
	}
	if len(text) > maxTextLength {
		return NewValidationError("text",
			fmt.Sprintf("text must not exceed %d characters", maxTextLength))
	}
	return nil
}
