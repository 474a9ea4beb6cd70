package postgres

import (
	"Chirp/internal/core/posts"
	"context"
	"database/sql"
	"fmt"
	"log"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// Create persists a post and its attachment rows in one transaction.
// The attachments reference storage keys whose bytes may not exist yet;
// that gap is accepted, only the rows need to commit together.
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post, attachments []posts.Attachment) (*posts.Post, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			log.Printf("Warning: failed to roll back post create: %v", err)
		}
	}()

	query := `
		INSERT INTO posts (id, author_id, text, replied_to_id, repost_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, author_id, text, replied_to_id, repost_id, created_at, updated_at`

	created, err := scanPost(tx.QueryRowContext(ctx, query,
		post.ID, post.AuthorID, post.Text, post.RepliedToID, post.RepostID))
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	for _, att := range attachments {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO attachments (id, post_id, hash) VALUES ($1, $2, $3)`,
			att.ID, att.PostID, att.Hash)
		if err != nil {
			return nil, fmt.Errorf("failed to insert attachment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit post create: %w", err)
	}

	return created, nil
}

// GetByID retrieves a post by its ID
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	query := `
		SELECT id, author_id, text, replied_to_id, repost_id, created_at, updated_at
		FROM posts
		WHERE id = $1`

	return scanPost(r.db.QueryRowContext(ctx, query, id))
}

// UpdateText replaces the post text and bumps updated_at
func (r *postgresPostRepo) UpdateText(ctx context.Context, id, text string) (*posts.Post, error) {
	query := `
		UPDATE posts
		SET text = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, author_id, text, replied_to_id, repost_id, created_at, updated_at`

	return scanPost(r.db.QueryRowContext(ctx, query, id, text))
}

// Delete removes the post. Foreign keys cascade to attachments, likes,
// dependent replies, and repost wrappers.
func (r *postgresPostRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// ListLikerIDs returns the IDs of users who like the post, newest first
func (r *postgresPostRepo) ListLikerIDs(ctx context.Context, postID string) ([]string, error) {
	query := `SELECT user_id FROM likes WHERE post_id = $1 ORDER BY created_at DESC, user_id DESC`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating likes: %w", err)
	}

	return ids, nil
}

// CreateLike inserts a like edge.
// ON CONFLICT DO NOTHING makes the service's check-then-act sequence safe
// when two requests race on the same edge.
func (r *postgresPostRepo) CreateLike(ctx context.Context, userID, postID string) error {
	query := `
		INSERT INTO likes (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("failed to insert like: %w", err)
	}
	return nil
}

// DeleteLike removes a like edge; removing a missing edge is a no-op
func (r *postgresPostRepo) DeleteLike(ctx context.Context, userID, postID string) error {
	query := `DELETE FROM likes WHERE user_id = $1 AND post_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*posts.Post, error) {
	post := &posts.Post{}
	var text, repliedToID, repostID sql.NullString

	err := row.Scan(&post.ID, &post.AuthorID, &text, &repliedToID, &repostID,
		&post.CreatedAt, &post.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, posts.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	post.Text = nullStringPtr(text)
	post.RepliedToID = nullStringPtr(repliedToID)
	post.RepostID = nullStringPtr(repostID)
	return post, nil
}
