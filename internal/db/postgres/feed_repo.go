package postgres

import (
	"Chirp/internal/core/feeds"
	"Chirp/internal/core/posts"
	"Chirp/internal/core/users"
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// maxBatchSize caps the batch hydration queries. Feed fan-out is bounded
// by hydration depth, so hitting this indicates a caller bug.
const maxBatchSize = 1000

const postColumns = `p.id, p.author_id, p.text, p.replied_to_id, p.repost_id, p.created_at, p.updated_at`

type postgresFeedRepo struct {
	db *sql.DB
}

// NewFeedRepository creates a new PostgreSQL feed repository
func NewFeedRepository(db *sql.DB) feeds.Repository {
	return &postgresFeedRepo{db: db}
}

// ListTimeline returns top-level posts authored by the viewer or anyone
// the viewer follows, newest first.
// Replies are filtered here (replied_to_id IS NULL); they surface only by
// navigating into their parent.
func (r *postgresFeedRepo) ListTimeline(ctx context.Context, viewerID string) ([]posts.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		WHERE p.replied_to_id IS NULL
			AND (p.author_id = $1
				OR p.author_id IN (SELECT followee_id FROM follows WHERE follower_id = $1))
		ORDER BY p.created_at DESC, p.id DESC`, postColumns)

	return r.listPosts(ctx, query, viewerID)
}

// ListByAuthor returns a user's posts, optionally including replies
func (r *postgresFeedRepo) ListByAuthor(ctx context.Context, userID string, includeReplies bool) ([]posts.Post, error) {
	replyFilter := "AND p.replied_to_id IS NULL"
	if includeReplies {
		replyFilter = ""
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		WHERE p.author_id = $1
			%s
		ORDER BY p.created_at DESC, p.id DESC`, postColumns, replyFilter)

	return r.listPosts(ctx, query, userID)
}

// ListLikedBy returns the posts the user has liked, ordered by the liked
// post's creation time descending
func (r *postgresFeedRepo) ListLikedBy(ctx context.Context, userID string) ([]posts.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		INNER JOIN likes l ON l.post_id = p.id
		WHERE l.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC`, postColumns)

	return r.listPosts(ctx, query, userID)
}

// GetPost retrieves a single post
func (r *postgresFeedRepo) GetPost(ctx context.Context, id string) (*posts.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts p WHERE p.id = $1`, postColumns)
	return scanPost(r.db.QueryRowContext(ctx, query, id))
}

// GetPosts retrieves multiple posts by ID in a single query.
// Missing posts are simply absent from the result map.
func (r *postgresFeedRepo) GetPosts(ctx context.Context, ids []string) (map[string]*posts.Post, error) {
	result := make(map[string]*posts.Post)
	if len(ids) == 0 {
		return result, nil
	}
	if len(ids) > maxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(ids), maxBatchSize)
	}

	query := fmt.Sprintf(`SELECT %s FROM posts p WHERE p.id = ANY($1)`, postColumns)

	list, err := r.listPosts(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	for i := range list {
		result[list[i].ID] = &list[i]
	}
	return result, nil
}

// ListReplies groups direct replies by parent post ID, newest first
func (r *postgresFeedRepo) ListReplies(ctx context.Context, parentIDs []string) (map[string][]posts.Post, error) {
	result := make(map[string][]posts.Post)
	if len(parentIDs) == 0 {
		return result, nil
	}
	if len(parentIDs) > maxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(parentIDs), maxBatchSize)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		WHERE p.replied_to_id = ANY($1)
		ORDER BY p.replied_to_id, p.created_at DESC, p.id DESC`, postColumns)

	list, err := r.listPosts(ctx, query, pq.Array(parentIDs))
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		result[*p.RepliedToID] = append(result[*p.RepliedToID], p)
	}
	return result, nil
}

// ListReposts groups repost wrappers by target post ID, newest first
func (r *postgresFeedRepo) ListReposts(ctx context.Context, targetIDs []string) (map[string][]posts.Post, error) {
	result := make(map[string][]posts.Post)
	if len(targetIDs) == 0 {
		return result, nil
	}
	if len(targetIDs) > maxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(targetIDs), maxBatchSize)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		WHERE p.repost_id = ANY($1)
		ORDER BY p.repost_id, p.created_at DESC, p.id DESC`, postColumns)

	list, err := r.listPosts(ctx, query, pq.Array(targetIDs))
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		result[*p.RepostID] = append(result[*p.RepostID], p)
	}
	return result, nil
}

// ListLikes groups liking users by post ID, newest like first
func (r *postgresFeedRepo) ListLikes(ctx context.Context, postIDs []string) (map[string][]users.User, error) {
	result := make(map[string][]users.User)
	if len(postIDs) == 0 {
		return result, nil
	}
	if len(postIDs) > maxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(postIDs), maxBatchSize)
	}

	query := `
		SELECT l.post_id, u.id, u.name, u.username, u.image, u.created_at, u.updated_at
		FROM likes l
		INNER JOIN users u ON u.id = l.user_id
		WHERE l.post_id = ANY($1)
		ORDER BY l.post_id, l.created_at DESC, u.id DESC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID string
		var user users.User
		var username, image sql.NullString
		if err := rows.Scan(&postID, &user.ID, &user.Name, &username, &image,
			&user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		user.Username = nullStringPtr(username)
		user.Image = nullStringPtr(image)
		result[postID] = append(result[postID], user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating likes: %w", err)
	}

	return result, nil
}

// ListAttachments groups attachments by post ID
func (r *postgresFeedRepo) ListAttachments(ctx context.Context, postIDs []string) (map[string][]posts.Attachment, error) {
	result := make(map[string][]posts.Attachment)
	if len(postIDs) == 0 {
		return result, nil
	}
	if len(postIDs) > maxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(postIDs), maxBatchSize)
	}

	query := `
		SELECT id, post_id, hash
		FROM attachments
		WHERE post_id = ANY($1)
		ORDER BY post_id, id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var att posts.Attachment
		if err := rows.Scan(&att.ID, &att.PostID, &att.Hash); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		result[att.PostID] = append(result[att.PostID], att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachments: %w", err)
	}

	return result, nil
}

// GetUsers retrieves multiple users by ID in a single query.
// Missing users are not included in the result map.
func (r *postgresFeedRepo) GetUsers(ctx context.Context, ids []string) (map[string]*users.User, error) {
	result := make(map[string]*users.User)
	if len(ids) == 0 {
		return result, nil
	}
	if len(ids) > maxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(ids), maxBatchSize)
	}

	query := `SELECT id, name, username, image, created_at, updated_at FROM users WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user := &users.User{}
		var username, image sql.NullString
		if err := rows.Scan(&user.ID, &user.Name, &username, &image,
			&user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.Username = nullStringPtr(username)
		user.Image = nullStringPtr(image)
		result[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return result, nil
}

func (r *postgresFeedRepo) listPosts(ctx context.Context, query string, args ...interface{}) ([]posts.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	result := []posts.Post{}
	for rows.Next() {
		post := posts.Post{}
		var text, repliedToID, repostID sql.NullString
		if err := rows.Scan(&post.ID, &post.AuthorID, &text, &repliedToID, &repostID,
			&post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		post.Text = nullStringPtr(text)
		post.RepliedToID = nullStringPtr(repliedToID)
		post.RepostID = nullStringPtr(repostID)
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return result, nil
}
