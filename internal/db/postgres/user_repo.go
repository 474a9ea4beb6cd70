package postgres

import (
	"Chirp/internal/core/users"
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.Repository {
	return &postgresUserRepo{db: db}
}

// Upsert inserts a user or refreshes the provider-owned fields.
// The username is deliberately not touched here: it is user-edited state,
// not something the identity provider may overwrite on sign-in.
func (r *postgresUserRepo) Upsert(ctx context.Context, user *users.User) (*users.User, error) {
	query := `
		INSERT INTO users (id, name, image)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, image = EXCLUDED.image, updated_at = NOW()
		RETURNING id, name, username, image, created_at, updated_at`

	var username, image sql.NullString
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Name, user.Image).
		Scan(&user.ID, &user.Name, &username, &image, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	user.Username = nullStringPtr(username)
	user.Image = nullStringPtr(image)
	return user, nil
}

// GetByID retrieves a user by their immutable ID
func (r *postgresUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	query := `SELECT id, name, username, image, created_at, updated_at FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a user by their handle
func (r *postgresUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	query := `SELECT id, name, username, image, created_at, updated_at FROM users WHERE username = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

// UpdateUsername sets the handle for a user with the given ID
func (r *postgresUserRepo) UpdateUsername(ctx context.Context, id, newUsername string) (*users.User, error) {
	query := `
		UPDATE users
		SET username = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, username, image, created_at, updated_at`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, id, newUsername))
	if err != nil {
		// Unique constraint violation means another user holds the handle
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "users_username_key") {
			return nil, users.ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// ListFollowing returns the users the given user follows, newest edge first.
// The edge timestamp ordering realizes the "most recent follow at the
// front" contract without storing explicit positions.
func (r *postgresUserRepo) ListFollowing(ctx context.Context, userID string) ([]users.User, error) {
	query := `
		SELECT u.id, u.name, u.username, u.image, u.created_at, u.updated_at
		FROM follows f
		INNER JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC, u.id DESC`

	return r.listUsers(ctx, query, userID)
}

// ListFollowers returns the users following the given user, newest edge first
func (r *postgresUserRepo) ListFollowers(ctx context.Context, userID string) ([]users.User, error) {
	query := `
		SELECT u.id, u.name, u.username, u.image, u.created_at, u.updated_at
		FROM follows f
		INNER JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1
		ORDER BY f.created_at DESC, u.id DESC`

	return r.listUsers(ctx, query, userID)
}

// CreateFollow inserts a follow edge.
// ON CONFLICT DO NOTHING keeps the original edge timestamp, so an
// idempotent re-follow never reorders the following list.
func (r *postgresUserRepo) CreateFollow(ctx context.Context, followerID, followeeID string) error {
	query := `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, followerID, followeeID); err != nil {
		return fmt.Errorf("failed to insert follow: %w", err)
	}
	return nil
}

// DeleteFollow removes a follow edge; removing a missing edge is a no-op
func (r *postgresUserRepo) DeleteFollow(ctx context.Context, followerID, followeeID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`

	if _, err := r.db.ExecContext(ctx, query, followerID, followeeID); err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return nil
}

func (r *postgresUserRepo) listUsers(ctx context.Context, query string, args ...interface{}) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	result := []users.User{}
	for rows.Next() {
		var user users.User
		var username, image sql.NullString
		if err := rows.Scan(&user.ID, &user.Name, &username, &image, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.Username = nullStringPtr(username)
		user.Image = nullStringPtr(image)
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return result, nil
}

func (r *postgresUserRepo) scanUser(row *sql.Row) (*users.User, error) {
	user := &users.User{}
	var username, image sql.NullString

	err := row.Scan(&user.ID, &user.Name, &username, &image, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Username = nullStringPtr(username)
	user.Image = nullStringPtr(image)
	return user, nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
