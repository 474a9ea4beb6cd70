package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Username validation regex: letters, digits and underscores only.
// Length is checked separately so the error messages stay specific.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

const (
	minUsernameLength = 3
	maxUsernameLength = 24
)

type userService struct {
	repo Repository
}

// NewUserService creates a new social-graph service
func NewUserService(repo Repository) Service {
	return &userService{
		repo: repo,
	}
}

// EnsureUser creates or refreshes a user record after sign-in.
// The identity provider owns the name and avatar; this just mirrors them.
func (s *userService) EnsureUser(ctx context.Context, req EnsureUserRequest) (*User, error) {
	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)

	if req.ID == "" {
		return nil, NewValidationError("id", "user ID is required")
	}
	if req.Name == "" {
		return nil, NewValidationError("name", "name is required")
	}

	user := &User{
		ID:    req.ID,
		Name:  req.Name,
		Image: req.Image,
	}

	return s.repo.Upsert(ctx, user)
}

// GetUser resolves an identifier to a user. Usernames take precedence:
// profile URLs carry whichever the user displays, so a username lookup is
// tried first and the immutable ID is the fallback.
func (s *userService) GetUser(ctx context.Context, identifier string) (*User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, NewValidationError("identifier", "identifier is required")
	}

	user, err := s.repo.GetByUsername(ctx, strings.ToLower(identifier))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to resolve username %s: %w", identifier, err)
	}

	return s.repo.GetByID(ctx, identifier)
}

// GetProfile returns the resolved user with their social graph
func (s *userService) GetProfile(ctx context.Context, identifier string) (*Profile, error) {
	user, err := s.GetUser(ctx, identifier)
	if err != nil {
		return nil, err
	}

	return s.assembleProfile(ctx, user)
}

// UpdateUsername sets the actor's handle. Usernames are stored lowercase
// so lookups are case-insensitive.
func (s *userService) UpdateUsername(ctx context.Context, actorID, username string) (*User, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, fmt.Errorf("actor ID is required")
	}

	username = strings.TrimSpace(strings.ToLower(username))
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	return s.repo.UpdateUsername(ctx, actorID, username)
}

// Follow adds targetID to the front of actorID's following set.
//
// This is a check-then-act sequence: read the current following set, decide
// membership, then write. Two concurrent follows by the same actor race on
// the same rows; the store's row-level isolation is the only protection,
// which the insert's conflict handling makes safe for this operation.
func (s *userService) Follow(ctx context.Context, actorID, targetID string) (*Profile, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, fmt.Errorf("actor ID is required")
	}
	if strings.TrimSpace(targetID) == "" {
		return nil, NewValidationError("userId", "target user ID is required")
	}

	// Self-follow is a silent no-op, never an error
	if actorID == targetID {
		return s.assembleProfileByID(ctx, actorID)
	}

	// A follow of a nonexistent user is also a no-op: the edge would be
	// dangling and every feed query would have to filter it out
	if _, err := s.repo.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return s.assembleProfileByID(ctx, actorID)
		}
		return nil, fmt.Errorf("failed to look up follow target: %w", err)
	}

	following, err := s.repo.ListFollowing(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}

	for _, u := range following {
		if u.ID == targetID {
			// Already followed - succeed silently so retries after a
			// timeout don't surface spurious errors
			return s.assembleProfileByID(ctx, actorID)
		}
	}

	if err := s.repo.CreateFollow(ctx, actorID, targetID); err != nil {
		return nil, fmt.Errorf("failed to create follow: %w", err)
	}

	return s.assembleProfileByID(ctx, actorID)
}

// Unfollow removes targetID from actorID's following set, preserving the
// relative order of the remainder
func (s *userService) Unfollow(ctx context.Context, actorID, targetID string) (*Profile, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, fmt.Errorf("actor ID is required")
	}
	if strings.TrimSpace(targetID) == "" {
		return nil, NewValidationError("userId", "target user ID is required")
	}

	following, err := s.repo.ListFollowing(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}

	followed := false
	for _, u := range following {
		if u.ID == targetID {
			followed = true
			break
		}
	}

	// Not followed - silent no-op
	if !followed {
		return s.assembleProfileByID(ctx, actorID)
	}

	if err := s.repo.DeleteFollow(ctx, actorID, targetID); err != nil {
		return nil, fmt.Errorf("failed to delete follow: %w", err)
	}

	return s.assembleProfileByID(ctx, actorID)
}

func (s *userService) assembleProfileByID(ctx context.Context, id string) (*Profile, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assembleProfile(ctx, user)
}

func (s *userService) assembleProfile(ctx context.Context, user *User) (*Profile, error) {
	following, err := s.repo.ListFollowing(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}

	followers, err := s.repo.ListFollowers(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}

	return &Profile{
		User:      user,
		Following: following,
		Followers: followers,
	}, nil
}

func validateUsername(username string) error {
	if username == "" {
		return NewValidationError("username", "username is required")
	}
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return NewValidationError("username",
			fmt.Sprintf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength))
	}
	if !usernameRegex.MatchString(username) {
		return NewValidationError("username", "username may contain only letters, digits, and underscores")
	}
	return nil
}
