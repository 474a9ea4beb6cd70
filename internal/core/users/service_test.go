package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Upsert(ctx context.Context, user *User) (*User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) UpdateUsername(ctx context.Context, id, username string) (*User, error) {
	args := m.Called(ctx, id, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) ListFollowing(ctx context.Context, userID string) ([]User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockRepository) ListFollowers(ctx context.Context, userID string) ([]User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockRepository) CreateFollow(ctx context.Context, followerID, followeeID string) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *MockRepository) DeleteFollow(ctx context.Context, followerID, followeeID string) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func testUser(id string) *User {
	return &User{
		ID:        id,
		Name:      "User " + id,
		CreatedAt: time.Now(),
	}
}

func TestFollow_AddsTargetToFollowing(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewUserService(mockRepo)

	actor := testUser("u2")
	target := testUser("u1")

	mockRepo.On("GetByID", mock.Anything, "u1").Return(target, nil)
	mockRepo.On("ListFollowing", mock.Anything, "u2").Return([]User{}, nil).Once()
	mockRepo.On("CreateFollow", mock.Anything, "u2", "u1").Return(nil).Once()

	// Profile assembly after the write sees the new edge at the front
	mockRepo.On("GetByID", mock.Anything, "u2").Return(actor, nil)
	mockRepo.On("ListFollowing", mock.Anything, "u2").Return([]User{*target}, nil)
	mockRepo.On("ListFollowers", mock.Anything, "u2").Return([]User{}, nil)

	profile, err := service.Follow(context.Background(), "u2", "u1")
	require.NoError(t, err)
	require.Len(t, profile.Following, 1)
	assert.Equal(t, "u1", profile.Following[0].ID)

	mockRepo.AssertExpectations(t)
}

func TestFollow_AlreadyFollowedIsNoOp(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewUserService(mockRepo)

	actor := testUser("u2")
	target := testUser("u1")

	mockRepo.On("GetByID", mock.Anything, "u1").Return(target, nil)
	mockRepo.On("ListFollowing", mock.Anything, "u2").Return([]User{*target}, nil)
	mockRepo.On("GetByID", mock.Anything, "u2").Return(actor, nil)
	mockRepo.On("ListFollowers", mock.Anything, "u2").Return([]User{}, nil)

	profile, err := service.Follow(context.Background(), "u2", "u1")
	require.NoError(t, err)
	require.Len(t, profile.Following, 1)

	// The write never happened
	mockRepo.AssertNotCalled(t, "CreateFollow", mock.Anything, mock.Anything, mock.Anything)
}

func TestFollow_SelfIsSilentNoOp(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewUserService(mockRepo)

	actor := testUser("u1")

	mockRepo.On("GetByID", mock.Anything, "u1").Return(actor, nil)
	mockRepo.On("ListFollowing", mock.Anything, "u1").Return([]User{}, nil)
	mockRepo.On("ListFollowers", mock.Anything, "u1").Return([]User{}, nil)

	profile, err := service.Follow(context.Background(), "u1", "u1")
	require.NoError(t, err)
	assert.Empty(t, profile.Following)

	mockRepo.AssertNotCalled(t, "CreateFollow", mock.Anything, mock.Anything, mock.Anything)
}

func TestFollow_MissingTargetIsSilentNoOp(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewUserService(mockRepo)

	actor := testUser("u2")

	mockRepo.On("GetByID", mock.Anything, "ghost").Return(nil, ErrUserNotFound)
	mockRepo.On("GetByID", mock.Anything, "u2").Return(actor, nil)
	mockRepo.On("ListFollowing", mock.Anything, "u2").Return([]User{}, nil)
	mockRepo.On("ListFollowers", mock.Anything, "u2").Return([]User{}, nil)

	_, err := service.Follow(context.Background(), "u2", "ghost")
	require.NoError(t, err)

	mockRepo.AssertNotCalled(t, "CreateFollow", mock.Anything, mock.Anything, mock.Anything)
}

func TestUnfollow_RemovesTarget(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewUserService(mockRepo)

	actor := testUser("u2")
	target := testUser("u1")

	mockRepo.On("ListFollowing", mock.Anything, "u2").Return([]User{*target}, nil).Once()
	mockRepo.On("DeleteFollow", mock.Anything, "u2", "u1").Return(nil).Once()
	mockRepo.On("GetByID", mock.Anything, "u2").Return(actor, nil)
	mockRepo.On("ListFollowing", mock.Anything, "u2").Return([]User{}, nil)
	mockRepo.On("ListFollowers", mock.Anything, "u2").Return([]User{}, nil)

	profile, err := service.Unfollow(context.Background(), "u2", "u1")
	require.NoError(t, err)
	assert.Empty(t, profile.Following)

	mockRepo.AssertExpectations(t)
}

func TestUnfollow_NotFollowedIsSilentNoOp(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewUserService(mockRepo)

	actor := testUser("u2")

	mockRepo.On("ListFollowing", mock.Anything, "u2").Return([]User{}, nil)
	mockRepo.On("GetByID", mock.Anything, "u2").Return(actor, nil)
	mockRepo.On("ListFollowers", mock.Anything, "u2").Return([]User{}, nil)

	_, err := service.Unfollow(context.Background(), "u2", "u1")
	require.NoError(t, err)

	mockRepo.AssertNotCalled(t, "DeleteFollow", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetUser_UsernameTakesPrecedence(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewUserService(mockRepo)

	username := "alice"
	byUsername := &User{ID: "u1", Name: "Alice", Username: &username}

	mockRepo.On("GetByUsername", mock.Anything, "alice").Return(byUsername, nil)

	user, err := service.GetUser(context.Background(), "Alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetUser_FallsBackToID(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewUserService(mockRepo)

	byID := testUser("u1")

	mockRepo.On("GetByUsername", mock.Anything, "u1").Return(nil, ErrUserNotFound)
	mockRepo.On("GetByID", mock.Anything, "u1").Return(byID, nil)

	user, err := service.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestUpdateUsername_Validation(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewUserService(mockRepo)

	cases := []struct {
		name     string
		username string
	}{
		{"empty", ""},
		{"too short", "ab"},
		{"too long", "a_very_long_username_over_24_chars"},
		{"bad characters", "al ice!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.UpdateUsername(context.Background(), "u1", tc.username)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
		})
	}

	mockRepo.AssertNotCalled(t, "UpdateUsername", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateUsername_Lowercases(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewUserService(mockRepo)

	username := "alice_b"
	updated := &User{ID: "u1", Name: "Alice", Username: &username}

	mockRepo.On("UpdateUsername", mock.Anything, "u1", "alice_b").Return(updated, nil)

	user, err := service.UpdateUsername(context.Background(), "u1", "Alice_B")
	require.NoError(t, err)
	require.NotNil(t, user.Username)
	assert.Equal(t, "alice_b", *user.Username)

	mockRepo.AssertExpectations(t)
}

func TestEnsureUser_RequiresIDAndName(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewUserService(mockRepo)

	_, err := service.EnsureUser(context.Background(), EnsureUserRequest{Name: "Alice"})
	assert.True(t, IsValidationError(err))

	_, err = service.EnsureUser(context.Background(), EnsureUserRequest{ID: "u1"})
	assert.True(t, IsValidationError(err))
}
