package feeds

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Chirp/internal/core/posts"
	"Chirp/internal/core/users"
)

// maxHydrationDepth bounds the nested projection. Depth 2 gives the shapes
// the UI renders: replies with their own repost targets, repost targets
// with leaf reply/repost lists. The cap doubles as a cycle guard - a post
// that is pathologically its own ancestor terminates here instead of
// recursing forever.
const maxHydrationDepth = 2

type feedService struct {
	repo  Repository
	users users.Service
}

// NewFeedService creates a new feed assembler
func NewFeedService(repo Repository, userService users.Service) Service {
	return &feedService{
		repo:  repo,
		users: userService,
	}
}

// Timeline returns the viewer's feed: own posts plus followed users' posts,
// top-level only, newest first
func (s *feedService) Timeline(ctx context.Context, viewerID string) ([]*PostView, error) {
	if strings.TrimSpace(viewerID) == "" {
		return nil, ErrUnauthenticated
	}

	flat, err := s.repo.ListTimeline(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline: %w", err)
	}

	return s.hydrate(ctx, flat, maxHydrationDepth)
}

// Profile returns one of the three profile feed views.
// An unknown identifier yields an empty feed rather than an error: profile
// pages for missing users render empty, they don't fault.
func (s *feedService) Profile(ctx context.Context, identifier string, view ProfileView) ([]*PostView, error) {
	if view == "" {
		view = ViewPosts
	}
	switch view {
	case ViewPosts, ViewPostsAndReplies, ViewLikes:
	default:
		return nil, NewValidationError("view", "view must be one of: posts, replies, likes")
	}

	user, err := s.users.GetUser(ctx, identifier)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return []*PostView{}, nil
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	var flat []posts.Post
	switch view {
	case ViewPosts:
		flat, err = s.repo.ListByAuthor(ctx, user.ID, false)
	case ViewPostsAndReplies:
		flat, err = s.repo.ListByAuthor(ctx, user.ID, true)
	case ViewLikes:
		flat, err = s.repo.ListLikedBy(ctx, user.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list profile feed: %w", err)
	}

	return s.hydrate(ctx, flat, maxHydrationDepth)
}

// Thread returns one post fully hydrated plus its complete replies list
func (s *feedService) Thread(ctx context.Context, postID string) (*PostView, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, NewValidationError("postId", "post ID is required")
	}

	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	views, err := s.hydrate(ctx, []posts.Post{*post}, maxHydrationDepth)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// hydrate projects flat post rows into nested views.
//
// All lookups are batched per level: one users query, one likes query, one
// attachments query, then (while depth remains) one replies query, one
// reposts query, and one fetch of repost targets. Children of every post at
// this level are flattened, hydrated in a single recursive call, and
// regrouped, so the query count is bounded by the depth, not the fan-out.
func (s *feedService) hydrate(ctx context.Context, flat []posts.Post, depth int) ([]*PostView, error) {
	if len(flat) == 0 {
		return []*PostView{}, nil
	}

	ids := make([]string, 0, len(flat))
	authorSet := make(map[string]struct{})
	authorIDs := make([]string, 0, len(flat))
	for _, p := range flat {
		ids = append(ids, p.ID)
		if _, seen := authorSet[p.AuthorID]; !seen {
			authorSet[p.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}

	authors, err := s.repo.GetUsers(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load authors: %w", err)
	}
	likes, err := s.repo.ListLikes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}
	attachments, err := s.repo.ListAttachments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load attachments: %w", err)
	}

	views := make([]*PostView, len(flat))
	for i, p := range flat {
		view := &PostView{
			ID:          p.ID,
			Text:        p.Text,
			RepliedToID: p.RepliedToID,
			RepostID:    p.RepostID,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
			Likes:       []UserRef{},
			Attachments: []AttachmentView{},
			Replies:     []*PostView{},
			Reposts:     []*PostView{},
		}
		if author, ok := authors[p.AuthorID]; ok {
			view.Author = userRef(*author)
		} else {
			view.Author = UserRef{ID: p.AuthorID}
		}
		for _, liker := range likes[p.ID] {
			view.Likes = append(view.Likes, userRef(liker))
		}
		for _, att := range attachments[p.ID] {
			view.Attachments = append(view.Attachments, AttachmentView{ID: att.ID, Hash: att.Hash})
		}
		views[i] = view
	}

	if depth <= 0 {
		return views, nil
	}

	replies, err := s.repo.ListReplies(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}
	reposts, err := s.repo.ListReposts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load reposts: %w", err)
	}

	var targetIDs []string
	for _, p := range flat {
		if p.RepostID != nil {
			targetIDs = append(targetIDs, *p.RepostID)
		}
	}
	var targets map[string]*posts.Post
	if len(targetIDs) > 0 {
		targets, err = s.repo.GetPosts(ctx, targetIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load repost targets: %w", err)
		}
	}

	// Flatten every child of this level, hydrate them together, regroup
	var childPosts []posts.Post
	for _, id := range ids {
		childPosts = append(childPosts, replies[id]...)
		childPosts = append(childPosts, reposts[id]...)
	}
	for _, id := range targetIDs {
		if target, ok := targets[id]; ok {
			childPosts = append(childPosts, *target)
		}
	}

	childViews, err := s.hydrate(ctx, dedupePosts(childPosts), depth-1)
	if err != nil {
		return nil, err
	}
	childByID := make(map[string]*PostView, len(childViews))
	for _, cv := range childViews {
		childByID[cv.ID] = cv
	}

	for i, p := range flat {
		view := views[i]
		for _, reply := range replies[p.ID] {
			if cv, ok := childByID[reply.ID]; ok {
				view.Replies = append(view.Replies, cv)
			}
		}
		for _, wrapper := range reposts[p.ID] {
			if cv, ok := childByID[wrapper.ID]; ok {
				view.Reposts = append(view.Reposts, cv)
			}
		}
		if p.RepostID != nil {
			if cv, ok := childByID[*p.RepostID]; ok {
				view.Repost = cv
			}
		}
	}

	return views, nil
}

// dedupePosts drops duplicate rows while preserving first-seen order.
// A post can be both a reply to one parent and the repost target of
// another; hydrating it twice would waste queries and split its view.
func dedupePosts(flat []posts.Post) []posts.Post {
	seen := make(map[string]struct{}, len(flat))
	out := make([]posts.Post, 0, len(flat))
	for _, p := range flat {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

func userRef(u users.User) UserRef {
	return UserRef{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Image:    u.Image,
	}
}
