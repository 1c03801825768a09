package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	authz "github.com/yigit/studbuds/internal/app/auth"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
	"github.com/yigit/studbuds/internal/pkg/websocket"
)

// PostService defines class chat feed operations
type PostService interface {
	CreatePost(ctx context.Context, userID, classID string, req dto.CreatePostRequest) (*dto.PostResponse, error)
	// ListPosts returns the newest posts in chronological order
	ListPosts(ctx context.Context, userID, classID string, query dto.ListPostsQuery) ([]dto.PostResponse, error)
	GetPost(ctx context.Context, postID string) (*dto.PostResponse, error)
	EditPost(ctx context.Context, userID, postID string, req dto.UpdatePostRequest) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, userID, postID string) (*dto.PostResponse, error)
}

// postServiceImpl implements PostService
type postServiceImpl struct {
	repos    *repositories.Repositories
	authz    *authz.AuthorizationService
	notifier Notifier
	now      Clock
	logger   zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	repos *repositories.Repositories,
	authzService *authz.AuthorizationService,
	notifier Notifier,
	now Clock,
	logger zerolog.Logger,
) PostService {
	return &postServiceImpl{repos: repos, authz: authzService, notifier: notifier, now: now, logger: logger}
}

func validatePostContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperrors.NewValidationError("Post content is required")
	}
	if charLen(content) > models.MaxPostLength {
		return "", apperrors.NewValidationError("Post cannot exceed 1000 characters")
	}
	return content, nil
}

func (s *postServiceImpl) respond(ctx context.Context, post *models.Post) (*dto.PostResponse, error) {
	lookup, err := loadUsers(ctx, s.repos.Users, post.AuthorID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPostResponse(post, lookup.get(post.AuthorID))
	return &resp, nil
}

// CreatePost requires class membership and broadcasts the new post to the class room
func (s *postServiceImpl) CreatePost(ctx context.Context, userID, classID string, req dto.CreatePostRequest) (*dto.PostResponse, error) {
	content, err := validatePostContent(req.Content)
	if err != nil {
		return nil, err
	}
	postType := req.Type
	if postType == "" {
		postType = models.PostTypeChat
	}
	if !postType.Valid() {
		return nil, apperrors.NewValidationError("Invalid post type")
	}
	if err := s.authz.RequireClassMember(ctx, classID, userID); err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:        newID(),
		ClassID:   classID,
		AuthorID:  userID,
		Content:   content,
		Type:      postType,
		CreatedAt: s.now(),
	}
	if err := s.repos.Posts.Create(ctx, post); err != nil {
		return nil, err
	}

	resp, err := s.respond(ctx, post)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(websocket.ClassRoom(classID), websocket.EventPostCreated, resp)
	return resp, nil
}

func (s *postServiceImpl) ListPosts(ctx context.Context, userID, classID string, query dto.ListPostsQuery) ([]dto.PostResponse, error) {
	if query.Type != "" && !query.Type.Valid() {
		return nil, apperrors.NewValidationError("Invalid post type")
	}
	if err := s.authz.RequireClassMember(ctx, classID, userID); err != nil {
		return nil, err
	}

	posts, err := s.repos.Posts.ListByClass(ctx, repositories.PostFilter{
		ClassID: classID,
		Type:    query.Type,
		Limit:   clampLimit(query.Limit),
	})
	if err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.AuthorID)
	}
	lookup, err := loadUsers(ctx, s.repos.Users, authorIDs...)
	if err != nil {
		return nil, err
	}

	// Fetched newest first; the feed reads oldest first
	out := make([]dto.PostResponse, len(posts))
	for i, p := range posts {
		out[len(posts)-1-i] = dto.NewPostResponse(p, lookup.get(p.AuthorID))
	}
	return out, nil
}

// GetPost also returns soft-deleted posts
func (s *postServiceImpl) GetPost(ctx context.Context, postID string) (*dto.PostResponse, error) {
	post, err := s.repos.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, post)
}

func (s *postServiceImpl) EditPost(ctx context.Context, userID, postID string, req dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.repos.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwner(post.AuthorID, userID, authz.ErrNotPostAuthor); err != nil {
		return nil, err
	}
	if post.IsDeleted() {
		return nil, apperrors.NewValidationError("Cannot edit a deleted post")
	}
	content, err := validatePostContent(req.Content)
	if err != nil {
		return nil, err
	}

	editedAt := s.now()
	post.Content = content
	post.EditedAt = &editedAt
	if err := s.repos.Posts.Update(ctx, post); err != nil {
		return nil, err
	}

	resp, err := s.respond(ctx, post)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(websocket.ClassRoom(post.ClassID), websocket.EventPostUpdated, resp)
	return resp, nil
}

// DeletePost soft-deletes: the record stays with placeholder content. Deleting twice is a no-op.
func (s *postServiceImpl) DeletePost(ctx context.Context, userID, postID string) (*dto.PostResponse, error) {
	post, err := s.repos.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwner(post.AuthorID, userID, authz.ErrNotPostAuthor); err != nil {
		return nil, err
	}
	if post.IsDeleted() {
		return s.respond(ctx, post)
	}

	deletedAt := s.now()
	post.Content = models.DeletedPostContent
	post.DeletedAt = &deletedAt
	if err := s.repos.Posts.Update(ctx, post); err != nil {
		return nil, err
	}

	resp, err := s.respond(ctx, post)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(websocket.ClassRoom(post.ClassID), websocket.EventPostDeleted, resp)
	return resp, nil
}
