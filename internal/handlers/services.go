package handlers

import (
	"context"

	"github.com/anonto42/pulse/backend/internal/models"
)

// The handlers depend on these service contracts; internal/services
// provides the implementations.

type ProfileService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.Profile, error)
	Authenticate(ctx context.Context, username, password string) (*models.Profile, error)
	Get(ctx context.Context, username string) (*models.Profile, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	PostsOf(ctx context.Context, viewer, username string) ([]models.Post, error)
	ToggleHeart(ctx context.Context, actor, username string) (*models.HeartToggleResult, error)
	SetVisibility(ctx context.Context, actor string, isPublic bool) (*models.Profile, error)
}

type PostService interface {
	Create(ctx context.Context, actor, text string) (*models.Post, error)
	List(ctx context.Context, order string) ([]models.Post, error)
	Mine(ctx context.Context, actor string) ([]models.Post, error)
	Get(ctx context.Context, postID string) (*models.PostDetail, error)
	Delete(ctx context.Context, actor, postID string) error
	Like(ctx context.Context, actor, postID string) (*models.Post, error)
	Unlike(ctx context.Context, actor, postID string) (*models.Post, error)
}

type CommentService interface {
	Add(ctx context.Context, actor, postID string, req models.CreateCommentRequest) (*models.PostDetail, error)
	Delete(ctx context.Context, actor, postID, commentID string) (*models.PostDetail, error)
	ToggleUpvote(ctx context.Context, actor, postID, commentID string) (*models.UpvoteResult, error)
}

type NotificationService interface {
	List(ctx context.Context, username string) ([]models.Notification, error)
	UnreadCount(ctx context.Context, username string) (int64, error)
}
