// Package services holds the application rules between the HTTP handlers and
// the stores: input validation, ownership checks, count bookkeeping and the
// notification side effects of each action.
package services

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/anonto42/pulse/backend/internal/commenttree"
	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/repositories"
	"github.com/anonto42/pulse/backend/internal/sanitize"
	apperrors "github.com/anonto42/pulse/backend/pkg/errors"
)

const (
	MaxPostLength    = 280
	MaxCommentLength = 500

	feedLimit        = 50
	popularPoolLimit = 200
	profilePostLimit = 100
	inboxLimit       = 50
)

// Clock abstracts time.Now for deterministic tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// UnreadCache caches per-user unread notification counts. A nil UnreadCache
// disables caching. A fill starts with ReserveUnread before the store is read;
// SetUnread drops the count if the user was invalidated in the meantime.
type UnreadCache interface {
	GetUnread(ctx context.Context, username string) (int64, bool, error)
	ReserveUnread(ctx context.Context, username string) (string, error)
	SetUnread(ctx context.Context, username, token string, count int64) (bool, error)
	InvalidateUnread(ctx context.Context, usernames ...string) error
}

// cleanText strips markup from user text and enforces the length limit in characters.
func cleanText(raw string, limit int, tooLong error) (string, error) {
	text := sanitize.Text(raw)
	if text == "" {
		return "", apperrors.ErrTextRequired
	}
	if utf8.RuneCountInString(text) > limit {
		return "", tooLong
	}
	return text, nil
}

// postErr translates a post store error.
func postErr(err error) error {
	switch {
	case errors.Is(err, repositories.ErrInvalidID):
		return apperrors.ErrInvalidPostID
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.ErrPostNotFound
	default:
		return apperrors.Internal(err)
	}
}

// loadDetail reads a post with its comments, flat and threaded.
func loadDetail(ctx context.Context, posts repositories.PostRepository, comments repositories.CommentRepository, postID string) (*models.PostDetail, error) {
	post, err := posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, postErr(err)
	}
	list, err := comments.GetCommentsByPostID(ctx, post.ID.Hex())
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &models.PostDetail{
		Post:     post,
		Comments: list,
		Thread:   commenttree.Build(list),
	}, nil
}
