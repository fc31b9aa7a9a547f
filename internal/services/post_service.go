package services

import (
	"context"
	"log/slog"
	"sort"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/notify"
	"github.com/anonto42/pulse/backend/internal/repositories"
	apperrors "github.com/anonto42/pulse/backend/pkg/errors"
)

const (
	SortLatest  = "latest"
	SortPopular = "popular"
)

// PostService implements post creation, feeds, likes and deletion with its cascade.
type PostService struct {
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	notifications repositories.NotificationRepository
	cache         UnreadCache
	fanout        *notify.Fanout
	clock         Clock
	log           *slog.Logger
}

func NewPostService(
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	notifications repositories.NotificationRepository,
	cache UnreadCache,
	fanout *notify.Fanout,
	clock Clock,
	log *slog.Logger,
) *PostService {
	return &PostService{
		posts:         posts,
		comments:      comments,
		notifications: notifications,
		cache:         cache,
		fanout:        fanout,
		clock:         clock,
		log:           log.With("service", "post"),
	}
}

func (s *PostService) Create(ctx context.Context, actor, rawText string) (*models.Post, error) {
	text, err := cleanText(rawText, MaxPostLength, apperrors.ErrPostTooLong)
	if err != nil {
		return nil, err
	}
	post := &models.Post{
		AuthorUsername: actor,
		Text:           text,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, apperrors.Internal(err)
	}
	return post, nil
}

// List returns the public feed. The popular feed ranks the most recent posts
// by like count, newest first among equals.
func (s *PostService) List(ctx context.Context, order string) ([]models.Post, error) {
	switch order {
	case "", SortLatest:
		posts, err := s.posts.GetRecentPosts(ctx, feedLimit)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		return posts, nil
	case SortPopular:
		posts, err := s.posts.GetRecentPosts(ctx, popularPoolLimit)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].LikeCount > posts[j].LikeCount
		})
		if len(posts) > feedLimit {
			posts = posts[:feedLimit]
		}
		return posts, nil
	default:
		return nil, apperrors.InvalidArg("sort must be latest or popular")
	}
}

func (s *PostService) Mine(ctx context.Context, actor string) ([]models.Post, error) {
	posts, err := s.posts.GetPostsByAuthor(ctx, actor, profilePostLimit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return posts, nil
}

// Get returns a post with its comments and their reply tree.
func (s *PostService) Get(ctx context.Context, postID string) (*models.PostDetail, error) {
	return loadDetail(ctx, s.posts, s.comments, postID)
}

// Delete removes actor's post, then its comments and the notifications that
// refer to it. Failures after the post itself is gone are logged only.
func (s *PostService) Delete(ctx context.Context, actor, postID string) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return postErr(err)
	}
	if !CanDeletePost(actor, post) {
		return apperrors.ErrNotPostAuthor
	}
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return postErr(err)
	}

	id := post.ID.Hex()
	log := s.log.With("post_id", id)
	if err := s.comments.DeleteCommentsByPostID(ctx, id); err != nil {
		log.Error("delete comments of deleted post", "error", err)
	}
	recipients, err := s.notifications.DeleteByPostID(ctx, id)
	if err != nil {
		log.Error("delete notifications of deleted post", "error", err)
	}
	if s.cache != nil && len(recipients) > 0 {
		if err := s.cache.InvalidateUnread(ctx, recipients...); err != nil {
			log.Warn("invalidate unread counts", "error", err)
		}
	}
	log.Info("post deleted", "author", actor)
	return nil
}

// Like adds actor's like. Liking an already liked post returns it unchanged
// and notifies nobody.
func (s *PostService) Like(ctx context.Context, actor, postID string) (*models.Post, error) {
	post, added, err := s.posts.AddLike(ctx, postID, actor, s.clock.Now())
	if err != nil {
		return nil, postErr(err)
	}
	if added {
		s.fanout.Publish(ctx, notify.LikeEvent{Actor: actor, Post: post})
	}
	return post, nil
}

// Unlike removes actor's like if present.
func (s *PostService) Unlike(ctx context.Context, actor, postID string) (*models.Post, error) {
	post, err := s.posts.RemoveLike(ctx, postID, actor)
	if err != nil {
		return nil, postErr(err)
	}
	return post, nil
}
