package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/notify"
	"github.com/anonto42/pulse/backend/internal/repositories"
	apperrors "github.com/anonto42/pulse/backend/pkg/errors"
	"github.com/google/uuid"
)

// CommentService implements comments, replies and upvotes, keeping the
// post's comment count in step.
type CommentService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	fanout   *notify.Fanout
	clock    Clock
	log      *slog.Logger
}

func NewCommentService(
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	fanout *notify.Fanout,
	clock Clock,
	log *slog.Logger,
) *CommentService {
	return &CommentService{
		posts:    posts,
		comments: comments,
		fanout:   fanout,
		clock:    clock,
		log:      log.With("service", "comment"),
	}
}

// Add stores a comment, or a reply when req.ParentID is set, and returns the
// post as it stands afterwards.
func (s *CommentService) Add(ctx context.Context, actor, postID string, req models.CreateCommentRequest) (*models.PostDetail, error) {
	text, err := cleanText(req.Text, MaxCommentLength, apperrors.ErrCommentTooLong)
	if err != nil {
		return nil, err
	}
	var parentID string
	if req.ParentID != nil {
		parentID = strings.TrimSpace(*req.ParentID)
	}
	if parentID != "" && !validCommentID(parentID) {
		return nil, apperrors.ErrParentNotInPost
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, postErr(err)
	}

	var parent *models.Comment
	if parentID != "" {
		parent, err = s.comments.GetCommentByID(ctx, parentID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrParentNotInPost
		}
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if parent.PostID != post.ID.Hex() {
			return nil, apperrors.ErrParentNotInPost
		}
	}

	comment := &models.Comment{
		PostID:         post.ID.Hex(),
		AuthorUsername: actor,
		Text:           text,
		CreatedAt:      s.clock.Now(),
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, apperrors.Internal(err)
	}

	log := s.log.With("post_id", comment.PostID, "comment_id", comment.ID)
	if err := s.posts.IncrementCommentCount(ctx, comment.PostID); err != nil {
		log.Error("increment comment count", "error", err)
	}

	if parent == nil {
		s.fanout.Publish(ctx, notify.CommentEvent{Actor: actor, Post: post, Text: text})
	} else {
		s.fanout.Publish(ctx, notify.ReplyEvent{Actor: actor, Post: post, Text: text, Parent: parent})
	}

	return loadDetail(ctx, s.posts, s.comments, comment.PostID)
}

// Delete removes a comment and its direct replies. The post's comment count
// drops by one regardless of how many replies went with it.
func (s *CommentService) Delete(ctx context.Context, actor, postID, commentID string) (*models.PostDetail, error) {
	post, comment, err := s.lookup(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if !CanDeleteComment(actor, post, comment) {
		return nil, apperrors.ErrNotCommentDeleter
	}

	replies, err := s.comments.DeleteCommentWithReplies(ctx, comment.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrCommentNotFound
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	log := s.log.With("post_id", comment.PostID, "comment_id", comment.ID)
	if err := s.posts.DecrementCommentCount(ctx, comment.PostID); err != nil {
		log.Error("decrement comment count", "error", err)
	}
	log.Info("comment deleted", "actor", actor, "replies_removed", replies)

	return loadDetail(ctx, s.posts, s.comments, comment.PostID)
}

// ToggleUpvote adds actor to the comment's upvotes, or removes them if present.
func (s *CommentService) ToggleUpvote(ctx context.Context, actor, postID, commentID string) (*models.UpvoteResult, error) {
	_, comment, err := s.lookup(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}

	updated, err := s.comments.ToggleUpvote(ctx, comment.ID, actor)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrCommentNotFound
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &models.UpvoteResult{
		PostID:      updated.PostID,
		CommentID:   updated.ID,
		Upvotes:     updated.Upvotes,
		UpvoteCount: updated.UpvoteCount,
	}, nil
}

// lookup loads a post and one of its comments.
func (s *CommentService) lookup(ctx context.Context, postID, commentID string) (*models.Post, *models.Comment, error) {
	if !validCommentID(commentID) {
		return nil, nil, apperrors.ErrInvalidCommentID
	}
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, nil, postErr(err)
	}
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, apperrors.ErrCommentNotFound
	}
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	if comment.PostID != post.ID.Hex() {
		return nil, nil, apperrors.ErrCommentNotInPost
	}
	return post, comment, nil
}

func validCommentID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
