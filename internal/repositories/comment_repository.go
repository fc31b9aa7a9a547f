package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/pulse/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error)
	DeleteCommentWithReplies(ctx context.Context, id string) (int64, error)
	DeleteCommentsByPostID(ctx context.Context, postID string) error
	ToggleUpvote(ctx context.Context, commentID, username string) (*models.Comment, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment on post %s: %w", comment.PostID, translate(err))
	}
	comment.SetUpvotes(nil)
	return nil
}

// GetCommentByID retrieves a comment and its upvoters
func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	comments := []models.Comment{comment}
	if err := r.loadUpvotes(r.db.WithContext(ctx), comments); err != nil {
		return nil, err
	}
	return &comments[0], nil
}

// GetCommentsByPostID returns every comment of a post in creation order.
func (r *PostgresCommentRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	if err := r.loadUpvotes(r.db.WithContext(ctx), comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteCommentWithReplies removes a comment and its direct replies and returns
// how many replies went with it. Deeper descendants are left in place.
func (r *PostgresCommentRepository) DeleteCommentWithReplies(ctx context.Context, id string) (int64, error) {
	var replies int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Comment{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		children := tx.Model(&models.Comment{}).Select("id").Where("parent_id = ?", id)
		if err := tx.Where("comment_id = ? OR comment_id IN (?)", id, children).Delete(&models.CommentUpvote{}).Error; err != nil {
			return err
		}

		res = tx.Where("parent_id = ?", id).Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}
		replies = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete comment %s: %w", id, err)
	}
	return replies, nil
}

// DeleteCommentsByPostID removes all comments of a post together with their upvotes.
func (r *PostgresCommentRepository) DeleteCommentsByPostID(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", postID)
		if err := tx.Where("comment_id IN (?)", ids).Delete(&models.CommentUpvote{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error
	})
}

// ToggleUpvote flips username's membership in the comment's upvote set and
// returns the comment with the resulting set.
func (r *PostgresCommentRepository) ToggleUpvote(ctx context.Context, commentID, username string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&comment, "id = ?", commentID).Error; err != nil {
			return translate(err)
		}

		res := tx.Where("comment_id = ? AND username = ?", commentID, username).Delete(&models.CommentUpvote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.CommentUpvote{CommentID: commentID, Username: username}).Error
			if err != nil {
				return err
			}
		}

		comments := []models.Comment{comment}
		if err := r.loadUpvotes(tx, comments); err != nil {
			return err
		}
		comment = comments[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// loadUpvotes fills the upvote sets of comments with a single query.
func (r *PostgresCommentRepository) loadUpvotes(db *gorm.DB, comments []models.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	ids := make([]string, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
	}

	var upvotes []models.CommentUpvote
	err := db.Where("comment_id IN ?", ids).
		Order("created_at ASC").
		Find(&upvotes).Error
	if err != nil {
		return err
	}

	byComment := make(map[string][]string, len(comments))
	for _, u := range upvotes {
		byComment[u.CommentID] = append(byComment[u.CommentID], u.Username)
	}
	for i := range comments {
		comments[i].SetUpvotes(byComment[comments[i].ID])
	}
	return nil
}
