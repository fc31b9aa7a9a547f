package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a flat record; ParentID links replies into a tree within one post.
type Comment struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	PostID         string    `json:"postId" gorm:"size:24;not null;index"`
	AuthorUsername string    `json:"username" gorm:"size:20;not null"`
	Text           string    `json:"text" gorm:"size:500;not null"`
	ParentID       *string   `json:"parentId" gorm:"size:36;index"`
	Upvotes        []string  `json:"upvotes" gorm:"-"`
	UpvoteCount    int       `json:"upvoteCount" gorm:"-"`
	CreatedAt      time.Time `json:"createdAt" gorm:"index"`
}

// CommentUpvote is one member of a comment's upvote set.
type CommentUpvote struct {
	CommentID string    `gorm:"primaryKey;size:36"`
	Username  string    `gorm:"primaryKey;size:20"`
	CreatedAt time.Time
}

// BeforeCreate assigns the id, so a comment can never name itself as parent.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// SetUpvotes replaces the upvote set and keeps UpvoteCount in step with it.
func (c *Comment) SetUpvotes(usernames []string) {
	if usernames == nil {
		usernames = []string{}
	}
	c.Upvotes = usernames
	c.UpvoteCount = len(usernames)
}

// IsReply reports whether the comment has a parent.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil && *c.ParentID != ""
}

// CommentNode is a comment with its nested replies.
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}

// CreateCommentRequest defines the request body for creating a comment or reply
type CreateCommentRequest struct {
	Text     string  `json:"text"`
	ParentID *string `json:"parentId"`
}

// UpvoteResult is returned by the upvote toggle endpoint.
type UpvoteResult struct {
	PostID      string   `json:"postId"`
	CommentID   string   `json:"commentId"`
	Upvotes     []string `json:"upvotes"`
	UpvoteCount int      `json:"upvoteCount"`
}
