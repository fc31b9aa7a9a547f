package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationReply   NotificationType = "reply"
)

// SnippetLength is the number of characters kept from post and comment text.
const SnippetLength = 50

// Notification is the stored form of a fanout result. The constructors below are
// the only way to build one, and each fills exactly the fields its type carries:
// like has no comment snippet, comment adds one, reply adds a parent comment id.
type Notification struct {
	ID                 string           `json:"id" gorm:"primaryKey;size:36"`
	RecipientUsername  string           `json:"recipientUsername" gorm:"size:20;not null;index:idx_recipient_created,priority:1"`
	SenderUsername     string           `json:"senderUsername" gorm:"size:20;not null"`
	Type               NotificationType `json:"type" gorm:"size:10;not null"`
	PostID             string           `json:"postId" gorm:"size:24;not null;index"`
	PostTextSnippet    string           `json:"postTextSnippet" gorm:"size:64"`
	CommentTextSnippet *string          `json:"commentTextSnippet,omitempty" gorm:"size:64"`
	ParentCommentID    *string          `json:"parentCommentId,omitempty" gorm:"size:36"`
	IsRead             bool             `json:"isRead" gorm:"not null;index"`
	CreatedAt          time.Time        `json:"createdAt" gorm:"index:idx_recipient_created,priority:2,sort:desc"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// NewLikeNotification tells recipient that sender liked post.
func NewLikeNotification(recipient, sender string, post *Post, at time.Time) Notification {
	return Notification{
		RecipientUsername: recipient,
		SenderUsername:    sender,
		Type:              NotificationLike,
		PostID:            post.ID.Hex(),
		PostTextSnippet:   Snippet(post.Text),
		CreatedAt:         at,
	}
}

// NewCommentNotification tells recipient that sender commented on post.
func NewCommentNotification(recipient, sender string, post *Post, commentText string, at time.Time) Notification {
	n := NewLikeNotification(recipient, sender, post, at)
	n.Type = NotificationComment
	n.CommentTextSnippet = ptr(Snippet(commentText))
	return n
}

// NewReplyNotification tells recipient that sender replied to parentID on post.
func NewReplyNotification(recipient, sender string, post *Post, commentText, parentID string, at time.Time) Notification {
	n := NewCommentNotification(recipient, sender, post, commentText, at)
	n.Type = NotificationReply
	n.ParentCommentID = ptr(parentID)
	return n
}

// Snippet keeps the first SnippetLength characters of s, adding "..." when it cut anything.
func Snippet(s string) string {
	r := []rune(s)
	if len(r) <= SnippetLength {
		return s
	}
	return string(r[:SnippetLength]) + "..."
}

// UnreadCount is the body of the unread-count endpoint.
type UnreadCount struct {
	UnreadCount int64 `json:"unreadCount"`
}

func ptr[T any](v T) *T { return &v }
