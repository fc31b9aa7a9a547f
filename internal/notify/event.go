package notify

import "github.com/anonto42/pulse/backend/internal/models"

// Event is one user interaction that may notify other users.
// Implemented by LikeEvent, CommentEvent and ReplyEvent only.
type Event interface {
	actor() string
	post() *models.Post
	kind() models.NotificationType
}

// LikeEvent is emitted when Actor newly likes Post.
type LikeEvent struct {
	Actor string
	Post  *models.Post
}

// CommentEvent is emitted when Actor adds a top-level comment to Post.
type CommentEvent struct {
	Actor string
	Post  *models.Post
	Text  string
}

// ReplyEvent is emitted when Actor replies to Parent on Post.
type ReplyEvent struct {
	Actor  string
	Post   *models.Post
	Text   string
	Parent *models.Comment
}

func (e LikeEvent) actor() string                 { return e.Actor }
func (e LikeEvent) post() *models.Post            { return e.Post }
func (e LikeEvent) kind() models.NotificationType { return models.NotificationLike }

func (e CommentEvent) actor() string                 { return e.Actor }
func (e CommentEvent) post() *models.Post            { return e.Post }
func (e CommentEvent) kind() models.NotificationType { return models.NotificationComment }

func (e ReplyEvent) actor() string                 { return e.Actor }
func (e ReplyEvent) post() *models.Post            { return e.Post }
func (e ReplyEvent) kind() models.NotificationType { return models.NotificationReply }
