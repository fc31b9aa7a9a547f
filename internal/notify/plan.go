package notify

import (
	"time"

	"github.com/anonto42/pulse/backend/internal/metrics"
	"github.com/anonto42/pulse/backend/internal/models"
)

// Plan turns an event into the notifications it produces, in delivery order.
//
// The post author hears about every like, comment and reply. A reply also
// reaches the parent comment's author, unless that is the post author, who
// already got one. Nobody is notified of their own action.
func Plan(ev Event, now time.Time) []models.Notification {
	post := ev.post()
	if post == nil {
		return nil
	}
	actor := ev.actor()

	var out []models.Notification
	if post.AuthorUsername == actor {
		metrics.NotificationsSkipped.WithLabelValues("self").Inc()
	} else {
		out = append(out, forPostAuthor(ev, now))
	}

	reply, ok := ev.(ReplyEvent)
	if !ok || reply.Parent == nil {
		return out
	}
	parentAuthor := reply.Parent.AuthorUsername
	switch parentAuthor {
	case actor:
		metrics.NotificationsSkipped.WithLabelValues("self").Inc()
	case post.AuthorUsername:
		metrics.NotificationsSkipped.WithLabelValues("duplicate").Inc()
	default:
		out = append(out, models.NewReplyNotification(parentAuthor, actor, post, reply.Text, reply.Parent.ID, now))
	}
	return out
}

func forPostAuthor(ev Event, now time.Time) models.Notification {
	recipient := ev.post().AuthorUsername
	switch e := ev.(type) {
	case CommentEvent:
		return models.NewCommentNotification(recipient, e.Actor, e.Post, e.Text, now)
	case ReplyEvent:
		return models.NewReplyNotification(recipient, e.Actor, e.Post, e.Text, parentID(e.Parent), now)
	default:
		return models.NewLikeNotification(recipient, ev.actor(), ev.post(), now)
	}
}

func parentID(c *models.Comment) string {
	if c == nil {
		return ""
	}
	return c.ID
}
