package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSnippet(t *testing.T) {
	sixty := strings.Repeat("a", 60)
	forty := strings.Repeat("b", 40)

	got := Snippet(sixty)
	assert.Equal(t, strings.Repeat("a", 50)+"...", got)
	assert.Equal(t, forty, Snippet(forty))
	assert.Equal(t, strings.Repeat("c", 50), Snippet(strings.Repeat("c", 50)))
}

func TestSnippet_CountsCharactersNotBytes(t *testing.T) {
	text := strings.Repeat("é", 51)
	assert.Equal(t, strings.Repeat("é", 50)+"...", Snippet(text))
}

func TestNotificationConstructors(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	post := &Post{ID: primitive.NewObjectID(), AuthorUsername: "alice", Text: "hello"}

	like := NewLikeNotification("alice", "bob", post, at)
	assert.Equal(t, NotificationLike, like.Type)
	assert.Equal(t, post.ID.Hex(), like.PostID)
	assert.Equal(t, "hello", like.PostTextSnippet)
	assert.Nil(t, like.CommentTextSnippet)
	assert.Nil(t, like.ParentCommentID)
	assert.False(t, like.IsRead)
	assert.Equal(t, at, like.CreatedAt)

	comment := NewCommentNotification("alice", "bob", post, "nice", at)
	assert.Equal(t, NotificationComment, comment.Type)
	require.NotNil(t, comment.CommentTextSnippet)
	assert.Equal(t, "nice", *comment.CommentTextSnippet)
	assert.Nil(t, comment.ParentCommentID)

	reply := NewReplyNotification("carol", "bob", post, "agreed", "c-1", at)
	assert.Equal(t, NotificationReply, reply.Type)
	require.NotNil(t, reply.ParentCommentID)
	assert.Equal(t, "c-1", *reply.ParentCommentID)
	assert.Equal(t, "agreed", *reply.CommentTextSnippet)
}

func TestPostSyncCounts(t *testing.T) {
	p := &Post{CommentCount: -2}
	p.SyncCounts()
	assert.Equal(t, 0, p.LikeCount)
	assert.NotNil(t, p.Likes)
	assert.Equal(t, 0, p.CommentCount)

	p.Likes = append(p.Likes, PostLike{Username: "a"}, PostLike{Username: "b"})
	p.SyncCounts()
	assert.Equal(t, 2, p.LikeCount)
	assert.True(t, p.LikedBy("b"))
	assert.False(t, p.LikedBy("c"))
}

func TestSetUpvotesAndHearts(t *testing.T) {
	c := &Comment{}
	c.SetUpvotes(nil)
	assert.Equal(t, []string{}, c.Upvotes)
	assert.Equal(t, 0, c.UpvoteCount)

	p := &Profile{}
	p.SetHearts([]string{"x", "y"})
	assert.Equal(t, 2, p.HeartCount)
	assert.True(t, p.HeartedBy("x"))
}

func TestUsernameKey(t *testing.T) {
	assert.Equal(t, "alice", UsernameKey("  AlIcE "))
}
