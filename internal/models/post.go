package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a short-lived text post stored in MongoDB. It expires PostTTL after CreatedAt.
type Post struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorUsername string             `json:"username" bson:"username"`
	Text           string             `json:"text" bson:"text"`
	CreatedAt      time.Time          `json:"createdAt" bson:"created_at"`
	Likes          []PostLike         `json:"likes" bson:"likes"`
	LikeCount      int                `json:"likeCount" bson:"-"`
	CommentCount   int                `json:"commentCount" bson:"comment_count"`
}

// PostLike is one entry of a post's like list; usernames are unique within it.
type PostLike struct {
	Username string    `json:"username" bson:"username"`
	LikedAt  time.Time `json:"createdAt" bson:"liked_at"`
}

// SyncCounts recomputes derived counters after the post was loaded or mutated.
func (p *Post) SyncCounts() {
	if p.Likes == nil {
		p.Likes = []PostLike{}
	}
	p.LikeCount = len(p.Likes)
	if p.CommentCount < 0 {
		p.CommentCount = 0
	}
}

// LikedBy reports whether username already likes the post.
func (p *Post) LikedBy(username string) bool {
	for _, l := range p.Likes {
		if l.Username == username {
			return true
		}
	}
	return false
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Text string `json:"text"`
}

// PostDetail is a post together with its comments, both flat and threaded.
type PostDetail struct {
	*Post
	Comments []Comment      `json:"comments"`
	Thread   []*CommentNode `json:"thread"`
}
