package services

import "github.com/anonto42/pulse/backend/internal/models"

// CanDeletePost reports whether actor may delete post. Only its author may.
func CanDeletePost(actor string, post *models.Post) bool {
	return post.AuthorUsername == actor
}

// CanDeleteComment reports whether actor may delete comment on post: the
// comment's author and the post's author both may.
func CanDeleteComment(actor string, post *models.Post, comment *models.Comment) bool {
	return comment.AuthorUsername == actor || post.AuthorUsername == actor
}

// CanChangeVisibility reports whether actor owns profile.
func CanChangeVisibility(actor string, profile *models.Profile) bool {
	return models.UsernameKey(actor) == profile.UsernameKey
}
