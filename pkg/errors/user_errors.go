package errors

var (
	ErrUsernameTaken      = WithReason(CodeAlreadyExists, "username already exists", "USERNAME_TAKEN")
	ErrInvalidCredentials = Unauthorized("invalid credentials")
	ErrProfileNotFound    = NotFound("profile not found")
	ErrProfilePrivate     = Forbidden("this profile is private")

	ErrPostNotFound      = NotFound("post not found")
	ErrCommentNotFound   = NotFound("comment not found")
	ErrParentNotInPost   = InvalidArg("parent comment not found in this post")
	ErrCommentNotInPost  = InvalidArg("comment does not belong to this post")
	ErrTextRequired      = InvalidArg("text is required")
	ErrPostTooLong       = InvalidArg("post text cannot exceed 280 characters")
	ErrCommentTooLong    = InvalidArg("comment text cannot exceed 500 characters")
	ErrInvalidPostID     = InvalidArg("invalid post id format")
	ErrInvalidCommentID  = InvalidArg("invalid comment id format")
	ErrNotPostAuthor     = Forbidden("you are not authorized to delete this post")
	ErrNotCommentDeleter = Forbidden("you are not authorized to delete this comment")
)
