package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/anonto42/pulse/backend/internal/middleware"
	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/validators"
	"github.com/labstack/echo/v4"
)

// newContext builds an echo context for a JSON request, authenticated as
// username unless it is empty.
func newContext(method, target, body, username string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validators.NewValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if username != "" {
		c.Set(middleware.ContextKeyUser, &models.JwtCustomClaims{Username: username})
	}
	return c, rec
}

func statusOf(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return http.StatusOK
}

type stubProfiles struct {
	ProfileService
	register     func(req models.RegisterRequest) (*models.Profile, error)
	authenticate func(username, password string) (*models.Profile, error)
	postsOf      func(viewer, username string) ([]models.Post, error)
}

func (s *stubProfiles) Register(_ context.Context, req models.RegisterRequest) (*models.Profile, error) {
	return s.register(req)
}

func (s *stubProfiles) Authenticate(_ context.Context, username, password string) (*models.Profile, error) {
	return s.authenticate(username, password)
}

func (s *stubProfiles) PostsOf(_ context.Context, viewer, username string) ([]models.Post, error) {
	return s.postsOf(viewer, username)
}

type stubPosts struct {
	PostService
	like   func(actor, postID string) (*models.Post, error)
	delete func(actor, postID string) error
	list   func(order string) ([]models.Post, error)
}

func (s *stubPosts) Like(_ context.Context, actor, postID string) (*models.Post, error) {
	return s.like(actor, postID)
}

func (s *stubPosts) Delete(_ context.Context, actor, postID string) error {
	return s.delete(actor, postID)
}

func (s *stubPosts) List(_ context.Context, order string) ([]models.Post, error) {
	return s.list(order)
}

type stubComments struct {
	CommentService
	add    func(actor, postID string, req models.CreateCommentRequest) (*models.PostDetail, error)
	upvote func(actor, postID, commentID string) (*models.UpvoteResult, error)
}

func (s *stubComments) Add(_ context.Context, actor, postID string, req models.CreateCommentRequest) (*models.PostDetail, error) {
	return s.add(actor, postID, req)
}

func (s *stubComments) ToggleUpvote(_ context.Context, actor, postID, commentID string) (*models.UpvoteResult, error) {
	return s.upvote(actor, postID, commentID)
}

type stubNotifications struct {
	list   func(username string) ([]models.Notification, error)
	unread func(username string) (int64, error)
}

func (s *stubNotifications) List(_ context.Context, username string) ([]models.Notification, error) {
	return s.list(username)
}

func (s *stubNotifications) UnreadCount(_ context.Context, username string) (int64, error) {
	return s.unread(username)
}
