package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/repositories"
	apperrors "github.com/anonto42/pulse/backend/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// ProfileService manages accounts, their visibility and their heart sets.
type ProfileService struct {
	profiles repositories.ProfileRepository
	posts    repositories.PostRepository
	log      *slog.Logger
	hashCost int
}

func NewProfileService(profiles repositories.ProfileRepository, posts repositories.PostRepository, log *slog.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		posts:    posts,
		log:      log.With("service", "profile"),
		hashCost: bcrypt.DefaultCost,
	}
}

// Register creates an account. Profiles are public unless the request says otherwise.
func (s *ProfileService) Register(ctx context.Context, req models.RegisterRequest) (*models.Profile, error) {
	username := strings.TrimSpace(req.Username)

	exists, err := s.profiles.UsernameExists(ctx, username)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if exists {
		return nil, apperrors.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	profile := &models.Profile{
		Username:     username,
		PasswordHash: string(hash),
		IsPublic:     true,
	}
	if req.IsPublic != nil {
		profile.IsPublic = *req.IsPublic
	}

	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, apperrors.Internal(err)
	}
	s.log.Info("profile registered", "username", profile.Username)
	return profile, nil
}

// Authenticate checks a username and password pair.
func (s *ProfileService) Authenticate(ctx context.Context, username, password string) (*models.Profile, error) {
	profile, err := s.profiles.GetProfileByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return profile, nil
}

func (s *ProfileService) Get(ctx context.Context, username string) (*models.Profile, error) {
	profile, err := s.profiles.GetProfileByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return profile, nil
}

func (s *ProfileService) UsernameExists(ctx context.Context, username string) (bool, error) {
	if strings.TrimSpace(username) == "" {
		return false, apperrors.InvalidArg("username query parameter is required")
	}
	exists, err := s.profiles.UsernameExists(ctx, username)
	if err != nil {
		return false, apperrors.Internal(err)
	}
	return exists, nil
}

// PostsOf lists a profile's live posts. Private profiles only show them to their owner.
func (s *ProfileService) PostsOf(ctx context.Context, viewer, username string) ([]models.Post, error) {
	profile, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if !profile.IsPublic && models.UsernameKey(viewer) != profile.UsernameKey {
		return nil, apperrors.ErrProfilePrivate
	}
	posts, err := s.posts.GetPostsByAuthor(ctx, profile.Username, profilePostLimit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return posts, nil
}

// ToggleHeart adds actor to the profile's heart set, or removes them if present.
func (s *ProfileService) ToggleHeart(ctx context.Context, actor, username string) (*models.HeartToggleResult, error) {
	profile, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	hearted, err := s.profiles.ToggleHeart(ctx, profile.ID, actor)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	profile, err = s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return &models.HeartToggleResult{
		Hearts:     profile.Hearts,
		HeartCount: profile.HeartCount,
		IsHearted:  hearted,
	}, nil
}

// SetVisibility changes the visibility of actor's own profile.
func (s *ProfileService) SetVisibility(ctx context.Context, actor string, isPublic bool) (*models.Profile, error) {
	profile, err := s.Get(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !CanChangeVisibility(actor, profile) {
		return nil, apperrors.Forbidden("you can only change your own profile")
	}
	if err := s.profiles.UpdateVisibility(ctx, profile.ID, isPublic); err != nil {
		return nil, apperrors.Internal(err)
	}
	profile.IsPublic = isPublic
	return profile, nil
}
