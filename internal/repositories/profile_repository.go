package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/pulse/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateVisibility(ctx context.Context, profileID uint, isPublic bool) error
	ToggleHeart(ctx context.Context, profileID uint, username string) (bool, error)
}

// PostgresProfileRepository implements ProfileRepository with GORM
type PostgresProfileRepository struct {
	db *gorm.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(db *gorm.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// CreateProfile inserts a profile, returning ErrDuplicate when the username key is taken.
func (r *PostgresProfileRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	profile.UsernameKey = models.UsernameKey(profile.Username)
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("create profile %q: %w", profile.Username, translate(err))
	}
	profile.SetHearts(nil)
	return nil
}

// GetProfileByUsername looks a profile up case-insensitively and loads its hearts.
func (r *PostgresProfileRepository) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Where("username_key = ?", models.UsernameKey(username)).
		First(&profile).Error
	if err != nil {
		return nil, translate(err)
	}

	hearts, err := r.hearts(r.db.WithContext(ctx), profile.ID)
	if err != nil {
		return nil, err
	}
	profile.SetHearts(hearts)
	return &profile, nil
}

// UsernameExists reports whether any profile uses username, ignoring case.
func (r *PostgresProfileRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("username_key = ?", models.UsernameKey(username)).
		Count(&count).Error
	return count > 0, err
}

// UpdateVisibility sets the isPublic flag of a profile.
func (r *PostgresProfileRepository) UpdateVisibility(ctx context.Context, profileID uint, isPublic bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", profileID).
		Update("is_public", isPublic)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleHeart flips username's membership in the heart set and reports whether it is now a member.
// The delete-or-insert runs in one transaction; the composite key rejects duplicates outright.
func (r *PostgresProfileRepository) ToggleHeart(ctx context.Context, profileID uint, username string) (bool, error) {
	var hearted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("profile_id = ? AND username = ?", profileID, username).Delete(&models.ProfileHeart{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			hearted = false
			return nil
		}
		hearted = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.ProfileHeart{ProfileID: profileID, Username: username}).Error
	})
	if err != nil {
		return false, fmt.Errorf("toggle heart on profile %d: %w", profileID, err)
	}
	return hearted, nil
}

func (r *PostgresProfileRepository) hearts(db *gorm.DB, profileID uint) ([]string, error) {
	var usernames []string
	err := db.Model(&models.ProfileHeart{}).
		Where("profile_id = ?", profileID).
		Order("created_at ASC").
		Pluck("username", &usernames).Error
	return usernames, err
}
