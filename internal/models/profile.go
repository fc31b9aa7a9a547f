package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Profile is a registered user. Username keeps the display casing chosen at
// registration; UsernameKey is its lowercase form and carries the unique index.
type Profile struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:20;not null"`
	UsernameKey  string    `json:"-" gorm:"size:20;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"not null"`
	IsPublic     bool      `json:"isPublic" gorm:"not null"`
	Hearts       []string  `json:"hearts" gorm:"-"`
	HeartCount   int       `json:"heartCount" gorm:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}

// ProfileHeart is one member of a profile's heart set.
type ProfileHeart struct {
	ProfileID uint      `gorm:"primaryKey"`
	Username  string    `gorm:"primaryKey;size:20"`
	CreatedAt time.Time `gorm:"index"`
}

// SetHearts replaces the heart set and keeps HeartCount in step with it.
func (p *Profile) SetHearts(usernames []string) {
	if usernames == nil {
		usernames = []string{}
	}
	p.Hearts = usernames
	p.HeartCount = len(usernames)
}

// HeartedBy reports whether username is in the heart set.
func (p *Profile) HeartedBy(username string) bool {
	for _, u := range p.Hearts {
		if u == username {
			return true
		}
	}
	return false
}

// UsernameKey normalizes a username for case-insensitive lookups.
func UsernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20,username"`
	Password string `json:"password" validate:"required,max=72"`
	IsPublic *bool  `json:"isPublic"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type VisibilityRequest struct {
	IsPublic *bool `json:"isPublic" validate:"required"`
}

// HeartToggleResult is returned by the heart toggle endpoint.
type HeartToggleResult struct {
	Hearts     []string `json:"hearts"`
	HeartCount int      `json:"heartCount"`
	IsHearted  bool     `json:"isHearted"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
