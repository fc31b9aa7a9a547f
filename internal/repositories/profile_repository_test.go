package repositories_test

import (
	"context"
	"testing"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProfile_UsernameUniqueIgnoringCase(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewPostgresProfileRepository(setupTestDB(t))

	require.NoError(t, repo.CreateProfile(ctx, &models.Profile{Username: "Alice", PasswordHash: "x", IsPublic: true}))

	err := repo.CreateProfile(ctx, &models.Profile{Username: "alice", PasswordHash: "y"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	exists, err := repo.UsernameExists(ctx, "ALICE")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.UsernameExists(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetProfileByUsername(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewPostgresProfileRepository(setupTestDB(t))

	_, err := repo.GetProfileByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, repo.CreateProfile(ctx, &models.Profile{Username: "Alice", PasswordHash: "x"}))

	p, err := repo.GetProfileByUsername(ctx, "aLiCe")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Username)
	assert.False(t, p.IsPublic)
	assert.Equal(t, []string{}, p.Hearts)
}

func TestToggleHeart(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewPostgresProfileRepository(setupTestDB(t))

	profile := &models.Profile{Username: "alice", PasswordHash: "x", IsPublic: true}
	require.NoError(t, repo.CreateProfile(ctx, profile))

	hearted, err := repo.ToggleHeart(ctx, profile.ID, "bob")
	require.NoError(t, err)
	assert.True(t, hearted)

	hearted, err = repo.ToggleHeart(ctx, profile.ID, "carol")
	require.NoError(t, err)
	assert.True(t, hearted)

	p, err := repo.GetProfileByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob", "carol"}, p.Hearts)
	assert.Equal(t, 2, p.HeartCount)

	// second toggle removes
	hearted, err = repo.ToggleHeart(ctx, profile.ID, "bob")
	require.NoError(t, err)
	assert.False(t, hearted)

	p, err = repo.GetProfileByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, p.Hearts)
}

func TestUpdateVisibility(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewPostgresProfileRepository(setupTestDB(t))

	profile := &models.Profile{Username: "alice", PasswordHash: "x", IsPublic: true}
	require.NoError(t, repo.CreateProfile(ctx, profile))

	require.NoError(t, repo.UpdateVisibility(ctx, profile.ID, false))
	p, err := repo.GetProfileByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, p.IsPublic)

	assert.ErrorIs(t, repo.UpdateVisibility(ctx, 999, true), repositories.ErrNotFound)
}
