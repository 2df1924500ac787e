package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"aits/internal/model"
	"aits/internal/repository"
	"aits/internal/service"
	"aits/internal/testutil"
)

func TestParseFixture(t *testing.T) {
	users, err := parseFixture(usersFixture)
	require.NoError(t, err)
	require.NotEmpty(t, users)

	roles := map[model.Role]bool{}
	for _, u := range users {
		roles[model.Role(u.Role)] = true
	}
	for _, r := range model.Roles {
		assert.True(t, roles[r], "fixture has no %s", r)
	}
}

func TestSeedUsers_IsRepeatable(t *testing.T) {
	gormDB := testutil.OpenTestDB(t)
	repo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(repo, nil, bcrypt.MinCost)

	users, err := parseFixture(usersFixture)
	require.NoError(t, err)

	ctx := context.Background()
	created, skipped, err := seedUsers(ctx, authService, users)
	require.NoError(t, err)
	assert.Equal(t, len(users), created)
	assert.Zero(t, skipped)

	created, skipped, err = seedUsers(ctx, authService, users)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, len(users), skipped)

	lecturer, err := repo.FindByUsername(ctx, "lecturer1")
	require.NoError(t, err)
	withProfile, err := repo.FindWithProfile(ctx, lecturer.ID)
	require.NoError(t, err)
	require.NotNil(t, withProfile.LecturerProfile)
	assert.Equal(t, "LEC-001", withProfile.LecturerProfile.StaffNumber)
}
