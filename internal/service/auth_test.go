package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markbryceit/eatwell.ai-sub000/internal/service"
	"github.com/markbryceit/eatwell.ai-sub000/internal/testhelpers"
	"github.com/markbryceit/eatwell.ai-sub000/internal/types"
)

func registerRequest(email, username string) *types.RegisterRequest {
	return &types.RegisterRequest{
		Name:               "Test User",
		Email:              email,
		Password:           "supersecret",
		Username:           username,
		DietaryPreferences: []string{"vegan"},
		DailyCalorieTarget: 2000,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	token, err := svc.Register(ctx, registerRequest("alice@example.com", "alice"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	// Registration creates the profile the planner needs.
	profile, err := service.NewProfileService(db).GetProfile(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2000, profile.DailyCalorieTarget)
	assert.Equal(t, []string{"vegan"}, []string(profile.DietaryPreferences))

	loginToken, err := svc.Login(ctx, "alice@example.com", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("alice@example.com", "alice"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("alice@example.com", "alice2"))
	assert.ErrorIs(t, err, service.ErrUserExists)
}

func TestLoginWrongPassword(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("alice@example.com", "alice"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "supersecret")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := service.NewAuthService(nil, "test-secret")
	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	ctx := context.Background()

	token, err := service.NewAuthService(db, "secret-a").Register(ctx, registerRequest("alice@example.com", "alice"))
	require.NoError(t, err)

	_, err = service.NewAuthService(db, "secret-b").ValidateToken(token)
	assert.Error(t, err)
}
