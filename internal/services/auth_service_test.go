package services_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/dto"
	"taskflow/internal/services"
)

func TestAuthService_Register(t *testing.T) {
	svc := services.NewAuthService(setupDB(t), testConfig())

	user, token, err := svc.Register(&dto.RegisterRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email, "email should be lowercased")
	assert.NotEqual(t, "password123", user.Password, "password must be stored hashed")
	assert.False(t, user.CalendarSyncEnabled)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := services.NewAuthService(setupDB(t), testConfig())

	_, _, err := svc.Register(&dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	// Same address with different casing is still a duplicate. The check
	// is the unique index itself, so a concurrent registration cannot slip
	// between a lookup and the insert.
	_, _, err = svc.Register(&dto.RegisterRequest{Name: "Imposter", Email: "ALICE@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestAuthService_Login_InvalidCredentialsIndistinguishable(t *testing.T) {
	svc := services.NewAuthService(setupDB(t), testConfig())

	_, _, err := svc.Register(&dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "not-the-password"})
	_, _, unknownEmail := svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})

	assert.ErrorIs(t, wrongPassword, services.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, services.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_Login_Success(t *testing.T) {
	cfg := testConfig()
	svc := services.NewAuthService(setupDB(t), cfg)

	registered, _, err := svc.Register(&dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	user, token, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, registered.ID.String(), claims["sub"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp.Time, time.Minute, "token should expire after 7 days")
}

func TestAuthService_Avatar(t *testing.T) {
	svc := services.NewAuthService(setupDB(t), testConfig())

	user, _, err := svc.Register(&dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.GetAvatar(user.ID)
	assert.ErrorIs(t, err, services.ErrAvatarNotFound)

	require.NoError(t, svc.UpdateAvatar(user.ID, []byte{0x89, 0x50, 0x4e, 0x47}))

	data, err := svc.GetAvatar(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, data)

	// Profile reads report presence without loading the blob itself.
	loaded, err := svc.GetUser(user.ID)
	require.NoError(t, err)
	assert.True(t, loaded.HasAvatar())
	assert.Empty(t, loaded.Avatar, "avatar bytes belong to GetAvatar only")

	secrets, err := svc.GetUserWithSecrets(user.ID)
	require.NoError(t, err)
	assert.Empty(t, secrets.Avatar, "notification reads never carry avatar bytes")
}

func TestAuthService_GoogleTokens(t *testing.T) {
	svc := services.NewAuthService(setupDB(t), testConfig())

	user, _, err := svc.Register(&dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.SaveGoogleTokens(user.ID, "access-1", "refresh-1"))

	loaded, err := svc.GetUserWithSecrets(user.ID)
	require.NoError(t, err)
	assert.True(t, loaded.CalendarSyncEnabled)
	assert.Equal(t, "access-1", loaded.GoogleAccessToken)
	assert.Equal(t, "refresh-1", loaded.GoogleRefreshToken)

	// A refreshed access token without a new refresh token keeps the old one.
	require.NoError(t, svc.SaveGoogleTokens(user.ID, "access-2", ""))
	loaded, err = svc.GetUserWithSecrets(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "access-2", loaded.GoogleAccessToken)
	assert.Equal(t, "refresh-1", loaded.GoogleRefreshToken)

	require.NoError(t, svc.DisconnectGoogle(user.ID))
	loaded, err = svc.GetUserWithSecrets(user.ID)
	require.NoError(t, err)
	assert.False(t, loaded.CalendarSyncEnabled)
	assert.Empty(t, loaded.GoogleAccessToken)
	assert.Empty(t, loaded.GoogleRefreshToken)
}
