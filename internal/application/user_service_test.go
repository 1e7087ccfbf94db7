package application

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-recipe-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-recipe-api/pkg/helpers"
)

func newUserEnv(t *testing.T) (*UserService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	return NewUserService(memory.NewStore().Users(), jwt, rdb, nil), mr
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, mr := newUserEnv(t)

	u, err := svc.Register(ctx, RegisterInput{Email: " Cook@Example.com ", Password: "testpass123", Name: "Cook"})
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", u.Email)
	assert.NotEqual(t, "testpass123", u.Password)

	_, err = svc.Register(ctx, RegisterInput{Email: "cook@example.com", Password: "testpass123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, _, err = svc.Login(ctx, "cook@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, pair, err := svc.Login(ctx, "COOK@example.com", "testpass123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, claims.SessionID, mr.HGet(helpers.SessionKey(u.ID), "sid"))
	assert.Greater(t, mr.TTL(helpers.SessionKey(u.ID)), time.Duration(0))
}

func TestUserService_RefreshRotatesSession(t *testing.T) {
	ctx := context.Background()
	svc, mr := newUserEnv(t)
	u, err := svc.Register(ctx, RegisterInput{Email: "a@b.co", Password: "testpass123"})
	require.NoError(t, err)
	_, first, err := svc.Login(ctx, "a@b.co", "testpass123")
	require.NoError(t, err)

	second, uid, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)

	claims, err := svc.JWT.ParseRefreshToken(second.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, claims.SessionID, mr.HGet(helpers.SessionKey(u.ID), "sid"))

	_, _, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Refresh(ctx, second.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_LogoutDropsSession(t *testing.T) {
	ctx := context.Background()
	svc, mr := newUserEnv(t)
	u, err := svc.Register(ctx, RegisterInput{Email: "a@b.co", Password: "testpass123"})
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "a@b.co", "testpass123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, u.ID))
	assert.False(t, mr.Exists(helpers.SessionKey(u.ID)))

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, mr := newUserEnv(t)
	u, err := svc.Register(ctx, RegisterInput{Email: "a@b.co", Password: "testpass123", Name: "Old"})
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "a@b.co", "testpass123")
	require.NoError(t, err)

	name, pwd := "New", "newpass456"
	got, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: &name, Password: &pwd})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "New", mr.HGet(helpers.SessionKey(u.ID), "name"))

	_, err = svc.Authenticate(ctx, "a@b.co", "newpass456")
	assert.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, "missing", UpdateProfileInput{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
