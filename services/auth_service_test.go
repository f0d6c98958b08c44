package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuellog-api/repositories"
)

func newAuthService(t *testing.T, wechat *WeChatService) (*AuthService, *TokenService) {
	t.Helper()
	tokens := NewTokenService("secret", time.Hour)
	return NewAuthService(repositories.NewUserRepository(newTestDB(t)), tokens, wechat, nil), tokens
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, tokens := newAuthService(t, nil)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Driver", "Driver@Example.com", "s3cret!")
	require.NoError(t, err)
	assert.True(t, reg.IsNewUser)
	require.NotNil(t, reg.User.Email)
	assert.Equal(t, "driver@example.com", *reg.User.Email)

	_, err = svc.Register(ctx, "Other", "driver@example.com", "whatever")
	assert.ErrorIs(t, err, ErrEmailTaken)

	login, err := svc.Login(ctx, "driver@example.com", "s3cret!")
	require.NoError(t, err)
	userID, err := tokens.Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, userID)

	_, err = svc.Login(ctx, "driver@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "s3cret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_WeChatLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"openid":"o-1","session_key":"sk"}`))
	}))
	defer srv.Close()

	svc, _ := newAuthService(t, NewWeChatService("app", "secret", srv.URL, srv.Client()))
	ctx := context.Background()

	first, err := svc.WeChatLogin(ctx, "code-1", "Ming", nil)
	require.NoError(t, err)
	assert.True(t, first.IsNewUser)

	second, err := svc.WeChatLogin(ctx, "code-2", "", nil)
	require.NoError(t, err)
	assert.False(t, second.IsNewUser)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, "Ming", second.User.Name)
}
