package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeChatService_Code2Session(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sns/jscode2session", r.URL.Path)
		assert.Equal(t, "app", r.URL.Query().Get("appid"))
		assert.Equal(t, "the-code", r.URL.Query().Get("js_code"))
		assert.Equal(t, "authorization_code", r.URL.Query().Get("grant_type"))
		w.Write([]byte(`{"openid":"o-123","session_key":"sk","unionid":"u-1"}`))
	}))
	defer srv.Close()

	svc := NewWeChatService("app", "secret", srv.URL, srv.Client())
	session, err := svc.Code2Session(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "o-123", session.OpenID)
	assert.Equal(t, "u-1", session.UnionID)
	assert.Equal(t, "sk", session.SessionKey)
}

func TestWeChatService_ErrCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errcode":40029,"errmsg":"invalid code"}`))
	}))
	defer srv.Close()

	svc := NewWeChatService("app", "secret", srv.URL, srv.Client())
	_, err := svc.Code2Session(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrWeChatCode)
}

func TestWeChatService_Disabled(t *testing.T) {
	_, err := NewWeChatService("", "", "https://example.invalid", nil).Code2Session(context.Background(), "x")
	assert.ErrorIs(t, err, ErrWeChatDisabled)
}
