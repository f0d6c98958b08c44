package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

var (
	ErrWeChatDisabled = errors.New("wechat login is not configured")
	ErrWeChatCode     = errors.New("wechat rejected the login code")
)

type WeChatSession struct {
	OpenID     string
	UnionID    string
	SessionKey string
}

// WeChatService exchanges mini-program login codes for a user's openid.
type WeChatService struct {
	appID     string
	appSecret string
	baseURL   string
	client    *http.Client
}

func NewWeChatService(appID, appSecret, baseURL string, client *http.Client) *WeChatService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WeChatService{
		appID:     appID,
		appSecret: appSecret,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
	}
}

func (s *WeChatService) Enabled() bool {
	return s != nil && s.appID != "" && s.appSecret != ""
}

// Code2Session calls sns/jscode2session. WeChat answers HTTP 200 even for
// rejected codes and signals failures through errcode.
func (s *WeChatService) Code2Session(ctx context.Context, code string) (*WeChatSession, error) {
	if !s.Enabled() {
		return nil, ErrWeChatDisabled
	}

	query := url.Values{}
	query.Set("appid", s.appID)
	query.Set("secret", s.appSecret)
	query.Set("js_code", code)
	query.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/sns/jscode2session?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build code2session request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call code2session: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read code2session response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("code2session returned status %d", resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("code2session returned malformed json")
	}

	result := gjson.ParseBytes(body)
	if errcode := result.Get("errcode").Int(); errcode != 0 {
		return nil, fmt.Errorf("%w: %d %s", ErrWeChatCode, errcode, result.Get("errmsg").String())
	}

	openID := result.Get("openid").String()
	if openID == "" {
		return nil, fmt.Errorf("%w: empty openid", ErrWeChatCode)
	}
	return &WeChatSession{
		OpenID:     openID,
		UnionID:    result.Get("unionid").String(),
		SessionKey: result.Get("session_key").String(),
	}, nil
}
