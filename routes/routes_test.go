package routes

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"fuellog-api/config"
	"fuellog-api/database"
	"fuellog-api/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	svc    *Services
}

func newTestServer(t *testing.T, configure func(*config.Config), override func(*Services)) *testServer {
	t.Helper()

	db, err := database.Initialize("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTTTL:             time.Hour,
		Timezone:           "UTC",
		RateLimitPerMinute: 6000,
		RateLimitBurst:     1000,
	}
	if configure != nil {
		configure(cfg)
	}
	svc, err := NewServices(db, cfg)
	require.NoError(t, err)
	if override != nil {
		override(svc)
	}

	r := gin.New()
	SetupRoutes(r, svc, cfg)
	return &testServer{router: r, svc: svc}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	w := s.do(http.MethodPost, "/api/v1/auth/register", "", `{"name":"Driver","email":"`+email+`","password":"s3cret!"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := gjson.Get(w.Body.String(), "token").String()
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, nil)

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := s.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", gjson.Get(w.Body.String(), "status").String())
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodGet, "/api/v1/refuels/stats", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token := s.register(t, "driver@example.com")

	w := s.do(http.MethodPost, "/api/v1/auth/register", "", `{"name":"Again","email":"driver@example.com","password":"s3cret!"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"driver@example.com","password":"wrong1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"driver@example.com","password":"s3cret!"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, gjson.Get(w.Body.String(), "is_new_user").Bool())
	assert.False(t, gjson.Get(w.Body.String(), "user.password").Exists())

	w = s.do(http.MethodGet, "/api/v1/auth/me", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "driver@example.com", gjson.Get(w.Body.String(), "email").String())

	w = s.do(http.MethodPut, "/api/v1/users/profile", token, `{"name":"Renamed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Renamed", gjson.Get(w.Body.String(), "name").String())
}

func TestWeChatLogin(t *testing.T) {
	wx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("js_code") == "bad" {
			w.Write([]byte(`{"errcode":40029,"errmsg":"invalid code"}`))
			return
		}
		w.Write([]byte(`{"openid":"o-abc","session_key":"k"}`))
	}))
	defer wx.Close()

	s := newTestServer(t, func(cfg *config.Config) {
		cfg.WeChatAppID = "app"
		cfg.WeChatAppSecret = "secret"
		cfg.WeChatAPIBase = wx.URL
	}, nil)

	w := s.do(http.MethodPost, "/api/v1/auth/wechat", "", `{"code":"good","nickname":"Ming"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, gjson.Get(w.Body.String(), "is_new_user").Bool())
	assert.Equal(t, "Ming", gjson.Get(w.Body.String(), "user.name").String())

	w = s.do(http.MethodPost, "/api/v1/auth/wechat", "", `{"code":"good"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, gjson.Get(w.Body.String(), "is_new_user").Bool())

	w = s.do(http.MethodPost, "/api/v1/auth/wechat", "", `{"code":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWeChatLoginDisabled(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodPost, "/api/v1/auth/wechat", "", `{"code":"any"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRefuelStats(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token := s.register(t, "stats@example.com")

	for _, body := range []string{
		`{"date":"2023-12-30","odometer":500,"volume":30,"amount":240}`,
		`{"date":"2024-03-01","time":"08:00","odometer":1000,"volume":40,"amount":320}`,
		`{"date":"2024-03-15","time":"19:45","odometer":1400,"volume":35,"amount":280}`,
	} {
		w := s.do(http.MethodPost, "/api/v1/refuels", token, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.do(http.MethodGet, "/api/v1/refuels/stats?year=2024", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Equal(t, int64(2024), gjson.Get(body, "summary.year").Int())
	assert.Equal(t, int64(2), gjson.Get(body, "summary.record_count").Int())
	assert.Equal(t, 600.0, gjson.Get(body, "summary.total_amount").Float())
	assert.Equal(t, 75.0, gjson.Get(body, "summary.total_volume").Float())
	assert.Equal(t, 8.0, gjson.Get(body, "summary.average_price").Float())
	assert.Equal(t, 8.75, gjson.Get(body, "summary.average_consumption_rate").Float())
	assert.Equal(t, 400.0, gjson.Get(body, "summary.coverage_distance").Float())

	records := gjson.Get(body, "records").Array()
	require.Len(t, records, 2)
	assert.Equal(t, "3/15", records[0].Get("display_date").String())
	assert.Equal(t, 400.0, records[0].Get("distance").Float())
	assert.Equal(t, 0.7, records[0].Get("cost_per_distance").Float())
	assert.Equal(t, gjson.Null, records[1].Get("distance").Type)
	assert.True(t, records[1].Get("distance").Exists())

	w = s.do(http.MethodGet, "/api/v1/refuels/years", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[2024,2023]", gjson.Get(w.Body.String(), "years").Raw)

	w = s.do(http.MethodGet, "/api/v1/refuels?year=2023", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, gjson.Get(w.Body.String(), "records").Array(), 1)

	w = s.do(http.MethodGet, "/api/v1/refuels", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, gjson.Get(w.Body.String(), "records").Array(), 3)
}

func TestRefuelStatsRejectsBadYear(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token := s.register(t, "year@example.com")

	for _, q := range []string{"abc", "1800", "12345"} {
		w := s.do(http.MethodGet, "/api/v1/refuels/stats?year="+q, token, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}

	w := s.do(http.MethodGet, "/api/v1/refuels/stats", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(time.Now().UTC().Year()), gjson.Get(w.Body.String(), "summary.year").Int())
	assert.Equal(t, "[]", gjson.Get(w.Body.String(), "records").Raw)
}

func TestRefuelCRUD(t *testing.T) {
	s := newTestServer(t, nil, nil)
	owner := s.register(t, "owner@example.com")
	other := s.register(t, "other@example.com")

	w := s.do(http.MethodPost, "/api/v1/refuels", owner, `{"date":"2024-06-01","volume":20,"price_per_unit":7.5}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := gjson.Get(w.Body.String(), "id").String()
	assert.Equal(t, 150.0, gjson.Get(w.Body.String(), "amount").Float())

	w = s.do(http.MethodPost, "/api/v1/refuels", owner, `{"date":"June 1","volume":20}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPost, "/api/v1/refuels", owner, `{"date":"2024-06-01"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/refuels/"+id, other, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPut, "/api/v1/refuels/"+id, owner, `{"date":"2024-06-02","volume":22,"amount":170,"odometer":12000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 12000.0, gjson.Get(w.Body.String(), "odometer").Float())

	w = s.do(http.MethodDelete, "/api/v1/refuels/"+id, other, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/refuels/"+id, owner, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/refuels/"+id, owner, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedback(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token := s.register(t, "fb@example.com")

	w := s.do(http.MethodPost, "/api/v1/feedback", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/feedback", token, `{"images":["not a url"],"content":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/feedback", token,
		`{"feeling":"good","content":"Love the yearly report","images":["https://cdn.example.com/a.png"],"meta":{"platform":"ios","app_version":"1.2.0"}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "ios", gjson.Get(w.Body.String(), "data.meta.platform").String())

	w = s.do(http.MethodGet, "/api/v1/feedback", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	items := gjson.Get(w.Body.String(), "feedback").Array()
	require.Len(t, items, 1)
	assert.Equal(t, "https://cdn.example.com/a.png", items[0].Get("images.0").String())
}

type memoryPutter struct {
	keys []string
}

func (m *memoryPutter) PutObject(_ context.Context, _, key string, r io.Reader, _ int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return minio.UploadInfo{}, err
	}
	m.keys = append(m.keys, key)
	return minio.UploadInfo{Key: key}, nil
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func (s *testServer) upload(token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestUploadImage(t *testing.T) {
	putter := &memoryPutter{}
	s := newTestServer(t, nil, func(svc *Services) {
		svc.Storage = services.NewStorageServiceWithClient(putter, "fuel", "https://cdn.example.com")
	})
	token := s.register(t, "up@example.com")

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	body, ct := multipartBody(t, "receipt.png", png)
	w := s.upload(token, body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, putter.keys, 1)
	assert.Equal(t, "https://cdn.example.com/"+putter.keys[0], gjson.Get(w.Body.String(), "url").String())

	body, ct = multipartBody(t, "notes.txt", []byte("hello"))
	w = s.upload(token, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, ct = multipartBody(t, "fake.png", []byte("plain text pretending"))
	w = s.upload(token, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, putter.keys, 1)
}

func TestUploadImageDisabled(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token := s.register(t, "noup@example.com")

	body, ct := multipartBody(t, "receipt.png", []byte("\x89PNG\r\n\x1a\n"))
	w := s.upload(token, body, ct)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
