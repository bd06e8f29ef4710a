package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-course-admin/pkg/form"
)

// recordedRequest 测试服务器收到的请求
type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

// newTestServer 启动一个按路径返回固定响应的测试服务器
func newTestServer(t *testing.T, routes map[string]func(w http.ResponseWriter)) (*httptest.Server, func() []recordedRequest) {
	t.Helper()

	var (
		mu       sync.Mutex
		requests []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.EscapedPath(), Auth: r.Header.Get("Authorization")}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		mu.Lock()
		requests = append(requests, rec)
		mu.Unlock()

		handler, ok := routes[r.Method+" "+r.URL.EscapedPath()]
		if !ok {
			http.Error(w, `{"message":"no route"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func reply(status int, body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func newTestClient(t *testing.T, baseURL string, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithRateLimit(0, 0)}, opts...)
	c, err := NewClient(baseURL, opts...)
	require.NoError(t, err)
	return c
}

// ============================================================================
// 客户端构造测试
// ============================================================================

func TestNewClient_BaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "空地址", baseURL: "  ", wantErr: true},
		{name: "缺少协议", baseURL: "api.example.com", wantErr: true},
		{name: "合法地址", baseURL: "https://api.example.com/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.baseURL)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrAPIBaseURL)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// ============================================================================
// 课程接口测试
// ============================================================================

func TestClient_UpdateCourse(t *testing.T) {
	srv, requests := newTestServer(t, map[string]func(http.ResponseWriter){
		"PUT /api/courses/c-1": reply(http.StatusOK, `{"status":"success","data":{"uuid":"c-1"}}`),
	})
	c := newTestClient(t, srv.URL, WithToken("static-token"))

	err := c.UpdateCourse(context.Background(), "c-1", form.Data{
		"seo_title": "New Title",
		"price":     form.Undefined,
	})
	require.NoError(t, err)

	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, "Bearer static-token", got[0].Auth)
	// Undefined 值不会出现在负载中
	assert.Equal(t, map[string]any{"seo_title": "New Title"}, got[0].Body)
}

func TestClient_GetCourse(t *testing.T) {
	srv, _ := newTestServer(t, map[string]func(http.ResponseWriter){
		"GET /api/courses/c-1": reply(http.StatusOK, `{"data":{"uuid":"c-1","course_name":"ECG","status":true}}`),
		"GET /api/courses/c-2": reply(http.StatusOK, `{"uuid":"c-2","status":false}`),
	})
	c := newTestClient(t, srv.URL)

	course, err := c.GetCourse(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, "ECG", course["course_name"])

	// 没有信封时解码整个响应体，课程自身的布尔 status 不被当作失败
	course, err = c.GetCourse(context.Background(), "c-2")
	require.NoError(t, err)
	assert.Equal(t, false, course["status"])
}

func TestClient_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c := newTestClient(t, srv.URL)

	_, err := c.GetCourseSettings(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "/api/course-settings/course/missing", apiErr.Path)
}

func TestClient_EmptySettingsIsNotFound(t *testing.T) {
	srv, _ := newTestServer(t, map[string]func(http.ResponseWriter){
		"GET /api/course-settings/course/c-1": reply(http.StatusOK, `{"status":"success","data":null}`),
	})
	c := newTestClient(t, srv.URL)

	_, err := c.GetCourseSettings(context.Background(), "c-1")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_ServerError(t *testing.T) {
	srv, _ := newTestServer(t, map[string]func(http.ResponseWriter){
		"PUT /api/course-pricing/c-1": reply(http.StatusInternalServerError, strings.Repeat("x", maxErrorBody*2)),
	})
	c := newTestClient(t, srv.URL)

	err := c.UpdateCoursePricing(context.Background(), "c-1", form.Data{"price": float64(100)})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Len(t, apiErr.Body, maxErrorBody)
	assert.False(t, IsNotFound(err))
}

func TestClient_PathEscaping(t *testing.T) {
	srv, requests := newTestServer(t, map[string]func(http.ResponseWriter){
		"PUT /api/course-settings/a%2Fb": reply(http.StatusOK, `{}`),
	})
	c := newTestClient(t, srv.URL)

	require.NoError(t, c.UpdateCourseSettings(context.Background(), "a/b", form.Data{"faq": "x"}))
	assert.Equal(t, "/api/course-settings/a%2Fb", requests()[0].Path)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := newTestClient(t, base, WithTimeout(time.Second))
	err := c.UpdateCourse(context.Background(), "c-1", form.Data{"title": "x"})

	assert.ErrorIs(t, err, ErrNetwork)
}

// ============================================================================
// 批量接口测试
// ============================================================================

func TestClient_BulkCalls(t *testing.T) {
	ok := reply(http.StatusOK, `{"status":"success"}`)
	srv, requests := newTestServer(t, map[string]func(http.ResponseWriter){
		"PUT /api/courses/c-1/eligibility/bulk":                    ok,
		"PUT /api/instructors-linking/course/c-1/instructors/bulk": ok,
		"PUT /api/courses/c-1/accreditation-partners/bulk":         ok,
		"PUT /api/courses/c-1/clinical-observership-partners/bulk": ok,
	})
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, c.BulkCourseEligibility(ctx, "c-1", []string{"e-1"}))
	require.NoError(t, c.BulkLinkInstructors(ctx, "c-1", []string{"i-1", "i-2"}))
	require.NoError(t, c.BulkAccreditationPartners(ctx, "c-1", []string{"a-1"}))
	require.NoError(t, c.BulkClinicalObservershipPartners(ctx, "c-1", []string{"p-1"}))

	got := requests()
	require.Len(t, got, 4)
	assert.Equal(t, []any{"e-1"}, got[0].Body["eligibility_uuids"])
	assert.Equal(t, []any{"i-1", "i-2"}, got[1].Body["instructor_uuids"])
	assert.Equal(t, []any{"a-1"}, got[2].Body["accreditation_partner_uuids"])
	assert.Equal(t, []any{"p-1"}, got[3].Body["clinical_observership_partner_uuids"])
}

func TestClient_BulkRequiresSuccessStatus(t *testing.T) {
	srv, _ := newTestServer(t, map[string]func(http.ResponseWriter){
		"PUT /api/courses/c-1/eligibility/bulk":                    reply(http.StatusOK, `{"status":"error","message":"unknown eligibility"}`),
		"PUT /api/instructors-linking/course/c-1/instructors/bulk": reply(http.StatusOK, `{}`),
	})
	c := newTestClient(t, srv.URL)

	err := c.BulkCourseEligibility(context.Background(), "c-1", []string{"e-1"})
	assert.ErrorIs(t, err, ErrUnsuccessful)
	assert.Contains(t, err.Error(), "unknown eligibility")

	err = c.BulkLinkInstructors(context.Background(), "c-1", []string{"i-1"})
	assert.ErrorIs(t, err, ErrUnsuccessful)
}

// ============================================================================
// 认证与限流测试
// ============================================================================

func TestClient_JWTSigner(t *testing.T) {
	srv, requests := newTestServer(t, map[string]func(http.ResponseWriter){
		"PUT /api/courses/c-1": reply(http.StatusOK, `{}`),
	})
	c := newTestClient(t, srv.URL, WithJWTSecret("s3cret", "katydid", time.Minute))

	require.NoError(t, c.UpdateCourse(context.Background(), "c-1", form.Data{"title": "x"}))
	require.NoError(t, c.UpdateCourse(context.Background(), "c-1", form.Data{"title": "y"}))

	got := requests()
	require.Len(t, got, 2)
	// 有效期内复用同一个 token
	assert.Equal(t, got[0].Auth, got[1].Auth)

	raw := strings.TrimPrefix(got[0].Auth, "Bearer ")
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte("s3cret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "katydid", claims.Issuer)
	assert.Equal(t, tokenSubject, claims.Subject)
}

func TestTokenSigner_Refresh(t *testing.T) {
	s := newTokenSigner([]byte("k"), "iss", time.Minute)
	now := time.Now()

	first, err := s.Token(now)
	require.NoError(t, err)

	same, err := s.Token(now.Add(10 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, first, same)

	// 接近过期时重新签发
	renewed, err := s.Token(now.Add(time.Minute - tokenRefreshSkew/2))
	require.NoError(t, err)
	assert.NotEqual(t, first, renewed)

	_, err = newTokenSigner(nil, "", 0).Token(now)
	assert.Error(t, err)
}

func TestClient_StaticTokenWins(t *testing.T) {
	srv, requests := newTestServer(t, map[string]func(http.ResponseWriter){
		"PUT /api/courses/c-1": reply(http.StatusOK, `{}`),
	})
	c := newTestClient(t, srv.URL, WithJWTSecret("s3cret", "", 0), WithToken("static"))

	require.NoError(t, c.UpdateCourse(context.Background(), "c-1", form.Data{"title": "x"}))
	assert.Equal(t, "Bearer static", requests()[0].Auth)
}

func TestClient_RateLimitHonorsContext(t *testing.T) {
	srv, requests := newTestServer(t, map[string]func(http.ResponseWriter){
		"PUT /api/courses/c-1": reply(http.StatusOK, `{}`),
	})
	c := newTestClient(t, srv.URL, WithRateLimit(0.01, 1))

	require.NoError(t, c.UpdateCourse(context.Background(), "c-1", form.Data{"title": "x"}))

	// 令牌已用完，下一次请求在上下文截止前拿不到令牌
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.UpdateCourse(ctx, "c-1", form.Data{"title": "y"})

	assert.Error(t, err)
	assert.Len(t, requests(), 1)
}
