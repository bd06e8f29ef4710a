package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout 默认请求超时
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit 默认每秒请求数
	DefaultRateLimit = 10.0

	// maxErrorBody 错误响应体最多保留的字节数
	maxErrorBody = 4 << 10

	statusSuccess = "success"
)

// Client 课程后端 REST API 的客户端，带限流
// 可被多个 goroutine 并发使用
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    *url.URL
	token      string
	signer     *tokenSigner
	logger     *zap.Logger
}

// ClientOption 客户端配置选项
type ClientOption func(*Client)

// WithHTTPClient 使用自定义的 http.Client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout 设置请求超时
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithToken 使用固定的 Bearer token
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithJWTSecret 没有固定 token 时，用 HS256 密钥为每个请求签发服务 token
func WithJWTSecret(secret, issuer string, ttl time.Duration) ClientOption {
	return func(c *Client) {
		if secret != "" {
			c.signer = newTokenSigner([]byte(secret), issuer, ttl)
		}
	}
}

// WithRateLimit 设置每秒请求数与突发量，rps <= 0 表示不限流
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient 创建客户端，baseURL 必须是绝对地址
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrAPIBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrAPIBaseURL, baseURL)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		baseURL:    u,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// envelope 后端的统一响应结构，status/data 都是可选的
// 课程实体自身也有 status 字段（布尔值），因此 Status 不限定类型
type envelope struct {
	Status  any             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// callOptions 单次调用的解码要求
type callOptions struct {
	// requireSuccess 响应体必须带 status: "success"
	requireSuccess bool
}

// do 发送请求并把响应解码到 out（out 为 nil 时丢弃响应体）
func (c *Client) do(ctx context.Context, method, path string, body, out any, opts callOptions) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if err := c.authorize(req); err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("course api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(payload) > maxErrorBody {
			payload = payload[:maxErrorBody]
		}
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(payload)),
		}
	}

	return decodeEnvelope(payload, out, opts)
}

// decodeEnvelope 解析响应体
//   - 带 data 字段时解码 data（null 时不解码），否则解码整个响应体
//   - status 为 "error"/"fail"/"failed" 时返回 ErrUnsuccessful
//   - requireSuccess 时 status 必须为 "success"
func decodeEnvelope(payload []byte, out any, opts callOptions) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		if opts.requireSuccess {
			return fmt.Errorf("%w: empty response", ErrInvalidResponse)
		}
		return nil
	}

	var env envelope
	if trimmed[0] != '{' || json.Unmarshal(trimmed, &env) != nil {
		if opts.requireSuccess {
			return fmt.Errorf("%w: expected a status object", ErrInvalidResponse)
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(trimmed, out); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		return nil
	}

	status, _ := env.Status.(string)
	switch {
	case opts.requireSuccess && status != statusSuccess,
		status == "error" || status == "fail" || status == "failed":
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("status %v", env.Status)
		}
		return fmt.Errorf("%w: %s", ErrUnsuccessful, msg)
	}

	if out == nil {
		return nil
	}

	src := trimmed
	if len(env.Data) > 0 {
		// data: null 表示没有内容
		if string(env.Data) == "null" {
			return nil
		}
		src = env.Data
	}
	if err := json.Unmarshal(src, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) error {
	switch {
	case c.token != "":
		req.Header.Set("Authorization", "Bearer "+c.token)
	case c.signer != nil:
		token, err := c.signer.Token(time.Now())
		if err != nil {
			return fmt.Errorf("signing service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// pathf 拼接路径，参数做转义
func pathf(format string, args ...string) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(a)
	}
	return fmt.Sprintf(format, escaped...)
}
