package api

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTokenTTL 服务 token 默认有效期
	DefaultTokenTTL = 15 * time.Minute

	// tokenSubject 服务 token 的 sub
	tokenSubject = "course-admin"

	// tokenRefreshSkew 离过期不足该时长时重新签发
	tokenRefreshSkew = 30 * time.Second
)

var errEmptySecret = errors.New("jwt secret is empty")

// tokenSigner 用 HS256 签发服务 token，签发结果在过期前复用
type tokenSigner struct {
	secret []byte
	issuer string
	ttl    time.Duration

	mu      sync.Mutex
	token   string
	expires time.Time
}

func newTokenSigner(secret []byte, issuer string, ttl time.Duration) *tokenSigner {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &tokenSigner{secret: secret, issuer: issuer, ttl: ttl}
}

// Token 返回 now 时刻可用的 token
func (s *tokenSigner) Token(now time.Time) (string, error) {
	if len(s.secret) == 0 {
		return "", errEmptySecret
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && now.Add(tokenRefreshSkew).Before(s.expires) {
		return s.token, nil
	}

	expires := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   tokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}

	s.token = signed
	s.expires = expires
	return signed, nil
}
