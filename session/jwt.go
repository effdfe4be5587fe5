// Copyright 2026 The Centreon Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"centreon.dev/web/acl"
)

// Claims is the token payload understood by JWT.
type Claims struct {
	jwt.RegisteredClaims

	Login  string   `json:"login"`
	Admin  bool     `json:"admin,omitempty"`
	Routes []string `json:"acl,omitempty"`
}

// JWT reads HS256 tokens from the Authorization header or a cookie.
// The "acl" claim lists the route names the holder may reach; admins reach
// every route.
type JWT struct {
	secret []byte
	cookie string
	issuer string
	now    func() time.Time
}

// JWTOption configures a JWT store.
type JWTOption func(*JWT)

// WithCookie also reads tokens from the named cookie.
func WithCookie(name string) JWTOption {
	return func(j *JWT) { j.cookie = name }
}

// WithIssuer sets and requires the "iss" claim.
func WithIssuer(iss string) JWTOption {
	return func(j *JWT) { j.issuer = iss }
}

// WithClock overrides the time source used for issuing tokens.
func WithClock(now func() time.Time) JWTOption {
	return func(j *JWT) { j.now = now }
}

// NewJWT creates a token store signing with secret.
func NewJWT(secret []byte, opts ...JWTOption) *JWT {
	j := &JWT{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Issue signs a token for u granting routes, valid for ttl.
func (j *JWT) Issue(u User, routes []string, ttl time.Duration) (string, error) {
	now := j.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Login:  u.Login,
		Admin:  u.Admin,
		Routes: routes,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Load implements Store. Requests without a token are anonymous; a token
// that fails verification yields an anonymous session and ErrInvalidToken.
func (j *JWT) Load(r *http.Request) (*Session, error) {
	raw, ok := j.token(r)
	if !ok {
		return Anonymous(), nil
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}, opts...)
	if err != nil {
		return Anonymous(), errors.Join(ErrInvalidToken, err)
	}

	var ev acl.Evaluator = acl.NewSet(claims.Routes...)
	if claims.Admin {
		ev = acl.AllowAll
	}

	return &Session{
		ID:   claims.ID,
		User: &User{ID: claims.Subject, Login: claims.Login, Admin: claims.Admin},
		ACL:  ev,
	}, nil
}

func (j *JWT) token(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); raw != "" {
			return raw, true
		}
	}
	if j.cookie != "" {
		if c, err := r.Cookie(j.cookie); err == nil && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}
