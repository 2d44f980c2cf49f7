// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/menurec/internal/logging"
)

// ErrMissingToken is returned when no bearer token is present.
var ErrMissingToken = errors.New("missing bearer token")

// reloadAudience is required in reload tokens so tokens minted for other
// services sharing the secret are rejected.
const reloadAudience = "menurec-reload"

// ReloadAuth verifies HS256 bearer tokens on the reload endpoint.
type ReloadAuth struct {
	secret []byte
}

// NewReloadAuth returns nil when secret is empty, which disables the check.
func NewReloadAuth(secret string) *ReloadAuth {
	if secret == "" {
		return nil
	}
	return &ReloadAuth{secret: []byte(secret)}
}

// IssueToken signs a reload token for subject valid for ttl.
func (a *ReloadAuth) IssueToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Audience:  jwt.ClaimStrings{reloadAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses tokenString and returns its subject.
func (a *ReloadAuth) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(reloadAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}

// Middleware rejects requests without a valid bearer token. A nil
// ReloadAuth passes every request through.
func (a *ReloadAuth) Middleware(next http.Handler) http.Handler {
	if a == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err == nil {
			var subject string
			if subject, err = a.Validate(token); err == nil {
				logging.Ctx(r.Context()).Debug().Str("subject", subject).Msg("reload token accepted")
				next.ServeHTTP(w, r)
				return
			}
			err = fmt.Errorf("token %s: %w", logging.SanitizeToken(token), err)
		}
		w.Header().Set("WWW-Authenticate", `Bearer realm="menurec"`)
		respondError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Valid bearer token required", err)
	})
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("malformed authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
