package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/bottle-amigo/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MintCookieToken issues a signed JWT for the portal session cookie.
func MintCookieToken(cfg config.SessionConfig, now time.Time, payload CookieTokenPayload) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("session secret is required")
	}
	if cfg.TTL <= 0 {
		return "", fmt.Errorf("session ttl must be positive")
	}
	if !payload.Portal.IsValid() {
		return "", fmt.Errorf("invalid portal %q", payload.Portal)
	}
	if payload.Role != "" && !payload.Role.IsValid() {
		return "", fmt.Errorf("invalid staff role %q", payload.Role)
	}
	sid := strings.TrimSpace(payload.SessionID)
	if sid == "" {
		return "", fmt.Errorf("session id is required")
	}

	claims := CookieTokenClaims{
		Portal:  payload.Portal,
		Role:    payload.Role,
		StoreID: payload.StoreID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   payload.SubjectID,
			Audience:  jwt.ClaimStrings{string(payload.Portal)},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
			ID:        sid,
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing session cookie: %w", err)
	}
	return signed, nil
}

// ParseCookieToken validates the cookie JWT for the expected portal.
func ParseCookieToken(cfg config.SessionConfig, portalName string, tokenString string) (*CookieTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}

	claims := &CookieTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(portalName),
	)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("session id missing")
	}
	return claims, nil
}
