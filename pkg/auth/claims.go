package auth

import (
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// CookieTokenPayload captures the data available when minting a portal cookie.
type CookieTokenPayload struct {
	SessionID string
	Portal    enums.Portal
	SubjectID string
	Role      enums.StaffRole
	StoreID   string
}

// CookieTokenClaims is the typed JWT carried in a portal session cookie. The
// jti is the Redis session id; the BFF bearer token never leaves the server.
type CookieTokenClaims struct {
	Portal  enums.Portal    `json:"portal"`
	Role    enums.StaffRole `json:"role,omitempty"`
	StoreID string          `json:"store_id,omitempty"`
	jwt.RegisteredClaims
}
