package amigos

import (
	"errors"
	"strings"
)

// DefaultPrefix is the URI-scheme prefix of an amigo QR payload.
const DefaultPrefix = "bottle-amigo:"

// ErrInvalidPayload rejects a scanned code before any network call.
var ErrInvalidPayload = errors.New("amigos: invalid qr payload")

// Codec embeds amigo tokens in QR payloads.
type Codec struct {
	prefix string
}

func NewCodec(prefix string) Codec {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Codec{prefix: prefix}
}

func (c Codec) Prefix() string {
	return c.prefix
}

// Encode returns prefix + token.
func (c Codec) Encode(token string) string {
	return c.prefix + token
}

// Decode strips the prefix and returns the token. A missing or different
// prefix, or an empty token, is ErrInvalidPayload.
func (c Codec) Decode(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if !strings.HasPrefix(payload, c.prefix) {
		return "", ErrInvalidPayload
	}
	token := strings.TrimPrefix(payload, c.prefix)
	if token == "" || strings.TrimSpace(token) != token {
		return "", ErrInvalidPayload
	}
	return token, nil
}

// EncodePayload uses DefaultPrefix.
func EncodePayload(token string) string {
	return NewCodec(DefaultPrefix).Encode(token)
}

// DecodePayload uses DefaultPrefix.
func DecodePayload(payload string) (string, error) {
	return NewCodec(DefaultPrefix).Decode(payload)
}
