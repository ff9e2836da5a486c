// Package session implements the compact HS256 token carried in the session
// cookie: base64url(header).base64url(claims).base64url(hmac).
package session

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fastjson"
)

const (
	claimIssuedAt  = "iat"
	claimExpiresAt = "exp"
)

var (
	jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

	// Strict rejects encodings with non-zero trailing bits so that a
	// signature has exactly one accepted spelling.
	segmentEncoding = base64.RawURLEncoding.Strict()

	encodedHeader = base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

	nowFunc = time.Now
)

// Claims is the opaque JSON object carried by a token.
type Claims map[string]any

// Sign encodes claims into a signed token. iat is always set to the current
// second; exp is added when an option resolves to a positive lifetime.
func Sign(claims Claims, secret []byte, opts ...SignOption) (string, error) {
	if len(secret) == 0 {
		return "", ErrMissingSecret
	}

	var cfg signConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	iat := nowFunc().Unix()
	body := make(map[string]any, len(claims)+2)
	for k, v := range claims {
		body[k] = v
	}
	body[claimIssuedAt] = iat
	if cfg.expiresIn > 0 {
		body[claimExpiresAt] = iat + cfg.expiresIn
	}

	raw, err := jsonCodec.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("session: encode claims: %w", err)
	}

	signingString := encodedHeader + "." + base64.RawURLEncoding.EncodeToString(raw)
	sig, err := hmacSegment(signingString, secret)
	if err != nil {
		return "", err
	}
	return signingString + "." + sig, nil
}

// Verify checks the token structure, signature and expiry, in that order,
// and returns the embedded claims.
func Verify(token string, secret []byte) (Claims, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrMalformedToken
	}
	for _, part := range parts {
		if !isSegment(part) {
			return nil, ErrMalformedToken
		}
	}

	sig, err := segmentEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, ErrSignatureMismatch
	}
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, secret); err != nil {
		return nil, ErrSignatureMismatch
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrMalformedPayload
	}
	if doc, err := fastjson.ParseBytes(payload); err != nil || doc.Type() != fastjson.TypeObject {
		return nil, ErrMalformedPayload
	}

	var claims Claims
	dec := jsonCodec.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&claims); err != nil {
		return nil, ErrMalformedPayload
	}

	if limit, ok := numericClaim(claims, claimExpiresAt); ok && float64(nowFunc().Unix()) >= limit {
		return nil, ErrTokenExpired
	}
	return claims, nil
}

// numericClaim reads a JSON number from decoded claims. Duplicate keys have
// already collapsed to their last occurrence.
func numericClaim(c Claims, key string) (float64, bool) {
	n, ok := c[key].(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	return f, err == nil
}

func hmacSegment(signingString string, secret []byte) (string, error) {
	sig, err := jwt.SigningMethodHS256.Sign(signingString, secret)
	if err != nil {
		return "", fmt.Errorf("session: sign: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(sig), nil
}

func isSegment(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
