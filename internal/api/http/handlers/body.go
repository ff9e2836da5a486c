package handlers

import (
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/repcrafter/gateway/internal/auth"
	"github.com/repcrafter/gateway/internal/session"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// decodeLenient decodes a JSON body into a T. Empty or invalid bodies yield
// the zero value; these endpoints treat every body field as optional.
func decodeLenient[T any](c *fiber.Ctx) T {
	var out T
	body := c.Body()
	if len(body) == 0 {
		return out
	}
	var parsed T
	if err := json.Unmarshal(body, &parsed); err != nil {
		return out
	}
	return parsed
}

// claimsOf returns the session claims loaded by the session middleware.
func claimsOf(c *fiber.Ctx) *session.SessionClaims {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil
	}
	return principal.Claims
}
