package auth

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultCookieName is the cookie carrying the session token.
const DefaultCookieName = "session"

// CookieOptions controls how the session cookie is written.
type CookieOptions struct {
	Name   string
	MaxAge time.Duration
}

func (o CookieOptions) name() string {
	if o.Name == "" {
		return DefaultCookieName
	}
	return o.Name
}

// SetSessionCookie stores token in an HttpOnly, SameSite=Lax cookie scoped to /.
func SetSessionCookie(c *fiber.Ctx, opts CookieOptions, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     opts.name(),
		Value:    url.QueryEscape(token),
		Path:     "/",
		MaxAge:   int(opts.MaxAge / time.Second),
		Secure:   IsHTTPS(c),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie in the browser.
func ClearSessionCookie(c *fiber.Ctx, opts CookieOptions) {
	c.Cookie(&fiber.Cookie{
		Name:     opts.name(),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   IsHTTPS(c),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ReadSessionCookie returns the URL-decoded session token, or "" when absent.
func ReadSessionCookie(c *fiber.Ctx, opts CookieOptions) string {
	raw := c.Cookies(opts.name())
	if raw == "" {
		return ""
	}
	if decoded, err := url.QueryUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// IsHTTPS trusts the first X-Forwarded-Proto value, falling back to the connection.
func IsHTTPS(c *fiber.Ctx) bool {
	if xf := c.Get(fiber.HeaderXForwardedProto); xf != "" {
		first, _, _ := strings.Cut(xf, ",")
		return strings.TrimSpace(first) == "https"
	}
	return c.Context().IsTLS()
}

// Origin returns scheme://host for the request, defaulting the scheme to https.
func Origin(c *fiber.Ctx) string {
	proto := "https"
	if xf := c.Get(fiber.HeaderXForwardedProto); xf != "" {
		first, _, _ := strings.Cut(xf, ",")
		if first = strings.TrimSpace(first); first != "" {
			proto = first
		}
	}
	return proto + "://" + c.Hostname()
}
