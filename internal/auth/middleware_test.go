package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/repcrafter/gateway/internal/observability"
	"github.com/repcrafter/gateway/internal/session"
)

func newSessionApp(t *testing.T, tokens *session.Manager, metrics *observability.Metrics) *fiber.App {
	t.Helper()
	mw := NewSessionMiddleware(tokens, CookieOptions{}, zap.NewNop(), metrics)
	app := fiber.New()
	app.Get("/whoami", mw.Load, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(p.Claims.Subject)
	})
	return app
}

func whoami(t *testing.T, app *fiber.App, cookie string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if cookie != "" {
		req.Header.Set("Cookie", "session="+cookie)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return buf.String()
}

func TestSessionMiddleware_Load(t *testing.T) {
	tokens := session.NewManager("s3cr3t", time.Hour)
	metrics := observability.NewMetrics()
	app := newSessionApp(t, tokens, metrics)

	token, _, err := tokens.Issue(session.SessionClaims{Subject: "u1", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if got := whoami(t, app, token); got != "u1" {
		t.Fatalf("expected u1, got %q", got)
	}
	if got := whoami(t, app, ""); got != "anonymous" {
		t.Fatalf("expected anonymous without cookie, got %q", got)
	}
	if got := whoami(t, app, token+"x"); got != "anonymous" {
		t.Fatalf("expected anonymous for tampered cookie, got %q", got)
	}

	forged, _, err := session.NewManager("other", time.Hour).Issue(session.SessionClaims{Subject: "u2"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if got := whoami(t, app, forged); got != "anonymous" {
		t.Fatalf("expected anonymous for foreign secret, got %q", got)
	}

	failures := metrics.Snapshot().AuthFailures
	if failures["signature"] != 2 {
		t.Fatalf("expected two signature failures, got %v", failures)
	}
}

func TestSessionCookies(t *testing.T) {
	app := fiber.New()
	opts := CookieOptions{MaxAge: 30 * 24 * time.Hour}
	app.Post("/login", func(c *fiber.Ctx) error {
		SetSessionCookie(c, opts, "a.b.c")
		return c.SendStatus(fiber.StatusOK)
	})
	app.Post("/logout", func(c *fiber.Ctx) error {
		ClearSessionCookie(c, opts)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("X-Forwarded-Proto", "https, http")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	set := resp.Header.Get("Set-Cookie")
	for _, want := range []string{"session=a.b.c", "path=/", "max-age=2592000", "HttpOnly", "secure", "SameSite=Lax"} {
		if !strings.Contains(strings.ToLower(set), strings.ToLower(want)) {
			t.Fatalf("cookie %q missing %q", set, want)
		}
	}

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("X-Forwarded-Proto", "http")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	set = strings.ToLower(resp.Header.Get("Set-Cookie"))
	if !strings.Contains(set, "session=;") || !strings.Contains(set, "expires=") {
		t.Fatalf("cookie not cleared: %q", set)
	}
	if strings.Contains(set, "secure") {
		t.Fatalf("plain http must not set Secure: %q", set)
	}
}

func TestOrigin(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(Origin(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "app.example.com"
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	buf := new(strings.Builder)
	_, _ = io.Copy(buf, resp.Body)
	if buf.String() != "https://app.example.com" {
		t.Fatalf("unexpected origin %q", buf.String())
	}
}
