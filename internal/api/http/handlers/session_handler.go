package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/repcrafter/gateway/internal/api/dto"
	"github.com/repcrafter/gateway/internal/auth"
	"github.com/repcrafter/gateway/internal/service"
)

// SessionHandler exposes sign-in, session status and sign-out.
type SessionHandler struct {
	auth        *service.AuthService
	cookie      auth.CookieOptions
	disableAuth bool
}

// NewSessionHandler constructs handler. With disableAuth every caller is
// reported as a signed-in, paying user.
func NewSessionHandler(authService *service.AuthService, cookie auth.CookieOptions, disableAuth bool) *SessionHandler {
	return &SessionHandler{auth: authService, cookie: cookie, disableAuth: disableAuth}
}

// GoogleVerify handles POST /api/auth/google-verify.
func (h *SessionHandler) GoogleVerify(c *fiber.Ctx) error {
	req := decodeLenient[dto.GoogleVerifyRequest](c)

	res, err := h.auth.SignIn(c.UserContext(), req.Credential)
	if err != nil {
		return err
	}

	auth.SetSessionCookie(c, h.cookie, res.Token)
	return c.JSON(dto.SignInResponse{OK: true, ExpiresAt: res.ExpiresAt})
}

// Me handles GET /api/me. Invalid sessions are reported as anonymous, never as errors.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	if h.disableAuth {
		return c.JSON(dto.MeResponse{Authenticated: true, Paid: true, Bypass: true})
	}

	status := h.auth.Status(c.UserContext(), claimsOf(c))
	return c.JSON(dto.MeResponse{
		Authenticated:    status.Authenticated,
		Paid:             status.Paid,
		Email:            status.Email,
		StripeCustomerID: status.StripeCustomerID,
	})
}

// Logout handles POST /api/logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	h.auth.SignOut(c.UserContext(), claimsOf(c))
	auth.ClearSessionCookie(c, h.cookie)
	return c.JSON(dto.OKResponse{OK: true})
}
