package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/repcrafter/gateway/internal/observability"
	"github.com/repcrafter/gateway/internal/session"
)

const principalKey = "auth_principal"

// Principal represents the caller identified by a valid session cookie.
type Principal struct {
	Claims *session.SessionClaims
}

// SessionMiddleware attaches the session principal when the cookie verifies.
// Requests without a valid session continue anonymously.
type SessionMiddleware struct {
	tokens  *session.Manager
	cookie  CookieOptions
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *session.Manager, cookie CookieOptions, logger *zap.Logger, metrics *observability.Metrics) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, cookie: cookie, logger: logger, metrics: metrics}
}

// Load verifies the session cookie and stores the principal in the context.
func (m *SessionMiddleware) Load(c *fiber.Ctx) error {
	token := ReadSessionCookie(c, m.cookie)
	if token == "" {
		return c.Next()
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		kind := session.Kind(err)
		m.metrics.RecordAuthFailure(string(kind))
		m.logger.Debug("session rejected",
			zap.String("request_id", observability.RequestID(c)),
			zap.String("kind", string(kind)),
			zap.NamedError("reason", err))
		return c.Next()
	}

	c.Locals(principalKey, &Principal{Claims: claims})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
