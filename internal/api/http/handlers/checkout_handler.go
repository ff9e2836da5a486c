package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/repcrafter/gateway/internal/api/dto"
	"github.com/repcrafter/gateway/internal/auth"
	"github.com/repcrafter/gateway/internal/service"
)

// CheckoutHandler creates billing checkout pages.
type CheckoutHandler struct {
	checkout *service.CheckoutService
}

// NewCheckoutHandler constructs handler.
func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Create handles POST /api/checkout.
func (h *CheckoutHandler) Create(c *fiber.Ctx) error {
	req := decodeLenient[dto.CheckoutRequest](c)

	sess, err := h.checkout.Create(c.UserContext(), claimsOf(c), service.CheckoutInput{
		PriceID:  req.PriceID,
		Interval: req.Interval,
		ReturnTo: req.ReturnTo,
	}, auth.Origin(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.CheckoutResponse{URL: sess.URL})
}
