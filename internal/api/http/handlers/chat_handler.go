package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/repcrafter/gateway/internal/service"
)

// ChatHandler proxies chat messages to the workflow webhook.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler constructs handler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Preflight handles OPTIONS /api/chat.
func (h *ChatHandler) Preflight(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Send handles POST /api/chat.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	body := decodeLenient[map[string]any](c)
	if body == nil {
		body = map[string]any{}
	}

	resp, err := h.chat.Send(c.UserContext(), claimsOf(c), body)
	if err != nil {
		return err
	}

	c.Status(resp.Status)
	if resp.JSON {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	}
	return c.Send(resp.Body)
}
