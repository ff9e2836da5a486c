package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/repcrafter/gateway/internal/observability"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewApp builds the fiber app with jsoniter codecs and global middlewares.
func NewApp(name string, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})
	RegisterMiddlewares(app, logger, metrics, timeout)
	return app
}
