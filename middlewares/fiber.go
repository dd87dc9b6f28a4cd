package middlewares

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ubie-oss/nslog/core"
)

// FiberMiddleware cria um middleware do Fiber que emite uma linha
// "HTTP request completed" por requisição, com contexto HTTP
func FiberMiddleware(config MiddlewareConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Verificar se o path deve ser ignorado
		if shouldSkipPath(c.Path(), config.SkipPaths) {
			return c.Next()
		}

		// Verificar sampling rate
		if !shouldSample(config.SamplingRate) {
			return c.Next()
		}

		start := time.Now()

		// Extrair ou gerar request ID
		requestID := requestIDFromHeaders(func(header string) string {
			return c.Get(header)
		})
		c.Set(RequestIDHeader, requestID)
		c.SetUserContext(core.WithRequestID(c.UserContext(), requestID))

		fields := requestFields(c.Method(), c.Path(), requestID).
			Str("remote_ip", c.IP())
		if query := c.Request().URI().QueryString(); len(query) > 0 {
			fields = fields.Str("query", string(query))
		}
		fields = addHeaders(fields, func(header string) string {
			return c.Get(header)
		}, config)

		body := c.Body()
		if config.LogRequestBody && shouldLogBody(string(c.Request().Header.ContentType()), int64(len(body)), config.MaxBodySize) {
			fields = fields.Str("request_body", sanitizeBody(body, config.SensitiveFields))
		}

		logStarted(config, fields)

		// Processar requisição
		err := c.Next()

		status := fiberStatus(c, err)
		fields = completedFields(fields, status, time.Since(start)).
			Int("size", len(c.Response().Body()))

		if config.LogResponseBody {
			if body := c.Response().Body(); len(body) > 0 && int64(len(body)) <= config.MaxBodySize {
				fields = fields.Str("response_body", sanitizeBody(body, config.SensitiveFields))
			}
		}
		if err != nil {
			fields = fields.Err(err)
		}

		logCompleted(config.Logger, status, fields)

		return err
	}
}

// fiberStatus resolve o status final. Um erro retornado pelo handler só vira
// resposta no error handler do app, depois do middleware.
func fiberStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}
