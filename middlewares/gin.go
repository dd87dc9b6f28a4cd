package middlewares

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ubie-oss/nslog/core"
)

// GinMiddleware cria um middleware do Gin que emite uma linha
// "HTTP request completed" por requisição, com contexto HTTP
func GinMiddleware(config MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Verificar se o path deve ser ignorado
		if shouldSkipPath(c.Request.URL.Path, config.SkipPaths) {
			c.Next()
			return
		}

		// Verificar sampling rate
		if !shouldSample(config.SamplingRate) {
			c.Next()
			return
		}

		start := time.Now()

		// Extrair ou gerar request ID
		requestID := requestIDFromHeaders(c.GetHeader)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(core.WithRequestID(c.Request.Context(), requestID))

		fields := requestFields(c.Request.Method, c.Request.URL.Path, requestID).
			Str("remote_ip", c.ClientIP())
		if query := c.Request.URL.RawQuery; query != "" {
			fields = fields.Str("query", query)
		}
		fields = addHeaders(fields, c.GetHeader, config)

		if config.LogRequestBody && shouldLogBody(c.ContentType(), c.Request.ContentLength, config.MaxBodySize) {
			fields = addGinRequestBody(fields, c, config)
		}

		logStarted(config, fields)

		// Criar response writer que captura a resposta
		var writer *responseLogWriter
		if config.LogResponseBody {
			writer = &responseLogWriter{
				ResponseWriter: c.Writer,
				body:           &bytes.Buffer{},
				maxSize:        config.MaxBodySize,
			}
			c.Writer = writer
		}

		// Processar requisição
		c.Next()

		status := c.Writer.Status()
		fields = completedFields(fields, status, time.Since(start)).
			Int("size", c.Writer.Size())

		if writer != nil && writer.body.Len() > 0 {
			fields = fields.Str("response_body", sanitizeBody(writer.body.Bytes(), config.SensitiveFields))
		}
		if len(c.Errors) > 0 {
			fields = fields.Str("errors", c.Errors.String())
		}

		logCompleted(config.Logger, status, fields)
	}
}

// addGinRequestBody lê o body, restaura para os handlers e adiciona a versão
// sanitizada aos campos
func addGinRequestBody(fields core.Fields, c *gin.Context, config MiddlewareConfig) core.Fields {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return fields.Str("request_body_error", err.Error())
	}

	// Restaurar o body para os handlers
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	return fields.Str("request_body", sanitizeBody(body, config.SensitiveFields))
}

// responseLogWriter é um wrapper do ResponseWriter que captura a resposta
type responseLogWriter struct {
	gin.ResponseWriter
	body    *bytes.Buffer
	maxSize int64
}

// Write implementa io.Writer
func (w *responseLogWriter) Write(data []byte) (int, error) {
	// Capturar body se não exceder o tamanho máximo
	if int64(w.body.Len()+len(data)) <= w.maxSize {
		w.body.Write(data)
	}
	return w.ResponseWriter.Write(data)
}

// WriteString implementa io.StringWriter
func (w *responseLogWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}
