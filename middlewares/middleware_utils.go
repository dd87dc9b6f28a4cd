package middlewares

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ubie-oss/nslog/core"
	"github.com/ubie-oss/nslog/sanitize"
)

// Rótulos de contexto usados pelos middlewares
const (
	HTTPContext = "HTTP"
	GRPCContext = "gRPC"
)

// RequestIDHeader é o header devolvido com o request ID da chamada
const RequestIDHeader = "X-Request-ID"

// MiddlewareConfig define a configuração comum dos middlewares HTTP e gRPC
type MiddlewareConfig struct {
	// Logger recebe as linhas de requisição (obrigatório)
	Logger core.Logger
	// LoggedHeaders define quais headers devem ser logados
	LoggedHeaders []string
	// SensitiveHeaders define headers que devem ser mascarados
	SensitiveHeaders []string
	// SensitiveHeaderPatterns define padrões regex para headers sensíveis
	SensitiveHeaderPatterns []*regexp.Regexp
	// SensitiveFields define campos que devem ser sanitizados no body
	SensitiveFields []string
	// LogRequestBody habilita logging do body da requisição
	LogRequestBody bool
	// LogResponseBody habilita logging do body da resposta
	LogResponseBody bool
	// MaxBodySize define o tamanho máximo do body para logging (em bytes)
	MaxBodySize int64
	// SamplingRate define a taxa de amostragem para logs (0.0 a 1.0)
	SamplingRate float64
	// SkipPaths define prefixos de path (ou métodos gRPC) ignorados
	SkipPaths []string
	// LogStart emite também uma linha DEBUG no início da requisição
	LogStart bool
}

// DefaultMiddlewareConfig retorna uma configuração padrão para os middlewares
func DefaultMiddlewareConfig(logger core.Logger) MiddlewareConfig {
	return MiddlewareConfig{
		Logger: logger,
		LoggedHeaders: []string{
			"User-Agent", "Content-Type", "Accept", "Accept-Language",
			"X-Forwarded-For", "X-Real-IP",
		},
		SensitiveHeaders: []string{
			"Authorization", "Cookie", "Set-Cookie", "X-API-Key",
			"X-Auth-Token", "Bearer", "Basic",
		},
		SensitiveHeaderPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)authorization`),
			regexp.MustCompile(`(?i)cookie`),
			regexp.MustCompile(`(?i)token`),
			regexp.MustCompile(`(?i)api[_-]?key`),
			regexp.MustCompile(`(?i)secret`),
		},
		SensitiveFields: []string{
			"password", "senha", "token", "secret", "api_key",
			"credit_card", "cpf", "cnpj", "authorization",
		},
		MaxBodySize:  64 * 1024, // 64KB
		SamplingRate: 1.0,       // 100% por padrão
		SkipPaths: []string{
			"/health", "/metrics", "/ping", "/favicon.ico",
		},
	}
}

// WithLoggedHeaders configura os headers que devem ser logados
func (c MiddlewareConfig) WithLoggedHeaders(headers ...string) MiddlewareConfig {
	c.LoggedHeaders = headers
	return c
}

// WithSensitiveHeaders configura os headers que devem ser mascarados
func (c MiddlewareConfig) WithSensitiveHeaders(headers ...string) MiddlewareConfig {
	c.SensitiveHeaders = headers
	return c
}

// WithSensitiveFields configura os campos que devem ser sanitizados
func (c MiddlewareConfig) WithSensitiveFields(fields ...string) MiddlewareConfig {
	c.SensitiveFields = fields
	return c
}

// WithRequestBodyLogging habilita/desabilita logging do body da requisição
func (c MiddlewareConfig) WithRequestBodyLogging(enabled bool) MiddlewareConfig {
	c.LogRequestBody = enabled
	return c
}

// WithResponseBodyLogging habilita/desabilita logging do body da resposta
func (c MiddlewareConfig) WithResponseBodyLogging(enabled bool) MiddlewareConfig {
	c.LogResponseBody = enabled
	return c
}

// WithMaxBodySize configura o tamanho máximo do body para logging
func (c MiddlewareConfig) WithMaxBodySize(size int64) MiddlewareConfig {
	c.MaxBodySize = size
	return c
}

// WithSamplingRate configura a taxa de amostragem
func (c MiddlewareConfig) WithSamplingRate(rate float64) MiddlewareConfig {
	if rate < 0.0 {
		rate = 0.0
	}
	if rate > 1.0 {
		rate = 1.0
	}
	c.SamplingRate = rate
	return c
}

// WithSkipPaths configura paths que devem ser ignorados
func (c MiddlewareConfig) WithSkipPaths(paths ...string) MiddlewareConfig {
	c.SkipPaths = paths
	return c
}

// WithStartLogging habilita/desabilita a linha de início da requisição
func (c MiddlewareConfig) WithStartLogging(enabled bool) MiddlewareConfig {
	c.LogStart = enabled
	return c
}

// GenerateRequestID gera um novo ID único para requisições
func GenerateRequestID() string {
	return uuid.New().String()
}

// shouldSkipPath verifica se um path deve ser ignorado
func shouldSkipPath(path string, skipPaths []string) bool {
	for _, skipPath := range skipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}
	return false
}

// shouldSample verifica se deve fazer sampling baseado na taxa configurada
func shouldSample(rate float64) bool {
	if rate >= 1.0 {
		return true
	}
	if rate <= 0.0 {
		return false
	}
	// Implementação simples de sampling baseada no UUID
	id := uuid.New()
	hash := float64(id[0]) / 255.0
	return hash < rate
}

// extractRequestIDFromHeaders extrai request ID de headers comuns
func extractRequestIDFromHeaders(getHeader func(string) string) string {
	// Tentar extrair de headers comuns em ordem de prioridade
	headers := []string{RequestIDHeader, "X-Correlation-ID", "X-Trace-ID"}

	for _, header := range headers {
		if requestID := getHeader(header); requestID != "" {
			return requestID
		}
	}

	return ""
}

// requestIDFromHeaders extrai o request ID ou gera um novo
func requestIDFromHeaders(getHeader func(string) string) string {
	if requestID := extractRequestIDFromHeaders(getHeader); requestID != "" {
		return requestID
	}
	return GenerateRequestID()
}

// isSensitiveHeader verifica se um header é sensível
func isSensitiveHeader(header string, config MiddlewareConfig) bool {
	for _, sensitive := range config.SensitiveHeaders {
		if strings.EqualFold(sensitive, header) {
			return true
		}
	}

	for _, pattern := range config.SensitiveHeaderPatterns {
		if pattern.MatchString(header) {
			return true
		}
	}

	return false
}

// maskSensitiveData mascara dados sensíveis
func maskSensitiveData(data string) string {
	if len(data) <= 8 {
		return sanitize.Mask
	}
	return data[:4] + sanitize.Mask
}

// sanitizeHeaderValue sanitiza o valor de um header se necessário
func sanitizeHeaderValue(header, value string, config MiddlewareConfig) string {
	if isSensitiveHeader(header, config) {
		return maskSensitiveData(value)
	}
	return value
}

// normalizeHeaderName normaliza o nome de um header para uso em logs
func normalizeHeaderName(header string) string {
	return "header_" + strings.ToLower(strings.ReplaceAll(header, "-", "_"))
}

// addHeaders adiciona os headers configurados aos campos do log
func addHeaders(fields core.Fields, getHeader func(string) string, config MiddlewareConfig) core.Fields {
	for _, header := range config.LoggedHeaders {
		if value := getHeader(header); value != "" {
			fields = fields.Str(normalizeHeaderName(header), sanitizeHeaderValue(header, value, config))
		}
	}
	return fields
}

// sanitizeBody sanitiza o body usando o pacote sanitize
func sanitizeBody(body []byte, sensitiveFields []string) string {
	if len(body) == 0 {
		return ""
	}

	config := sanitize.DefaultSensitiveFieldConfig()
	config.MaskCompletely = append(config.MaskCompletely, sensitiveFields...)

	if sanitized, err := sanitize.JSON(body, config); err == nil {
		return string(sanitized)
	}

	// Se não for JSON válido, sanitizar como string
	return sanitize.String(string(body), config)
}

// isJSONContent verifica se o content type é JSON
func isJSONContent(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

// isXMLContent verifica se o content type é XML
func isXMLContent(contentType string) bool {
	contentTypeLower := strings.ToLower(contentType)
	return strings.Contains(contentTypeLower, "application/xml") ||
		strings.Contains(contentTypeLower, "text/xml")
}

// isTextContent verifica se o content type é texto
func isTextContent(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "text/")
}

// shouldLogBody verifica se o body deve ser logado baseado no content type e tamanho
func shouldLogBody(contentType string, bodySize int64, maxSize int64) bool {
	if bodySize <= 0 || bodySize > maxSize {
		return false
	}

	// Logar apenas content types conhecidos e seguros
	return isJSONContent(contentType) || isXMLContent(contentType) || isTextContent(contentType)
}

// requestFields cria os campos base de uma requisição
func requestFields(method, path, requestID string) core.Fields {
	return core.NewFields().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID)
}

// completedFields acrescenta status e duração aos campos base
func completedFields(fields core.Fields, status int, duration time.Duration) core.Fields {
	return fields.
		Int("status", status).
		Int("duration_ms", int(duration.Milliseconds()))
}

// logStarted emite a linha DEBUG de início quando habilitada
func logStarted(config MiddlewareConfig, fields core.Fields) {
	if config.LogStart {
		config.Logger.Debug("HTTP request started", fields, HTTPContext)
	}
}

// logCompleted escolhe o ponto de entrada pelo status: <400 log, 4xx warn,
// 5xx error
func logCompleted(logger core.Logger, status int, fields core.Fields) {
	const message = "HTTP request completed"
	switch {
	case status >= 500:
		logger.Error(message, fields, HTTPContext)
	case status >= 400:
		logger.Warn(message, fields, HTTPContext)
	default:
		logger.Log(message, fields, HTTPContext)
	}
}

// truncateString trunca uma string se exceder o tamanho máximo
func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}
