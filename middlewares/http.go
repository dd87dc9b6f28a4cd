package middlewares

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ubie-oss/nslog/core"
)

// HTTPMiddleware cria um middleware net/http (compatível com Chi) que emite
// uma linha "HTTP request completed" por requisição, com contexto HTTP
func HTTPMiddleware(config MiddlewareConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Verificar se o path deve ser ignorado
			if shouldSkipPath(r.URL.Path, config.SkipPaths) {
				next.ServeHTTP(w, r)
				return
			}

			// Verificar sampling rate
			if !shouldSample(config.SamplingRate) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()

			// Extrair ou gerar request ID
			requestID := requestIDFromHeaders(r.Header.Get)
			w.Header().Set(RequestIDHeader, requestID)
			r = r.WithContext(core.WithRequestID(r.Context(), requestID))

			fields := requestFields(r.Method, r.URL.Path, requestID).
				Str("remote_ip", clientIP(r))
			if r.URL.RawQuery != "" {
				fields = fields.Str("query", r.URL.RawQuery)
			}
			fields = addHeaders(fields, r.Header.Get, config)

			if config.LogRequestBody && shouldLogBody(r.Header.Get("Content-Type"), r.ContentLength, config.MaxBodySize) {
				fields = addHTTPRequestBody(fields, r, config)
			}

			logStarted(config, fields)

			// Criar response writer que captura status e resposta
			writer := &statusRecorder{
				ResponseWriter: w,
				status:         http.StatusOK,
				maxSize:        config.MaxBodySize,
			}
			if config.LogResponseBody {
				writer.body = &bytes.Buffer{}
			}

			// Processar requisição
			next.ServeHTTP(writer, r)

			fields = completedFields(fields, writer.status, time.Since(start)).
				Int("size", writer.size)
			if writer.body != nil && writer.body.Len() > 0 {
				fields = fields.Str("response_body", sanitizeBody(writer.body.Bytes(), config.SensitiveFields))
			}

			logCompleted(config.Logger, writer.status, fields)
		})
	}
}

// addHTTPRequestBody lê o body, restaura para os handlers e adiciona a versão
// sanitizada aos campos
func addHTTPRequestBody(fields core.Fields, r *http.Request, config MiddlewareConfig) core.Fields {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fields.Str("request_body_error", err.Error())
	}

	// Restaurar o body para os handlers
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	return fields.Str("request_body", sanitizeBody(body, config.SensitiveFields))
}

// clientIP extrai o IP do cliente considerando headers de proxy
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		// X-Forwarded-For pode conter múltiplos IPs, pegar o primeiro
		if idx := strings.Index(ip, ","); idx != -1 {
			return strings.TrimSpace(ip[:idx])
		}
		return strings.TrimSpace(ip)
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// statusRecorder é um wrapper do ResponseWriter que guarda status, tamanho e,
// opcionalmente, o body da resposta
type statusRecorder struct {
	http.ResponseWriter
	body        *bytes.Buffer
	maxSize     int64
	size        int
	status      int
	wroteHeader bool
}

// WriteHeader implementa http.ResponseWriter
func (w *statusRecorder) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write implementa io.Writer
func (w *statusRecorder) Write(data []byte) (int, error) {
	w.wroteHeader = true
	if w.body != nil && int64(w.body.Len()+len(data)) <= w.maxSize {
		w.body.Write(data)
	}

	n, err := w.ResponseWriter.Write(data)
	w.size += n
	return n, err
}

// Flush implementa http.Flusher se o ResponseWriter original suportar
func (w *statusRecorder) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Hijack implementa http.Hijacker se o ResponseWriter original suportar
func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Unwrap expõe o writer original para http.ResponseController
func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
