package core

import "context"

// contextKey é um tipo personalizado para chaves de contexto para evitar colisões
type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID adiciona um request ID ao contexto
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID extrai o request ID do contexto
func GetRequestID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok && requestID != ""
}
