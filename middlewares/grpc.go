package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/ubie-oss/nslog/core"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// maxGRPCErrorLength limita a mensagem de erro anexada à linha
const maxGRPCErrorLength = 512

// UnaryServerInterceptor cria um interceptor gRPC que emite uma linha
// "gRPC call completed" por chamada, com contexto gRPC. SkipPaths é comparado
// com o nome completo do método (/pacote.Servico/Metodo).
func UnaryServerInterceptor(config MiddlewareConfig) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if shouldSkipPath(info.FullMethod, config.SkipPaths) || !shouldSample(config.SamplingRate) {
			return handler(ctx, req)
		}

		start := time.Now()

		md, _ := metadata.FromIncomingContext(ctx)
		requestID := requestIDFromHeaders(func(header string) string {
			if values := md.Get(header); len(values) > 0 {
				return values[0]
			}
			return ""
		})
		ctx = core.WithRequestID(ctx, requestID)
		// SetHeader só falha fora de um stream de servidor (interceptor chamado
		// diretamente); o header de resposta é opcional e a linha sai mesmo assim.
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := core.NewFields().
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Int("duration_ms", int(time.Since(start).Milliseconds())).
			Str("request_id", requestID)

		logGRPCCompleted(config.Logger, code, fields, err)

		return resp, err
	}
}

// logGRPCCompleted escolhe o ponto de entrada pelo código: OK é log, erros do
// cliente são warn e os demais são error. O erro vai como parâmetro opaco.
func logGRPCCompleted(logger core.Logger, code codes.Code, fields core.Fields, err error) {
	const message = "gRPC call completed"
	if code == codes.OK {
		logger.Log(message, fields, GRPCContext)
		return
	}

	callErr := errors.New(truncateString(status.Convert(err).Message(), maxGRPCErrorLength))
	if isClientCode(code) {
		logger.Warn(message, fields, callErr, GRPCContext)
		return
	}
	logger.Error(message, fields, callErr, GRPCContext)
}

// isClientCode indica códigos causados pela requisição do cliente
func isClientCode(code codes.Code) bool {
	switch code {
	case codes.Canceled, codes.InvalidArgument, codes.NotFound, codes.AlreadyExists,
		codes.PermissionDenied, codes.Unauthenticated, codes.FailedPrecondition,
		codes.OutOfRange, codes.ResourceExhausted, codes.Aborted:
		return true
	default:
		return false
	}
}
