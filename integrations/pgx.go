package integrations

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/ubie-oss/nslog/core"
	"github.com/ubie-oss/nslog/sanitize"
)

// PgxContext é o rótulo de contexto das linhas emitidas pelo PgxLogger
const PgxContext = "pgx"

// Padrões para sanitizar valores em queries SQL
var sqlPatterns = []struct {
	regex       *regexp.Regexp
	replacement string
}{
	// Strings entre aspas simples
	{regexp.MustCompile(`'[^']*'`), `'***'`},
	// UUIDs (antes dos números, que casariam com o último grupo)
	{regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`), `***-***-***-***-***`},
	// Padrões de email
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), `***@***.***`},
	// Números que podem ser IDs ou valores sensíveis (mais de 6 dígitos)
	{regexp.MustCompile(`\b\d{7,}\b`), `***`},
}

// PgxLoggerConfig define a configuração para o logger PGX
type PgxLoggerConfig struct {
	// MinLevel define o nível mínimo de log
	MinLevel tracelog.LogLevel
	// SanitizeQueries habilita sanitização de queries SQL
	SanitizeQueries bool
	// SanitizeArgs habilita sanitização de argumentos de query
	SanitizeArgs bool
	// MaxQueryLength define o tamanho máximo da query para logging
	MaxQueryLength int
	// Logger recebe as linhas do pgx
	Logger core.Logger
}

// DefaultPgxLoggerConfig retorna uma configuração padrão para o logger PGX
func DefaultPgxLoggerConfig(logger core.Logger) PgxLoggerConfig {
	return PgxLoggerConfig{
		MinLevel:        tracelog.LogLevelInfo,
		SanitizeQueries: true,
		SanitizeArgs:    true,
		MaxQueryLength:  1000,
		Logger:          logger,
	}
}

// WithMinLevel configura o nível mínimo de log
func (c PgxLoggerConfig) WithMinLevel(level tracelog.LogLevel) PgxLoggerConfig {
	c.MinLevel = level
	return c
}

// WithSanitizeQueries configura se queries devem ser sanitizadas
func (c PgxLoggerConfig) WithSanitizeQueries(enabled bool) PgxLoggerConfig {
	c.SanitizeQueries = enabled
	return c
}

// WithSanitizeArgs configura se argumentos devem ser sanitizados
func (c PgxLoggerConfig) WithSanitizeArgs(enabled bool) PgxLoggerConfig {
	c.SanitizeArgs = enabled
	return c
}

// WithMaxQueryLength configura o tamanho máximo da query
func (c PgxLoggerConfig) WithMaxQueryLength(length int) PgxLoggerConfig {
	c.MaxQueryLength = length
	return c
}

// PgxLogger implementa a interface tracelog.Logger do PGX sobre um core.Logger
type PgxLogger struct {
	config PgxLoggerConfig
}

var _ tracelog.Logger = (*PgxLogger)(nil)

// NewPgxLogger cria uma nova instância do logger PGX
func NewPgxLogger(config PgxLoggerConfig) *PgxLogger {
	return &PgxLogger{config: config}
}

// Log implementa a interface tracelog.Logger. Os dados do pgx viram um
// mapping, em ordem alfabética de chave, seguido do contexto "pgx".
func (pl *PgxLogger) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	if pl.config.Logger == nil || level == tracelog.LogLevelNone || level > pl.config.MinLevel {
		return
	}

	fields := pl.buildFields(ctx, data)

	switch level {
	case tracelog.LogLevelTrace:
		pl.config.Logger.Verbose(msg, fields, PgxContext)
	case tracelog.LogLevelDebug:
		pl.config.Logger.Debug(msg, fields, PgxContext)
	case tracelog.LogLevelWarn:
		pl.config.Logger.Warn(msg, fields, PgxContext)
	case tracelog.LogLevelError:
		pl.config.Logger.Error(msg, fields, PgxContext)
	default:
		pl.config.Logger.Log(msg, fields, PgxContext)
	}
}

// buildFields converte os dados do pgx em campos, sanitizando sql e args
func (pl *PgxLogger) buildFields(ctx context.Context, data map[string]any) core.Fields {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := core.NewFields()
	for _, k := range keys {
		v := data[k]
		switch k {
		case "sql":
			if sql, ok := v.(string); ok {
				fields = fields.Str(k, pl.sanitizeQuery(sql))
			} else {
				fields = fields.Any(k, v)
			}
		case "args":
			if pl.config.SanitizeArgs {
				fields = fields.Str(k, "[REDACTED]")
			} else {
				fields = fields.Any(k, formatArgs(v))
			}
		case "time":
			// Converter duração para milliseconds
			if duration, ok := v.(time.Duration); ok {
				fields = fields.Float64("duration_ms", float64(duration.Microseconds())/1000)
			} else {
				fields = fields.Any(k, v)
			}
		default:
			fields = fields.Any(k, v)
		}
	}

	if requestID, ok := core.GetRequestID(ctx); ok {
		fields = fields.Str("request_id", requestID)
	}
	return fields
}

// sanitizeQuery trunca e, se habilitado, remove literais de uma query SQL
func (pl *PgxLogger) sanitizeQuery(query string) string {
	if pl.config.MaxQueryLength > 0 && len(query) > pl.config.MaxQueryLength {
		query = query[:pl.config.MaxQueryLength] + "..."
	}
	if !pl.config.SanitizeQueries {
		return query
	}

	query = sanitize.String(query, sanitize.DefaultSensitiveFieldConfig())
	for _, p := range sqlPatterns {
		query = p.regex.ReplaceAllString(query, p.replacement)
	}
	return query
}

// formatArgs converte os argumentos em texto para não depender da
// serialização dos tipos do driver
func formatArgs(v any) any {
	args, ok := v.([]any)
	if !ok {
		return v
	}
	formatted := make([]any, len(args))
	for i, arg := range args {
		switch arg.(type) {
		case nil, string, bool, int, int32, int64, float32, float64:
			formatted[i] = arg
		default:
			formatted[i] = fmt.Sprintf("%v", arg)
		}
	}
	return formatted
}

// ConfigurePgxPool configura um pgxpool.Config existente para usar o logger PGX
func ConfigurePgxPool(config *pgxpool.Config, loggerConfig PgxLoggerConfig) {
	config.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   NewPgxLogger(loggerConfig),
		LogLevel: loggerConfig.MinLevel,
	}
}

// NewPgxPool cria um novo pool PGX pré-configurado com logging
func NewPgxPool(ctx context.Context, connString string, loggerConfig PgxLoggerConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	ConfigurePgxPool(config, loggerConfig)

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

// NewPgxPoolProduction cria um pool PGX com configurações para produção:
// apenas warnings e erros, sempre sanitizados
func NewPgxPoolProduction(ctx context.Context, connString string, logger core.Logger) (*pgxpool.Pool, error) {
	config := DefaultPgxLoggerConfig(logger).
		WithMinLevel(tracelog.LogLevelWarn).
		WithMaxQueryLength(500)

	return NewPgxPool(ctx, connString, config)
}

// NewPgxPoolDevelopment cria um pool PGX com configurações para desenvolvimento
func NewPgxPoolDevelopment(ctx context.Context, connString string, logger core.Logger) (*pgxpool.Pool, error) {
	config := DefaultPgxLoggerConfig(logger).
		WithMinLevel(tracelog.LogLevelDebug).
		WithSanitizeQueries(false).
		WithSanitizeArgs(false).
		WithMaxQueryLength(2000)

	return NewPgxPool(ctx, connString, config)
}
