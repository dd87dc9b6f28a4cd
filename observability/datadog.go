package observability

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/ubie-oss/nslog/core"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// Chaves adicionadas por TraceFields
const (
	TraceIDKey = "dd.trace_id"
	SpanIDKey  = "dd.span_id"
)

// Métricas emitidas pelo StatsdObserver
const (
	LinesMetric  = "nslog.lines"
	ErrorsMetric = "nslog.errors"
)

// DatadogConfig contém a configuração para integração com Datadog
type DatadogConfig struct {
	// AgentHost define o endereço do DogStatsD
	AgentHost string
	// ServiceName define o nome do serviço
	ServiceName string
	// Environment define o ambiente (dev, staging, prod)
	Environment string
	// Version define a versão da aplicação
	Version string
	// GlobalTags são adicionadas a todas as métricas
	GlobalTags []string
}

// DefaultDatadogConfig retorna a configuração a partir das variáveis DD_*
func DefaultDatadogConfig() DatadogConfig {
	return DatadogConfig{
		AgentHost:   getEnvOrDefault("DD_DOGSTATSD_URL", "localhost:8125"),
		ServiceName: getEnvOrDefault("DD_SERVICE", "unknown-service"),
		Environment: getEnvOrDefault("DD_ENV", "development"),
		Version:     getEnvOrDefault("DD_VERSION", "1.0.0"),
		GlobalTags:  parseEnvTags("DD_TAGS"),
	}
}

// Tags retorna as tags globais do serviço
func (c DatadogConfig) Tags() []string {
	tags := []string{
		"service:" + c.ServiceName,
		"env:" + c.Environment,
		"version:" + c.Version,
	}
	return append(tags, c.GlobalTags...)
}

// NewStatsdClient cria um cliente DogStatsD com as tags globais do serviço
func NewStatsdClient(config DatadogConfig) (*statsd.Client, error) {
	client, err := statsd.New(config.AgentHost, statsd.WithTags(config.Tags()))
	if err != nil {
		return nil, fmt.Errorf("failed to create statsd client: %w", err)
	}
	return client, nil
}

// StatsdObserver implementa core.Observer contando as linhas emitidas por
// severidade. Falhas do cliente são ignoradas.
type StatsdObserver struct {
	client statsd.ClientInterface
	tags   []string
}

var _ core.Observer = (*StatsdObserver)(nil)

// NewStatsdObserver cria um observer sobre o cliente especificado. As tags
// são adicionadas a todas as métricas.
func NewStatsdObserver(client statsd.ClientInterface, tags ...string) *StatsdObserver {
	return &StatsdObserver{client: client, tags: tags}
}

// Observe incrementa nslog.lines e, para ERROR e FATAL, nslog.errors
func (o *StatsdObserver) Observe(severity core.Severity) {
	if o.client == nil {
		return
	}

	tags := make([]string, 0, len(o.tags)+1)
	tags = append(tags, o.tags...)
	tags = append(tags, "severity:"+strings.ToLower(severity.String()))

	_ = o.client.Incr(LinesMetric, tags, 1)
	if severity >= core.ERROR {
		_ = o.client.Incr(ErrorsMetric, tags, 1)
	}
}

// TraceFields retorna os IDs do span ativo no contexto como um mapping pronto
// para ser passado a um ponto de entrada:
//
//	log.Log("charge created", observability.TraceFields(ctx), "Billing")
//
// Sem span, o mapping é vazio.
func TraceFields(ctx context.Context) core.Fields {
	fields := core.NewFields()
	if ctx == nil {
		return fields
	}
	span, ok := tracer.SpanFromContext(ctx)
	if !ok {
		return fields
	}

	spanContext := span.Context()
	return fields.
		Str(TraceIDKey, strconv.FormatUint(spanContext.TraceID(), 10)).
		Str(SpanIDKey, strconv.FormatUint(spanContext.SpanID(), 10))
}

// getEnvOrDefault retorna o valor da variável de ambiente ou o valor padrão
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseEnvTags parseia tags no formato "key1:value1,key2:value2"
func parseEnvTags(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var tags []string
	for _, pair := range strings.Split(value, ",") {
		if pair = strings.TrimSpace(pair); pair != "" {
			tags = append(tags, pair)
		}
	}
	return tags
}
