package adapters

import (
	"bytes"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/ubie-oss/nslog/core"
)

// TimeFormat é o formato ISO-8601 em UTC com milissegundos usado no campo "time"
const TimeFormat = "2006-01-02T15:04:05.000Z"

// Nomes das chaves fixas do registro JSON
const (
	SeverityKey   = "severity"
	TimeKey       = "time"
	MessageKey    = "message"
	StackTraceKey = "stack_trace"
	ContextKey    = "context"
	ParamsKey     = "params"
)

// ZerologRenderer implementa core.Renderer produzindo um objeto JSON compacto
// por chamada. O objeto é montado em ordem (severity, time, message,
// stack_trace, context, campos dos mappings, params) e codificado por um
// evento zerolog.
type ZerologRenderer struct {
	clock func() time.Time
}

// ZerologConfig define as opções do ZerologRenderer
type ZerologConfig struct {
	// Clock fornece o instante do campo "time" (padrão: time.Now)
	Clock func() time.Time
}

// NewZerologRenderer cria um novo renderer JSON. Se config for nil, usa
// time.Now como relógio.
func NewZerologRenderer(config *ZerologConfig) *ZerologRenderer {
	clock := time.Now
	if config != nil && config.Clock != nil {
		clock = config.Clock
	}
	return &ZerologRenderer{clock: clock}
}

// Render implementa core.Renderer
func (z *ZerologRenderer) Render(severity core.Severity, record core.Record) []string {
	fields := z.BuildFields(severity, record)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	event := logger.Log()
	for _, field := range fields {
		if core.KindOf(field.Value) == core.KindUndefined {
			continue
		}
		event = addFieldToEvent(event, field.Key, field.Value)
	}
	event.Send()

	return []string{strings.TrimSuffix(buf.String(), "\n")}
}

// BuildFields monta o registro ordenado. Chaves de mappings são mescladas no
// nível superior e podem sobrescrever qualquer chave anterior, inclusive
// severity, time e message. Valores verdadeiros que não são mappings vão, em
// ordem, para o array "params"; valores falsos são descartados.
func (z *ZerologRenderer) BuildFields(severity core.Severity, record core.Record) core.Fields {
	fields := core.NewFields().
		Str(SeverityKey, severity.String()).
		Str(TimeKey, z.clock().UTC().Format(TimeFormat)).
		Str(MessageKey, record.Message)

	if record.Stack != "" {
		fields = fields.Str(StackTraceKey, record.Stack)
	}
	if record.Context != "" {
		fields = fields.Str(ContextKey, record.Context)
	}

	var params []any
	for _, param := range record.Params {
		if mapping, ok := core.ToFields(param); ok {
			for _, field := range mapping {
				fields = fields.Set(field.Key, field.Value)
			}
		} else if core.Truthy(param) {
			if params == nil {
				// reserva a posição da chave no primeiro uso
				fields = fields.Set(ParamsKey, nil)
			}
			params = append(params, core.JSONValue(param))
		}
	}
	if params != nil {
		fields = fields.Set(ParamsKey, params)
	}

	return fields
}

// addFieldToEvent adiciona um campo ao evento zerolog, tratando tipos especiais
func addFieldToEvent(event *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case nil:
		return event.Interface(key, nil)
	case string:
		return event.Str(key, v)
	case int:
		return event.Int(key, v)
	case int32:
		return event.Int32(key, v)
	case int64:
		return event.Int64(key, v)
	case float32:
		return event.Float32(key, v)
	case float64:
		return event.Float64(key, v)
	case bool:
		return event.Bool(key, v)
	case error:
		return event.Interface(key, core.JSONValue(v))
	default:
		return event.Interface(key, v)
	}
}
