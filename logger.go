package nslog

import (
	"fmt"
	"io"
	"os"

	"github.com/ubie-oss/nslog/adapters"
	"github.com/ubie-oss/nslog/core"
	"github.com/ubie-oss/nslog/sanitize"
)

// StructuredLogger classifica os argumentos de cada chamada e escreve uma
// linha JSON ou texto no Sink configurado. Não guarda estado mutável além da
// configuração recebida em New, então pode ser usado por várias goroutines.
type StructuredLogger struct {
	config    Config
	renderer  core.Renderer
	sink      core.Sink
	observer  core.Observer
	redaction *sanitize.SensitiveFieldConfig
	errOut    io.Writer
}

var _ core.Logger = (*StructuredLogger)(nil)

// New cria um StructuredLogger. Format e Color vazios assumem os valores
// padrão; qualquer outro valor inválido resulta em erro.
//
// Exemplo:
//
//	log, err := nslog.New(nslog.Config{LogLevel: core.VERBOSE, Format: core.FormatJSON})
//	log.Log("hello", map[string]any{"foo": "bar"}, "bootstrap")
func New(config Config) (*StructuredLogger, error) {
	if config.Format == "" {
		config.Format = DefaultFormat
	}
	if config.Color == "" {
		config.Color = DefaultColor
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	// Validate aceita maiúsculas e espaços; renderer e colorizer comparam com
	// as constantes
	config.Format, _ = core.ParseFormat(string(config.Format))
	config.Color, _ = ParseColorMode(string(config.Color))

	renderer := newRenderer(config)

	sink := config.Sink
	if sink == nil {
		sink = core.NewStdoutSink()
	}

	errOut := config.ErrorWriter
	if errOut == nil {
		errOut = os.Stderr
	}

	l := &StructuredLogger{
		config:   config,
		renderer: renderer,
		sink:     sink,
		observer: config.Observer,
		errOut:   errOut,
	}

	if config.Redact {
		redaction := sanitize.DefaultSensitiveFieldConfig()
		l.redaction = &redaction
	}

	return l, nil
}

// newRenderer escolhe o renderer pelo formato configurado
func newRenderer(config Config) core.Renderer {
	if config.Format == core.FormatJSON {
		return adapters.NewZerologRenderer(&adapters.ZerologConfig{Clock: config.Clock})
	}
	return core.NewTextFormatter(newColorizer(config.Color, config.Sink))
}

// newColorizer resolve o modo de cor. No modo auto só há cor quando o destino
// é um terminal; um sink nil significa a saída padrão.
func newColorizer(mode ColorMode, sink core.Sink) core.Colorizer {
	switch mode {
	case ColorNever:
		return core.PlainColorizer{}
	case ColorAuto:
		terminal := false
		if sink == nil {
			terminal = core.StdoutIsTerminal()
		} else if ws, ok := sink.(*core.WriterSink); ok {
			terminal = core.IsTerminal(ws.Writer())
		}
		if terminal {
			return core.NewANSIColorizer()
		}
		return core.PlainColorizer{}
	default:
		return core.NewANSIColorizer()
	}
}

// Config retorna a configuração do logger
func (l *StructuredLogger) Config() Config {
	return l.config
}

// Enabled indica se chamadas do nível especificado são emitidas
func (l *StructuredLogger) Enabled(severity core.Severity) bool {
	return severity >= l.config.LogLevel
}

// Verbose emite uma linha VERBOSE
func (l *StructuredLogger) Verbose(message any, params ...any) {
	l.emit(core.VERBOSE, message, params)
}

// Debug emite uma linha DEBUG
func (l *StructuredLogger) Debug(message any, params ...any) {
	l.emit(core.DEBUG, message, params)
}

// Log emite uma linha INFO
func (l *StructuredLogger) Log(message any, params ...any) {
	l.emit(core.INFO, message, params)
}

// Info é um alias de Log
func (l *StructuredLogger) Info(message any, params ...any) {
	l.emit(core.INFO, message, params)
}

// Warn emite uma linha WARN
func (l *StructuredLogger) Warn(message any, params ...any) {
	l.emit(core.WARN, message, params)
}

// Error emite uma linha ERROR. Aceita as formas Error(msg, stack) e
// Error(msg, stack, context), em que stack é um trace com frames
// "at arquivo:linha:coluna"; no formato texto o trace sai numa segunda linha.
func (l *StructuredLogger) Error(message any, params ...any) {
	if !l.Enabled(core.ERROR) {
		return
	}
	l.dispatch(core.ERROR, func() core.Record {
		return core.ClassifyError(message, params...)
	})
}

// Fatal emite uma linha FATAL. O processo não é encerrado.
func (l *StructuredLogger) Fatal(message any, params ...any) {
	l.emit(core.FATAL, message, params)
}

func (l *StructuredLogger) emit(severity core.Severity, message any, params []any) {
	if !l.Enabled(severity) {
		return
	}
	l.dispatch(severity, func() core.Record {
		return core.Classify(message, params...)
	})
}

// dispatch classifica, renderiza e escreve. Nenhuma falha chega ao chamador:
// pânicos durante a formatação viram uma linha de erro, falhas do sink são
// reportadas no ErrorWriter e pânicos do sink ou do observer também.
func (l *StructuredLogger) dispatch(severity core.Severity, classify func() core.Record) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(l.errOut, "nslog: recovered from panic while writing log record: %v\n", r)
		}
	}()

	lines := l.render(severity, classify)

	if err := l.write(lines); err != nil {
		fmt.Fprintf(l.errOut, "nslog: %v\n", err)
		return
	}

	if l.observer != nil {
		l.observer.Observe(severity)
	}
}

// write entrega as linhas de uma chamada. Um sink que implementa
// core.LinesWriter recebe todas numa única escrita, para que o trace de um
// ERROR fique colado à sua linha.
func (l *StructuredLogger) write(lines []string) error {
	if lw, ok := l.sink.(core.LinesWriter); ok && len(lines) > 1 {
		return lw.WriteLines(lines)
	}
	for _, line := range lines {
		if err := l.sink.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

func (l *StructuredLogger) render(severity core.Severity, classify func() core.Record) (lines []string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(l.errOut, "nslog: failed to format log record: %v\n", r)
			lines = []string{fmt.Sprintf("%s [nslog] failed to format log record: %v", core.ERROR, r)}
		}
	}()

	record := classify()
	if l.redaction != nil {
		record.Params = sanitize.Params(record.Params, *l.redaction)
	}
	return l.renderer.Render(severity, record)
}

// Funções helper globais para logging

// Verbose emite uma linha VERBOSE usando o logger global
func Verbose(message any, params ...any) {
	GetLogger().Verbose(message, params...)
}

// Debug emite uma linha DEBUG usando o logger global
func Debug(message any, params ...any) {
	GetLogger().Debug(message, params...)
}

// Log emite uma linha INFO usando o logger global
func Log(message any, params ...any) {
	GetLogger().Log(message, params...)
}

// Info é um alias de Log
func Info(message any, params ...any) {
	GetLogger().Log(message, params...)
}

// Warn emite uma linha WARN usando o logger global
func Warn(message any, params ...any) {
	GetLogger().Warn(message, params...)
}

// Error emite uma linha ERROR usando o logger global
func Error(message any, params ...any) {
	GetLogger().Error(message, params...)
}

// Fatal emite uma linha FATAL usando o logger global
func Fatal(message any, params ...any) {
	GetLogger().Fatal(message, params...)
}
