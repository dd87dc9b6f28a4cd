package core

import (
	"errors"
	"fmt"
	"strings"
)

// Severity representa os níveis de log disponíveis, em ordem crescente
type Severity int

const (
	// VERBOSE representa o nível mais detalhado, abaixo de DEBUG
	VERBOSE Severity = iota
	// DEBUG representa o nível de debug para informações detalhadas de depuração
	DEBUG
	// INFO representa o nível de informação (ponto de entrada "log")
	INFO
	// WARN representa o nível de aviso para situações que merecem atenção
	WARN
	// ERROR representa o nível de erro, o único que aceita stack trace
	ERROR
	// FATAL representa o nível fatal para erros críticos
	FATAL
)

// ErrInvalidSeverity é retornado quando um nome de severidade não é reconhecido
var ErrInvalidSeverity = errors.New("invalid severity")

// Severities retorna todos os níveis em ordem crescente
func Severities() []Severity {
	return []Severity{VERBOSE, DEBUG, INFO, WARN, ERROR, FATAL}
}

// String retorna o rótulo em maiúsculas do nível
func (s Severity) String() string {
	switch s {
	case VERBOSE:
		return "VERBOSE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Valid indica se o nível pertence à escala
func (s Severity) Valid() bool {
	return s >= VERBOSE && s <= FATAL
}

// Color retorna a cor associada ao nível
func (s Severity) Color() Color {
	switch s {
	case VERBOSE:
		return CyanBright
	case INFO:
		return Green
	case DEBUG:
		return MagentaBright
	case WARN:
		return Yellow
	case ERROR:
		return Red
	case FATAL:
		return Bold
	default:
		return Plain
	}
}

// ParseSeverity converte um nome em Severity. Aceita "log" como alias de INFO
// e "warning" como alias de WARN, sem diferenciar maiúsculas.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "verbose":
		return VERBOSE, nil
	case "debug":
		return DEBUG, nil
	case "log", "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	case "fatal":
		return FATAL, nil
	default:
		return INFO, fmt.Errorf("%w: %q", ErrInvalidSeverity, name)
	}
}

// MarshalText permite que Severity seja usado em arquivos de configuração
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSeverity, int(s))
	}
	return []byte(strings.ToLower(s.String())), nil
}

// UnmarshalText implementa encoding.TextUnmarshaler
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Format define o formato de saída das linhas de log
type Format string

const (
	// FormatText produz uma linha colorida legível por humanos
	FormatText Format = "text"
	// FormatJSON produz um objeto JSON compacto por linha
	FormatJSON Format = "json"
)

// ErrInvalidFormat é retornado quando o formato não é "text" nem "json"
var ErrInvalidFormat = errors.New("invalid format")

// ParseFormat valida e normaliza um nome de formato
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return FormatText, fmt.Errorf("%w: %q", ErrInvalidFormat, name)
	}
}

// Logger é a superfície de chamada consumida pelas integrações (middlewares,
// pgx). Cada ponto de entrada recebe uma mensagem de qualquer tipo seguida de
// parâmetros opcionais; nenhuma chamada retorna erro.
type Logger interface {
	Verbose(message any, params ...any)
	Debug(message any, params ...any)
	Log(message any, params ...any)
	Warn(message any, params ...any)
	Error(message any, params ...any)
	Fatal(message any, params ...any)
}

// Renderer transforma um Record classificado em linhas de saída, sem
// quebra de linha final. Implementações não devem ter estado mutável.
type Renderer interface {
	Render(severity Severity, record Record) []string
}

// Sink é o único destino observável das linhas renderizadas
type Sink interface {
	WriteLine(line string) error
}

// LinesWriter é implementado por sinks capazes de escrever várias linhas de
// uma chamada de forma atômica
type LinesWriter interface {
	WriteLines(lines []string) error
}

// Observer é notificado depois que uma chamada foi escrita no Sink
type Observer interface {
	Observe(severity Severity)
}
