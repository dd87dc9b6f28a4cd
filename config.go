package nslog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/ubie-oss/nslog/core"
)

// ColorMode define quando o formato texto usa cores ANSI
type ColorMode string

const (
	// ColorAlways colore sempre, independentemente do destino
	ColorAlways ColorMode = "always"
	// ColorNever nunca colore
	ColorNever ColorMode = "never"
	// ColorAuto colore apenas quando o destino é um terminal
	ColorAuto ColorMode = "auto"
)

// ErrInvalidColorMode é retornado para modos de cor desconhecidos
var ErrInvalidColorMode = errors.New("invalid color mode")

// ParseColorMode valida e normaliza um modo de cor
func ParseColorMode(mode string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(mode))); m {
	case ColorAlways, ColorNever, ColorAuto:
		return m, nil
	default:
		return DefaultColor, fmt.Errorf("%w: %q", ErrInvalidColorMode, mode)
	}
}

// Config define a configuração de um StructuredLogger. LogLevel e Format são
// as duas opções do logger; os demais campos são pontos de injeção com
// padrões neutros.
type Config struct {
	// LogLevel define o nível mínimo emitido
	LogLevel core.Severity
	// Format seleciona o renderer (text ou json)
	Format core.Format
	// Color controla as cores do formato texto
	Color ColorMode
	// Redact habilita o mascaramento de campos sensíveis nos mappings
	Redact bool
	// Sink recebe as linhas renderizadas (padrão: saída padrão)
	Sink core.Sink
	// Observer é notificado a cada chamada emitida (opcional)
	Observer core.Observer
	// ErrorWriter recebe falhas internas do logger (padrão: os.Stderr)
	ErrorWriter io.Writer
	// Clock fornece o instante do campo "time" (padrão: time.Now)
	Clock func() time.Time
}

// Constantes para valores padrão
const (
	// DefaultLogLevel é o nível de log padrão
	DefaultLogLevel = core.INFO
	// DefaultFormat é o formato padrão
	DefaultFormat = core.FormatText
	// DefaultColor é o modo de cor padrão
	DefaultColor = ColorAlways
)

// Constantes para nomes de variáveis de ambiente
const (
	// EnvLogLevel é o nome da variável de ambiente para o nível de log
	EnvLogLevel = "NSLOG_LOG_LEVEL"
	// EnvFormat é o nome da variável de ambiente para o formato de saída
	EnvFormat = "NSLOG_FORMAT"
	// EnvColor é o nome da variável de ambiente para o modo de cor
	EnvColor = "NSLOG_COLOR"
	// EnvRedact é o nome da variável de ambiente para o mascaramento
	EnvRedact = "NSLOG_REDACT"
)

// Variáveis globais para o logger padrão
var (
	defaultLogger *StructuredLogger
	defaultConfig Config
	initMutex     sync.RWMutex
	isInitialized bool
)

// NewConfig cria uma nova configuração com valores padrão
func NewConfig() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		Format:   DefaultFormat,
		Color:    DefaultColor,
		Redact:   false,
	}
}

// LoadConfigFromEnv carrega a configuração a partir de variáveis de ambiente
// com fallback para valores padrão quando as variáveis não estão definidas ou
// são inválidas
func LoadConfigFromEnv() Config {
	config := NewConfig()

	if level, err := core.ParseSeverity(getEnv(EnvLogLevel, "info")); err == nil {
		config.LogLevel = level
	}
	if format, err := core.ParseFormat(getEnv(EnvFormat, string(DefaultFormat))); err == nil {
		config.Format = format
	}
	if mode, err := ParseColorMode(getEnv(EnvColor, string(DefaultColor))); err == nil {
		config.Color = mode
	}
	config.Redact = parseBool(getEnv(EnvRedact, "false"))

	return config
}

// LoadConfigFromEnvWithValidation carrega a configuração de variáveis de
// ambiente e retorna erro para qualquer valor inválido
func LoadConfigFromEnvWithValidation() (Config, error) {
	config := NewConfig()
	var err error

	if value := os.Getenv(EnvLogLevel); value != "" {
		if config.LogLevel, err = core.ParseSeverity(value); err != nil {
			return Config{}, fmt.Errorf("invalid configuration loaded from environment: %w", err)
		}
	}
	if value := os.Getenv(EnvFormat); value != "" {
		if config.Format, err = core.ParseFormat(value); err != nil {
			return Config{}, fmt.Errorf("invalid configuration loaded from environment: %w", err)
		}
	}
	if value := os.Getenv(EnvColor); value != "" {
		if config.Color, err = ParseColorMode(value); err != nil {
			return Config{}, fmt.Errorf("invalid configuration loaded from environment: %w", err)
		}
	}
	if value := os.Getenv(EnvRedact); value != "" {
		if config.Redact, err = strconv.ParseBool(value); err != nil {
			return Config{}, fmt.Errorf("invalid configuration loaded from environment: %s: %w", EnvRedact, err)
		}
	}

	return config, nil
}

// Options é a forma serializável da configuração: logLevel e format, mais as
// extensões color e redact
type Options struct {
	LogLevel string `mapstructure:"logLevel" toml:"log_level"`
	Format   string `mapstructure:"format" toml:"format"`
	Color    string `mapstructure:"color" toml:"color"`
	Redact   bool   `mapstructure:"redact" toml:"redact"`
}

// Config converte as opções numa Config validada. Campos vazios mantêm os
// valores padrão.
func (o Options) Config() (Config, error) {
	config := NewConfig()
	var err error

	if o.LogLevel != "" {
		if config.LogLevel, err = core.ParseSeverity(o.LogLevel); err != nil {
			return Config{}, err
		}
	}
	if o.Format != "" {
		if config.Format, err = core.ParseFormat(o.Format); err != nil {
			return Config{}, err
		}
	}
	if o.Color != "" {
		if config.Color, err = ParseColorMode(o.Color); err != nil {
			return Config{}, err
		}
	}
	config.Redact = o.Redact

	return config, nil
}

// DecodeOptions decodifica um objeto de opções genérico, por exemplo
//
//	nslog.DecodeOptions(map[string]any{"logLevel": "verbose", "format": "json"})
//
// Chaves desconhecidas são rejeitadas.
func DecodeOptions(input map[string]any) (Config, error) {
	var options Options
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &options,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to create options decoder: %w", err)
	}

	if err := decoder.Decode(input); err != nil {
		return Config{}, fmt.Errorf("failed to decode logger options: %w", err)
	}

	config, err := options.Config()
	if err != nil {
		return Config{}, fmt.Errorf("invalid logger options: %w", err)
	}
	return config, nil
}

// LoadConfigFile carrega a configuração de um arquivo TOML:
//
//	log_level = "debug"
//	format = "json"
//	color = "never"
//	redact = true
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var options Options
	if err := toml.Unmarshal(data, &options); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	config, err := options.Config()
	if err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// Init inicializa o logger global com a configuração especificada.
// Esta função é thread-safe e pode ser chamada múltiplas vezes.
func Init(config Config) error {
	initMutex.Lock()
	defer initMutex.Unlock()

	logger, err := New(config)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	defaultLogger = logger
	defaultConfig = config
	isInitialized = true

	return nil
}

// InitFromEnv inicializa o logger global carregando a configuração de variáveis de ambiente
func InitFromEnv() error {
	config, err := LoadConfigFromEnvWithValidation()
	if err != nil {
		return err
	}

	return Init(config)
}

// IsInitialized retorna true se o logger global foi inicializado
func IsInitialized() bool {
	initMutex.RLock()
	defer initMutex.RUnlock()
	return isInitialized
}

// GetConfig retorna a configuração atual do logger global
func GetConfig() Config {
	initMutex.RLock()
	defer initMutex.RUnlock()
	return defaultConfig
}

// GetLogger retorna o logger global. Se não foi inicializado, inicializa com configuração padrão
func GetLogger() *StructuredLogger {
	initMutex.RLock()
	if isInitialized {
		logger := defaultLogger
		initMutex.RUnlock()
		return logger
	}
	initMutex.RUnlock()

	initMutex.Lock()
	defer initMutex.Unlock()

	// Verificar novamente após obter o lock de escrita
	if isInitialized {
		return defaultLogger
	}

	config := NewConfig()
	logger, err := New(config)
	if err != nil {
		// NewConfig é sempre válida
		panic(err)
	}

	defaultLogger = logger
	defaultConfig = config
	isInitialized = true

	return defaultLogger
}

// reset descarta o logger global; usado nos testes
func reset() {
	initMutex.Lock()
	defer initMutex.Unlock()
	defaultLogger = nil
	defaultConfig = Config{}
	isInitialized = false
}

// String retorna uma representação em string da configuração para debugging
func (c Config) String() string {
	return fmt.Sprintf("Config{LogLevel: %s, Format: %s, Color: %s, Redact: %t}",
		c.LogLevel.String(), c.Format, c.Color, c.Redact)
}

// Validate verifica se a configuração é válida
func (c Config) Validate() error {
	if !c.LogLevel.Valid() {
		return fmt.Errorf("%w: %v", core.ErrInvalidSeverity, c.LogLevel)
	}

	if _, err := core.ParseFormat(string(c.Format)); err != nil {
		return err
	}

	if _, err := ParseColorMode(string(c.Color)); err != nil {
		return err
	}

	return nil
}

// getEnv obtém uma variável de ambiente com valor padrão
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseBool converte uma string para bool
func parseBool(boolStr string) bool {
	if boolStr == "" {
		return false
	}

	value, err := strconv.ParseBool(boolStr)
	if err != nil {
		return false
	}

	return value
}

// Funções helper para diferentes perfis de configuração

// NewProductionConfig cria uma configuração para produção: JSON a partir de INFO
func NewProductionConfig() Config {
	config := NewConfig()
	config.LogLevel = core.INFO
	config.Format = core.FormatJSON
	config.Color = ColorNever
	config.Redact = true
	return config
}

// NewDevelopmentConfig cria uma configuração para desenvolvimento: texto colorido a partir de VERBOSE
func NewDevelopmentConfig() Config {
	config := NewConfig()
	config.LogLevel = core.VERBOSE
	config.Format = core.FormatText
	config.Color = ColorAuto
	return config
}

// InitWithProfile inicializa o logger global com um perfil específico
func InitWithProfile(profile string) error {
	var config Config

	switch strings.ToLower(profile) {
	case "production", "prod":
		config = NewProductionConfig()
	case "development", "dev":
		config = NewDevelopmentConfig()
	default:
		return fmt.Errorf("unknown profile: %s", profile)
	}

	return Init(config)
}
