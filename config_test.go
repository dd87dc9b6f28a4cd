package nslog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ubie-oss/nslog/core"
)

func TestNewConfig(t *testing.T) {
	config := NewConfig()

	assert.Equal(t, DefaultLogLevel, config.LogLevel)
	assert.Equal(t, DefaultFormat, config.Format)
	assert.Equal(t, DefaultColor, config.Color)
	assert.False(t, config.Redact)
	assert.Nil(t, config.Sink)
	assert.NoError(t, config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		expectErr error
	}{
		{
			name:   "valid config",
			config: NewConfig(),
		},
		{
			name:      "invalid log level",
			config:    Config{LogLevel: core.Severity(99), Format: core.FormatText, Color: ColorNever},
			expectErr: core.ErrInvalidSeverity,
		},
		{
			name:      "invalid format",
			config:    Config{LogLevel: core.INFO, Format: "xml", Color: ColorNever},
			expectErr: core.ErrInvalidFormat,
		},
		{
			name:      "invalid color",
			config:    Config{LogLevel: core.INFO, Format: core.FormatJSON, Color: "rainbow"},
			expectErr: ErrInvalidColorMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expectErr)
		})
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input     string
		expected  ColorMode
		expectErr bool
	}{
		{"always", ColorAlways, false},
		{"NEVER", ColorNever, false},
		{" auto ", ColorAuto, false},
		{"sometimes", DefaultColor, true},
		{"", DefaultColor, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParseColorMode(tt.input)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrInvalidColorMode)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, mode)
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true", true},
		{"1", true},
		{"TRUE", true},
		{"false", false},
		{"0", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseBool(tt.input))
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected Config
	}{
		{
			name:     "defaults",
			env:      map[string]string{},
			expected: NewConfig(),
		},
		{
			name: "all variables",
			env: map[string]string{
				EnvLogLevel: "verbose",
				EnvFormat:   "json",
				EnvColor:    "never",
				EnvRedact:   "true",
			},
			expected: Config{LogLevel: core.VERBOSE, Format: core.FormatJSON, Color: ColorNever, Redact: true},
		},
		{
			name: "log alias",
			env: map[string]string{
				EnvLogLevel: "log",
			},
			expected: NewConfig(),
		},
		{
			name: "invalid values fall back to defaults",
			env: map[string]string{
				EnvLogLevel: "loud",
				EnvFormat:   "yaml",
				EnvColor:    "rainbow",
				EnvRedact:   "perhaps",
			},
			expected: NewConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{EnvLogLevel, EnvFormat, EnvColor, EnvRedact} {
				t.Setenv(key, tt.env[key])
			}

			assert.Equal(t, tt.expected, LoadConfigFromEnv())
		})
	}
}

func TestLoadConfigFromEnvWithValidation(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		expectErr bool
		expected  Config
	}{
		{
			name:     "valid",
			env:      map[string]string{EnvLogLevel: "warn", EnvFormat: "text"},
			expected: Config{LogLevel: core.WARN, Format: core.FormatText, Color: DefaultColor},
		},
		{
			name:      "invalid level",
			env:       map[string]string{EnvLogLevel: "loud"},
			expectErr: true,
		},
		{
			name:      "invalid format",
			env:       map[string]string{EnvFormat: "yaml"},
			expectErr: true,
		},
		{
			name:      "invalid color",
			env:       map[string]string{EnvColor: "rainbow"},
			expectErr: true,
		},
		{
			name:      "invalid redact",
			env:       map[string]string{EnvRedact: "perhaps"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{EnvLogLevel, EnvFormat, EnvColor, EnvRedact} {
				t.Setenv(key, tt.env[key])
			}

			config, err := LoadConfigFromEnvWithValidation()
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, config)
		})
	}
}

func TestDecodeOptions(t *testing.T) {
	tests := []struct {
		name      string
		input     map[string]any
		expected  Config
		expectErr bool
	}{
		{
			name:     "logLevel and format",
			input:    map[string]any{"logLevel": "verbose", "format": "json"},
			expected: Config{LogLevel: core.VERBOSE, Format: core.FormatJSON, Color: DefaultColor},
		},
		{
			name:     "empty object keeps defaults",
			input:    map[string]any{},
			expected: NewConfig(),
		},
		{
			name:     "weakly typed redact",
			input:    map[string]any{"format": "text", "color": "never", "redact": "true"},
			expected: Config{LogLevel: DefaultLogLevel, Format: core.FormatText, Color: ColorNever, Redact: true},
		},
		{
			name:      "unknown key",
			input:     map[string]any{"logLevel": "debug", "output": "file"},
			expectErr: true,
		},
		{
			name:      "invalid level",
			input:     map[string]any{"logLevel": "loud"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := DecodeOptions(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, config)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "nslog.toml")
		content := "log_level = \"debug\"\nformat = \"json\"\ncolor = \"never\"\nredact = true\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		config, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, Config{LogLevel: core.DEBUG, Format: core.FormatJSON, Color: ColorNever, Redact: true}, config)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(dir, "missing.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.toml")
		require.NoError(t, os.WriteFile(path, []byte("log_level = "), 0o600))

		_, err := LoadConfigFile(path)
		assert.Error(t, err)
	})

	t.Run("invalid format value", func(t *testing.T) {
		path := filepath.Join(dir, "format.toml")
		require.NoError(t, os.WriteFile(path, []byte("format = \"xml\"\n"), 0o600))

		_, err := LoadConfigFile(path)
		assert.ErrorIs(t, err, core.ErrInvalidFormat)
	})
}

func TestConfig_String(t *testing.T) {
	config := Config{LogLevel: core.WARN, Format: core.FormatJSON, Color: ColorNever, Redact: true}

	assert.Equal(t, "Config{LogLevel: WARN, Format: json, Color: never, Redact: true}", config.String())
}

func TestInit(t *testing.T) {
	defer reset()

	sink := core.NewMemorySink()
	config := Config{LogLevel: core.DEBUG, Format: core.FormatJSON, Color: ColorNever, Sink: sink}

	require.NoError(t, Init(config))
	assert.True(t, IsInitialized())
	assert.Equal(t, core.DEBUG, GetConfig().LogLevel)

	GetLogger().Debug("initialized")
	assert.Equal(t, 1, sink.Count())

	err := Init(Config{LogLevel: core.Severity(42), Format: core.FormatJSON, Color: ColorNever})
	assert.Error(t, err)
	// uma configuração inválida não substitui o logger atual
	assert.Equal(t, core.DEBUG, GetConfig().LogLevel)
}

func TestInitFromEnv(t *testing.T) {
	defer reset()

	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvFormat, "json")
	require.NoError(t, InitFromEnv())
	assert.Equal(t, core.ERROR, GetConfig().LogLevel)
	assert.Equal(t, core.FormatJSON, GetConfig().Format)

	t.Setenv(EnvFormat, "yaml")
	assert.Error(t, InitFromEnv())
}

func TestInitWithProfile(t *testing.T) {
	defer reset()

	tests := []struct {
		profile   string
		expected  Config
		expectErr bool
	}{
		{"production", NewProductionConfig(), false},
		{"dev", NewDevelopmentConfig(), false},
		{"staging", Config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			err := InitWithProfile(tt.profile)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.LogLevel, GetConfig().LogLevel)
			assert.Equal(t, tt.expected.Format, GetConfig().Format)
			assert.Equal(t, tt.expected.Redact, GetConfig().Redact)
		})
	}
}

func TestGetLogger(t *testing.T) {
	reset()
	defer reset()

	assert.False(t, IsInitialized())

	logger := GetLogger()
	require.NotNil(t, logger)
	assert.True(t, IsInitialized())
	assert.Same(t, logger, GetLogger())
	assert.Equal(t, NewConfig().LogLevel, logger.Config().LogLevel)
}

func TestGlobalHelpers(t *testing.T) {
	defer reset()

	sink := core.NewMemorySink()
	require.NoError(t, Init(Config{LogLevel: core.VERBOSE, Format: core.FormatText, Color: ColorNever, Sink: sink}))

	Verbose("v")
	Debug("d")
	Log("l")
	Info("i")
	Warn("w")
	Error("e")
	Fatal("f")

	assert.Equal(t, []string{
		"VERBOSE v",
		"DEBUG d",
		"INFO l",
		"INFO i",
		"WARN w",
		"ERROR e",
		"FATAL f",
	}, sink.Lines())
}
