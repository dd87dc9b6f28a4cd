package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestANSIColorizer_Colorize(t *testing.T) {
	colorizer := NewANSIColorizer()

	tests := []struct {
		color  Color
		prefix string
	}{
		{Bold, "\x1b[1m"},
		{Green, "\x1b[32m"},
		{Yellow, "\x1b[33m"},
		{Red, "\x1b[31m"},
		{MagentaBright, "\x1b[95m"},
		{CyanBright, "\x1b[96m"},
		{Cyan, "\x1b[36m"},
		{Gray, "\x1b[90m"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			colored := colorizer.Colorize("text", tt.color)

			assert.True(t, strings.HasPrefix(colored, tt.prefix+"text"), colored)
			assert.True(t, strings.HasSuffix(colored, "m"), colored)
		})
	}

	assert.Equal(t, "text", colorizer.Colorize("text", Plain))
}

func TestANSIColorizer_EmptyText(t *testing.T) {
	colorizer := NewANSIColorizer()

	for _, c := range []Color{Plain, Bold, Green, Red, Gray} {
		assert.Equal(t, "", colorizer.Colorize("", c))
	}
}

func TestPlainColorizer(t *testing.T) {
	assert.Equal(t, "text", PlainColorizer{}.Colorize("text", Red))
	assert.Equal(t, "", PlainColorizer{}.Colorize("", Red))
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		severity Severity
		label    string
		color    Color
	}{
		{VERBOSE, "VERBOSE", CyanBright},
		{DEBUG, "DEBUG", MagentaBright},
		{INFO, "INFO", Green},
		{WARN, "WARN", Yellow},
		{ERROR, "ERROR", Red},
		{FATAL, "FATAL", Bold},
		{Severity(9), "UNKNOWN", Plain},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.label, tt.severity.String())
			assert.Equal(t, tt.color, tt.severity.Color())
		})
	}

	for i, severity := range Severities() {
		assert.Equal(t, Severity(i), severity)
		assert.True(t, severity.Valid())
	}
	assert.False(t, Severity(-1).Valid())
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input     string
		expected  Severity
		expectErr bool
	}{
		{"verbose", VERBOSE, false},
		{"DEBUG", DEBUG, false},
		{"log", INFO, false},
		{"info", INFO, false},
		{"warning", WARN, false},
		{" warn ", WARN, false},
		{"error", ERROR, false},
		{"fatal", FATAL, false},
		{"trace", INFO, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			severity, err := ParseSeverity(tt.input)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrInvalidSeverity)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, severity)
		})
	}
}

func TestSeverity_TextRoundTrip(t *testing.T) {
	for _, severity := range Severities() {
		text, err := severity.MarshalText()
		assert.NoError(t, err)

		var parsed Severity
		assert.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, severity, parsed)
	}

	_, err := Severity(42).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidSeverity)
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("JSON")
	assert.NoError(t, err)
	assert.Equal(t, FormatJSON, format)

	format, err = ParseFormat("yaml")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Equal(t, FormatText, format)
}
