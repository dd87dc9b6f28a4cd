package core

import "github.com/fatih/color"

// Color identifica uma decoração de texto
type Color int

const (
	// Plain não aplica decoração
	Plain Color = iota
	// Bold aplica negrito sem cor
	Bold
	// Green é usado em INFO
	Green
	// Yellow é usado em WARN e no rótulo de contexto
	Yellow
	// Red é usado em ERROR
	Red
	// MagentaBright é usado em DEBUG
	MagentaBright
	// CyanBright é usado em VERBOSE
	CyanBright
	// Cyan é usado nas chaves de mappings
	Cyan
	// Gray é usado no literal null
	Gray
)

// Colorizer decora um texto com uma cor. Texto vazio deve resultar em texto
// vazio.
type Colorizer interface {
	Colorize(text string, c Color) string
}

// ANSIColorizer aplica sequências de escape ANSI independentemente do
// terminal
type ANSIColorizer struct {
	palette map[Color]*color.Color
}

// NewANSIColorizer cria um colorizer com cores sempre habilitadas
func NewANSIColorizer() *ANSIColorizer {
	attrs := map[Color]color.Attribute{
		Bold:          color.Bold,
		Green:         color.FgGreen,
		Yellow:        color.FgYellow,
		Red:           color.FgRed,
		MagentaBright: color.FgHiMagenta,
		CyanBright:    color.FgHiCyan,
		Cyan:          color.FgCyan,
		Gray:          color.FgHiBlack,
	}

	palette := make(map[Color]*color.Color, len(attrs))
	for c, attr := range attrs {
		cc := color.New(attr)
		cc.EnableColor()
		palette[c] = cc
	}
	return &ANSIColorizer{palette: palette}
}

// Colorize implementa Colorizer
func (a *ANSIColorizer) Colorize(text string, c Color) string {
	if text == "" {
		return ""
	}
	cc, ok := a.palette[c]
	if !ok {
		return text
	}
	return cc.Sprint(text)
}

// PlainColorizer devolve o texto sem decoração
type PlainColorizer struct{}

// Colorize implementa Colorizer
func (PlainColorizer) Colorize(text string, _ Color) string {
	return text
}
