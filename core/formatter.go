package core

import "strings"

// TextFormatter renderiza um Record como uma linha legível por humanos:
//
//	INFO [ctx] hello foo=bar x.y=z extra params 1,2,3
//
// Rótulo, contexto e chaves são coloridos pelo Colorizer configurado. Um stack
// trace de ERROR vai numa segunda linha, sem formatação.
type TextFormatter struct {
	colorizer Colorizer
}

// NewTextFormatter cria um TextFormatter. Um colorizer nil desliga as cores.
func NewTextFormatter(colorizer Colorizer) *TextFormatter {
	if colorizer == nil {
		colorizer = PlainColorizer{}
	}
	return &TextFormatter{colorizer: colorizer}
}

// Render implementa Renderer
func (f *TextFormatter) Render(severity Severity, record Record) []string {
	segments := make([]string, 0, len(record.Params)+3)
	segments = append(segments,
		f.colorizer.Colorize(severity.String(), severity.Color()),
		f.formatContext(record.Context),
		f.formatMessage(severity, record.Message),
	)

	for _, param := range record.Params {
		if fields, ok := ToFields(param); ok {
			segments = append(segments, f.FormatFields(fields, ""))
		} else if Truthy(param) {
			segments = append(segments, f.colorizer.Colorize(Stringify(param), Bold))
		}
	}

	lines := []string{joinNonEmpty(segments)}
	if severity == ERROR && record.Stack != "" {
		lines = append(lines, record.Stack)
	}
	return lines
}

// FormatFields achata um mapping em pares chave=valor separados por espaço,
// prefixando chaves de mappings aninhados com o caminho pontuado. Valores
// nulos viram "null" em cinza; Undefined é omitido.
func (f *TextFormatter) FormatFields(fields Fields, parentKey string) string {
	values := make([]string, 0, len(fields))
	for _, field := range fields {
		if nested, ok := ToFields(field.Value); ok {
			values = append(values, f.FormatFields(nested, parentKey+field.Key+"."))
			continue
		}

		key := f.colorizer.Colorize(parentKey+field.Key, Cyan)
		switch KindOf(field.Value) {
		case KindUndefined:
		case KindNull:
			values = append(values, key+"="+f.colorizer.Colorize("null", Gray))
		default:
			values = append(values, key+"="+Stringify(field.Value))
		}
	}
	return joinNonEmpty(values)
}

func (f *TextFormatter) formatContext(context string) string {
	if context == "" {
		return ""
	}
	return f.colorizer.Colorize("["+context+"]", Yellow)
}

func (f *TextFormatter) formatMessage(severity Severity, message string) string {
	if severity == ERROR {
		return f.colorizer.Colorize(message, severity.Color())
	}
	return message
}

// joinNonEmpty junta com espaço ignorando segmentos vazios
func joinNonEmpty(segments []string) string {
	var b strings.Builder
	for _, s := range segments {
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	return b.String()
}
