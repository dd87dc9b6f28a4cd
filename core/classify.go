package core

import "regexp"

// Record é o resultado da classificação de uma chamada. Context e Stack vazios
// significam ausentes. Params nunca contém o valor extraído como contexto ou
// stack.
type Record struct {
	Message string
	Params  []any
	Context string
	Stack   string
}

// stackPattern reconhece traces de várias linhas cujos frames seguintes são
// "at <local>:<linha>:<coluna>" indentados
var stackPattern = regexp.MustCompile(`^(.)+\n\s+at .+:\d+:\d+`)

// IsStackTrace indica se o valor é uma string com formato de stack trace
func IsStackTrace(v any) bool {
	s, ok := AsString(v)
	if !ok {
		return false
	}
	return stackPattern.MatchString(s)
}

// Classify separa mensagem, parâmetros e contexto de uma chamada que não é de
// erro. Uma mensagem que não seja string vira o primeiro parâmetro; a última
// string entre os parâmetros é tomada como rótulo de contexto.
func Classify(message any, rest ...any) Record {
	record, params := splitMessage(message, rest)
	if len(params) == 0 {
		return record
	}

	if context, ok := AsString(params[len(params)-1]); ok {
		record.Context = context
		params = params[:len(params)-1]
	}
	if len(params) > 0 {
		record.Params = params
	}
	return record
}

// ClassifyError é a variante para o nível ERROR, que reconhece um stack trace
// nas formas error(msg, stack) e error(msg, stack, context). Qualquer outra
// forma cai em Classify.
func ClassifyError(message any, rest ...any) Record {
	switch len(rest) {
	case 1:
		if IsStackTrace(rest[0]) {
			record, params := splitMessage(message, nil)
			record.Params = params
			record.Stack, _ = AsString(rest[0])
			return record
		}
	case 2:
		if !IsStackTrace(rest[0]) {
			break
		}
		stack, _ := AsString(rest[0])
		if context, ok := AsString(rest[1]); ok {
			record, params := splitMessage(message, nil)
			record.Params = params
			record.Stack = stack
			record.Context = context
			return record
		}
		if isAbsent(rest[1]) {
			record, params := splitMessage(message, nil)
			record.Params = params
			record.Stack = stack
			return record
		}
	}
	return Classify(message, rest...)
}

// splitMessage aplica a regra da mensagem: strings viram Message, qualquer
// outro valor passa a ser o primeiro parâmetro. Retorna os parâmetros
// candidatos numa cópia, nunca no slice do chamador.
func splitMessage(message any, rest []any) (Record, []any) {
	if s, ok := AsString(message); ok {
		var params []any
		if len(rest) > 0 {
			params = append(make([]any, 0, len(rest)), rest...)
		}
		return Record{Message: s}, params
	}

	params := make([]any, 0, len(rest)+1)
	params = append(params, message)
	params = append(params, rest...)
	return Record{}, params
}

func isAbsent(v any) bool {
	return v == nil || KindOf(v) == KindUndefined
}
