package sanitize

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/ubie-oss/nslog/core"
)

// Mask é o valor que substitui campos completamente mascarados
const Mask = "***"

// SensitiveFieldConfig define como tratar campos sensíveis
type SensitiveFieldConfig struct {
	// Campos para mascarar completamente (substituir por "***")
	MaskCompletely []string

	// Campos para mascarar parcialmente (mostrar primeiros/últimos caracteres)
	MaskPartially []string

	// Expressões regulares para identificar padrões sensíveis
	Patterns map[string]*regexp.Regexp
}

// DefaultSensitiveFieldConfig retorna a configuração padrão para campos sensíveis
func DefaultSensitiveFieldConfig() SensitiveFieldConfig {
	return SensitiveFieldConfig{
		MaskCompletely: []string{
			"password", "senha", "secret", "token", "api_key", "apikey",
			"credit_card", "cartao", "cvv", "authorization", "bearer", "cookie",
		},
		MaskPartially: []string{
			"cpf", "cnpj", "email", "phone", "telefone", "celular",
			"address", "endereco", "zipcode", "documento",
		},
		Patterns: map[string]*regexp.Regexp{
			"email": regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
			"card":  regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`),
			"cpf":   regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{3}-\d{2}\b`),
		},
	}
}

// Params sanitiza os parâmetros de uma chamada. Apenas mappings são
// percorridos; valores soltos são mantidos como estão, pois não têm chave que
// indique sensibilidade.
func Params(params []any, config SensitiveFieldConfig) []any {
	if len(params) == 0 {
		return params
	}
	result := make([]any, len(params))
	for i, param := range params {
		if core.IsMapping(param) {
			result[i] = Value(param, config)
		} else {
			result[i] = param
		}
	}
	return result
}

// Value sanitiza recursivamente um valor. Mappings viram core.Fields na mesma
// ordem em que seriam renderizados.
func Value(data any, config SensitiveFieldConfig) any {
	return sanitizeValue(data, "", config)
}

// String sanitiza uma string individual usando as regras de configuração
func String(data string, config SensitiveFieldConfig) string {
	return sanitizeString(data, "", config)
}

// IsSensitiveKey indica se uma chave deve ter o valor mascarado completamente
func IsSensitiveKey(key string, config SensitiveFieldConfig) bool {
	return shouldMaskCompletely(strings.ToLower(key), config)
}

// sanitizeValue sanitiza recursivamente valores em uma estrutura de dados
func sanitizeValue(data any, path string, config SensitiveFieldConfig) any {
	switch core.KindOf(data) {
	case core.KindMapping:
		fields, _ := core.ToFields(data)
		return sanitizeFields(fields, path, config)
	case core.KindSequence:
		return sanitizeSequence(data, path, config)
	case core.KindString:
		s, _ := core.AsString(data)
		return sanitizeString(s, path, config)
	default:
		return data
	}
}

// sanitizeFields sanitiza um mapping sem alterar o original
func sanitizeFields(fields core.Fields, path string, config SensitiveFieldConfig) core.Fields {
	result := make(core.Fields, 0, len(fields))

	for _, field := range fields {
		fieldPath := path
		if fieldPath != "" {
			fieldPath += "."
		}
		fieldPath += strings.ToLower(field.Key)

		// Verificar se este campo deve ser completamente mascarado
		if shouldMaskCompletely(fieldPath, config) {
			result = append(result, core.Field{Key: field.Key, Value: Mask})
			continue
		}

		// Verificar se este campo deve ser parcialmente mascarado
		if shouldMaskPartially(fieldPath, config) {
			if str, ok := core.AsString(field.Value); ok {
				result = append(result, core.Field{Key: field.Key, Value: maskPartially(str)})
				continue
			}
		}

		result = append(result, core.Field{Key: field.Key, Value: sanitizeValue(field.Value, fieldPath, config)})
	}

	return result
}

// sanitizeSequence sanitiza um slice ou array
func sanitizeSequence(data any, path string, config SensitiveFieldConfig) []any {
	rv := reflect.ValueOf(data)
	result := make([]any, rv.Len())

	for i := range result {
		result[i] = sanitizeValue(rv.Index(i).Interface(), path, config)
	}

	return result
}

// sanitizeString sanitiza um valor string
func sanitizeString(data string, path string, config SensitiveFieldConfig) string {
	if shouldMaskCompletely(path, config) {
		return Mask
	}

	if shouldMaskPartially(path, config) {
		return maskPartially(data)
	}

	// Ordem estável dos padrões
	names := make([]string, 0, len(config.Patterns))
	for name := range config.Patterns {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pattern := config.Patterns[name]
		if pattern.MatchString(data) {
			data = maskSensitivePattern(data, pattern)
		}
	}

	return data
}

// shouldMaskCompletely verifica se um campo deve ser completamente mascarado
func shouldMaskCompletely(path string, config SensitiveFieldConfig) bool {
	if path == "" {
		return false
	}
	for _, field := range config.MaskCompletely {
		if strings.Contains(path, field) {
			return true
		}
	}
	return false
}

// shouldMaskPartially verifica se um campo deve ser parcialmente mascarado
func shouldMaskPartially(path string, config SensitiveFieldConfig) bool {
	if path == "" {
		return false
	}
	for _, field := range config.MaskPartially {
		if strings.Contains(path, field) {
			return true
		}
	}
	return false
}

// maskPartially mascara parte de uma string
func maskPartially(data string) string {
	runes := []rune(data)
	if len(runes) <= 4 {
		return Mask
	}

	// Mostrar primeiros 2 e últimos 2 caracteres
	return string(runes[:2]) + strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-2:])
}

// maskSensitivePattern mascara padrões sensíveis como e-mails e cartões
func maskSensitivePattern(data string, pattern *regexp.Regexp) string {
	return pattern.ReplaceAllStringFunc(data, maskPartially)
}

// JSON sanitiza um documento JSON. Objetos mantêm a ordem das chaves do
// documento original.
func JSON(data []byte, config SensitiveFieldConfig) ([]byte, error) {
	decoded, err := decodeOrdered(data)
	if err != nil {
		return nil, err
	}

	sanitized, err := json.Marshal(core.JSONValue(Value(decoded, config)))
	if err != nil {
		return nil, fmt.Errorf("failed to encode sanitized JSON: %w", err)
	}
	return sanitized, nil
}
