package core

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
)

// Kind identifica a forma de um valor recebido por um ponto de entrada
type Kind int

const (
	// KindString é qualquer valor cujo tipo subjacente é string
	KindString Kind = iota
	// KindNumber cobre inteiros, floats e json.Number
	KindNumber
	// KindBoolean é um bool
	KindBoolean
	// KindNull é nil ou um ponteiro, map, slice, func, chan ou interface nulo
	KindNull
	// KindUndefined é o sentinela Undefined
	KindUndefined
	// KindMapping é um Fields ou um map com chaves string
	KindMapping
	// KindSequence é um slice ou array (exceto []byte)
	KindSequence
	// KindOpaque é todo o resto: structs, errors, []byte, ponteiros...
	KindOpaque
)

// String retorna o nome do Kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "opaque"
	}
}

type undefined struct{}

func (undefined) String() string { return "undefined" }

func (undefined) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Undefined marca um valor ausente. Chaves de mapping com esse valor são
// omitidas na saída, e ele conta como "sem contexto" em chamadas de erro.
var Undefined any = undefined{}

// KindOf classifica um valor pela sua forma
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case undefined:
		return KindUndefined
	case string:
		return KindString
	case json.Number:
		return KindNumber
	case bool:
		return KindBoolean
	case Fields:
		if v.(Fields) == nil {
			return KindNull
		}
		return KindMapping
	case []byte:
		if v.([]byte) == nil {
			return KindNull
		}
		return KindOpaque
	case error:
		if isNil(reflect.ValueOf(v)) {
			return KindNull
		}
		return KindOpaque
	}

	rv := reflect.ValueOf(v)
	if isNil(rv) {
		return KindNull
	}

	switch rv.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindMapping
		}
		return KindOpaque
	case reflect.Slice, reflect.Array:
		return KindSequence
	default:
		return KindOpaque
	}
}

func isNil(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// AsString retorna o valor como string quando ele é KindString
func AsString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	if KindOf(v) != KindString {
		return "", false
	}
	return reflect.ValueOf(v).String(), true
}

// IsMapping indica se o valor é um conjunto de campos estruturados
func IsMapping(v any) bool {
	return KindOf(v) == KindMapping
}

// ToFields converte um mapping em Fields. Fields é retornado como está; maps
// comuns são percorridos em ordem alfabética de chave para saída estável.
func ToFields(v any) (Fields, bool) {
	if f, ok := v.(Fields); ok {
		return f, f != nil
	}
	if KindOf(v) != KindMapping {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})

	fields := make(Fields, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, Field{Key: k.String(), Value: rv.MapIndex(k).Interface()})
	}
	return fields, true
}

// Truthy segue a noção de valor "verdadeiro": strings vazias, zero, NaN,
// false, nulos e Undefined são falsos; todo o resto (inclusive mappings e
// sequências vazias) é verdadeiro.
func Truthy(v any) bool {
	switch KindOf(v) {
	case KindNull, KindUndefined:
		return false
	case KindString:
		s, _ := AsString(v)
		return s != ""
	case KindBoolean:
		return reflect.ValueOf(v).Bool()
	case KindNumber:
		return numberTruthy(v)
	default:
		return true
	}
}

func numberTruthy(v any) bool {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	default:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	}
}

// Stringify converte qualquer valor na sua representação textual
func Stringify(v any) string {
	switch KindOf(v) {
	case KindString:
		s, _ := AsString(v)
		return s
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindMapping:
		return "[object Object]"
	case KindSequence:
		return stringifySequence(reflect.ValueOf(v))
	}

	switch t := v.(type) {
	case error:
		return t.Error()
	case fmt.Stringer:
		return t.String()
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(v)
	}
}

// stringifySequence junta os elementos com vírgula; nulos viram vazio
func stringifySequence(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		elem := rv.Index(i).Interface()
		switch KindOf(elem) {
		case KindNull, KindUndefined:
			parts[i] = ""
		default:
			parts[i] = Stringify(elem)
		}
	}
	return strings.Join(parts, ",")
}
