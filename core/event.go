package core

import (
	"bytes"
	"encoding/json"
)

// Field é um par chave/valor de um mapping ordenado
type Field struct {
	Key   string
	Value any
}

// Fields é um mapping que preserva a ordem de inserção. É a forma explícita de
// passar campos estruturados para os pontos de entrada:
//
//	log.Log("User login successful", core.NewFields().
//		Str("user_id", "123").
//		Int("attempt", 1), "AuthService")
type Fields []Field

// NewFields cria um Fields vazio (não nulo)
func NewFields() Fields {
	return make(Fields, 0, 4)
}

// F monta um Fields a partir de pares chave/valor alternados. Uma chave que
// não seja string é convertida com Stringify; um valor faltando vira Undefined.
func F(pairs ...any) Fields {
	fields := make(Fields, 0, (len(pairs)+1)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := AsString(pairs[i])
		if !ok {
			key = Stringify(pairs[i])
		}
		var value any = Undefined
		if i+1 < len(pairs) {
			value = pairs[i+1]
		}
		fields = fields.Set(key, value)
	}
	return fields
}

// Set substitui o valor de uma chave existente, mantendo sua posição, ou
// adiciona a chave no fim. O receptor nunca é alterado: o resultado é sempre
// uma cópia, então vários Fields podem ser derivados da mesma base.
func (f Fields) Set(key string, value any) Fields {
	for i := range f {
		if f[i].Key == key {
			out := make(Fields, len(f))
			copy(out, f)
			out[i].Value = value
			return out
		}
	}
	out := make(Fields, len(f), len(f)+1)
	copy(out, f)
	return append(out, Field{Key: key, Value: value})
}

// Get retorna o valor de uma chave
func (f Fields) Get(key string) (any, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

// Keys retorna as chaves na ordem de inserção
func (f Fields) Keys() []string {
	keys := make([]string, len(f))
	for i, field := range f {
		keys[i] = field.Key
	}
	return keys
}

// Map converte para um map comum, perdendo a ordem
func (f Fields) Map() map[string]any {
	m := make(map[string]any, len(f))
	for _, field := range f {
		m[field.Key] = field.Value
	}
	return m
}

// Str adiciona um campo string
func (f Fields) Str(key, val string) Fields {
	return f.Set(key, val)
}

// Int adiciona um campo inteiro
func (f Fields) Int(key string, val int) Fields {
	return f.Set(key, val)
}

// Float64 adiciona um campo float64
func (f Fields) Float64(key string, val float64) Fields {
	return f.Set(key, val)
}

// Bool adiciona um campo booleano
func (f Fields) Bool(key string, val bool) Fields {
	return f.Set(key, val)
}

// Err adiciona a mensagem do erro com a chave "error"; erros nulos são ignorados
func (f Fields) Err(err error) Fields {
	if err != nil {
		return f.Set("error", err.Error())
	}
	return f
}

// Any adiciona um campo de qualquer tipo
func (f Fields) Any(key string, val any) Fields {
	return f.Set(key, val)
}

// Merge adiciona todos os campos de um mapping, sobrescrevendo chaves repetidas
func (f Fields) Merge(mapping any) Fields {
	other, ok := ToFields(mapping)
	if !ok {
		return f
	}
	for _, field := range other {
		f = f.Set(field.Key, field.Value)
	}
	return f
}

// MarshalJSON codifica Fields como um objeto JSON na ordem de inserção,
// omitindo chaves cujo valor é Undefined
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, field := range f {
		if KindOf(field.Value) == KindUndefined {
			continue
		}
		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(JSONValue(field.Value))
		if err != nil {
			return nil, err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSONValue adapta valores que o encoding/json não representa bem: errors
// viram a sua mensagem e Undefined vira null
func JSONValue(v any) any {
	switch KindOf(v) {
	case KindUndefined:
		return nil
	case KindOpaque:
		if err, ok := v.(error); ok {
			if _, marshaler := v.(json.Marshaler); !marshaler {
				return err.Error()
			}
		}
	}
	return v
}
