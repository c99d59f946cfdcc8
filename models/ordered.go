package models

import (
	"bytes"
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"reportservice/internal/jsonutil"
)

// OrderedMap é um objeto JSON que preserva a ordem de inserção das chaves.
// O scanner entrega languages e scan_results como objetos e as seções do
// relatório seguem essa ordem.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// Set insere ou substitui a chave; uma chave repetida mantém a posição original.
func (m *OrderedMap[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m OrderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m OrderedMap[V]) Len() int { return len(m.keys) }

func (m OrderedMap[V]) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Each percorre as entradas na ordem de inserção.
func (m OrderedMap[V]) Each(fn func(key string, value V)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

func (m OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf)
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return nil, err
	}
	for _, k := range m.keys {
		if err := enc.WriteToken(jsontext.String(k)); err != nil {
			return nil, err
		}
		raw, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("chave %q: %w", k, err)
		}
		if err := enc.WriteValue(raw); err != nil {
			return nil, err
		}
	}
	if err := enc.WriteToken(jsontext.EndObject); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (m *OrderedMap[V]) UnmarshalJSON(data []byte) error {
	dec := jsontext.NewDecoder(bytes.NewReader(data), jsonutil.Lenient)
	tok, err := dec.ReadToken()
	if err != nil {
		return err
	}
	switch tok.Kind() {
	case 'n':
		*m = OrderedMap[V]{}
		return nil
	case '{':
	default:
		return fmt.Errorf("esperado objeto JSON, recebido %v", tok.Kind())
	}

	var out OrderedMap[V]
	for dec.PeekKind() != '}' {
		name, err := dec.ReadToken()
		if err != nil {
			return err
		}
		// o token é invalidado pela próxima leitura do decoder
		key := name.String()
		raw, err := dec.ReadValue()
		if err != nil {
			return err
		}
		var v V
		if err := json.Unmarshal(raw, &v, jsonutil.Lenient); err != nil {
			return fmt.Errorf("chave %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.ReadToken(); err != nil {
		return err
	}
	*m = out
	return nil
}
