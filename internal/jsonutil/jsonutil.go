// Package jsonutil concentra a serialização JSON do serviço sobre
// github.com/go-json-experiment/json.
package jsonutil

import (
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Lenient aceita UTF-8 inválido e nomes de membro repetidos (o último vence),
// como o JSON.parse dos produtores de scan.
var Lenient = json.JoinOptions(
	jsontext.AllowInvalidUTF8(true),
	jsontext.AllowDuplicateNames(true),
)

func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// UnmarshalLenient decodifica dados de scan sem validação além da sintaxe.
func UnmarshalLenient(data []byte, v any) error {
	return json.Unmarshal(data, v, Lenient)
}

func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func MarshalIndent(v any, indent string) ([]byte, error) {
	return json.Marshal(v, jsontext.WithIndent(indent))
}

// UnmarshalRead decodifica um único valor JSON lido de r.
func UnmarshalRead(r io.Reader, v any) error {
	return json.UnmarshalRead(r, v)
}

// Encode escreve v em w seguido de quebra de linha, como encoding/json.Encoder.
func Encode(w io.Writer, v any) error {
	if err := json.MarshalWrite(w, v); err != nil {
		return err
	}
	_, err := w.Write([]byte{'\n'})
	return err
}
