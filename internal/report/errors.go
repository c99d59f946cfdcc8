package report

import "fmt"

// MalformedInputError indica que o payload do scanner não pode ser usado
// (nulo, não é objeto JSON ou não decodifica).
type MalformedInputError struct {
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payload do scan inválido: %s: %v", e.Reason, e.Err)
	}
	return "payload do scan inválido: " + e.Reason
}

func (e *MalformedInputError) Unwrap() error { return e.Err }
