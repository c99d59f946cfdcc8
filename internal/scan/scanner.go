// Package scan consulta o serviço de scanner que produz os resultados
// analisados pelos relatórios.
package scan

import (
	"context"
	"fmt"

	"reportservice/models"
)

// Scanner define uma interface para buscar o resultado de um scan.
type Scanner interface {
	FetchReport(ctx context.Context, scanID string) (*models.ScanResult, error)
	Health(ctx context.Context) error
}

// UpstreamUnavailableError indica que o scanner não respondeu (conexão recusada,
// DNS, timeout).
type UpstreamUnavailableError struct {
	URL string
	Err error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("serviço de scanner indisponível (%s): %v", e.URL, e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error { return e.Err }

// UpstreamNotFoundError indica que o scanner não conhece o scanID.
type UpstreamNotFoundError struct {
	ScanID string
}

func (e *UpstreamNotFoundError) Error() string {
	return "relatório de scan não encontrado: " + e.ScanID
}

// UpstreamError carrega qualquer outro status não-2xx devolvido pelo scanner.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("scanner respondeu com status %d", e.StatusCode)
	}
	return fmt.Sprintf("scanner respondeu com status %d: %s", e.StatusCode, e.Body)
}

// InvalidResponseError indica uma resposta 2xx que não pode ser usada: corpo
// vazio ou acima do limite.
type InvalidResponseError struct {
	URL    string
	Reason string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("resposta inválida do scanner (%s): %s", e.URL, e.Reason)
}
