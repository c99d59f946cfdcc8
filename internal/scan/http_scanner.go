package scan

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reportservice/internal/logger"
	"reportservice/internal/report"
	"reportservice/models"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 64 << 20
	maxErrorBody        = 512
)

// HTTPScanner busca resultados em GET {BaseURL}/scan-report/{scanID}.
type HTTPScanner struct {
	BaseURL string
	Client  *http.Client
	// MaxBodyBytes limita o corpo aceito; zero usa DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

func NewHTTPScanner(baseURL string, timeout time.Duration) *HTTPScanner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPScanner{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPScanner) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return &http.Client{Timeout: DefaultTimeout}
}

func (s *HTTPScanner) FetchReport(ctx context.Context, scanID string) (*models.ScanResult, error) {
	start := time.Now()
	defer logger.Trace("FetchReport", start)

	endpoint := s.BaseURL + "/scan-report/" + url.PathEscape(scanID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao montar requisição ao scanner: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logger.Log.Infof("Buscando dados do scan %s em %s", scanID, endpoint)
	resp, err := s.client().Do(req)
	if err != nil {
		return nil, &UpstreamUnavailableError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &UpstreamNotFoundError{ScanID: scanID}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	limit := s.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &UpstreamUnavailableError{URL: endpoint, Err: err}
	}
	if int64(len(body)) > limit {
		return nil, &InvalidResponseError{URL: endpoint, Reason: fmt.Sprintf("corpo maior que %d bytes", limit)}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &InvalidResponseError{URL: endpoint, Reason: "corpo vazio"}
	}
	return report.ParseScanResult(body)
}

// Health consulta GET {BaseURL}/health; qualquer resposta 2xx é saudável.
func (s *HTTPScanner) Health(ctx context.Context) error {
	endpoint := s.BaseURL + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("erro ao montar requisição de health: %w", err)
	}
	resp, err := s.client().Do(req)
	if err != nil {
		return &UpstreamUnavailableError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{StatusCode: resp.StatusCode}
	}
	return nil
}
