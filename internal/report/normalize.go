// Package report transforma o resultado bruto do scanner na visão canônica
// usada pelos renderizadores e interpreta o texto de análise de cada arquivo.
package report

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing/transport"

	"reportservice/internal/jsonutil"
	"reportservice/models"
)

const (
	UnknownRepository = "Unknown"
	NotAvailable      = "N/A"
)

var severities = []string{"Critical", "High", "Medium", "Low"}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseScanResult decodifica o corpo JSON de um scan. Qualquer coisa que não seja
// um objeto JSON resulta em MalformedInputError.
func ParseScanResult(data []byte) (*models.ScanResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &MalformedInputError{Reason: "corpo vazio"}
	}
	if trimmed[0] != '{' {
		return nil, &MalformedInputError{Reason: "esperado objeto JSON"}
	}
	var raw models.ScanResult
	if err := jsonutil.UnmarshalLenient(trimmed, &raw); err != nil {
		return nil, &MalformedInputError{Reason: "JSON inválido", Err: err}
	}
	return &raw, nil
}

// Normalize monta a ReportView a partir do resultado bruto. Não faz I/O e não
// falha por campo opcional ausente; só recusa raw nulo.
func Normalize(raw *models.ScanResult, fallbackID string) (models.ReportView, error) {
	if raw == nil {
		return models.ReportView{}, &MalformedInputError{Reason: "scan result ausente"}
	}

	view := models.ReportView{
		ReportID:    firstNonEmpty(raw.ReportID, fallbackID),
		ScanID:      firstNonEmpty(raw.ScanID, fallbackID),
		RepoURL:     raw.RepoURL,
		Branch:      raw.Branch,
		ScanType:    raw.ScanType,
		Status:      raw.Status,
		CreatedAt:   raw.CreatedAt,
		CompletedAt: raw.CompletedAt,
		Repository: models.Repository{
			Name:   RepositoryName(raw.RepositoryName, raw.RepoURL),
			URL:    raw.RepoURL,
			Branch: raw.Branch,
		},
		ScanDuration:         ScanDuration(raw.CreatedAt, raw.CompletedAt),
		VulnerabilitySummary: Summarize(raw.VulnerabilityCount),
	}

	if raw.ScanResults != nil {
		view.ScanResults = *raw.ScanResults
	}
	if raw.RepositoryInfo != nil {
		view.RepositoryInfo = *raw.RepositoryInfo
	}

	p := raw.Progress
	if p != nil && p.TotalFiles != nil && p.ProcessedFiles != nil && p.Percentage != nil {
		view.Progress = models.Progress{
			TotalFiles:     *p.TotalFiles,
			ProcessedFiles: *p.ProcessedFiles,
			Percentage:     *p.Percentage,
		}
	} else {
		n := view.ScanResults.Len()
		view.Progress = models.Progress{TotalFiles: n, ProcessedFiles: n, Percentage: 100}
	}

	return view, nil
}

// RepositoryName usa o nome explícito ou o último segmento da URL sem ".git".
func RepositoryName(explicit, repoURL string) string {
	if explicit != "" {
		return explicit
	}
	if repoURL == "" {
		return UnknownRepository
	}
	path := repoURL
	if ep, err := transport.NewEndpoint(repoURL); err == nil && ep.Path != "" {
		path = ep.Path
	}
	path = strings.TrimRight(path, "/")
	name := strings.TrimSuffix(path[strings.LastIndex(path, "/")+1:], ".git")
	if name == "" {
		return UnknownRepository
	}
	return name
}

// ScanDuration devolve "<n> minutes" arredondado, ou "N/A". Durações negativas
// (relógio do scanner adiantado) são mantidas.
func ScanDuration(createdAt, completedAt string) string {
	start, ok := parseTimestamp(createdAt)
	if !ok {
		return NotAvailable
	}
	end, ok := parseTimestamp(completedAt)
	if !ok {
		return NotAvailable
	}
	minutes := math.Floor(float64(end.Sub(start).Milliseconds())/60000 + 0.5)
	return fmt.Sprintf("%d minutes", int64(minutes))
}

// Summarize lê as quatro severidades sem diferenciar maiúsculas e recalcula o total.
func Summarize(counts map[string]float64) models.VulnerabilitySummary {
	var values [4]int
	for i, sev := range severities {
		values[i] = lookupSeverity(counts, sev)
	}
	return models.VulnerabilitySummary{
		Critical: values[0],
		High:     values[1],
		Medium:   values[2],
		Low:      values[3],
		Total:    values[0] + values[1] + values[2] + values[3],
	}
}

func lookupSeverity(counts map[string]float64, severity string) int {
	if v, ok := counts[severity]; ok {
		return int(math.Round(v))
	}
	for k, v := range counts {
		if strings.EqualFold(k, severity) {
			return int(math.Round(v))
		}
	}
	return 0
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
