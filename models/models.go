package models

import "time"

// ScanResult é o payload entregue pelo scanner service. Todos os campos são opcionais.
type ScanResult struct {
	ReportID           string                  `json:"report_id"`
	ScanID             string                  `json:"scan_id"`
	RepoID             string                  `json:"repo_id"`
	RepoURL            string                  `json:"repo_url"`
	RepositoryName     string                  `json:"repository_name"`
	Branch             string                  `json:"branch"`
	ScanType           string                  `json:"scan_type"`
	Status             string                  `json:"status"`
	CreatedAt          string                  `json:"created_at"`
	CompletedAt        string                  `json:"completed_at"`
	Progress           *ScanProgress           `json:"progress"`
	VulnerabilityCount map[string]float64      `json:"vulnerability_count"`
	RepositoryInfo     *RepositoryInfo         `json:"repository_info"`
	ScanResults        *OrderedMap[FileResult] `json:"scan_results"`
}

// ScanProgress usa ponteiros para distinguir campo ausente de zero.
type ScanProgress struct {
	TotalFiles     *int     `json:"total_files"`
	ProcessedFiles *int     `json:"processed_files"`
	Percentage     *float64 `json:"percentage"`
}

type RepositoryInfo struct {
	Languages  OrderedMap[float64] `json:"languages"`
	TotalLines int                 `json:"total_lines"`
	FileTypes  OrderedMap[float64] `json:"file_types"`
}

type FileResult struct {
	FilePath string `json:"file_path"`
	FileType string `json:"file_type"`
	Analysis string `json:"analysis"`
}

// ReportView é a visão normalizada consumida pelos dois renderizadores.
type ReportView struct {
	ReportID             string                 `json:"report_id"`
	ScanID               string                 `json:"scan_id"`
	RepoURL              string                 `json:"repo_url"`
	Branch               string                 `json:"branch"`
	ScanType             string                 `json:"scan_type"`
	Status               string                 `json:"status"`
	Repository           Repository             `json:"repository"`
	CreatedAt            string                 `json:"created_at"`
	CompletedAt          string                 `json:"completed_at"`
	ScanDuration         string                 `json:"scan_duration"`
	Progress             Progress               `json:"progress"`
	VulnerabilitySummary VulnerabilitySummary   `json:"vulnerability_summary"`
	ScanResults          OrderedMap[FileResult] `json:"scan_results"`
	RepositoryInfo       RepositoryInfo         `json:"repository_info"`
}

type Repository struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Branch string `json:"branch"`
}

type Progress struct {
	TotalFiles     int     `json:"total_files"`
	ProcessedFiles int     `json:"processed_files"`
	Percentage     float64 `json:"percentage"`
}

type VulnerabilitySummary struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Total    int `json:"total"`
}

// ReportJob é a mensagem lida da fila SQS pedindo a geração de um relatório.
type ReportJob struct {
	ScanID           string    `json:"scan_id"`
	RequestedBy      string    `json:"requested_by"`
	MessageCreatedAt time.Time `json:"message_created_at"`

	// ReceiptHandle identifica a mensagem na fila para remoção após o sucesso.
	ReceiptHandle string `json:"-"`
}

// ReportRecord é a linha gravada na tabela reports.
type ReportRecord struct {
	ID        string
	ReportID  string
	RepoURL   string
	ScanType  string
	Status    string
	Data      []byte
	CreatedAt time.Time
	PDFPath   string
	DOCXPath  string
}
