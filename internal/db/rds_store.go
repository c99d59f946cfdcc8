package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"reportservice/internal/logger"
	"reportservice/models"
)

const insertReport = `
	INSERT INTO reports (
		id,
		report_id,
		repo_url,
		scan_type,
		status,
		data,
		created_at,
		pdf_path,
		docx_path
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// RDSStore implementa ReportStore usando um banco PostgreSQL (RDS).
type RDSStore struct {
	DB *sql.DB
}

func (r *RDSStore) InsertReport(ctx context.Context, rec models.ReportRecord) error {
	start := time.Now()
	defer logger.Trace("InsertReport", start)

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.DB.ExecContext(ctx, insertReport,
		rec.ID,
		nullString(rec.ReportID),
		nullString(rec.RepoURL),
		nullString(rec.ScanType),
		nullString(rec.Status),
		string(rec.Data),
		rec.CreatedAt,
		rec.PDFPath,
		rec.DOCXPath,
	)
	if err != nil {
		return &PersistenceError{ReportID: rec.ID, Err: err}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
