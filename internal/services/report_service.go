// Package services orquestra a geração de relatórios: busca no scanner,
// normalização, renderização, gravação dos arquivos e persistência.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"reportservice/internal/db"
	"reportservice/internal/jsonutil"
	"reportservice/internal/logger"
	"reportservice/internal/render"
	"reportservice/internal/report"
	"reportservice/internal/scan"
	"reportservice/models"
)

const fileTimestamp = "20060102150405"

// Recorder recebe os eventos de geração para métricas.
type Recorder interface {
	ObserveRender(format render.Format, d time.Duration, err error)
	ObserveReport(source string, err error)
	ObservePersistence(err error)
}

type noopRecorder struct{}

func (noopRecorder) ObserveRender(render.Format, time.Duration, error) {}
func (noopRecorder) ObserveReport(string, error)                       {}
func (noopRecorder) ObservePersistence(error)                          {}

// Origem da requisição de geração.
const (
	SourceScan    = "scan"
	SourcePayload = "payload"
	SourceQueue   = "queue"
)

// GeneratedReport descreve os artefatos produzidos por uma geração.
type GeneratedReport struct {
	ID               string
	OriginalReportID string
	View             models.ReportView
	PDFPath          string
	DOCXPath         string
	GeneratedAt      time.Time
	// DBID fica vazio quando nenhum registro foi gravado no banco.
	DBID string
}

type ReportService struct {
	Scanner    scan.Scanner
	Renderer   *render.Renderer
	Store      db.ReportStore
	ReportsDir string
	Recorder   Recorder

	Now   func() time.Time
	NewID func() string
}

func NewReportService(scanner scan.Scanner, renderer *render.Renderer, store db.ReportStore, reportsDir string) *ReportService {
	return &ReportService{
		Scanner:    scanner,
		Renderer:   renderer,
		Store:      store,
		ReportsDir: reportsDir,
		Now:        time.Now,
		NewID:      uuid.NewString,
	}
}

// GenerateFromScan busca o scan no scanner e gera o relatório. O scanID é o
// identificador de fallback quando o scanner não informa report_id/scan_id.
func (s *ReportService) GenerateFromScan(ctx context.Context, scanID string) (*GeneratedReport, error) {
	raw, err := s.Scanner.FetchReport(ctx, scanID)
	if err != nil {
		s.recorder().ObserveReport(SourceScan, err)
		return nil, err
	}
	out, err := s.generate(ctx, raw, scanID, s.newID())
	s.recorder().ObserveReport(SourceScan, err)
	return out, err
}

// GenerateFromPayload gera o relatório a partir do JSON recebido diretamente.
func (s *ReportService) GenerateFromPayload(ctx context.Context, payload []byte) (*GeneratedReport, error) {
	raw, err := report.ParseScanResult(payload)
	if err != nil {
		s.recorder().ObserveReport(SourcePayload, err)
		return nil, err
	}
	id := s.newID()
	out, err := s.generate(ctx, raw, id, id)
	s.recorder().ObserveReport(SourcePayload, err)
	return out, err
}

func (s *ReportService) generate(ctx context.Context, raw *models.ScanResult, fallbackID, id string) (*GeneratedReport, error) {
	start := time.Now()
	defer logger.Trace("GenerateReport", start)

	ctx, span := otel.Tracer("reportservice/services").Start(ctx, "report.generate")
	defer span.End()

	view, err := report.Normalize(raw, fallbackID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("report.id", view.ReportID), attribute.String("report.row_id", id))

	now := s.now()
	base := fmt.Sprintf("%s_%s", id, now.UTC().Format(fileTimestamp))
	out := &GeneratedReport{
		ID:               id,
		OriginalReportID: raw.ReportID,
		View:             view,
		PDFPath:          filepath.Join(s.ReportsDir, base+".pdf"),
		DOCXPath:         filepath.Join(s.ReportsDir, base+".docx"),
		GeneratedAt:      now,
	}

	if err := os.MkdirAll(s.ReportsDir, 0o755); err != nil {
		return nil, render.WriteError(render.FormatPDF, err)
	}

	logger.Log.Infof("Gerando PDF do relatório %s", view.ReportID)
	if err := s.renderTo(ctx, render.FormatPDF, out.PDFPath, view, s.Renderer.RenderPDF); err != nil {
		span.RecordError(err)
		return nil, err
	}
	logger.Log.Infof("Gerando DOCX do relatório %s", view.ReportID)
	if err := s.renderTo(ctx, render.FormatDOCX, out.DOCXPath, view, s.Renderer.RenderDOCX); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.persist(ctx, out) {
		out.DBID = id
	}
	logger.Log.Infof("Relatório %s gerado: %s, %s", view.ReportID, out.PDFPath, out.DOCXPath)
	return out, nil
}

func (s *ReportService) renderTo(ctx context.Context, format render.Format, path string, view models.ReportView,
	fn func(context.Context, models.ReportView) ([]byte, error)) error {
	start := time.Now()
	data, err := fn(ctx, view)
	s.recorder().ObserveRender(format, time.Since(start), err)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return render.WriteError(format, err)
	}
	return nil
}

// persist grava os metadados; falhas são registradas e engolidas.
func (s *ReportService) persist(ctx context.Context, out *GeneratedReport) bool {
	if s.Store == nil {
		return false
	}
	data, err := jsonutil.Marshal(out.View)
	if err != nil {
		logger.Log.Errorf("Erro ao serializar relatório %s: %v", out.ID, err)
		s.recorder().ObservePersistence(err)
		return false
	}
	err = s.Store.InsertReport(ctx, models.ReportRecord{
		ID:        out.ID,
		ReportID:  out.View.ReportID,
		RepoURL:   out.View.RepoURL,
		ScanType:  out.View.ScanType,
		Status:    out.View.Status,
		Data:      data,
		CreatedAt: out.GeneratedAt.UTC(),
		PDFPath:   out.PDFPath,
		DOCXPath:  out.DOCXPath,
	})
	if errors.Is(err, db.ErrNoStore) {
		logger.Log.Debugf("Sem banco configurado; metadados do relatório %s não gravados", out.ID)
		return false
	}
	s.recorder().ObservePersistence(err)
	if err != nil {
		logger.Log.Errorf("Erro ao salvar relatório no banco: %v", err)
		return false
	}
	return true
}

func (s *ReportService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ReportService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *ReportService) recorder() Recorder {
	if s.Recorder != nil {
		return s.Recorder
	}
	return noopRecorder{}
}
