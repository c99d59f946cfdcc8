// Package api expõe as rotas HTTP de geração de relatórios.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"reportservice/internal/jsonutil"
	"reportservice/internal/logger"
	"reportservice/internal/report"
	"reportservice/internal/scan"
	"reportservice/internal/services"
	"reportservice/models"
)

const (
	ServiceName  = "report-generator"
	maxBodyBytes = 10 << 20
	healthProbe  = 3 * time.Second
)

// ReportGenerator é o que as rotas precisam do ReportService.
type ReportGenerator interface {
	GenerateFromScan(ctx context.Context, scanID string) (*services.GeneratedReport, error)
	GenerateFromPayload(ctx context.Context, payload []byte) (*services.GeneratedReport, error)
}

type Server struct {
	Reports ReportGenerator
	Scanner scan.Scanner
	Metrics *Metrics
	Now     func() time.Time
}

func NewServer(reports ReportGenerator, scanner scan.Scanner, metrics *Metrics) *Server {
	return &Server{Reports: reports, Scanner: scanner, Metrics: metrics, Now: time.Now}
}

// Routes monta o mux com todas as rotas instrumentadas.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /api/report/generate/{scanId}", s.instrument("generate", http.HandlerFunc(s.handleGenerate)))
	mux.Handle("POST /api/report", s.instrument("payload", http.HandlerFunc(s.handlePayload)))
	mux.Handle("GET /health", s.instrument("health", http.HandlerFunc(s.handleHealth)))
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}
	return mux
}

// Run sobe o servidor HTTP e o encerra de forma graciosa quando ctx termina.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(logger.GetLogger()),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Servidor ouvindo em %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Log.Info("Encerrando servidor HTTP")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type repositoryRef struct {
	URL    string `json:"url"`
	Branch string `json:"branch"`
}

type generateData struct {
	ScanID               string                      `json:"scan_id"`
	ReportID             string                      `json:"report_id"`
	DBID                 *string                     `json:"db_id"`
	PDFPath              string                      `json:"pdf_path"`
	DOCXPath             string                      `json:"docx_path"`
	GeneratedAt          string                      `json:"generated_at"`
	VulnerabilitySummary models.VulnerabilitySummary `json:"vulnerability_summary"`
	Repository           repositoryRef               `json:"repository"`
}

type generateResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    generateData `json:"data"`
}

type payloadResponse struct {
	Message          string  `json:"message"`
	ReportID         string  `json:"report_id"`
	OriginalReportID *string `json:"original_report_id,omitempty"`
	PDF              string  `json:"pdf"`
	DOCX             string  `json:"docx"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Scanner   string `json:"scanner"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	defer logger.TraceAuto()()
	scanID := r.PathValue("scanId")
	logger.Log.Infof("Gerando relatório para o scan %s", scanID)

	out, err := s.Reports.GenerateFromScan(r.Context(), scanID)
	if err != nil {
		status, body := generateError(scanID, err)
		logger.Log.Errorf("Erro ao gerar relatório do scan %s: %v", scanID, err)
		writeJSON(w, status, body)
		return
	}

	data := generateData{
		ScanID:               out.View.ScanID,
		ReportID:             out.View.ReportID,
		PDFPath:              out.PDFPath,
		DOCXPath:             out.DOCXPath,
		GeneratedAt:          out.GeneratedAt.UTC().Format(time.RFC3339Nano),
		VulnerabilitySummary: out.View.VulnerabilitySummary,
		Repository:           repositoryRef{URL: out.View.RepoURL, Branch: out.View.Branch},
	}
	if out.DBID != "" {
		data.DBID = &out.DBID
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Success: true,
		Message: "Report generated successfully",
		Data:    data,
	})
}

// generateError escolhe o status HTTP conforme o tipo do erro.
func generateError(scanID string, err error) (int, errorResponse) {
	var (
		unavailable *scan.UpstreamUnavailableError
		notFound    *scan.UpstreamNotFoundError
		upstream    *scan.UpstreamError
		invalid     *scan.InvalidResponseError
		malformed   *report.MalformedInputError
	)
	switch {
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable, errorResponse{
			Error:   "Scanner service unavailable",
			Message: "Unable to connect to scanner service: " + unavailable.URL,
		}
	case errors.As(err, &notFound):
		return http.StatusNotFound, errorResponse{
			Error:   "Scan report not found",
			Message: "No scan report found for scan ID: " + scanID,
		}
	case errors.As(err, &upstream):
		return upstream.StatusCode, errorResponse{
			Error:   "Scanner service error",
			Message: upstream.Error(),
		}
	case errors.As(err, &invalid):
		return http.StatusBadGateway, errorResponse{
			Error:   "Scanner service error",
			Message: invalid.Error(),
		}
	case errors.As(err, &malformed):
		return http.StatusBadRequest, errorResponse{
			Error:   "Malformed scan data",
			Message: malformed.Error(),
		}
	default:
		return http.StatusInternalServerError, errorResponse{
			Error:   "Internal error generating report",
			Message: err.Error(),
		}
	}
}

func (s *Server) handlePayload(w http.ResponseWriter, r *http.Request) {
	defer logger.TraceAuto()()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error:   "Payload too large",
				Message: fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Malformed scan data", Message: err.Error()})
		return
	}

	out, err := s.Reports.GenerateFromPayload(r.Context(), body)
	if err != nil {
		logger.Log.Errorf("Erro ao gerar relatório: %v", err)
		var malformed *report.MalformedInputError
		if errors.As(err, &malformed) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Malformed scan data", Message: malformed.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal error generating report."})
		return
	}

	resp := payloadResponse{
		Message:  "Report generated successfully.",
		ReportID: out.ID,
		PDF:      out.PDFPath,
		DOCX:     out.DOCXPath,
	}
	if out.OriginalReportID != "" {
		resp.OriginalReportID = &out.OriginalReportID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	scanner := "unknown"
	if s.Scanner != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthProbe)
		defer cancel()
		if err := s.Scanner.Health(ctx); err != nil {
			logger.Log.Warnf("Scanner indisponível no health check: %v", err)
			scanner = "unavailable"
		} else {
			scanner = "connected"
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Service:   ServiceName,
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Scanner:   scanner,
	})
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := otel.Tracer("reportservice/api").Start(r.Context(), r.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.String("http.route", route), attribute.Int("http.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
		if s.Metrics != nil {
			s.Metrics.observeRequest(route, rec.status, time.Since(start))
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := jsonutil.Encode(w, v); err != nil {
		logger.Log.Errorf("Erro ao escrever resposta JSON: %v", err)
	}
}
