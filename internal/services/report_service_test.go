package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportservice/internal/db"
	"reportservice/internal/render"
	"reportservice/internal/report"
	"reportservice/internal/scan"
	"reportservice/models"
)

const samplePayload = `{
	"report_id": "rep-77",
	"repo_url": "https://github.com/acme/payments.git",
	"branch": "main",
	"scan_type": "full",
	"status": "completed",
	"created_at": "2025-03-01T10:00:00Z",
	"completed_at": "2025-03-01T10:02:30Z",
	"vulnerability_count": {"Critical": 5, "High": 10, "Medium": 8, "Low": 2},
	"repository_info": {"languages": {"JavaScript": 70, "Go": 30}, "total_lines": 900},
	"scan_results": {
		"app.js": {"file_path": "src/app.js", "file_type": "javascript", "analysis": "* **Severity:** High"}
	}
}`

type fakeScanner struct {
	raw *models.ScanResult
	err error
}

func (f *fakeScanner) FetchReport(context.Context, string) (*models.ScanResult, error) {
	return f.raw, f.err
}

func (f *fakeScanner) Health(context.Context) error { return f.err }

type fakeStore struct {
	mu      sync.Mutex
	err     error
	records []models.ReportRecord
}

func (f *fakeStore) InsertReport(_ context.Context, rec models.ReportRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return f.err
}

var fixedNow = time.Date(2025, 3, 1, 12, 30, 45, 0, time.UTC)

func newTestService(t *testing.T, scanner scan.Scanner, store *fakeStore) *ReportService {
	t.Helper()
	r := render.New(render.NewFPDF())
	r.Now = func() time.Time { return fixedNow }
	svc := NewReportService(scanner, r, store, filepath.Join(t.TempDir(), "reports"))
	svc.Now = func() time.Time { return fixedNow }
	svc.NewID = func() string { return "11111111-2222-3333-4444-555555555555" }
	return svc
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGenerateFromPayload(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, &fakeScanner{}, store)

	out, err := svc.GenerateFromPayload(context.Background(), []byte(samplePayload))
	require.NoError(t, err)

	assert.Equal(t, "11111111-2222-3333-4444-555555555555", out.ID)
	assert.Equal(t, "rep-77", out.OriginalReportID)
	assert.Equal(t, "rep-77", out.View.ReportID)
	assert.Equal(t, models.VulnerabilitySummary{Critical: 5, High: 10, Medium: 8, Low: 2, Total: 25}, out.View.VulnerabilitySummary)
	assert.Equal(t, out.ID, out.DBID)

	assert.Equal(t, "11111111-2222-3333-4444-555555555555_20250301123045.pdf", filepath.Base(out.PDFPath))
	assert.Equal(t, "11111111-2222-3333-4444-555555555555_20250301123045.docx", filepath.Base(out.DOCXPath))
	assertNonEmptyFile(t, out.PDFPath)
	assertNonEmptyFile(t, out.DOCXPath)

	require.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, out.ID, rec.ID)
	assert.Equal(t, "rep-77", rec.ReportID)
	assert.Equal(t, "full", rec.ScanType)
	assert.Equal(t, out.PDFPath, rec.PDFPath)
	assert.Contains(t, string(rec.Data), `"vulnerability_summary"`)
	assert.Contains(t, string(rec.Data), `"total":25`)
}

func TestGenerateFromPayloadPersistenceFailureIsSwallowed(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	svc := newTestService(t, &fakeScanner{}, store)

	out, err := svc.GenerateFromPayload(context.Background(), []byte(samplePayload))
	require.NoError(t, err)
	assert.Empty(t, out.DBID)
	assertNonEmptyFile(t, out.PDFPath)
	assertNonEmptyFile(t, out.DOCXPath)
}

type persistenceRecorder struct {
	noopRecorder
	calls int
}

func (r *persistenceRecorder) ObservePersistence(error) { r.calls++ }

func TestGenerateFromPayloadWithoutDatabaseLeavesDBIDEmpty(t *testing.T) {
	svc := newTestService(t, &fakeScanner{}, nil)
	svc.Store = db.NoOpStore{}
	rec := &persistenceRecorder{}
	svc.Recorder = rec

	out, err := svc.GenerateFromPayload(context.Background(), []byte(samplePayload))
	require.NoError(t, err)
	assert.Empty(t, out.DBID)
	assert.Zero(t, rec.calls)
	assertNonEmptyFile(t, out.PDFPath)
}

func TestGenerateFromPayloadMalformed(t *testing.T) {
	svc := newTestService(t, &fakeScanner{}, &fakeStore{})

	for _, body := range []string{"", "null", "[1]", "{not json"} {
		_, err := svc.GenerateFromPayload(context.Background(), []byte(body))
		var malformed *report.MalformedInputError
		assert.True(t, errors.As(err, &malformed), "body %q", body)
	}
	_, err := os.Stat(svc.ReportsDir)
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateFromPayloadUsesGeneratedIDAsFallback(t *testing.T) {
	svc := newTestService(t, &fakeScanner{}, &fakeStore{})

	out, err := svc.GenerateFromPayload(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, out.ID, out.View.ReportID)
	assert.Empty(t, out.OriginalReportID)
}

func TestGenerateFromScan(t *testing.T) {
	raw, err := report.ParseScanResult([]byte(`{"repo_url":"git@github.com:acme/api.git"}`))
	require.NoError(t, err)
	store := &fakeStore{}
	svc := newTestService(t, &fakeScanner{raw: raw}, store)

	out, err := svc.GenerateFromScan(context.Background(), "scan-9")
	require.NoError(t, err)
	assert.Equal(t, "scan-9", out.View.ReportID)
	assert.Equal(t, "scan-9", out.View.ScanID)
	assert.Equal(t, "api", out.View.Repository.Name)
	assertNonEmptyFile(t, out.PDFPath)
	require.Len(t, store.records, 1)
}

func TestGenerateFromScanUpstreamError(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, &fakeScanner{err: &scan.UpstreamNotFoundError{ScanID: "nope"}}, store)

	_, err := svc.GenerateFromScan(context.Background(), "nope")
	var notFound *scan.UpstreamNotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Empty(t, store.records)
}

func TestGenerateWriteFailure(t *testing.T) {
	svc := newTestService(t, &fakeScanner{}, &fakeStore{})
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	svc.ReportsDir = blocker

	_, err := svc.GenerateFromPayload(context.Background(), []byte(samplePayload))
	var rerr *render.RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, render.StageWrite, rerr.Stage)
}

type recordingRecorder struct {
	mu      sync.Mutex
	renders []render.Format
	reports []string
	persist []error
}

func (r *recordingRecorder) ObserveRender(f render.Format, _ time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders = append(r.renders, f)
}

func (r *recordingRecorder) ObserveReport(source string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, source)
}

func (r *recordingRecorder) ObservePersistence(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persist = append(r.persist, err)
}

func TestGenerateReportsToRecorder(t *testing.T) {
	rec := &recordingRecorder{}
	svc := newTestService(t, &fakeScanner{}, &fakeStore{})
	svc.Recorder = rec

	_, err := svc.GenerateFromPayload(context.Background(), []byte(samplePayload))
	require.NoError(t, err)
	assert.Equal(t, []render.Format{render.FormatPDF, render.FormatDOCX}, rec.renders)
	assert.Equal(t, []string{SourcePayload}, rec.reports)
	assert.Equal(t, []error{nil}, rec.persist)
}
