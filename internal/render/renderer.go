// Package render gera os documentos PDF e DOCX a partir da ReportView.
package render

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"reportservice/internal/logger"
	"reportservice/models"
)

// PDFEngine converte o conteúdo do relatório em bytes PDF.
type PDFEngine interface {
	RenderPDF(ctx context.Context, c *Content) ([]byte, error)
}

const (
	EngineChrome = "chrome"
	EngineFPDF   = "fpdf"
)

// NewPDFEngine escolhe o motor pelo nome configurado.
func NewPDFEngine(name, chromePath string, timeout time.Duration) (PDFEngine, error) {
	switch name {
	case "", EngineChrome:
		return NewChromePDF(chromePath, timeout)
	case EngineFPDF:
		return NewFPDF(), nil
	default:
		return nil, fmt.Errorf("motor de PDF desconhecido: %q", name)
	}
}

// Renderer produz os dois formatos. Cada chamada é independente; só o horário
// de geração varia entre chamadas.
type Renderer struct {
	PDF PDFEngine
	Now func() time.Time
}

func New(pdf PDFEngine) *Renderer {
	return &Renderer{PDF: pdf, Now: time.Now}
}

func (r *Renderer) content(view models.ReportView) *Content {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return BuildContent(view, now())
}

func (r *Renderer) RenderPDF(ctx context.Context, view models.ReportView) ([]byte, error) {
	start := time.Now()
	defer logger.Trace("RenderPDF", start)

	ctx, span := otel.Tracer("reportservice/render").Start(ctx, "render.pdf")
	span.SetAttributes(attribute.String("report.id", view.ReportID))
	defer span.End()

	out, err := r.PDF.RenderPDF(ctx, r.content(view))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return out, nil
}

func (r *Renderer) RenderDOCX(ctx context.Context, view models.ReportView) ([]byte, error) {
	start := time.Now()
	defer logger.Trace("RenderDOCX", start)

	_, span := otel.Tracer("reportservice/render").Start(ctx, "render.docx")
	span.SetAttributes(attribute.String("report.id", view.ReportID))
	defer span.End()

	out, err := BuildDOCX(r.content(view))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return out, nil
}
