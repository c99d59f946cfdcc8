package render

import (
	"bytes"
	"strconv"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"reportservice/internal/report"
)

const (
	tableStyle = "LightList-Accent1"
	recColor   = "047857"
	mutedColor = "6B7280"
)

// BuildDOCX monta o documento Word com as mesmas seções do PDF.
func BuildDOCX(c *Content) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, newError(StageEngine, FormatDOCX, err)
	}
	w := &docxWriter{doc: doc}

	w.cover(c)
	doc.AddPageBreak()

	w.heading("Table of Contents", 1)
	for _, entry := range c.TOC {
		doc.AddParagraph(entry)
	}
	doc.AddPageBreak()

	w.heading("Preface", 1)
	w.sections(c.Preface)
	doc.AddPageBreak()

	w.executiveSummary(c)
	doc.AddPageBreak()

	w.heading("1. Repository Information", 1)
	w.labeled("Total Lines of Code: ", strconv.Itoa(c.TotalLines))
	w.heading("Programming Languages Distribution", 2)
	if len(c.Languages) == 0 {
		doc.AddParagraph(NotAvailable)
	} else {
		rows := make([][2]string, 0, len(c.Languages))
		for _, l := range c.Languages {
			rows = append(rows, [2]string{l.Name, l.Percentage + "%"})
		}
		w.table([2]string{"Language", "Percentage"}, rows)
	}
	doc.AddPageBreak()

	w.heading("2. Security Analysis & Vulnerability Assessment", 1)
	for _, f := range c.Files {
		w.heading(f.Number+" "+f.Name, 2)
		w.labeled("File Path: ", f.Path)
		w.labeled("File Type: ", f.Type)
		w.heading("Security Analysis:", 3)
		for _, b := range f.Blocks {
			w.block(b)
		}
	}
	doc.AddPageBreak()

	w.heading("3. Recommendations", 1)
	w.sections(c.Recommendations)
	doc.AddPageBreak()

	w.heading("4. Summary", 1)
	w.table([2]string{"Metric", "Value"}, c.SummaryRows)
	w.heading("Languages Detected", 2)
	doc.AddParagraph(c.LanguageSummary)
	w.heading("Next Steps", 2)
	for _, s := range c.NextSteps {
		doc.AddParagraph(s)
	}
	w.para("").AddText("Report generated on " + c.GeneratedAt + " by " + c.ToolName).Italic(true).Color(mutedColor).Size(9)

	if w.err != nil {
		return nil, newError(StageEngine, FormatDOCX, w.err)
	}
	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, newError(StageEngine, FormatDOCX, err)
	}
	return buf.Bytes(), nil
}

// docxWriter guarda o primeiro erro de heading para não poluir cada seção.
type docxWriter struct {
	doc *docx.RootDoc
	err error
}

func (w *docxWriter) heading(text string, level uint) {
	if _, err := w.doc.AddHeading(text, level); err != nil && w.err == nil {
		w.err = err
	}
}

// para abre um parágrafo vazio, opcionalmente com estilo, para receber runs.
func (w *docxWriter) para(style string) *docx.Paragraph {
	p := w.doc.AddParagraph("")
	if style != "" {
		p.Style(style)
	}
	return p
}

func (w *docxWriter) labeled(label, value string) {
	p := w.para("")
	p.AddText(label).Bold(true)
	p.AddText(value)
}

func (w *docxWriter) cover(c *Content) {
	w.heading(c.ProductName, 0)
	w.heading(c.Title, 0)
	w.heading(c.Repository.Name, 1)

	w.labeled("Repository: ", c.RepoURL)
	w.labeled("Branch: ", c.Branch)
	w.labeled("Generated: ", c.GeneratedAt)
	w.labeled("Report ID: ", c.ReportID)
}

func (w *docxWriter) executiveSummary(c *Content) {
	w.heading("Executive Summary", 1)
	w.doc.AddParagraph(c.ExecutiveIntro)

	w.heading("Key Findings", 2)
	for _, f := range c.KeyFindings {
		w.para("List Bullet").AddText(f)
	}

	w.heading("Vulnerability Summary", 2)
	t := w.doc.AddTable()
	t.Style(tableStyle)
	header := t.AddRow()
	header.AddCell().AddParagraph("Severity")
	header.AddCell().AddParagraph("Count")
	for _, s := range c.Severities {
		row := t.AddRow()
		row.AddCell().AddParagraph("").AddText(s.Label).Bold(true).Color(SeverityColor(s.Level))
		row.AddCell().AddParagraph(strconv.Itoa(s.Count))
	}
}

func (w *docxWriter) sections(sections []TextSection) {
	for _, s := range sections {
		w.heading(s.Heading, 2)
		for _, p := range s.Paragraphs {
			w.doc.AddParagraph(p)
		}
		for _, b := range s.Bullets {
			w.para("List Bullet").AddText(b)
		}
	}
}

// block traduz um bloco da análise para um parágrafo com a mesma ênfase
// usada no PDF.
func (w *docxWriter) block(b report.Block) {
	switch b.Kind {
	case report.BlockHeading:
		w.para("").AddText(b.Text).Bold(true).Size(11)
	case report.BlockBullet:
		p := w.para("List Bullet")
		if b.Label != "" {
			p.AddText(b.Label + " ").Bold(true)
		}
		p.AddText(b.Text)
	case report.BlockSeverity:
		p := w.para("List Bullet")
		p.AddText("Severity: ").Bold(true)
		p.AddText(b.Text).Bold(true).Color(SeverityColor(b.Level))
	case report.BlockRecommendation:
		w.para("Intense Quote").AddText(b.Text).Color(recColor)
	case report.BlockSubBullet:
		w.para("List Bullet 2").AddText(b.Text)
	default:
		w.doc.AddParagraph(b.Text)
	}
}

func (w *docxWriter) table(header [2]string, rows [][2]string) {
	t := w.doc.AddTable()
	t.Style(tableStyle)
	h := t.AddRow()
	for _, col := range header {
		h.AddCell().AddParagraph("").AddText(col).Bold(true)
	}
	for _, r := range rows {
		row := t.AddRow()
		row.AddCell().AddParagraph("").AddText(r[0]).Bold(true)
		row.AddCell().AddParagraph(r[1])
	}
}
