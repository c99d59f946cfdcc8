package render

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	gofpdf "github.com/go-pdf/fpdf"

	"reportservice/internal/report"
)

// FPDF gera o PDF diretamente com go-pdf/fpdf, sem navegador. Serve para
// ambientes sem Chrome e para os testes.
type FPDF struct {
	noCompress bool
}

func NewFPDF() *FPDF {
	return &FPDF{}
}

const (
	pageMargin = 15.0
	lineHeight = 5.0
)

var (
	colorTitle = [3]int{30, 41, 59}
	colorText  = [3]int{55, 65, 81}
	colorMuted = [3]int{107, 114, 128}
	colorRule  = [3]int{229, 231, 235}
	colorRec   = [3]int{236, 253, 245}
)

type fpdfDoc struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (f *FPDF) RenderPDF(ctx context.Context, c *Content) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, newError(StageEngine, FormatPDF, err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(!f.noCompress)
	pdf.SetTitle(c.Title, true)
	pdf.SetAuthor(c.ProductName, true)
	pdf.SetCreator(c.ToolName, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin+5)
	pdf.AliasNbPages("")

	d := &fpdfDoc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		d.textColor(colorMuted)
		pdf.CellFormat(0, 8, d.tr(fmt.Sprintf("%s %s - Page %d of {nb}", c.ProductName, c.Title, pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	d.cover(c)
	d.toc(c)
	d.preface(c)
	d.executiveSummary(c)
	d.repositoryInfo(c)
	d.files(c)
	d.recommendations(c)
	d.summary(c)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, newError(StageEngine, FormatPDF, err)
	}
	return buf.Bytes(), nil
}

func (d *fpdfDoc) textColor(rgb [3]int) { d.pdf.SetTextColor(rgb[0], rgb[1], rgb[2]) }
func (d *fpdfDoc) fillColor(rgb [3]int) { d.pdf.SetFillColor(rgb[0], rgb[1], rgb[2]) }

func (d *fpdfDoc) sectionHeader(text string) {
	d.pdf.SetFont("Helvetica", "B", 18)
	d.textColor(colorTitle)
	d.pdf.CellFormat(0, 10, d.tr(text), "", 1, "L", false, 0, "")
	x, y := d.pdf.GetXY()
	d.pdf.SetDrawColor(colorRule[0], colorRule[1], colorRule[2])
	d.pdf.Line(x, y, x+180, y)
	d.pdf.Ln(4)
}

func (d *fpdfDoc) subHeader(text string) {
	d.pdf.Ln(2)
	d.pdf.SetFont("Helvetica", "B", 13)
	d.textColor(colorTitle)
	d.pdf.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
}

func (d *fpdfDoc) paragraph(text string) {
	d.pdf.SetFont("Helvetica", "", 10)
	d.textColor(colorText)
	d.pdf.MultiCell(0, lineHeight, d.tr(text), "", "L", false)
	d.pdf.Ln(2)
}

func (d *fpdfDoc) bullet(text string, indent float64) {
	d.pdf.SetFont("Helvetica", "", 10)
	d.textColor(colorText)
	d.pdf.SetX(pageMargin + indent)
	d.pdf.MultiCell(0, lineHeight, d.tr("- "+text), "", "L", false)
}

func (d *fpdfDoc) textSections(sections []TextSection) {
	for _, s := range sections {
		d.subHeader(s.Heading)
		for _, p := range s.Paragraphs {
			d.paragraph(p)
		}
		for _, b := range s.Bullets {
			d.bullet(b, 4)
		}
		d.pdf.Ln(2)
	}
}

// table desenha linhas de duas colunas com a primeira em negrito.
func (d *fpdfDoc) table(header [2]string, rows [][2]string, widths [2]float64) {
	d.pdf.SetFont("Helvetica", "B", 10)
	d.fillColor(colorTitle)
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.CellFormat(widths[0], 8, d.tr(header[0]), "1", 0, "L", true, 0, "")
	d.pdf.CellFormat(widths[1], 8, d.tr(header[1]), "1", 1, "L", true, 0, "")

	d.textColor(colorText)
	for _, r := range rows {
		d.pdf.SetFont("Helvetica", "B", 10)
		d.pdf.CellFormat(widths[0], 7, d.tr(r[0]), "1", 0, "L", false, 0, "")
		d.pdf.SetFont("Helvetica", "", 10)
		d.pdf.CellFormat(widths[1], 7, d.tr(r[1]), "1", 1, "L", false, 0, "")
	}
	d.pdf.Ln(4)
}

func (d *fpdfDoc) cover(c *Content) {
	d.pdf.AddPage()
	d.pdf.Ln(50)
	d.pdf.SetFont("Helvetica", "B", 28)
	d.textColor(colorTitle)
	d.pdf.CellFormat(0, 14, d.tr(c.ProductName), "", 1, "C", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 20)
	d.pdf.CellFormat(0, 12, d.tr(c.Title), "", 1, "C", false, 0, "")
	d.pdf.Ln(8)
	d.pdf.SetFont("Helvetica", "B", 16)
	d.pdf.CellFormat(0, 10, d.tr(c.Repository.Name), "", 1, "C", false, 0, "")
	d.pdf.Ln(20)

	d.pdf.SetFont("Helvetica", "", 10)
	d.textColor(colorMuted)
	for _, line := range []string{
		"Repository: " + c.RepoURL,
		"Branch: " + c.Branch,
		"Report ID: " + c.ReportID,
		"Generated: " + c.GeneratedAt,
	} {
		d.pdf.CellFormat(0, 6, d.tr(line), "", 1, "C", false, 0, "")
	}
}

func (d *fpdfDoc) toc(c *Content) {
	d.pdf.AddPage()
	d.sectionHeader("Table of Contents")
	d.pdf.SetFont("Helvetica", "", 12)
	d.textColor(colorText)
	for _, entry := range c.TOC {
		d.pdf.CellFormat(0, 8, d.tr(entry), "B", 1, "L", false, 0, "")
	}
}

func (d *fpdfDoc) preface(c *Content) {
	d.pdf.AddPage()
	d.sectionHeader("Preface")
	d.textSections(c.Preface)
}

func (d *fpdfDoc) executiveSummary(c *Content) {
	d.pdf.AddPage()
	d.sectionHeader("Executive Summary")
	d.paragraph(c.ExecutiveIntro)

	d.subHeader("Key Findings")
	for _, f := range c.KeyFindings {
		d.bullet(f, 4)
	}
	d.pdf.Ln(4)

	d.subHeader("Vulnerability Summary")
	d.pdf.SetFont("Helvetica", "B", 10)
	d.fillColor(colorTitle)
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.CellFormat(90, 8, "Severity", "1", 0, "L", true, 0, "")
	d.pdf.CellFormat(90, 8, "Count", "1", 1, "L", true, 0, "")
	for _, s := range c.Severities {
		r, g, b := hexRGB(SeverityColor(s.Level))
		d.pdf.SetFont("Helvetica", "B", 10)
		d.pdf.SetTextColor(r, g, b)
		d.pdf.CellFormat(90, 7, d.tr(s.Label), "1", 0, "L", false, 0, "")
		d.pdf.SetFont("Helvetica", "", 10)
		d.textColor(colorText)
		d.pdf.CellFormat(90, 7, strconv.Itoa(s.Count), "1", 1, "L", false, 0, "")
	}
}

func (d *fpdfDoc) repositoryInfo(c *Content) {
	d.pdf.AddPage()
	d.sectionHeader("1. Repository Information")
	d.paragraph("Total Lines of Code: " + strconv.Itoa(c.TotalLines))

	d.subHeader("Programming Languages Distribution")
	if len(c.Languages) == 0 {
		d.paragraph(NotAvailable)
		return
	}
	rows := make([][2]string, 0, len(c.Languages))
	for _, l := range c.Languages {
		rows = append(rows, [2]string{l.Name, l.Percentage + "%"})
	}
	d.table([2]string{"Language", "Percentage"}, rows, [2]float64{90, 90})
}

func (d *fpdfDoc) files(c *Content) {
	d.pdf.AddPage()
	d.sectionHeader("2. Security Analysis & Vulnerability Assessment")
	for _, f := range c.Files {
		d.subHeader(f.Number + " " + f.Name)
		d.pdf.SetFont("Helvetica", "", 9)
		d.textColor(colorMuted)
		d.pdf.MultiCell(0, lineHeight, d.tr("File Path: "+f.Path), "", "L", false)
		d.pdf.MultiCell(0, lineHeight, d.tr("File Type: "+f.Type), "", "L", false)
		d.pdf.Ln(2)
		for _, b := range f.Blocks {
			d.block(b)
		}
		d.pdf.Ln(4)
	}
}

func (d *fpdfDoc) block(b report.Block) {
	switch b.Kind {
	case report.BlockHeading:
		d.pdf.Ln(1)
		d.pdf.SetFont("Helvetica", "B", 11)
		d.textColor(colorTitle)
		d.pdf.MultiCell(0, 6, d.tr(b.Text), "", "L", false)
	case report.BlockBullet:
		d.pdf.SetX(pageMargin + 4)
		d.textColor(colorText)
		if b.Label != "" {
			d.pdf.SetFont("Helvetica", "B", 10)
			d.pdf.Write(lineHeight, d.tr(b.Label+" "))
		}
		d.pdf.SetFont("Helvetica", "", 10)
		d.pdf.Write(lineHeight, d.tr(b.Text))
		d.pdf.Ln(lineHeight + 1)
	case report.BlockSeverity:
		d.pdf.SetX(pageMargin + 4)
		d.pdf.SetFont("Helvetica", "B", 10)
		d.textColor(colorText)
		d.pdf.Write(lineHeight, "Severity: ")
		r, g, bl := hexRGB(SeverityColor(b.Level))
		d.pdf.SetTextColor(r, g, bl)
		d.pdf.Write(lineHeight, d.tr(b.Text))
		d.pdf.Ln(lineHeight + 1)
	case report.BlockRecommendation:
		d.pdf.SetX(pageMargin + 4)
		d.pdf.SetFont("Helvetica", "", 10)
		d.textColor(colorText)
		d.fillColor(colorRec)
		d.pdf.MultiCell(0, lineHeight+1, d.tr(b.Text), "", "L", true)
		d.pdf.Ln(1)
	case report.BlockSubBullet:
		d.bullet(b.Text, 10)
	default:
		d.paragraph(b.Text)
	}
}

func (d *fpdfDoc) recommendations(c *Content) {
	d.pdf.AddPage()
	d.sectionHeader("3. Recommendations")
	d.textSections(c.Recommendations)
}

func (d *fpdfDoc) summary(c *Content) {
	d.pdf.AddPage()
	d.sectionHeader("4. Summary")
	d.table([2]string{"Metric", "Value"}, c.SummaryRows, [2]float64{60, 120})

	d.subHeader("Languages Detected")
	d.paragraph(c.LanguageSummary)

	d.subHeader("Next Steps")
	for _, s := range c.NextSteps {
		d.bullet(s, 4)
	}
	d.pdf.Ln(6)

	d.pdf.SetFont("Helvetica", "I", 9)
	d.textColor(colorMuted)
	d.pdf.MultiCell(0, lineHeight, d.tr("Report generated on "+c.GeneratedAt+" by "+c.ToolName), "", "C", false)
}

// hexRGB converte "RRGGBB" em componentes; valores inválidos viram cinza.
func hexRGB(hex string) (int, int, int) {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return colorMuted[0], colorMuted[1], colorMuted[2]
	}
	return int(v>>16&0xff), int(v>>8&0xff), int(v&0xff)
}
