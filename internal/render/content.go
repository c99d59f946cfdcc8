package render

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reportservice/internal/report"
	"reportservice/models"
)

const (
	ProductName     = "CodeShuriken"
	ReportTitle     = "Security Assessment Report"
	ToolName        = "Automated Security Assessment Tool"
	DefaultAnalysis = "No detailed analysis available for this file."
	UnknownFileType = "Unknown"
	NotAvailable    = "Not available"
)

// TableOfContents é a lista fixa de seções, na ordem em que aparecem.
var TableOfContents = []string{
	"Preface",
	"Executive Summary",
	"1. Repository Information",
	"2. Security Analysis & Vulnerability Assessment",
	"3. Recommendations",
	"4. Summary",
}

type TextSection struct {
	Heading    string
	Paragraphs []string
	Bullets    []string
}

var Preface = []TextSection{
	{
		Heading: "About This Report",
		Paragraphs: []string{
			"This automated security assessment report has been generated to provide comprehensive insights into the security posture of your software repository. The analysis includes dependency vulnerabilities, code quality metrics, and actionable security recommendations.",
		},
	},
	{
		Heading:    "Methodology",
		Paragraphs: []string{"Our security assessment employs multiple scanning techniques including:"},
		Bullets: []string{
			"Static code analysis for vulnerability detection",
			"Dependency vulnerability scanning against known CVE databases",
			"Software Bill of Materials (SBOM) generation and analysis",
			"Code quality and security best practices evaluation",
		},
	},
	{
		Heading: "Scope and Limitations",
		Paragraphs: []string{
			"This report covers static analysis findings and known vulnerabilities in dependencies. It does not include dynamic testing, manual code review findings, or infrastructure security assessments. The analysis is based on the repository state at the time of scanning.",
		},
	},
	{
		Heading: "How to Use This Report",
		Paragraphs: []string{
			"Review the Executive Summary for high-level findings, then proceed to detailed sections. Prioritize critical and high-severity vulnerabilities for immediate remediation. Use the recommendations section to improve your overall security posture.",
		},
	},
}

const executiveIntro = "This report identifies potential security weaknesses and vulnerabilities found through static code review and searches of public vulnerability sources. The analysis focused particularly on dependency vulnerabilities that could be exploited to alter system behavior, access critical data, or conduct denial of service attacks."

var Recommendations = []TextSection{
	{
		Heading: "Immediate Actions Required:",
		Bullets: []string{
			"Review and address all critical and high severity vulnerabilities",
			"Update all outdated dependencies to their latest stable versions",
			"Implement proper dependency management practices",
		},
	},
	{
		Heading: "Long-term Security Improvements:",
		Bullets: []string{
			"Integrate automated security scanning into CI/CD pipeline",
			"Regular security code reviews",
			"Monitor security advisories for used dependencies",
			"Implement secure coding practices",
		},
	},
}

var NextSteps = []string{
	"1. Immediate: Address any critical or high-severity vulnerabilities identified",
	"2. Short-term: Review and update outdated dependencies",
	"3. Long-term: Implement continuous security monitoring and automated scanning",
	"4. Process: Integrate security practices into development workflow",
}

// Content é o conteúdo lógico do relatório, idêntico para PDF e DOCX.
type Content struct {
	ProductName string
	Title       string
	ToolName    string
	GeneratedAt string

	ReportID   string
	ScanID     string
	Repository models.Repository
	RepoURL    string
	// Branch já traz o fallback usado nas capas.
	Branch     string

	TOC     []string
	Preface []TextSection

	ExecutiveIntro  string
	KeyFindings     []string
	Severities      []SeverityCount
	LanguageSummary string

	Languages  []LanguageShare
	TotalLines int

	Files []FileSection

	Recommendations []TextSection

	SummaryRows [][2]string
	NextSteps   []string
}

type SeverityCount struct {
	Label string
	Level string
	Count int
}

type LanguageShare struct {
	Name       string
	Percentage string
}

type FileSection struct {
	Number string
	Name   string
	Path   string
	Type   string
	Blocks []report.Block
}

// BuildContent monta o conteúdo do relatório a partir da visão normalizada.
func BuildContent(view models.ReportView, generatedAt time.Time) *Content {
	c := &Content{
		ProductName:     ProductName,
		Title:           ReportTitle,
		ToolName:        ToolName,
		GeneratedAt:     generatedAt.UTC().Format(time.RFC3339),
		ReportID:        view.ReportID,
		ScanID:          view.ScanID,
		Repository:      view.Repository,
		RepoURL:         orDefault(view.RepoURL, report.NotAvailable),
		Branch:          orDefault(view.Repository.Branch, report.NotAvailable),
		TOC:             TableOfContents,
		Preface:         Preface,
		ExecutiveIntro:  executiveIntro,
		Recommendations: Recommendations,
		NextSteps:       NextSteps,
		TotalLines:      view.RepositoryInfo.TotalLines,
	}

	view.RepositoryInfo.Languages.Each(func(name string, pct float64) {
		c.Languages = append(c.Languages, LanguageShare{Name: name, Percentage: FormatNumber(pct)})
	})
	c.LanguageSummary = LanguageSummary(c.Languages)

	p := view.Progress
	c.KeyFindings = []string{
		"Repository contains " + strconv.Itoa(p.TotalFiles) + " files with " + strconv.Itoa(p.ProcessedFiles) + " successfully processed",
		"Scan completion rate: " + FormatNumber(p.Percentage) + "%",
		"Primary languages identified: " + c.LanguageSummary,
	}

	title := cases.Title(language.English)
	s := view.VulnerabilitySummary
	for _, sc := range []struct {
		level string
		count int
	}{{"critical", s.Critical}, {"high", s.High}, {"medium", s.Medium}, {"low", s.Low}, {"total", s.Total}} {
		c.Severities = append(c.Severities, SeverityCount{Label: title.String(sc.level), Level: sc.level, Count: sc.count})
	}

	i := 0
	view.ScanResults.Each(func(name string, f models.FileResult) {
		i++
		analysis := f.Analysis
		if strings.TrimSpace(analysis) == "" {
			analysis = DefaultAnalysis
		}
		c.Files = append(c.Files, FileSection{
			Number: "2." + strconv.Itoa(i),
			Name:   name,
			Path:   orDefault(f.FilePath, name),
			Type:   orDefault(f.FileType, UnknownFileType),
			Blocks: report.FormatAnalysis(analysis),
		})
	})

	c.SummaryRows = [][2]string{
		{"Scan Type", orDefault(view.ScanType, report.NotAvailable)},
		{"Status", orDefault(view.Status, report.NotAvailable)},
		{"Files Processed", strconv.Itoa(p.ProcessedFiles) + "/" + strconv.Itoa(p.TotalFiles)},
		{"Progress", FormatNumber(p.Percentage) + "%"},
		{"Repository URL", c.RepoURL},
		{"Branch Analyzed", orDefault(view.Branch, report.NotAvailable)},
		{"Scan Duration", view.ScanDuration},
		{"Scan Completed", orDefault(view.CompletedAt, report.NotAvailable)},
	}
	return c
}

// LanguageSummary formata "<nome> (<pct>%)" separados por vírgula.
func LanguageSummary(langs []LanguageShare) string {
	if len(langs) == 0 {
		return NotAvailable
	}
	parts := make([]string, 0, len(langs))
	for _, l := range langs {
		parts = append(parts, l.Name+" ("+l.Percentage+"%)")
	}
	return strings.Join(parts, ", ")
}

func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SeverityColor devolve a cor hex (sem #) do selo de severidade.
func SeverityColor(level string) string {
	switch strings.ToLower(level) {
	case "critical":
		return "DC2626"
	case "high":
		return "EA580C"
	case "medium":
		return "CA8A04"
	case "low":
		return "16A34A"
	default:
		return "6B7280"
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
