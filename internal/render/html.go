package render

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

const reportTemplate = "templates/report.html.tmpl"

func templateFuncs() template.FuncMap {
	funcs := sprig.HtmlFuncMap()
	funcs["badgeClass"] = func(level string) string {
		switch level {
		case "critical", "high", "medium", "low":
			return "badge-" + level
		default:
			return "badge-other"
		}
	}
	return funcs
}

// ParseHTMLTemplate compila o template HTML embutido usado pelo motor Chrome.
func ParseHTMLTemplate() (*template.Template, error) {
	return template.New("report.html.tmpl").Funcs(templateFuncs()).ParseFS(templateFS, reportTemplate)
}

// RenderHTML executa o template sobre o conteúdo do relatório.
func RenderHTML(tmpl *template.Template, c *Content) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, c); err != nil {
		return nil, newError(StageTemplate, FormatPDF, err)
	}
	return buf.Bytes(), nil
}
