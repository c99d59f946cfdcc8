package render

import (
	"context"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Dimensões A4 e margens (40px/20px) em polegadas, como o PrintToPDF espera.
const (
	a4Width      = 8.27
	a4Height     = 11.69
	marginTopBot = 0.42
	marginSides  = 0.21
)

// ChromePDF renderiza o HTML do relatório num Chrome headless e imprime em PDF.
type ChromePDF struct {
	ExecPath string
	Timeout  time.Duration

	tmpl *template.Template
}

func NewChromePDF(execPath string, timeout time.Duration) (*ChromePDF, error) {
	tmpl, err := ParseHTMLTemplate()
	if err != nil {
		return nil, newError(StageTemplate, FormatPDF, err)
	}
	return &ChromePDF{ExecPath: execPath, Timeout: timeout, tmpl: tmpl}, nil
}

func (c *ChromePDF) RenderPDF(ctx context.Context, content *Content) ([]byte, error) {
	html, err := RenderHTML(c.tmpl, content)
	if err != nil {
		return nil, err
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(marginTopBot).
				WithMarginBottom(marginTopBot).
				WithMarginLeft(marginSides).
				WithMarginRight(marginSides).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, newError(StageEngine, FormatPDF, err)
	}
	return pdf, nil
}
