package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"reportservice/internal/jsonutil"
)

func newRenderCommand(opts *GlobalOptions) *cobra.Command {
	var (
		input  string
		out    string
		engine string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render PDF and DOCX from a local scan JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if out != "" {
				cfg.ReportsDir = out
			}
			if engine != "" {
				cfg.PDFEngine = engine
			}

			payload, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("erro ao ler %s: %w", input, err)
			}

			ctx := cmd.Context()
			a, err := bootstrap(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				a.close(shutdownCtx)
			}()

			result, err := a.service.GenerateFromPayload(ctx, payload)
			if err != nil {
				return err
			}
			if asJSON {
				body, err := jsonutil.MarshalIndent(map[string]any{
					"report_id":             result.View.ReportID,
					"pdf":                   result.PDFPath,
					"docx":                  result.DOCXPath,
					"vulnerability_summary": result.View.VulnerabilitySummary,
				}, "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(body))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report_id: %s\npdf: %s\ndocx: %s\n", result.View.ReportID, result.PDFPath, result.DOCXPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Arquivo JSON com o resultado do scan")
	cmd.Flags().StringVar(&out, "out", "", "Diretório de saída (padrão: $REPORTS_DIR ou reports)")
	cmd.Flags().StringVar(&engine, "engine", "", "Motor de PDF: chrome ou fpdf")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Imprime o resultado em JSON")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
