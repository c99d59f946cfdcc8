// Package cli define os comandos do binário reportservice.
package cli

import (
	"github.com/spf13/cobra"
)

// BuildVersion é sobrescrita no build via -ldflags.
var BuildVersion = "0.1.0-dev"

type GlobalOptions struct {
	ConfigFile string
}

func NewRootCommand() *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:           "reportservice",
		Short:         "Security assessment report generator",
		Long:          "Gera relatórios PDF e DOCX a partir dos resultados do scanner de segurança.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "Arquivo YAML de configuração (padrão: $CONFIG_FILE)")

	cmd.AddCommand(
		newServeCommand(opts),
		newConsumeCommand(opts),
		newRenderCommand(opts),
		newVersionCommand(),
	)
	return cmd
}
