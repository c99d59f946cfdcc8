package cli

import (
	"context"
	"fmt"
	"os"

	"reportservice/config"
	"reportservice/internal/db"
	"reportservice/internal/logger"
	"reportservice/internal/render"
	"reportservice/internal/scan"
	"reportservice/internal/secrets"
	"reportservice/internal/services"
	"reportservice/internal/tracing"
)

// app reúne as dependências montadas a partir da configuração.
type app struct {
	cfg      config.Config
	scanner  *scan.HTTPScanner
	service  *services.ReportService
	shutdown []func(context.Context) error
}

func loadConfig(opts *GlobalOptions) (config.Config, error) {
	path := opts.ConfigFile
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return cfg, err
	}
	logger.Configure(cfg.Env, cfg.LogPath)
	if err := logger.Init(); err != nil {
		return cfg, fmt.Errorf("erro ao iniciar o logger: %w", err)
	}
	return cfg, nil
}

// bootstrap monta scanner, renderizador, banco e serviço. withDB=false usa
// NoOpStore, como no render offline.
func bootstrap(ctx context.Context, cfg config.Config, withDB bool) (*app, error) {
	a := &app{cfg: cfg}

	shutdownTracing, err := tracing.Init(ctx, cfg.OTLPEndpoint, "reportservice", BuildVersion)
	if err != nil {
		logger.Log.Warnf("Tracing desabilitado: %v", err)
	} else {
		a.shutdown = append(a.shutdown, shutdownTracing)
	}

	engine, err := render.NewPDFEngine(cfg.PDFEngine, cfg.ChromePath, cfg.RenderTimeout)
	if err != nil {
		return nil, err
	}

	var store db.ReportStore = db.NoOpStore{}
	if withDB {
		store = openStore(ctx, a, cfg)
	}

	a.scanner = scan.NewHTTPScanner(cfg.ScannerURL, cfg.ScannerTimeout)
	a.service = services.NewReportService(a.scanner, render.New(engine), store, cfg.ReportsDir)
	return a, nil
}

// openStore conecta ao Postgres. Sem banco o serviço continua gerando
// relatórios, só não grava metadados.
func openStore(ctx context.Context, a *app, cfg config.Config) db.ReportStore {
	slog := logger.GetSugaredLogger()
	if !cfg.DatabaseEnabled() {
		slog.Info("Banco não configurado; metadados não serão gravados")
		return db.NoOpStore{}
	}

	if cfg.EnableSecrets && cfg.DBSecretID != "" {
		fetcher, err := secrets.NewAWSSecretFetcher(ctx, cfg.AWSRegion)
		if err != nil {
			slog.Errorf("Erro ao criar AWSSecretFetcher: %v", err)
		} else if password, err := fetcher.GetSecret(ctx, cfg.DBSecretID); err != nil {
			slog.Errorf("Erro ao recuperar o secret do DB: %v", err)
		} else {
			cfg.PGPassword = password
		}
	} else if cfg.PGPassword == "" {
		env := &secrets.DefaultSecretsManager{}
		if password, err := env.GetSecret(ctx, "PG_PASSWORD"); err == nil {
			cfg.PGPassword = password
		}
	}

	database := db.NewDatabase()
	conn, err := database.Connect(ctx, cfg.PostgresConnString())
	if err != nil {
		slog.Warnf("Banco indisponível, metadados não serão gravados: %v", err)
		return db.NoOpStore{}
	}
	a.shutdown = append(a.shutdown, func(context.Context) error { return database.Close() })
	slog.Info("Conectado ao banco de dados")
	return &db.RDSStore{DB: conn}
}

func (a *app) close(ctx context.Context) {
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		if err := a.shutdown[i](ctx); err != nil {
			logger.Log.Warnf("Erro ao encerrar recurso: %v", err)
		}
	}
	logger.Sync()
}
