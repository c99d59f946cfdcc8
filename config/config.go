package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port              string        `yaml:"port"`                // Porta HTTP do serviço.
	ScannerURL        string        `yaml:"scanner_url"`         // URL base do scanner service.
	ScannerTimeout    time.Duration `yaml:"scanner_timeout"`     // Tempo máximo de espera pelo scanner.
	ReportsDir        string        `yaml:"reports_dir"`         // Diretório de saída dos relatórios.
	PDFEngine         string        `yaml:"pdf_engine"`          // "chrome" ou "fpdf".
	ChromePath        string        `yaml:"chrome_path"`         // Caminho do binário do Chrome (opcional).
	RenderTimeout     time.Duration `yaml:"render_timeout"`      // Tempo máximo de renderização do PDF.
	DatabaseURL       string        `yaml:"database_url"`        // DSN completo (tem precedência sobre PG_*).
	PGHost            string        `yaml:"pg_host"`             // Host do RDS.
	PGPort            string        `yaml:"pg_port"`             // Porta do RDS.
	PGName            string        `yaml:"pg_name"`             // Nome do banco.
	PGUser            string        `yaml:"pg_user"`             // Usuário.
	PGPassword        string        `yaml:"-"`                   // Senha.
	DBSecretID        string        `yaml:"db_secret_id"`        // ID do segredo com a senha do banco.
	AWSRegion         string        `yaml:"aws_region"`          // Região AWS.
	SQSQueueURL       string        `yaml:"sqs_queue_url"`       // URL da fila SQS.
	Workers           int           `yaml:"workers"`             // Número de workers no consumer.
	OTLPEndpoint      string        `yaml:"otlp_endpoint"`       // Endpoint OTLP gRPC (opcional).
	LogPath           string        `yaml:"log_path"`            // Arquivo de log rotacionado.
	Env               string        `yaml:"env"`                 // Ambiente (production, dev...).
	EnableSecrets     bool          `yaml:"enable_secrets"`      // Habilita AWS Secrets Manager para a senha do banco.
	EnableSQS         bool          `yaml:"enable_sqs"`          // Habilita consumo de mensagens da SQS.
}

// Default devolve a configuração usada quando nada é informado.
func Default() Config {
	return Config{
		Port:           "3500",
		ScannerURL:     "http://localhost:3000",
		ScannerTimeout: 30 * time.Second,
		ReportsDir:     "reports",
		PDFEngine:      "chrome",
		RenderTimeout:  60 * time.Second,
		Workers:        5,
		LogPath:        "logs/app.log",
		Env:            "production",
	}
}

// Load monta a configuração: padrões, depois o arquivo YAML de CONFIG_FILE (se houver),
// depois as variáveis de ambiente.
func Load() (Config, error) {
	return LoadFrom(os.Getenv("CONFIG_FILE"))
}

// LoadFrom é como Load, mas com o caminho do YAML explícito (vazio ignora o arquivo).
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("erro ao ler arquivo de configuração %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("erro ao interpretar arquivo de configuração %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	parseBool := func(key string, dst *bool) {
		if v, err := strconv.ParseBool(getenv(key)); err == nil {
			*dst = v
		}
	}
	parseDuration := func(key string, dst *time.Duration) {
		if v, err := time.ParseDuration(getenv(key)); err == nil && v > 0 {
			*dst = v
		}
	}

	str("PORT", &c.Port)
	str("SCANNER_SERVICE_URL", &c.ScannerURL)
	parseDuration("SCANNER_TIMEOUT", &c.ScannerTimeout)
	str("REPORTS_DIR", &c.ReportsDir)
	str("PDF_ENGINE", &c.PDFEngine)
	str("CHROME_PATH", &c.ChromePath)
	parseDuration("RENDER_TIMEOUT", &c.RenderTimeout)
	str("DATABASE_URL", &c.DatabaseURL)
	str("PG_HOST", &c.PGHost)
	str("PG_PORT", &c.PGPort)
	str("PG_NAME", &c.PGName)
	str("PG_USER", &c.PGUser)
	str("PG_PASSWORD", &c.PGPassword)
	str("DB_SECRET_ID", &c.DBSecretID)
	str("AWS_REGION", &c.AWSRegion)
	str("SQS_QUEUE_URL", &c.SQSQueueURL)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &c.OTLPEndpoint)
	str("LOG_PATH", &c.LogPath)
	str("APP_ENV", &c.Env)
	parseBool("ENABLE_SECRETS_MANAGER", &c.EnableSecrets)
	parseBool("ENABLE_SQS", &c.EnableSQS)
	if n, err := strconv.Atoi(getenv("WORKERS")); err == nil && n > 0 {
		c.Workers = n
	}
}

// DatabaseEnabled indica se há dados suficientes para abrir conexão com o banco.
func (c Config) DatabaseEnabled() bool {
	return c.DatabaseURL != "" || c.PGHost != ""
}

func (c Config) PostgresConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	// Exemplo: "host=localhost port=5432 dbname=mydb user=myuser password=mypass sslmode=disable"
	return "host=" + c.PGHost + " port=" + c.PGPort + " dbname=" + c.PGName + " user=" + c.PGUser + " password=" + c.PGPassword + " sslmode=disable"
}
