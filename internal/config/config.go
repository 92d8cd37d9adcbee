package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vfg2006/ads-report-sync/internal/domain"
)

const (
	RegistrySourceCSV      = "csv"
	RegistrySourcePostgres = "postgres"
)

type Config struct {
	App        App        `mapstructure:",squash"`
	Server     Server     `mapstructure:",squash"`
	Database   Database   `mapstructure:",squash"`
	Auth       Auth       `mapstructure:",squash"`
	AdPlatform AdPlatform `mapstructure:",squash"`
	Report     Report     `mapstructure:",squash"`
	Sync       Sync       `mapstructure:",squash"`
	Registry   Registry   `mapstructure:",squash"`
	BigQuery   BigQuery   `mapstructure:",squash"`
	Tables     Tables     `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN               string `mapstructure:"-"`
	Driver            string `mapstructure:"database_driver"`
	Password          string `mapstructure:"database_password"`
	URL               string `mapstructure:"database_url"`
	User              string `mapstructure:"database_user"`
	RunHistoryEnabled bool   `mapstructure:"run_history_enabled"`
	RunMigrations     bool   `mapstructure:"run_migrations"`

	MaxOpenConns    int           `mapstructure:"database_max_open_conns"`
	MaxIdleConns    int           `mapstructure:"database_max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"database_conn_max_lifetime"`
}

type Auth struct {
	Secret            string `mapstructure:"auth_secret"`
	AdminUser         string `mapstructure:"admin_user"`
	AdminPasswordHash string `mapstructure:"admin_password_hash"`
}

type AdPlatform struct {
	BaseURL     string        `mapstructure:"adplatform_base_url"`
	HTTPTimeout time.Duration `mapstructure:"adplatform_http_timeout"`
	PageSize    int           `mapstructure:"adplatform_page_size"`
}

// Report define a janela consultada e a cadência de polling dos relatórios assíncronos
type Report struct {
	LookbackDays    int           `mapstructure:"report_lookback_days"`
	IncludeToday    bool          `mapstructure:"report_include_today"`
	Timezone        string        `mapstructure:"report_timezone"`
	PollInterval    time.Duration `mapstructure:"report_poll_interval"`
	MaxPollAttempts int           `mapstructure:"report_max_poll_attempts"`
}

type Sync struct {
	CronSchedule string        `mapstructure:"sync_cron"`
	Enabled      bool          `mapstructure:"sync_enabled"`
	AccountDelay time.Duration `mapstructure:"sync_account_delay"`
	StageDelay   time.Duration `mapstructure:"sync_stage_delay"`
}

type Registry struct {
	Source  string `mapstructure:"registry_source"`
	CSVPath string `mapstructure:"registry_csv_path"`
}

type BigQuery struct {
	ProjectID   string `mapstructure:"bigquery_project_id"`
	Dataset     string `mapstructure:"bigquery_dataset"`
	WaitForJobs bool   `mapstructure:"bigquery_wait_for_jobs"`
}

// Tables são os identificadores das oito tabelas de destino
type Tables struct {
	Account  string `mapstructure:"table_account"`
	Campaign string `mapstructure:"table_campaign"`
	AdGroup  string `mapstructure:"table_adgroup"`
	AdReport string `mapstructure:"table_ad_report"`
	Media    string `mapstructure:"table_media"`
	Gender   string `mapstructure:"table_gender"`
	Age      string `mapstructure:"table_age"`
	Device   string `mapstructure:"table_device"`
}

// ForReportType devolve a tabela de destino de um tipo de relatório
func (t Tables) ForReportType(rt domain.ReportType) string {
	switch rt {
	case domain.ReportTypeAccount:
		return t.Account
	case domain.ReportTypeCampaign:
		return t.Campaign
	case domain.ReportTypeAdGroup:
		return t.AdGroup
	case domain.ReportTypeMedia:
		return t.Media
	case domain.ReportTypeAd:
		return t.AdReport
	case domain.ReportTypeGender:
		return t.Gender
	case domain.ReportTypeAge:
		return t.Age
	case domain.ReportTypeDevice:
		return t.Device
	default:
		return ""
	}
}

// Location devolve o fuso usado para calcular a janela dos relatórios
func (r Report) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(r.Timezone)
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/adsync?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "")
	viper.SetDefault("RUN_HISTORY_ENABLED", false)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 4)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 2)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	viper.SetDefault("AUTH_SECRET", "")
	viper.SetDefault("ADMIN_USER", "admin")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")

	viper.SetDefault("ADPLATFORM_BASE_URL", "https://ads.line.me")
	viper.SetDefault("ADPLATFORM_HTTP_TIMEOUT", "60s")
	viper.SetDefault("ADPLATFORM_PAGE_SIZE", 100)

	viper.SetDefault("REPORT_LOOKBACK_DAYS", 7)
	viper.SetDefault("REPORT_INCLUDE_TODAY", false)
	viper.SetDefault("REPORT_TIMEZONE", "Asia/Tokyo")
	viper.SetDefault("REPORT_POLL_INTERVAL", "10s")
	viper.SetDefault("REPORT_MAX_POLL_ATTEMPTS", 30)

	viper.SetDefault("SYNC_CRON", "0 4 * * *") // Todos os dias às 4h da manhã
	viper.SetDefault("SYNC_ENABLED", false)
	viper.SetDefault("SYNC_ACCOUNT_DELAY", "2s")
	viper.SetDefault("SYNC_STAGE_DELAY", "5s")

	viper.SetDefault("REGISTRY_SOURCE", RegistrySourceCSV)
	viper.SetDefault("REGISTRY_CSV_PATH", "accounts.csv")

	viper.SetDefault("BIGQUERY_PROJECT_ID", "")
	viper.SetDefault("BIGQUERY_DATASET", "ads")
	viper.SetDefault("BIGQUERY_WAIT_FOR_JOBS", false)

	viper.SetDefault("TABLE_ACCOUNT", "ad_account")
	viper.SetDefault("TABLE_CAMPAIGN", "ad_campaign")
	viper.SetDefault("TABLE_ADGROUP", "ad_adgroup")
	viper.SetDefault("TABLE_AD_REPORT", "ad_report")
	viper.SetDefault("TABLE_MEDIA", "ad_media")
	viper.SetDefault("TABLE_GENDER", "ad_report_gender")
	viper.SetDefault("TABLE_AGE", "ad_report_age")
	viper.SetDefault("TABLE_DEVICE", "ad_report_device")

	viper.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	}

	err := viper.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.AdPlatform.BaseURL = strings.TrimRight(config.AdPlatform.BaseURL, "/")
	config.Registry.Source = strings.ToLower(strings.TrimSpace(config.Registry.Source))

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate reúne todos os problemas de configuração em um único erro
func (c *Config) Validate() error {
	var errs []error

	if c.AdPlatform.BaseURL == "" {
		errs = append(errs, errors.New("ADPLATFORM_BASE_URL is required"))
	}
	if c.Report.LookbackDays < 1 {
		errs = append(errs, errors.New("REPORT_LOOKBACK_DAYS must be at least 1"))
	}
	if c.Report.MaxPollAttempts < 1 {
		errs = append(errs, errors.New("REPORT_MAX_POLL_ATTEMPTS must be at least 1"))
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		errs = append(errs, errors.New("DATABASE_MAX_OPEN_CONNS and DATABASE_MAX_IDLE_CONNS must not be negative"))
	}
	if c.Report.PollInterval < 0 || c.Sync.AccountDelay < 0 || c.Sync.StageDelay < 0 {
		errs = append(errs, errors.New("delays must not be negative"))
	}
	if _, err := c.Report.Location(); err != nil {
		errs = append(errs, fmt.Errorf("invalid REPORT_TIMEZONE: %w", err))
	}

	switch c.Registry.Source {
	case RegistrySourceCSV:
		if c.Registry.CSVPath == "" {
			errs = append(errs, errors.New("REGISTRY_CSV_PATH is required for the csv registry"))
		}
	case RegistrySourcePostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown REGISTRY_SOURCE %q", c.Registry.Source))
	}

	for _, rt := range domain.AllReportTypes {
		if c.Tables.ForReportType(rt) == "" {
			errs = append(errs, fmt.Errorf("table for report type %s is not configured", rt))
		}
	}

	return errors.Join(errs...)
}

// UsesDatabase indica se alguma funcionalidade depende do Postgres
func (c *Config) UsesDatabase() bool {
	return c.Database.RunHistoryEnabled || c.Registry.Source == RegistrySourcePostgres
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Debug("Arquivo .env carregado de: ", location)
			return
		}
	}
}
