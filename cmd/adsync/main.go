package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vfg2006/ads-report-sync/infrastructure/database/postgres"
	"github.com/vfg2006/ads-report-sync/infrastructure/integrator/adplatform"
	"github.com/vfg2006/ads-report-sync/infrastructure/integrator/adplatform/adclient"
	"github.com/vfg2006/ads-report-sync/infrastructure/migration"
	"github.com/vfg2006/ads-report-sync/infrastructure/registry"
	"github.com/vfg2006/ads-report-sync/infrastructure/repository"
	"github.com/vfg2006/ads-report-sync/infrastructure/warehouse"
	"github.com/vfg2006/ads-report-sync/internal/api"
	"github.com/vfg2006/ads-report-sync/internal/api/handler"
	"github.com/vfg2006/ads-report-sync/internal/config"
	"github.com/vfg2006/ads-report-sync/internal/domain"
	"github.com/vfg2006/ads-report-sync/internal/scheduler"
	"github.com/vfg2006/ads-report-sync/internal/usecases/authenticating"
	"github.com/vfg2006/ads-report-sync/internal/usecases/syncing"
	"github.com/vfg2006/ads-report-sync/pkg/log"
)

const usage = `uso: adsync <comando> [argumentos]

comandos:
  serve                   agendador + API administrativa (padrão)
  run <tipo|all>          executa uma sincronização e sai
  migrate                 aplica as migrações do histórico de execuções
  import-registry [csv]   copia o registro CSV de contas para o Postgres
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	log.Setup(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command, args := "serve", []string(nil)
	if flag.NArg() > 0 {
		command, args = flag.Arg(0), flag.Args()[1:]
	}

	switch command {
	case "serve":
		err = serve(ctx, cfg)
	case "run":
		if len(args) != 1 {
			flag.Usage()
			os.Exit(2)
		}
		err = runOnce(ctx, cfg, args[0])
	case "migrate":
		err = migrateDatabase(cfg)
	case "import-registry":
		path := cfg.Registry.CSVPath
		if len(args) > 0 {
			path = args[0]
		}
		err = importRegistry(ctx, cfg, path)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logrus.WithError(err).WithField("command", command).Fatal("Comando finalizado com erro")
	}
}

// app reúne as dependências montadas a partir da configuração
type app struct {
	syncer  *syncing.Service
	runs    repository.SyncRunRepository
	cleanup []func()
}

func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	var conn *postgres.Connection
	if cfg.UsesDatabase() {
		if cfg.Database.RunMigrations {
			if err := migrateDatabase(cfg); err != nil {
				return nil, err
			}
		}

		c, err := pgconn(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		conn = c
		a.cleanup = append(a.cleanup, func() { _ = conn.Close() })
	}

	var credentials syncing.CredentialRegistry
	switch cfg.Registry.Source {
	case config.RegistrySourcePostgres:
		credentials = repository.NewCredentialRepository(conn)
	default:
		credentials = registry.NewSheetRegistry(cfg.Registry.CSVPath)
	}

	var recorder syncing.RunRecorder = syncing.NopRecorder{}
	if cfg.Database.RunHistoryEnabled {
		a.runs = repository.NewSyncRunRepository(conn)
		recorder = a.runs
	}

	submitter, err := warehouse.NewBigQuerySubmitter(ctx, cfg)
	if err != nil {
		a.close()
		return nil, err
	}
	a.cleanup = append(a.cleanup, func() { _ = submitter.Close() })

	httpClient := &http.Client{Timeout: cfg.AdPlatform.HTTPTimeout}
	newClient := func(cred domain.AccountCredential) adclient.Client {
		return adclient.NewClient(cfg, httpClient, adclient.SigningContextFor(cred))
	}

	a.syncer = syncing.NewService(
		cfg,
		credentials,
		newClient,
		adplatform.New(cfg),
		warehouse.NewLoader(submitter),
		recorder,
	)

	return a, nil
}

// serve roda o agendador e a API até receber um sinal de término
func serve(ctx context.Context, cfg *config.Config) error {
	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	fullSync := scheduler.NewFullSyncService(a.syncer, cfg)
	authenticator := authenticating.NewService(cfg)

	var runs handler.RunLister
	if a.runs != nil {
		runs = a.runs
	}
	server := api.New(cfg, authenticator, fullSync, runs)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := fullSync.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		return nil
	})
	g.Go(func() error {
		return server.Run(gctx)
	})

	return g.Wait()
}

// runOnce executa um tipo ou todos e retorna erro se alguma carga falhar
func runOnce(ctx context.Context, cfg *config.Config, target string) error {
	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	var summaries []*domain.RunSummary
	if strings.EqualFold(target, scheduler.TargetAll) {
		summaries, err = a.syncer.RunAll(ctx)
	} else {
		reportType, parseErr := domain.ParseReportType(target)
		if parseErr != nil {
			return parseErr
		}
		var summary *domain.RunSummary
		summary, err = a.syncer.Run(ctx, reportType)
		if summary != nil {
			summaries = append(summaries, summary)
		}
	}

	failedAccounts := 0
	for _, s := range summaries {
		failedAccounts += s.Failed
		logrus.WithFields(logrus.Fields{
			"report_type": s.ReportType,
			"table":       s.Table,
			"succeeded":   s.Succeeded,
			"failed":      s.Failed,
			"rows_loaded": s.RowsLoaded,
			"load_error":  s.LoadErrorMessage(),
		}).Info("Resumo da sincronização")
	}

	if err != nil {
		return err
	}
	if failedAccounts > 0 {
		logrus.WithField("failed_accounts", failedAccounts).Warn("Sincronização concluída com contas com falha")
	}
	return nil
}

func migrateDatabase(cfg *config.Config) error {
	if err := migration.Migrate(cfg.Database.DSN); err != nil {
		if errors.Is(err, migration.ErrDirtyDatabase) {
			return fmt.Errorf("%w: corrija a versão manualmente antes de continuar", err)
		}
		return err
	}
	return nil
}

// importRegistry substitui account_credentials pelo conteúdo do CSV exportado da planilha
func importRegistry(ctx context.Context, cfg *config.Config, path string) error {
	creds, err := registry.NewSheetRegistry(path).LoadCredentials(ctx)
	if err != nil {
		return err
	}

	if cfg.Database.RunMigrations {
		if err := migrateDatabase(cfg); err != nil {
			return err
		}
	}

	conn, err := pgconn(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repository.NewCredentialRepository(conn).ReplaceAll(ctx, creds); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"path":     path,
		"accounts": len(creds),
	}).Info("Registro de contas importado")
	return nil
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) (*postgres.Connection, error) {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar ao PostgreSQL: %w", err)
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn, nil
}
