package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atvirokodosprendimai/labelhub/internal/adapters/db/sqlstore"
	"github.com/atvirokodosprendimai/labelhub/internal/adapters/event"
	httpadapter "github.com/atvirokodosprendimai/labelhub/internal/adapters/http"
	rpcadapter "github.com/atvirokodosprendimai/labelhub/internal/adapters/rpcjson"
	"github.com/atvirokodosprendimai/labelhub/internal/application"
	"github.com/atvirokodosprendimai/labelhub/internal/config"
	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"github.com/atvirokodosprendimai/labelhub/internal/logging"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := newRootCommand()

	if err := root.Run(context.Background(), args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "labelhub",
		Usage: "Music label platform API server and CLI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML config file (defaults to $CONFIG_PATH)"},
		},
		Commands: []*cli.Command{
			serverCommand(),
			invokeCommand(),
			migrateCommand(),
			ingestCommand(),
			clientConfigCommand(),
			handlersCommand(),
			usersCommand(),
			tracksCommand(),
			labelsCommand(),
			socialCommand(),
			analyticsCommand(),
		},
	}
}

func loadAppConfig(c *cli.Command) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}
	logging.Init(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Caller:     cfg.Log.Caller,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	return cfg, nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := sqlstore.Open(sqlstore.Options{
		Driver:          cfg.Driver,
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		Logger:          logging.NewGormLogger(cfg.SlowQuery),
	})
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := sqlstore.RunMigrations(ctx, db); err != nil {
			_ = sqlstore.Close(db)
			return nil, err
		}
	}
	return db, nil
}

func buildHandlers(repo *sqlstore.Repository) []event.Handler {
	return event.NewHandlers(event.Services{
		Users:     application.NewUserService(repo),
		Tracks:    application.NewTrackService(repo),
		Labels:    application.NewLabelService(repo),
		Social:    application.NewSocialService(repo),
		Analytics: application.NewAnalyticsService(repo),
	})
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Run the HTTP and JSON-RPC servers",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address (overrides http.addr)"},
			&cli.StringFlag{Name: "rpc-socket", Usage: "JSON-RPC unix socket path (overrides rpc.socket)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadAppConfig(c)
			if err != nil {
				return err
			}
			defer func() { _ = logging.Close() }()
			if c.IsSet("addr") {
				cfg.HTTP.Addr = c.String("addr")
			}
			if c.IsSet("rpc-socket") {
				cfg.RPC.Socket = c.String("rpc-socket")
			}
			return runServer(ctx, cfg)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config) error {
	log := logging.Logger()

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = sqlstore.Close(db) }()

	repo := sqlstore.NewRepository(db)
	handlers := buildHandlers(repo)

	router := httpadapter.NewRouter(handlers, httpadapter.Options{
		RateLimit:    cfg.HTTP.RateLimit,
		RateWindow:   cfg.HTTP.RateWindow,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		Ping:         repo.Ping,
	})
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	if cfg.RPC.Socket != "" {
		rpcSrv, err := rpcadapter.Start(cfg.RPC.Socket, handlers)
		if err != nil {
			return err
		}
		defer func() { _ = rpcSrv.Close() }()
		log.Info().Str("socket", cfg.RPC.Socket).Msg("json-rpc listening")
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("driver", cfg.Database.Driver).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-sigCtx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func invokeCommand() *cli.Command {
	return &cli.Command{
		Name:      "invoke",
		Usage:     "Run one event through a handler against the configured database",
		ArgsUsage: "<users|tracks|labels|social|analytics>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "event", Value: "-", Usage: "event JSON file, - for stdin"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			name := c.Args().First()
			if name == "" {
				return errors.New("handler name is required")
			}
			ev, err := readEvent(c.String("event"))
			if err != nil {
				return err
			}
			cfg, err := loadAppConfig(c)
			if err != nil {
				return err
			}
			defer func() { _ = logging.Close() }()

			db, err := openDatabase(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer func() { _ = sqlstore.Close(db) }()

			h, ok := event.Lookup(buildHandlers(sqlstore.NewRepository(db)), name)
			if !ok {
				return fmt.Errorf("unknown handler %q", name)
			}
			resp := h.Handle(logging.WithRequestID(ctx, ""), ev)
			return printJSON(resp)
		},
	}
}

func readEvent(path string) (event.Event, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return event.Event{}, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	var ev event.Event
	if err := json.NewDecoder(r).Decode(&ev); err != nil {
		return event.Event{}, fmt.Errorf("decode event: %w", err)
	}
	return ev, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply embedded database migrations",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadAppConfig(c)
			if err != nil {
				return err
			}
			defer func() { _ = logging.Close() }()
			cfg.Database.AutoMigrate = false

			db, err := openDatabase(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer func() { _ = sqlstore.Close(db) }()

			if err := sqlstore.RunMigrations(ctx, db); err != nil {
				return err
			}
			version, err := sqlstore.MigrationVersion(ctx, db)
			if err != nil {
				return err
			}
			logging.Ctx(ctx).Info().Int64("version", version).Str("driver", cfg.Database.Driver).Msg("migrations applied")
			return nil
		},
	}
}

func ingestCommand() *cli.Command {
	return &cli.Command{
		Name:      "ingest",
		Usage:     "Import daily analytics rows from a JSON array",
		ArgsUsage: "<file|->",
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				path = "-"
			}
			rows, err := readIngestRows(path)
			if err != nil {
				return err
			}
			cfg, err := loadAppConfig(c)
			if err != nil {
				return err
			}
			defer func() { _ = logging.Close() }()

			db, err := openDatabase(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer func() { _ = sqlstore.Close(db) }()

			svc := application.NewAnalyticsService(sqlstore.NewRepository(db))
			for i, row := range rows {
				if _, err := svc.Record(ctx, row); err != nil {
					return fmt.Errorf("row %d: %w", i, err)
				}
			}
			logging.Ctx(ctx).Info().Int("rows", len(rows)).Msg("analytics imported")
			return nil
		},
	}
}

func readIngestRows(path string) ([]domain.AnalyticsRow, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var rows []domain.AnalyticsRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode analytics rows: %w", err)
	}
	return rows, nil
}
