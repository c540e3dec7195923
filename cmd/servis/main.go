package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/servis/internal/api"
	"github.com/erazemk/servis/internal/config"
	"github.com/erazemk/servis/internal/db"
	"github.com/erazemk/servis/internal/imagestore"
	"github.com/erazemk/servis/internal/imaging"
	"github.com/erazemk/servis/internal/store"
	"github.com/erazemk/servis/internal/vehicle"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("servis", flag.ContinueOnError)

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")

	fs.StringVar(&cfg.AdminEmail, "admin-email", cfg.AdminEmail, "")
	fs.StringVar(&cfg.AdminEmail, "e", cfg.AdminEmail, "")

	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	fs.StringVar(&cfg.Cost.Policy, "cost-policy", cfg.Cost.Policy, "")
	fs.StringVar(&cfg.Cost.Policy, "p", cfg.Cost.Policy, "")

	fs.StringVar(&cfg.Images.Backend, "images", cfg.Images.Backend, "")
	fs.StringVar(&cfg.Images.Backend, "i", cfg.Images.Backend, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: servis [flags]

Flags:
  -d, -db <path>              SQLite database path (env SERVIS_DB, default: servis.db)
  -a, -addr <host:port>       listen address (env SERVIS_ADDR, default: :8080)
  -e, -admin-email <email>    admin account created on first run (env SERVIS_ADMIN_EMAIL)
  -l, -log <path>             log file path (env SERVIS_LOG, default: stdout/stderr only)
  -p, -cost-policy <name>     trust, verify or recompute (env SERVIS_COST_POLICY, default: trust)
  -i, -images <backend>       local or s3 (env SERVIS_IMAGE_BACKEND, default: local)
  -h, -help                   show this help and exit

Other settings are read from the environment or a .env file:
  SERVIS_VAT_RATE, SERVIS_IMAGE_DIR, SERVIS_IMAGE_BASE_URL, SERVIS_S3_BUCKET,
  SERVIS_S3_PREFIX, SERVIS_MAX_UPLOAD, DVLA_API_KEY, DVLA_URL
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// INFO/WARN → stdout, ERROR → stderr, optionally also a file.
	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	if err := run(cfg); err != nil {
		slog.Error("fatal", "error", err)
		if closeLog != nil {
			closeLog()
		}
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	password, err := ensureAdmin(ctx, database, cfg.AdminEmail)
	if err != nil {
		return fmt.Errorf("bootstrapping admin: %w", err)
	}
	if password != "" {
		printInitResult(cfg.DBPath, cfg.AdminEmail, password)
		fmt.Println()
	}

	slog.Info("database ready", "path", cfg.DBPath)

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("getting JWT secret: %w", err)
	}

	checker, err := cfg.Checker()
	if err != nil {
		return err
	}

	deps := api.Deps{
		DB:         database,
		JWTSecret:  jwtSecret,
		AdminEmail: cfg.AdminEmail,
		Checker:    checker,
		Processor:  imaging.Processor{},
		MaxUpload:  cfg.Images.MaxUpload,
	}

	switch cfg.Images.Backend {
	case config.BackendS3:
		s3Store, err := imagestore.NewS3(ctx, cfg.Images.S3Bucket, cfg.Images.S3Prefix, cfg.Images.BaseURL)
		if err != nil {
			return fmt.Errorf("setting up S3 image store: %w", err)
		}
		deps.Images = s3Store
		slog.Info("image storage", "backend", "s3", "bucket", cfg.Images.S3Bucket)
	default:
		baseURL := cfg.Images.BaseURL
		if baseURL == "" {
			baseURL = "/images"
		}
		local, err := imagestore.NewLocal(cfg.Images.Dir, baseURL)
		if err != nil {
			return fmt.Errorf("setting up local image store: %w", err)
		}
		deps.Images = local
		deps.ImageFiles = local.Handler()
		slog.Info("image storage", "backend", "local", "dir", cfg.Images.Dir)
	}

	if cfg.DVLA.APIKey != "" {
		deps.Vehicles = vehicle.NewClient(cfg.DVLA.APIKey, cfg.DVLA.URL)
	} else {
		slog.Warn("DVLA_API_KEY not set, vehicle lookup disabled")
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(api.NewRouter(deps)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go purgeRevokedTokens(purgeCtx, database, time.Hour)

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr, "cost_policy", checker.Policy)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}
