package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/couponcrawl"
	"github.com/fwojciec/couponcrawl/crawl"
	"github.com/fwojciec/couponcrawl/goquery"
	couponhttp "github.com/fwojciec/couponcrawl/http"
	"github.com/fwojciec/couponcrawl/mysql"
	couponprom "github.com/fwojciec/couponcrawl/prometheus"
	couponslog "github.com/fwojciec/couponcrawl/slog"
	"github.com/fwojciec/couponcrawl/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Store is an open storage connection.
type Store interface {
	Ping(ctx context.Context) error
	Close() error
}

// Main represents the program.
type Main struct {
	// Storage opened by Run.
	DB      Store
	Courses couponcrawl.CourseService

	// Fetcher overrides the HTTP fetcher. Set before calling Run().
	Fetcher couponcrawl.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("couponcrawl"),
		kong.Description("Crawl course coupon listings into a deduplicated store"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{"default_db": defaultDBPath()},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'couponcrawl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.LogLevel, cli.LogFormat)

	if err := m.open(cli); err != nil {
		if cli.Driver == "mysql" {
			fmt.Fprintln(stderr, "Hint: Check DB_HOST, DB_PORT, DB_USER, DB_PASSWORD and DB_NAME")
		} else {
			fmt.Fprintln(stderr, "Hint: Set COUPON_DB to use a different database path")
		}
		return err
	}
	defer m.Close()

	var metrics *couponprom.Metrics
	if cli.MetricsAddr != "" {
		metrics = couponprom.NewMetrics(nil)
		shutdown := serveMetrics(cli.MetricsAddr, metrics.Handler(), deps.Logger)
		defer shutdown()
	}

	var courses couponcrawl.CourseService = couponslog.NewLoggingCourseService(m.Courses, deps.Logger)
	if metrics != nil {
		courses = couponprom.NewInstrumentedCourseService(courses, metrics)
	}
	deps.Courses = courses
	deps.Pinger = m.DB

	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = couponhttp.NewFetcher(couponhttp.WithTimeout(cli.Timeout))
	}
	defer fetcher.Close()
	fetcher = couponslog.NewLoggingFetcher(fetcher, deps.Logger)
	if metrics != nil {
		fetcher = couponprom.NewInstrumentedFetcher(fetcher, metrics)
	}

	deps.Crawler = &crawl.Crawler{
		Fetcher:     fetcher,
		Listings:    goquery.NewListingParser(goquery.DefaultListingSelectors()),
		Details:     goquery.NewDetailParser(goquery.DefaultDetailSelectors()),
		Courses:     courses,
		Limiter:     crawl.NewLimiter(cli.Interval, cli.Burst),
		Logger:      deps.Logger,
		RootURL:     cli.RootURL,
		GoPrefix:    cli.GoPrefix,
		FirstPage:   cli.FirstPage,
		LastPage:    cli.LastPage,
		Concurrency: cli.Concurrency,
		RetryDelays: crawl.ExponentialDelays(cli.Retries, time.Second),
	}

	return kongCtx.Run(deps)
}

// open connects the configured storage driver.
func (m *Main) open(cli *CLI) error {
	switch cli.Driver {
	case "mysql":
		db := mysql.NewDB(cli.MySQL.Config().DSN())
		if err := db.Open(); err != nil {
			return err
		}
		m.DB = db
		m.Courses = mysql.NewCourseService(db)
	default:
		if cli.DB != ":memory:" {
			_ = os.MkdirAll(filepath.Dir(cli.DB), 0o755)
		}
		db := sqlite.NewDB(cli.DB)
		if err := db.Open(); err != nil {
			return err
		}
		m.DB = db
		m.Courses = sqlite.NewCourseService(db)
	}
	return nil
}

// newLogger builds the process logger. Unknown levels fall back to info.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// serveMetrics exposes handler on addr and returns a shutdown function.
func serveMetrics(addr string, handler http.Handler, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr, "path", "/metrics")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "couponcrawl.db"
	}
	return filepath.Join(home, ".couponcrawl", "couponcrawl.db")
}
