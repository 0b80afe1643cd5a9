package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/couponcrawl"
	"github.com/fwojciec/couponcrawl/crawl"
	"github.com/fwojciec/couponcrawl/mysql"
)

// Pinger checks that the storage connection is alive.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Courses couponcrawl.CourseService
	Crawler *crawl.Crawler
	Pinger  Pinger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Driver string     `enum:"sqlite,mysql" default:"sqlite" env:"COUPON_DRIVER" help:"Storage driver (sqlite or mysql)"`
	DB     string     `name:"db" default:"${default_db}" env:"COUPON_DB" help:"SQLite database path"`
	MySQL  MySQLFlags `embed:"" prefix:"mysql-"`

	RootURL     string        `default:"https://www.discudemy.com/all" env:"COUPON_ROOT_URL" help:"Listing root; page N is ROOT/N"`
	GoPrefix    string        `default:"https://www.discudemy.com/go" env:"COUPON_GO_PREFIX" help:"Prefix detail links are rewritten under"`
	Interval    time.Duration `default:"1s" help:"Token refill interval shared by all requests"`
	Burst       int           `default:"1" help:"Token bucket capacity"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent detail page workers"`
	FirstPage   int           `default:"1" help:"First listing page to crawl"`
	LastPage    int           `default:"0" help:"Last listing page to crawl (0 means highest discovered)"`
	Retries     int           `default:"3" help:"Fetch retries with exponential backoff"`
	Timeout     time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`

	LogLevel    string `enum:"debug,info,warn,error" default:"info" env:"COUPON_LOG_LEVEL" help:"Log level"`
	LogFormat   string `enum:"text,json" default:"text" env:"COUPON_LOG_FORMAT" help:"Log format"`
	MetricsAddr string `env:"COUPON_METRICS_ADDR" help:"Serve Prometheus metrics on this address (disabled when empty)"`

	Crawl    CrawlCmd    `cmd:"" help:"Crawl the listing and store new coupons"`
	Images   ImagesCmd   `cmd:"" help:"Refresh course images from the listing cards"`
	List     ListCmd     `cmd:"" help:"List stored courses"`
	Schedule ScheduleCmd `cmd:"" help:"Crawl and refresh images on a cron schedule"`
}

// MySQLFlags configures the MySQL connection. The environment names match
// the ones the deployment .env file uses.
type MySQLFlags struct {
	Host     string `default:"localhost" env:"DB_HOST" help:"MySQL host"`
	Port     int    `default:"3306" env:"DB_PORT" help:"MySQL port"`
	User     string `default:"root" env:"DB_USER" help:"MySQL user"`
	Password string `env:"DB_PASSWORD" help:"MySQL password"`
	Name     string `default:"coupons" env:"DB_NAME" help:"MySQL database name"`
}

// Config converts the flags to a mysql.Config.
func (f MySQLFlags) Config() mysql.Config {
	return mysql.Config{
		Host:     f.Host,
		Port:     f.Port,
		User:     f.User,
		Password: f.Password,
		Name:     f.Name,
	}
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Iterations int           `short:"n" default:"1" help:"Number of crawl passes"`
	Pause      time.Duration `default:"1m" help:"Pause between passes"`
}

// ImagesCmd is the "images" subcommand.
type ImagesCmd struct{}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Name   string `help:"Only courses with this exact name"`
	Limit  int    `short:"l" default:"50" help:"Maximum number of courses (0 for all)"`
	Offset int    `help:"Number of courses to skip"`
}

// ScheduleCmd is the "schedule" subcommand.
type ScheduleCmd struct {
	Cron         string        `arg:"" optional:"" default:"@every 6h" help:"Cron expression (5 fields or a descriptor such as @hourly)"`
	Images       bool          `default:"true" negatable:"" help:"Refresh images after each crawl"`
	Immediately  bool          `help:"Run once at startup before waiting for the schedule"`
	PingInterval time.Duration `default:"60s" help:"Storage keep-alive interval (0 disables)"`
}
