package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/couponcrawl"
	"github.com/fwojciec/couponcrawl/crawl"
	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Run executes the schedule command. It blocks until the context is canceled,
// then waits for a running pass to drain.
func (c *ScheduleCmd) Run(deps *Dependencies) error {
	if _, err := cronParser.Parse(c.Cron); err != nil {
		fmt.Fprintf(deps.Stderr, "error: invalid cron expression %q: %v\n", c.Cron, err)
		return couponcrawl.Errorf(couponcrawl.EINVALID, "invalid cron expression %q: %v", c.Cron, err)
	}

	logger := cronLogger{logger: deps.Logger}
	sched := cron.New(
		cron.WithParser(cronParser),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := sched.AddFunc(c.Cron, func() { c.pass(deps) }); err != nil {
		return couponcrawl.Errorf(couponcrawl.EINVALID, "invalid cron expression %q: %v", c.Cron, err)
	}

	if c.Immediately {
		c.pass(deps)
	}

	stopPing := c.keepAlive(deps)
	defer stopPing()

	sched.Start()
	deps.Logger.Info("schedule started", "cron", c.Cron, "images", c.Images)

	<-deps.Ctx.Done()
	<-sched.Stop().Done()
	deps.Logger.Info("schedule stopped")
	return nil
}

// pass runs one crawl followed by an optional image refresh.
func (c *ScheduleCmd) pass(deps *Dependencies) {
	res, err := deps.Crawler.Run(deps.Ctx)
	if err != nil {
		deps.Logger.Error("scheduled crawl failed", "err", err)
		return
	}
	fmt.Fprintln(deps.Stdout, crawl.FormatCrawlSummary(res))

	if !c.Images || deps.Ctx.Err() != nil {
		return
	}
	res, err = deps.Crawler.RefreshImages(deps.Ctx)
	if err != nil {
		deps.Logger.Error("scheduled image refresh failed", "err", err)
		return
	}
	fmt.Fprintln(deps.Stdout, crawl.FormatImageSummary(res))
}

// keepAlive pings the store on PingInterval until the returned stop
// function is called.
func (c *ScheduleCmd) keepAlive(deps *Dependencies) func() {
	if c.PingInterval <= 0 || deps.Pinger == nil {
		return func() {}
	}

	ctx, cancel := context.WithCancel(deps.Ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(c.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := deps.Pinger.Ping(ctx); err != nil && ctx.Err() == nil {
					deps.Logger.Warn("storage ping failed", "err", err)
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// cronLogger adapts slog to cron.Logger. Scheduler chatter goes to debug.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "err", err)...)
}
