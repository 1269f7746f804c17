package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkessler/purviewscope/internal/config"
	"github.com/pkessler/purviewscope/internal/exchange"
	"github.com/pkessler/purviewscope/internal/rate"
	"github.com/pkessler/purviewscope/internal/remote"
	"github.com/pkessler/purviewscope/internal/report"
	"github.com/pkessler/purviewscope/internal/search"
)

type statusConfig struct {
	cfgPath  string
	name     string
	wait     bool
	interval time.Duration
	jsonOut  string
	rps      int
}

func main() {
	cfg := parseStatusFlags()
	if err := run(cfg); err != nil {
		remote.DefaultLogger().Error("purviewscope-status failed", "error", err)
		os.Exit(1)
	}
}

func parseStatusFlags() statusConfig {
	cfgPath := flag.String("config", config.DefaultPath(), "purviewscope configuration file")
	name := flag.String("name", "", "search job name (required)")
	wait := flag.Bool("wait", false, "poll until the job reaches a terminal status")
	interval := flag.Duration("interval", 30*time.Second, "poll interval used with -wait")
	jsonOut := flag.String("json", "", "write JSON report to path")
	rps := flag.Int("rps", 2, "max remote requests per second")
	flag.Parse()

	return statusConfig{
		cfgPath:  *cfgPath,
		name:     *name,
		wait:     *wait,
		interval: *interval,
		jsonOut:  *jsonOut,
		rps:      *rps,
	}
}

func run(cfg statusConfig) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.name == "" {
		return fmt.Errorf("search job name is required")
	}

	logger := remote.DefaultLogger()
	appCfg, err := config.Load(cfg.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	searchClient, err := remote.NewSearchClient(ctx, appCfg, logger)
	if err != nil {
		return fmt.Errorf("create search client: %w", err)
	}

	var (
		limiter rate.Limiter
		bucket  *rate.TokenBucket
	)
	if cfg.rps > 0 {
		bucket = rate.NewTokenBucket(cfg.rps)
		limiter = bucket
		defer bucket.Stop()
	}

	svc := search.NewService(nil, searchClient, limiter, logger)

	var job exchange.SearchJob
	if cfg.wait {
		job, err = svc.WaitForCompletion(ctx, cfg.name, cfg.interval)
	} else {
		job, err = fetchOnce(ctx, svc, cfg.name)
	}
	if err != nil {
		return fmt.Errorf("fetch search %s: %w", cfg.name, err)
	}

	rep, err := report.Expand(job)
	if err != nil {
		return fmt.Errorf("expand job status: %w", err)
	}
	if printErr := report.PrintJob(rep, os.Stdout); printErr != nil {
		return fmt.Errorf("print job: %w", printErr)
	}
	if cfg.jsonOut == "" {
		return nil
	}
	if writeErr := report.WriteJSON(rep, cfg.jsonOut); writeErr != nil {
		return fmt.Errorf("write json: %w", writeErr)
	}
	return nil
}

func fetchOnce(ctx context.Context, svc *search.Service, name string) (exchange.SearchJob, error) {
	if svc.Limiter != nil {
		if err := svc.Limiter.Wait(ctx); err != nil {
			return exchange.SearchJob{}, err
		}
	}
	return svc.Jobs.GetSearch(ctx, name)
}
