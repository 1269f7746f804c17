package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkessler/purviewscope/internal/config"
	"github.com/pkessler/purviewscope/internal/exchange"
	"github.com/pkessler/purviewscope/internal/rate"
	"github.com/pkessler/purviewscope/internal/remote"
	"github.com/pkessler/purviewscope/internal/report"
)

type foldersConfig struct {
	cfgPath        string
	mailbox        string
	archive        bool
	includeArchive bool
	jsonOut        string
	rps            int
}

func main() {
	cfg := parseFoldersFlags()
	if err := run(cfg); err != nil {
		remote.DefaultLogger().Error("purviewscope-folders failed", "error", err)
		os.Exit(1)
	}
}

func parseFoldersFlags() foldersConfig {
	cfgPath := flag.String("config", config.DefaultPath(), "purviewscope configuration file")
	mailbox := flag.String("mailbox", "", "target mailbox address (required)")
	archive := flag.Bool("archive", false, "list the archive store instead of the primary mailbox")
	includeArchive := flag.Bool("include-archive", false, "list both the primary mailbox and the archive")
	jsonOut := flag.String("json", "", "write JSON listing to path")
	rps := flag.Int("rps", 2, "max remote requests per second")
	flag.Parse()

	return foldersConfig{
		cfgPath:        *cfgPath,
		mailbox:        *mailbox,
		archive:        *archive,
		includeArchive: *includeArchive,
		jsonOut:        *jsonOut,
		rps:            *rps,
	}
}

func run(cfg foldersConfig) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.mailbox == "" {
		return fmt.Errorf("mailbox address is required")
	}
	if cfg.archive && cfg.includeArchive {
		return fmt.Errorf("-archive and -include-archive are mutually exclusive")
	}

	logger := remote.DefaultLogger()
	appCfg, err := config.Load(cfg.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lister, err := remote.NewFolderLister(ctx, appCfg, logger)
	if err != nil {
		return fmt.Errorf("create folder lister: %w", err)
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

	var records []exchange.FolderRecord
	if !cfg.archive {
		primary, listErr := listFolders(ctx, lister, limiter, cfg.mailbox, false)
		if listErr != nil {
			return listErr
		}
		records = append(records, primary...)
	}
	if cfg.archive || cfg.includeArchive {
		archived, listErr := listFolders(ctx, lister, limiter, cfg.mailbox, true)
		if listErr != nil {
			return listErr
		}
		records = append(records, archived...)
	}

	if printErr := report.PrintFolders(records, os.Stdout); printErr != nil {
		return fmt.Errorf("print folders: %w", printErr)
	}
	if cfg.jsonOut == "" {
		return nil
	}
	if writeErr := report.WriteJSON(records, cfg.jsonOut); writeErr != nil {
		return fmt.Errorf("write json: %w", writeErr)
	}
	return nil
}

func listFolders(
	ctx context.Context,
	lister exchange.FolderLister,
	limiter rate.Limiter,
	mailbox string,
	archive bool,
) ([]exchange.FolderRecord, error) {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit list folders: %w", err)
		}
	}
	records, err := lister.ListFolders(ctx, mailbox, archive)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return records, nil
}
