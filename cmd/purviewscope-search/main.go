package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkessler/purviewscope/internal/config"
	"github.com/pkessler/purviewscope/internal/picker"
	"github.com/pkessler/purviewscope/internal/rate"
	"github.com/pkessler/purviewscope/internal/remote"
	"github.com/pkessler/purviewscope/internal/report"
	"github.com/pkessler/purviewscope/internal/search"
)

type searchConfig struct {
	cfgPath        string
	name           string
	mailbox        string
	archiveOnly    bool
	includeArchive bool
	folders        string
	interactive    bool
	unscoped       bool
	rps            int
}

func main() {
	cfg := parseSearchFlags()
	if err := run(cfg); err != nil {
		remote.DefaultLogger().Error("purviewscope-search failed", "error", err)
		os.Exit(1)
	}
}

func parseSearchFlags() searchConfig {
	cfgPath := flag.String("config", config.DefaultPath(), "purviewscope configuration file")
	name := flag.String("name", "", "search job name (default: PSSearch <mailbox> <timestamp>)")
	mailbox := flag.String("mailbox", "", "target mailbox address (required)")
	archiveOnly := flag.Bool("archive-only", false, "search only the archive store")
	includeArchive := flag.Bool("include-archive", false, "search the primary mailbox and the archive")
	folders := flag.String("folders", "", "comma separated folder name fragments to match")
	interactive := flag.Bool("interactive", false, "pick folders interactively")
	unscoped := flag.Bool("unscoped", false, "allow a search with no folder restriction")
	rps := flag.Int("rps", 2, "max remote requests per second")
	flag.Parse()

	return searchConfig{
		cfgPath:        *cfgPath,
		name:           *name,
		mailbox:        *mailbox,
		archiveOnly:    *archiveOnly,
		includeArchive: *includeArchive,
		folders:        *folders,
		interactive:    *interactive,
		unscoped:       *unscoped,
		rps:            *rps,
	}
}

func run(cfg searchConfig) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := remote.DefaultLogger()
	appCfg, err := config.Load(cfg.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	folderLister, err := remote.NewFolderLister(ctx, appCfg, logger)
	if err != nil {
		return fmt.Errorf("create folder lister: %w", err)
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

	svc := search.NewService(folderLister, searchClient, limiter, logger)

	opts := search.Options{
		Name:           cfg.name,
		Mailbox:        cfg.mailbox,
		ArchiveOnly:    cfg.archiveOnly,
		IncludeArchive: cfg.includeArchive,
		FolderNames:    splitList(cfg.folders),
		Unscoped:       cfg.unscoped,
	}
	if cfg.interactive {
		opts.Select = picker.Pick
	}

	job, err := svc.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("run search: %w", err)
	}

	rep, err := report.Expand(job)
	if err != nil {
		return fmt.Errorf("expand job status: %w", err)
	}
	if printErr := report.PrintJob(rep, os.Stdout); printErr != nil {
		return fmt.Errorf("print job: %w", printErr)
	}
	return nil
}

func splitList(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
