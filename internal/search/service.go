// Package search orchestrates folder-scoped compliance searches:
// enumerate folders, derive the KQL query, and drive the remote job
// through creation, start, and status fetch.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pkessler/purviewscope/internal/exchange"
	"github.com/pkessler/purviewscope/internal/folderid"
	"github.com/pkessler/purviewscope/internal/kql"
	"github.com/pkessler/purviewscope/internal/rate"
)

// defaultNamePrefix matches the job names operators already grep for
// in the compliance center.
const defaultNamePrefix = "PSSearch"

// ErrScopeConflict is returned when both archive-only and
// include-archive scopes are requested. Checked before any remote
// call is made.
var ErrScopeConflict = errors.New("archive-only and include-archive scopes are mutually exclusive")

// ErrNoFolders is returned when the selected folder set produces an
// empty query and the caller did not explicitly ask for an unscoped
// search. An empty query means "search everything" downstream, which
// must never happen by accident.
var ErrNoFolders = errors.New("no folders selected; set Unscoped to search the whole mailbox")

// SelectFolders is an optional synchronous selection step, typically
// an interactive picker. It receives the enumerated records annotated
// with their location and returns the subset to search.
type SelectFolders func(ctx context.Context, records []exchange.FolderRecord) ([]exchange.FolderRecord, error)

// Options controls a single orchestration run.
type Options struct {
	// Name is the search job name; empty synthesizes a timestamped
	// default. No uniqueness check is performed — second-granularity
	// timestamps are accepted as sufficient.
	Name    string
	Mailbox string
	// ArchiveOnly searches the archive store instead of the primary
	// mailbox; IncludeArchive searches both. Setting both is a
	// configuration error.
	ArchiveOnly    bool
	IncludeArchive bool
	// FolderNames narrows the enumerated set to folders whose path
	// contains any of these fragments, case-insensitively.
	FolderNames []string
	// Select, when set, is consulted after enumeration and filtering.
	Select SelectFolders
	// Unscoped permits submitting an empty query (no folder
	// restriction). Without it an empty selection aborts the run.
	Unscoped bool
}

// Service drives a compliance search end to end. Remote calls are
// strictly sequential and any failure before job creation leaves no
// job behind.
type Service struct {
	Folders exchange.FolderLister
	Jobs    exchange.SearchClient
	Limiter rate.Limiter
	Logger  *slog.Logger
	Clock   func() time.Time
}

// NewService constructs a Service with sane defaults.
func NewService(
	folders exchange.FolderLister,
	jobs exchange.SearchClient,
	limiter rate.Limiter,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Service{
		Folders: folders,
		Jobs:    jobs,
		Limiter: limiter,
		Logger:  logger,
		Clock:   time.Now,
	}
}

// Run executes the full orchestration and returns the created job's
// current record.
func (s *Service) Run(ctx context.Context, opts Options) (exchange.SearchJob, error) {
	if opts.ArchiveOnly && opts.IncludeArchive {
		return exchange.SearchJob{}, ErrScopeConflict
	}
	if strings.TrimSpace(opts.Mailbox) == "" {
		return exchange.SearchJob{}, errors.New("mailbox address is required")
	}

	records, err := s.enumerate(ctx, opts)
	if err != nil {
		return exchange.SearchJob{}, err
	}
	// A manual selection step sees the full enumerated set; the name
	// filter only narrows unattended runs.
	if opts.Select != nil {
		records, err = opts.Select(ctx, records)
		if err != nil {
			return exchange.SearchJob{}, fmt.Errorf("folder selection: %w", err)
		}
	} else {
		records = filterByName(records, opts.FolderNames)
	}

	query, err := folderQuery(records, opts.Unscoped)
	if err != nil {
		return exchange.SearchJob{}, err
	}

	name := opts.Name
	if name == "" {
		name = DefaultName(opts.Mailbox, s.Clock())
	}

	s.Logger.InfoContext(ctx, "creating compliance search",
		slog.String("name", name),
		slog.String("mailbox", opts.Mailbox),
		slog.Int("folders", len(records)),
	)

	if err := s.wait(ctx, "rate limit create search"); err != nil {
		return exchange.SearchJob{}, err
	}
	job, err := s.Jobs.CreateSearch(ctx, name, opts.Mailbox, query)
	if err != nil {
		return exchange.SearchJob{}, fmt.Errorf("create search %s: %w", name, err)
	}

	if err := s.wait(ctx, "rate limit start search"); err != nil {
		return exchange.SearchJob{}, err
	}
	if err := s.Jobs.StartSearch(ctx, job.Name); err != nil {
		return exchange.SearchJob{}, fmt.Errorf("start search %s: %w", job.Name, err)
	}

	if err := s.wait(ctx, "rate limit get search"); err != nil {
		return exchange.SearchJob{}, err
	}
	current, err := s.Jobs.GetSearch(ctx, job.Name)
	if err != nil {
		return exchange.SearchJob{}, fmt.Errorf("get search %s: %w", job.Name, err)
	}
	return current, nil
}

func (s *Service) enumerate(ctx context.Context, opts Options) ([]exchange.FolderRecord, error) {
	var records []exchange.FolderRecord
	if !opts.ArchiveOnly {
		if err := s.wait(ctx, "rate limit list folders"); err != nil {
			return nil, err
		}
		mailbox, err := s.Folders.ListFolders(ctx, opts.Mailbox, false)
		if err != nil {
			return nil, fmt.Errorf("list mailbox folders: %w", err)
		}
		records = append(records, mailbox...)
	}
	if opts.ArchiveOnly || opts.IncludeArchive {
		if err := s.wait(ctx, "rate limit list archive folders"); err != nil {
			return nil, err
		}
		archive, err := s.Folders.ListFolders(ctx, opts.Mailbox, true)
		if err != nil {
			return nil, fmt.Errorf("list archive folders: %w", err)
		}
		records = append(records, archive...)
	}
	return records, nil
}

// folderQuery transcodes the selected records and assembles the KQL
// expression. Records without a raw identifier are skipped; the
// enumeration boundary returns such folders in edge cases.
func folderQuery(records []exchange.FolderRecord, unscoped bool) (string, error) {
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		id, err := folderid.Transcode(rec.FolderID)
		if err != nil {
			return "", fmt.Errorf("transcode folder %s: %w", rec.FolderPath, err)
		}
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	query, err := kql.BuildFolderQuery(ids)
	if err != nil {
		return "", err
	}
	if query == "" && !unscoped {
		return "", ErrNoFolders
	}
	return query, nil
}

func filterByName(records []exchange.FolderRecord, fragments []string) []exchange.FolderRecord {
	if len(fragments) == 0 {
		return records
	}
	lowered := make([]string, 0, len(fragments))
	for _, frag := range fragments {
		frag = strings.ToLower(strings.TrimSpace(frag))
		if frag != "" {
			lowered = append(lowered, frag)
		}
	}
	if len(lowered) == 0 {
		return records
	}
	out := make([]exchange.FolderRecord, 0, len(records))
	for _, rec := range records {
		path := strings.ToLower(rec.FolderPath)
		for _, frag := range lowered {
			if strings.Contains(path, frag) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// DefaultName synthesizes a job name from the mailbox and a
// second-granularity timestamp.
func DefaultName(mailbox string, now time.Time) string {
	return defaultNamePrefix + " " + mailbox + " " + now.Format("20060102-150405")
}

func (s *Service) wait(ctx context.Context, operation string) error {
	if s.Limiter == nil {
		return nil
	}
	if err := s.Limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}
