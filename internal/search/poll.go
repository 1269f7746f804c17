package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkessler/purviewscope/internal/exchange"
)

const defaultPollInterval = 30 * time.Second

// terminal statuses the remote service reports for a finished job.
var terminalStatuses = map[string]struct{}{
	"Completed":          {},
	"PartiallySucceeded": {},
	"Failed":             {},
}

// IsTerminal reports whether a job status means the remote service is
// done with the search.
func IsTerminal(status string) bool {
	_, ok := terminalStatuses[status]
	return ok
}

// WaitForCompletion polls the search job until it reaches a terminal
// status or the context is canceled, returning the last fetched
// record either way.
func (s *Service) WaitForCompletion(
	ctx context.Context,
	name string,
	interval time.Duration,
) (exchange.SearchJob, error) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last exchange.SearchJob
	for {
		if err := s.wait(ctx, "rate limit poll search"); err != nil {
			return last, err
		}
		job, err := s.Jobs.GetSearch(ctx, name)
		if err != nil {
			return last, fmt.Errorf("poll search %s: %w", name, err)
		}
		last = job
		if IsTerminal(job.Status) {
			return job, nil
		}
		s.Logger.InfoContext(ctx, "search in progress",
			slog.String("name", name),
			slog.String("status", job.Status),
		)
		select {
		case <-ctx.Done():
			return last, fmt.Errorf("wait for search %s: %w", name, ctx.Err())
		case <-ticker.C:
		}
	}
}
