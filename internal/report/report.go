// Package report renders folder listings and search-job status for
// the CLI, human-readable or as JSON written next to the working
// directory.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkessler/purviewscope/internal/exchange"
	"github.com/pkessler/purviewscope/internal/jobstatus"
)

const folderPathDisplayLimit = 48

// PrintFolders writes a readable folder table to w.
func PrintFolders(records []exchange.FolderRecord, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "%d folders\n", len(records))
	for _, rec := range records {
		fmt.Fprintf(&builder, "  %-8s %-*s %-20s %8d\n",
			rec.Location,
			folderPathDisplayLimit,
			truncate(rec.FolderPath, folderPathDisplayLimit),
			rec.FolderType,
			rec.ItemsInFolder,
		)
	}
	if _, err := io.WriteString(w, builder.String()); err != nil {
		return fmt.Errorf("write folder report: %w", err)
	}
	return nil
}

// JobReport bundles a search job with its expanded status payloads.
type JobReport struct {
	Job           exchange.SearchJob    `json:"job"`
	Statistics    []jobstatus.Statistic `json:"statistics,omitempty"`
	ActionResults map[string]string     `json:"action_results,omitempty"`
}

// Expand builds a JobReport from the job's raw status payloads.
// Either payload may be absent; a present-but-malformed payload fails
// the whole call.
func Expand(job exchange.SearchJob) (JobReport, error) {
	rep := JobReport{Job: job}
	if job.SearchStatistics != "" {
		stats, err := jobstatus.ExpandStatistics(job.SearchStatistics)
		if err != nil {
			return JobReport{}, fmt.Errorf("expand search statistics: %w", err)
		}
		rep.Statistics = stats
	}
	if job.SuccessResults != "" {
		actions, err := jobstatus.ExpandActionResults(job.SuccessResults)
		if err != nil {
			return JobReport{}, fmt.Errorf("expand action results: %w", err)
		}
		rep.ActionResults = actions
	}
	return rep, nil
}

// PrintJob writes a readable job summary to w.
func PrintJob(rep JobReport, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}
	var builder strings.Builder
	job := rep.Job
	fmt.Fprintf(&builder, "search %s — %s\n", job.Name, job.Status)
	if job.ContentMatchQuery != "" {
		fmt.Fprintf(&builder, "  query:     %s\n", job.ContentMatchQuery)
	}
	if len(job.ExchangeLocation) > 0 {
		fmt.Fprintf(&builder, "  locations: %s\n", strings.Join(job.ExchangeLocation, ", "))
	}
	if job.Items > 0 || job.Size > 0 {
		fmt.Fprintf(&builder, "  items:     %d (%d bytes)\n", job.Items, job.Size)
	}
	if job.CreatedTime != "" {
		fmt.Fprintf(&builder, "  created:   %s\n", job.CreatedTime)
	}
	if job.JobEndTime != "" {
		fmt.Fprintf(&builder, "  ended:     %s\n", job.JobEndTime)
	}
	if len(rep.Statistics) > 0 {
		builder.WriteString("\nStatistics:\n")
		for _, stat := range rep.Statistics {
			label := stat.Name
			if label == "" {
				label = stat.Query
			}
			fmt.Fprintf(&builder, "  %-40s %8d items %12d bytes\n",
				truncate(label, 40), stat.Count, stat.Size)
		}
	}
	if len(rep.ActionResults) > 0 {
		builder.WriteString("\nAction results:\n")
		for _, field := range sortedKeys(rep.ActionResults) {
			fmt.Fprintf(&builder, "  %-24s %s\n", field, rep.ActionResults[field])
		}
	}
	if _, err := io.WriteString(w, builder.String()); err != nil {
		return fmt.Errorf("write job report: %w", err)
	}
	return nil
}

// WriteJSON serializes v to a path relative to the working directory.
func WriteJSON(v any, path string) error {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return fmt.Errorf("path must not be empty")
	}
	clean = filepath.Clean(clean)
	if filepath.IsAbs(clean) {
		return fmt.Errorf("output path must be relative, got %s", clean)
	}
	if strings.HasPrefix(clean, "..") {
		return fmt.Errorf("output path %s escapes working directory", clean)
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	abs := filepath.Join(wd, clean)
	f, err := os.OpenFile(abs, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) // #nosec G304
	if err != nil {
		return fmt.Errorf("create %s: %w", abs, err)
	}
	defer func() { _ = f.Close() }()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if encodeErr := enc.Encode(v); encodeErr != nil {
		return fmt.Errorf("encode report: %w", encodeErr)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
