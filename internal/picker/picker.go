// Package picker implements the interactive folder-selection step.
package picker

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/pkessler/purviewscope/internal/exchange"
)

// Pick presents the enumerated folders, annotated with their
// location, and returns the subset the operator confirms. It blocks
// until the form is submitted or the context is canceled.
func Pick(ctx context.Context, records []exchange.FolderRecord) ([]exchange.FolderRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	options := make([]huh.Option[int], 0, len(records))
	for i, rec := range records {
		label := fmt.Sprintf("%-8s %-40s %6d items", rec.Location, rec.FolderPath, rec.ItemsInFolder)
		options = append(options, huh.NewOption(label, i))
	}

	var chosen []int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Select folders to search").
				Description("Space toggles a folder, enter confirms the set").
				Options(options...).
				Filterable(true).
				Value(&chosen),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("folder selection: %w", err)
	}

	selected := make([]exchange.FolderRecord, 0, len(chosen))
	for _, idx := range chosen {
		selected = append(selected, records[idx])
	}
	return selected, nil
}
