package exchange

import "context"

// FolderLister enumerates folder statistics for a mailbox. When
// archive is true the archive store is listed instead of the primary
// mailbox. Implementations stamp Location on every returned record.
type FolderLister interface {
	ListFolders(ctx context.Context, mailbox string, archive bool) ([]FolderRecord, error)
}

// SearchClient is the narrow compliance-search surface purviewscope
// requires: create a named search over a query, start it, and fetch
// its current record by name.
type SearchClient interface {
	CreateSearch(ctx context.Context, name, mailbox, query string) (SearchJob, error)
	StartSearch(ctx context.Context, name string) error
	GetSearch(ctx context.Context, name string) (SearchJob, error)
}
