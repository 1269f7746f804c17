package exchange

// Location identifies which store a folder record came from.
type Location string

const (
	LocationMailbox Location = "Mailbox"
	LocationArchive Location = "Archive"
)

// FolderRecord is one row of mailbox folder statistics as reported by
// the remote service. FolderID is the raw base64-encoded folder
// identifier; callers derive query identifiers from it, they never
// rewrite it in place.
type FolderRecord struct {
	FolderPath    string   `json:"folder_path"`
	FolderType    string   `json:"folder_type"`
	FolderID      string   `json:"folder_id"`
	ItemsInFolder int64    `json:"items_in_folder"`
	Location      Location `json:"location"`
}

// SearchJob is the handle for a server-side compliance search. The
// remote service owns its lifecycle after creation; timestamps and the
// statistics payloads are passed through verbatim.
type SearchJob struct {
	Name              string   `json:"name"`
	Status            string   `json:"status"`
	ContentMatchQuery string   `json:"content_match_query"`
	ExchangeLocation  []string `json:"exchange_location"`
	Items             int64    `json:"items"`
	Size              int64    `json:"size"`
	CreatedTime       string   `json:"created_time"`
	JobEndTime        string   `json:"job_end_time,omitempty"`
	// SearchStatistics is the raw JSON statistics document; see
	// jobstatus.ExpandStatistics.
	SearchStatistics string `json:"search_statistics,omitempty"`
	// SuccessResults is the raw "Name: Value; ..." blob; see
	// jobstatus.ExpandActionResults.
	SuccessResults string `json:"success_results,omitempty"`
}
