package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/pkessler/purviewscope/internal/config"
	"github.com/pkessler/purviewscope/internal/exchange"
)

// Cmdlet names invoked through the admin endpoint.
const (
	cmdletFolderStatistics = "Get-MailboxFolderStatistics"
	cmdletCreateSearch     = "New-ComplianceSearch"
	cmdletStartSearch      = "Start-ComplianceSearch"
	cmdletGetSearch        = "Get-ComplianceSearch"
)

// AdminClient talks to the cmdlet-over-REST admin endpoint
// (POST {base}/{organization}/InvokeCommand). It implements both
// exchange.FolderLister and exchange.SearchClient.
type AdminClient struct {
	httpClient   *http.Client
	baseURL      string
	organization string
	logger       *slog.Logger
}

// NewAdminClient builds a client whose transport injects bearer
// tokens from the configured app registration.
func NewAdminClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) *AdminClient {
	if logger == nil {
		logger = DefaultLogger()
	}
	source := NewTokenSource(ctx, cfg, cfg.Scopes)
	return &AdminClient{
		httpClient:   oauth2.NewClient(ctx, source),
		baseURL:      strings.TrimRight(cfg.AdminAPIBaseURL, "/"),
		organization: cfg.Organization,
		logger:       logger,
	}
}

type cmdletInput struct {
	CmdletName string         `json:"CmdletName"`
	Parameters map[string]any `json:"Parameters"`
}

type invokeRequest struct {
	CmdletInput cmdletInput `json:"CmdletInput"`
}

type invokeResponse struct {
	Value json.RawMessage `json:"value"`
}

// invoke posts one cmdlet invocation and decodes the value array into
// out when out is non-nil.
func (c *AdminClient) invoke(ctx context.Context, cmdlet string, params map[string]any, out any) error {
	payload, err := json.Marshal(invokeRequest{
		CmdletInput: cmdletInput{CmdletName: cmdlet, Parameters: params},
	})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", cmdlet, err)
	}

	url := fmt.Sprintf("%s/%s/InvokeCommand", c.baseURL, c.organization)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", cmdlet, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("client-request-id", uuid.NewString())

	c.logger.DebugContext(ctx, "invoking cmdlet", slog.String("cmdlet", cmdlet))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke %s: %w", cmdlet, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", cmdlet, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		// The endpoint reports unknown cmdlets as 404; surface which
		// capability is missing rather than a bare status code.
		return &exchange.CapabilityError{Capability: cmdlet}
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf(
			"invoke %s: status %d: %s",
			cmdlet, resp.StatusCode, strings.TrimSpace(string(body)),
		)
	}

	if out == nil {
		return nil
	}
	var envelope invokeResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode %s envelope: %w", cmdlet, err)
	}
	if len(envelope.Value) == 0 {
		return fmt.Errorf("invoke %s: response carries no value", cmdlet)
	}
	if err := json.Unmarshal(envelope.Value, out); err != nil {
		return fmt.Errorf("decode %s value: %w", cmdlet, err)
	}
	return nil
}

type folderStatisticsRow struct {
	Name          string `json:"Name"`
	FolderPath    string `json:"FolderPath"`
	FolderType    string `json:"FolderType"`
	FolderID      string `json:"FolderId"`
	ItemsInFolder int64  `json:"ItemsInFolder"`
}

// ListFolders implements exchange.FolderLister.
func (c *AdminClient) ListFolders(
	ctx context.Context,
	mailbox string,
	archive bool,
) ([]exchange.FolderRecord, error) {
	params := map[string]any{
		"Identity":   mailbox,
		"ResultSize": "Unlimited",
	}
	if archive {
		params["Archive"] = true
	}
	var rows []folderStatisticsRow
	if err := c.invoke(ctx, cmdletFolderStatistics, params, &rows); err != nil {
		return nil, err
	}

	location := exchange.LocationMailbox
	if archive {
		location = exchange.LocationArchive
	}
	records := make([]exchange.FolderRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, exchange.FolderRecord{
			FolderPath:    row.FolderPath,
			FolderType:    row.FolderType,
			FolderID:      row.FolderID,
			ItemsInFolder: row.ItemsInFolder,
			Location:      location,
		})
	}
	return records, nil
}

type searchRow struct {
	Name              string   `json:"Name"`
	Status            string   `json:"Status"`
	ContentMatchQuery string   `json:"ContentMatchQuery"`
	ExchangeLocation  []string `json:"ExchangeLocation"`
	Items             int64    `json:"Items"`
	Size              int64    `json:"Size"`
	CreatedTime       string   `json:"CreatedTime"`
	JobEndTime        string   `json:"JobEndTime"`
	SearchStatistics  string   `json:"SearchStatistics"`
	SuccessResults    string   `json:"SuccessResults"`
}

func (r searchRow) job() exchange.SearchJob {
	return exchange.SearchJob{
		Name:              r.Name,
		Status:            r.Status,
		ContentMatchQuery: r.ContentMatchQuery,
		ExchangeLocation:  r.ExchangeLocation,
		Items:             r.Items,
		Size:              r.Size,
		CreatedTime:       r.CreatedTime,
		JobEndTime:        r.JobEndTime,
		SearchStatistics:  r.SearchStatistics,
		SuccessResults:    r.SuccessResults,
	}
}

// CreateSearch implements exchange.SearchClient.
func (c *AdminClient) CreateSearch(
	ctx context.Context,
	name, mailbox, query string,
) (exchange.SearchJob, error) {
	params := map[string]any{
		"Name":             name,
		"ExchangeLocation": []string{mailbox},
	}
	if query != "" {
		params["ContentMatchQuery"] = query
	}
	var rows []searchRow
	if err := c.invoke(ctx, cmdletCreateSearch, params, &rows); err != nil {
		return exchange.SearchJob{}, err
	}
	if len(rows) == 0 {
		return exchange.SearchJob{}, fmt.Errorf("create search %s: empty response", name)
	}
	return rows[0].job(), nil
}

// StartSearch implements exchange.SearchClient.
func (c *AdminClient) StartSearch(ctx context.Context, name string) error {
	return c.invoke(ctx, cmdletStartSearch, map[string]any{"Identity": name}, nil)
}

// GetSearch implements exchange.SearchClient.
func (c *AdminClient) GetSearch(ctx context.Context, name string) (exchange.SearchJob, error) {
	var rows []searchRow
	if err := c.invoke(ctx, cmdletGetSearch, map[string]any{"Identity": name}, &rows); err != nil {
		return exchange.SearchJob{}, err
	}
	if len(rows) == 0 {
		return exchange.SearchJob{}, fmt.Errorf("search %s not found", name)
	}
	return rows[0].job(), nil
}

var (
	_ exchange.FolderLister = (*AdminClient)(nil)
	_ exchange.SearchClient = (*AdminClient)(nil)
)
