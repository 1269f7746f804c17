package remote

import (
	"context"
	"fmt"
	"log/slog"

	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/users"

	"github.com/pkessler/purviewscope/internal/config"
	"github.com/pkessler/purviewscope/internal/exchange"
)

const (
	graphScope = "https://graph.microsoft.com/.default"
	// Well-known folder id for the root of the archive store.
	archiveRootFolder = "archivemsgfolderroot"
	folderPageSize    = int32(250)
)

// GraphClient enumerates mailbox folders through the Graph API. It
// carries no compliance-search capability.
type GraphClient struct {
	client *msgraphsdk.GraphServiceClient
	logger *slog.Logger
}

// NewGraphClient builds the Graph folder-enumeration binding.
func NewGraphClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*GraphClient, error) {
	if logger == nil {
		logger = DefaultLogger()
	}
	cred := &tokenCredential{source: NewTokenSource(ctx, cfg, []string{graphScope})}
	client, err := msgraphsdk.NewGraphServiceClientWithCredentials(cred, []string{})
	if err != nil {
		return nil, fmt.Errorf("create graph client: %w", err)
	}
	return &GraphClient{client: client, logger: logger}, nil
}

// ListFolders implements exchange.FolderLister. The archive store is
// reached through the well-known archive root folder.
func (g *GraphClient) ListFolders(
	ctx context.Context,
	mailbox string,
	archive bool,
) ([]exchange.FolderRecord, error) {
	var (
		folders []models.MailFolderable
		err     error
	)
	if archive {
		folders, err = g.listArchiveFolders(ctx, mailbox)
	} else {
		folders, err = g.listMailboxFolders(ctx, mailbox)
	}
	if err != nil {
		return nil, err
	}

	location := exchange.LocationMailbox
	if archive {
		location = exchange.LocationArchive
	}
	records := make([]exchange.FolderRecord, 0, len(folders))
	for _, folder := range folders {
		records = append(records, recordFromGraph(folder, location))
	}
	return records, nil
}

func (g *GraphClient) listMailboxFolders(
	ctx context.Context,
	mailbox string,
) ([]models.MailFolderable, error) {
	top := folderPageSize
	requestConfig := &users.ItemMailFoldersRequestBuilderGetRequestConfiguration{
		QueryParameters: &users.ItemMailFoldersRequestBuilderGetQueryParameters{
			Top:    &top,
			Select: []string{"id", "displayName", "totalItemCount"},
		},
	}
	result, err := g.client.Users().ByUserId(mailbox).MailFolders().Get(ctx, requestConfig)
	if err != nil {
		return nil, fmt.Errorf("list mail folders for %s: %w", mailbox, err)
	}
	return result.GetValue(), nil
}

func (g *GraphClient) listArchiveFolders(
	ctx context.Context,
	mailbox string,
) ([]models.MailFolderable, error) {
	top := folderPageSize
	requestConfig := &users.ItemMailFoldersItemChildFoldersRequestBuilderGetRequestConfiguration{
		QueryParameters: &users.ItemMailFoldersItemChildFoldersRequestBuilderGetQueryParameters{
			Top:    &top,
			Select: []string{"id", "displayName", "totalItemCount"},
		},
	}
	result, err := g.client.Users().
		ByUserId(mailbox).
		MailFolders().
		ByMailFolderId(archiveRootFolder).
		ChildFolders().
		Get(ctx, requestConfig)
	if err != nil {
		return nil, fmt.Errorf("list archive folders for %s: %w", mailbox, err)
	}
	return result.GetValue(), nil
}

func recordFromGraph(folder models.MailFolderable, location exchange.Location) exchange.FolderRecord {
	rec := exchange.FolderRecord{Location: location}
	var name string
	if displayName := folder.GetDisplayName(); displayName != nil {
		name = *displayName
	}
	rec.FolderPath = "/" + name
	rec.FolderType = classifyFolder(name)
	if id := folder.GetId(); id != nil {
		rec.FolderID = *id
	}
	if count := folder.GetTotalItemCount(); count != nil {
		rec.ItemsInFolder = int64(*count)
	}
	return rec
}

// wellKnownFolderTypes mirrors the categories the folder-statistics
// cmdlet reports so both bindings classify folders the same way.
var wellKnownFolderTypes = map[string]string{
	"Inbox":                "Inbox",
	"Drafts":               "Drafts",
	"Sent Items":           "SentItems",
	"Deleted Items":        "DeletedItems",
	"Junk Email":           "JunkEmail",
	"Outbox":               "Outbox",
	"Archive":              "Archive",
	"Calendar":             "Calendar",
	"Contacts":             "Contacts",
	"Tasks":                "Tasks",
	"Notes":                "Notes",
	"Journal":              "Journal",
	"Conversation History": "ConversationHistory",
}

func classifyFolder(displayName string) string {
	if folderType, ok := wellKnownFolderTypes[displayName]; ok {
		return folderType
	}
	return "User Created"
}

var _ exchange.FolderLister = (*GraphClient)(nil)
