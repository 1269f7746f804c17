// Package remote binds the narrow exchange interfaces to concrete
// service endpoints. The binding is chosen once at startup from
// configuration and injected into the orchestrator; nothing here
// relies on ambient session state.
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/pkessler/purviewscope/internal/config"
	"github.com/pkessler/purviewscope/internal/exchange"
)

// DefaultLogger returns the process-wide text logger.
func DefaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// NewTokenSource builds a client-credentials token source for the
// configured app registration.
func NewTokenSource(ctx context.Context, cfg *config.Config, scopes []string) oauth2.TokenSource {
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL(),
		Scopes:       scopes,
	}
	return cc.TokenSource(ctx)
}

// tokenCredential bridges an oauth2 token source to the azcore
// credential interface the Graph SDK expects.
type tokenCredential struct {
	source oauth2.TokenSource
}

func (c *tokenCredential) GetToken(
	ctx context.Context,
	options policy.TokenRequestOptions,
) (azcore.AccessToken, error) {
	_ = options // scopes are fixed at token-source construction
	tok, err := c.source.Token()
	if err != nil {
		return azcore.AccessToken{}, fmt.Errorf("acquire token: %w", err)
	}
	expires := tok.Expiry
	if expires.IsZero() {
		expires = time.Now().Add(time.Hour)
	}
	return azcore.AccessToken{Token: tok.AccessToken, ExpiresOn: expires}, nil
}

// NewFolderLister returns the folder-enumeration strategy the
// configuration selects.
func NewFolderLister(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (exchange.FolderLister, error) {
	switch cfg.Binding {
	case config.BindingGraph:
		return NewGraphClient(ctx, cfg, logger)
	case config.BindingAdminAPI:
		return NewAdminClient(ctx, cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown binding %q", cfg.Binding)
	}
}

// NewSearchClient returns the compliance-search capability. Only the
// admin API carries it; the Graph binding yields a CapabilityError so
// the caller can report exactly what is missing.
func NewSearchClient(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (exchange.SearchClient, error) {
	switch cfg.Binding {
	case config.BindingAdminAPI:
		return NewAdminClient(ctx, cfg, logger), nil
	case config.BindingGraph:
		return nil, &exchange.CapabilityError{
			Capability: "compliance search (requires the adminapi binding)",
		}
	default:
		return nil, fmt.Errorf("unknown binding %q", cfg.Binding)
	}
}
