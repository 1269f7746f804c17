package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
organization: contoso.onmicrosoft.com
tenant_id: 11111111-2222-3333-4444-555555555555
client_id: app-id
client_secret: hunter2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Binding != BindingAdminAPI {
		t.Fatalf("default binding mismatch: %q", cfg.Binding)
	}
	if cfg.AdminAPIBaseURL != "https://outlook.office365.com/adminapi/beta" {
		t.Fatalf("default base URL mismatch: %q", cfg.AdminAPIBaseURL)
	}
	if len(cfg.Scopes) != 1 {
		t.Fatalf("default scopes mismatch: %+v", cfg.Scopes)
	}
	want := "https://login.microsoftonline.com/11111111-2222-3333-4444-555555555555/oauth2/v2.0/token"
	if cfg.TokenURL() != want {
		t.Fatalf("token URL mismatch: %q", cfg.TokenURL())
	}
}

func TestLoadGraphBindingNeedsNoOrganization(t *testing.T) {
	path := writeConfig(t, `
binding: graph
tenant_id: t
client_id: c
client_secret: s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Binding != BindingGraph {
		t.Fatalf("binding mismatch: %q", cfg.Binding)
	}
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	path := writeConfig(t, `
organization: contoso.onmicrosoft.com
tenant_id: t
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestLoadRejectsUnknownBinding(t *testing.T) {
	path := writeConfig(t, `
binding: carrier-pigeon
organization: o
tenant_id: t
client_id: c
client_secret: s
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown binding")
	}
}

func TestValidateAdminAPIRequiresOrganization(t *testing.T) {
	cfg := &Config{
		Binding:      BindingAdminAPI,
		TenantID:     "t",
		ClientID:     "c",
		ClientSecret: "s",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing organization")
	}
}
