// Package config loads purviewscope's service configuration: app
// credentials and the remote binding selection. Run options stay on
// each binary's flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Binding names for the folder-enumeration strategy.
const (
	BindingAdminAPI = "adminapi"
	BindingGraph    = "graph"
)

const (
	defaultAdminAPIBaseURL = "https://outlook.office365.com/adminapi/beta"
	defaultAdminAPIScope   = "https://outlook.office365.com/.default"
)

// Config is the application configuration, usually read from
// ~/.config/purviewscope/config.yaml. Every key can be overridden via
// the PURVIEWSCOPE_ environment prefix, which is where the client
// secret normally lives.
type Config struct {
	// Organization is the tenant's onmicrosoft.com organization name
	// used in admin API URLs.
	Organization string `mapstructure:"organization"`
	TenantID     string `mapstructure:"tenant_id"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	// Binding selects the folder-enumeration strategy: "adminapi"
	// (cmdlet-over-REST, also carries the compliance-search
	// capability) or "graph".
	Binding         string   `mapstructure:"binding"`
	AdminAPIBaseURL string   `mapstructure:"admin_api_base_url"`
	Scopes          []string `mapstructure:"scopes"`
}

// DefaultPath returns ~/.config/purviewscope/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "purviewscope", "config.yaml")
}

// TokenURL returns the tenant's client-credentials token endpoint.
func (c *Config) TokenURL() string {
	return fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", c.TenantID)
}

// Validate checks the fields every binding needs.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.TenantID) == "" {
		missing = append(missing, "tenant_id")
	}
	if strings.TrimSpace(c.ClientID) == "" {
		missing = append(missing, "client_id")
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		missing = append(missing, "client_secret")
	}
	if c.Binding == BindingAdminAPI && strings.TrimSpace(c.Organization) == "" {
		missing = append(missing, "organization")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}
	switch c.Binding {
	case BindingAdminAPI, BindingGraph:
	default:
		return fmt.Errorf("unknown binding %q, want %s or %s", c.Binding, BindingAdminAPI, BindingGraph)
	}
	return nil
}

// Load reads the configuration file at path, applying defaults and
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PURVIEWSCOPE")
	v.AutomaticEnv()

	v.SetDefault("binding", BindingAdminAPI)
	v.SetDefault("admin_api_base_url", defaultAdminAPIBaseURL)
	v.SetDefault("scopes", []string{defaultAdminAPIScope})
	// Registering empty defaults lets AutomaticEnv supply keys absent
	// from the file.
	for _, key := range []string{"organization", "tenant_id", "client_id", "client_secret"} {
		v.SetDefault(key, "")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine when the environment supplies the
		// credentials.
		_, pathErr := err.(*os.PathError)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !pathErr && !notFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
