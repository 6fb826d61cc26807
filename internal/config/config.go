// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/vmdang/querypad/internal/apperrors"
	"github.com/vmdang/querypad/internal/db"
)

// Config represents the application configuration
type Config struct {
	DefaultConnection string       `toml:"default_connection"`
	ReadOnlyDefault   bool         `toml:"read_only_default"`
	RecordFailures    bool         `toml:"record_failures"`
	HistoryPageSize   int          `toml:"history_page_size"`
	Connections       []Connection `toml:"connections"`
	Theme             Theme        `toml:"theme_colors"`
}

// Connection is a saved connection descriptor. The URL embeds credentials,
// so only its encrypted form is persisted.
type Connection struct {
	Name      string `toml:"name"`
	Type      string `toml:"type"` // postgres, mysql, mongodb
	TableName string `toml:"table_name,omitempty"`

	// URL is kept in memory for usage
	URL string `toml:"-"`
	// EncryptedURL is the one persisted in the config file
	EncryptedURL string `toml:"url"`
}

// Descriptor converts a saved connection into a dispatchable descriptor
func (c Connection) Descriptor() (db.Descriptor, error) {
	driverType, err := db.ParseDriverType(c.Type)
	if err != nil {
		return db.Descriptor{}, err
	}
	return db.Descriptor{
		Type:      driverType,
		URL:       c.URL,
		TableName: c.TableName,
	}, nil
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Warning       string `toml:"warning"`
	Border        string `toml:"border"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		ReadOnlyDefault: true,
		RecordFailures:  false,
		HistoryPageSize: 100,
		Connections:     []Connection{},
		Theme: Theme{
			// Nord palette
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Warning:       "#D08770",
			Border:        "#3B4252",
		},
	}
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("querypad/config.toml")
}

// Load loads the config from disk or creates the default one on first run
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	if cfg.Theme.TextPrimary == "" {
		cfg.Theme = DefaultConfig().Theme
	}
	if cfg.HistoryPageSize <= 0 {
		cfg.HistoryPageSize = DefaultConfig().HistoryPageSize
	}

	// Decrypt connection URLs; a missing keyring leaves them empty and the
	// user re-enters the URL by hand.
	key, err := GetMasterKey()
	if err == nil {
		for i := range cfg.Connections {
			if cfg.Connections[i].EncryptedURL == "" {
				continue
			}
			decrypted, err := Decrypt(cfg.Connections[i].EncryptedURL, key)
			if err == nil {
				cfg.Connections[i].URL = decrypted
			}
		}
	}

	return &cfg, nil
}

// Save writes the config to disk with owner-only permissions
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	// Encrypt connection URLs before saving
	key, err := GetMasterKey()
	if err == nil {
		for i := range c.Connections {
			if c.Connections[i].URL == "" {
				continue
			}
			encrypted, err := Encrypt(c.Connections[i].URL, key)
			if err == nil {
				c.Connections[i].EncryptedURL = encrypted
			}
		}
	}

	return toml.NewEncoder(f).Encode(c)
}

// GetConnection retrieves a saved connection by name
func (c *Config) GetConnection(name string) (*Connection, error) {
	for i := range c.Connections {
		if c.Connections[i].Name == name {
			return &c.Connections[i], nil
		}
	}
	return nil, fmt.Errorf("connection %q: %w", name, apperrors.ErrNotFound)
}

// AddConnection adds a new saved connection
func (c *Config) AddConnection(conn Connection) error {
	for _, existing := range c.Connections {
		if existing.Name == conn.Name {
			return fmt.Errorf("connection already exists: %s", conn.Name)
		}
	}
	c.Connections = append(c.Connections, conn)
	return c.Save()
}

// DeleteConnection removes a saved connection
func (c *Config) DeleteConnection(name string) error {
	for i := range c.Connections {
		if c.Connections[i].Name == name {
			c.Connections = append(c.Connections[:i], c.Connections[i+1:]...)
			return c.Save()
		}
	}
	return fmt.Errorf("connection %q: %w", name, apperrors.ErrNotFound)
}
