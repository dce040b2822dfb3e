package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	UserID    string
	Token     string
	CredsFile string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("ASSASSIN_SERVER", "http://localhost:8080"),
		UserID:    os.Getenv("ASSASSIN_USER_ID"),
		Token:     os.Getenv("ASSASSIN_TOKEN"),
		CredsFile: getEnvOrDefault("ASSASSIN_CREDS_FILE", defaultCredsFile()),
		Output:    "text",
		Verbose:   false,
	}
}

// storedCredentials is the on-disk credential format
type storedCredentials struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// LoadCredentials loads the user id and token from file if not already set
func (c *Config) LoadCredentials() error {
	if c.UserID != "" && c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.CredsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No credentials file is fine
		}
		return err
	}

	var creds storedCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return err
	}
	if c.UserID == "" {
		c.UserID = creds.UserID
	}
	if c.Token == "" {
		c.Token = creds.Token
	}
	return nil
}

// SaveCredentials saves the user id and token to the credentials file
func (c *Config) SaveCredentials(userID, token string) error {
	c.UserID = userID
	c.Token = token

	dir := filepath.Dir(c.CredsFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(storedCredentials{UserID: userID, Token: token})
	if err != nil {
		return err
	}
	return os.WriteFile(c.CredsFile, data, 0600)
}

func defaultCredsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".assassin/credentials"
	}
	return filepath.Join(home, ".assassin", "credentials")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
