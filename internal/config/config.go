package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	DefaultBaseURL     = "http://127.0.0.1:5000"
	DefaultModel       = "gpt-4o-mini"
	DefaultAnalyzeTool = "pylint"

	ChatProviderBackend = "backend"
	ChatProviderDirect  = "direct"
)

// LLM holds credentials for talking to a model directly instead of going
// through the backend's /api/chat.
type LLM struct {
	APIKey  string `json:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
	Model   string `json:"model,omitempty"`
}

type Profile struct {
	BaseURL       string `json:"base_url"`
	SessionCookie string `json:"session_cookie,omitempty"`
	Token         string `json:"token,omitempty"`
	ChatProvider  string `json:"chat_provider,omitempty"`
	AnalyzeTool   string `json:"analyze_tool,omitempty"`
	LLM           LLM    `json:"llm,omitempty"`
}

type Config struct {
	Profiles       map[string]Profile `json:"profiles"`
	ActiveProfile  string             `json:"active_profile"`
	currentProfile *Profile
}

func DefaultProfile() Profile {
	return Profile{
		BaseURL:      DefaultBaseURL,
		ChatProvider: ChatProviderBackend,
		AnalyzeTool:  DefaultAnalyzeTool,
		LLM:          LLM{Model: DefaultModel},
	}
}

func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Load existing config or create default
	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Validate and set current profile
	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

// Current returns the active profile with defaults filled in.
func (c *Config) Current() Profile {
	if c.currentProfile == nil {
		return DefaultProfile()
	}
	return withDefaults(*c.currentProfile)
}

// Use switches the active profile for this process without saving.
func (c *Config) Use(name string) error {
	if _, exists := c.Profiles[name]; !exists {
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	c.ActiveProfile = name
	return c.setCurrentProfile()
}

// OverrideBaseURL points the active profile at another backend for this run.
func (c *Config) OverrideBaseURL(baseURL string) {
	if baseURL == "" {
		return
	}
	p := c.Current()
	p.BaseURL = baseURL
	c.currentProfile = &p
}

// ProfileNames returns profile names in a stable order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DirectChat reports whether chat should bypass the backend.
func (c *Config) DirectChat() bool {
	p := c.Current()
	return p.ChatProvider == ChatProviderDirect && p.LLM.APIKey != ""
}

func withDefaults(p Profile) Profile {
	if p.BaseURL == "" {
		p.BaseURL = DefaultBaseURL
	}
	if p.ChatProvider == "" {
		p.ChatProvider = ChatProviderBackend
	}
	if p.AnalyzeTool == "" {
		p.AnalyzeTool = DefaultAnalyzeTool
	}
	if p.LLM.Model == "" {
		p.LLM.Model = DefaultModel
	}
	return p
}

func getConfigPath() (string, error) {
	var configDir string

	// Use CODEDECK_HOME if set, otherwise use user's home directory
	if home := os.Getenv("CODEDECK_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".codedeck", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	configDir := filepath.Dir(configPath)
	return os.MkdirAll(configDir, 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	// If config file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: map[string]Profile{
			"default": DefaultProfile(),
		},
		ActiveProfile: "default",
	}

	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	// Session cookies and API keys live here
	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	return saveConfig(c, configPath)
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// Fall back to the first profile by name
		name := c.ProfileNames()[0]
		c.ActiveProfile = name
		profile = c.Profiles[name]
	}

	c.currentProfile = &profile
	return nil
}
