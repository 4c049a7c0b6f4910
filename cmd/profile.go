package cmd

import (
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/codedeck/internal/config"
)

var analyzeTools = []string{"pylint", "flake8", "mypy"}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage backend profiles",
	Long:  `Manage profiles: which backend to talk to, how to authenticate, and who answers chat.`,
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		fmt.Printf("Active Profile: %s\n\n", cfg.ActiveProfile)
		fmt.Println("Available Profiles:")
		for _, name := range cfg.ProfileNames() {
			profile := cfg.Profiles[name]
			marker := ""
			if name == cfg.ActiveProfile {
				marker = " (active)"
			}
			fmt.Printf("  %s%s\n", name, marker)
			fmt.Printf("    Backend: %s\n", orDefault(profile.BaseURL, config.DefaultBaseURL))
			fmt.Printf("    Chat: %s\n", orDefault(profile.ChatProvider, config.ChatProviderBackend))
			fmt.Println()
		}
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		name := cfg.ActiveProfile
		if len(args) > 0 {
			name = args[0]
		}
		profile, exists := cfg.Profiles[name]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", name)
		}

		fmt.Printf("Profile: %s\n", name)
		fmt.Printf("Backend: %s\n", orDefault(profile.BaseURL, config.DefaultBaseURL))
		fmt.Printf("Session cookie: %s\n", secret(profile.SessionCookie))
		fmt.Printf("Token: %s\n", secret(profile.Token))
		fmt.Printf("Analyze tool: %s\n", orDefault(profile.AnalyzeTool, config.DefaultAnalyzeTool))
		fmt.Printf("Chat: %s\n", orDefault(profile.ChatProvider, config.ChatProviderBackend))
		if profile.ChatProvider == config.ChatProviderDirect {
			fmt.Printf("  Model: %s\n", orDefault(profile.LLM.Model, config.DefaultModel))
			if profile.LLM.BaseURL != "" {
				fmt.Printf("  LLM URL: %s\n", profile.LLM.BaseURL)
			}
			fmt.Printf("  API Key: %s\n", secret(profile.LLM.APIKey))
		}
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			prompt := promptui.Prompt{
				Label:    "Profile name",
				Validate: required,
			}
			var err error
			profileName, err = prompt.Run()
			if err != nil {
				log.Fatalf("Prompt failed: %v", err)
			}
		}

		if _, exists := cfg.Profiles[profileName]; exists {
			log.Fatalf("Profile '%s' already exists", profileName)
		}

		profile, err := editProfile(config.DefaultProfile())
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}
		cfg.Profiles[profileName] = profile

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' added successfully!\n", profileName)
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		profileName := pickProfile(cfg, args, "Select profile to edit", "")
		profile, exists := cfg.Profiles[profileName]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		profile, err := editProfile(profile)
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}
		cfg.Profiles[profileName] = profile

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' updated successfully!\n", profileName)
	},
}

var removeProfileCmd = &cobra.Command{
	Use:     "remove [profile-name]",
	Aliases: []string{"delete", "rm"},
	Short:   "Remove a profile",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		profileName := pickProfile(cfg, args, "Select profile to remove", "")
		if _, exists := cfg.Profiles[profileName]; !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Remove profile '%s'", profileName),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Println("Removal cancelled")
			return
		}

		removeProfile(cfg, profileName)

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' removed. Active profile: %s\n", profileName, cfg.ActiveProfile)
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		profileName := pickProfile(cfg, args, "Select profile to switch to", cfg.ActiveProfile)
		if err := cfg.Use(profileName); err != nil {
			log.Fatalf("%v", err)
		}

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Switched to profile '%s'\n", profileName)
	},
}

// pickProfile returns the name given on the command line, or lets the user
// choose one. exclude is left out of the menu.
func pickProfile(cfg *config.Config, args []string, label, exclude string) string {
	if len(args) > 0 {
		return args[0]
	}

	var names []string
	for _, name := range cfg.ProfileNames() {
		if name != exclude {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		log.Fatalf("No profiles to choose from")
	}

	prompt := promptui.Select{
		Label: label,
		Items: names,
	}
	_, name, err := prompt.Run()
	if err != nil {
		log.Fatalf("Selection failed: %v", err)
	}
	return name
}

// removeProfile deletes name and keeps the config usable: another profile
// becomes active, or a fresh default is created when none is left.
func removeProfile(cfg *config.Config, name string) {
	delete(cfg.Profiles, name)

	if len(cfg.Profiles) == 0 {
		cfg.Profiles["default"] = config.DefaultProfile()
	}
	if _, exists := cfg.Profiles[cfg.ActiveProfile]; !exists {
		cfg.ActiveProfile = cfg.ProfileNames()[0]
	}
}

// editProfile walks the user through every field, starting from p.
func editProfile(p config.Profile) (config.Profile, error) {
	var err error

	baseURLPrompt := promptui.Prompt{
		Label:    "Backend URL",
		Default:  orDefault(p.BaseURL, config.DefaultBaseURL),
		Validate: validURL,
	}
	if p.BaseURL, err = baseURLPrompt.Run(); err != nil {
		return p, err
	}

	cookiePrompt := promptui.Prompt{
		Label:   "Session cookie (optional)",
		Default: p.SessionCookie,
		Mask:    '*',
	}
	if p.SessionCookie, err = cookiePrompt.Run(); err != nil {
		return p, err
	}

	tokenPrompt := promptui.Prompt{
		Label:   "Bearer token (optional)",
		Default: p.Token,
		Mask:    '*',
	}
	if p.Token, err = tokenPrompt.Run(); err != nil {
		return p, err
	}

	toolSelect := promptui.Select{
		Label:     "Analyze tool",
		Items:     analyzeTools,
		CursorPos: indexOf(analyzeTools, p.AnalyzeTool),
	}
	if _, p.AnalyzeTool, err = toolSelect.Run(); err != nil {
		return p, err
	}

	providers := []string{config.ChatProviderBackend, config.ChatProviderDirect}
	chatSelect := promptui.Select{
		Label:     "Chat provider",
		Items:     providers,
		CursorPos: indexOf(providers, p.ChatProvider),
	}
	if _, p.ChatProvider, err = chatSelect.Run(); err != nil {
		return p, err
	}
	if p.ChatProvider != config.ChatProviderDirect {
		return p, nil
	}

	apiKeyPrompt := promptui.Prompt{
		Label:    "LLM API Key",
		Default:  p.LLM.APIKey,
		Mask:     '*',
		Validate: required,
	}
	if p.LLM.APIKey, err = apiKeyPrompt.Run(); err != nil {
		return p, err
	}

	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: orDefault(p.LLM.Model, config.DefaultModel),
	}
	if p.LLM.Model, err = modelPrompt.Run(); err != nil {
		return p, err
	}

	llmURLPrompt := promptui.Prompt{
		Label:   "LLM Base URL (optional)",
		Default: p.LLM.BaseURL,
		Validate: func(s string) error {
			if s == "" {
				return nil
			}
			return validURL(s)
		},
	}
	p.LLM.BaseURL, err = llmURLPrompt.Run()
	return p, err
}

func required(s string) error {
	if s == "" {
		return errors.New("value is required")
	}
	return nil
}

func validURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("URL needs a host")
	}
	return nil
}

func secret(s string) string {
	if s == "" {
		return "Not set"
	}
	return "Set (hidden for security)"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func indexOf(items []string, s string) int {
	for i, item := range items {
		if item == s {
			return i
		}
	}
	return 0
}

func init() {
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(removeProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
}
