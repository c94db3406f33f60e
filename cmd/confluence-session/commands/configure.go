package commands

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/confluencetools/confluence-session/internal/config"
)

var (
	configureSite           string
	configureUsername       string
	configurePassword       string
	configureHeaderAuth     bool
	configureLogLevel       string
	configureYes            bool
	configurePrint          bool
	configureNonInteractive bool
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Create or edit the configuration file",
	Long: `Create or edit the configuration file (config.yaml by default),
interactively or via flags.

Non-interactive scripting:
  confluence-session configure --non-interactive --yes \
    --site https://wiki.example.com --username bot --password s3cret`,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
	configureCmd.Flags().StringVar(&configureSite, "site", "", "Confluence instance URL")
	configureCmd.Flags().StringVar(&configureUsername, "username", "", "account username")
	configureCmd.Flags().StringVar(&configurePassword, "password", "", "account password or API token")
	configureCmd.Flags().BoolVar(&configureHeaderAuth, "header-auth", false, "also send credentials as an HTTP basic auth header")
	configureCmd.Flags().StringVar(&configureLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	configureCmd.Flags().BoolVar(&configureYes, "yes", false, "automatically confirm saving changes")
	configureCmd.Flags().BoolVar(&configurePrint, "print", false, "print resulting YAML instead of writing to file")
	configureCmd.Flags().BoolVar(&configureNonInteractive, "non-interactive", false, "disable interactive prompts (use with --site / --username / --password)")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = "config.yaml"
	}

	cfg, existed, err := config.ReadFile(path)
	if err != nil {
		return err
	}

	applyConfigureFlags(cfg)

	if !configureNonInteractive {
		if err := interactiveEdit(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}

	if configurePrint {
		cmd.Print(string(out))
		return nil
	}

	if !configureYes {
		confirm := false
		prompt := &survey.Confirm{Message: "Save configuration to " + path + "?", Default: true}
		if err := survey.AskOne(prompt, &confirm); err != nil {
			return err
		}
		if !confirm {
			cmd.Println("Aborted (no changes saved).")
			return nil
		}
	}

	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if existed {
		cmd.Printf("Configuration updated: %s\n", path)
	} else {
		cmd.Printf("Configuration saved: %s\n", path)
	}

	return nil
}

func applyConfigureFlags(cfg *config.Config) {
	if configureSite != "" {
		cfg.Confluence.Site = configureSite
	}
	if configureUsername != "" {
		cfg.Confluence.Username = configureUsername
	}
	if configurePassword != "" {
		cfg.Confluence.Password = configurePassword
	}
	if configureHeaderAuth {
		cfg.Confluence.HeaderAuth = true
	}
	if configureLogLevel != "" {
		cfg.Server.LogLevel = configureLogLevel
	}
}

func interactiveEdit(cfg *config.Config) error {
	questions := []*survey.Question{
		{
			Name:     "site",
			Prompt:   &survey.Input{Message: "Confluence instance URL:", Default: cfg.Confluence.Site},
			Validate: survey.Required,
		},
		{
			Name:     "username",
			Prompt:   &survey.Input{Message: "Username:", Default: cfg.Confluence.Username},
			Validate: survey.Required,
		},
	}

	answers := struct {
		Site     string
		Username string
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}
	cfg.Confluence.Site = answers.Site
	cfg.Confluence.Username = answers.Username

	password := ""
	if err := survey.AskOne(&survey.Password{Message: "Password or API token:"}, &password); err != nil {
		return err
	}
	if password != "" {
		cfg.Confluence.Password = password
	}

	if err := survey.AskOne(&survey.Confirm{
		Message: "Also send credentials as an HTTP basic auth header?",
		Default: cfg.Confluence.HeaderAuth,
	}, &cfg.Confluence.HeaderAuth); err != nil {
		return err
	}

	level := cfg.Server.LogLevel
	if level == "" {
		level = "info"
	}
	if err := survey.AskOne(&survey.Select{
		Message: "Log level:",
		Options: []string{"debug", "info", "warn", "error"},
		Default: level,
	}, &cfg.Server.LogLevel); err != nil {
		return err
	}

	return nil
}
