package cmd

import (
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"cloudsaver/internal/auth"
	"cloudsaver/internal/config"
	"cloudsaver/internal/logger"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Authorize a Google Drive account",
	Long: `Runs the OAuth flow for a Google Drive account and stores the resulting
refresh token encrypted under a master password. On first run it also asks
for the OAuth client credentials from the Google Cloud Console.`,
	RunE: runAccount,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func runAccount(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		if _, statErr := os.Stat(config.ConfigFile); !os.IsNotExist(statErr) {
			return err
		}
		logger.Info("First-time setup detected.")
		logger.Info("Enter your OAuth client credentials (from the Google Cloud Console):")
		cfg = &config.Config{}
		if cfg.GoogleClient.ID, err = promptForInput("Google Client ID"); err != nil {
			return err
		}
		if cfg.GoogleClient.Secret, err = promptForInput("Google Client Secret"); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
	}

	password, err := promptForNewPassword()
	if err != nil {
		return err
	}

	refreshToken, err := auth.PerformOAuthFlow(ctx, auth.OAuthConfig(cfg.GoogleClient))
	if err != nil {
		return err
	}

	if err := config.SaveToken(password, refreshToken); err != nil {
		return err
	}

	logger.Info("Account authorized and token stored. You can now run 'list', 'export', 'duplicates' or 'shrink'.")
	return nil
}

func promptForInput(label string) (string, error) {
	prompt := promptui.Prompt{Label: label}
	return prompt.Run()
}

func promptForNewPassword() (string, error) {
	validate := func(input string) error {
		if len(input) < 8 {
			return errPasswordTooShort
		}
		return nil
	}

	prompt := promptui.Prompt{
		Label:    "Create Master Password",
		Validate: validate,
		Mask:     '*',
	}
	password, err := prompt.Run()
	if err != nil {
		return "", err
	}

	confirmPrompt := promptui.Prompt{
		Label: "Confirm Master Password",
		Mask:  '*',
	}
	confirmation, err := confirmPrompt.Run()
	if err != nil {
		return "", err
	}
	if password != confirmation {
		return "", errPasswordMismatch
	}
	return password, nil
}
