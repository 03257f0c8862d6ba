package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"cloudsaver/internal/api"
	"cloudsaver/internal/auth"
	"cloudsaver/internal/cache"
	"cloudsaver/internal/config"
	"cloudsaver/internal/google"
	"cloudsaver/internal/logger"
	"cloudsaver/internal/model"
)

var (
	safeMode     bool
	forceRefresh bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cloudsaver",
	Short: "Inventory, export, de-duplicate and shrink media files in Google Drive.",
	Long: `cloudsaver lists the image and video files in a Google Drive account,
exports filtered subsets to JSON, finds exact duplicates by name and size,
and can download, recompress and replace oversized images remotely.

The OAuth refresh token is stored encrypted (token.json.enc) next to the
executable, protected by a master password.`,
}

// Execute runs the root command. This is the entry point for the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&safeMode, "safe", "s", false, "Perform a dry run without making remote changes")
	rootCmd.PersistentFlags().BoolVar(&forceRefresh, "refresh", false, "Ignore the cached scan and re-list the account")
}

// session bundles the state one command invocation needs: configuration,
// an authenticated Drive client, and the scan cache. It replaces any
// process-global accumulation of listing state.
type session struct {
	cfg    *config.Config
	client api.CloudClient
	store  *cache.Store
}

func (s *session) close() {
	if s.store != nil {
		s.store.Close()
	}
}

// newSession prompts for the master password, decrypts the stored refresh
// token, and builds the authenticated client plus the scan cache.
func newSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	password, err := promptForPassword("Enter Master Password")
	if err != nil {
		return nil, err
	}

	refreshToken, err := config.LoadToken(password)
	if err != nil {
		return nil, err
	}

	ts := auth.TokenSource(ctx, auth.OAuthConfig(cfg.GoogleClient), refreshToken)
	client, err := google.NewClient(ctx, ts)
	if err != nil {
		return nil, err
	}

	store, err := cache.Open(cache.DefaultFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open scan cache: %w", err)
	}

	return &session{cfg: cfg, client: client, store: store}, nil
}

// loadRecords returns the account's media records, reusing the cached scan
// unless the cache is empty or --refresh was given.
func loadRecords(ctx context.Context, sess *session) ([]model.MediaRecord, error) {
	if !forceRefresh {
		scannedAt, ok, err := sess.store.ScannedAt()
		if err == nil && ok {
			records, err := sess.store.Records()
			if err == nil && len(records) > 0 {
				logger.Info("Using cached scan from %s (%d files). Pass --refresh to re-scan.",
					scannedAt.Format("2006-01-02 15:04"), len(records))
				return records, nil
			}
		}
	}

	records, err := sess.client.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	if err := sess.store.Replace(records); err != nil {
		logger.Warning("Failed to update scan cache: %v", err)
	}
	return records, nil
}

func promptForPassword(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}
	return prompt.Run()
}

// promptFloat keeps prompting until the operator enters a valid
// non-negative number.
func promptFloat(label string) (float64, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			v, err := strconv.ParseFloat(input, 64)
			if err != nil {
				return fmt.Errorf("enter a number")
			}
			if v < 0 {
				return fmt.Errorf("enter a non-negative number")
			}
			return nil
		},
	}
	result, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(result, 64)
}

// promptInt keeps prompting until the operator enters a valid positive
// integer.
func promptInt(label string) (int, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			v, err := strconv.Atoi(input)
			if err != nil {
				return fmt.Errorf("enter a whole number")
			}
			if v <= 0 {
				return fmt.Errorf("enter a positive number")
			}
			return nil
		},
	}
	result, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(result)
}

// confirm asks a yes/no question. Anything but an explicit yes is a no.
func confirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}
