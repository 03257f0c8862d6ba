// Package config persists the OAuth client credentials and the encrypted
// refresh token between runs.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"cloudsaver/internal/crypto"
)

const (
	// ConfigFile holds the OAuth client credentials and local settings.
	ConfigFile = "config.json"
	// TokenFile holds the AES-GCM encrypted refresh token.
	TokenFile = "token.json.enc"
	// SaltFile holds the Argon2id salt for the token key.
	SaltFile = "config.salt"
)

// ClientCredentials holds the OAuth 2.0 client ID and secret for the
// Google Cloud project this tool runs under.
type ClientCredentials struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

// Config is the on-disk configuration. The refresh token is stored
// separately, encrypted.
type Config struct {
	GoogleClient ClientCredentials `json:"google_client"`
	OutputDir    string            `json:"output_dir,omitempty"`
	StagingDir   string            `json:"staging_dir,omitempty"`
}

// Load reads and parses ConfigFile.
func Load() (*Config, error) {
	data, err := os.ReadFile(ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("config file not found. run the 'account' command first")
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Save writes cfg to ConfigFile with user-only permissions.
func Save(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ConfigFile, data, 0600)
}

// SaveToken encrypts the refresh token under a key derived from the master
// password and writes it to TokenFile. A fresh salt is generated when none
// exists yet.
func SaveToken(masterPassword, refreshToken string) error {
	salt, err := crypto.LoadSalt(SaltFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read salt file: %w", err)
		}
		salt, err = crypto.GenerateSalt()
		if err != nil {
			return fmt.Errorf("failed to generate salt: %w", err)
		}
		if err := crypto.SaveSalt(salt, SaltFile); err != nil {
			return fmt.Errorf("failed to save salt: %w", err)
		}
	}

	key := crypto.DeriveKey(masterPassword, salt)
	ciphertext, err := crypto.Encrypt([]byte(refreshToken), key)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}
	return os.WriteFile(TokenFile, ciphertext, 0600)
}

// LoadToken decrypts and returns the stored refresh token.
func LoadToken(masterPassword string) (string, error) {
	salt, err := crypto.LoadSalt(SaltFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New("salt file not found. run the 'account' command first")
		}
		return "", fmt.Errorf("failed to read salt file: %w", err)
	}

	ciphertext, err := os.ReadFile(TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New("token file not found. run the 'account' command first")
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	key := crypto.DeriveKey(masterPassword, salt)
	plaintext, err := crypto.Decrypt(ciphertext, key)
	if err != nil {
		return "", errors.New("failed to decrypt token: master password may be incorrect")
	}
	return string(plaintext), nil
}
