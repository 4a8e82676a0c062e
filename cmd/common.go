package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"camera-preset-cli/internal/archive"
	"camera-preset-cli/internal/client"
	"camera-preset-cli/internal/config"
	"camera-preset-cli/internal/logging"
)

// setupClient loads the configuration and returns a client ready for commands.
func setupClient() (*client.XAPIClient, config.Settings) {
	settings := loadSettings()
	return connect(settings), settings
}

func loadSettings() config.Settings {
	settings, err := config.Load()
	if err != nil {
		fmt.Printf("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return settings
}

// connect builds the device client. A saved session is reused; without one the
// client logs in with the configured password. Commands that can still fail on
// local input resolve it before calling connect.
func connect(settings config.Settings) *client.XAPIClient {
	if settings.Host == "" {
		fmt.Println("Error: Not logged in. Please run 'camera-preset-cli login' first.")
		os.Exit(1)
	}

	api := client.New(client.ClientConfig{
		BaseURL:  settings.Host,
		Username: settings.Username,
		Password: settings.Password,
		Insecure: settings.Insecure,
		Timeout:  settings.RequestTimeout,
	})

	switch {
	case settings.SessionID != "":
		api.UseSession(settings.SessionID)
	case settings.Password != "":
		if _, err := api.Login(); err != nil {
			fmt.Printf("Error: login failed: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Println("Error: Not logged in. Please run 'camera-preset-cli login' first.")
		os.Exit(1)
	}

	return api
}

func openArchive(settings config.Settings) *archive.Store {
	if settings.ArchivePath == "" {
		fmt.Println("Error: archive_path is not configured.")
		os.Exit(1)
	}
	arch, err := archive.Open(settings.ArchivePath, settings.Host)
	if err != nil {
		fmt.Printf("Error opening archive: %v\n", err)
		os.Exit(1)
	}
	return arch
}

func newLogger(settings config.Settings) *slog.Logger {
	logger, err := logging.New(logging.Config{Level: settings.LogLevel, Format: settings.LogFormat})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Printf("Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
