package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"camera-preset-cli/internal/archive"
	"camera-preset-cli/internal/client"
	"camera-preset-cli/internal/config"
	"camera-preset-cli/internal/store"
	"camera-preset-cli/internal/transfer"
)

var (
	backupExport string
	backupName   string
)

// newRunner wires a transfer.Runner for the configured endpoint. Everything that
// can fail locally is resolved by the caller before the client connects, so the
// runner's deferred self-disable covers every exit once the device is touched.
// The returned func writes run metrics and closes arch, if any.
func newRunner(api *client.XAPIClient, settings config.Settings, flow string, logger *slog.Logger, arch *archive.Store) (*transfer.Runner, func()) {
	metrics := transfer.NewMetrics(flow)

	r := &transfer.Runner{
		Device:    api,
		Lifecycle: client.Lifecycle{API: api, TriggerMacro: settings.TriggerMacro},
		Store:     store.Macro{Files: api},
		Name:      settings.BackupName,
		Settings:  settings.Transfer,
		Logger:    logger,
		Metrics:   metrics,
	}

	return r, func() {
		if err := metrics.WriteTextfile(settings.MetricsFile); err != nil {
			logger.Warn("failed to write metrics file", "path", settings.MetricsFile, "error", err)
		}
		if arch != nil {
			_ = arch.Close()
		}
	}
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up all camera presets",
	Long: `Reads every camera preset from the endpoint and saves them as a backup
macro file on the device. Refresh the macro editor to download it.`,
	Example: `  camera-preset-cli backup
  camera-preset-cli backup --export presets.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		settings := loadSettings()
		if backupName != "" {
			settings.BackupName = backupName
		}
		logger := newLogger(settings)

		var arch *archive.Store
		if settings.ArchivePath != "" {
			arch = openArchive(settings)
		}

		runner, done := newRunner(connect(settings), settings, "backup", logger, arch)
		if arch != nil {
			runner.Mirrors = append(runner.Mirrors, arch)
		}
		if backupExport != "" {
			runner.Mirrors = append(runner.Mirrors, store.File{Path: backupExport})
		}

		report, err := runner.Backup(context.Background())
		done()
		if err != nil {
			fmt.Printf("Error backing up presets: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(report)
			return
		}

		switch report.Status {
		case transfer.StatusNoPresets:
			fmt.Println("No camera presets found. Nothing was backed up.")
		default:
			fmt.Printf("Saved %d camera presets to backup file [%s].\n", report.Presets, report.Snapshot)
			if backupExport != "" {
				fmt.Printf("Exported a copy to %s\n", backupExport)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)

	backupCmd.Flags().StringVar(&backupExport, "export", "", "Also write the backup to a local .json or .yaml file")
	backupCmd.Flags().StringVar(&backupName, "name", "", "Backup macro name (overrides backup_name)")
}
