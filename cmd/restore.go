package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"camera-preset-cli/internal/archive"
	"camera-preset-cli/internal/store"
	"camera-preset-cli/internal/transfer"
)

var (
	restoreFile    string
	restoreArchive string
	restoreName    string
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore camera presets from a backup",
	Long: `Loads a backup, clears the presets currently on the endpoint and restores
each one: the camera is moved to the backed-up position, and once it reports
that position the preset is stored again with its original name, ID and list
position. Afterwards list positions are checked against the backup.

By default the backup is read from the macro file on the device. Use --file to
restore from a local export or --archive to restore from the local history.`,
	Example: `  camera-preset-cli restore
  camera-preset-cli restore --file presets.yaml
  camera-preset-cli restore --archive 3f1c...`,
	Run: func(cmd *cobra.Command, args []string) {
		if restoreFile != "" && restoreArchive != "" {
			fmt.Println("Error: --file and --archive are mutually exclusive.")
			os.Exit(1)
		}

		settings := loadSettings()
		if restoreName != "" {
			settings.BackupName = restoreName
		}
		logger := newLogger(settings)

		var arch *archive.Store
		if restoreArchive != "" {
			arch = openArchive(settings)
		}

		runner, done := newRunner(connect(settings), settings, "restore", logger, arch)
		switch {
		case restoreFile != "":
			runner.Store = store.File{Path: restoreFile}
		case arch != nil:
			runner.Store = arch
			runner.Name = restoreArchive
		}

		report, err := runner.Restore(context.Background())
		done()
		if err != nil {
			fmt.Printf("Error restoring presets: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(report)
			return
		}
		printRestoreReport(report)
	},
}

func printRestoreReport(report transfer.Report) {
	switch report.Status {
	case transfer.StatusNoBackup:
		fmt.Printf("Backup [%s] not found. Nothing was restored.\n", report.Snapshot)
		return
	case transfer.StatusEmptyBackup:
		fmt.Printf("Backup [%s] contains no presets. Nothing was restored.\n", report.Snapshot)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PRESET\tCAMERA\tNAME\tATTEMPTS\tRESULT")
	fmt.Fprintln(w, "------\t------\t----\t--------\t------")
	for _, o := range report.Outcomes {
		result := "in position"
		if !o.Converged {
			result = fmt.Sprintf("best effort (pan %d tilt %d zoom %d)", o.Last.Pan, o.Last.Tilt, o.Last.Zoom)
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\n", o.PresetID, o.CameraID, o.Name, o.Attempts, result)
	}
	w.Flush()

	fmt.Printf("\nRestored %d of %d presets, %d list positions corrected.\n",
		len(report.Outcomes), report.Presets, len(report.Edits))
	switch report.Status {
	case transfer.StatusPartial:
		fmt.Printf("Warning: %d camera presets are missing after restore.\n", report.Missing)
	case transfer.StatusNoPresets:
		fmt.Println("Warning: no camera presets found on the device after restore.")
	}
}

func init() {
	rootCmd.AddCommand(restoreCmd)

	restoreCmd.Flags().StringVar(&restoreFile, "file", "", "Restore from a local .json or .yaml backup")
	restoreCmd.Flags().StringVar(&restoreArchive, "archive", "", "Restore from the local archive by entry ID or backup name")
	restoreCmd.Flags().StringVar(&restoreName, "name", "", "Backup macro name (overrides backup_name)")
}
