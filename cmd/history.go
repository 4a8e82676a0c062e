package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse the local backup archive",
	Long:  `Every backup is also kept in a local sqlite archive when archive_path is configured.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived backups",
	Run: func(cmd *cobra.Command, args []string) {
		arch := openArchive(loadSettings())
		defer arch.Close()

		entries, err := arch.List(context.Background(), historyLimit)
		if err != nil {
			fmt.Printf("Error listing archive: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(entries)
			return
		}

		if len(entries) == 0 {
			fmt.Println("No archived backups.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tDEVICE\tNAME\tPRESETS")
		fmt.Fprintln(w, "--\t-------\t------\t----\t-------")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
				e.ID,
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				e.Device,
				e.Name,
				e.PresetCount,
			)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)

	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to show (0 for all)")
}
