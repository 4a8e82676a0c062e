package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"camera-preset-cli/internal/transfer"
)

// Parent Command
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Inspect camera presets",
	Long:  `List the camera presets currently stored on the endpoint.`,
}

// List Command
var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all camera presets with their positions",
	Run: func(cmd *cobra.Command, args []string) {
		api, _ := setupClient()

		presets, err := transfer.ReadInventory(context.Background(), api)
		if err != nil {
			fmt.Printf("Error fetching presets: %v\n", err)
			os.Exit(1)
		}

		// --- JSON OUTPUT ---
		if jsonOutput {
			printJSON(presets)
			return
		}
		// -------------------

		if len(presets) == 0 {
			fmt.Println("No camera presets.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tCAMERA\tLIST POS\tNAME\tPAN\tTILT\tZOOM\tLENS\tDEFAULT")
		fmt.Fprintln(w, "--\t------\t--------\t----\t---\t----\t----\t----\t-------")

		for _, p := range presets {
			lens := p.Lens
			if lens == "" {
				lens = "-"
			}
			fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%d\t%d\t%d\t%s\t%t\n",
				p.PresetID,
				p.CameraID,
				p.ListPosition,
				p.Name,
				p.Pan,
				p.Tilt,
				p.Zoom,
				lens,
				bool(p.DefaultPosition),
			)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	presetsCmd.AddCommand(presetsListCmd)
}
