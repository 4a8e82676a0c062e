package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// Variables to hold flag values
var (
	cameraID int
)

// Parent Command
var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "Inspect cameras",
	Long:  `List attached cameras or read the live position of one camera.`,
}

// List Command
var camerasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cameras",
	Run: func(cmd *cobra.Command, args []string) {
		api, _ := setupClient()

		cameras, err := api.GetCameras(context.Background())
		if err != nil {
			fmt.Printf("Error fetching cameras: %v\n", err)
			os.Exit(1)
		}

		// --- JSON OUTPUT ---
		if jsonOutput {
			printJSON(cameras)
			return
		}
		// -------------------

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tMODEL\tSERIAL\tCONNECTED\tPAN\tTILT\tZOOM")
		fmt.Fprintln(w, "--\t-----\t------\t---------\t---\t----\t----")

		for _, cam := range cameras {
			fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%d\t%d\t%d\n",
				cam.ID,
				cam.Model,
				cam.SerialNumber,
				cam.IsConnected(),
				cam.Position.Pan,
				cam.Position.Tilt,
				cam.Position.Zoom,
			)
		}
		w.Flush()
	},
}

// Position Command
var camerasPositionCmd = &cobra.Command{
	Use:     "position",
	Short:   "Show the live position of a camera",
	Example: `  camera-preset-cli cameras position --id 1`,
	Run: func(cmd *cobra.Command, args []string) {
		api, _ := setupClient()
		ctx := context.Background()

		pos, err := api.Position(ctx, cameraID)
		if err != nil {
			fmt.Printf("Error reading camera position: %v\n", err)
			os.Exit(1)
		}
		focus, err := api.FocusMode(ctx, cameraID)
		if err != nil {
			fmt.Printf("Error reading focus mode: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(map[string]any{"cameraId": cameraID, "position": pos, "focusMode": focus})
			return
		}

		fmt.Printf("Camera %d: pan %d, tilt %d, zoom %d, focus %s\n", cameraID, pos.Pan, pos.Tilt, pos.Zoom, focus)
	},
}

func init() {
	// Register Parent
	rootCmd.AddCommand(camerasCmd)

	// Register Subcommands
	camerasCmd.AddCommand(camerasListCmd)
	camerasCmd.AddCommand(camerasPositionCmd)

	camerasPositionCmd.Flags().IntVar(&cameraID, "id", 1, "ID of the camera")
}
