package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"camera-preset-cli/internal/client"
	"camera-preset-cli/internal/config"
)

// Variables to hold flag values
var (
	host     string
	user     string
	pass     string
	insecure bool
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Open an xAPI session on the endpoint",
	Long: `Authenticates against the endpoint's HTTP API and saves the session
locally so that backup and restore can run without the password.

Example:
  camera-preset-cli login --host "https://10.0.0.5" --username admin --password pass`,
	Run: func(cmd *cobra.Command, args []string) {
		host = strings.TrimRight(host, "/")

		api := client.New(client.ClientConfig{
			BaseURL:  host,
			Username: user,
			Password: pass,
			Insecure: insecure,
		})

		fmt.Printf("Authenticating against %s as user '%s'...\n", host, user)

		sessionID, err := api.Login()
		if err != nil {
			log.Fatalf("Fatal: Login failed: %v", err)
		}

		fmt.Println("Login successful. Saving configuration...")

		if err := config.SaveSession(host, user, sessionID); err != nil {
			log.Fatalf("Failed to save configuration file: %v", err)
		}

		fmt.Printf("Session saved. You can now run commands like 'camera-preset-cli backup'.\n")
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Close the saved xAPI session",
	Run: func(cmd *cobra.Command, args []string) {
		api, _ := setupClient()

		if err := api.Logout(context.Background()); err != nil {
			fmt.Printf("Warning: failed to end session on device: %v\n", err)
		}
		if err := config.ClearSession(); err != nil {
			log.Fatalf("Failed to save configuration file: %v", err)
		}
		fmt.Println("Logged out.")
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().StringVar(&host, "host", "", "Endpoint base URL (e.g. https://192.168.1.50)")
	loginCmd.Flags().StringVarP(&user, "username", "u", "admin", "Endpoint username")
	loginCmd.Flags().StringVarP(&pass, "password", "p", "", "Endpoint password")
	loginCmd.Flags().BoolVar(&insecure, "insecure", true, "Skip TLS certificate verification")

	_ = loginCmd.MarkFlagRequired("host")
	_ = loginCmd.MarkFlagRequired("password")
}
