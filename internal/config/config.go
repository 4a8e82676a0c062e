package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"camera-preset-cli/internal/transfer"
)

const (
	fileName  = ".camera-preset-cli"
	envPrefix = "CAMERA_PRESET"
)

// Settings is the resolved configuration for one invocation.
type Settings struct {
	Host           string
	Username       string
	Password       string
	SessionID      string
	Insecure       bool
	RequestTimeout time.Duration

	BackupName   string
	TriggerMacro string
	ArchivePath  string
	MetricsFile  string

	LogLevel  string
	LogFormat string

	Transfer transfer.Settings
}

func setDefaults() {
	d := transfer.DefaultSettings()
	viper.SetDefault("username", "admin")
	viper.SetDefault("insecure", true)
	viper.SetDefault("request_timeout", "30s")
	viper.SetDefault("backup_name", "Presets Backup File")
	viper.SetDefault("trigger_macro", "")
	viper.SetDefault("settle_interval", d.SettleInterval.String())
	viper.SetDefault("focus_settle", d.FocusSettle.String())
	viper.SetDefault("wake_delay", d.WakeDelay.String())
	viper.SetDefault("max_attempts", d.MaxAttempts)
	viper.SetDefault("zoom_tolerance_percent", d.ZoomTolerancePercent)
	viper.SetDefault("archive_path", "")
	viper.SetDefault("metrics_file", "")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	setDefaults()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".camera-preset-cli" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(fileName)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// A missing file is fine; everything has a default or a flag.
	_ = viper.ReadInConfig()
}

// Load resolves the current viper state into Settings.
func Load() (Settings, error) {
	s := Settings{
		Host:           strings.TrimRight(viper.GetString("host"), "/"),
		Username:       viper.GetString("username"),
		Password:       viper.GetString("password"),
		SessionID:      viper.GetString("session_id"),
		Insecure:       viper.GetBool("insecure"),
		RequestTimeout: viper.GetDuration("request_timeout"),
		BackupName:     viper.GetString("backup_name"),
		TriggerMacro:   viper.GetString("trigger_macro"),
		ArchivePath:    expandHome(viper.GetString("archive_path")),
		MetricsFile:    expandHome(viper.GetString("metrics_file")),
		LogLevel:       viper.GetString("log_level"),
		LogFormat:      viper.GetString("log_format"),
		Transfer: transfer.Settings{
			SettleInterval:       viper.GetDuration("settle_interval"),
			FocusSettle:          viper.GetDuration("focus_settle"),
			WakeDelay:            viper.GetDuration("wake_delay"),
			MaxAttempts:          viper.GetInt("max_attempts"),
			ZoomTolerancePercent: viper.GetInt("zoom_tolerance_percent"),
		},
	}

	if s.Transfer.MaxAttempts < 1 {
		return s, fmt.Errorf("max_attempts must be at least 1, got %d", s.Transfer.MaxAttempts)
	}
	if s.Transfer.ZoomTolerancePercent < 0 || s.Transfer.ZoomTolerancePercent > 100 {
		return s, fmt.Errorf("zoom_tolerance_percent must be between 0 and 100, got %d", s.Transfer.ZoomTolerancePercent)
	}
	if strings.TrimSpace(s.BackupName) == "" {
		return s, fmt.Errorf("backup_name must not be empty")
	}
	return s, nil
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

// SaveSession updates the config file with the device and its new session ID
func SaveSession(host, username, sessionID string) error {
	viper.Set("host", host)
	viper.Set("username", username)
	viper.Set("session_id", sessionID)
	return write()
}

// ClearSession forgets the saved session ID.
func ClearSession() error {
	viper.Set("session_id", "")
	return write()
}

func write() error {
	// Ensure the file exists before writing
	if err := viper.WriteConfig(); err != nil {
		// If file doesn't exist, create it
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return viper.SafeWriteConfig()
		}
		// If it exists but failed to write, try writing to default path
		home, _ := os.UserHomeDir()
		path := filepath.Join(home, fileName+".yaml")
		return viper.WriteConfigAs(path)
	}
	return nil
}
