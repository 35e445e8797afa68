package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	apiURL    string
	dbPath    string
	redisURL  string
	logLevel  string
	themeName string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "meridian-console",
	Short: "Terminal console for Meridian due-diligence investigations",
	Long: `meridian-console drives multi-agent due-diligence investigations
against a Meridian backend and renders their progress live in the
terminal.

Features:
- Live investigation view fed by the backend's event stream
- Six specialist agents with animated risk scoring
- Corporate relationship graph for the investigated entity
- Local SQLite cache of completed investigations
- Browse, compare, export, and delete stored reports
- Redis Streams notifications for completed investigations`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.meridian-console.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8000", "Meridian backend base URL")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./data/meridian.db", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis", "redis://localhost:6379", "Redis connection URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "auto", "UI theme (auto, dark, light, high-contrast)")

	// Bind flags to viper
	viper.BindPFlag("api.url", rootCmd.PersistentFlags().Lookup("api"))
	viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("redis.url", rootCmd.PersistentFlags().Lookup("redis"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("ui.theme", rootCmd.PersistentFlags().Lookup("theme"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".meridian-console" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".meridian-console")
	}

	viper.SetEnvPrefix("MERIDIAN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	viper.SetDefault("api.url", "http://localhost:8000")
	viper.SetDefault("database.path", "./data/meridian.db")
	viper.SetDefault("redis.url", "redis://localhost:6379")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("ui.theme", "auto")
	viper.SetDefault("import.dir", "data/incoming")
}

// GetConfig returns the current configuration values
func GetConfig() Config {
	return Config{
		API: APIConfig{
			URL: viper.GetString("api.url"),
		},
		Database: DatabaseConfig{
			Path: viper.GetString("database.path"),
		},
		Redis: RedisConfig{
			URL: viper.GetString("redis.url"),
		},
		Log: LogConfig{
			Level: viper.GetString("log.level"),
		},
		UI: UIConfig{
			Theme: viper.GetString("ui.theme"),
		},
		Import: ImportConfig{
			Dir: viper.GetString("import.dir"),
		},
	}
}

// Config represents the application configuration
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
	Import   ImportConfig   `mapstructure:"import"`
}

type APIConfig struct {
	URL string `mapstructure:"url"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

type ImportConfig struct {
	Dir string `mapstructure:"dir"`
}
