// Package main provides the entry point for the ha-llm-tools server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gitlab.com/rhoshambo/ha-llm-tools/configs"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/config"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/logging"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/tools"
)

// mcpShutdownTimeout bounds the graceful HTTP shutdown on exit.
const mcpShutdownTimeout = 5 * time.Second

// App holds the CLI application state and dependencies.
type App struct {
	cfgFile  string
	haURL    string
	haAPIKey string
	port     int
	v        *viper.Viper
	rootCmd  *cobra.Command
}

// NewApp creates a new CLI application instance with all dependencies.
func NewApp() *App {
	app := &App{v: viper.New()}
	app.rootCmd = app.buildRootCmd()
	app.setupFlags()
	app.addCommands()
	return app
}

// buildRootCmd creates the root cobra command.
func (a *App) buildRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ha-llm-tools",
		Short: "Home Assistant tool server for LLM hosts",
		Long: `ha-llm-tools is a tool server that lets LLM hosts control and query
a Home Assistant instance through human-readable device names.

It resolves friendly names (e.g., "Living Room Lamp") to entity IDs,
controls device state, and reads device status over the MCP protocol
on HTTP.`,
		RunE: a.run,
	}
}

// setupFlags configures CLI flags and binds them to the app's viper instance.
func (a *App) setupFlags() {
	a.rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./config.yaml)")
	a.rootCmd.PersistentFlags().StringVar(&a.haURL, "ha-url", "", "Home Assistant URL")
	a.rootCmd.PersistentFlags().StringVar(&a.haAPIKey, "ha-api-key", "", "Home Assistant long-lived access token")
	a.rootCmd.PersistentFlags().IntVar(&a.port, "port", 0, "tool server port")

	a.bindPFlag("homeassistant.url", a.rootCmd.PersistentFlags().Lookup("ha-url"))
	a.bindPFlag("homeassistant.api_key", a.rootCmd.PersistentFlags().Lookup("ha-api-key"))
	a.bindPFlag("server.port", a.rootCmd.PersistentFlags().Lookup("port"))
}

// addCommands adds subcommands to the root command.
func (a *App) addCommands() {
	a.rootCmd.AddCommand(a.buildConfigCmd())
	a.rootCmd.AddCommand(a.buildInitCmd())
}

// buildConfigCmd creates the config subcommand that displays the effective configuration.
func (a *App) buildConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Display the effective configuration",
		Long: `Display the effective configuration with sensitive data masked.

This command shows the configuration that would be used if the server were started,
including values from the config file, environment variables, and CLI flags.
Sensitive data like API keys are masked for security.`,
		RunE: a.runConfig,
	}
}

// buildInitCmd creates the init subcommand that creates configuration files.
func (a *App) buildInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration files",
		Long: `Create configuration files in the current directory.

This command creates:
  - config.yaml: YAML configuration file
  - .env: Environment variables file

Existing files are never overwritten.`,
		RunE: a.runInit,
	}
}

// runInit creates configuration files from embedded templates.
func (a *App) runInit(_ *cobra.Command, _ []string) error {
	created := 0

	wasCreated, err := a.writeConfigFile("config.yaml", configs.ConfigYAML)
	if err != nil {
		return err
	}
	if wasCreated {
		created++
	}

	wasCreated, err = a.writeConfigFile(".env", configs.EnvExample)
	if err != nil {
		return err
	}
	if wasCreated {
		created++
	}

	if created == 0 {
		fmt.Println("All configuration files already exist. Nothing to do.")
		return nil
	}

	fmt.Printf("Created %d configuration file(s) in current directory.\n", created)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit config.yaml or .env with your Home Assistant settings")
	fmt.Println("  2. Run 'ha-llm-tools config' to verify your configuration")
	fmt.Println("  3. Run 'ha-llm-tools' to start the server")

	return nil
}

// writeConfigFile writes content to a file if it doesn't already exist.
// Returns true if the file was created, false if it was skipped.
func (a *App) writeConfigFile(filename string, content []byte) (bool, error) {
	if _, err := os.Stat(filename); err == nil {
		fmt.Printf("Skipping %s (already exists)\n", filename)
		return false, nil
	}

	if err := os.WriteFile(filename, content, 0600); err != nil {
		return false, fmt.Errorf("writing %s: %w", filename, err)
	}

	fmt.Printf("Created %s\n", filename)
	return true, nil
}

// runConfig loads and displays the effective configuration with masked sensitive data.
func (a *App) runConfig(_ *cobra.Command, _ []string) error {
	// Load without validation so missing mandatory fields are still shown.
	cfg, err := config.LoadForDisplay(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	masked := cfg.MaskedConfig()

	fmt.Println("Effective Configuration")
	fmt.Println("=======================")
	fmt.Println()
	fmt.Println("Home Assistant:")
	fmt.Printf("  URL:             %s\n", masked.HomeAssistant.URL)
	fmt.Printf("  API Key:         %s\n", masked.HomeAssistant.APIKey)
	fmt.Printf("  Alarm Code:      %s\n", masked.HomeAssistant.AlarmCode)
	fmt.Printf("  Printer Service: %s\n", masked.HomeAssistant.PrinterNotifyService)
	fmt.Printf("  Cache TTL:       %s\n", masked.HomeAssistant.CacheTTL)
	fmt.Printf("  Timeout:         %s\n", masked.HomeAssistant.Timeout)
	fmt.Printf("  Watch:           %t\n", masked.HomeAssistant.Watch)
	fmt.Println()
	fmt.Println("Server:")
	fmt.Printf("  Port:  %d\n", masked.Server.Port)
	fmt.Println()
	fmt.Println("Logging:")
	fmt.Printf("  Level: %s\n", masked.Logging.Level)

	return nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// bindPFlag binds a flag to the app's viper instance and logs an error if
// binding fails.
func (a *App) bindPFlag(key string, flag *pflag.Flag) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		log.Printf("warning: failed to bind flag %s: %v", key, err)
	}
}

func main() {
	app := NewApp()
	if err := app.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the main server logic.
func (a *App) run(_ *cobra.Command, _ []string) error {
	// Load configuration; CLI flags bound to the viper instance win.
	cfg, err := config.LoadWithViper(a.v, a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// Setup logger with configured level
	logLevel, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Printf("Warning: invalid log level %q, using INFO", cfg.Logging.Level)
		logLevel = logging.LevelInfo
	}
	logger := logging.New(logLevel)
	logging.SetDefault(logger)

	logger.Info("Starting ha-llm-tools server", "port", cfg.Server.Port)
	logger.Info("Home Assistant URL", "url", cfg.HomeAssistant.URL)
	logger.Info("Log level", "level", logging.LevelString(logLevel))

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received signal, shutting down...", "signal", sig)
		cancel()
	}()

	// Create the Home Assistant session. Connectivity is verified lazily on
	// the first tool call, and a failed verification is returned to every
	// later call without a new network attempt.
	session := homeassistant.NewSession(homeassistant.SessionConfig{
		BaseURL:              cfg.HomeAssistant.URL,
		Token:                cfg.HomeAssistant.APIKey,
		AlarmCode:            cfg.HomeAssistant.AlarmCode,
		PrinterNotifyService: cfg.HomeAssistant.PrinterNotifyService,
		CacheTTL:             cfg.HomeAssistant.CacheTTL,
		Timeout:              cfg.HomeAssistant.Timeout,
	})

	// Optional WebSocket cache watcher
	if cfg.HomeAssistant.Watch {
		watcher := homeassistant.NewWatcher(cfg.HomeAssistant.URL, cfg.HomeAssistant.APIKey, session, logger)
		go watcher.Run(ctx)
		logger.Info("Cache watcher enabled")
	}

	// Initialize MCP registry and register all tools
	registry := mcp.NewRegistry()
	tools.RegisterAllTools(registry)

	logger.Info("Registered MCP tools", "count", registry.ToolCount())
	registry.LogRegisteredTools(logger)

	// Initialize MCP server with logger
	mcpServer := mcp.NewServer(session, registry, cfg.Server.Port, logger)

	// Start MCP server in goroutine
	go func() {
		if err := mcpServer.Start(); err != nil {
			logger.Error("MCP server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), mcpShutdownTimeout)
	defer shutdownCancel()
	if err := mcpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", "error", err)
	}

	logger.Info("Shutdown complete")
	return nil
}
