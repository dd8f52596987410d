package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pyedit/internal/app"
	"pyedit/internal/config"
	"pyedit/internal/fs"
	"pyedit/internal/logger"
)

// version задаётся при сборке через -ldflags
var version = "dev"

var (
	configPath  string
	interpreter string
	themeName   string
)

var rootCmd = &cobra.Command{
	Use:   "pyedit [file]",
	Short: "Terminal editor for writing and running Python scripts",
	Long:  `pyedit edits a single Python script and runs it with the configured interpreter, showing its output or errors in a report window.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var file string
		if len(args) == 1 {
			file = args[0]
		}
		return run(file)
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pyedit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pyedit version %s\n", version)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to config file (default $XDG_CONFIG_HOME/pyedit/config.yaml)")
	rootCmd.Flags().StringVar(&interpreter, "interpreter", "", "interpreter used by Run (overrides config)")
	rootCmd.Flags().StringVar(&themeName, "theme", "", "initial theme: light or dark (overrides config)")
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

func run(file string) error {
	// Загружаем конфигурацию; при ошибке разбора работаем на значениях по умолчанию
	cfg, cfgErr := loadConfig()
	if interpreter != "" {
		cfg.Runner.Interpreter = interpreter
	}
	if themeName != "" {
		cfg.Theme = themeName
	}
	cfg.Validate()

	log, closer, logErr := logger.Open(cfg.Logging.FilePath, cfg.Logging.Level)
	defer closer.Close()
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", logErr)
	}
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; using defaults\n", cfgErr)
		log.Warn().Err(cfgErr).Msg("config not loaded")
	}
	log.Info().Str("version", version).Str("interpreter", cfg.Runner.Interpreter).Msg("starting")

	// Создаем контекст с отменой для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обрабатываем сигналы для graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		select {
		case <-c:
			cancel()
		case <-ctx.Done():
		}
	}()

	watcher, err := fs.NewFileWatcher(ctx, logger.Component(log, "watcher"))
	if err != nil {
		log.Warn().Err(err).Msg("file watcher unavailable")
	} else {
		defer watcher.Close()
	}

	// Создаем и запускаем приложение
	application := app.New(ctx, cfg, log, app.Options{
		Version:     version,
		InitialFile: file,
		Watcher:     watcher,
	})

	program := tea.NewProgram(application, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		log.Error().Err(err).Msg("program failed")
		return fmt.Errorf("failed to start the terminal user interface: %w", err)
	}
	log.Info().Msg("exiting")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
