package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"jessica/internal/api"
	"jessica/internal/tui"
)

type appConfig struct {
	apiBase        string
	requestTimeout time.Duration
	pollInterval   time.Duration
	logFile        string
	altScreen      bool
}

func parseFlags() appConfig {
	apiBase := flag.String("api-base", envOr("JESSICA_API_BASE", api.DefaultBaseURL), "Jessica Core backend base URL")
	timeoutSeconds := flag.Int("timeout", envOrInt("JESSICA_REQUEST_TIMEOUT_SECONDS", 60), "request timeout in seconds")
	pollSeconds := flag.Int("poll-interval", envOrInt("JESSICA_STATUS_POLL_SECONDS", 30), "status poll interval in seconds")
	logFile := flag.String("log-file", envOr("JESSICA_LOG_FILE", "jessica-tui.log"), "log file path (the TUI owns the terminal)")
	altScreen := flag.Bool("alt-screen", true, "run in the terminal alternate screen")
	flag.Parse()

	return appConfig{
		apiBase:        *apiBase,
		requestTimeout: time.Duration(maxInt(1, *timeoutSeconds)) * time.Second,
		pollInterval:   time.Duration(maxInt(1, *pollSeconds)) * time.Second,
		logFile:        *logFile,
		altScreen:      *altScreen,
	}
}

func newLogger(path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func main() {
	_ = godotenv.Load()
	cfg := parseFlags()

	logger, err := newLogger(cfg.logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log file %s: %v\n", cfg.logFile, err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := api.NewClient(cfg.apiBase, cfg.requestTimeout)
	logger.Info("starting jessica-tui",
		zap.String("apiBase", cfg.apiBase),
		zap.Duration("pollInterval", cfg.pollInterval))

	m := tui.New(tui.Config{BaseURL: cfg.apiBase, PollInterval: cfg.pollInterval}, client, logger)
	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if cfg.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		logger.Error("fatal", zap.Error(err))
		fmt.Fprintf(os.Stderr, "jessica-tui fatal error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
