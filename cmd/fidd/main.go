package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/fidd-app/fidd/internal/config"
	"github.com/fidd-app/fidd/internal/session"
	"github.com/fidd-app/fidd/internal/tui"
	"github.com/fidd-app/fidd/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("fidd " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "logout":
			return runLogout()
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
			printHelp()
			os.Exit(2)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dir, err := config.Dir()
	if err != nil {
		return err
	}

	log, closeLog := openLogger(dir)
	defer closeLog()

	store, err := session.Open(dir, log)
	if err != nil {
		return err
	}

	c := client.New(cfg.APIURL, store,
		client.WithLogger(log),
		// A 401 anywhere means the token is dead; drop it so the next
		// launch starts at the login screen.
		client.WithUnauthorizedHook(store.Clear),
	)

	log.Info().Str("version", version).Str("api_url", cfg.APIURL).Msg("starting")

	app := tui.NewApp(c, store, cfg.CSVDir)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// openLogger writes structured logs to ~/.fidd/fidd.log. The TUI owns the
// terminal, so nothing is ever logged to stderr while it runs.
func openLogger(dir string) (zerolog.Logger, func()) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return zerolog.Nop(), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "fidd.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), func() {}
	}
	log := zerolog.New(f).With().Timestamp().Logger()
	return log, func() {
		f.Close() //nolint:errcheck // best-effort close on exit
	}
}

func runLogout() error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	store, err := session.Open(dir, zerolog.Nop())
	if err != nil {
		return err
	}
	if !store.Authenticated() {
		fmt.Println("Already signed out.")
		return nil
	}
	store.Clear()
	fmt.Println("Signed out.")
	return nil
}

func printHelp() {
	printHelpTo(os.Stdout)
}

func printHelpTo(w io.Writer) {
	fmt.Fprintf(w, `fidd — loyalty dashboard for store owners

Usage:
  fidd            open the dashboard (sign in on first run)
  fidd logout     clear the stored session
  fidd version    show version
  fidd help       show this help

Environment:
  %s    override the API URL (default %s)

Config:
  ~/%s/%s
`, config.EnvAPIURL, config.DefaultAPIURL, config.DefaultConfigDir, config.DefaultConfigFile)
}
