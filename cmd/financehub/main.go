package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"financehub/client"
	"financehub/confs"
	"financehub/server"
	"financehub/services"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// app bundles the services the client-side commands work with.
type app struct {
	configured bool
	auth       *services.AuthService
	posts      *services.PostsService
	polls      *services.PollsService
}

const notConfiguredHint = "FinanceHub is not configured: set FINANCEHUB_URL and FINANCEHUB_ANON_KEY"

// newApp always succeeds. Without a URL or key every call fails with
// client.ErrNotConfigured, which the commands report like any other error.
func newApp(cfg confs.ClientConfig) *app {
	c := client.New(client.Config{URL: cfg.URL, APIKey: cfg.APIKey})
	if !c.Configured() {
		slog.Warn("client not configured", "url_set", cfg.URL != "", "key_set", cfg.APIKey != "")
	}
	return &app{
		configured: c.Configured(),
		auth:       services.NewAuthService(c),
		posts:      services.NewPostsService(c),
		polls:      services.NewPollsService(c),
	}
}

var rootCmd = &cobra.Command{
	Use:          "financehub",
	Short:        "FinanceHub: posts and polls about markets, in your terminal",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return confs.LoadConfig()
	},
	RunE: tui,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive feed (default)",
	RunE:  tui,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the FinanceHub backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Run(cmd.Context(), confs.Server())
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd, serveCmd)
}

func tui(cmd *cobra.Command, args []string) error {
	cfg := confs.Client()
	logs := setupLogging(cfg.LogFile)
	defer logs.Close()

	return runTUI(cmd.Context(), newApp(cfg))
}

// setupLogging sends slog output to a rotating file so it never draws over
// the terminal UI.
func setupLogging(path string) io.Closer {
	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return out
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
