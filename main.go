package main

import (
	"context"
	"log/slog"
	"os"

	"financehub/confs"
	"financehub/server"
)

func main() {
	// load config
	if err := confs.LoadConfig(); err != nil {
		slog.Error("error loading config", "error", err)
		os.Exit(1)
	}

	if err := server.Run(context.Background(), confs.Server()); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
