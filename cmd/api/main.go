package main

import (
	"context"
	"log/slog"
	"os"

	"bookstack/internal/app/bootstrap"

	"github.com/joho/godotenv"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Start HTTP server.
func main() {
	// best effort: a missing .env just means the environment is already set
	_ = godotenv.Load()

	app, err := bootstrap.BuildAPI()
	if err != nil {
		slog.Error("bootstrap failed",
			"event", "bootstrap_failed",
			"module", "cmd/api",
			"error", err,
		)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(context.Background()); err != nil {
		slog.Error("server stopped",
			"event", "server_stopped",
			"module", "cmd/api",
			"error", err,
		)
		os.Exit(1)
	}
}
