// companionctl drives a wellness companion session from the terminal.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	if err := newCLI(openFromEnv).Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
