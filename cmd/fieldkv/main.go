package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dotcommander/fieldkv/internal/commands"
)

// version is set via ldflags: -X main.version=v1.0.0
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := commands.Execute(ctx, version)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}
