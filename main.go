package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/meridianhq/meridian-console/cmd"
)

// Overridden at build time via -ldflags "-X main.Version=... -X main.BuildTime=...".
var (
	Version   = "dev"
	BuildTime = ""
)

func main() {
	cmd.SetVersion(Version, BuildTime)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// SIGINT/SIGTERM cancel the context so streams and the TUI unwind
	// cleanly instead of dying mid-write.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	if err := cmd.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
