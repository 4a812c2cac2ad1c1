package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/timmy/shotctl/internal/cli"
	"github.com/timmy/shotctl/internal/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		// a second signal terminates immediately
		signal.Stop(sigChan)
		logger.Debug("Received shutdown signal, canceling...")
		cancel()
	}()

	err := cli.Execute(ctx)
	cancel()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
