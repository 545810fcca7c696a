package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func Reset(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	store, err := newStorage(ctx, cli.Reset.StorageOptions)
	if err != nil {
		return err
	}

	remover, ok := store.(interface{ Remove(context.Context) error })
	if !ok {
		return fmt.Errorf("storage backend does not support reset")
	}
	if err := remover.Remove(ctx); err != nil {
		return fmt.Errorf("failed to reset configuration: %w", err)
	}

	fmt.Println("Configuration removed")
	return nil
}
