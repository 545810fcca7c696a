package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/settings"
)

func Show(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	store, err := newStorage(ctx, cli.Show.StorageOptions)
	if err != nil {
		return err
	}

	mgr := settings.NewManager(store, nil)
	found, err := mgr.Load(ctx, true)
	if err != nil {
		return err
	}
	if !found {
		fmt.Println("No configuration stored")
		return nil
	}

	data, err := json.MarshalIndent(mgr.Config(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
