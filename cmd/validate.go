package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/settings"
)

func Validate(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	store, err := newStorage(ctx, cli.Validate.StorageOptions)
	if err != nil {
		return err
	}

	mgr := settings.NewManager(store, nil)
	found, err := mgr.Load(ctx, true)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no configuration stored")
	}

	if mgr.Validate() {
		fmt.Println("Configuration is valid")
		return nil
	}

	errs := mgr.Errors()
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("Configuration has %d error(s):\n", len(errs))
	for _, k := range keys {
		fmt.Printf("  %s: %s\n", k, errs[k])
	}
	return fmt.Errorf("configuration is invalid")
}
