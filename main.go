package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/cmd"
)

func main() {
	if err := cmd.RunCLI(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
