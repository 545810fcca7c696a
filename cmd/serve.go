package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/aws"
	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/logging"
	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/preview"
	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/server"
	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/settings"
)

func Serve(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	logger, err := logging.New(logging.Config{Level: cli.Serve.LogLevel})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	store, err := newStorage(ctx, cli.Serve.StorageOptions)
	if err != nil {
		return err
	}

	cognitoClient, err := aws.NewCognitoClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize Cognito client: %w", err)
	}

	mgr := settings.NewManager(store, cognitoClient)
	mgr.OnSaved = func() {
		logger.Info("configuration applied", zap.String("agent", mgr.Config().ActiveAgentName()))
	}
	mgr.SetEditing = func(editing bool) {
		logger.Debug("edit mode changed", zap.Bool("editing", editing))
	}

	found, err := mgr.Load(ctx, cli.Serve.Edit)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if !found {
		logger.Info("no stored configuration, starting in edit mode")
	}
	logger.Info("identity provider ready", zap.Bool("configured", cognitoClient.Configured()))

	agentClient, err := aws.NewAgentClient(ctx)
	if err != nil {
		// The form and preview remain usable without an agent backend.
		logger.Warn("agent backend unavailable", zap.Error(err))
		agentClient = nil
	}

	serverCfg, err := server.LoadConfig()
	if err != nil {
		return err
	}

	frame := preview.NewFrame()
	auth := &cognitoAuthenticator{client: cognitoClient}
	srv := server.New(serverCfg, mgr, frame, agentOrNil(agentClient), auth, logger)
	return srv.ListenAndServe(ctx)
}

// cognitoAuthenticator adapts CognitoClient sign-in to the server's
// Authenticator contract.
type cognitoAuthenticator struct {
	client *aws.CognitoClient
}

func (a *cognitoAuthenticator) SignIn(ctx context.Context, username, password string) (server.AgentInvoker, error) {
	agent, err := a.client.SignInAgent(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// agentOrNil avoids handing the server a typed nil interface value.
func agentOrNil(client *aws.AgentClient) server.AgentInvoker {
	if client == nil {
		return nil
	}
	return client
}
