package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/pkg/types"
)

// AgentClient invokes the configured agent backend: a Bedrock agent, or a
// Lambda function when the alternate agent is enabled.
type AgentClient struct {
	cfg aws.Config
}

// NewAgentClient creates an AgentClient using the default credential chain.
func NewAgentClient(ctx context.Context) (*AgentClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return &AgentClient{cfg: cfg}, nil
}

// NewAgentClientFromConfig creates an AgentClient using cfg, typically the
// federated-credential config returned by CognitoClient.Config.
func NewAgentClientFromConfig(cfg aws.Config) *AgentClient {
	return &AgentClient{cfg: cfg}
}

// SignInAgent signs a user in against the applied identity configuration and
// returns an AgentClient carrying the resulting federated credentials, so
// subsequent agent calls run as the signed-in user.
func (c *CognitoClient) SignInAgent(ctx context.Context, username, password string) (*AgentClient, error) {
	idToken, err := c.SignIn(ctx, username, password)
	if err != nil {
		return nil, err
	}
	cfg, err := c.Config(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return NewAgentClientFromConfig(cfg), nil
}

// Invoke sends prompt to the active agent configuration and returns the
// agent's full response.
func (c *AgentClient) Invoke(ctx context.Context, cfg *types.AppConfig, sessionID, prompt string) (string, error) {
	if cfg.LambdaAgent != nil && cfg.LambdaAgent.Enabled {
		return c.InvokeLambdaAgent(ctx, *cfg.LambdaAgent, sessionID, prompt)
	}
	return c.InvokeBedrockAgent(ctx, cfg.BedrockAgent, sessionID, prompt)
}

// InvokeBedrockAgent invokes the Bedrock agent and folds the completion
// stream into a single response string.
func (c *AgentClient) InvokeBedrockAgent(ctx context.Context, settings types.BedrockAgentSettings, sessionID, prompt string) (string, error) {
	client := bedrockagentruntime.NewFromConfig(c.cfg, func(o *bedrockagentruntime.Options) {
		if settings.Region != "" {
			o.Region = settings.Region
		}
	})

	output, err := client.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(settings.AgentID),
		AgentAliasId: aws.String(settings.AgentAliasID),
		SessionId:    aws.String(sessionID),
		InputText:    aws.String(prompt),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke agent: %w", err)
	}

	stream := output.GetStream()
	defer stream.Close()

	var sb strings.Builder
	for event := range stream.Events() {
		if chunk, ok := event.(*brtypes.ResponseStreamMemberChunk); ok {
			sb.Write(chunk.Value.Bytes)
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("failed to read agent response stream: %w", err)
	}
	return sb.String(), nil
}

// lambdaAgentRequest is the payload sent to a Lambda-backed agent.
type lambdaAgentRequest struct {
	SessionID string `json:"sessionId"`
	Prompt    string `json:"prompt"`
}

// lambdaAgentResponse is the payload a Lambda-backed agent returns.
type lambdaAgentResponse struct {
	Response string `json:"response"`
}

// InvokeLambdaAgent invokes the Lambda function named by the alternate agent
// configuration and returns its response field, or the raw payload when the
// function does not answer in the expected shape.
func (c *AgentClient) InvokeLambdaAgent(ctx context.Context, settings types.LambdaAgentSettings, sessionID, prompt string) (string, error) {
	client := lambda.NewFromConfig(c.cfg, func(o *lambda.Options) {
		if settings.Region != "" {
			o.Region = settings.Region
		}
	})

	payload, err := json.Marshal(lambdaAgentRequest{SessionID: sessionID, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to encode agent request: %w", err)
	}

	output, err := client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(settings.FunctionARN),
		Payload:      payload,
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke function: %w", err)
	}
	if output.FunctionError != nil {
		return "", fmt.Errorf("function returned an error: %s", *output.FunctionError)
	}

	var resp lambdaAgentResponse
	if err := json.Unmarshal(output.Payload, &resp); err == nil && resp.Response != "" {
		return resp.Response, nil
	}
	return string(output.Payload), nil
}
