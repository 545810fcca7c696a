package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/pkg/types"
)

func validBedrockConfig() *types.AppConfig {
	return &types.AppConfig{
		Cognito: types.CognitoSettings{
			UserPoolID:       "us-west-2_abc123",
			UserPoolClientID: "client123",
			Region:           "us-west-2",
			IdentityPoolID:   "us-west-2:pool-guid",
		},
		BedrockAgent: types.BedrockAgentSettings{
			AgentID:      "AGENT123",
			AgentAliasID: "ALIAS123",
			Region:       "us-west-2",
		},
		LambdaAgent: types.DefaultLambdaAgent(),
	}
}

func TestValidateBedrockAgentMode(t *testing.T) {
	t.Run("complete configuration is valid", func(t *testing.T) {
		errs := Validate(validBedrockConfig())
		assert.Empty(t, errs)
	})

	t.Run("missing cognito fields each get an error", func(t *testing.T) {
		cfg := validBedrockConfig()
		cfg.Cognito = types.CognitoSettings{}
		errs := Validate(cfg)
		assert.Len(t, errs, 4)
		assert.Contains(t, errs, "cognito.userPoolId")
		assert.Contains(t, errs, "cognito.userPoolClientId")
		assert.Contains(t, errs, "cognito.region")
		assert.Contains(t, errs, "cognito.identityPoolId")
	})

	t.Run("whitespace-only counts as empty", func(t *testing.T) {
		cfg := validBedrockConfig()
		cfg.BedrockAgent.AgentID = "   "
		errs := Validate(cfg)
		assert.Contains(t, errs, "bedrockAgent.agentId")
	})

	t.Run("display name is optional", func(t *testing.T) {
		cfg := validBedrockConfig()
		cfg.BedrockAgent.Name = ""
		assert.Empty(t, Validate(cfg))
	})

	t.Run("lambda fields ignored while disabled", func(t *testing.T) {
		cfg := validBedrockConfig()
		cfg.LambdaAgent.FunctionARN = ""
		cfg.LambdaAgent.Region = ""
		assert.Empty(t, Validate(cfg))
	})
}

func TestValidateLambdaAgentMode(t *testing.T) {
	t.Run("missing function ARN and region each get an error", func(t *testing.T) {
		cfg := validBedrockConfig()
		cfg.LambdaAgent.Enabled = true
		errs := Validate(cfg)
		assert.Len(t, errs, 2)
		assert.Contains(t, errs, "lambdaAgent.functionArn")
		assert.Contains(t, errs, "lambdaAgent.region")
	})

	t.Run("bedrock fields ignored while enabled", func(t *testing.T) {
		cfg := validBedrockConfig()
		cfg.LambdaAgent.Enabled = true
		cfg.LambdaAgent.FunctionARN = "arn:aws:lambda:us-west-2:123456789012:function:foo"
		cfg.LambdaAgent.Region = "us-west-2"
		cfg.BedrockAgent = types.BedrockAgentSettings{}
		assert.Empty(t, Validate(cfg))
	})

	t.Run("nil sub-record validates as missing", func(t *testing.T) {
		cfg := validBedrockConfig()
		cfg.LambdaAgent = nil
		// With a nil record the Lambda agent cannot be enabled, so the
		// bedrock rule set applies.
		assert.Empty(t, Validate(cfg))
	})
}
