package settings

import (
	"strings"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/pkg/types"
)

// requiredRule names one required field: where it lives in the dotted error
// key space, how to read it, and the message shown when it is missing.
type requiredRule struct {
	key     string
	value   func(*types.AppConfig) string
	message string
}

// cognitoRules apply regardless of the selected agent.
var cognitoRules = []requiredRule{
	{"cognito.userPoolId", func(c *types.AppConfig) string { return c.Cognito.UserPoolID }, "User Pool ID is required"},
	{"cognito.userPoolClientId", func(c *types.AppConfig) string { return c.Cognito.UserPoolClientID }, "User Pool Client ID is required"},
	{"cognito.region", func(c *types.AppConfig) string { return c.Cognito.Region }, "Cognito region is required"},
	{"cognito.identityPoolId", func(c *types.AppConfig) string { return c.Cognito.IdentityPoolID }, "Identity Pool ID is required"},
}

// bedrockAgentRules apply while the Lambda agent is disabled.
var bedrockAgentRules = []requiredRule{
	{"bedrockAgent.agentId", func(c *types.AppConfig) string { return c.BedrockAgent.AgentID }, "Agent ID is required"},
	{"bedrockAgent.agentAliasId", func(c *types.AppConfig) string { return c.BedrockAgent.AgentAliasID }, "Agent Alias ID is required"},
	{"bedrockAgent.region", func(c *types.AppConfig) string { return c.BedrockAgent.Region }, "Agent region is required"},
}

// lambdaAgentRules apply while the Lambda agent is enabled.
var lambdaAgentRules = []requiredRule{
	{"lambdaAgent.functionArn", func(c *types.AppConfig) string {
		if c.LambdaAgent == nil {
			return ""
		}
		return c.LambdaAgent.FunctionARN
	}, "Function ARN is required"},
	{"lambdaAgent.region", func(c *types.AppConfig) string {
		if c.LambdaAgent == nil {
			return ""
		}
		return c.LambdaAgent.Region
	}, "Lambda region is required"},
}

// Validate recomputes the full error mapping for cfg from scratch.
// An empty result means the configuration is valid.
func Validate(cfg *types.AppConfig) types.ValidationErrors {
	errs := make(types.ValidationErrors)

	rules := cognitoRules
	if cfg.LambdaAgent != nil && cfg.LambdaAgent.Enabled {
		rules = append(rules[:len(rules):len(rules)], lambdaAgentRules...)
	} else {
		rules = append(rules[:len(rules):len(rules)], bedrockAgentRules...)
	}

	for _, rule := range rules {
		if strings.TrimSpace(rule.value(cfg)) == "" {
			errs[rule.key] = rule.message
		}
	}
	return errs
}
