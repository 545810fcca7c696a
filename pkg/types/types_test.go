package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLambdaAgent(t *testing.T) {
	la := DefaultLambdaAgent()
	assert.False(t, la.Enabled)
	assert.Equal(t, DefaultLambdaAgentName, la.Name)
	assert.Empty(t, la.FunctionARN)
}

func TestActiveAgentName(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "Bedrock Agent", cfg.ActiveAgentName())

	cfg.BedrockAgent.Name = "Bookings"
	assert.Equal(t, "Bookings", cfg.ActiveAgentName())

	cfg.LambdaAgent.Enabled = true
	assert.Equal(t, DefaultLambdaAgentName, cfg.ActiveAgentName())

	cfg.LambdaAgent.Name = "Orders"
	assert.Equal(t, "Orders", cfg.ActiveAgentName())
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cognito.UserPoolID = "pool"

	clone := cfg.Clone()
	clone.Cognito.UserPoolID = "other"
	clone.LambdaAgent.Enabled = true

	assert.Equal(t, "pool", cfg.Cognito.UserPoolID)
	assert.False(t, cfg.LambdaAgent.Enabled)
}
