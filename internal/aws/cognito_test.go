package aws

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/pkg/types"
)

func testIdentitySettings() types.CognitoSettings {
	return types.CognitoSettings{
		UserPoolID:       "us-west-2_abc123",
		UserPoolClientID: "client123",
		Region:           "us-west-2",
		IdentityPoolID:   "us-west-2:guid",
	}
}

func TestApplyEstablishesConfiguration(t *testing.T) {
	ctx := context.Background()
	client, err := NewCognitoClient(ctx)
	require.NoError(t, err)

	assert.False(t, client.Configured())

	require.NoError(t, client.Apply(ctx, testIdentitySettings()))
	assert.True(t, client.Configured())
}

func TestApplyRequiresRegion(t *testing.T) {
	ctx := context.Background()
	client, err := NewCognitoClient(ctx)
	require.NoError(t, err)

	settings := testIdentitySettings()
	settings.Region = ""
	assert.Error(t, client.Apply(ctx, settings))
	assert.False(t, client.Configured())
}

func TestSignInBeforeApplyFails(t *testing.T) {
	ctx := context.Background()
	client, err := NewCognitoClient(ctx)
	require.NoError(t, err)

	_, err = client.SignIn(ctx, "user", "pass")
	assert.ErrorContains(t, err, "not configured")

	_, err = client.Config(ctx, "token")
	assert.ErrorContains(t, err, "not configured")

	_, err = client.SignInAgent(ctx, "user", "pass")
	assert.ErrorContains(t, err, "not configured")
}
