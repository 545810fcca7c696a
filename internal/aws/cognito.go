package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/pkg/types"
)

// CognitoClient wraps the Cognito user-pool and identity-pool clients and
// holds the active identity-provider configuration once applied.
type CognitoClient struct {
	baseCfg aws.Config

	mu       sync.RWMutex
	settings types.CognitoSettings
	idp      *cognito.Client
	identity *cognitoidentity.Client
}

// NewCognitoClient creates a new CognitoClient.
func NewCognitoClient(ctx context.Context) (*CognitoClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return &CognitoClient{baseCfg: cfg}, nil
}

// Apply establishes settings as the active identity-provider configuration.
// All subsequent sign-in and credential calls use the applied user pool,
// client, identity pool, and region.
func (c *CognitoClient) Apply(ctx context.Context, settings types.CognitoSettings) error {
	if settings.Region == "" {
		return fmt.Errorf("cognito region is not configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = settings
	c.idp = cognito.NewFromConfig(c.baseCfg, func(o *cognito.Options) {
		o.Region = settings.Region
	})
	c.identity = cognitoidentity.NewFromConfig(c.baseCfg, func(o *cognitoidentity.Options) {
		o.Region = settings.Region
	})
	return nil
}

// Configured reports whether an identity-provider configuration is active.
func (c *CognitoClient) Configured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.idp != nil
}

// SignIn authenticates against the applied user pool and returns the ID
// token of the established session.
func (c *CognitoClient) SignIn(ctx context.Context, username, password string) (string, error) {
	c.mu.RLock()
	idp, settings := c.idp, c.settings
	c.mu.RUnlock()
	if idp == nil {
		return "", fmt.Errorf("identity provider is not configured")
	}

	output, err := idp.InitiateAuth(ctx, &cognito.InitiateAuthInput{
		AuthFlow: cognitotypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(settings.UserPoolClientID),
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign in: %w", err)
	}
	if output.AuthenticationResult == nil || output.AuthenticationResult.IdToken == nil {
		return "", fmt.Errorf("sign in did not return a token")
	}
	return *output.AuthenticationResult.IdToken, nil
}

// Config exchanges a user-pool ID token for federated credentials and
// returns an aws.Config carrying them, scoped to the applied region.
func (c *CognitoClient) Config(ctx context.Context, idToken string) (aws.Config, error) {
	c.mu.RLock()
	identity, settings := c.identity, c.settings
	c.mu.RUnlock()
	if identity == nil {
		return aws.Config{}, fmt.Errorf("identity provider is not configured")
	}

	provider := fmt.Sprintf("cognito-idp.%s.amazonaws.com/%s", settings.Region, settings.UserPoolID)
	logins := map[string]string{provider: idToken}

	idOutput, err := identity.GetId(ctx, &cognitoidentity.GetIdInput{
		IdentityPoolId: aws.String(settings.IdentityPoolID),
		Logins:         logins,
	})
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to get federated identity: %w", err)
	}

	credsOutput, err := identity.GetCredentialsForIdentity(ctx, &cognitoidentity.GetCredentialsForIdentityInput{
		IdentityId: idOutput.IdentityId,
		Logins:     logins,
	})
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to get federated credentials: %w", err)
	}

	creds := credsOutput.Credentials
	if creds == nil || creds.AccessKeyId == nil || creds.SecretKey == nil {
		return aws.Config{}, fmt.Errorf("federated credentials are incomplete")
	}

	sessionToken := ""
	if creds.SessionToken != nil {
		sessionToken = *creds.SessionToken
	}

	cfg := c.baseCfg.Copy()
	cfg.Region = settings.Region
	cfg.Credentials = credentials.NewStaticCredentialsProvider(*creds.AccessKeyId, *creds.SecretKey, sessionToken)
	return cfg, nil
}

// ValidateAWSCredentials checks that default AWS credentials are loadable.
func ValidateAWSCredentials(ctx context.Context) error {
	_, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load AWS credentials: %w", err)
	}
	return nil
}
