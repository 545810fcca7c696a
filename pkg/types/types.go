package types

// DefaultLambdaAgentName is the display name used when a Lambda agent
// configuration does not carry one.
const DefaultLambdaAgentName = "Lambda Agent"

// CognitoSettings holds the Cognito identity-provider parameters.
type CognitoSettings struct {
	UserPoolID       string `json:"userPoolId"`
	UserPoolClientID string `json:"userPoolClientId"`
	Region           string `json:"region"`
	IdentityPoolID   string `json:"identityPoolId"`
}

// BedrockAgentSettings holds the Bedrock agent connection parameters.
// It is the active agent configuration while the Lambda agent is disabled.
type BedrockAgentSettings struct {
	Name         string `json:"name,omitempty"`
	AgentID      string `json:"agentId"`
	AgentAliasID string `json:"agentAliasId"`
	Region       string `json:"region"`
}

// LambdaAgentSettings holds the Lambda-backed agent connection parameters.
// RegionLocked records that Region was derived from FunctionARN and that the
// manual region input must be rendered read-only.
type LambdaAgentSettings struct {
	Enabled      bool   `json:"enabled"`
	FunctionARN  string `json:"functionArn"`
	Name         string `json:"name"`
	Region       string `json:"region"`
	RegionLocked bool   `json:"regionLocked"`
}

// AppConfig is the full connection configuration persisted by the client.
// LambdaAgent is a pointer so a document stored before the Lambda agent
// existed decodes as nil and can be back-filled on load.
type AppConfig struct {
	Cognito      CognitoSettings      `json:"cognito"`
	BedrockAgent BedrockAgentSettings `json:"bedrockAgent"`
	LambdaAgent  *LambdaAgentSettings `json:"lambdaAgent,omitempty"`
}

// ValidationErrors maps a dotted field path (e.g. "cognito.userPoolId") to a
// human-readable message. An empty map means the configuration is valid.
type ValidationErrors map[string]string

// DefaultLambdaAgent returns the Lambda agent settings used when none are stored.
func DefaultLambdaAgent() *LambdaAgentSettings {
	return &LambdaAgentSettings{
		Enabled: false,
		Name:    DefaultLambdaAgentName,
	}
}

// DefaultConfig returns an empty configuration with defaulted sub-records.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		LambdaAgent: DefaultLambdaAgent(),
	}
}

// ActiveAgentName returns the display name of the active agent configuration.
func (c *AppConfig) ActiveAgentName() string {
	if c.LambdaAgent != nil && c.LambdaAgent.Enabled {
		if c.LambdaAgent.Name != "" {
			return c.LambdaAgent.Name
		}
		return DefaultLambdaAgentName
	}
	if c.BedrockAgent.Name != "" {
		return c.BedrockAgent.Name
	}
	return "Bedrock Agent"
}

// Clone returns a deep copy of the configuration.
func (c *AppConfig) Clone() *AppConfig {
	out := *c
	if c.LambdaAgent != nil {
		la := *c.LambdaAgent
		out.LambdaAgent = &la
	}
	return &out
}
