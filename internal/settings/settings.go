package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/storage"
	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/pkg/types"
)

// Applier establishes a validated identity configuration as the active one
// for subsequent authenticated calls.
type Applier interface {
	Apply(ctx context.Context, settings types.CognitoSettings) error
}

// Manager owns the in-memory configuration being edited, its validation
// errors, and the load/save lifecycle against persistent storage.
type Manager struct {
	store   storage.Storage
	applier Applier

	mu      sync.Mutex
	cfg     *types.AppConfig
	errs    types.ValidationErrors
	editing bool

	// Owner callbacks. OnSaved fires after a successful save (or after a
	// stored configuration is applied on load); SetEditing reports edit-mode
	// transitions to the owner. Either may be nil.
	OnSaved    func()
	SetEditing func(editing bool)
}

// NewManager creates a Manager with an empty default configuration.
func NewManager(store storage.Storage, applier Applier) *Manager {
	return &Manager{
		store:   store,
		applier: applier,
		cfg:     types.DefaultConfig(),
		errs:    make(types.ValidationErrors),
	}
}

// Load reads a previously persisted configuration. When none is stored, or
// the stored document cannot be decoded, the defaults stay in place and
// found is false. A stored document missing the Lambda agent sub-record is
// back-filled with defaults. When not editing,
// a found configuration is applied to the auth SDK immediately and OnSaved
// fires; when editing, it is populated into the form state instead.
func (m *Manager) Load(ctx context.Context, editing bool) (found bool, err error) {
	data, err := m.store.Read(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			m.setEditing(true)
			return false, nil
		}
		return false, fmt.Errorf("failed to load configuration: %w", err)
	}

	var cfg types.AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		// A document we cannot decode is treated like an absent one; the
		// user re-enters the configuration rather than being locked out.
		m.setEditing(true)
		return false, nil
	}
	if cfg.LambdaAgent == nil {
		cfg.LambdaAgent = types.DefaultLambdaAgent()
	}

	m.mu.Lock()
	m.cfg = &cfg
	m.errs = make(types.ValidationErrors)
	m.mu.Unlock()

	if editing {
		m.setEditing(true)
		return true, nil
	}

	if m.applier != nil {
		if err := m.applier.Apply(ctx, cfg.Cognito); err != nil {
			return true, fmt.Errorf("failed to apply configuration: %w", err)
		}
	}
	m.setEditing(false)
	if m.OnSaved != nil {
		m.OnSaved()
	}
	return true, nil
}

// UpdateField replaces one field of the in-memory configuration and clears
// that field's validation error. Updating the Lambda function ARN while the
// Lambda agent is enabled triggers the derived-region rule.
func (m *Manager) UpdateField(section, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := section + "." + field
	switch key {
	case "cognito.userPoolId":
		m.cfg.Cognito.UserPoolID = value
	case "cognito.userPoolClientId":
		m.cfg.Cognito.UserPoolClientID = value
	case "cognito.region":
		m.cfg.Cognito.Region = value
	case "cognito.identityPoolId":
		m.cfg.Cognito.IdentityPoolID = value
	case "bedrockAgent.name":
		m.cfg.BedrockAgent.Name = value
	case "bedrockAgent.agentId":
		m.cfg.BedrockAgent.AgentID = value
	case "bedrockAgent.agentAliasId":
		m.cfg.BedrockAgent.AgentAliasID = value
	case "bedrockAgent.region":
		m.cfg.BedrockAgent.Region = value
	case "lambdaAgent.name":
		m.lambdaAgent().Name = value
	case "lambdaAgent.functionArn":
		la := m.lambdaAgent()
		la.FunctionARN = value
		if la.Enabled {
			if region, ok := DeriveLambdaRegion(value); ok {
				la.Region = region
				la.RegionLocked = true
				delete(m.errs, "lambdaAgent.region")
			} else {
				la.RegionLocked = false
			}
		}
	case "lambdaAgent.region":
		la := m.lambdaAgent()
		if la.RegionLocked {
			return fmt.Errorf("lambda region is derived from the function ARN")
		}
		la.Region = value
	default:
		return fmt.Errorf("unknown configuration field: %s", key)
	}

	delete(m.errs, key)
	return nil
}

// SelectLambdaAgent flips the agent-type toggle between the Bedrock agent
// (false) and the Lambda agent (true).
func (m *Manager) SelectLambdaAgent(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lambdaAgent().Enabled = enabled
}

// Validate recomputes the full validation error mapping and reports whether
// the configuration is valid.
func (m *Manager) Validate() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = Validate(m.cfg)
	return len(m.errs) == 0
}

// Save validates and, on success, persists the configuration wholesale,
// applies it to the auth SDK, exits edit mode, and fires OnSaved once.
// On validation failure nothing is persisted or applied; the error mapping
// stays populated for display and ok is false.
func (m *Manager) Save(ctx context.Context) (ok bool, err error) {
	if !m.Validate() {
		return false, nil
	}

	m.mu.Lock()
	cfg := m.cfg.Clone()
	m.mu.Unlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := m.store.Write(ctx, data); err != nil {
		return false, fmt.Errorf("failed to save configuration: %w", err)
	}
	if m.applier != nil {
		if err := m.applier.Apply(ctx, cfg.Cognito); err != nil {
			return false, fmt.Errorf("failed to apply configuration: %w", err)
		}
	}

	m.setEditing(false)
	if m.OnSaved != nil {
		m.OnSaved()
	}
	return true, nil
}

// Cancel exits edit mode without validating or persisting.
func (m *Manager) Cancel() {
	m.setEditing(false)
}

// BeginEditing enters edit mode.
func (m *Manager) BeginEditing() {
	m.setEditing(true)
}

// Editing reports whether the form is in edit mode.
func (m *Manager) Editing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editing
}

// Config returns a copy of the in-memory configuration.
func (m *Manager) Config() *types.AppConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.Clone()
}

// Errors returns a copy of the current validation error mapping.
func (m *Manager) Errors() types.ValidationErrors {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(types.ValidationErrors, len(m.errs))
	for k, v := range m.errs {
		out[k] = v
	}
	return out
}

func (m *Manager) lambdaAgent() *types.LambdaAgentSettings {
	if m.cfg.LambdaAgent == nil {
		m.cfg.LambdaAgent = types.DefaultLambdaAgent()
	}
	return m.cfg.LambdaAgent
}

func (m *Manager) setEditing(editing bool) {
	m.mu.Lock()
	m.editing = editing
	m.mu.Unlock()
	if m.SetEditing != nil {
		m.SetEditing(editing)
	}
}
