package settings

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/storage"
	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/pkg/types"
)

// memStore is an in-memory Storage for tests.
type memStore struct {
	data   []byte
	writes int
}

func (s *memStore) Read(ctx context.Context) ([]byte, error) {
	if s.data == nil {
		return nil, storage.ErrNotFound
	}
	return s.data, nil
}

func (s *memStore) Write(ctx context.Context, data []byte) error {
	s.data = append([]byte(nil), data...)
	s.writes++
	return nil
}

func (s *memStore) SetEncryptor(encryptor storage.Encryptor) {}

// recordingApplier records identity configurations applied to the SDK.
type recordingApplier struct {
	applied []types.CognitoSettings
}

func (a *recordingApplier) Apply(ctx context.Context, settings types.CognitoSettings) error {
	a.applied = append(a.applied, settings)
	return nil
}

func storedJSON(t *testing.T, cfg any) []byte {
	t.Helper()
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	return data
}

func TestLoadNoStoredConfiguration(t *testing.T) {
	store := &memStore{}
	mgr := NewManager(store, &recordingApplier{})

	found, err := mgr.Load(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, mgr.Editing())
	assert.Equal(t, types.DefaultConfig(), mgr.Config())
}

func TestLoadAppliesWhenNotEditing(t *testing.T) {
	store := &memStore{data: storedJSON(t, validBedrockConfig())}
	applier := &recordingApplier{}
	saved := 0
	mgr := NewManager(store, applier)
	mgr.OnSaved = func() { saved++ }

	found, err := mgr.Load(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, mgr.Editing())
	require.Len(t, applier.applied, 1)
	assert.Equal(t, "us-west-2_abc123", applier.applied[0].UserPoolID)
	assert.Equal(t, 1, saved)
}

func TestLoadPopulatesFormWhenEditing(t *testing.T) {
	store := &memStore{data: storedJSON(t, validBedrockConfig())}
	applier := &recordingApplier{}
	mgr := NewManager(store, applier)

	found, err := mgr.Load(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, mgr.Editing())
	assert.Empty(t, applier.applied)
	assert.Equal(t, "AGENT123", mgr.Config().BedrockAgent.AgentID)
}

func TestLoadBackfillsLegacyDocument(t *testing.T) {
	// A document stored before the Lambda agent existed.
	legacy := map[string]any{
		"cognito": types.CognitoSettings{
			UserPoolID:       "pool",
			UserPoolClientID: "client",
			Region:           "us-east-1",
			IdentityPoolID:   "identity",
		},
		"bedrockAgent": types.BedrockAgentSettings{
			AgentID:      "A",
			AgentAliasID: "B",
			Region:       "us-east-1",
		},
	}
	store := &memStore{data: storedJSON(t, legacy)}
	mgr := NewManager(store, &recordingApplier{})

	_, err := mgr.Load(context.Background(), true)
	require.NoError(t, err)

	la := mgr.Config().LambdaAgent
	require.NotNil(t, la)
	assert.False(t, la.Enabled)
	assert.Equal(t, types.DefaultLambdaAgentName, la.Name)
}

func TestLoadToleratesMalformedDocument(t *testing.T) {
	store := &memStore{data: []byte("{not json")}
	applier := &recordingApplier{}
	mgr := NewManager(store, applier)

	found, err := mgr.Load(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, mgr.Editing())
	assert.Empty(t, applier.applied)
	assert.Equal(t, types.DefaultConfig(), mgr.Config())
}

func TestUpdateFieldDerivesLambdaRegion(t *testing.T) {
	mgr := NewManager(&memStore{}, &recordingApplier{})
	mgr.SelectLambdaAgent(true)

	require.NoError(t, mgr.UpdateField("lambdaAgent", "functionArn", "arn:aws:lambda:us-west-2:123456789012:function:foo"))

	la := mgr.Config().LambdaAgent
	assert.Equal(t, "us-west-2", la.Region)
	assert.True(t, la.RegionLocked)

	// The manual input is read-only while the region is derived.
	err := mgr.UpdateField("lambdaAgent", "region", "eu-west-1")
	assert.Error(t, err)
	assert.Equal(t, "us-west-2", mgr.Config().LambdaAgent.Region)
}

func TestUpdateFieldLeavesRegionOnUnrecognizedARN(t *testing.T) {
	mgr := NewManager(&memStore{}, &recordingApplier{})
	mgr.SelectLambdaAgent(true)
	require.NoError(t, mgr.UpdateField("lambdaAgent", "region", "eu-central-1"))

	require.NoError(t, mgr.UpdateField("lambdaAgent", "functionArn", "not-an-arn"))

	la := mgr.Config().LambdaAgent
	assert.Equal(t, "eu-central-1", la.Region)
	assert.False(t, la.RegionLocked)

	// Still editable.
	require.NoError(t, mgr.UpdateField("lambdaAgent", "region", "ap-northeast-1"))
	assert.Equal(t, "ap-northeast-1", mgr.Config().LambdaAgent.Region)
}

func TestUpdateFieldClearsFieldError(t *testing.T) {
	mgr := NewManager(&memStore{}, &recordingApplier{})
	require.False(t, mgr.Validate())
	require.Contains(t, mgr.Errors(), "cognito.userPoolId")

	require.NoError(t, mgr.UpdateField("cognito", "userPoolId", "pool"))

	errs := mgr.Errors()
	assert.NotContains(t, errs, "cognito.userPoolId")
	// Other errors stay until the next full validation.
	assert.Contains(t, errs, "cognito.region")
}

func TestUpdateFieldUnknownField(t *testing.T) {
	mgr := NewManager(&memStore{}, &recordingApplier{})
	assert.Error(t, mgr.UpdateField("cognito", "nope", "x"))
}

func TestSaveRoundTrip(t *testing.T) {
	store := &memStore{}
	applier := &recordingApplier{}
	saved := 0
	editStates := []bool{}
	mgr := NewManager(store, applier)
	mgr.OnSaved = func() { saved++ }
	mgr.SetEditing = func(editing bool) { editStates = append(editStates, editing) }

	want := validBedrockConfig()
	require.NoError(t, mgr.UpdateField("cognito", "userPoolId", want.Cognito.UserPoolID))
	require.NoError(t, mgr.UpdateField("cognito", "userPoolClientId", want.Cognito.UserPoolClientID))
	require.NoError(t, mgr.UpdateField("cognito", "region", want.Cognito.Region))
	require.NoError(t, mgr.UpdateField("cognito", "identityPoolId", want.Cognito.IdentityPoolID))
	require.NoError(t, mgr.UpdateField("bedrockAgent", "agentId", want.BedrockAgent.AgentID))
	require.NoError(t, mgr.UpdateField("bedrockAgent", "agentAliasId", want.BedrockAgent.AgentAliasID))
	require.NoError(t, mgr.UpdateField("bedrockAgent", "region", want.BedrockAgent.Region))

	ok, err := mgr.Save(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, saved)
	assert.Len(t, applier.applied, 1)
	assert.Equal(t, []bool{false}, editStates)

	// Loading the persisted document back yields an equal record.
	mgr2 := NewManager(store, &recordingApplier{})
	_, err = mgr2.Load(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, want, mgr2.Config())
}

func TestSaveInvalidPersistsNothing(t *testing.T) {
	store := &memStore{}
	applier := &recordingApplier{}
	saved := 0
	mgr := NewManager(store, applier)
	mgr.OnSaved = func() { saved++ }

	ok, err := mgr.Save(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, store.writes)
	assert.Empty(t, applier.applied)
	assert.Zero(t, saved)
	assert.NotEmpty(t, mgr.Errors())
}

func TestCancelNeverWrites(t *testing.T) {
	store := &memStore{}
	mgr := NewManager(store, &recordingApplier{})
	mgr.BeginEditing()

	require.NoError(t, mgr.UpdateField("cognito", "userPoolId", "edited"))
	mgr.Cancel()

	assert.False(t, mgr.Editing())
	assert.Zero(t, store.writes)
}
