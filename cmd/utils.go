package cmd

import (
	"context"
	"fmt"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/aws"
	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/encryption"
	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/settings"
	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/storage"
)

// newStorage opens the configuration storage named by the command's flags,
// wiring KMS encryption when a key is given.
func newStorage(ctx context.Context, opts StorageOptions) (storage.Storage, error) {
	uri := opts.ConfigURI
	if uri == "" {
		uri = settings.DefaultStorageURI()
	}

	info, err := settings.ParseStorageURI(uri)
	if err != nil {
		return nil, err
	}

	// Validate AWS credentials
	if info.StorageType == "s3" {
		if err := aws.ValidateAWSCredentials(ctx); err != nil {
			return nil, err
		}
	}

	store, err := settings.OpenStorage(ctx, uri)
	if err != nil {
		return nil, err
	}

	if opts.KMSKeyID != "" {
		encryptor, err := encryption.NewKMSEncryptor(ctx, opts.KMSKeyID, opts.KMSRegion)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize KMS encryption: %w", err)
		}
		store.SetEncryptor(encryptor)
	}
	return store, nil
}
