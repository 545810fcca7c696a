package encryption

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/kms"
)

// EncryptedData represents an envelope-encrypted payload: the KMS-encrypted
// data key alongside the AES-GCM ciphertext it unlocks.
type EncryptedData struct {
	EncryptedDataKey []byte
	EncryptedData    []byte
}

// Encryptor encrypts and decrypts persisted payloads.
type Encryptor interface {
	// Encrypt seals data under a data key, generating one if needed.
	Encrypt(ctx context.Context, data []byte) (*EncryptedData, error)

	// Decrypt opens an envelope produced by Encrypt.
	Decrypt(ctx context.Context, encryptedData *EncryptedData) ([]byte, error)

	// GenerateDataKey requests a fresh data key from KMS.
	GenerateDataKey(ctx context.Context) (*kms.GenerateDataKeyOutput, error)
}
