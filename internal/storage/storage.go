package storage

import (
	"context"
	"errors"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/encryption"
)

// ErrNotFound is returned by Read when no configuration has been stored yet.
var ErrNotFound = errors.New("configuration not found")

// Storage persists the serialized configuration document. Writes replace the
// whole document; there are no partial updates.
type Storage interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	SetEncryptor(encryptor Encryptor)
}

// Encryptor seals and opens stored payloads.
type Encryptor = encryption.Encryptor

// isEncryptedData reports whether data looks like a serialized encryption
// envelope: two little-endian length prefixes whose values account for the
// rest of the payload, with a KMS-sized encrypted data key.
func isEncryptedData(data []byte) bool {
	if len(data) < 8 {
		return false
	}

	encKeyLen := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
	dataLen := uint32(data[4]) | uint32(data[5])<<8 | uint32(data[6])<<16 | uint32(data[7])<<24

	// KMS-encrypted AES-256 data keys land in the 100-1000 byte range.
	if encKeyLen < 50 || encKeyLen > 2000 {
		return false
	}

	return uint64(len(data)) == 8+uint64(encKeyLen)+uint64(dataLen)
}

// decryptIfNeeded opens data when it sniffs as an envelope and an encryptor
// is available; otherwise it returns data unchanged.
func decryptIfNeeded(ctx context.Context, encryptor Encryptor, data []byte) ([]byte, error) {
	if encryptor == nil || !isEncryptedData(data) {
		return data, nil
	}

	envelope, err := encryption.DeserializeEncryptedData(data)
	if err != nil {
		return nil, err
	}
	return encryptor.Decrypt(ctx, envelope)
}

// encryptIfNeeded seals data when an encryptor is configured.
func encryptIfNeeded(ctx context.Context, encryptor Encryptor, data []byte) ([]byte, error) {
	if encryptor == nil {
		return data, nil
	}

	envelope, err := encryptor.Encrypt(ctx, data)
	if err != nil {
		return nil, err
	}
	return encryption.SerializeEncryptedData(envelope)
}
