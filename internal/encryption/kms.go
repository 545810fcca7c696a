package encryption

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	kmstypes "github.com/aws/aws-sdk-go-v2/service/kms/types"
)

// KMSEncryptor implements Encryptor using KMS-generated data keys and
// AES-256-GCM for the payload itself.
type KMSEncryptor struct {
	kmsClient *kms.Client
	keyID     string
}

// NewKMSEncryptor creates a new KMSEncryptor for the given key and region.
func NewKMSEncryptor(ctx context.Context, keyID string, region string) (*KMSEncryptor, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	client := kms.NewFromConfig(cfg, func(o *kms.Options) {
		if region != "" {
			o.Region = region
		}
	})

	return &KMSEncryptor{
		kmsClient: client,
		keyID:     keyID,
	}, nil
}

// Encrypt seals data under a freshly generated data key.
func (e *KMSEncryptor) Encrypt(ctx context.Context, data []byte) (*EncryptedData, error) {
	dataKey, err := e.GenerateDataKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate data key: %w", err)
	}

	block, err := aes.NewCipher(dataKey.Plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AES cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCM mode: %w", err)
	}

	iv := make([]byte, aesGCM.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	// IV is prepended to the ciphertext, as Decrypt expects.
	ciphertext := aesGCM.Seal(iv, iv, data, nil)

	return &EncryptedData{
		EncryptedDataKey: dataKey.CiphertextBlob,
		EncryptedData:    ciphertext,
	}, nil
}

// Decrypt opens an envelope by recovering its data key through KMS.
func (e *KMSEncryptor) Decrypt(ctx context.Context, encryptedData *EncryptedData) ([]byte, error) {
	decryptOutput, err := e.kmsClient.Decrypt(ctx, &kms.DecryptInput{
		KeyId:          aws.String(e.keyID),
		CiphertextBlob: encryptedData.EncryptedDataKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt data key: %w", err)
	}

	block, err := aes.NewCipher(decryptOutput.Plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AES cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCM mode: %w", err)
	}

	if len(encryptedData.EncryptedData) < aesGCM.NonceSize() {
		return nil, fmt.Errorf("encrypted data is malformed")
	}
	iv := encryptedData.EncryptedData[:aesGCM.NonceSize()]
	ciphertext := encryptedData.EncryptedData[aesGCM.NonceSize():]

	plaintext, err := aesGCM.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt data: %w", err)
	}

	return plaintext, nil
}

// GenerateDataKey requests a fresh AES-256 data key from KMS.
func (e *KMSEncryptor) GenerateDataKey(ctx context.Context) (*kms.GenerateDataKeyOutput, error) {
	output, err := e.kmsClient.GenerateDataKey(ctx, &kms.GenerateDataKeyInput{
		KeyId:   aws.String(e.keyID),
		KeySpec: kmstypes.DataKeySpecAes256,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate data key: %w", err)
	}
	return output, nil
}
