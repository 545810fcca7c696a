package encryption

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// SerializeEncryptedData serializes an envelope to its binary form.
// Format: | 4 bytes | 4 bytes | N bytes       | M bytes    |
//
//	| DK len  | data len | encrypted DK  | ciphertext |
func SerializeEncryptedData(encryptedData *EncryptedData) ([]byte, error) {
	var buf bytes.Buffer

	encKeyLen := uint32(len(encryptedData.EncryptedDataKey))
	if err := binary.Write(&buf, binary.LittleEndian, encKeyLen); err != nil {
		return nil, fmt.Errorf("failed to write encrypted data key length: %w", err)
	}

	dataLen := uint32(len(encryptedData.EncryptedData))
	if err := binary.Write(&buf, binary.LittleEndian, dataLen); err != nil {
		return nil, fmt.Errorf("failed to write encrypted data length: %w", err)
	}

	if _, err := buf.Write(encryptedData.EncryptedDataKey); err != nil {
		return nil, fmt.Errorf("failed to write encrypted data key: %w", err)
	}

	if _, err := buf.Write(encryptedData.EncryptedData); err != nil {
		return nil, fmt.Errorf("failed to write encrypted data: %w", err)
	}

	return buf.Bytes(), nil
}

// DeserializeEncryptedData parses the binary form back into an envelope.
func DeserializeEncryptedData(data []byte) (*EncryptedData, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("data is too short: %d bytes", len(data))
	}

	buf := bytes.NewReader(data)

	var encKeyLen uint32
	if err := binary.Read(buf, binary.LittleEndian, &encKeyLen); err != nil {
		return nil, fmt.Errorf("failed to read encrypted data key length: %w", err)
	}

	var dataLen uint32
	if err := binary.Read(buf, binary.LittleEndian, &dataLen); err != nil {
		return nil, fmt.Errorf("failed to read encrypted data length: %w", err)
	}

	remaining := len(data) - 8
	if uint64(remaining) < uint64(encKeyLen)+uint64(dataLen) {
		return nil, fmt.Errorf("incomplete data: expected %d bytes, got %d bytes", encKeyLen+dataLen, remaining)
	}

	encryptedDataKey := make([]byte, encKeyLen)
	if _, err := buf.Read(encryptedDataKey); err != nil {
		return nil, fmt.Errorf("failed to read encrypted data key: %w", err)
	}

	encryptedData := make([]byte, dataLen)
	if _, err := buf.Read(encryptedData); err != nil {
		return nil, fmt.Errorf("failed to read encrypted data: %w", err)
	}

	return &EncryptedData{
		EncryptedDataKey: encryptedDataKey,
		EncryptedData:    encryptedData,
	}, nil
}
