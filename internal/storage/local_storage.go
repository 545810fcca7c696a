package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStorage keeps the configuration document in a single file on the
// local filesystem.
type LocalStorage struct {
	path      string
	encryptor Encryptor
}

// NewLocalStorage creates a LocalStorage writing to the given file path.
func NewLocalStorage(path string) (*LocalStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is not specified")
	}
	return &LocalStorage{path: path}, nil
}

// Read loads the stored document, decrypting it when necessary.
func (s *LocalStorage) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	plaintext, err := decryptIfNeeded(ctx, s.encryptor, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt configuration: %w", err)
	}
	return plaintext, nil
}

// Write replaces the stored document, creating parent directories as needed.
func (s *LocalStorage) Write(ctx context.Context, data []byte) error {
	final, err := encryptIfNeeded(ctx, s.encryptor, data)
	if err != nil {
		return fmt.Errorf("failed to encrypt configuration: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(s.path, final, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}

// Remove deletes the stored document. Missing files are not an error.
func (s *LocalStorage) Remove(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove configuration file: %w", err)
	}
	return nil
}

// SetEncryptor configures at-rest encryption for subsequent reads and writes.
func (s *LocalStorage) SetEncryptor(encryptor Encryptor) {
	s.encryptor = encryptor
}
