package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/storage"
)

// StorageInfo describes a parsed storage URI.
type StorageInfo struct {
	StorageType string // "s3" or "file"
	Bucket      string // bucket name for S3
	Path        string // file path or object key
}

// ParseStorageURI parses a file:// or s3:// configuration URI.
func ParseStorageURI(uri string) (*StorageInfo, error) {
	if uri == "" {
		return nil, fmt.Errorf("URI is not specified")
	}

	if strings.HasPrefix(uri, "s3://") {
		// S3 URI (s3://bucket/prefix/config.json)
		uri = strings.TrimPrefix(uri, "s3://")
		parts := strings.SplitN(uri, "/", 2)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid S3 URI format: %s", uri)
		}
		return &StorageInfo{
			StorageType: "s3",
			Bucket:      parts[0],
			Path:        parts[1],
		}, nil
	} else if strings.HasPrefix(uri, "file://") {
		// File URI (file:///path/to/config.json)
		return &StorageInfo{
			StorageType: "file",
			Path:        strings.TrimPrefix(uri, "file://"),
		}, nil
	}

	return nil, fmt.Errorf("invalid URI format: %s", uri)
}

// DefaultStorageURI returns the default location of the persisted
// configuration under the user's config directory.
func DefaultStorageURI() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return "file://" + filepath.Join(dir, "bedrock-chat", "config.json")
}

// OpenStorage constructs the storage backend named by uri.
func OpenStorage(ctx context.Context, uri string) (storage.Storage, error) {
	info, err := ParseStorageURI(uri)
	if err != nil {
		return nil, err
	}

	switch info.StorageType {
	case "s3":
		store, err := storage.NewS3Storage(ctx, info.Bucket, info.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		return store, nil
	case "file":
		store, err := storage.NewLocalStorage(info.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("invalid storage type: %s", info.StorageType)
}
