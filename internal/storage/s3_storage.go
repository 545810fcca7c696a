package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Storage keeps the configuration document in a single S3 object, for
// configurations shared across machines.
type S3Storage struct {
	client    *s3.Client
	bucket    string
	key       string
	encryptor Encryptor
}

// NewS3Storage creates an S3Storage for the given bucket and object key.
// The client is pointed at the bucket's own region.
func NewS3Storage(ctx context.Context, bucket, key string) (*S3Storage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	client := s3.NewFromConfig(cfg)

	location, err := client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket location: %w", err)
	}

	// GetBucketLocation reports us-east-1 as an empty constraint.
	region := string(location.LocationConstraint)
	if region == "" {
		region = "us-east-1"
	}
	if client.Options().Region != region {
		client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.Region = region
		})
	}

	return &S3Storage{
		client: client,
		bucket: bucket,
		key:    key,
	}, nil
}

// Read loads the stored document, decrypting it when necessary.
func (s *S3Storage) Read(ctx context.Context) ([]byte, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var notFound *s3types.NoSuchKey
		if errors.As(err, &notFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get configuration object: %w", err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration object: %w", err)
	}

	plaintext, err := decryptIfNeeded(ctx, s.encryptor, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt configuration: %w", err)
	}
	return plaintext, nil
}

// Write replaces the stored document.
func (s *S3Storage) Write(ctx context.Context, data []byte) error {
	final, err := encryptIfNeeded(ctx, s.encryptor, data)
	if err != nil {
		return fmt.Errorf("failed to encrypt configuration: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Body:   bytes.NewReader(final),
	})
	if err != nil {
		return fmt.Errorf("failed to put configuration object: %w", err)
	}
	return nil
}

// Remove deletes the stored document.
func (s *S3Storage) Remove(ctx context.Context) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete configuration object: %w", err)
	}
	return nil
}

// SetEncryptor configures at-rest encryption for subsequent reads and writes.
func (s *S3Storage) SetEncryptor(encryptor Encryptor) {
	s.encryptor = encryptor
}
