package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pilcrow-ai/pilcrow/internal/domain"
)

// ArchiveClientConfig holds configuration for ArchiveClient
type ArchiveClientConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
}

// ArchiveClient stores raw uploaded documents in S3-compatible storage
// (e.g., MinIO, RustFS). The vector store remains the source of truth;
// the archive exists for reprocessing and audit.
type ArchiveClient struct {
	client *s3.Client
	bucket string
}

// NewArchiveClient creates a new ArchiveClient with the given configuration
func NewArchiveClient(ctx context.Context, cfg ArchiveClientConfig) (*ArchiveClient, error) {
	// Create custom resolver for S3-compatible endpoints
	customResolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if cfg.Endpoint != "" {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					HostnameImmutable: true,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		},
	)

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Path-style addressing for S3-compatible services
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &ArchiveClient{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// ArchiveKey returns the object key for a document: content-addressed
// within the tenant prefix, so re-uploading identical bytes overwrites
// the same object.
func ArchiveKey(scope domain.TenantScope, content []byte) string {
	sum := sha256.Sum256(content)
	return fmt.Sprintf("%s/%s/%s.pdf", scope.UserID, scope.ProductID, hex.EncodeToString(sum[:]))
}

// ArchivePDF uploads the raw PDF bytes and returns the object key.
func (c *ArchiveClient) ArchivePDF(ctx context.Context, scope domain.TenantScope, content []byte) (string, error) {
	key := ArchiveKey(scope, content)

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive document: %w", err)
	}

	return key, nil
}

// DeleteObject removes an archived document
func (c *ArchiveClient) DeleteObject(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (c *ArchiveClient) EnsureBucket(ctx context.Context) error {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = c.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}
