// Package s3 provides the blob-storage capability (image uploads) backed by
// the AWS S3 API or any S3-compatible endpoint.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dieselhub/dieselhub/pkg/observability/logger"
)

// Config defines S3 adapter configuration.
type Config struct {
	Bucket           string
	Region           string
	Endpoint         string
	AccessKeyID      string
	SecretAccessKey  string
	UsePathStyle     bool
	OperationTimeout time.Duration

	// PublicBaseURL, when set, is used to build returned object URLs
	// (e.g. a CDN origin). Defaults to the virtual-hosted bucket URL.
	PublicBaseURL string
}

type s3API interface {
	HeadBucket(ctx context.Context, params *awss3.HeadBucketInput, optFns ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error)
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

// Adapter provides object storage operations against one bucket.
type Adapter struct {
	client s3API
	logger logger.Logger
	config Config
}

// NewAdapter creates an S3 adapter and verifies bucket accessibility.
func NewAdapter(cfg Config, log logger.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3 bucket is required")
	}
	if strings.TrimSpace(cfg.Region) == "" {
		return nil, errors.New("aws region is required")
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 10 * time.Second
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" || cfg.SecretAccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	clientOptions := make([]func(*awss3.Options), 0, 2)
	if cfg.Endpoint != "" {
		clientOptions = append(clientOptions, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.UsePathStyle {
		clientOptions = append(clientOptions, func(o *awss3.Options) {
			o.UsePathStyle = true
		})
	}

	adapter := &Adapter{
		client: awss3.NewFromConfig(awsCfg, clientOptions...),
		logger: log,
		config: cfg,
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.OperationTimeout)
	defer cancel()
	if err := adapter.Ping(ctx); err != nil {
		return nil, err
	}

	log.Info("S3 adapter initialized", "bucket", cfg.Bucket, "region", cfg.Region)
	return adapter, nil
}

// Ping verifies that the configured bucket is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	_, err := a.client.HeadBucket(opCtx, &awss3.HeadBucketInput{Bucket: aws.String(a.config.Bucket)})
	if err != nil {
		return fmt.Errorf("s3 bucket %q is not accessible: %w", a.config.Bucket, err)
	}
	return nil
}

// Put stores bytes under the given key and returns the retrievable URL.
func (a *Adapter) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("object key is required")
	}

	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	input := &awss3.PutObjectInput{
		Bucket: aws.String(a.config.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := a.client.PutObject(opCtx, input); err != nil {
		a.logger.Error("failed to store object", "bucket", a.config.Bucket, "key", key, "error", err)
		return "", fmt.Errorf("failed to store object %q: %w", key, err)
	}
	return a.objectURL(key), nil
}

// Delete removes an object. Deleting an absent key succeeds.
func (a *Adapter) Delete(ctx context.Context, key string) error {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	_, err := a.client.DeleteObject(opCtx, &awss3.DeleteObjectInput{
		Bucket: aws.String(a.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	return nil
}

func (a *Adapter) objectURL(key string) string {
	if a.config.PublicBaseURL != "" {
		return strings.TrimRight(a.config.PublicBaseURL, "/") + "/" + key
	}
	if a.config.Endpoint != "" {
		return strings.TrimRight(a.config.Endpoint, "/") + "/" + a.config.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.config.Bucket, a.config.Region, key)
}

func (a *Adapter) withOperationTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.OperationTimeout <= 0 {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.config.OperationTimeout)
}
