// Package storage archives saved reconciliation reports to S3-compatible
// object storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/glowpos/backend/internal/domain/reconciliation"
	"github.com/glowpos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// objectAPI is the subset of the S3 client the archiver uses
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3ReportArchiver writes report snapshots as JSON objects
type S3ReportArchiver struct {
	client objectAPI
	bucket string
	logger *zap.Logger
}

// S3ReportArchiverOption is a functional option for configuring S3ReportArchiver
type S3ReportArchiverOption func(*S3ReportArchiver)

// WithLogger sets a custom logger for S3ReportArchiver
func WithLogger(logger *zap.Logger) S3ReportArchiverOption {
	return func(a *S3ReportArchiver) {
		a.logger = logger
	}
}

// NewS3ReportArchiver creates an archiver from configuration. An empty
// endpoint uses the AWS resolver; empty keys use the default credential chain.
func NewS3ReportArchiver(ctx context.Context, cfg *config.StorageConfig, opts ...S3ReportArchiverOption) (*S3ReportArchiver, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return newS3ReportArchiver(client, cfg.Bucket, opts...), nil
}

func newS3ReportArchiver(client objectAPI, bucket string, opts ...S3ReportArchiverOption) *S3ReportArchiver {
	a := &S3ReportArchiver{
		client: client,
		bucket: bucket,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ReportKey returns the object key of a report:
// reconciliation/<tenant>/<store>/<YYYY-MM-DD>/<id>.json
func ReportKey(r *reconciliation.Report) string {
	return fmt.Sprintf("reconciliation/%s/%s/%s/%s.json",
		r.TenantID, r.StoreID, r.ReportDate.Format("2006-01-02"), r.ID)
}

// Archive uploads the report and returns its object key
func (a *S3ReportArchiver) Archive(ctx context.Context, report *reconciliation.Report) (string, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	key := ReportKey(report)
	if _, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	a.logger.Debug("Report archived", zap.String("bucket", a.bucket), zap.String("key", key))
	return key, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (a *S3ReportArchiver) EnsureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	a.logger.Info("Creating storage bucket", zap.String("bucket", a.bucket))
	if _, err := a.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(a.bucket)}); err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

var _ reconciliation.Archiver = (*S3ReportArchiver)(nil)
