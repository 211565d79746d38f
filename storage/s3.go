package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/ruteri/domain-resolution/interfaces"
)

// S3Backend reads mirrored website content from an S3 or S3-compatible bucket.
// Objects are keyed by content hash under an optional prefix.
type S3Backend struct {
	client     s3iface.S3API
	bucketName string
	prefix     string
	log        *slog.Logger
}

// NewS3Backend creates a read-only backend for a public bucket.
func NewS3Backend(bucketName, prefix, region, endpoint string, log *slog.Logger) (*S3Backend, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("s3 bucket name is required")
	}

	cfg := aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.AnonymousCredentials,
	}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return newS3Backend(s3.New(sess), bucketName, prefix, log), nil
}

func newS3Backend(client s3iface.S3API, bucketName, prefix string, log *slog.Logger) *S3Backend {
	return &S3Backend{
		client:     client,
		bucketName: bucketName,
		prefix:     strings.Trim(prefix, "/"),
		log:        log,
	}
}

// Fetch retrieves the object stored under hash.
func (b *S3Backend) Fetch(ctx context.Context, hash string) ([]byte, error) {
	start := time.Now()
	key := b.objectKey(hash)

	result, err := b.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			b.log.Debug("Content not found in S3",
				slog.String("bucket", b.bucketName),
				slog.String("key", key),
				slog.Duration("duration", time.Since(start)))
			return nil, interfaces.ErrContentNotFound
		}

		b.log.Error("Failed to get object from S3",
			slog.String("bucket", b.bucketName),
			slog.String("key", key),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	b.log.Debug("Fetched content from S3",
		slog.String("bucket", b.bucketName),
		slog.String("key", key),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

// Available checks the bucket is reachable.
func (b *S3Backend) Available(ctx context.Context) bool {
	_, err := b.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucketName),
	})
	if err != nil {
		b.log.Warn("S3 backend unavailable",
			slog.String("bucket", b.bucketName),
			"err", err)
		return false
	}
	return true
}

func (b *S3Backend) Name() string {
	return "s3-" + b.bucketName
}

func (b *S3Backend) objectKey(hash string) string {
	if b.prefix == "" {
		return hash
	}
	return path.Join(b.prefix, hash)
}

func isNoSuchKey(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		return aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound"
	}
	return strings.Contains(err.Error(), "NoSuchKey")
}
