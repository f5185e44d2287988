package s3

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"depfetch/shared/config"
	"depfetch/shared/observability"
	"depfetch/shared/storage/types"
)

// PutObjectAPI is the subset of the S3 client used by the sink
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Client implements FileStorage for AWS S3. Keys are destination paths.
type Client struct {
	api     PutObjectAPI
	bucket  string
	logger  observability.Logger
	metrics observability.Metrics
}

// NewClient creates a new S3 storage client from configuration
func NewClient(ctx context.Context, cfg config.S3Config, logger observability.Logger, metrics observability.Metrics) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("invalid S3 configuration: bucket is required")
	}

	awsCfg, err := buildAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewClientWithAPI(s3Client, cfg.Bucket, logger, metrics), nil
}

// NewClientWithAPI wraps an existing S3 API implementation
func NewClientWithAPI(api PutObjectAPI, bucket string, logger observability.Logger, metrics observability.Metrics) *Client {
	return &Client{
		api:     api,
		bucket:  bucket,
		logger:  logger.WithFields(observability.Fields{"storage": "s3", "bucket": bucket}),
		metrics: metrics,
	}
}

func buildAWSConfig(ctx context.Context, cfg config.S3Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	// Static credentials win over the default chain when both parts are set
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

// Put buffers reader and uploads it as a single object. S3 objects appear
// atomically, so a failed read or upload leaves any previous object in place.
func (c *Client) Put(ctx context.Context, key string, reader io.Reader, metadata types.ObjectMetadata) (int64, error) {
	key = objectKey(key)
	if key == "" {
		return 0, types.ErrEmptyKey
	}

	start := time.Now()
	c.metrics.StartOperation("storage_put")
	defer c.metrics.EndOperation("storage_put")

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, reader); err != nil {
		c.metrics.RecordError("storage_put", "read")
		return 0, fmt.Errorf("failed to read content: %w", err)
	}

	sum := sha256.Sum256(buf.Bytes())

	userMetadata := map[string]string{
		"sha256": hex.EncodeToString(sum[:]),
	}
	if metadata.SourceURL != "" {
		userMetadata["source-url"] = metadata.SourceURL
	}
	for k, v := range metadata.UserMetadata {
		userMetadata[k] = v
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		Metadata:      userMetadata,
	}
	if metadata.ContentType != "" {
		input.ContentType = aws.String(metadata.ContentType)
	}

	if _, err := c.api.PutObject(ctx, input); err != nil {
		c.metrics.RecordError("storage_put", "put_object")
		c.logger.Error(ctx, "failed to put object", err, observability.Fields{
			"key": key,
		})
		return 0, fmt.Errorf("failed to put object: %w", err)
	}

	c.metrics.RecordSuccess("storage_put")
	c.metrics.RecordDuration("storage_put", time.Since(start).Seconds())
	c.logger.Debug(ctx, "object stored successfully", observability.Fields{
		"key":  key,
		"size": buf.Len(),
	})

	return int64(buf.Len()), nil
}

// Location returns the s3:// URI for key
func (c *Client) Location(key string) string {
	return fmt.Sprintf("s3://%s/%s", c.bucket, objectKey(key))
}

// objectKey normalises a destination path into an S3 key
func objectKey(key string) string {
	key = strings.ReplaceAll(key, "\\", "/")
	if key == "" {
		return ""
	}
	key = path.Clean("/" + key)
	return strings.TrimPrefix(key, "/")
}
