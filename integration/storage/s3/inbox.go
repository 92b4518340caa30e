package s3

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client is the subset of the AWS S3 API the inbox uses. Tests inject
// mocks via WithClient.
type Client interface {
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3aws.HeadObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3aws.ListObjectsV2Input, optFns ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, params *s3aws.DeleteObjectsInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectsOutput, error)
}

// Config contains S3 inbox settings with environment defaults. Static
// credentials are optional; the SDK falls back to IAM roles or the
// standard environment chain when they are empty.
type Config struct {
	Bucket         string `env:"S3_BUCKET,required"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
	KeyPrefix      string `env:"S3_INBOX_PREFIX" envDefault:"inbox"`
}

// Inbox stores per-job uploaded files under <prefix>/<job_id>/<name>.
type Inbox struct {
	client        Client
	bucket        string
	prefix        string
	uploadTimeout time.Duration
}

// Option configures an Inbox.
type Option func(*inboxOptions)

type inboxOptions struct {
	client        Client
	httpClient    *http.Client
	uploadTimeout time.Duration
}

// WithClient sets a pre-configured S3 client, bypassing AWS config
// loading. Primarily for tests.
func WithClient(client Client) Option {
	return func(o *inboxOptions) {
		o.client = client
	}
}

// WithHTTPClient sets a custom HTTP client for SDK requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *inboxOptions) {
		o.httpClient = client
	}
}

// WithUploadTimeout bounds each upload. Zero relies on the caller's
// context deadline.
func WithUploadTimeout(timeout time.Duration) Option {
	return func(o *inboxOptions) {
		o.uploadTimeout = timeout
	}
}

// New creates an inbox over the configured bucket.
func New(ctx context.Context, cfg Config, opts ...Option) (*Inbox, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	options := &inboxOptions{}
	for _, opt := range opts {
		opt(options)
	}

	client := options.client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID, cfg.SecretKey, "")))
		}
		if options.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(options.httpClient))
		}

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client = s3aws.NewFromConfig(awsConfig, func(o *s3aws.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	prefix := strings.Trim(cfg.KeyPrefix, "/")
	if prefix == "" {
		prefix = "inbox"
	}

	return &Inbox{
		client:        client,
		bucket:        cfg.Bucket,
		prefix:        prefix,
		uploadTimeout: options.uploadTimeout,
	}, nil
}

// objectKey builds the full key for a job file, rejecting traversal
// attempts and empty names.
func (i *Inbox) objectKey(jobID, name string) (string, error) {
	if jobID == "" {
		return "", ErrEmptyJobID
	}
	name = strings.TrimPrefix(name, "/")
	if name == "" || strings.Contains(name, "..") || strings.Contains(jobID, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, name)
	}
	return path.Join(i.prefix, jobID, name), nil
}

// jobPrefix is the key prefix holding every file of one job.
func (i *Inbox) jobPrefix(jobID string) string {
	return i.prefix + "/" + jobID + "/"
}

// Upload stores one file for a job and returns its object key. The key
// is what gets attached to the queue item's FilesInbox.
func (i *Inbox) Upload(ctx context.Context, jobID, name string, body io.Reader, contentType string) (string, error) {
	if i.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.uploadTimeout)
		defer cancel()
	}

	key, err := i.objectKey(jobID, name)
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = i.client.PutObject(ctx, &s3aws.PutObjectInput{
		Bucket:      aws.String(i.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", classifyError(err, "upload")
	}
	return key, nil
}

// Fetch reads the object stored under key. The caller must close the
// returned reader.
func (i *Inbox) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" || strings.Contains(key, "..") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	out, err := i.client.GetObject(ctx, &s3aws.GetObjectInput{
		Bucket: aws.String(i.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyError(err, "fetch")
	}
	return out.Body, nil
}

// Exists reports whether an object is stored under key.
func (i *Inbox) Exists(ctx context.Context, key string) bool {
	if key == "" || strings.Contains(key, "..") {
		return false
	}

	_, err := i.client.HeadObject(ctx, &s3aws.HeadObjectInput{
		Bucket: aws.String(i.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

// List returns the object keys of every file uploaded for a job.
func (i *Inbox) List(ctx context.Context, jobID string) ([]string, error) {
	if jobID == "" {
		return nil, ErrEmptyJobID
	}

	var keys []string
	var continuation *string
	for {
		out, err := i.client.ListObjectsV2(ctx, &s3aws.ListObjectsV2Input{
			Bucket:            aws.String(i.bucket),
			Prefix:            aws.String(i.jobPrefix(jobID)),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, classifyError(err, "list")
		}
		for _, obj := range out.Contents {
			keys = append(keys, *obj.Key)
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuation = out.NextContinuationToken
	}
	return keys, nil
}

// Purge deletes every file uploaded for a job. Purging a job with no
// files is a no-op.
func (i *Inbox) Purge(ctx context.Context, jobID string) error {
	keys, err := i.List(ctx, jobID)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	// S3 caps batch deletes at 1000 objects.
	const batchSize = 1000
	for start := 0; start < len(keys); start += batchSize {
		end := start + batchSize
		if end > len(keys) {
			end = len(keys)
		}

		objects := make([]types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
		}

		_, err := i.client.DeleteObjects(ctx, &s3aws.DeleteObjectsInput{
			Bucket: aws.String(i.bucket),
			Delete: &types.Delete{Objects: objects},
		})
		if err != nil {
			return classifyError(err, "purge")
		}
	}
	return nil
}
