package output

import (
	"bytes"
	"context"
	stderrors "errors"
	"net"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/matzehuels/webern/pkg/cache"
	"github.com/matzehuels/webern/pkg/errors"
)

// DefaultRegion is used when neither options nor the environment name one.
const DefaultRegion = "us-east-1"

// S3Options configures an S3-compatible store (AWS S3 or MinIO).
type S3Options struct {
	Bucket    string
	Prefix    string // key prefix, without leading or trailing slash
	Region    string
	Endpoint  string // optional custom endpoint, e.g. http://localhost:9000
	PathStyle bool

	// Static credentials. When empty the default AWS credential chain is used.
	AccessKeyID     string
	SecretAccessKey string

	// Retry governs uploads that fail transiently. Zero means
	// cache.DefaultBackoff.
	Retry cache.Backoff

	// ClientOptions are applied to the S3 client after the options above.
	ClientOptions []func(*s3.Options)
}

// S3Store uploads artifacts as objects under a key prefix.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
	retry  cache.Backoff
}

// ParseS3URL splits s3://bucket/prefix into its parts.
func ParseS3URL(raw string) (bucket, prefix string, err error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", errors.New(errors.ErrCodeInvalidPath, "invalid S3 location %q (want s3://bucket/prefix)", raw)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

// NewS3Store loads the AWS configuration and builds a client.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "s3 bucket required")
	}
	region := opts.Region
	if region == "" {
		region = DefaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Put retries with its own backoff; the SDK sends each attempt once.
		o.Retryer = aws.NopRetryer{}
		if opts.PathStyle {
			o.UsePathStyle = true
		}
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		for _, fn := range opts.ClientOptions {
			fn(o)
		}
	})
	retry := opts.Retry
	if retry.Attempts == 0 {
		retry = cache.DefaultBackoff
	}
	return &S3Store{client: client, bucket: opts.Bucket, prefix: strings.Trim(opts.Prefix, "/"), retry: retry}, nil
}

// Key returns the object key for name.
func (s *S3Store) Key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Put uploads data, retrying transient failures. It returns the s3:// URL
// of the object.
func (s *S3Store) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := errors.ValidateFilename(name); err != nil {
		return "", err
	}
	key := s.Key(name)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	err := s.retry.Do(ctx, func() error {
		input.Body = bytes.NewReader(data)
		_, err := s.client.PutObject(ctx, input)
		return classify(err)
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "put s3://%s/%s", s.bucket, key)
	}
	return "s3://" + s.bucket + "/" + key, nil
}

// statusCoder is implemented by SDK response errors.
type statusCoder interface {
	HTTPStatusCode() int
}

// classify marks network failures, throttling and 5xx responses retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var sc statusCoder
	if stderrors.As(err, &sc) {
		if code := sc.HTTPStatusCode(); code >= 500 || code == 429 {
			return cache.Retryable(err)
		}
		return err
	}
	var ne net.Error
	if stderrors.As(err, &ne) {
		return cache.Retryable(err)
	}
	return err
}
