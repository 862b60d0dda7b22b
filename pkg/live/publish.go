package live

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Publisher stores rendered pages.
type Publisher interface {
	// Publish stores body under name and returns its location.
	Publish(ctx context.Context, name string, body []byte) (string, error)
}

// ObjectPutter is the subset of *s3.Client used by S3Publisher.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher stores pages as objects in an S3 bucket.
//
// Example usage:
//
//	client := live.NewS3Client("us-east-1", "")
//	pub := live.NewS3Publisher(client, "my-bucket", "snapshots/")
//	session := live.New(live.WithPublisher(pub))
type S3Publisher struct {
	client       ObjectPutter
	bucket       string
	prefix       string
	cacheControl string
}

// NewS3Publisher creates a publisher writing under prefix in bucket.
func NewS3Publisher(client ObjectPutter, bucket, prefix string) *S3Publisher {
	return &S3Publisher{
		client:       client,
		bucket:       bucket,
		prefix:       prefix,
		cacheControl: "no-cache",
	}
}

// WithCacheControl sets the Cache-Control header of published objects.
func (p *S3Publisher) WithCacheControl(v string) *S3Publisher {
	p.cacheControl = v
	return p
}

// Publish implements Publisher.
func (p *S3Publisher) Publish(ctx context.Context, name string, body []byte) (string, error) {
	key := path.Join(p.prefix, name)
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String("text/html; charset=utf-8"),
		CacheControl: aws.String(p.cacheControl),
		Metadata: map[string]string{
			"published-at": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3 publish failed: %w", err)
	}
	return "s3://" + p.bucket + "/" + key, nil
}

// NewS3Client creates an S3 client for region using credentials from the
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN
// environment variables. A non-empty endpoint selects an S3-compatible
// service with path-style addressing.
func NewS3Client(region, endpoint string) *s3.Client {
	opts := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}

// ParseS3URL splits "s3://bucket/prefix" into bucket and prefix.
func ParseS3URL(raw string) (bucket, prefix string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("%q is not an s3://bucket/prefix URL", raw)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}
