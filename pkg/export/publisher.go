package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/ripple/internal/config"
	"github.com/vango-dev/ripple/internal/errors"
)

// Publisher stores one rendered document under key.
type Publisher interface {
	Publish(ctx context.Context, key string, html []byte) error
}

// DirPublisher writes documents below a local directory.
type DirPublisher struct {
	dir string
}

// NewDirPublisher creates a DirPublisher rooted at dir.
func NewDirPublisher(dir string) *DirPublisher {
	return &DirPublisher{dir: dir}
}

// Publish writes html to dir/key, creating parent directories. The file is
// written to a temporary name and renamed so readers never see a partial
// document.
func (p *DirPublisher) Publish(ctx context.Context, key string, html []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := p.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".ripple-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(html); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// path rejects keys that would escape the root.
func (p *DirPublisher) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("export: invalid key %q", key)
	}
	return filepath.Join(p.dir, clean), nil
}

// PutObjectAPI is the subset of *s3.Client used by S3Publisher.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads documents to an S3 bucket.
type S3Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Publisher creates an S3Publisher. prefix is prepended to every key.
func NewS3Publisher(client PutObjectAPI, bucket, prefix string) *S3Publisher {
	return &S3Publisher{client: client, bucket: bucket, prefix: prefix}
}

// Publish uploads html as text/html.
func (p *S3Publisher) Publish(ctx context.Context, key string, html []byte) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(p.prefix + key),
		Body:         bytes.NewReader(html),
		ContentType:  aws.String("text/html; charset=utf-8"),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return nil
}

// S3PublisherFromConfig builds an S3 client from the export section.
// Credentials come from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
// AWS_SESSION_TOKEN. A custom endpoint switches to path-style addressing
// for S3-compatible stores.
func S3PublisherFromConfig(cfg config.ExportConfig) (*S3Publisher, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("E301").WithDetail("export.bucket is not set")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(envCredentials{}),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return NewS3Publisher(s3.New(opts), cfg.Bucket, cfg.Prefix), nil
}

// envCredentials reads static credentials from the environment on each
// retrieval; the credentials cache in front of it limits how often.
type envCredentials struct{}

func (envCredentials) Retrieve(ctx context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, errors.New("E301").
			WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "Environment",
	}, nil
}
