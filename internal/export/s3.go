package export

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/gabrielmiguelok/linkhub/pkg/logging"
	"github.com/gabrielmiguelok/linkhub/pkg/retry"
)

// Cache-Control values for uploaded objects.
const (
	cacheDocument = "no-cache"
	cacheAsset    = "public, max-age=3600"
)

// ObjectPutter is the subset of the S3 client used for deploys.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config locates the deploy bucket.
type S3Config struct {
	Bucket string
	// Prefix is prepended to every object key.
	Prefix string
	Region string
	// Endpoint selects an S3-compatible service and enables path-style
	// addressing.
	Endpoint string
}

// Publisher uploads an exported site.
type Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
	retry  *retry.Config
	logger logging.Logger
}

// NewS3Publisher creates a publisher from the default AWS credential chain.
func NewS3Publisher(ctx context.Context, cfg S3Config, logger logging.Logger) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("export: bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("export: load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return NewPublisher(s3.NewFromConfig(awsCfg, s3opts...), cfg.Bucket, cfg.Prefix, logger), nil
}

// NewPublisher creates a publisher around an existing client.
func NewPublisher(client ObjectPutter, bucket, prefix string, logger logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Publisher{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		retry:  retry.DefaultConfig(),
		logger: logger,
	}
}

// WithRetry replaces the upload backoff.
func (p *Publisher) WithRetry(cfg *retry.Config) *Publisher {
	p.retry = cfg
	return p
}

// Publish uploads every file in the manifest. index.html goes last so
// visitors never load a page whose assets are missing.
func (p *Publisher) Publish(ctx context.Context, m *Manifest) error {
	files := make([]string, 0, len(m.Files))
	var documents []string
	for _, f := range m.Files {
		if strings.HasSuffix(f, ".html") {
			documents = append(documents, f)
			continue
		}
		files = append(files, f)
	}
	files = append(files, documents...)

	for _, rel := range files {
		if err := p.upload(ctx, m.Dir, rel); err != nil {
			return err
		}
	}
	p.logger.Info("site published",
		logging.String("bucket", p.bucket),
		logging.String("prefix", p.prefix),
		logging.Int("files", len(files)),
	)
	return nil
}

func (p *Publisher) upload(ctx context.Context, dir, rel string) error {
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		return fmt.Errorf("export: read %s: %w", rel, err)
	}

	key := p.key(rel)
	_, err = retry.Do(ctx, p.retry, func(ctx context.Context) (*s3.PutObjectOutput, error) {
		return p.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(p.bucket),
			Key:          aws.String(key),
			Body:         bytes.NewReader(data),
			ContentType:  aws.String(contentType(rel)),
			CacheControl: aws.String(cacheControl(rel)),
		})
	})
	if err != nil {
		return fmt.Errorf("export: s3 put object %s: %w", key, err)
	}
	p.logger.Debug("object uploaded", logging.String("key", key))
	return nil
}

func (p *Publisher) key(rel string) string {
	if p.prefix == "" {
		return rel
	}
	return p.prefix + "/" + rel
}

func contentType(rel string) string {
	if t := mime.TypeByExtension(path.Ext(rel)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func cacheControl(rel string) string {
	if strings.HasSuffix(rel, ".html") {
		return cacheDocument
	}
	return cacheAsset
}
