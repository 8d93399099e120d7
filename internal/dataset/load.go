package dataset

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/creator_match_api/internal/config"
)

// ObjectGetter is the part of the S3 API the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds an S3 client. Static credentials are used when set,
// otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg *config.AWSConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

// Loader produces datasets from a configured source: a local JSON file, an
// s3://bucket/key object, or the mock generator when no path is set.
type Loader struct {
	path  string
	seed  int64
	sizes Sizes
	s3    ObjectGetter
}

// NewLoader creates a Loader. objects may be nil when path is not an S3 URL.
func NewLoader(cfg *config.DatasetConfig, objects ObjectGetter) *Loader {
	return &Loader{
		path:  cfg.Path,
		seed:  cfg.Seed,
		sizes: DefaultSizes,
		s3:    objects,
	}
}

// Source describes where datasets come from, for logs.
func (l *Loader) Source() string {
	if l.path == "" {
		return fmt.Sprintf("generated(seed=%d)", l.seed)
	}
	return l.path
}

// Load reads and validates a fresh dataset.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	var (
		ds  *Dataset
		err error
	)
	switch {
	case l.path == "":
		ds = Generate(l.seed, l.sizes)
		err = ds.Validate()
	case strings.HasPrefix(l.path, "s3://"):
		ds, err = l.loadS3(ctx)
	default:
		ds, err = l.loadFile()
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("source", l.Source()).
		Int("creators", len(ds.Creators)).
		Int("products", len(ds.Products)).
		Int("sales", len(ds.Sales)).
		Msg("Dataset loaded")
	return ds, nil
}

func (l *Loader) loadFile() (*Dataset, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func (l *Loader) loadS3(ctx context.Context) (*Dataset, error) {
	if l.s3 == nil {
		return nil, fmt.Errorf("dataset %s: s3 client not configured", l.path)
	}
	bucket, key, err := ParseS3URL(l.path)
	if err != nil {
		return nil, err
	}

	out, err := l.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download dataset from S3: %w", err)
	}
	defer out.Body.Close()
	return Decode(out.Body)
}

// ParseS3URL splits s3://bucket/key into its parts.
func ParseS3URL(raw string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 url: %s", raw)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 url must be s3://bucket/key: %s", raw)
	}
	return bucket, key, nil
}
