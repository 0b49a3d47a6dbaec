package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/report-atlas/pkg/services/awscfg"
	"github.com/rs/zerolog"
)

// PutObjectAPI is the subset of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Settings struct {
	Bucket string          `mapstructure:"bucket"`
	Prefix string          `mapstructure:"prefix"`
	AWS    awscfg.Settings `mapstructure:"aws"`
}

// S3Publisher uploads rendered charts to <prefix>/<run id>/<file name>.
type S3Publisher struct {
	api    PutObjectAPI
	bucket string
	prefix string
}

func NewS3Publisher(api PutObjectAPI, bucket, prefix string) (*S3Publisher, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 publisher requires a bucket")
	}
	return &S3Publisher{
		api:    api,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

func NewS3PublisherFromSettings(ctx context.Context, s S3Settings) (*S3Publisher, error) {
	cfg, err := awscfg.LoadConfig(ctx, s.AWS)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewS3Publisher(awscfg.NewS3Client(cfg, s.AWS), s.Bucket, s.Prefix)
}

func (p *S3Publisher) Key(runID, file string) string {
	return path.Join(p.prefix, runID, filepath.Base(file))
}

// Publish uploads the file at localPath and returns its s3:// URL.
func (p *S3Publisher) Publish(ctx context.Context, runID, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	key := p.Key(runID, localPath)
	_, err = p.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(localPath)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload s3://%s/%s: %w", p.bucket, key, err)
	}

	url := fmt.Sprintf("s3://%s/%s", p.bucket, key)
	zerolog.Ctx(ctx).Debug().Str("url", url).Msg("chart published")
	return url, nil
}

func contentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
