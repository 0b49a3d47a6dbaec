package awscfg

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	DefaultRegion = "us-east-1" // Default region if not specified in AWS profile
)

// Settings selects AWS credentials. Static keys win over Profile; an empty
// Settings falls back to the default credential chain.
type Settings struct {
	Profile         string `mapstructure:"profile"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	// Endpoint and PathStyle target S3-compatible stores such as MinIO.
	Endpoint  string `mapstructure:"endpoint"`
	PathStyle bool   `mapstructure:"path_style"`
}

func LoadConfig(ctx context.Context, s Settings) (*awssdk.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithDefaultRegion(DefaultRegion),
	}
	if s.Region != "" {
		opts = append(opts, config.WithRegion(s.Region))
	}
	if s.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(s.Profile))
	}
	if s.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	// Test the credentials
	if _, err := awsCfg.Credentials.Retrieve(ctx); err != nil {
		return nil, fmt.Errorf("invalid AWS credentials for profile %q: %w", s.Profile, err)
	}

	return &awsCfg, nil
}

func NewRDSClient(cfg *awssdk.Config) *rds.Client {
	return rds.NewFromConfig(*cfg)
}

func NewS3Client(cfg *awssdk.Config, s Settings) *s3.Client {
	return s3.NewFromConfig(*cfg, func(o *s3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = awssdk.String(s.Endpoint)
		}
		o.UsePathStyle = s.PathStyle
	})
}
