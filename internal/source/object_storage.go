package source

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

const (
	ObjectStorageAuthTypeDefault = "default"
	ObjectStorageAuthTypeStatic  = "static"
)

// ObjectStorageOptions configures the S3 client used for s3:// sources.
// Empty fields fall back to the AWS SDK defaults (AWS_REGION, shared config, ...).
type ObjectStorageOptions struct {
	Endpoint     string
	Region       string
	AuthKey      string
	AuthSecret   string
	UsePathStyle bool
	AuthType     string
}

// ObjectStorage downloads objects from S3 or an S3-compatible store (MinIO, R2, ...).
type ObjectStorage struct {
	logger taxiload.Logger
	client *s3.Client
}

func NewObjectStorage(
	ctx context.Context,
	logger taxiload.Logger,
	options ObjectStorageOptions,
) (*ObjectStorage, error) {
	configFuncs := make([]func(*config.LoadOptions) error, 0)
	if options.Region != "" {
		configFuncs = append(configFuncs, config.WithRegion(options.Region))
	}

	if options.AuthType == ObjectStorageAuthTypeStatic {
		creds := credentials.NewStaticCredentialsProvider(options.AuthKey, options.AuthSecret, "")
		configFuncs = append(configFuncs, config.WithCredentialsProvider(creds))
	}

	s3Config, err := config.LoadDefaultConfig(ctx, configFuncs...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
		}
		o.UsePathStyle = options.UsePathStyle
	})

	return &ObjectStorage{
		logger: logger,
		client: client,
	}, nil
}

// Download reads the whole object into memory.
func (obj *ObjectStorage) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	obj.logger.Verbose("Downloading s3://%s/%s", bucket, key)

	downloader := manager.NewDownloader(obj.client)
	buf := manager.NewWriteAtBuffer([]byte{})
	_, err := downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return buf.Bytes(), err
}
