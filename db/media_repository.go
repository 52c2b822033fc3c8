package db

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
	"github.com/techagentng/mopcdash/config"
)

// ObjectUploader is the part of *s3.Client the media repository needs.
type ObjectUploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// MediaRepository stores report photos in a bucket and returns their public URL.
type MediaRepository interface {
	UploadMediaToS3(ctx context.Context, content []byte, folderName, filename, contentType string) (string, error)
}

type mediaRepo struct {
	client ObjectUploader
	bucket string
	region string
}

func NewMediaRepo(client ObjectUploader, conf *config.Config) MediaRepository {
	return &mediaRepo{client: client, bucket: conf.AWSBucket, region: conf.AWSRegion}
}

// NewS3Client builds an S3 client from the static credentials in conf.
func NewS3Client(ctx context.Context, conf *config.Config) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(conf.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			conf.AWSAccessKeyID,
			conf.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}

	return s3.NewFromConfig(cfg), nil
}

func (m *mediaRepo) UploadMediaToS3(ctx context.Context, content []byte, folderName, filename, contentType string) (string, error) {
	key := fmt.Sprintf("%s/%s", folderName, strings.ReplaceAll(filename, " ", "_"))

	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to upload %s to S3", key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.bucket, m.region, key), nil
}
