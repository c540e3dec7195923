package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 stores images in an S3 bucket under Prefix.
type S3 struct {
	client  objectAPI
	Bucket  string
	Prefix  string
	Region  string
	BaseURL string
}

// NewS3 builds an S3 store from the default AWS credential chain
// (environment, shared config, instance role).
func NewS3(ctx context.Context, bucket, prefix, baseURL string) (*S3, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &S3{
		client:  s3.NewFromConfig(cfg),
		Bucket:  bucket,
		Prefix:  prefix,
		Region:  cfg.Region,
		BaseURL: baseURL,
	}, nil
}

// Put uploads data and returns its public URL: BaseURL + object key when a
// base URL is configured, otherwise the virtual-hosted S3 URL.
func (s *S3) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	objectKey := path.Join(s.Prefix, key)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s to s3: %w", objectKey, err)
	}

	if s.BaseURL != "" {
		return joinURL(s.BaseURL, objectKey), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.Bucket, s.Region, objectKey), nil
}

// Delete removes the object stored under key.
func (s *S3) Delete(ctx context.Context, key string) error {
	objectKey := path.Join(s.Prefix, key)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("deleting %s from s3: %w", objectKey, err)
	}
	return nil
}
