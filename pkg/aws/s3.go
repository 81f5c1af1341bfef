package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Presigner issues presigned upload URLs for a fixed bucket.
type S3Presigner struct {
	presigner *s3.PresignClient
	bucket    string
}

// NewS3Presigner creates a new S3Presigner.
func NewS3Presigner(cfg sdkaws.Config, bucket string) *S3Presigner {
	client := s3.NewFromConfig(cfg)
	return &S3Presigner{
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
	}
}

// GeneratePresignedPutURL generates a presigned PUT URL for the given key.
func (p *S3Presigner) GeneratePresignedPutURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: &p.bucket,
		Key:    &key,
	}

	presigned, err := p.presigner.PresignPutObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign put object: %w", err)
	}
	return presigned.URL, nil
}
