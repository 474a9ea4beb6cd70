package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// uploadGrantTTL bounds how long a client has to perform the PUT
const uploadGrantTTL = 10 * time.Minute

// S3Client implements Client for AWS S3 and S3-compatible services.
// For S3-compatible services (MinIO etc.), set the endpoint parameter.
type S3Client struct {
	presign *s3.PresignClient
	bucket  string
}

// NewS3Client creates a new S3 storage client
func NewS3Client(ctx context.Context, accessKeyID, secretAccessKey, region, bucket, endpoint string) (*S3Client, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}, nil
}

// GrantUpload returns a presigned PUT URL for the given key.
// The signature pins the Content-Type, so the client must upload with the
// same type it declared at post creation.
func (c *S3Client) GrantUpload(ctx context.Context, key, contentType string) (*UploadGrant, error) {
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}

	presigned, err := c.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	}, s3.WithPresignExpires(uploadGrantTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload for key %s: %w", key, err)
	}

	return &UploadGrant{
		Key:       key,
		URL:       presigned.URL,
		ExpiresAt: time.Now().UTC().Add(uploadGrantTTL),
	}, nil
}
