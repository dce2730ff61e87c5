// utils/archive.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archive stores raw custody webhook payloads in S3-compatible object
// storage for audit. Optional: InitArchive returns nil when no bucket is
// configured and callers skip archiving.
type Archive struct {
	client *s3.Client
	bucket string
}

func InitArchive() (*Archive, error) {
	bucket := os.Getenv("AUDIT_BUCKET_NAME")
	if bucket == "" {
		return nil, nil // archiving disabled
	}

	endpoint := os.Getenv("AUDIT_S3_ENDPOINT")
	accessKeyID := os.Getenv("AUDIT_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("AUDIT_ACCESS_KEY_SECRET")
	region := os.Getenv("AUDIT_S3_REGION")
	if region == "" {
		region = "auto"
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if accessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)))
	}
	if endpoint != "" {
		opts = append(opts, config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint}, nil
			}),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit archive config: %w", err)
	}

	return &Archive{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// Store writes one payload under webhooks/<key>.json.
func (a *Archive) Store(ctx context.Context, key string, payload []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String("webhooks/" + key + ".json"),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive payload %s: %w", key, err)
	}
	return nil
}
