package usagereports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archiver stores generated usage reports for later analysis.
type Archiver interface {
	Archive(ctx context.Context, report *UsageReport) error
}

// S3Archiver writes each report as a JSON object keyed by provider and
// generation date.
type S3Archiver struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Archiver creates an S3-backed report archiver.
func NewS3Archiver(ctx context.Context, bucket, prefix, region string) (*S3Archiver, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for report archiver: %w", err)
	}
	return &S3Archiver{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (a *S3Archiver) key(report *UsageReport) string {
	return fmt.Sprintf("%s/%s/%s.json", a.prefix, report.Provider, report.GeneratedAt.Format("2006-01-02"))
}

// Archive uploads the report. Reports for the same provider and day
// overwrite each other; the latest run wins.
func (a *S3Archiver) Archive(ctx context.Context, report *UsageReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling usage report: %w", err)
	}

	key := a.key(report)
	contentType := "application/json"
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("S3 PutObject %s/%s: %w", a.bucket, key, err)
	}
	return nil
}
