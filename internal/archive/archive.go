// Package archive copies every saved template to S3 so that the exact
// instrumented HTML that went out with a job can be recovered later, even
// after the template row is edited.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ignite/campaign-studio/internal/config"
	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
)

// S3API is the part of the S3 client the archiver uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver writes templates as HTML objects under a key prefix.
type S3Archiver struct {
	client S3API
	bucket string
	prefix string
	newID  func() string
}

// NewS3Archiver creates an archiver over an existing client.
func NewS3Archiver(client S3API, bucket, prefix string) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		newID:  func() string { return uuid.New().String() },
	}
}

// FromConfig loads AWS credentials (profile or default chain) and returns an
// archiver for cfg.
func FromConfig(ctx context.Context, cfg config.ArchiveConfig) (*S3Archiver, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if profile := cfg.GetAWSProfile(); profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	logger.Info("template archive enabled", "bucket", cfg.S3Bucket, "prefix", cfg.Prefix, "region", cfg.S3Region)
	return NewS3Archiver(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.Prefix), nil
}

// Key builds the object key of one archived template version. The random
// suffix keeps resubmissions of the same version apart.
func (a *S3Archiver) Key(t domain.Template) string {
	name := fmt.Sprintf("v%d-%s.html", t.Version, a.newID())
	return path.Join(a.prefix, strconv.FormatInt(t.ID, 10), name)
}

// Archive uploads the template content and returns its key.
func (a *S3Archiver) Archive(ctx context.Context, t domain.Template) (string, error) {
	key := a.Key(t)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader([]byte(t.Content)),
		ContentType: aws.String("text/html; charset=utf-8"),
		Metadata: map[string]string{
			"template-id":   strconv.FormatInt(t.ID, 10),
			"template-name": t.Name,
			"version":       strconv.Itoa(t.Version),
			"tracking":      t.Type,
			"archived-at":   time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", a.bucket, key, err)
	}
	return key, nil
}
