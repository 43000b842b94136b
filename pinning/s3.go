package pinning

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/ruteri/creator-hub-gateway/config"
	"github.com/ruteri/creator-hub-gateway/interfaces"
)

// cidMetadataKey is the object metadata entry carrying the IPFS CID.
const cidMetadataKey = "cid"

// S3Pinner uploads payloads to an S3-compatible bucket that pins its objects
// to IPFS (e.g. Filebase) and reads the assigned CID back from object metadata.
type S3Pinner struct {
	client *s3.S3
	bucket string
	log    *slog.Logger
}

// NewS3Pinner creates a pinner for bucket. Endpoint selects an S3-compatible
// provider; path-style addressing is used whenever an endpoint is set.
func NewS3Pinner(cfg config.PinningConfig, log *slog.Logger) (*S3Pinner, error) {
	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg := aws.Config{
		Region: aws.String(region),
	}
	if cfg.S3Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.S3Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, "")
	} else {
		log.Warn("No S3 credentials provided - uploads will fail unless the environment supplies them")
	}
	if cfg.Timeout > 0 {
		awsCfg.HTTPClient = newTimeoutClient(cfg.Timeout)
	}

	sess, err := session.NewSession(&awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Pinner{
		client: s3.New(sess),
		bucket: cfg.S3Bucket,
		log:    log,
	}, nil
}

// Pin stores data under a unique key and returns the CID the provider assigned.
func (p *S3Pinner) Pin(ctx context.Context, filename string, data io.Reader) (string, error) {
	payload, err := io.ReadAll(data)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	key := objectKey(filename)
	_, err = p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(payload),
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to put object %s: %v", interfaces.ErrUpstream, key, err)
	}

	head, err := p.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to read object metadata %s: %v", interfaces.ErrUpstream, key, err)
	}

	for k, v := range head.Metadata {
		if strings.EqualFold(k, cidMetadataKey) && v != nil && *v != "" {
			p.log.Debug("Stored content in S3",
				slog.String("bucket", p.bucket),
				slog.String("key", key),
				slog.String("cid", *v))
			return *v, nil
		}
	}

	return "", fmt.Errorf("%w: object %s has no cid metadata", interfaces.ErrUpstream, key)
}

// Name returns identifier for logging.
func (p *S3Pinner) Name() string {
	return config.PinningS3
}

func objectKey(filename string) string {
	base := path.Base(filename)
	if base == "." || base == "/" || base == "" {
		return uuid.NewString()
	}
	return uuid.NewString() + "-" + base
}
