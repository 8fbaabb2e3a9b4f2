package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tushar-indygen/leadform"
)

// s3Uploader abstracts the pieces of the S3 client the archiver touches so
// tests can substitute a fake.
type s3Uploader interface {
	Upload(ctx context.Context, bucket, key string, body []byte) error
	EnsureBucket(ctx context.Context, bucket string) error
}

// CaptureArchiver uploads completed submissions to S3 as JSON documents,
// one object per capture under <prefix><workflow_id>/<uuid>.json. Archival
// is best effort: an upload failure is logged and reported but never blocks
// the capture itself.
type CaptureArchiver struct {
	cfg      leadform.ArchiveConfig
	uploader s3Uploader
}

// archivedCapture is the object body written to S3.
type archivedCapture struct {
	WorkflowID string              `json:"workflowId"`
	Values     leadform.FormValues `json:"values"`
	CapturedAt time.Time           `json:"capturedAt"`
}

// NewCaptureArchiver builds an archiver from config, wiring static env
// credentials and a custom endpoint (e.g. MinIO) when provided.
func NewCaptureArchiver(ctx context.Context, cfg leadform.ArchiveConfig) (*CaptureArchiver, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("archive disabled in config")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if envKey := os.Getenv("AWS_ACCESS_KEY_ID"); envKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(envKey, os.Getenv("AWS_SECRET_ACCESS_KEY"), "")))
	}
	if cfg.Endpoint != "" {
		loadOpts = append(loadOpts, awsconfig.WithBaseEndpoint(cfg.Endpoint))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// custom endpoints like MinIO need path-style addressing
		o.UsePathStyle = cfg.Endpoint != ""
	})

	return &CaptureArchiver{
		cfg:      cfg,
		uploader: &s3ManagerUploader{client: client, uploader: manager.NewUploader(client)},
	}, nil
}

// newCaptureArchiverWithUploader wires a custom uploader, used by tests.
func newCaptureArchiverWithUploader(cfg leadform.ArchiveConfig, up s3Uploader) *CaptureArchiver {
	return &CaptureArchiver{cfg: cfg, uploader: up}
}

// Archive uploads one completed capture.
func (a *CaptureArchiver) Archive(ctx context.Context, workflowID string, values leadform.FormValues) error {
	doc := archivedCapture{
		WorkflowID: workflowID,
		Values:     values,
		CapturedAt: time.Now().UTC(),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode capture: %w", err)
	}

	if err := a.uploader.EnsureBucket(ctx, a.cfg.Bucket); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	key := a.objectKey(workflowID)
	if err := a.uploader.Upload(ctx, a.cfg.Bucket, key, body); err != nil {
		zap.S().Warnw("capture archive upload failed", "bucket", a.cfg.Bucket, "key", key, "error", err)
		return fmt.Errorf("s3 upload: %w", err)
	}
	zap.S().Debugw("capture archived", "bucket", a.cfg.Bucket, "key", key)
	return nil
}

func (a *CaptureArchiver) objectKey(workflowID string) string {
	prefix := a.cfg.KeyPrefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if workflowID == "" {
		workflowID = "adhoc"
	}
	return fmt.Sprintf("%s%s/%s.json", prefix, workflowID, uuid.Must(uuid.NewV7()).String())
}

// s3ManagerUploader is the production s3Uploader backed by the SDK upload
// manager.
type s3ManagerUploader struct {
	client   *s3.Client
	uploader *manager.Uploader
}

func (u *s3ManagerUploader) EnsureBucket(ctx context.Context, bucket string) error {
	if _, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err == nil {
		return nil
	}
	if _, cerr := u.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)}); cerr != nil {
		var apiErr smithy.APIError
		if errors.As(cerr, &apiErr) {
			code := apiErr.ErrorCode()
			if code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists" {
				return nil
			}
		}
		return fmt.Errorf("create bucket: %w", cerr)
	}
	return nil
}

func (u *s3ManagerUploader) Upload(ctx context.Context, bucket, key string, body []byte) error {
	_, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	return err
}
