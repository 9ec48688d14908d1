package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"starbound/internal/config"
)

// ArchiveService writes finished-session event streams to object storage as
// JSON Lines files. When no bucket is configured the service is disabled and
// uploads are skipped.
type ArchiveService struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewArchiveService creates an event archive backed by an S3-compatible bucket
func NewArchiveService(ctx context.Context, cfg *config.Config) (*ArchiveService, error) {
	s := &ArchiveService{
		bucket: cfg.RawBucket,
		prefix: cfg.RawPrefix,
	}
	if cfg.RawBucket == "" {
		return s, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	return s, nil
}

// Enabled reports whether a bucket is configured
func (s *ArchiveService) Enabled() bool {
	return s.client != nil
}

// UploadRaw writes one session as a .jsonl object: a meta line, one line per
// event, and a closing summary line. Returns the object key.
func (s *ArchiveService) UploadRaw(ctx context.Context, gameID, userID, sessionID string, events []json.RawMessage, summary []byte) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("%s/game=%s/dt=%s/user=%s/session=%s.jsonl",
		s.prefix, gameID, now.Format("2006-01-02"), userID, sessionID)

	var buf bytes.Buffer
	meta, err := json.Marshal(map[string]interface{}{
		"type":        "meta",
		"session_id":  sessionID,
		"user_id":     userID,
		"game_id":     gameID,
		"finished_at": now.Format(time.RFC3339),
		"events":      len(events),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal session meta: %w", err)
	}
	buf.Write(meta)
	buf.WriteByte('\n')

	for _, ev := range events {
		buf.Write(ev)
		buf.WriteByte('\n')
	}

	closing, err := json.Marshal(map[string]interface{}{
		"type":    "summary",
		"summary": json.RawMessage(summary),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal session summary: %w", err)
	}
	buf.Write(closing)
	buf.WriteByte('\n')

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload session archive: %w", err)
	}
	return key, nil
}
