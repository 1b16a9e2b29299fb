// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smartadega/smartadega-api/internal/config"
)

const labelFolder = "labels"

// StorageService archives uploaded label images in S3.
type StorageService struct {
	s3Client s3iface.S3API
	config   config.AWSConfig
	now      func() time.Time
}

func NewStorageService(cfg config.AWSConfig) (*StorageService, error) {
	// Create AWS session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return newStorageService(s3.New(sess), cfg), nil
}

func newStorageService(client s3iface.S3API, cfg config.AWSConfig) *StorageService {
	return &StorageService{
		s3Client: client,
		config:   cfg,
		now:      time.Now,
	}
}

// Archive uploads image under labels/ and returns its key.
func (s *StorageService) Archive(ctx context.Context, image LabelImage) (string, error) {
	key := s.generateFileName(image.Filename, image.ContentType)

	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(image.Data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(image.Data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	logrus.WithFields(logrus.Fields{"key": key, "url": s.URL(key)}).Debug("Label image archived")
	return key, nil
}

// URL returns where an archived key can be fetched from.
func (s *StorageService) URL(key string) string {
	if s.config.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.CloudFrontURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.S3Bucket, s.config.Region, key)
}

func (s *StorageService) generateFileName(originalName, contentType string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" && contentType != "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}

	// Create filename with timestamp and UUID
	timestamp := s.now().UTC().Format("20060102")
	return fmt.Sprintf("%s/%s_%s%s", labelFolder, timestamp, uuid.New().String(), ext)
}
