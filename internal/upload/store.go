// Package upload pushes processed photos to the S3-compatible photo bucket.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MIMEImageJPEG is the content type of every published photo; the
// processor re-encodes all inputs to JPEG.
const MIMEImageJPEG = "image/jpeg"

// photoPrefix roots every object key under the portfolio namespace.
const photoPrefix = "portfolio/photos"

// cacheControl marks published photos as immutable for a year. A re-upload
// writes the same key, so clients may hold on to what they fetched.
const cacheControl = "public, max-age=31536000"

// ErrInvalidKeyComponent signals a collection or file name that sanitizes
// to nothing.
var ErrInvalidKeyComponent = errors.New("invalid object key component")

// StoreConfig holds configuration for the photo store.
type StoreConfig struct {
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	// PublicBaseURL is the CDN or public bucket host photos are served
	// from, e.g. "https://storage.gustafedn.com".
	PublicBaseURL string
}

// Store uploads photo objects to an S3-compatible bucket.
type Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

// NewStore creates a photo store with the given configuration.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if cfg.AccessKeyID == "" {
		return nil, errors.New("access key ID is required")
	}
	if cfg.SecretAccessKey == "" {
		return nil, errors.New("secret access key is required")
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if cfg.PublicBaseURL == "" {
		return nil, errors.New("public base URL is required")
	}

	// R2-compatible client configuration
	client := s3.New(s3.Options{
		Region: "auto", // R2 uses auto region
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"", // No session token for R2
		)),
		BaseEndpoint: aws.String(cfg.Endpoint),
		UsePathStyle: true, // R2 requires path-style addressing
	})

	return &Store{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Put uploads one object under the given key.
func (s *Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		CacheControl:  aws.String(cacheControl),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the public address of an uploaded object.
func (s *Store) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// PhotoKey builds the object key for one photo of a collection.
// Pattern: portfolio/photos/{collection}/{file}.jpg
func PhotoKey(collection, baseName string) (string, error) {
	coll := sanitizeKeyComponent(collection)
	file := sanitizeKeyComponent(baseName)
	if coll == "" || file == "" {
		return "", ErrInvalidKeyComponent
	}
	return fmt.Sprintf("%s/%s/%s.jpg", photoPrefix, coll, file), nil
}

// CoverKey builds the object key for a collection's cover thumbnail.
func CoverKey(collection string) (string, error) {
	coll := sanitizeKeyComponent(collection)
	if coll == "" {
		return "", ErrInvalidKeyComponent
	}
	return fmt.Sprintf("%s/%s/_cover.jpg", photoPrefix, coll), nil
}

// sanitizeKeyComponent removes potentially dangerous characters from path components.
func sanitizeKeyComponent(s string) string {
	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
