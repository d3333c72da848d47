package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/logging"
)

// MaxImageSide bounds the longest side of a stored recipe image
const MaxImageSide = 1280

const recipeImagePrefix = "recipes/images/"

// ImageStore persists encoded images and returns the value stored on the
// recipe (a media path or a public URL).
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// LocalImageStore writes images below Root and addresses them from BaseURL
type LocalImageStore struct {
	Root    string
	BaseURL string
}

// NewLocalImageStore creates a store rooted at the media directory
func NewLocalImageStore(root, baseURL string) *LocalImageStore {
	return &LocalImageStore{Root: root, BaseURL: baseURL}
}

func (s *LocalImageStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	path := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return strings.TrimSuffix(s.BaseURL, "/") + "/" + key, nil
}

// S3PutObjectAPI is the part of the S3 client used for uploads
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore uploads images to a bucket
type S3ImageStore struct {
	client S3PutObjectAPI
	cfg    *config.S3Config
}

// NewS3ImageStore creates an S3 backed store
func NewS3ImageStore(cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{client: cfg.Client, cfg: cfg}
}

// NewS3ImageStoreWithClient is used when the client is not the one in cfg
func NewS3ImageStoreWithClient(client S3PutObjectAPI, cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{client: client, cfg: cfg}
}

func (s *S3ImageStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.cfg.ObjectURL(key), nil
}

// decodeDataURI splits "data:<mime>;base64,<payload>" and decodes the payload
func decodeDataURI(value string) ([]byte, error) {
	meta, payload, ok := strings.Cut(value, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return nil, newValidationError("image", "image must be a base64 data URI")
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, newValidationError("image", "unsupported image type")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, newValidationError("image", "invalid base64 image data")
	}
	return data, nil
}

// NormalizeImage decodes a data URI image, bounds it to MaxImageSide and
// re-encodes it as JPEG.
func NormalizeImage(value string) ([]byte, error) {
	raw, err := decodeDataURI(value)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, newValidationError("image", "file is not a valid image")
	}

	b := img.Bounds()
	if b.Dx() > MaxImageSide || b.Dy() > MaxImageSide {
		img = imaging.Fit(img, MaxImageSide, MaxImageSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// saveRecipeImage normalises the image and stores it under a fresh key
func saveRecipeImage(ctx context.Context, store ImageStore, value string) (string, error) {
	data, err := NormalizeImage(value)
	if err != nil {
		return "", err
	}
	key := recipeImagePrefix + uuid.NewString() + ".jpg"
	location, err := store.Put(ctx, key, data, "image/jpeg")
	if err != nil {
		return "", err
	}
	logging.Debug().Str("key", key).Int("bytes", len(data)).Msg("stored recipe image")
	return location, nil
}
