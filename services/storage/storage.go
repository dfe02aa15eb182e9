package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrStorageDisabled is returned when no media backend is configured.
var ErrStorageDisabled = errors.New("media storage is not configured")

// ImageStorage persists uploaded images and returns their public URL.
type ImageStorage interface {
	UploadImage(ctx context.Context, file io.Reader, publicID string) (string, error)
}

// CloudinaryStorage stores images in a Cloudinary folder.
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStorage creates an ImageStorage backed by Cloudinary.
func NewCloudinaryStorage(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld, folder: folder}, nil
}

// UploadImage uploads file under publicID, overwriting a previous upload.
func (s *CloudinaryStorage) UploadImage(ctx context.Context, file io.Reader, publicID string) (string, error) {
	overwrite := true
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID,
		Overwrite:    &overwrite,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if result.SecureURL == "" {
		return "", errors.New("upload returned no URL")
	}
	return result.SecureURL, nil
}

// DisabledStorage rejects every upload.
type DisabledStorage struct{}

func (DisabledStorage) UploadImage(context.Context, io.Reader, string) (string, error) {
	return "", ErrStorageDisabled
}
