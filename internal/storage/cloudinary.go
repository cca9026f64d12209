package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const cloudinaryFolder = "learn-platform-uploads"

// CloudinaryUploader stores PDFs as raw assets. The resource type must stay
// "raw": Cloudinary's default image pipeline blocks PDF delivery on
// unverified accounts.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary client: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) Store(ctx context.Context, originalName string, data []byte) (string, error) {
	publicID := fmt.Sprintf("pdf-%d-%s", time.Now().UnixMilli(), sanitizeName(originalName))

	resp, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       cloudinaryFolder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload failed: %s", resp.Error.Message)
	}

	return resp.SecureURL, nil
}

func (u *CloudinaryUploader) Mode() string {
	return ModeCloudinary
}
