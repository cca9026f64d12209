package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/ledongthuc/pdf"

	"learngate/internal/config"
)

const (
	ModeCloudinary = "cloudinary"
	ModeDisk       = "disk"
)

// Uploader stores an uploaded PDF and returns the URL to record on the
// resource. Exactly one implementation is selected at startup; handlers
// never decide per-request where bytes go.
type Uploader interface {
	Store(ctx context.Context, originalName string, data []byte) (string, error)
	Mode() string
}

// New picks the upload backend from the presence of Cloudinary credentials.
// Disk mode is the fallback for local development; files written there do
// not survive a redeploy, which /health reports.
func New(cfg *config.Config) (Uploader, error) {
	if cfg.CloudConfigured() {
		return NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	}
	return NewDiskUploader(cfg.UploadDir)
}

// ValidatePDF sniffs the upload's content type; anything but a PDF is
// rejected before storage is attempted.
func ValidatePDF(data []byte) error {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if http.DetectContentType(head) != "application/pdf" {
		return fmt.Errorf("only PDF files are allowed")
	}
	return nil
}

// PageCount parses the PDF and returns its page count for display metadata.
// Best effort: a file that passes the content-type sniff but confuses the
// parser just gets no count. The parser panics on some malformed inputs,
// hence the recover.
func PageCount(data []byte) (n int) {
	defer func() {
		if r := recover(); r != nil {
			n = 0
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return reader.NumPage()
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

func sanitizeName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}
