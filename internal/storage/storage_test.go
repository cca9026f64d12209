package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"learngate/internal/config"
)

func TestNewSelectsModeOnce(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.Config
		expected string
	}{
		{
			"cloud credentials present",
			&config.Config{CloudinaryCloudName: "demo", CloudinaryAPIKey: "key", CloudinaryAPISecret: "secret"},
			ModeCloudinary,
		},
		{
			"no credentials falls back to disk",
			&config.Config{UploadDir: t.TempDir()},
			ModeDisk,
		},
		{
			"partial credentials fall back to disk",
			&config.Config{CloudinaryCloudName: "demo", UploadDir: t.TempDir()},
			ModeDisk,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			up, err := New(tc.cfg)
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			if up.Mode() != tc.expected {
				t.Errorf("Expected mode %q, got %q", tc.expected, up.Mode())
			}
		})
	}
}

func TestDiskUploaderStore(t *testing.T) {
	dir := t.TempDir()
	up, err := NewDiskUploader(dir)
	if err != nil {
		t.Fatalf("NewDiskUploader error: %v", err)
	}

	url, err := up.Store(context.Background(), "Course Notes.pdf", []byte("%PDF-1.4 test"))
	if err != nil {
		t.Fatalf("Store error: %v", err)
	}

	if !strings.HasPrefix(url, "/uploads/pdf-") {
		t.Errorf("Expected /uploads/pdf-* URL, got %q", url)
	}
	if !strings.HasSuffix(url, ".pdf") {
		t.Errorf("Expected original extension preserved, got %q", url)
	}

	written, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	if err != nil {
		t.Fatalf("uploaded file not on disk: %v", err)
	}
	if string(written) != "%PDF-1.4 test" {
		t.Errorf("file contents mismatch: %q", written)
	}
}

func TestNewDiskUploaderCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	if _, err := NewDiskUploader(dir); err != nil {
		t.Fatalf("NewDiskUploader error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("expected upload directory to be created: %v", err)
	}
}

func TestValidatePDF(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{"pdf magic bytes", []byte("%PDF-1.7 content"), false},
		{"plain text", []byte("hello world"), true},
		{"png header", []byte("\x89PNG\r\n\x1a\n rest"), true},
		{"empty", []byte{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePDF(tc.data)
			if tc.wantErr && err == nil {
				t.Error("expected rejection")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("expected acceptance, got %v", err)
			}
		})
	}
}

func TestPageCountToleratesGarbage(t *testing.T) {
	if n := PageCount([]byte("%PDF-1.4 but not really a pdf")); n != 0 {
		t.Errorf("expected 0 pages for unparsable data, got %d", n)
	}
}

func TestSanitizeName(t *testing.T) {
	got := sanitizeName("My Notes (final).pdf")
	if got != "My_Notes__final__pdf" {
		t.Errorf("unexpected sanitized name: %q", got)
	}
}
