package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ResourceTypeVideo   = "video"
	ResourceTypeArticle = "article"
	ResourceTypePDF     = "pdf"
	ResourceTypeLink    = "link"
)

// Resource is a single learning item shown to students. URL is either an
// external link (video/article/link, or a PDF hosted elsewhere) or the
// location an uploaded PDF was stored at: a Cloudinary URL in cloud mode,
// a server-relative /uploads/ path in disk mode.
type Resource struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	PageCount   *int      `json:"page_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func ValidResourceType(t string) bool {
	switch t {
	case ResourceTypeVideo, ResourceTypeArticle, ResourceTypePDF, ResourceTypeLink:
		return true
	}
	return false
}

type ResourceForm struct {
	Title       string
	Description string
	Type        string
	URL         string
	Category    string
}
