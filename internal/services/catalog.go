package services

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"learngate/internal/models"
	"learngate/internal/session"
	"learngate/internal/storage"
)

type ResourceStore interface {
	Create(ctx context.Context, res *models.Resource) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Resource, error)
	Update(ctx context.Context, res *models.Resource) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Resource, error)
	ListByCategory(ctx context.Context, category string) ([]*models.Resource, error)
	Recent(ctx context.Context, limit int) ([]*models.Resource, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}

type CategoryStore interface {
	GetByName(ctx context.Context, name string) (*models.Category, error)
	ProtectedNames(ctx context.Context, names []string) ([]string, error)
}

// Categories every dashboard shows even before any resource references them.
var defaultCategories = []string{"HTML", "CSS", "Javascript", "Node.js", "MongoDB", "Projects"}

// UploadedFile is a file received on a resource form, already read into
// memory. PDFs are small enough that buffering beats streaming here.
type UploadedFile struct {
	Name string
	Data []byte
}

type CatalogService struct {
	resources  ResourceStore
	categories CategoryStore
	uploads    storage.Uploader
}

func NewCatalogService(resources ResourceStore, categories CategoryStore, uploads storage.Uploader) *CatalogService {
	return &CatalogService{resources: resources, categories: categories, uploads: uploads}
}

// ResolveCategoryAccess reports whether the session may list the category's
// resources. A category with no record or no password is open to any
// student; otherwise the session must have unlocked it.
func (s *CatalogService) ResolveCategoryAccess(ctx context.Context, name string, rec *session.Record) (bool, error) {
	category, err := s.categories.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil
		}
		return false, err
	}

	if !category.Protected() {
		return true, nil
	}

	return rec.HasUnlocked(name), nil
}

// AttemptUnlock compares the supplied code against the category's stored one
// with plain equality (category codes are shared secrets, not hashed
// credentials) and, on match, records the unlock on the session. The caller
// must persist the session record afterwards.
func (s *CatalogService) AttemptUnlock(ctx context.Context, name, supplied string, rec *session.Record) error {
	category, err := s.categories.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &UnauthorizedError{Message: "Incorrect Password"}
		}
		return err
	}

	if !category.Protected() {
		return nil
	}

	if supplied != category.Password {
		return &UnauthorizedError{Message: "Incorrect Password"}
	}

	rec.AddUnlocked(name)
	return nil
}

func (s *CatalogService) CategoryResources(ctx context.Context, name string) ([]*models.Resource, error) {
	return s.resources.ListByCategory(ctx, name)
}

// DashboardCategories merges the default category set with every label
// resources actually reference, and reports which of them are protected.
func (s *CatalogService) DashboardCategories(ctx context.Context) (names []string, protected []string, err error) {
	distinct, err := s.resources.DistinctCategories(ctx)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[string]bool)
	for _, n := range defaultCategories {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	extras := make([]string, 0)
	for _, n := range distinct {
		if !seen[n] {
			seen[n] = true
			extras = append(extras, n)
		}
	}
	sort.Strings(extras)
	names = append(names, extras...)

	protected, err = s.categories.ProtectedNames(ctx, names)
	if err != nil {
		return nil, nil, err
	}

	return names, protected, nil
}

// CreateResource stores an optional uploaded PDF and records the resource.
// With no file, the form URL is used verbatim; having neither is an error.
func (s *CatalogService) CreateResource(ctx context.Context, form models.ResourceForm, file *UploadedFile) (*models.Resource, error) {
	if form.Title == "" || form.Category == "" {
		return nil, &ValidationError{Message: "Title and category are required"}
	}
	if !models.ValidResourceType(form.Type) {
		return nil, &ValidationError{Message: "Unknown resource type"}
	}

	url, pageCount, err := s.resolveURL(ctx, form.URL, file)
	if err != nil {
		return nil, err
	}
	if url == "" {
		return nil, &ValidationError{Message: "URL or file is required"}
	}

	resource := &models.Resource{
		Title:       form.Title,
		Description: form.Description,
		Type:        form.Type,
		URL:         url,
		Category:    form.Category,
		PageCount:   pageCount,
	}

	if err := s.resources.Create(ctx, resource); err != nil {
		return nil, err
	}

	return resource, nil
}

// UpdateResource edits a resource, re-running the upload path when a new
// file arrives. Editing a pdf resource with no new file and no new URL
// keeps the stored URL; nulling it out would orphan the viewer.
func (s *CatalogService) UpdateResource(ctx context.Context, id uuid.UUID, form models.ResourceForm, file *UploadedFile) (*models.Resource, error) {
	current, err := s.GetResource(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.ValidResourceType(form.Type) {
		return nil, &ValidationError{Message: "Unknown resource type"}
	}

	url, pageCount, err := s.resolveURL(ctx, form.URL, file)
	if err != nil {
		return nil, err
	}

	if url == "" {
		if form.Type == models.ResourceTypePDF {
			url = current.URL
			pageCount = current.PageCount
		} else {
			return nil, &ValidationError{Message: "URL is required for this resource type"}
		}
	}

	current.Title = form.Title
	current.Description = form.Description
	current.Type = form.Type
	current.URL = url
	current.Category = form.Category
	current.PageCount = pageCount

	if err := s.resources.Update(ctx, current); err != nil {
		return nil, err
	}

	return current, nil
}

func (s *CatalogService) resolveURL(ctx context.Context, formURL string, file *UploadedFile) (string, *int, error) {
	if file == nil {
		return formURL, nil, nil
	}

	if err := storage.ValidatePDF(file.Data); err != nil {
		return "", nil, &ValidationError{Message: err.Error()}
	}

	var pageCount *int
	if n := storage.PageCount(file.Data); n > 0 {
		pageCount = &n
	}

	url, err := s.uploads.Store(ctx, file.Name, file.Data)
	if err != nil {
		return "", nil, err
	}

	return url, pageCount, nil
}

func (s *CatalogService) GetResource(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Resource not found"}
		}
		return nil, err
	}
	return resource, nil
}

func (s *CatalogService) DeleteResource(ctx context.Context, id uuid.UUID) error {
	return s.resources.Delete(ctx, id)
}

func (s *CatalogService) ListResources(ctx context.Context) ([]*models.Resource, error) {
	return s.resources.List(ctx)
}

func (s *CatalogService) RecentResources(ctx context.Context) ([]*models.Resource, error) {
	return s.resources.Recent(ctx, 5)
}

func (s *CatalogService) ResourceCount(ctx context.Context) (int, error) {
	return s.resources.Count(ctx)
}
