package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"learngate/internal/models"
)

// In-memory stores standing in for the pgx repositories. They return
// pgx.ErrNoRows for misses, same as the real ones.

type fakeStudentStore struct {
	students map[uuid.UUID]*models.Student
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: make(map[uuid.UUID]*models.Student)}
}

func (f *fakeStudentStore) Create(_ context.Context, s *models.Student) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	cp := *s
	f.students[s.ID] = &cp
	return nil
}

func (f *fakeStudentStore) GetByEmail(_ context.Context, email string) (*models.Student, error) {
	for _, s := range f.students {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStudentStore) GetByID(_ context.Context, id uuid.UUID) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudentStore) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	s, ok := f.students[id]
	if !ok {
		return pgx.ErrNoRows
	}
	s.PasswordHash = hash
	return nil
}

func (f *fakeStudentStore) SetBlocked(_ context.Context, id uuid.UUID, blocked bool) error {
	s, ok := f.students[id]
	if !ok {
		return pgx.ErrNoRows
	}
	s.IsBlocked = blocked
	return nil
}

func (f *fakeStudentStore) List(_ context.Context) ([]*models.Student, error) {
	out := make([]*models.Student, 0, len(f.students))
	for _, s := range f.students {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStudentStore) Count(_ context.Context) (int, error) {
	return len(f.students), nil
}

type fakeAdminStore struct {
	admins map[uuid.UUID]*models.Admin
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: make(map[uuid.UUID]*models.Admin)}
}

func (f *fakeAdminStore) Create(_ context.Context, a *models.Admin) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	cp := *a
	f.admins[a.ID] = &cp
	return nil
}

func (f *fakeAdminStore) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	for _, a := range f.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAdminStore) Count(_ context.Context) (int, error) {
	return len(f.admins), nil
}

type fakeResourceStore struct {
	resources map[uuid.UUID]*models.Resource
}

func newFakeResourceStore() *fakeResourceStore {
	return &fakeResourceStore{resources: make(map[uuid.UUID]*models.Resource)}
}

func (f *fakeResourceStore) Create(_ context.Context, r *models.Resource) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	cp := *r
	f.resources[r.ID] = &cp
	return nil
}

func (f *fakeResourceStore) GetByID(_ context.Context, id uuid.UUID) (*models.Resource, error) {
	r, ok := f.resources[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (f *fakeResourceStore) Update(_ context.Context, r *models.Resource) error {
	if _, ok := f.resources[r.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *r
	f.resources[r.ID] = &cp
	return nil
}

func (f *fakeResourceStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.resources, id)
	return nil
}

func (f *fakeResourceStore) List(_ context.Context) ([]*models.Resource, error) {
	out := make([]*models.Resource, 0, len(f.resources))
	for _, r := range f.resources {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeResourceStore) ListByCategory(_ context.Context, category string) ([]*models.Resource, error) {
	out := make([]*models.Resource, 0)
	for _, r := range f.resources {
		if r.Category == category {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeResourceStore) Recent(ctx context.Context, limit int) ([]*models.Resource, error) {
	all, _ := f.List(ctx)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeResourceStore) DistinctCategories(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, r := range f.resources {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	return out, nil
}

func (f *fakeResourceStore) Count(_ context.Context) (int, error) {
	return len(f.resources), nil
}

type fakeCategoryStore struct {
	categories map[string]*models.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: make(map[string]*models.Category)}
}

func (f *fakeCategoryStore) put(name, password string) {
	f.categories[name] = &models.Category{ID: uuid.New(), Name: name, Password: password}
}

func (f *fakeCategoryStore) GetByName(_ context.Context, name string) (*models.Category, error) {
	c, ok := f.categories[name]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryStore) ProtectedNames(_ context.Context, names []string) ([]string, error) {
	out := make([]string, 0)
	for _, n := range names {
		if c, ok := f.categories[n]; ok && c.Password != "" {
			out = append(out, n)
		}
	}
	return out, nil
}

// fakeUploader records every call so tests can assert routing.
type fakeUploader struct {
	mode  string
	calls int
}

func (f *fakeUploader) Store(_ context.Context, originalName string, _ []byte) (string, error) {
	f.calls++
	if f.mode == "disk" {
		return "/uploads/pdf-123.pdf", nil
	}
	return "https://res.cloudinary.com/demo/raw/upload/pdf-123-" + originalName, nil
}

func (f *fakeUploader) Mode() string { return f.mode }
