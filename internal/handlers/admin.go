package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"learngate/internal/middleware"
	"learngate/internal/models"
	"learngate/internal/services"
	"learngate/internal/session"
)

const maxUploadBytes = 32 << 20 // 32MB

type AdminHandler struct {
	auth     *services.AuthService
	catalog  *services.CatalogService
	sessions *middleware.Auth
	render   *Renderer
}

func NewAdminHandler(auth *services.AuthService, catalog *services.CatalogService, sessions *middleware.Auth, render *Renderer) *AdminHandler {
	return &AdminHandler{auth: auth, catalog: catalog, sessions: sessions, render: render}
}

func (h *AdminHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if rec := middleware.Record(r); rec != nil && rec.IsAdmin() {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}
	h.render.Render(w, "admin-login", map[string]any{
		"Error": middleware.PopFlash(w, r),
	})
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	admin, err := h.auth.LoginAdmin(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		h.render.Render(w, "admin-login", map[string]any{"Error": errorMessage(err)})
		return
	}

	if _, err := h.sessions.Begin(w, r, &session.Record{AdminID: &admin.ID}); err != nil {
		log.Printf("session begin error: %v", err)
		h.render.Render(w, "admin-login", map[string]any{"Error": "Something went wrong"})
		return
	}

	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(w, r)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	studentCount, err := h.auth.StudentCount(r.Context())
	if err != nil {
		log.Printf("student count: %v", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	resourceCount, err := h.catalog.ResourceCount(r.Context())
	if err != nil {
		log.Printf("resource count: %v", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	recent, err := h.catalog.RecentResources(r.Context())
	if err != nil {
		log.Printf("recent resources: %v", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.render.Render(w, "admin-dashboard", map[string]any{
		"StudentCount":    studentCount,
		"ResourceCount":   resourceCount,
		"RecentResources": recent,
	})
}

func (h *AdminHandler) Resources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.catalog.ListResources(r.Context())
	if err != nil {
		log.Printf("list resources: %v", err)
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}
	h.render.Render(w, "admin-resources", map[string]any{"Resources": resources})
}

func (h *AdminHandler) AddResourcePage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, "admin-add-resource", map[string]any{"Error": nil})
}

func (h *AdminHandler) AddResource(w http.ResponseWriter, r *http.Request) {
	form, file, err := parseResourceForm(w, r)
	if err != nil {
		h.render.Render(w, "admin-add-resource", map[string]any{"Error": errorMessage(err)})
		return
	}

	if _, err := h.catalog.CreateResource(r.Context(), form, file); err != nil {
		h.render.Render(w, "admin-add-resource", map[string]any{"Error": errorMessage(err)})
		return
	}

	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (h *AdminHandler) EditResourcePage(w http.ResponseWriter, r *http.Request) {
	resource, err := h.resourceFromPath(r)
	if err != nil {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}
	h.render.Render(w, "admin-edit-resource", map[string]any{"Resource": resource, "Error": nil})
}

func (h *AdminHandler) EditResource(w http.ResponseWriter, r *http.Request) {
	resource, err := h.resourceFromPath(r)
	if err != nil {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}

	form, file, err := parseResourceForm(w, r)
	if err != nil {
		h.render.Render(w, "admin-edit-resource", map[string]any{"Resource": resource, "Error": errorMessage(err)})
		return
	}

	if _, err := h.catalog.UpdateResource(r.Context(), resource.ID, form, file); err != nil {
		h.render.Render(w, "admin-edit-resource", map[string]any{"Resource": resource, "Error": errorMessage(err)})
		return
	}

	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (h *AdminHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	if id, err := uuid.Parse(chi.URLParam(r, "id")); err == nil {
		if err := h.catalog.DeleteResource(r.Context(), id); err != nil {
			log.Printf("delete resource: %v", err)
		}
	}
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (h *AdminHandler) Students(w http.ResponseWriter, r *http.Request) {
	students, err := h.auth.ListStudents(r.Context())
	if err != nil {
		log.Printf("list students: %v", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}
	h.render.Render(w, "admin-students", map[string]any{"Students": students})
}

func (h *AdminHandler) ToggleBlock(w http.ResponseWriter, r *http.Request) {
	if id, err := uuid.Parse(chi.URLParam(r, "id")); err == nil {
		if _, err := h.auth.ToggleBlocked(r.Context(), id); err != nil {
			log.Printf("toggle block: %v", err)
		}
	}
	http.Redirect(w, r, "/admin/students", http.StatusSeeOther)
}

func (h *AdminHandler) resourceFromPath(r *http.Request) (*models.Resource, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return h.catalog.GetResource(r.Context(), id)
}

// parseResourceForm reads the multipart resource form. The file part is
// optional; a missing one is not an error.
func parseResourceForm(w http.ResponseWriter, r *http.Request) (models.ResourceForm, *services.UploadedFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return models.ResourceForm{}, nil, &services.ValidationError{Message: "Invalid form submission"}
	}

	form := models.ResourceForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Type:        r.FormValue("type"),
		URL:         r.FormValue("url"),
		Category:    r.FormValue("category"),
	}

	f, header, err := r.FormFile("pdf")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return form, nil, nil
		}
		return models.ResourceForm{}, nil, &services.ValidationError{Message: "Invalid file upload"}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.ResourceForm{}, nil, &services.ValidationError{Message: "Failed to read uploaded file"}
	}

	return form, &services.UploadedFile{Name: header.Filename, Data: data}, nil
}
