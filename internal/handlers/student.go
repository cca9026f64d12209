package handlers

import (
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"learngate/internal/middleware"
	"learngate/internal/models"
	"learngate/internal/services"
	"learngate/internal/session"
)

type StudentHandler struct {
	auth     *services.AuthService
	catalog  *services.CatalogService
	sessions *middleware.Auth
	render   *Renderer

	// Outbound client for the PDF proxy. The timeout bounds a stalled
	// upstream; cancellation rides the request context.
	proxyClient *http.Client
}

func NewStudentHandler(auth *services.AuthService, catalog *services.CatalogService, sessions *middleware.Auth, render *Renderer) *StudentHandler {
	return &StudentHandler{
		auth:        auth,
		catalog:     catalog,
		sessions:    sessions,
		render:      render,
		proxyClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (h *StudentHandler) Landing(w http.ResponseWriter, r *http.Request) {
	rec := middleware.Record(r)
	h.render.Render(w, "landing", map[string]any{
		"Student": rec != nil && rec.IsStudent(),
	})
}

func (h *StudentHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, "signup", map[string]any{"Error": nil})
}

func (h *StudentHandler) Signup(w http.ResponseWriter, r *http.Request) {
	form := models.SignupForm{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		PIN:      r.FormValue("pin"),
	}

	student, err := h.auth.RegisterStudent(r.Context(), form)
	if err != nil {
		h.render.Render(w, "signup", map[string]any{"Error": errorMessage(err)})
		return
	}

	if _, err := h.sessions.Begin(w, r, &session.Record{StudentID: &student.ID}); err != nil {
		log.Printf("session begin error: %v", err)
		h.render.Render(w, "signup", map[string]any{"Error": "Something went wrong"})
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *StudentHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, "login", map[string]any{
		"Error": middleware.PopFlash(w, r),
	})
}

func (h *StudentHandler) Login(w http.ResponseWriter, r *http.Request) {
	student, err := h.auth.LoginStudent(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		h.render.Render(w, "login", map[string]any{"Error": errorMessage(err)})
		return
	}

	if _, err := h.sessions.Begin(w, r, &session.Record{StudentID: &student.ID}); err != nil {
		log.Printf("session begin error: %v", err)
		h.render.Render(w, "login", map[string]any{"Error": "Something went wrong"})
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *StudentHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *StudentHandler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, "forgot-password", map[string]any{"Error": nil})
}

// ForgotPassword confirms the account exists, then hands off to the reset
// form. The PIN, not email delivery, is the identity check.
func (h *StudentHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")

	if _, err := h.auth.FindStudentByEmail(r.Context(), email); err != nil {
		h.render.Render(w, "forgot-password", map[string]any{"Error": errorMessage(err)})
		return
	}

	h.render.Render(w, "reset-password", map[string]any{"Email": email, "Error": nil})
}

func (h *StudentHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	form := models.ResetPasswordForm{
		Email:       r.FormValue("email"),
		PIN:         r.FormValue("pin"),
		NewPassword: r.FormValue("password"),
	}

	if err := h.auth.ResetPassword(r.Context(), form); err != nil {
		h.render.Render(w, "reset-password", map[string]any{"Email": form.Email, "Error": errorMessage(err)})
		return
	}

	middleware.SetFlash(w, "Password updated. Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *StudentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rec := middleware.Record(r)

	student, err := h.auth.GetStudent(r.Context(), *rec.StudentID)
	if err != nil {
		log.Printf("dashboard student lookup: %v", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	categories, protected, err := h.catalog.DashboardCategories(r.Context())
	if err != nil {
		log.Printf("dashboard categories: %v", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.render.Render(w, "dashboard", map[string]any{
		"Student":    student,
		"Categories": categories,
		"Protected":  protected,
		"Unlocked":   rec.Unlocked,
	})
}

func (h *StudentHandler) Category(w http.ResponseWriter, r *http.Request) {
	name := categoryParam(r)
	rec := middleware.Record(r)

	unlocked, err := h.catalog.ResolveCategoryAccess(r.Context(), name, rec)
	if err != nil {
		log.Printf("category access: %v", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if !unlocked {
		h.render.Render(w, "category-lock", map[string]any{"Category": name, "Error": nil})
		return
	}

	resources, err := h.catalog.CategoryResources(r.Context(), name)
	if err != nil {
		log.Printf("category resources: %v", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.render.Render(w, "category", map[string]any{"Category": name, "Resources": resources})
}

func (h *StudentHandler) UnlockCategory(w http.ResponseWriter, r *http.Request) {
	name := categoryParam(r)
	rec := middleware.Record(r)

	if err := h.catalog.AttemptUnlock(r.Context(), name, r.FormValue("password"), rec); err != nil {
		h.render.Render(w, "category-lock", map[string]any{"Category": name, "Error": errorMessage(err)})
		return
	}

	if err := h.sessions.Save(r, rec); err != nil {
		log.Printf("session save error: %v", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/category/"+url.PathEscape(name), http.StatusSeeOther)
}

// ViewPDF relays a stored PDF through the server, forcing headers that make
// the browser display it inline. Cloudinary serves raw assets with a
// disposition that triggers a download; the override is the whole point of
// this endpoint.
func (h *StudentHandler) ViewPDF(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "PDF not found", http.StatusNotFound)
		return
	}

	resource, err := h.catalog.GetResource(r.Context(), id)
	if err != nil || resource.Type != models.ResourceTypePDF {
		http.Error(w, "PDF not found", http.StatusNotFound)
		return
	}

	// Disk-mode uploads have server-relative URLs; the static file server
	// already delivers those with sane headers.
	if !strings.HasPrefix(resource.URL, "http") {
		http.Redirect(w, r, resource.URL, http.StatusSeeOther)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, resource.URL, nil)
	if err != nil {
		http.Error(w, "Error loading PDF", http.StatusBadGateway)
		return
	}

	resp, err := h.proxyClient.Do(req)
	if err != nil {
		log.Printf("pdf proxy error: %v", err)
		http.Error(w, "Error loading PDF", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		http.Error(w, "Error fetching PDF from storage", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline")
	io.Copy(w, resp.Body)
}

func categoryParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

// errorMessage maps service errors to the message shown on the re-rendered
// form. Anything outside the taxonomy is logged and kept generic.
func errorMessage(err error) string {
	switch err.(type) {
	case *services.ValidationError,
		*services.ConflictError,
		*services.NotFoundError,
		*services.UnauthorizedError,
		*services.ForbiddenError:
		return err.Error()
	}
	log.Printf("unexpected error: %v", err)
	return "Something went wrong"
}
