package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"learngate/internal/handlers"
	"learngate/internal/middleware"
	"learngate/internal/storage"
)

func New(
	auth *middleware.Auth,
	studentHandler *handlers.StudentHandler,
	adminHandler *handlers.AdminHandler,
	uploads storage.Uploader,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(auth.LoadSession)

	// Health check doubles as the storage-mode diagnostic: disk-mode
	// uploads do not survive a redeploy, and operators find that out here
	// rather than from a broken PDF link.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if uploads.Mode() == storage.ModeDisk {
			w.Write([]byte(`{"status":"ok","storage":"disk","warning":"uploaded files are not durable across restarts"}`))
			return
		}
		w.Write([]byte(`{"status":"ok","storage":"` + uploads.Mode() + `"}`))
	})

	// ──── Student identity (public) ────
	r.Get("/", studentHandler.Landing)
	r.Get("/signup", studentHandler.SignupPage)
	r.Post("/signup", studentHandler.Signup)
	r.Get("/login", studentHandler.LoginPage)
	r.Post("/login", studentHandler.Login)
	r.Get("/logout", studentHandler.Logout)
	r.Get("/forgot-password", studentHandler.ForgotPasswordPage)
	r.Post("/forgot-password", studentHandler.ForgotPassword)
	r.Post("/reset-password", studentHandler.ResetPassword)

	// ──── Student pages (gated) ────
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireStudent)
		r.Use(auth.CheckBlocked)
		r.Get("/dashboard", studentHandler.Dashboard)
		r.Get("/category/{name}", studentHandler.Category)
		r.Post("/category/{name}/unlock", studentHandler.UnlockCategory)
		r.Get("/view-pdf/{id}", studentHandler.ViewPDF)
	})

	// ──── Admin panel ────
	r.Route("/admin", func(r chi.Router) {
		r.Get("/", adminHandler.LoginPage)
		r.Post("/login", adminHandler.Login)
		r.Get("/logout", adminHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/dashboard", adminHandler.Dashboard)
			r.Get("/resources", adminHandler.Resources)
			r.Get("/resource/add", adminHandler.AddResourcePage)
			r.Post("/resource/add", adminHandler.AddResource)
			r.Get("/resource/edit/{id}", adminHandler.EditResourcePage)
			r.Post("/resource/edit/{id}", adminHandler.EditResource)
			r.Post("/resource/delete/{id}", adminHandler.DeleteResource)
			r.Get("/students", adminHandler.Students)
			r.Post("/block/{id}", adminHandler.ToggleBlock)
		})
	})

	// Disk-mode uploads are served straight off the filesystem.
	if disk, ok := uploads.(*storage.DiskUploader); ok {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(disk.Dir()))))
	}

	return r
}
