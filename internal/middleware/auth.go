package middleware

import (
	"context"
	"log"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"learngate/internal/models"
	"learngate/internal/session"
)

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	recordKey    contextKey = "session_record"
)

// StudentFinder is the slice of the student repository the blocked-check
// needs.
type StudentFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
}

// Renderer lets the blocked-check render a terminal page without depending
// on the handlers package.
type Renderer interface {
	Render(w http.ResponseWriter, name string, data any)
}

// Auth owns the session cookie and the request guards. LoadSession runs
// globally; the guards are attached per route group.
type Auth struct {
	store      *session.Store
	students   StudentFinder
	render     Renderer
	cookieName string
	secure     bool
}

func NewAuth(store *session.Store, students StudentFinder, render Renderer, cookieName string, secure bool) *Auth {
	return &Auth{
		store:      store,
		students:   students,
		render:     render,
		cookieName: cookieName,
		secure:     secure,
	}
}

func SessionID(r *http.Request) string {
	v := r.Context().Value(sessionIDKey)
	if v == nil {
		return ""
	}
	return v.(string)
}

func Record(r *http.Request) *session.Record {
	v := r.Context().Value(recordKey)
	if v == nil {
		return nil
	}
	return v.(*session.Record)
}

// LoadSession resolves the session cookie to its server-side record and
// attaches both to the request context. Requests without a live session
// pass through with no record; the guards decide what that means.
func (a *Auth) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(a.cookieName)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		rec, ok, err := a.store.Get(r.Context(), c.Value)
		if err != nil {
			log.Printf("session load error: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			a.clearCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, c.Value)
		ctx = context.WithValue(ctx, recordKey, rec)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStudent denies requests without a student session, redirecting to
// the student login with a reason.
func (a *Auth) RequireStudent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Record(r)
		if rec == nil || !rec.IsStudent() {
			SetFlash(w, "Please login first")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin denies requests without an admin session, redirecting to the
// admin login with a reason.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Record(r)
		if rec == nil || !rec.IsAdmin() {
			SetFlash(w, "Admin access required")
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CheckBlocked re-reads the student row on every gated request so an admin
// block lands on the student's very next request. A blocked student's
// session is destroyed, not flagged; nothing downstream runs.
func (a *Auth) CheckBlocked(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Record(r)
		if rec != nil && rec.IsStudent() {
			student, err := a.students.GetByID(r.Context(), *rec.StudentID)
			if err != nil {
				log.Printf("blocked check error: %v", err)
			} else if student.IsBlocked {
				a.Destroy(w, r)
				a.render.Render(w, "login", map[string]any{
					"Error": "Your account has been blocked by admin.",
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Begin creates a fresh session for the given record and sets the cookie.
func (a *Auth) Begin(w http.ResponseWriter, r *http.Request, rec *session.Record) (string, error) {
	sid := session.NewSessionID()
	if err := a.store.Save(r.Context(), sid, rec); err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.secure,
	})

	return sid, nil
}

// Save persists mutations to the current request's session record.
func (a *Auth) Save(r *http.Request, rec *session.Record) error {
	sid := SessionID(r)
	if sid == "" {
		return nil
	}
	return a.store.Save(r.Context(), sid, rec)
}

// Destroy deletes the server-side record and expires the cookie. The
// session is gone for good; callers must not touch it afterwards.
func (a *Auth) Destroy(w http.ResponseWriter, r *http.Request) {
	if sid := SessionID(r); sid != "" {
		if err := a.store.Delete(r.Context(), sid); err != nil {
			log.Printf("session destroy error: %v", err)
		}
	}
	a.clearCookie(w)
}

func (a *Auth) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

const flashCookie = "learngate_flash"

// SetFlash stashes a one-shot message for the next page render.
func SetFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60,
	})
}

// PopFlash returns the pending flash message, clearing it.
func PopFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:   flashCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
