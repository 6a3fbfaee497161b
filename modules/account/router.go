package account

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/cookie"
	"github.com/dmitrymomot/authkit/pkg/file"
	"github.com/dmitrymomot/authkit/pkg/logger"
)

// maxUploadSize bounds the multipart form held in memory during register.
const maxUploadSize = 10 << 20 // 10 MiB

// avatarFolder is where profile pictures land in the asset store.
const avatarFolder = "profile_pictures"

// Service handles the account HTTP flow.
type Service struct {
	authSvc *auth.Service
	cookies *cookie.Manager
	assets  file.Storage
	log     *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the module logger; the default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService wires the account module. assets may be nil, in which case
// profile-picture uploads are silently skipped.
func NewService(authSvc *auth.Service, cookies *cookie.Manager, assets file.Storage, opts ...Option) *Service {
	s := &Service{
		authSvc: authSvc,
		cookies: cookies,
		assets:  assets,
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router mounts the account routes.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/register", s.registerForm)
	r.Post("/register", s.register)
	r.Get("/login", s.loginForm)
	r.Post("/login", s.login)
	r.Get("/profile", s.profile)
	r.Get("/logout", s.logout)

	return r
}

func (s *Service) registerForm(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, `<div>
  <form method="post" enctype="multipart/form-data">
    <input type="email" placeholder="email" name="email" />
    <input type="password" placeholder="password" name="password" />
    <input type="file" name="profilePicture" />
    <button>create account</button>
  </form>
</div>`)
}

func (s *Service) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		// Plain form posts (no file input) are fine too.
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, jsonResponse{
				Error: &errorDetail{Code: "bad_request", Message: "unreadable form"},
			})
			return
		}
	}

	email := r.PostFormValue("email")
	plaintext := r.PostFormValue("password")

	avatarRef, err := s.storeAvatar(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, jsonResponse{
			Error: &errorDetail{Code: "bad_upload", Message: "profile picture must be an image"},
		})
		return
	}

	session, err := s.authSvc.Register(r.Context(), email, plaintext, avatarRef)
	if err != nil {
		writeError(w, err)
		return
	}

	s.setSessionCookie(w, session)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (s *Service) loginForm(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, `<div>
  <form method="post">
    <input type="email" placeholder="email" name="email" />
    <input type="password" placeholder="password" name="password" />
    <button>login</button>
  </form>
</div>`)
}

func (s *Service) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, jsonResponse{
			Error: &errorDetail{Code: "bad_request", Message: "unreadable form"},
		})
		return
	}

	session, err := s.authSvc.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		writeError(w, err)
		return
	}

	s.setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, jsonResponse{
		Message: "logged in",
		Data:    map[string]string{"email": session.User.Email},
	})
}

func (s *Service) profile(w http.ResponseWriter, r *http.Request) {
	token, err := s.cookies.Get(r, auth.CookieName)
	if err != nil {
		writeError(w, auth.ErrUnauthenticated)
		return
	}

	claims, err := s.authSvc.WhoAmI(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{
		Data: map[string]any{
			"email":      claims.Email,
			"subject_id": claims.Subject,
			"issued_at":  claims.IssuedAt,
			"expires_at": claims.ExpiresAt,
		},
	})
}

func (s *Service) logout(w http.ResponseWriter, r *http.Request) {
	// Best effort: revoke the presented token when revocation is enabled.
	if token, err := s.cookies.Get(r, auth.CookieName); err == nil {
		s.authSvc.Logout(r.Context(), token)
	}

	s.cookies.Delete(w, auth.CookieName)
	w.WriteHeader(http.StatusNoContent)
}

// storeAvatar saves an optional profilePicture upload and returns its
// storage reference; an absent file is not an error.
func (s *Service) storeAvatar(r *http.Request) (string, error) {
	if s.assets == nil || r.MultipartForm == nil {
		return "", nil
	}

	files := r.MultipartForm.File["profilePicture"]
	if len(files) == 0 {
		return "", nil
	}
	fh := files[0]

	if !file.IsImage(fh) {
		return "", file.ErrNotAnImage
	}

	path := fmt.Sprintf("%s/profile_picture_%s%s",
		avatarFolder,
		time.Now().UTC().Format(time.RFC3339Nano),
		filepath.Ext(file.SanitizeFilename(fh.Filename)),
	)

	asset, err := s.assets.Save(r.Context(), fh, path)
	if err != nil {
		s.log.Error("avatar upload failed", slog.String("error", err.Error()))
		return "", err
	}
	return asset.Path, nil
}

func (s *Service) setSessionCookie(w http.ResponseWriter, session *auth.Session) {
	s.cookies.Set(w, auth.CookieName, session.Token,
		cookie.WithMaxAge(int(s.authSvc.SessionTTL().Seconds())),
	)
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}
