package web

import (
	"bytes"
	"context"
	"net/http"

	"github.com/gdg-garage/activity-board/internal/board"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

const defaultTitle = "Mergington High School"

// Dispatcher consumes board actions.
type Dispatcher interface {
	HandleAction(ctx context.Context, action board.Action) board.Outcome
}

// BoardHandler serves the board page and its two forms.
type BoardHandler struct {
	sessions *Sessions
	logger   *zap.Logger
	title    string
}

func NewBoardHandler(sessions *Sessions, logger *zap.Logger) *BoardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardHandler{sessions: sessions, logger: logger, title: defaultTitle}
}

// NewRouter mounts the board routes. Extra middlewares (CSRF protection) run
// after the standard chi stack.
func NewRouter(h *BoardHandler, middlewares ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/", h.ServeBoard)
	r.Post("/signup", h.HandleSignup)
	r.Post("/unregister", h.HandleUnregister)
	return r
}

// ServeBoard handles GET /
func (h *BoardHandler) ServeBoard(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	var visitor *Visitor
	if vs := h.sessions.lookup(r); vs != nil {
		visitor = vs.visitor
	}
	if err := renderPage(&buf, h.title, pageState(h.sessions.page, visitor), csrf.TemplateField(r)); err != nil {
		h.logger.Error("Error rendering board page", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("Error writing board page", zap.Error(err))
	}
}

// HandleSignup handles POST /signup
func (h *BoardHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	draft := Draft{Email: r.PostForm.Get("email"), Activity: r.PostForm.Get("activity")}
	if draft.Email == "" || draft.Activity == "" {
		http.Error(w, "Email and activity are required", http.StatusBadRequest)
		return
	}

	vs, ok := h.session(w, r)
	if !ok {
		return
	}
	vs.visitor.SetDraft(draft)
	vs.dispatcher.HandleAction(r.Context(), board.Signup{Activity: draft.Activity, Email: draft.Email})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleUnregister handles POST /unregister. Every removal control of the
// list submits the same form, so one handler serves all of them.
func (h *BoardHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	key, err := board.ParseParticipantKey(r.PostForm.Get(board.RemovalField))
	if err != nil {
		http.Error(w, "Invalid participant", http.StatusBadRequest)
		return
	}

	vs, ok := h.session(w, r)
	if !ok {
		return
	}
	vs.dispatcher.HandleAction(r.Context(), board.Unregister{Key: key})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *BoardHandler) session(w http.ResponseWriter, r *http.Request) (*visitorSession, bool) {
	vs, err := h.sessions.obtain(w, r)
	if err != nil {
		h.logger.Error("Error starting board session", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return vs, true
}

// CSRF protects the board forms with gorilla/csrf. Without secure cookies the
// requests are marked as plaintext HTTP so the origin check accepts them.
func CSRF(authKey []byte, secure bool) func(http.Handler) http.Handler {
	protect := csrf.Protect(authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
