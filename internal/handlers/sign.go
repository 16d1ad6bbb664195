package handlers

import (
	"log/slog"
	"net/http"

	"github.com/marcogenualdo/taddoist/internal/auth"
	"github.com/marcogenualdo/taddoist/internal/auth/google"
	"github.com/marcogenualdo/taddoist/internal/session"
	"github.com/marcogenualdo/taddoist/internal/store"
)

type SignHandler struct {
	baseURL         string
	google          *auth.Flow[*google.Token]
	todoist         *auth.Flow[string]
	sessions        *session.Manager
	store           store.Store
	allowUnverified bool
	render          *Renderer
	logger          *slog.Logger
}

type SignOptions struct {
	BaseURL              string
	AllowUnverifiedEmail bool
}

func NewSignHandler(
	opts SignOptions,
	googleFlow *auth.Flow[*google.Token],
	todoistFlow *auth.Flow[string],
	sessions *session.Manager,
	st store.Store,
	render *Renderer,
	logger *slog.Logger,
) *SignHandler {
	return &SignHandler{
		baseURL:         opts.BaseURL,
		google:          googleFlow,
		todoist:         todoistFlow,
		sessions:        sessions,
		store:           st,
		allowUnverified: opts.AllowUnverifiedEmail,
		render:          render,
		logger:          logger,
	}
}

func (h *SignHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	backlink := safeBacklink(r.URL.Query().Get("backlink"))

	loginURL, err := h.google.LoginURL(w, map[string]any{"backlink": backlink}, h.baseURL+googleCallback)
	if err != nil {
		h.logger.Error("failed to build login url", "provider", h.google.Provider(), "error", err)
		h.render.Message(w, r, http.StatusInternalServerError, Message{
			Heading: "Sign-in unavailable",
			Text:    "We could not start the sign-in. Please try again.",
		})
		return
	}

	http.Redirect(w, r, loginURL, http.StatusFound)
}

func (h *SignHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	result, err := h.google.Callback(w, r)
	if err != nil {
		h.authFailure(w, r, h.google.Provider(), googleSignInPath, err)
		return
	}

	email := result.Token.Email(!h.allowUnverified)
	if email == "" {
		h.logger.Warn("google account without verified email",
			"subject", result.Token.Claims.Subject,
			"email_verified", result.Token.Claims.EmailVerified,
		)
		h.render.Message(w, r, http.StatusForbidden, Message{
			Heading: "Email not verified",
			Text:    "Your Google account has no verified email address.",
		})
		return
	}

	if err := h.sessions.Issue(w, email); err != nil {
		h.logger.Error("failed to issue identity", "error", err)
		h.render.Message(w, r, http.StatusInternalServerError, Message{
			Heading:  "Sign-in failed",
			Text:     "Something went wrong while signing you in.",
			RetryURL: googleSignInPath,
		})
		return
	}

	h.logger.Info("user signed in", "provider", h.google.Provider(), "user", email)

	http.Redirect(w, r, backlinkFrom(result.Data), http.StatusFound)
}

func (h *SignHandler) TodoistLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := userFrom(r); !ok {
		http.Redirect(w, r, withBacklink(googleSignInPath, r.URL.RequestURI()), http.StatusFound)
		return
	}

	backlink := safeBacklink(r.URL.Query().Get("backlink"))

	loginURL, err := h.todoist.LoginURL(w, map[string]any{"backlink": backlink}, h.baseURL+todoistCallback)
	if err != nil {
		h.logger.Error("failed to build login url", "provider", h.todoist.Provider(), "error", err)
		h.render.Message(w, r, http.StatusInternalServerError, Message{
			Heading: "Linking unavailable",
			Text:    "We could not start linking your Todoist account. Please try again.",
		})
		return
	}

	http.Redirect(w, r, loginURL, http.StatusFound)
}

func (h *SignHandler) TodoistCallback(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r)
	if !ok {
		// The code is left unused; the flow restarts after sign-in.
		http.Redirect(w, r, withBacklink(googleSignInPath, todoistSignInPath), http.StatusFound)
		return
	}

	result, err := h.todoist.Callback(w, r)
	if err != nil {
		h.authFailure(w, r, h.todoist.Provider(), todoistSignInPath, err)
		return
	}

	if err := h.store.Set(r.Context(), user, store.TodoistTokenKey, result.Token); err != nil {
		h.logger.Error("failed to store todoist token", "user", user, "error", err)
		h.render.Message(w, r, http.StatusInternalServerError, Message{
			Heading:  "Linking failed",
			Text:     "Your Todoist account could not be saved.",
			RetryURL: todoistSignInPath,
		})
		return
	}

	h.logger.Info("todoist account linked", "user", user)

	http.Redirect(w, r, backlinkFrom(result.Data), http.StatusFound)
}

func (h *SignHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// authFailure maps a failed callback to a page. Causes are logged, never
// shown.
func (h *SignHandler) authFailure(w http.ResponseWriter, r *http.Request, provider, retryPath string, err error) {
	authErr, ok := auth.AsError(err)
	if !ok {
		h.logger.Error("authorization failed", "provider", provider, "error", err)
		h.render.Message(w, r, http.StatusInternalServerError, Message{
			Heading:  "Something went wrong",
			Text:     "The sign-in did not complete.",
			RetryURL: retryPath,
		})
		return
	}

	switch {
	case authErr.Kind == auth.KindDenied:
		h.logger.Info("authorization declined", "provider", provider)
		h.render.Message(w, r, http.StatusForbidden, Message{
			Heading:  "Authorization declined",
			Text:     "You declined the authorization request. You can try again whenever you like.",
			RetryURL: retryPath,
		})

	case authErr.Kind.Fault():
		h.logger.Error("authorization failed",
			"provider", provider,
			"kind", authErr.Kind.String(),
			"provider_code", authErr.ProviderCode,
			"error", err,
		)
		h.render.Message(w, r, http.StatusInternalServerError, Message{
			Heading:  "Something went wrong",
			Text:     "The sign-in did not complete.",
			RetryURL: retryPath,
		})

	default:
		h.logger.Warn("invalid authorization response",
			"provider", provider,
			"kind", authErr.Kind.String(),
			"provided_csrf", authErr.ProvidedCSRF,
			"expected_csrf", authErr.ExpectedCSRF,
			"error", err,
		)
		h.render.Message(w, r, http.StatusBadRequest, Message{
			Heading:  "Invalid response",
			Text:     "The authorization response was invalid.",
			RetryURL: retryPath,
		})
	}
}
