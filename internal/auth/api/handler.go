package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"prepauth/internal/auth/session"
	"prepauth/internal/identity"
)

// Handler wires the HTTP auth endpoints to the session authenticator and
// the identity provider's account operations.
type Handler struct {
	log      *slog.Logger
	auth     *session.Authenticator
	accounts identity.PasswordAuthenticator
	metrics  *Metrics
}

// NewHandler constructs the auth handler. metrics may be nil, in which case
// no counters are recorded.
func NewHandler(log *slog.Logger, auth *session.Authenticator, accounts identity.PasswordAuthenticator, metrics *Metrics) (*Handler, error) {
	if auth == nil || accounts == nil {
		return nil, errors.New("authapi: nil dependency")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{log: log, auth: auth, accounts: accounts, metrics: metrics}, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/auth/signup", h.handleSignUp)
	mux.HandleFunc("/auth/signin", h.handleSignIn)
	mux.HandleFunc("/auth/signout", h.handleSignOut)
	mux.HandleFunc("/me", h.handleMe)
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, session.Result{Success: false, Message: "method not allowed"})
		return
	}

	var req signUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.metrics.observeSignUp("bad_request")
		writeJSON(w, http.StatusBadRequest, session.Result{Success: false, Message: session.MsgSignUpFailed})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		h.metrics.observeSignUp("bad_request")
		writeJSON(w, http.StatusBadRequest, session.Result{Success: false, Message: session.MsgSignUpFailed})
		return
	}

	id, err := h.accounts.CreateAccount(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case identity.IsEmailExists(err):
			h.metrics.observeSignUp("email_in_use")
			writeJSON(w, http.StatusConflict, session.Result{Success: false, Message: session.MsgEmailInUse})
		case identity.IsInvalidInput(err):
			h.metrics.observeSignUp("bad_request")
			writeJSON(w, http.StatusBadRequest, session.Result{Success: false, Message: session.MsgSignUpFailed})
		default:
			h.log.Error("auth.signup.provider_fail", "err", err)
			h.metrics.observeSignUp("error")
			writeJSON(w, http.StatusInternalServerError, session.Result{Success: false, Message: session.MsgSignUpFailed})
		}
		return
	}

	res := h.auth.SignUp(r.Context(), session.SignUpParams{UID: id.UID, Name: req.Name, Email: req.Email})
	h.metrics.observeSignUp(signUpOutcome(res))
	writeJSON(w, signUpStatus(res), res)
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, session.Result{Success: false, Message: "method not allowed"})
		return
	}

	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.metrics.observeSignIn("bad_request")
		writeJSON(w, http.StatusBadRequest, session.Result{Success: false, Message: session.MsgSignInFailed})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || (req.Password == "") == (req.IDToken == "") {
		h.metrics.observeSignIn("bad_request")
		writeJSON(w, http.StatusBadRequest, session.Result{Success: false, Message: session.MsgSignInFailed})
		return
	}

	idToken := req.IDToken
	if idToken == "" {
		tok, err := h.accounts.SignInWithPassword(r.Context(), req.Email, req.Password)
		if err != nil {
			res := session.Result{Success: false, Message: signInErrorMessage(err)}
			if res.Message == session.MsgSignInFailed {
				h.log.Error("auth.signin.provider_fail", "err", err)
			}
			h.metrics.observeSignIn(signInOutcome(res))
			writeJSON(w, signInStatus(res), res)
			return
		}
		idToken = tok
	}

	res := h.auth.SignIn(r.Context(), w, req.Email, idToken)
	h.metrics.observeSignIn(signInOutcome(res))
	writeJSON(w, signInStatus(res), res)
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, session.Result{Success: false, Message: "method not allowed"})
		return
	}

	h.auth.SignOut(r.Context(), w, r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, session.Result{Success: false, Message: "method not allowed"})
		return
	}

	u := h.auth.CurrentUser(r.Context(), r)
	if u == nil {
		writeJSON(w, http.StatusUnauthorized, meResponse{User: nil})
		return
	}
	writeJSON(w, http.StatusOK, meResponse{User: u})
}

func signInErrorMessage(err error) string {
	switch {
	case identity.IsUserNotFound(err):
		return session.MsgUserMissing
	case identity.IsInvalidCredential(err):
		return session.MsgInvalidCredentials
	case identity.IsExpired(err):
		return session.MsgSessionExpired
	default:
		return session.MsgSignInFailed
	}
}

func signUpStatus(res session.Result) int {
	switch {
	case res.Success:
		return http.StatusCreated
	case res.Message == session.MsgUserExists || res.Message == session.MsgEmailInUse:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func signUpOutcome(res session.Result) string {
	switch res.Message {
	case session.MsgSignUpOK:
		return "ok"
	case session.MsgUserExists:
		return "exists"
	case session.MsgEmailInUse:
		return "email_in_use"
	default:
		return "error"
	}
}

func signInStatus(res session.Result) int {
	switch res.Message {
	case "":
		return http.StatusOK
	case session.MsgUserMissing:
		return http.StatusNotFound
	case session.MsgInvalidCredentials, session.MsgSessionExpired:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func signInOutcome(res session.Result) string {
	switch res.Message {
	case "":
		return "ok"
	case session.MsgUserMissing:
		return "user_missing"
	case session.MsgInvalidCredentials:
		return "invalid_credentials"
	case session.MsgSessionExpired:
		return "expired"
	case session.MsgSignInFailed:
		return "error"
	default:
		return "bad_request"
	}
}
