package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zlnvch/webnotes/service"
)

const SessionCookieName = "session"

type Handler struct {
	Service       *service.Service
	Logger        *zap.Logger
	SecureCookies bool
}

func NewHandler(svc *service.Service, logger *zap.Logger, secureCookies bool) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: svc, Logger: logger, SecureCookies: secureCookies}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type noteRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type errorResponse struct {
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail"`
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	sessionId, err := h.Service.OpenSession(r.Context(), user.Id, "")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.setSessionCookie(w, sessionId)

	h.sendResponse(w, http.StatusOK, user)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userId, token, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	sessionId, err := h.Service.OpenSession(r.Context(), userId, token)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.setSessionCookie(w, sessionId)

	h.sendResponse(w, http.StatusOK, loginResponse{AccessToken: token})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.Service.CloseSession(r.Context(), cookie.Value); err != nil {
			h.handleServiceError(w, r, err)
			return
		}
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleListUsers lists every registered user to any caller holding a
// valid session.
func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.sendResponse(w, http.StatusOK, users)
}

func (h *Handler) HandleListNotes(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	notes, err := h.Service.ListNotes(r.Context(), user.Id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.sendResponse(w, http.StatusOK, notes)
}

func (h *Handler) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.Service.AddNote(r.Context(), user.Id, req.Title, req.Text)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.sendResponse(w, http.StatusOK, note)
}

func (h *Handler) HandleUpdateNote(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	noteId, err := service.ParseNoteId(chi.URLParam(r, "noteId"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.Service.UpdateNote(r.Context(), user.Id, noteId, req.Title, req.Text)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.sendResponse(w, http.StatusOK, note)
}

func (h *Handler) HandleDeleteNote(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	noteId, err := service.ParseNoteId(chi.URLParam(r, "noteId"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if err := h.Service.DeleteNote(r.Context(), user.Id, noteId); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetNote serves any note by id without authentication.
func (h *Handler) HandleGetNote(w http.ResponseWriter, r *http.Request) {
	noteId, err := service.ParseNoteId(chi.URLParam(r, "noteId"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	note, err := h.Service.GetNote(r.Context(), noteId)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.sendResponse(w, http.StatusOK, note)
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrConflict, http.StatusConflict},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrBadRequest, http.StatusBadRequest},
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			h.sendError(w, e.status, detailFor(err, e.err))
			return
		}
	}

	h.Logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	h.sendError(w, http.StatusInternalServerError, "internal server error")
}

// detailFor strips the sentinel prefix from a wrapped error message.
func detailFor(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

func (h *Handler) sendResponse(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) sendError(w http.ResponseWriter, status int, detail string) {
	h.sendResponse(w, status, errorResponse{StatusCode: status, Detail: detail})
}

func getTokenFromAuthHeader(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
	return token, token != ""
}
