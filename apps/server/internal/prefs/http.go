package prefs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"idoubtit-lite/apps/server/internal/auth"
)

type HTTPHandler struct {
	store Service
	auth  auth.Service
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(store Service, authSvc auth.Service) *HTTPHandler {
	return &HTTPHandler{store: store, auth: authSvc}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/prefs", h.handlePrefs)
}

func (h *HTTPHandler) handlePrefs(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing session token")
		return
	}
	accountID, _, ok := h.auth.ResolveSession(token)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid session token")
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := h.store.Get(r.Context(), accountID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "load preferences failed")
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodPut:
		var p Prefs
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := h.store.Put(r.Context(), accountID, p); err != nil {
			if errors.Is(err, ErrInvalidPrefs) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "save preferences failed")
			return
		}
		writeJSON(w, http.StatusOK, p)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func bearerToken(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
