package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/healthlog/internal/common"
	"github.com/dmitrijs2005/healthlog/internal/logging"
	"github.com/dmitrijs2005/healthlog/internal/server/services"
)

// AuthHandler handles the session lifecycle endpoints.
type AuthHandler struct {
	service *services.AuthService
	logger  logging.Logger
}

func NewAuthHandler(svc *services.AuthService, logger logging.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func validateRegister(req *registerRequest) error {
	if _, err := mail.ParseAddress(req.Email); err != nil || strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("%w: email is not a valid address", common.ErrValidation)
	}
	if len(req.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", common.ErrValidation)
	}
	if len(strings.TrimSpace(req.Name)) < 2 {
		return fmt.Errorf("%w: name must be at least 2 characters", common.ErrValidation)
	}
	return nil
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validateRegister(&req); err != nil {
		writeAppError(w, r, err)
		return
	}

	res, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// Logout handles POST /auth/logout. It succeeds no matter what the body
// holds: revoking a dead token is not an error worth reporting.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	// Decode failures are deliberately ignored; logout still succeeds.
	_ = decodeBestEffort(r, &req)

	h.service.Logout(r.Context(), req.RefreshToken)

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /account/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())

	account, err := h.service.GetAccountByID(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "account not found")
			return
		}
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}
