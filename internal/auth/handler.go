package auth

import (
	"net/http"

	"github.com/nixfunds/finance-api/internal/httputil"
	"github.com/nixfunds/finance-api/internal/logging"
)

// Handler handles HTTP requests for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CredentialsRequest is the body of signup and login
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles account creation
// @Summary      Sign up
// @Description  Create an account and receive a bearer token valid for 7 days
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Signup credentials"
// @Success      201 {object} Session
// @Failure      400 {object} httputil.ErrorResponse "Invalid email or weak password"
// @Failure      409 {object} httputil.ErrorResponse "Email already registered"
// @Failure      429 {object} httputil.ErrorResponse "Too many attempts"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req CredentialsRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid signup request body", "error", err.Error())
		httputil.RespondError(w, r, err)
		return
	}

	session, err := h.service.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("signup failed", "error", err.Error())
		httputil.RespondError(w, r, err)
		return
	}

	logger.Info("user signed up", "email", session.Email)
	httputil.RespondJSON(w, r, session, http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate with email and password and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Login credentials"
// @Success      200 {object} Session
// @Failure      400 {object} httputil.ErrorResponse "Invalid email or password too short"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      429 {object} httputil.ErrorResponse "Too many attempts"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req CredentialsRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondError(w, r, err)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("login failed", "error", err.Error())
		httputil.RespondError(w, r, err)
		return
	}

	logger.Info("user logged in successfully", "email", session.Email)
	httputil.RespondJSON(w, r, session, http.StatusOK)
}
