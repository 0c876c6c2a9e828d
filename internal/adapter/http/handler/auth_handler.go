package handler

import (
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/http/response"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/usecase"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/metrics"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth     AuthService
	accounts AccountService
	metrics  *metrics.MetricsManager
	logger   *logger.Logger
}

func NewAuthHandler(auth AuthService, accounts AccountService, m *metrics.MetricsManager, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, accounts: accounts, metrics: m, logger: log.Named("AuthHandler")}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      *domain.Profile `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req usecase.RegisterInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	profile, err := h.auth.Register(r.Context(), req)
	if err != nil {
		h.logger.Warn("Registration failed", zap.Error(err))
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, profile)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, loginResponse{
		Token:     result.Session.Token,
		ExpiresAt: result.Session.ExpiresAt,
		User:      result.Profile,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.auth.Logout(r.Context(), actor.Session); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// DeleteAccount removes the caller together with their listings.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.accounts.DeleteUserCascade(r.Context(), actor, actor.UserID); err != nil {
		h.logger.Error("Account deletion failed", zap.String("user_id", actor.UserID), zap.Error(err))
		response.Error(w, err)
		return
	}
	h.metrics.UsersDeleted.Inc()
	response.NoContent(w)
}
