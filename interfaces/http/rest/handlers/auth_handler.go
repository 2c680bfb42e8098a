package handlers

import (
	"context"
	"net/http"

	"lovelog-backend/infrastructure/persistence"
	"lovelog-backend/pkg/auth"
	"lovelog-backend/pkg/common"
	apperrors "lovelog-backend/pkg/errors"
	"lovelog-backend/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves account registration and login. Accounts live in their
// own collection behind the same gateway as the journal kinds, so auth keeps
// working when the durable store is down (accounts created then are as
// ephemeral as any other memory-store record).
type AuthHandler struct {
	users  *persistence.Gateway
	tokens *auth.Service
	logger *zap.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(users *persistence.Gateway, tokens *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, logger: logger}
}

// CredentialsRequest is the body for register and login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the sanitized account and a signed token.
type AuthResponse struct {
	User  persistence.Record `json:"user"`
	Token string             `json:"token"`
}

// Register handles POST /auth/register. A taken username is a 400; clients
// depend on that status for the conflict.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	existing, err := h.findByUsername(r.Context(), req.Username)
	if err != nil {
		h.logger.Error("Failed to look up account", zap.Error(err))
		respondError(w, apperrors.NewDatabaseError("server error", err))
		return
	}
	if existing != nil {
		respondError(w, apperrors.NewConflictError("username already exists"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("Failed to hash password", zap.Error(err))
		respondError(w, apperrors.NewInternalError("server error"))
		return
	}

	record, err := h.users.Create(r.Context(), persistence.Record{
		"username": req.Username,
		"password": string(hash),
		"isCouple": true,
	})
	if err != nil {
		h.logger.Error("Failed to create account", zap.Error(err))
		respondError(w, apperrors.NewDatabaseError("server error", err))
		return
	}

	token, err := h.tokens.GenerateToken(record.ID(), req.Username)
	if err != nil {
		h.logger.Error("Failed to sign token", zap.Error(err))
		respondError(w, apperrors.NewInternalError("server error"))
		return
	}
	common.RespondJSON(w, http.StatusCreated, AuthResponse{User: sanitizeUser(record), Token: token})
}

// Login handles POST /auth/login. Unknown usernames and wrong passwords get
// the same message so the response does not leak which one was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	record, err := h.findByUsername(r.Context(), req.Username)
	if err != nil {
		h.logger.Error("Failed to look up account", zap.Error(err))
		respondError(w, apperrors.NewDatabaseError("server error", err))
		return
	}
	if record == nil {
		common.RespondMessage(w, http.StatusBadRequest, "invalid username or password")
		return
	}

	hash, _ := record["password"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		common.RespondMessage(w, http.StatusBadRequest, "invalid username or password")
		return
	}

	token, err := h.tokens.GenerateToken(record.ID(), req.Username)
	if err != nil {
		h.logger.Error("Failed to sign token", zap.Error(err))
		respondError(w, apperrors.NewInternalError("server error"))
		return
	}
	common.RespondJSON(w, http.StatusOK, AuthResponse{User: sanitizeUser(record), Token: token})
}

func (h *AuthHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (*CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := common.ParseJSONBody(w, r, &req, 1<<20); err != nil {
		respondError(w, apperrors.NewValidationError("invalid request body"))
		return nil, false
	}
	if err := utils.ValidateStruct(&req); err != nil {
		respondError(w, apperrors.NewValidationError(err.Error()))
		return nil, false
	}
	return &req, true
}

// findByUsername scans the small accounts collection. Returns nil, nil when
// no account matches.
func (h *AuthHandler) findByUsername(ctx context.Context, username string) (persistence.Record, error) {
	records, err := h.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if name, _ := rec["username"].(string); name == username {
			return rec, nil
		}
	}
	return nil, nil
}

func sanitizeUser(record persistence.Record) persistence.Record {
	out := record.Clone()
	delete(out, "password")
	return out
}
