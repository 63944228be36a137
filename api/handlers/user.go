package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/medication-reminder-api/api"
	"github.com/linesmerrill/medication-reminder-api/auth"
	"github.com/linesmerrill/medication-reminder-api/databases"
	"github.com/linesmerrill/medication-reminder-api/models"
	"github.com/linesmerrill/medication-reminder-api/validation"
)

// User exists for dependency injection purposes
type User struct {
	DB     databases.UserDatabase
	Tokens auth.TokenManager
}

// RegisterHandler creates an account and returns a token for it
func (u User) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "failed to decode register request", err)
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, "invalid register request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err := u.DB.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		writeError(w, "user already exists", fmt.Errorf("user %w", models.ErrConflict))
		return
	case !errors.Is(err, models.ErrNotFound):
		writeError(w, "failed to look up user", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, "failed to hash password", err)
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
	}
	if err := u.DB.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			err = fmt.Errorf("user %w", models.ErrConflict)
		}
		writeError(w, "failed to create user", err)
		return
	}

	u.writeToken(w, http.StatusCreated, "User registered successfully", user)
}

// LoginHandler exchanges an email and password for a token
func (u User) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "failed to decode login request", err)
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, "invalid login request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := u.DB.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			err = models.ErrInvalidCredentials
		}
		writeError(w, "failed to log in", err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		writeError(w, "failed to log in", models.ErrInvalidCredentials)
		return
	}

	u.writeToken(w, http.StatusOK, "Login successful", user)
}

func (u User) writeToken(w http.ResponseWriter, status int, message string, user *models.User) {
	token, err := u.Tokens.Generate(user.ID)
	if err != nil {
		writeError(w, "failed to sign token", err)
		return
	}

	zap.S().Infow(message, "userId", user.ID.Hex())
	writeJSON(w, status, models.AuthResponse{
		Message: message,
		Token:   token,
		User: models.UserSummary{
			ID:    user.ID.Hex(),
			Name:  user.Name,
			Email: user.Email,
		},
	})
}
