package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/creator-agent/internal/config"
)

// AuthHandler exchanges the plaintext admin token for a short-lived JWT.
type AuthHandler struct {
	tokenConfig *config.TokenConfig
	jwtService  *JWTService
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(tokenConfig *config.TokenConfig, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		tokenConfig: tokenConfig,
		jwtService:  jwtService,
		validator:   validator.New(),
	}
}

// TokenRequest is the body of POST /auth/token.
type TokenRequest struct {
	Token string `json:"token" validate:"required,min=16"`
}

// TokenResponse carries the issued JWT.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// IssueToken handles POST /auth/token.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}

	if !h.tokenConfig.VerifyToken(req.Token) {
		err := &ErrInvalidAdminToken{}
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	jwtToken, err := h.jwtService.GenerateToken("admin")
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	response := TokenResponse{
		Token:     jwtToken,
		TokenType: "Bearer",
		ExpiresIn: h.jwtService.config.ExpirationHours * 3600,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Response already sent
		return
	}
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// First error only, enough to fix the request
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
