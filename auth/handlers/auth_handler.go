package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	gopass "github.com/nbutton23/zxcvbn-go"

	authErrors "github.com/openagora/agora/auth/errors"
	"github.com/openagora/agora/auth/models"
	"github.com/openagora/agora/auth/services"
	"github.com/openagora/agora/internal/platform/config"
	"github.com/openagora/agora/internal/types"
	"github.com/openagora/agora/internal/utils"
)

// AuthHandlers contains all auth-related HTTP handlers
type AuthHandlers struct {
	service services.AuthService
	config  *config.Config
}

// NewAuthHandlers creates a new instance of auth handlers
func NewAuthHandlers(service services.AuthService, cfg *config.Config) *AuthHandlers {
	return &AuthHandlers{
		service: service,
		config:  cfg,
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandlers) Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return authErrors.HandleInvalidRequestError(c, "Invalid request body")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return authErrors.HandleValidationError(c, "A valid email is required")
	}
	if req.DisplayName == "" {
		return authErrors.HandleValidationError(c, "Display name is required")
	}
	if req.Password == "" {
		return authErrors.HandleValidationError(c, "Password is required")
	}

	passStrength := gopass.PasswordStrength(req.Password, nil)
	if passStrength.Score < 3 || passStrength.Entropy < 37 {
		return authErrors.HandleValidationError(c, "Password is not strong enough!")
	}

	user, err := h.service.Signup(c.Context(), &req)
	if err != nil {
		return authErrors.HandleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return authErrors.HandleInvalidRequestError(c, "Invalid request body")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Email == "" || req.Password == "" {
		return authErrors.HandleValidationError(c, "Email and password are required")
	}

	result, err := h.service.Login(c.Context(), &req)
	if err != nil {
		return authErrors.HandleServiceError(c, err)
	}

	// Web clients authenticate through the cookie, API clients through the
	// Authorization header.
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    result.AccessToken,
		Expires:  time.Unix(result.ExpiresAt, 0),
		HTTPOnly: true,
		Secure:   !h.config.Server.Debug,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(result)
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return authErrors.HandleUserContextError(c, "User context not found")
	}

	sessionID, err := h.currentSessionID(c)
	if err != nil {
		return authErrors.HandleInvalidRequestError(c, "Unable to identify session")
	}

	if err := h.service.Logout(c.Context(), user.UserID, sessionID); err != nil {
		return authErrors.HandleServiceError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})

	return c.SendStatus(fiber.StatusNoContent)
}

// currentSessionID extracts the jti of the token that authenticated this
// request. The middleware has already validated the token, so the second
// parse cannot fail for a well-formed request.
func (h *AuthHandlers) currentSessionID(c *fiber.Ctx) (string, error) {
	tokenString := ""

	authHeader := c.Get(types.HeaderAuthorization)
	if authHeader != "" && strings.HasPrefix(authHeader, types.BearerPrefix) {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 {
			tokenString = parts[1]
		}
	}
	if tokenString == "" {
		tokenString = c.Cookies("access_token")
	}

	claims, err := utils.ValidateToken([]byte(h.config.JWT.PublicKey), tokenString)
	if err != nil {
		return "", err
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return "", authErrors.ErrInvalidCredentials
	}
	return jti, nil
}
