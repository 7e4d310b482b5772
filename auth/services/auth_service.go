package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	authErrors "github.com/openagora/agora/auth/errors"
	"github.com/openagora/agora/auth/models"
	"github.com/openagora/agora/auth/repository"
	auditModels "github.com/openagora/agora/audit/models"
	auditServices "github.com/openagora/agora/audit/services"
	"github.com/openagora/agora/internal/cache"
	"github.com/openagora/agora/internal/pkg/log"
	"github.com/openagora/agora/internal/platform/config"
	"github.com/openagora/agora/internal/types"
	"github.com/openagora/agora/internal/utils"
)

// authService implements AuthService
type authService struct {
	repo          repository.UserRepository
	sessionCache  *cache.GenericCacheService
	auditRecorder auditServices.Recorder
	config        *config.Config
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	repo repository.UserRepository,
	sessionCache *cache.GenericCacheService,
	auditRecorder auditServices.Recorder,
	cfg *config.Config,
) AuthService {
	return &authService{
		repo:          repo,
		sessionCache:  sessionCache,
		auditRecorder: auditRecorder,
		config:        cfg,
	}
}

// sessionSetKey builds the cache key of a user's session allowlist. The same
// formula is used by the JWT middleware when validating tokens.
func (s *authService) sessionSetKey(userID uuid.UUID) string {
	return s.sessionCache.GenerateHashKey("sessions", map[string]interface{}{"uid": userID.String()})
}

// Signup registers a new account with a bcrypt-hashed password
func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*models.UserAccount, error) {
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}
	if exists {
		return nil, authErrors.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user id: %w", err)
	}

	user := &models.UserAccount{
		ID:          id,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    hashed,
		Role:        models.RoleUser,
		Status:      models.StatusActive,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user account: %w", err)
	}

	s.recordAudit(ctx, &auditModels.AuditEntry{
		ActorUserID: user.ID,
		Action:      auditModels.ActionSignup,
		TargetType:  auditModels.TargetUser,
		TargetID:    user.ID,
		Detail:      fmt.Sprintf("account %q registered", user.Email),
	})

	return user, nil
}

// Login verifies credentials and mints an ES256 access token. The token's jti
// is added to the cache-backed session allowlist so it can be revoked later.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authErrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(req.Password)); err != nil {
		s.recordAudit(ctx, &auditModels.AuditEntry{
			ActorUserID: user.ID,
			Action:      auditModels.ActionLoginFailure,
			TargetType:  auditModels.TargetUser,
			TargetID:    user.ID,
			Detail:      "invalid password",
		})
		return nil, authErrors.ErrInvalidCredentials
	}

	if !user.IsActive() {
		s.recordAudit(ctx, &auditModels.AuditEntry{
			ActorUserID: user.ID,
			Action:      auditModels.ActionLoginFailure,
			TargetType:  auditModels.TargetUser,
			TargetID:    user.ID,
			Detail:      "account disabled",
		})
		return nil, authErrors.ErrAccountDisabled
	}

	sessionID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.config.JWT.AccessTokenTTL)

	claims := utils.TokenClaims{
		Claim: map[string]interface{}{
			types.HeaderUID: user.ID.String(),
			"username":      user.Email,
			"displayName":   user.DisplayName,
			"role":          user.Role,
			"createdDate":   user.CreatedAt.Unix(),
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := utils.GenerateJWTToken([]byte(s.config.JWT.PrivateKey), claims)
	if err != nil {
		log.Error("token generation failed for user %s: %v", user.ID, err)
		return nil, authErrors.ErrTokenGeneration
	}

	if s.sessionCache.IsEnabled() {
		if err := s.sessionCache.SetAdd(ctx, s.sessionSetKey(user.ID), sessionID.String()); err != nil {
			// A token that is not in the allowlist is rejected by the
			// middleware, so failing here keeps login and validation in sync.
			return nil, fmt.Errorf("failed to register session: %w", err)
		}
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Warn("failed to update last login for user %s: %v", user.ID, err)
	} else {
		user.LastLogin = &now
	}

	s.recordAudit(ctx, &auditModels.AuditEntry{
		ActorUserID: user.ID,
		Action:      auditModels.ActionLoginSuccess,
		TargetType:  auditModels.TargetUser,
		TargetID:    user.ID,
		Detail:      fmt.Sprintf("session %s opened", sessionID),
	})

	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.Unix(),
		User:        user,
	}, nil
}

// Logout removes a session id from the allowlist, invalidating the token
func (s *authService) Logout(ctx context.Context, userID uuid.UUID, sessionID string) error {
	if s.sessionCache.IsEnabled() {
		if err := s.sessionCache.SetRemove(ctx, s.sessionSetKey(userID), sessionID); err != nil {
			return fmt.Errorf("failed to remove session: %w", err)
		}
	}

	s.recordAudit(ctx, &auditModels.AuditEntry{
		ActorUserID: userID,
		Action:      auditModels.ActionLogout,
		TargetType:  auditModels.TargetUser,
		TargetID:    userID,
		Detail:      fmt.Sprintf("session %s closed", sessionID),
	})

	return nil
}

// VerifyActivePrincipal loads an account by id and ensures it is active
func (s *authService) VerifyActivePrincipal(ctx context.Context, id uuid.UUID) (*models.UserAccount, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user account: %w", err)
	}

	if !user.IsActive() {
		return nil, authErrors.ErrAccountDisabled
	}

	return user, nil
}

// recordAudit appends an audit entry. An audit failure never fails the
// operation being audited.
func (s *authService) recordAudit(ctx context.Context, entry *auditModels.AuditEntry) {
	if s.auditRecorder == nil {
		return
	}
	if err := s.auditRecorder.Record(ctx, entry); err != nil {
		log.Error("failed to record audit entry for action %s: %v", entry.Action, err)
	}
}
