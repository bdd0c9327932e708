package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/repository"
	"github.com/noah-isme/gradebook-api/internal/validation"
	"github.com/noah-isme/gradebook-api/pkg/config"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

// userRepository is the account store contract the auth flows depend on.
type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
	ExistsByUserIDOrEmail(ctx context.Context, userID, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
}

// RegisterRequest carries the payload for creating an account.
type RegisterRequest struct {
	UserID   string          `json:"user_id"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role,omitempty"`
}

// AuthService handles registration, login and token verification.
type AuthService struct {
	repo      userRepository
	jwtConfig config.JWTConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(repo userRepository, jwtConfig config.JWTConfig, v *validator.Validate, logger *zap.Logger) *AuthService {
	if v == nil {
		v = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{repo: repo, jwtConfig: jwtConfig, validator: v, logger: logger}
}

// SecretConfigured reports whether a signing secret is available. Token
// issuing and verification both refuse to run without one.
func (s *AuthService) SecretConfigured() bool {
	return s.jwtConfig.Secret != ""
}

// Register creates a new account with a bcrypt-hashed password. The role
// defaults to student when omitted.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.UserInfo, error) {
	userID := strings.TrimSpace(req.UserID)
	email := strings.TrimSpace(req.Email)

	if violations := validation.UserInput(userID, email, req.Password); len(violations) > 0 {
		return nil, appErrors.Validation(violations)
	}

	role := req.Role
	switch role {
	case models.RoleAdmin, models.RoleTeacher, models.RoleStudent:
	case "":
		role = models.RoleStudent
	default:
		return nil, appErrors.Validation([]appErrors.FieldError{
			{Field: "role", Message: "role must be one of: admin, teacher, student"},
		})
	}

	taken, err := s.repo.ExistsByUserIDOrEmail(ctx, userID, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to register user")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to register user")
	}

	user := &models.User{
		UserID:       userID,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "User already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to register user")
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.UserID),
		zap.String("role", string(user.Role)))

	return &models.UserInfo{UserID: user.UserID, Email: user.Email, Role: user.Role}, nil
}

// Login verifies the credentials and issues a signed access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id and password are required")
	}
	if !s.SecretConfigured() {
		return nil, appErrors.Clone(appErrors.ErrInternal, "Authentication is not configured")
	}

	user, err := s.repo.FindByUserID(ctx, strings.TrimSpace(req.UserID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Invalid credentials")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to login")
	}
	if !user.Active {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Invalid credentials")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.jwtConfig.Expiration)
	claims := models.JWTClaims{
		UserID: user.UserID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			Issuer:    s.jwtConfig.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to issue token")
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", user.UserID), zap.Error(err))
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtConfig.Expiration.Seconds()),
		IssuedAt:    now,
		User:        models.UserInfo{UserID: user.UserID, Email: user.Email, Role: user.Role},
	}, nil
}

// ValidateToken parses and verifies an access token, returning its claims.
// Any parse, signature or expiry failure reads as the same invalid-token
// error so callers cannot distinguish the cause.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Invalid token")
	}
	return claims, nil
}

// FindUser resolves the account referenced by a token's user_id claim. The
// auth middleware uses it to reject tokens whose user no longer exists;
// deactivated accounts keep an existing token valid until it expires.
func (s *AuthService) FindUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
