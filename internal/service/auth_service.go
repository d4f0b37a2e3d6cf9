package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/config"
	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
)

// ErrInvalidCredentials indicates a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken indicates a duplicate registration.
var ErrEmailTaken = errors.New("email already registered")

// ErrAccountDisabled indicates the account was deactivated by an admin.
var ErrAccountDisabled = errors.New("account disabled")

// ErrRoleNotAllowed indicates a self-signup asked for a privileged role.
var ErrRoleNotAllowed = errors.New("role not allowed for self registration")

// ErrInvalidToken indicates a refresh token that failed verification.
var ErrInvalidToken = errors.New("invalid token")

// AuthService issues JWT pairs and manages account registration.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest, actorRole models.Role) (dto.UserResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.TokenPairResponse, error)
	Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.TokenPairResponse, error)
	Me(ctx context.Context, userID uint) (dto.UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	validator *validator.Validate
	cfg       config.Config
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, validate *validator.Validate, cfg config.Config, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		validator: validate,
		cfg:       cfg,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

// Register creates an account. Without an admin actor only estudiante
// accounts can be created.
func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest, actorRole models.Role) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	role := models.Role(payload.Role)
	if payload.Role == "" {
		role = models.RoleStudent
	}
	if !role.IsStudent() && !actorRole.IsAdmin() {
		return dto.UserResponse{}, ErrRoleNotAllowed
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return dto.UserResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Name:         strings.TrimSpace(payload.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("usuario_id", user.ID).Str("rol", string(user.Role)).Msg("account registered")

	return dto.NewUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.TokenPairResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TokenPairResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TokenPairResponse{}, ErrInvalidCredentials
		}
		return dto.TokenPairResponse{}, err
	}

	if !user.Active {
		return dto.TokenPairResponse{}, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.TokenPairResponse{}, ErrInvalidCredentials
	}

	return s.issuePair(user)
}

func (s *authService) Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.TokenPairResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TokenPairResponse{}, err
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(payload.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.JWTRefreshSecret), nil
	})
	if err != nil || !token.Valid {
		return dto.TokenPairResponse{}, ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return dto.TokenPairResponse{}, ErrInvalidToken
	}

	userID, ok := parseUserID(subject)
	if !ok {
		return dto.TokenPairResponse{}, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TokenPairResponse{}, ErrInvalidToken
		}
		return dto.TokenPairResponse{}, err
	}

	if !user.Active {
		return dto.TokenPairResponse{}, ErrAccountDisabled
	}

	return s.issuePair(user)
}

func (s *authService) Me(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) issuePair(user models.User) (dto.TokenPairResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.TokenTTL)

	access, err := s.sign(user, now, expiresAt, s.cfg.JWTSecret)
	if err != nil {
		return dto.TokenPairResponse{}, err
	}

	refresh, err := s.sign(user, now, now.Add(s.cfg.RefreshTokenTTL), s.cfg.JWTRefreshSecret)
	if err != nil {
		return dto.TokenPairResponse{}, err
	}

	return dto.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User:         dto.NewUserResponse(user),
	}, nil
}

func (s *authService) sign(user models.User, issuedAt, expiresAt time.Time, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"iat":  issuedAt.Unix(),
		"exp":  expiresAt.Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseUserID(subject string) (uint, bool) {
	var id uint
	for _, r := range subject {
		if r < '0' || r > '9' {
			return 0, false
		}
		id = id*10 + uint(r-'0')
	}
	return id, subject != ""
}
