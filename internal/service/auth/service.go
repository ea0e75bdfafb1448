package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/email"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	"github.com/jwalitptl/hospital-api/pkg/auth"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	defaultVerifyTTL = 48 * time.Hour
	tokenType        = "Bearer"
)

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	VerifyEmail(ctx context.Context, token string) (*model.User, error)
}

type Options struct {
	VerifyTTL time.Duration
	// SkipVerification lets unverified users log in. Meant for development
	// setups without SMTP.
	SkipVerification bool
}

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
	emailSvc email.Service
	logger   *logger.Logger
	opts     Options
	now      func() time.Time
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher,
	emailSvc email.Service, logger *logger.Logger, opts Options) *Service {
	if opts.VerifyTTL <= 0 {
		opts.VerifyTTL = defaultVerifyTTL
	}
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
		emailSvc: emailSvc,
		logger:   logger,
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an unverified staff account and mails the verification
// token. A mail failure is logged but does not undo the registration.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if req.Role == model.RoleAdmin {
		return nil, apperrors.BadRequest("admin accounts cannot be self-registered", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return nil, apperrors.BadRequest("password must be at least 8 characters", err)
		}
		return nil, apperrors.Internal(err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleNurse
	}
	token := uuid.NewString()
	expires := s.now().Add(s.opts.VerifyTTL)

	user := &model.User{
		Base:                  model.Base{ID: uuid.New()},
		Email:                 strings.ToLower(strings.TrimSpace(req.Email)),
		Name:                  strings.TrimSpace(req.Name),
		PasswordHash:          hash,
		Role:                  role,
		VerificationToken:     &token,
		VerificationExpiresAt: &expires,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("email already registered", err)
		}
		return nil, service.RepoError(err, "user")
	}

	if err := s.emailSvc.SendVerification(ctx, user.Email, token); err != nil {
		s.logger.Error(err, "failed to send verification email", "user_id", user.ID.String())
	}

	s.logger.Info("user registered", "user_id", user.ID.String(), "role", user.Role)
	return user, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(ErrInvalidCredentials.Error(), nil)
		}
		return nil, service.RepoError(err, "user")
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.logger.Warn("failed login attempt", "user_id", user.ID.String())
		return nil, apperrors.Unauthorized(ErrInvalidCredentials.Error(), nil)
	}
	if !user.EmailVerified && !s.opts.SkipVerification {
		return nil, apperrors.Forbidden("email address is not verified", nil)
	}

	token, expiresAt, err := s.jwtSvc.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Error(err, "failed to record last login", "user_id", user.ID.String())
	} else {
		user.LastLoginAt = &now
	}

	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

func (s *Service) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	invalid := apperrors.BadRequest("invalid or expired verification token", nil)

	user, err := s.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid
		}
		return nil, service.RepoError(err, "user")
	}
	if user.VerificationExpiresAt != nil && s.now().After(*user.VerificationExpiresAt) {
		return nil, invalid
	}

	if err := s.userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, service.RepoError(err, "user")
	}
	user.EmailVerified = true
	user.VerificationToken = nil
	user.VerificationExpiresAt = nil

	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.Name); err != nil {
		s.logger.Error(err, "failed to send welcome email", "user_id", user.ID.String())
	}
	return user, nil
}
