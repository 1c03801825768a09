package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
	"github.com/yigit/studbuds/internal/pkg/auth"
)

const (
	minPasswordLength = 6
	maxSearchResults  = 20
)

// UserService defines account, profile and friend operations
type UserService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	GetMe(ctx context.Context, userID string) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.UserResponse, error)
	Search(ctx context.Context, userID, query string) ([]dto.UserSummary, error)
	ListFriends(ctx context.Context, userID string) ([]dto.UserSummary, error)
	AddFriend(ctx context.Context, userID, targetID string) (*dto.UserResponse, error)
	RemoveFriend(ctx context.Context, userID, targetID string) (*dto.UserResponse, error)
	EnrollClass(ctx context.Context, userID, classID string) (*dto.ClassResponse, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	repos       *repositories.Repositories
	jwtService  *auth.JWTService
	emailSuffix string
	validate    *validator.Validate
	now         Clock
	logger      zerolog.Logger
}

// NewUserService creates a new UserService. Registration requires emails ending in emailSuffix.
func NewUserService(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	emailSuffix string,
	now Clock,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		repos:       repos,
		jwtService:  jwtService,
		emailSuffix: strings.ToLower(emailSuffix),
		validate:    validator.New(),
		now:         now,
		logger:      logger,
	}
}

// normalizeEmail lowercases and trims an email for storage and lookup
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userServiceImpl) validateRegistration(req *dto.RegisterRequest) error {
	if isBlank(req.Name) || isBlank(req.Email) || req.Password == "" || isBlank(req.Major) {
		return apperrors.NewValidationError("Please provide name, email, password and major")
	}
	if err := s.validate.Var(req.Email, "email"); err != nil {
		return apperrors.NewValidationError("Please provide a valid email address")
	}
	if !strings.HasSuffix(req.Email, s.emailSuffix) {
		return apperrors.NewValidationError(fmt.Sprintf("Please use your university email (%s)", s.emailSuffix))
	}
	if charLen(req.Password) < minPasswordLength {
		return apperrors.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	return nil
}

// Register creates an account and returns a token for it
func (s *userServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validateRegistration(&req); err != nil {
		return nil, err
	}

	if _, err := s.repos.Users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:        newID(),
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		Password:  hash,
		Major:     strings.TrimSpace(req.Major),
		Bio:       strings.TrimSpace(req.Bio),
		Friends:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID).Str("email", user.Email).Msg("User registered")
	return s.authResponse(user)
}

// Login verifies credentials. Unknown emails and wrong passwords fail the same way.
func (s *userServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.repos.Users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Debug().Str("userID", user.ID).Msg("Password mismatch on login")
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.authResponse(user)
}

func (s *userServiceImpl) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &dto.AuthResponse{Token: token, ExpiresAt: expiresAt, User: dto.NewUserResponse(user)}, nil
}

// GetMe returns the caller with the classes they belong to
func (s *userServiceImpl) GetMe(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	classes, err := s.repos.Classes.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	resp.Classes = make([]dto.ClassSummary, 0, len(classes))
	for _, c := range classes {
		resp.Classes = append(resp.Classes, dto.NewClassSummary(c))
	}
	return &resp, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdateProfile changes only the fields present in req
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if isBlank(*req.Name) {
			return nil, apperrors.NewValidationError("Name cannot be empty")
		}
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Major != nil {
		user.Major = strings.TrimSpace(*req.Major)
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	user.UpdatedAt = s.now()

	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Search matches name, email or major and never returns the caller
func (s *userServiceImpl) Search(ctx context.Context, userID, query string) ([]dto.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("Search query is required")
	}

	users, err := s.repos.Users.Search(ctx, query, userID, maxSearchResults)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserSummary(u))
	}
	return out, nil
}

// ListFriends returns friends in the order they were added
func (s *userServiceImpl) ListFriends(ctx context.Context, userID string) ([]dto.UserSummary, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	lookup, err := loadUsers(ctx, s.repos.Users, user.Friends...)
	if err != nil {
		return nil, err
	}
	return lookup.ordered(user.Friends), nil
}

// AddFriend follows targetID. The relation is one-directional.
func (s *userServiceImpl) AddFriend(ctx context.Context, userID, targetID string) (*dto.UserResponse, error) {
	if userID == targetID {
		return nil, apperrors.NewValidationError("You cannot add yourself as a friend")
	}
	if _, err := s.repos.Users.GetByID(ctx, targetID); err != nil {
		return nil, err
	}
	if err := s.repos.Users.AddFriend(ctx, userID, targetID); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

func (s *userServiceImpl) RemoveFriend(ctx context.Context, userID, targetID string) (*dto.UserResponse, error) {
	if err := s.repos.Users.RemoveFriend(ctx, userID, targetID); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

// EnrollClass adds the caller to the class member set
func (s *userServiceImpl) EnrollClass(ctx context.Context, userID, classID string) (*dto.ClassResponse, error) {
	if err := s.repos.Classes.AddMember(ctx, classID, userID); err != nil {
		return nil, err
	}
	class, err := s.repos.Classes.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewClassResponse(class)
	return &resp, nil
}

// ResetPassword sets a new password for the account with email
func (s *userServiceImpl) ResetPassword(ctx context.Context, email, newPassword string) error {
	if charLen(newPassword) < minPasswordLength {
		return apperrors.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	user, err := s.repos.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.repos.Users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	s.logger.Info().Str("userID", user.ID).Msg("Password reset")
	return nil
}
