package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"aits/internal/auth"
	apperrors "aits/internal/errors"
	"aits/internal/metrics"
	"aits/internal/model"
	"aits/internal/repository"
	"aits/internal/validation"
)

// DefaultBcryptCost is used when no cost is configured.
const DefaultBcryptCost = 10

// RegisterInput carries the fields accepted at registration. Only the
// profile fields matching Role are used.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Role      model.Role

	StudentNumber string
	Programme     string
	YearOfStudy   int

	StaffNumber string
	Department  string
	College     string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Tokens auth.TokenPair
	User   *model.User
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, password string, loginType model.Role) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	tokens     auth.TokenService
	bcryptCost int
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, tokens auth.TokenService, bcryptCost int) AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = DefaultBcryptCost
	}
	return &authService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new user with a hashed password and the profile
// matching its role.
func (s *authService) Register(ctx context.Context, input RegisterInput) (_ *model.User, err error) {
	defer func() { metrics.ObserveAuth("register", err) }()

	if !input.Role.Valid() {
		errs := validation.Errors{}
		errs.Add("role", fmt.Sprintf("%q is not a valid choice.", string(input.Role)))
		return nil, errs
	}

	// Check if username already exists
	existing, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err == nil && existing != nil {
		errs := validation.Errors{}
		errs.Add("username", "A user with that username already exists.")
		return nil, errs
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: check user existence: %v", apperrors.ErrCreation, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", apperrors.ErrCreation, err)
	}

	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
	}
	attachProfile(user, input)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: create user: %v", apperrors.ErrCreation, err)
	}

	return user, nil
}

func attachProfile(user *model.User, input RegisterInput) {
	switch user.Role {
	case model.RoleStudent:
		user.StudentProfile = &model.StudentProfile{
			StudentNumber: input.StudentNumber,
			Programme:     input.Programme,
			YearOfStudy:   input.YearOfStudy,
		}
	case model.RoleLecturer:
		user.LecturerProfile = &model.LecturerProfile{
			StaffNumber: input.StaffNumber,
			Department:  input.Department,
		}
	case model.RoleRegistrar:
		user.RegistrarProfile = &model.RegistrarProfile{
			StaffNumber: input.StaffNumber,
			College:     input.College,
		}
	}
}

// Login authenticates a user and returns access and refresh tokens.
// Checks run in a fixed order: existence, password, then login type.
func (s *authService) Login(ctx context.Context, username, password string, loginType model.Role) (_ *LoginResult, err error) {
	defer func() { metrics.ObserveAuth("login", err) }()

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if loginType != "" && user.Role != loginType {
		return nil, apperrors.Forbidden("invalid role for this login type")
	}

	tokens, err := s.tokens.Issue(ctx, auth.Subject{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{Tokens: tokens, User: user}, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (_ string, err error) {
	defer func() { metrics.ObserveAuth("refresh", err) }()
	return s.tokens.Refresh(ctx, refreshToken)
}

// Logout revokes a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) (err error) {
	defer func() { metrics.ObserveAuth("logout", err) }()
	return s.tokens.Revoke(ctx, refreshToken)
}
