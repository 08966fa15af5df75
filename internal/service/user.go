package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"teamspace-backend/internal/database/models"
	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/logger"
	"teamspace-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService is the identity store: accounts, credentials and profiles
type UserService struct {
	repo      repository.UserRepositoryInterface
	validator *validator.Validate
	hashCost  int
}

// NewUserService creates a new user service
func NewUserService(repo repository.UserRepositoryInterface, validator *validator.Validate) *UserService {
	return &UserService{
		repo:      repo,
		validator: validator,
		hashCost:  bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost, mainly to keep tests fast
func (s *UserService) WithHashCost(cost int) *UserService {
	s.hashCost = cost
	return s
}

// SignupRequest represents the data needed to create an account
type SignupRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=30"`
	LastName    string `json:"last_name" validate:"required,max=30"`
	Username    string `json:"username" validate:"required,max=20"`
	Email       string `json:"email" validate:"required,email,max=255"`
	PasswordOne string `json:"password_one" validate:"required,min=8,max=128"`
	PasswordTwo string `json:"password_two" validate:"required,max=128"`
}

// LoginRequest represents email/password credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents the editable account fields
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"required,max=30"`
	LastName  string `json:"last_name" validate:"required,max=30"`
	Username  string `json:"username" validate:"required,max=20"`
	Email     string `json:"email" validate:"required,email,max=255"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	PasswordOne string `json:"password_one" validate:"required,min=8,max=128"`
	PasswordTwo string `json:"password_two" validate:"required,max=128"`
}

// UserResponse is the caller's own account; it is the only response carrying an email
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

var signupMessages = map[string]string{
	"first_name.required": "Please enter your first name.",
	"last_name.required":  "Please enter your last name.",
	"username.required":   "Please enter a username.",
	"email.required":      "Please enter your email address.",
}

const (
	passwordMismatchMessage = "The two password fields did not match."
	passwordTooLongMessage  = "Your password can be at most 72 bytes long."

	// bcrypt rejects longer input
	maxPasswordBytes = 72
)

// checkPasswords adds the mismatch and length errors shared by signup and password change
func checkPasswords(one, two string, errs apperrors.ValidationErrors) {
	if one != "" && two != "" && one != two {
		errs.Add("password_two", apperrors.CodePasswordMismatch, passwordMismatchMessage)
	}
	if _, seen := errs["password_one"]; !seen && len([]byte(one)) > maxPasswordBytes {
		errs.Add("password_one", apperrors.CodeInvalid, passwordTooLongMessage)
	}
}

func (s *UserService) hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperrors.ValidationErrors{}.Add("password_one", apperrors.CodeInvalid, passwordTooLongMessage)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// Signup creates a new account. Nothing is written unless every field is valid.
func (s *UserService) Signup(ctx context.Context, req *SignupRequest) (*UserResponse, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	errs := validate(s.validator, req, signupMessages)
	checkPasswords(req.PasswordOne, req.PasswordTwo, errs)
	if err := s.checkUnique(ctx, uuid.Nil, req.Username, req.Email, errs); err != nil {
		return nil, err
	}
	if err := asError(errs); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.PasswordOne)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateError(ctx, user)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.WithContext(ctx).WithField("user_id", user.ID).Info("User signed up")
	return toUserResponse(user), nil
}

// Authenticate verifies email and password with a one-way hash comparison
func (s *UserService) Authenticate(ctx context.Context, req *LoginRequest) (*UserResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := asError(validate(s.validator, req, nil)); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidLogin
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.WithContext(ctx).WithField("user_id", user.ID).Debug("Login rejected: wrong password")
		return nil, apperrors.ErrInvalidLogin
	}
	if !user.IsActive {
		return nil, apperrors.ErrInactiveUser
	}

	return toUserResponse(user), nil
}

// FindByEmail resolves an email to a user
func (s *UserService) FindByEmail(ctx context.Context, email string) (*UserResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toUserResponse(user), nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toUserResponse(user), nil
}

// UpdateProfile edits the caller's own account
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*UserResponse, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	errs := validate(s.validator, req, signupMessages)
	if err := s.checkUnique(ctx, id, req.Username, req.Email, errs); err != nil {
		return nil, err
	}
	if err := asError(errs); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Username = req.Username
	user.Email = req.Email
	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateError(ctx, user)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return toUserResponse(user), nil
}

// ChangePassword replaces the password after checking the current one
func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, req *ChangePasswordRequest) error {
	errs := validate(s.validator, req, nil)
	checkPasswords(req.PasswordOne, req.PasswordTwo, errs)

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if req.OldPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
			errs.Add("old_password", apperrors.CodeInvalid, "Your old password was entered incorrectly.")
		}
	}
	if err := asError(errs); err != nil {
		return err
	}

	hash, err := s.hashPassword(req.PasswordOne)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	logger.WithContext(ctx).WithField("user_id", user.ID).Info("Password changed")
	return nil
}

// checkUnique adds "unique" errors for username/email held by someone other than self
func (s *UserService) checkUnique(ctx context.Context, self uuid.UUID, username, email string, errs apperrors.ValidationErrors) error {
	if _, bad := errs["username"]; !bad && username != "" {
		existing, err := s.repo.GetByUsername(ctx, username)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing username: %w", err)
		}
		if existing != nil && existing.ID != self {
			errs.Add("username", apperrors.CodeUnique, "This username is taken.")
		}
	}
	if _, bad := errs["email"]; !bad && email != "" {
		existing, err := s.repo.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing email: %w", err)
		}
		if existing != nil && existing.ID != self {
			errs.Add("email", apperrors.CodeUnique, "This email address is taken.")
		}
	}
	return nil
}

// duplicateError names the conflicting field after a unique index rejected a write
func (s *UserService) duplicateError(ctx context.Context, user *models.User) error {
	errs := apperrors.ValidationErrors{}
	if err := s.checkUnique(ctx, user.ID, user.Username, user.Email, errs); err != nil {
		return err
	}
	if len(errs) == 0 {
		return apperrors.ErrUsernameExists
	}
	return errs
}

func toUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
