package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"commons/internal/auth"
	"commons/internal/middleware"
	"commons/internal/models"
	"commons/internal/repository"
)

// UserService implements account lifecycle and authentication.
type UserService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenService
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

// AuthResult pairs a user with a freshly issued token.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenService) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens}
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if in.Username == "" || len(in.Username) < 3 {
		return nil, models.NewValidationError("Username must be at least 3 characters")
	}
	if !strings.Contains(in.Email, "@") {
		return nil, models.NewValidationError("Invalid email address")
	}
	if len(in.Password) < 8 {
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}

	if _, err := s.userRepo.GetByUsername(ctx, in.Username); err == nil {
		return nil, models.NewConflictError("Username already taken")
	}
	if _, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil {
		return nil, models.NewConflictError("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError("failed to hash password", err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if in.Username == "" || in.Password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Allow logging in with the email address too
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(in.Username))
	}
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if user.Blocked {
		return nil, models.NewForbiddenError("Account is blocked")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user", id)
	}
	return user, err
}

func (s *UserService) SearchUsers(ctx context.Context, query string, limit, offset int) ([]*models.User, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.userRepo.Search(ctx, query, limit, offset)
}

// BlockUser marks an account as blocked. Blocked users fail login and keep
// their block metadata for audit.
func (s *UserService) BlockUser(ctx context.Context, adminID, userID uint, reason string) error {
	if adminID == userID {
		return models.NewValidationError("You cannot block yourself")
	}

	target, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if target.IsAdmin {
		return models.NewForbiddenError("Admin accounts cannot be blocked")
	}

	if err := s.userRepo.SetBlocked(ctx, userID, true, reason, adminID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("user", userID)
		}
		return err
	}

	middleware.Logger.InfoContext(ctx, "user blocked",
		"admin_id", adminID, "user_id", userID, "reason", reason)
	return nil
}

// UnblockUser lifts a block and clears its metadata.
func (s *UserService) UnblockUser(ctx context.Context, adminID, userID uint) error {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.SetBlocked(ctx, userID, false, "", 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("user", userID)
		}
		return err
	}

	middleware.Logger.InfoContext(ctx, "user unblocked",
		"admin_id", adminID, "user_id", userID)
	return nil
}
