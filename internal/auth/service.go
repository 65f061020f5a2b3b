package auth

import (
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/lucasmoraes/devocional/internal/config"
	"github.com/lucasmoraes/devocional/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthRequired       = errors.New("authentication required")
	ErrInvalidRole        = errors.New("invalid role")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailInvalid       = errors.New("invalid email format")
)

// UserRepository defines the interface for user data access.
// internal/database/users.Repository implements this.
type UserRepository interface {
	Create(user *entities.User) error
	GetByID(id string) (*entities.User, error)
	GetByEmail(email string) (*entities.User, error)
	List() ([]entities.User, error)
	Update(user *entities.User) error
	Delete(id string) (int64, error)
	HasAny() (bool, error)
}

// Service handles authentication and user management.
type Service struct {
	users  UserRepository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(users UserRepository, cfg config.Auth) *Service {
	return &Service{
		users:  users,
		config: cfg,
	}
}

// CreateUser creates a new user with password authentication.
func (s *Service) CreateUser(name, email, password string, role entities.UserRole) (*entities.User, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	// Validate email format and length (RFC 5321 limit is 254)
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	switch role {
	case entities.UserRoleAdmin, entities.UserRoleUser:
		// Valid
	default:
		return nil, ErrInvalidRole
	}

	_, err := s.users.GetByEmail(email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// VerifyCredentials validates an email/password pair and returns the user.
// A missing account and a wrong password both return ErrInvalidCredentials so
// the login endpoint cannot be used to enumerate registered emails.
func (s *Service) VerifyCredentials(email, password string) (*entities.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a user by their ID.
func (s *Service) GetUser(id string) (*entities.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns every registered user, newest first.
func (s *Service) ListUsers() ([]entities.User, error) {
	return s.users.List()
}

// UpdateUser changes a user's profile fields. Empty name, email or role keep
// the current value. A non-empty password is re-hashed and replaces the old one.
func (s *Service) UpdateUser(id, name, email, password string, role entities.UserRole) (*entities.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		if len(email) > 254 || !emailPattern.MatchString(email) {
			return nil, ErrEmailInvalid
		}
		if email != user.Email {
			existing, err := s.users.GetByEmail(email)
			if err == nil && existing.ID != user.ID {
				return nil, ErrUserExists
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
		user.Email = email
	}
	if role != "" {
		switch role {
		case entities.UserRoleAdmin, entities.UserRoleUser:
			user.Role = role
		default:
			return nil, ErrInvalidRole
		}
	}
	if password != "" {
		hash, err := HashPassword(password, s.config.BcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user and every devotional they authored.
// Returns how many devotionals were removed along with the account.
func (s *Service) DeleteUser(id string) (int64, error) {
	removed, err := s.users.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return removed, nil
}

// EnsureUser finds the account for an externally authenticated identity,
// creating it on first sign-in. Such accounts have no local password and
// cannot log in through the password endpoint.
func (s *Service) EnsureUser(name, email string) (*entities.User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}

	user, err := s.users.GetByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if name == "" {
		name = email
	}
	user = &entities.User{
		Name:  name,
		Email: email,
		Role:  entities.UserRoleUser,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// HasUsers returns true if any users exist in the database.
func (s *Service) HasUsers() (bool, error) {
	return s.users.HasAny()
}

// IsAuthEnabled returns true if authentication is required.
func (s *Service) IsAuthEnabled() bool {
	return s.config.Mode == config.AuthModeLocal
}

// GetAuthMode returns the current authentication mode.
func (s *Service) GetAuthMode() config.AuthMode {
	return s.config.Mode
}
