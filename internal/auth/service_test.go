package auth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lucasmoraes/devocional/internal/config"
	"github.com/lucasmoraes/devocional/internal/database/users"
	"github.com/lucasmoraes/devocional/internal/entities"
)

func setupTestService(t *testing.T, mode config.AuthMode) (*Service, func()) {
	dbPath := "./test_auth_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Devotional{},
		&entities.Tag{},
	)
	require.NoError(t, err)

	service := NewService(users.NewRepository(db), config.Auth{
		Mode:       mode,
		BcryptCost: 4, // Lowest cost to keep tests fast
	})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return service, cleanup
}

func TestService_CreateUser(t *testing.T) {
	service, cleanup := setupTestService(t, config.AuthModeLocal)
	defer cleanup()

	user, err := service.CreateUser("Lucas", "lucas@example.com", "password123", entities.UserRoleAdmin)
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Lucas", user.Name)
	assert.Equal(t, entities.UserRoleAdmin, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestService_CreateUser_Validation(t *testing.T) {
	service, cleanup := setupTestService(t, config.AuthModeLocal)
	defer cleanup()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		role     entities.UserRole
		wantErr  error
	}{
		{"missing name", "", "a@example.com", "password123", entities.UserRoleUser, ErrNameRequired},
		{"missing email", "A", "", "password123", entities.UserRoleUser, ErrEmailRequired},
		{"missing password", "A", "a@example.com", "", entities.UserRoleUser, ErrPasswordRequired},
		{"bad email", "A", "not-an-email", "password123", entities.UserRoleUser, ErrEmailInvalid},
		{"bad role", "A", "a@example.com", "password123", entities.UserRole("SUPERUSER"), ErrInvalidRole},
		{"short password", "A", "a@example.com", "short", entities.UserRoleUser, ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateUser(tt.userName, tt.email, tt.password, tt.role)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_CreateUser_Duplicate(t *testing.T) {
	service, cleanup := setupTestService(t, config.AuthModeLocal)
	defer cleanup()

	_, err := service.CreateUser("A", "same@example.com", "password123", entities.UserRoleUser)
	require.NoError(t, err)

	_, err = service.CreateUser("B", "same@example.com", "password456", entities.UserRoleUser)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_VerifyCredentials(t *testing.T) {
	service, cleanup := setupTestService(t, config.AuthModeLocal)
	defer cleanup()

	created, err := service.CreateUser("Lucas", "lucas@example.com", "password123", entities.UserRoleAdmin)
	require.NoError(t, err)

	user, err := service.VerifyCredentials("lucas@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = service.VerifyCredentials("lucas@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email yields the same error as a bad password
	_, err = service.VerifyCredentials("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_UpdateUser(t *testing.T) {
	service, cleanup := setupTestService(t, config.AuthModeLocal)
	defer cleanup()

	user, err := service.CreateUser("Lucas", "lucas@example.com", "password123", entities.UserRoleUser)
	require.NoError(t, err)

	updated, err := service.UpdateUser(user.ID, "Lucas Moraes", "", "newpassword1", entities.UserRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Lucas Moraes", updated.Name)
	assert.Equal(t, "lucas@example.com", updated.Email)
	assert.Equal(t, entities.UserRoleAdmin, updated.Role)

	_, err = service.VerifyCredentials("lucas@example.com", "newpassword1")
	require.NoError(t, err)
	_, err = service.VerifyCredentials("lucas@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_UpdateUser_EmailTaken(t *testing.T) {
	service, cleanup := setupTestService(t, config.AuthModeLocal)
	defer cleanup()

	_, err := service.CreateUser("A", "a@example.com", "password123", entities.UserRoleUser)
	require.NoError(t, err)
	userB, err := service.CreateUser("B", "b@example.com", "password123", entities.UserRoleUser)
	require.NoError(t, err)

	_, err = service.UpdateUser(userB.ID, "", "a@example.com", "", "")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_DeleteUser_NotFound(t *testing.T) {
	service, cleanup := setupTestService(t, config.AuthModeLocal)
	defer cleanup()

	_, err := service.DeleteUser("missing-id")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_EnsureUser(t *testing.T) {
	service, cleanup := setupTestService(t, config.AuthModeLocal)
	defer cleanup()

	first, err := service.EnsureUser("Maria", "maria@example.com")
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleUser, first.Role)
	assert.Empty(t, first.PasswordHash)

	// Second sign-in returns the same account
	second, err := service.EnsureUser("Maria", "maria@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// Accounts without a password cannot use the password endpoint
	_, err = service.VerifyCredentials("maria@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_IsAuthEnabled(t *testing.T) {
	local, cleanupLocal := setupTestService(t, config.AuthModeLocal)
	defer cleanupLocal()
	assert.True(t, local.IsAuthEnabled())

	none, cleanupNone := setupTestService(t, config.AuthModeNone)
	defer cleanupNone()
	assert.False(t, none.IsAuthEnabled())
}
