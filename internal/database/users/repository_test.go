package users

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lucasmoraes/devocional/internal/database/devotionals"
	"github.com/lucasmoraes/devocional/internal/database/tags"
	"github.com/lucasmoraes/devocional/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_users_" + t.Name() + ".db"

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

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	user := &entities.User{
		Name:         "Maria Santos",
		Email:        "maria@example.com",
		PasswordHash: "hash",
		Role:         entities.UserRoleAdmin,
	}
	require.NoError(t, repo.Create(user))
	assert.NotEmpty(t, user.ID)

	byID, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", byID.Name)

	byEmail, err := repo.GetByEmail("maria@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestRepository_DuplicateEmail(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.User{Name: "A", Email: "same@example.com"}))
	err := repo.Create(&entities.User{Name: "B", Email: "same@example.com"})
	assert.Error(t, err)
}

func TestRepository_Delete_CascadesToDevotionals(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := &entities.User{Name: "Autor", Email: "autor@example.com"}
	require.NoError(t, repo.Create(user))

	devotionalsRepo := devotionals.NewRepository(db, tags.NewRepository(db))
	created, err := devotionalsRepo.Create(devotionals.CreateInput{
		Title:          "Devocional do Autor",
		Excerpt:        "Resumo",
		Content:        "Conteúdo",
		BibleVerse:     "Versículo",
		BibleReference: "Referência 1:1",
		Author:         "Autor",
		AuthorID:       &user.ID,
		TagNames:       []string{"paz"},
	})
	require.NoError(t, err)

	removed, err := repo.Delete(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.GetByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = devotionalsRepo.GetByID(created.ID)
	assert.ErrorIs(t, err, devotionals.ErrNotFound)

	var links int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM devotional_tags WHERE devotional_id = ?", created.ID).
		Scan(&links).Error)
	assert.Equal(t, int64(0), links)
}

func TestRepository_Delete_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Delete("missing-id")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_HasAny(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	has, err := repo.HasAny()
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, repo.Create(&entities.User{Name: "X", Email: "x@example.com"}))

	has, err = repo.HasAny()
	require.NoError(t, err)
	assert.True(t, has)
}
