package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lucasmoraes/devocional/internal/entities"
)

// defaultTags are seeded at startup so the public filter UI has a sensible
// initial set. Colors are presentation hints only.
var defaultTags = []entities.Tag{
	{Name: "confiança", Color: strPtr("from-green-500 via-emerald-500 to-teal-500")},
	{Name: "paz", Color: strPtr("from-emerald-500 via-teal-500 to-cyan-500")},
	{Name: "oração", Color: strPtr("from-indigo-500 via-purple-500 to-violet-500")},
	{Name: "poder", Color: strPtr("from-yellow-500 via-orange-500 to-red-500")},
	{Name: "amor", Color: strPtr("from-rose-500 via-pink-500 to-fuchsia-500")},
	{Name: "graça", Color: strPtr("from-violet-500 via-purple-500 to-indigo-500")},
	{Name: "força", Color: strPtr("from-orange-500 via-amber-500 to-yellow-500")},
	{Name: "perdão", Color: strPtr("from-blue-500 via-cyan-500 to-teal-500")},
	{Name: "cruz", Color: strPtr("from-red-500 via-rose-500 to-pink-500")},
	{Name: "fraqueza", Color: strPtr("from-slate-500 via-gray-500 to-zinc-500")},
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities; the devotional_tags join table is created
	// through the many2many association.
	err = db.AutoMigrate(
		&entities.User{},
		&entities.Devotional{},
		&entities.Tag{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedTags(); err != nil {
		return nil, fmt.Errorf("failed to seed tags: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedTags() error {
	for _, tag := range defaultTags {
		var existing entities.Tag
		result := d.DB.Where("name = ?", tag.Name).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			if err := d.DB.Create(&tag).Error; err != nil {
				return fmt.Errorf("failed to create tag %s: %w", tag.Name, err)
			}
		}
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
