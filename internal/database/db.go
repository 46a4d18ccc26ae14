package database

import (
	"fmt"
	"log"

	"github.com/wanderkit/cms/internal/config"
	"github.com/wanderkit/cms/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	DB = db

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Record{},
		&models.Edge{},
		&models.MediaFile{},
		&models.Preference{},
		&models.ResetToken{},
		&models.RefreshToken{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}
	return nil
}
