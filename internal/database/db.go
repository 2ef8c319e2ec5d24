package database

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/justsurfingit/talentbridge/internal/models"
)

// Connect opens the session database for the given driver and migrates it.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported session database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", driver, err)
	}
	log.Printf("Database connection established (%s)", driver)

	log.Println("Running Migrations...")
	if err := db.AutoMigrate(&models.SessionEntry{}); err != nil {
		return nil, fmt.Errorf("migrate session table: %w", err)
	}
	return db, nil
}
