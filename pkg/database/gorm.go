package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c GormConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

const sqlitePrefix = "sqlite://"

// Timestamps are stored in UTC so SQLite's text comparison orders them correctly.
func utcNow() time.Time {
	return time.Now().UTC()
}

func getLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)
}

func configureConnectionPool(db *gorm.DB, maxOpen int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return nil
}

func NewGormDB(cfg GormConfig) (*gorm.DB, error) {
	return NewGormDBFromDSN(cfg.DSN())
}

// NewGormDBFromDSN opens Postgres, or SQLite when the DSN starts with sqlite://
// (e.g. sqlite://digestly.db for a local run without Postgres).
func NewGormDBFromDSN(dsn string) (*gorm.DB, error) {
	if path, ok := strings.CutPrefix(dsn, sqlitePrefix); ok {
		return NewSQLiteDB(path, logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         getLogger(logger.Warn),
		TranslateError: true,
		NowFunc:        utcNow,
	})
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db, 100); err != nil {
		return nil, err
	}

	return db, nil
}

// NewSQLiteDB opens a pure-Go SQLite database. SQLite serialises writers, so the
// pool is limited to one connection, which also keeps ":memory:" databases shared.
func NewSQLiteDB(path string, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                                   getLogger(level),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc:                                  utcNow,
	})
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db, 1); err != nil {
		return nil, err
	}
	// a recycled connection would drop an in-memory database
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetConnMaxLifetime(0)
	}

	return db, nil
}
