package db

import (
	"fmt"
	"log"
	"master_crm/internal/config"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewGormConnection создает новое соединение с базой данных через GORM.
// Ошибки драйвера транслируются в gorm.ErrDuplicatedKey и т.п.
func NewGormConnection(cfg config.DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres, "":
		dsn := fmt.Sprintf(
			"user=%s password=%s host=%s dbname=%s port=%s sslmode=%s",
			cfg.User, cfg.Pass, cfg.Host, cfg.DBName, cfg.Port, cfg.SSLMode,
		)
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(SQLiteDSN(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(log.New(os.Stdout, "\r\n", log.LstdFlags)),
	})
	if err != nil {
		return nil, err
	}

	if cfg.Driver == DriverSQLite {
		// sqlite не умеет в параллельную запись, держим одно соединение
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// newGormLogger - как logger.Default, но промах First/Take не считается ошибкой:
// "не найден" для репозитория обычный ответ (domain.ErrNotFound)
func newGormLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// SQLiteDSN включает внешние ключи, по умолчанию в sqlite они выключены.
func SQLiteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
