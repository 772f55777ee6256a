// Package database provides the GORM connection and schema management.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"platefeed/internal/config"
	"platefeed/internal/middleware"
	"platefeed/internal/models"
)

// CustomGormLogger bridges GORM's logger interface to the application's slog logger.
type CustomGormLogger struct {
	SlowThreshold time.Duration
	LogLevel      logger.LogLevel
}

// LogMode returns a copy of the logger with the given level.
func (l *CustomGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

// Info logs informational messages.
func (l *CustomGormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= logger.Info {
		middleware.Logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Warn logs warning messages.
func (l *CustomGormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= logger.Warn {
		middleware.Logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Error logs error messages.
func (l *CustomGormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= logger.Error {
		middleware.Logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Trace logs SQL statements with their duration and row count.
func (l *CustomGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []any{
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
		slog.String("sql", sql),
	}

	switch {
	case err != nil && err != gorm.ErrRecordNotFound && l.LogLevel >= logger.Error:
		fields = append(fields, slog.String("error", err.Error()))
		middleware.Logger.ErrorContext(ctx, "gorm query failed", fields...)
	case elapsed > l.SlowThreshold && l.SlowThreshold != 0 && l.LogLevel >= logger.Warn:
		middleware.Logger.WarnContext(ctx, "gorm slow query", fields...)
	case l.LogLevel >= logger.Info:
		middleware.Logger.DebugContext(ctx, "gorm query", fields...)
	}
}

var DB *gorm.DB

// Connect opens the PostgreSQL connection, applies pool settings, runs
// migrations outside production, and seeds the challenge catalog.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	gormLogger := &CustomGormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      logger.Warn,
	}
	if cfg.Env == "development" {
		gormLogger.LogLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	middleware.Logger.Info("database connected successfully")

	if cfg.Env != "production" && cfg.Env != "prod" {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	if err := SeedChallenges(db); err != nil {
		return nil, err
	}

	DB = db
	return db, nil
}

// Migrate runs auto-migration for all persistent models.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Friendship{},
		&models.Challenge{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	middleware.Logger.Info("database migration completed")
	return nil
}

// SeedChallenges inserts the fixed challenge catalog, skipping rows that exist.
func SeedChallenges(db *gorm.DB) error {
	for _, ch := range models.ChallengeCatalog() {
		var count int64
		if err := db.Model(&models.Challenge{}).Where("id = ?", ch.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check challenge %d: %w", ch.ID, err)
		}
		if count == 0 {
			if err := db.Create(&ch).Error; err != nil {
				return fmt.Errorf("failed to seed challenge %d: %w", ch.ID, err)
			}
		}
	}
	return nil
}
