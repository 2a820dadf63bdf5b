package db

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"financehub/entities"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the Postgres database described by DB_URL or the DB_* variables
// and migrates the schema for the given reaction policy.
func Connect(policy entities.ReactionPolicy) (*GormDatabase, error) {
	dsn, err := dsnFromEnv()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(0)

	slog.Info("database connection established")

	if err := Migrate(db, policy); err != nil {
		return nil, err
	}

	return &GormDatabase{DB: db}, nil
}

// dsnFromEnv prefers DB_URL and otherwise builds a key/value DSN from the
// individual DB_* variables.
func dsnFromEnv() (string, error) {
	if dsn := os.Getenv("DB_URL"); dsn != "" {
		// Hosted databases expect TLS
		if !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
		slog.Info("connecting to database using DB_URL")
		return dsn, nil
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	if dbHost == "" || dbPort == "" || dbUser == "" || dbPassword == "" || dbName == "" {
		return "", fmt.Errorf("missing required database configuration: DB_URL or (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	sslMode := "require"
	if dbHost == "localhost" || dbHost == "127.0.0.1" {
		sslMode = "disable"
	}

	slog.Info("connecting to database using individual parameters", "sslmode", sslMode)
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		dbHost, dbUser, dbPassword, dbName, dbPort, sslMode), nil
}

// Migrate creates or updates the tables and the reaction uniqueness indexes.
// Switching the policy to unlimited drops the indexes again.
func Migrate(db *gorm.DB, policy entities.ReactionPolicy) error {
	slog.Info("running database migrations")
	if err := db.AutoMigrate(
		&entities.User{},
		&entities.Post{},
		&entities.Comment{},
		&entities.Poll{},
		&entities.PollOption{},
		&entities.PostLike{},
		&entities.PollVote{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	stmts := []string{
		"DROP INDEX IF EXISTS idx_post_likes_post_user",
		"DROP INDEX IF EXISTS idx_poll_votes_poll_user",
	}
	if policy == entities.ReactionOnce {
		stmts = []string{
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_post_likes_post_user ON post_likes (post_id, user_id)",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_poll_votes_poll_user ON poll_votes (poll_id, user_id)",
		}
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to apply reaction policy %q: %w", policy, err)
		}
	}

	slog.Info("database migrations completed", "reaction_policy", policy)
	return nil
}
