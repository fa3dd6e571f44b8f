package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	config "example.com/socialfeed/internal/init"
	"example.com/socialfeed/internal/logger"
	"example.com/socialfeed/internal/models"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var logg = logger.New()

//go:embed migrations/*.sql
var migrationFS embed.FS

// sqlitePrefix selects the embedded sqlite database for local development.
const sqlitePrefix = "sqlite://"

// --- Interfaces ---

type StoreInterface interface {
	// Transaction runs fn against a store bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx StoreInterface) error) error

	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error)
	ToggleFollow(ctx context.Context, followerID, targetID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, targetID string) (bool, error)
	FollowersCount(ctx context.Context, userID string) (int64, error)
	FollowingCount(ctx context.Context, userID string) (int64, error)

	CreatePost(ctx context.Context, p *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	LockPost(ctx context.Context, id string) (*models.Post, error)
	ListReplies(ctx context.Context, postID string) ([]models.Post, error)
	CountPosts(ctx context.Context, f PostFilter) (int64, error)
	ListPosts(ctx context.Context, f PostFilter, offset, limit int) ([]models.Post, error)
	PostCounts(ctx context.Context, postID string) (models.PostCounts, error)
	ToggleReaction(ctx context.Context, kind models.Reaction, postID, userID string) (bool, error)
	CountReactions(ctx context.Context, kind models.Reaction, postID string) (int64, error)

	GetOrCreateHashtag(ctx context.Context, name string) (*models.Hashtag, error)
	GetHashtagByName(ctx context.Context, name string) (*models.Hashtag, error)
	LinkHashtag(ctx context.Context, hashtagID, postID string) error
	HashtagsForPost(ctx context.Context, postID string) ([]models.Hashtag, error)

	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, recipientID string, limit int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, recipientID, id string) error

	SearchPosts(ctx context.Context, query string, limit int) ([]models.Post, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error)
	SearchHashtags(ctx context.Context, query string, limit int) ([]models.Hashtag, error)

	Close()
}

// --- Store Implementation ---

type Store struct {
	db *gorm.DB
}

// New opens the database named by cfg.DatabaseURL. Postgres URLs are migrated
// with the embedded SQL migrations (when DBAutoMigrate is set); "sqlite://path"
// opens a local sqlite file and creates the schema from the models.
func New(cfg *config.Config) (*Store, error) {
	if path, ok := strings.CutPrefix(cfg.DatabaseURL, sqlitePrefix); ok {
		st, err := Open(sqlite.Open(path+"?_fk=1"), cfg.DBLogLevel)
		if err != nil {
			return nil, err
		}
		if err := st.AutoMigrate(); err != nil {
			st.Close()
			return nil, err
		}
		logg.Info("store", "Opened sqlite database")
		return st, nil
	}

	if cfg.DBAutoMigrate {
		if err := RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	st, err := Open(postgres.Open(cfg.DatabaseURL), cfg.DBLogLevel)
	if err != nil {
		return nil, err
	}
	logg.Info("store", "Connected to Postgres (host anonymized)")
	return st, nil
}

// Open wraps an already chosen gorm dialector.
func Open(dialector gorm.Dialector, logLevel string) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(parseLogLevel(logLevel)),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Store{db: db}, nil
}

// AutoMigrate creates the schema from the models. Postgres deployments use
// the SQL migrations instead.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// SetMaxOpenConns limits the underlying connection pool.
func (s *Store) SetMaxOpenConns(n int) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(n)
	return nil
}

func (s *Store) Transaction(ctx context.Context, fn func(tx StoreInterface) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Close gracefully closes the connection pool.
func (s *Store) Close() {
	sqlDB, err := s.db.DB()
	if err != nil {
		logg.Error("store", "Failed to get connection pool", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logg.Error("store", "Failed to close connection pool", err)
		return
	}
	logg.Info("store", "Database connection closed")
}

// --- Migration runner ---

// NewMigrator returns a migrate instance over the embedded migrations.
func NewMigrator(databaseURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies every pending migration.
func RunMigrations(databaseURL string) error {
	m, err := NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logg.Info("store", "No new migrations to apply")
	} else {
		logg.Info("store", "Migrations applied successfully")
	}
	return nil
}

// migrateURL rewrites a postgres URL to the scheme of the pgx/v5 migrate driver.
func migrateURL(databaseURL string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(databaseURL, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return databaseURL
}

// --- Helpers ---

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// likePattern builds a case-insensitive substring pattern for LIKE … ESCAPE '\'.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}

// notFoundOr maps gorm.ErrRecordNotFound to a NotFoundError.
func notFoundOr(err error, entity, key string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity, key)
	}
	return err
}
