package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"purchase-bot/internal/config"
	"purchase-bot/pkg/redis"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// ErrArticleNotFound is returned when an article id no longer resolves to a row.
var ErrArticleNotFound = errors.New("article not found")

type PostgresStorage struct {
	db     *sqlx.DB
	redis  *redis.Client
	logger *zap.Logger
}

type Article struct {
	ID          int64  `db:"article_id"`
	Title       string `db:"title"`
	Role        Role   `db:"user_role"`
	ContentPath string `db:"content_path"`
}

func NewPostgresStorage(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
	)

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", connStr)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if err = db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		retryPolicy,
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.DBConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// EnsureUser inserts a user row if absent. Calling it twice with the same id
// leaves exactly one row.
func (s *PostgresStorage) EnsureUser(ctx context.Context, userID int64) error {
	const query = `INSERT INTO users (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

// UserRole returns the stored role for a user, or RoleUnset when the row is
// missing or the role column is NULL/blank. Roles never expire, so cache hits
// are served from Redis until SetUserRole rewrites the key.
func (s *PostgresStorage) UserRole(ctx context.Context, userID int64) (Role, error) {
	cacheKey := fmt.Sprintf("user_role:%d", userID)

	if cached, err := s.redis.Get(ctx, cacheKey); err == nil {
		return Role(cached), nil
	}

	const query = `SELECT user_role FROM users WHERE user_id = $1`

	var role sql.NullString
	err := s.db.GetContext(ctx, &role, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RoleUnset, nil
		}
		return RoleUnset, fmt.Errorf("failed to get user role: %w", err)
	}
	if !role.Valid || role.String == "" {
		return RoleUnset, nil
	}

	if err := s.redis.Set(ctx, cacheKey, []byte(role.String), 0); err != nil {
		s.logger.Warn("Failed to cache user role",
			zap.Int64("user_id", userID),
			zap.Error(err))
	}

	return Role(role.String), nil
}

// SetUserRole updates the user's role. A missing user row is a silent no-op:
// callers are expected to EnsureUser first, so zero affected rows only happens
// when the row vanished between calls.
func (s *PostgresStorage) SetUserRole(ctx context.Context, userID int64, role Role) error {
	const query = `UPDATE users SET user_role = $1 WHERE user_id = $2`

	res, err := s.db.ExecContext(ctx, query, string(role), userID)
	if err != nil {
		return fmt.Errorf("failed to set user role: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		s.logger.Warn("Role update matched no user row",
			zap.Int64("user_id", userID),
			zap.String("role", string(role)))
		return nil
	}

	cacheKey := fmt.Sprintf("user_role:%d", userID)
	if err := s.redis.Set(ctx, cacheKey, []byte(role), 0); err != nil {
		s.logger.Warn("Failed to refresh cached user role",
			zap.Int64("user_id", userID),
			zap.Error(err))
	}

	return nil
}

// ArticlesByRole returns the role-filtered article set in ascending id order.
// This ordering is the single source of truth for sequence numbers.
func (s *PostgresStorage) ArticlesByRole(ctx context.Context, role Role) ([]Article, error) {
	const query = `
        SELECT article_id, title, user_role, content_path
        FROM articles
        WHERE user_role = $1
        ORDER BY article_id ASC
    `

	var articles []Article
	if err := s.db.SelectContext(ctx, &articles, query, string(role)); err != nil {
		return nil, fmt.Errorf("failed to get articles: %w", err)
	}

	return articles, nil
}

func (s *PostgresStorage) ArticleByID(ctx context.Context, articleID int64) (*Article, error) {
	const query = `
        SELECT article_id, title, user_role, content_path
        FROM articles
        WHERE article_id = $1
    `

	var article Article
	err := s.db.GetContext(ctx, &article, query, articleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("article %d: %w", articleID, ErrArticleNotFound)
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &article, nil
}

func (s *PostgresStorage) CountArticles(ctx context.Context, role Role) (int, error) {
	const query = `SELECT COUNT(*) FROM articles WHERE user_role = $1`

	var count int
	if err := s.db.GetContext(ctx, &count, query, string(role)); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// NextArticleID returns the smallest article id strictly greater than the
// given one within the role-filtered set. When no such article exists the
// input id itself is returned as the "no next" sentinel.
func (s *PostgresStorage) NextArticleID(ctx context.Context, articleID int64, role Role) (int64, error) {
	const query = `
        SELECT article_id FROM articles
        WHERE article_id > $1 AND user_role = $2
        ORDER BY article_id ASC
        LIMIT 1
    `

	var next int64
	err := s.db.GetContext(ctx, &next, query, articleID, string(role))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return articleID, nil
		}
		return 0, fmt.Errorf("failed to get next article id: %w", err)
	}
	return next, nil
}

// PrevArticleID mirrors NextArticleID for the largest id strictly less than
// the given one, with the same sentinel-on-boundary behaviour.
func (s *PostgresStorage) PrevArticleID(ctx context.Context, articleID int64, role Role) (int64, error) {
	const query = `
        SELECT article_id FROM articles
        WHERE article_id < $1 AND user_role = $2
        ORDER BY article_id DESC
        LIMIT 1
    `

	var prev int64
	err := s.db.GetContext(ctx, &prev, query, articleID, string(role))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return articleID, nil
		}
		return 0, fmt.Errorf("failed to get previous article id: %w", err)
	}
	return prev, nil
}

type CatalogStatistics struct {
	TotalUsers        int
	RegularUsers      int
	EntrepreneurUsers int
	UnsetUsers        int
	TotalArticles     int
	ArticlesByRole    map[string]int
}

// CatalogStats returns audience/catalog counts, cached in Redis for an hour.
func (s *PostgresStorage) CatalogStats(ctx context.Context) (*CatalogStatistics, error) {
	cacheKey := "catalog_stats"

	if cached, err := s.redis.Get(ctx, cacheKey); err == nil {
		var stats CatalogStatistics
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
	}

	stats := &CatalogStatistics{
		ArticlesByRole: make(map[string]int),
	}

	err := s.db.GetContext(ctx, &stats.TotalUsers, `SELECT COUNT(*) FROM users`)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT COALESCE(user_role, ''), COUNT(*)
        FROM users
        GROUP BY user_role
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("failed to scan user role count: %w", err)
		}
		switch Role(role) {
		case RoleRegular:
			stats.RegularUsers = count
		case RoleEntrepreneur:
			stats.EntrepreneurUsers = count
		default:
			stats.UnsetUsers += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user role counts: %w", err)
	}

	err = s.db.GetContext(ctx, &stats.TotalArticles, `SELECT COUNT(*) FROM articles`)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	articleRows, err := s.db.QueryContext(ctx, `
        SELECT user_role, COUNT(*)
        FROM articles
        GROUP BY user_role
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles by role: %w", err)
	}
	defer articleRows.Close()

	for articleRows.Next() {
		var role string
		var count int
		if err := articleRows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("failed to scan article role count: %w", err)
		}
		stats.ArticlesByRole[role] = count
	}
	if err := articleRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate article role counts: %w", err)
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := s.redis.Set(ctx, cacheKey, data, 1*time.Hour); err != nil {
			s.logger.Warn("Failed to cache catalog stats", zap.Error(err))
		}
	}

	return stats, nil
}

func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
