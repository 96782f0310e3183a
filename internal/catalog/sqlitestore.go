package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/aaronzipp/spyfall-bot/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS locations (
    name TEXT NOT NULL PRIMARY KEY COLLATE NOCASE,
    tier TEXT NOT NULL,
    position INTEGER NOT NULL,
    roles TEXT NOT NULL
);
`

// SQLiteStore persists the catalog in a SQLite database
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) a catalog database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Empty reports whether no locations are stored yet
func (s *SQLiteStore) Empty(ctx context.Context) (bool, error) {
	var n int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n); err != nil {
		return false, fmt.Errorf("count locations: %w", err)
	}
	return n == 0, nil
}

// Load reads both tiers in stored order
func (s *SQLiteStore) Load(ctx context.Context) (public, secret []models.Location, err error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name, tier, roles FROM locations ORDER BY position`)
	if err != nil {
		return nil, nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, tier, rawRoles string
		if err := rows.Scan(&name, &tier, &rawRoles); err != nil {
			return nil, nil, fmt.Errorf("scan location: %w", err)
		}
		var roles []string
		if err := json.Unmarshal([]byte(rawRoles), &roles); err != nil {
			return nil, nil, fmt.Errorf("decode roles for %q: %w", name, err)
		}
		loc := models.Location{Name: name, Roles: roles, Tier: models.Tier(tier)}
		switch loc.Tier {
		case models.TierPublic:
			public = append(public, loc)
		case models.TierSecret:
			secret = append(secret, loc)
		default:
			return nil, nil, fmt.Errorf("location %q has unknown tier %q", name, tier)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate locations: %w", err)
	}
	return public, secret, nil
}

// Save replaces every row of tier in one transaction
func (s *SQLiteStore) Save(ctx context.Context, tier models.Tier, locations []models.Location) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM locations WHERE tier = ?`, string(tier)); err != nil {
		return fmt.Errorf("clear %s tier: %w", tier, err)
	}
	for i, loc := range locations {
		roles, err := json.Marshal(loc.Roles)
		if err != nil {
			return fmt.Errorf("encode roles for %q: %w", loc.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO locations (name, tier, position, roles) VALUES (?, ?, ?, ?)`,
			loc.Name, string(tier), i, string(roles),
		); err != nil {
			return fmt.Errorf("insert %q: %w", loc.Name, err)
		}
	}
	return tx.Commit()
}

// Seed copies both tiers from src into dst
func Seed(ctx context.Context, dst, src Store) error {
	public, secret, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}
	if err := dst.Save(ctx, models.TierPublic, public); err != nil {
		return fmt.Errorf("seed public tier: %w", err)
	}
	if err := dst.Save(ctx, models.TierSecret, secret); err != nil {
		return fmt.Errorf("seed secret tier: %w", err)
	}
	return nil
}
