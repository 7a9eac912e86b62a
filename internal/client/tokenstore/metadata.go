package tokenstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/medcasegen/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/medcasegen/internal/dbx"
	"github.com/dmitrijs2005/medcasegen/internal/logging"
)

// Metadata keys holding the CLI session.
const (
	TokenKey     = "auth_token"
	ExpiresAtKey = "auth_token_expires_at"
)

// MetadataStore persists the token and its expiry in the metadata table so a
// CLI session survives restarts. An expired token reads as absent.
type MetadataStore struct {
	db     *sql.DB
	ttl    time.Duration
	logger logging.Logger
	now    func() time.Time
}

func NewMetadataStore(db *sql.DB, ttl time.Duration, logger logging.Logger) *MetadataStore {
	return &MetadataStore{db: db, ttl: ttl, logger: logger, now: time.Now}
}

func (s *MetadataStore) Save(ctx context.Context, token string) {
	if token == "" {
		s.logger.Warn(ctx, "refusing to store an empty session token")
		return
	}

	expiresAt := s.now().Add(s.ttl).UTC().Format(time.RFC3339)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, TokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, ExpiresAtKey, []byte(expiresAt))
	})
	if err != nil {
		s.logger.Error(ctx, "failed to store session token", "error", err)
	}
}

func (s *MetadataStore) Read(ctx context.Context) (string, bool) {
	repo := metadata.NewSQLiteRepository(s.db)

	token, err := repo.Get(ctx, TokenKey)
	if err != nil {
		s.logger.Error(ctx, "failed to read session token", "error", err)
		return "", false
	}
	if len(token) == 0 {
		return "", false
	}

	raw, err := repo.Get(ctx, ExpiresAtKey)
	if err != nil {
		s.logger.Error(ctx, "failed to read session token expiry", "error", err)
		return "", false
	}
	expiresAt, err := time.Parse(time.RFC3339, string(raw))
	if err != nil || !s.now().Before(expiresAt) {
		s.logger.Debug(ctx, "stored session token expired")
		return "", false
	}

	return string(token), true
}

func (s *MetadataStore) Clear(ctx context.Context) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, TokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, ExpiresAtKey)
	})
	if err != nil {
		s.logger.Error(ctx, "failed to clear session token", "error", err)
	}
}
