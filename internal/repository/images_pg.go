package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/receipt-vision/internal/common"
)

type PGConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// PGImageStore keeps images in Postgres. This is the shared-deployment store;
// single-user installs use the bolt store instead.
type PGImageStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

const imagesSchema = `
CREATE TABLE IF NOT EXISTS receipt_images (
	id         UUID PRIMARY KEY,
	data       BYTEA NOT NULL,
	ext        TEXT NOT NULL,
	sha256     TEXT NOT NULL,
	size_bytes BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// OpenPG creates a pgx pool and ensures the images table exists.
func OpenPG(ctx context.Context, cfg PGConfig, logger *slog.Logger) (*PGImageStore, error) {
	logger.Info("connecting to database", "dsn", cfg.DSN)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "receipt-vision"

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	if _, err := pool.Exec(ctx, imagesSchema); err != nil {
		pool.Close()
		logger.Error("failed to ensure schema", "error", err)
		return nil, err
	}

	logger.Info("successfully connected to database")
	return &PGImageStore{pool: pool, logger: logger}, nil
}

func (s *PGImageStore) Put(ctx context.Context, img StoredImage) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO receipt_images (id, data, ext, sha256, size_bytes)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, ext = EXCLUDED.ext,
		   sha256 = EXCLUDED.sha256, size_bytes = EXCLUDED.size_bytes`,
		img.ID, img.Data, img.Ext, img.SHA256, img.SizeBytes,
	)
	if err != nil {
		return common.InternalError("storing image", err)
	}
	return nil
}

func (s *PGImageStore) Get(ctx context.Context, id uuid.UUID) (StoredImage, error) {
	img := StoredImage{ID: id}
	err := s.pool.QueryRow(ctx,
		`SELECT data, ext, sha256, size_bytes FROM receipt_images WHERE id = $1`, id,
	).Scan(&img.Data, &img.Ext, &img.SHA256, &img.SizeBytes)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredImage{}, common.NotFoundError("image " + id.String())
	}
	if err != nil {
		return StoredImage{}, common.InternalError("loading image", err)
	}
	return img, nil
}

func (s *PGImageStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM receipt_images WHERE id = $1`, id)
	if err != nil {
		return common.InternalError("deleting image", err)
	}
	return nil
}

// HealthCheck pings the pool to catch DSN issues early.
func (s *PGImageStore) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.pool.Ping(ctx)
}

func (s *PGImageStore) Close() error {
	s.logger.Info("closing database connections")
	s.pool.Close()
	return nil
}
