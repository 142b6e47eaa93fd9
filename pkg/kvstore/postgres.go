package kvstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"movie-storefront/pkg/utils"
)

const (
	kvTableDDL = `
		CREATE TABLE IF NOT EXISTS kv_entries (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	kvChannel = "kv_changes"
)

// PostgresStore keeps every document in a single key/value table and fans
// writes out through LISTEN/NOTIFY, so several storefront instances sharing a
// database observe each other's order-queue changes.
type PostgresStore struct {
	pool   *pgxpool.Pool
	mu     sync.Mutex
	notify *notifier
	cancel context.CancelFunc
}

func NewPostgresStore(ctx context.Context, config utils.DatabaseConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable host=%s port=%s",
		config.User, config.Password, config.Name, config.Host, config.Port)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	poolConfig.MaxConns = config.MaxConns
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 3*time.Second)
	defer cancelPing()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, kvTableDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	listenCtx, cancel := context.WithCancel(context.Background())
	s := &PostgresStore{
		pool:   pool,
		notify: newNotifier(),
		cancel: cancel,
	}
	go s.listen(listenCtx)

	return s, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&value)
	if err == pgx.ErrNoRows {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	if _, err := s.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, kvChannel, key); err != nil {
		return fmt.Errorf("notify %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if _, err := s.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, kvChannel, key); err != nil {
		return fmt.Errorf("notify %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Watch(key string) (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, id := s.notify.subscribe(key)
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.notify.unsubscribe(key, id)
	}
	return ch, cancel
}

func (s *PostgresStore) Close() error {
	s.cancel()
	s.pool.Close()
	return nil
}

// listen holds a dedicated connection on the notification channel and fans
// payloads (the changed key) out to subscribers. The connection is re-acquired
// on failure until the store closes.
func (s *PostgresStore) listen(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := s.pool.Acquire(ctx)
		if err != nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
				continue
			}
		}

		if _, err := conn.Exec(ctx, `LISTEN `+kvChannel); err != nil {
			conn.Release()
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
				continue
			}
		}

		for {
			notification, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				break
			}
			s.mu.Lock()
			s.notify.notify(notification.Payload)
			s.mu.Unlock()
		}
		conn.Release()
	}
}
