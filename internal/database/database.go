package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"prime-pizza/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service wraps the process-wide database handle
type Service interface {
	// DB returns the underlying connection pool
	DB() *sql.DB
	// Health returns a snapshot of pool health and statistics
	Health() map[string]string
	// Close releases the pool
	Close() error
}

type service struct {
	db *sql.DB
}

var (
	once     sync.Once
	instance *service
)

// New opens the database handle. Repeated calls return the same instance,
// so components can acquire it freely without opening extra pools.
func New(cfg config.DatabaseConfig) Service {
	once.Do(func() {
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.Schema,
		)

		db, err := sql.Open("pgx", dsn)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		instance = &service{db: db}
	})

	return instance
}

func (s *service) DB() *sql.DB {
	return s.db
}

// Health pings the database and reports pool statistics
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	poolStats := s.db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = fmt.Sprintf("%d", poolStats.OpenConnections)
	stats["in_use"] = fmt.Sprintf("%d", poolStats.InUse)
	stats["idle"] = fmt.Sprintf("%d", poolStats.Idle)

	return stats
}

func (s *service) Close() error {
	return s.db.Close()
}
