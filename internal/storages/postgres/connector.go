package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Config содержит конфигурацию для подключения к PostgreSQL
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectRetries  int
	ConnectInterval time.Duration
}

// PostgresStorage реализует интерфейс Storage для PostgreSQL
type PostgresStorage struct {
	db     *sql.DB
	logger *logrus.Logger
}

// New создает новое подключение к PostgreSQL. База может подниматься
// одновременно с ботом, поэтому подключение пробуется с фиксированным
// интервалом ограниченное число раз.
func New(cfg *Config, logger *logrus.Logger) (*PostgresStorage, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := waitForDB(db, cfg.ConnectRetries, cfg.ConnectInterval, logger); err != nil {
		return nil, err
	}

	logger.Info("Successfully connected to PostgreSQL")

	storage := &PostgresStorage{
		db:     db,
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := storage.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// waitForDB ждет готовности базы данных
func waitForDB(db *sql.DB, retries int, interval time.Duration, logger *logrus.Logger) error {
	var err error
	for attempt := 1; attempt <= retries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.PingContext(ctx)
		cancel()

		if err == nil {
			return nil
		}

		if attempt < retries {
			logger.Warnf("Database not ready, retrying in %s... (attempt %d/%d)", interval, attempt, retries)
			time.Sleep(interval)
		}
	}
	return fmt.Errorf("could not connect to database after %d attempts: %w", retries, err)
}

// initSchema создает необходимые таблицы, если они не существуют
func (s *PostgresStorage) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		chat_id BIGINT NOT NULL,
		date DATE NOT NULL,
		category TEXT NOT NULL,
		amount NUMERIC(10, 2) NOT NULL,
		type VARCHAR(10) NOT NULL
	);

	CREATE TABLE IF NOT EXISTS user_balances (
		chat_id BIGINT PRIMARY KEY,
		balance NUMERIC(10, 2) NOT NULL DEFAULT 0,
		last_updated DATE
	);

	CREATE TABLE IF NOT EXISTS user_currencies (
		id BIGSERIAL PRIMARY KEY,
		chat_id BIGINT NOT NULL,
		currency VARCHAR(8) NOT NULL,
		amount NUMERIC(10, 2) NOT NULL DEFAULT 0,
		last_updated DATE,
		UNIQUE(chat_id, currency)
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_chat ON transactions(chat_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_chat_date ON transactions(chat_id, date);
	CREATE INDEX IF NOT EXISTS idx_user_currencies_chat ON user_currencies(chat_id);
	`

	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	s.logger.Info("Database schema initialized")
	return nil
}

// Ping проверяет доступность базы данных
func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close закрывает соединение с базой данных
func (s *PostgresStorage) Close() error {
	if s.db != nil {
		s.logger.Info("Closing database connection")
		return s.db.Close()
	}
	return nil
}
