package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	DSN string
}

// LoadDBConfig loads database configuration from environment variables
func LoadDBConfig() (*DBConfig, error) {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	if dbHost == "" || dbPort == "" || dbUser == "" || dbName == "" {
		return nil, fmt.Errorf("database environment variables not set (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	return &DBConfig{DSN: dsn}, nil
}

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(cfg *DBConfig) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	// Retry connecting to the database a few times
	maxRetries := 5
	retryInterval := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.New(context.Background(), cfg.DSN)
		if err == nil {
			err = pool.Ping(context.Background())
			if err == nil {
				log.Println("Successfully connected to PostgreSQL!")
				return pool, nil
			}
		}
		log.Printf("Failed to connect to database (attempt %d/%d): %v. Retrying in %v...", i+1, maxRetries, err, retryInterval)
		time.Sleep(retryInterval)
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}

// ConnectRedis connects to the Redis instance backing the session store.
func ConnectRedis() (*redis.Client, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("unable to connect to redis at %s: %w", addr, err)
	}
	log.Println("Successfully connected to Redis!")
	return rdb, nil
}

// AutoMigrate creates tables if they don't exist
func AutoMigrate(db *pgxpool.Pool) error {
	sql := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		phone TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('VICTIM', 'ADMIN')) DEFAULT 'VICTIM',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS complaints (
		id BIGSERIAL PRIMARY KEY,
		victim_id BIGINT NOT NULL,
		description TEXT NOT NULL,
		violence_type VARCHAR(50) NOT NULL,
		incident_date DATE NOT NULL,
		incident_location TEXT,
		aggressor_full_name VARCHAR(200) NOT NULL,
		aggressor_relationship VARCHAR(50),
		aggressor_additional_details TEXT,
		status VARCHAR(50) NOT NULL CHECK (status IN ('RECEIVED', 'IN_REVIEW', 'ACTION_TAKEN', 'CLOSED')) DEFAULT 'RECEIVED',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (victim_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS evidences (
		id BIGSERIAL PRIMARY KEY,
		complaint_id BIGINT NOT NULL,
		file_name TEXT NOT NULL,
		file_type TEXT NOT NULL,
		file_size BIGINT NOT NULL,
		storage_key TEXT NOT NULL,
		uploaded_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (complaint_id) REFERENCES complaints(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS support_centers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		street TEXT NOT NULL,
		district VARCHAR(50) NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL,
		schedule TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_by TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	-- Indexes for performance
	CREATE INDEX IF NOT EXISTS idx_complaints_victim_id ON complaints(victim_id);
	CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints(status);
	CREATE INDEX IF NOT EXISTS idx_complaints_violence_type ON complaints(violence_type);
	CREATE INDEX IF NOT EXISTS idx_complaints_created_at ON complaints(created_at);
	CREATE INDEX IF NOT EXISTS idx_evidences_complaint_id ON evidences(complaint_id);
	CREATE INDEX IF NOT EXISTS idx_support_centers_district ON support_centers(district);

    -- Function to update updated_at column
    CREATE OR REPLACE FUNCTION update_updated_at_column()
    RETURNS TRIGGER AS $$
    BEGIN
       NEW.updated_at = NOW();
       RETURN NEW;
    END;
    $$ language 'plpgsql';

    DO $$
    BEGIN
        IF NOT EXISTS (
            SELECT 1
            FROM pg_trigger
            WHERE tgname = 'set_complaints_updated_at' AND tgrelid = 'complaints'::regclass
        ) THEN
            CREATE TRIGGER set_complaints_updated_at
            BEFORE UPDATE ON complaints
            FOR EACH ROW
            EXECUTE FUNCTION update_updated_at_column();
        END IF;
        IF NOT EXISTS (
            SELECT 1
            FROM pg_trigger
            WHERE tgname = 'set_users_updated_at' AND tgrelid = 'users'::regclass
        ) THEN
            CREATE TRIGGER set_users_updated_at
            BEFORE UPDATE ON users
            FOR EACH ROW
            EXECUTE FUNCTION update_updated_at_column();
        END IF;
        IF NOT EXISTS (
            SELECT 1
            FROM pg_trigger
            WHERE tgname = 'set_support_centers_updated_at' AND tgrelid = 'support_centers'::regclass
        ) THEN
            CREATE TRIGGER set_support_centers_updated_at
            BEFORE UPDATE ON support_centers
            FOR EACH ROW
            EXECUTE FUNCTION update_updated_at_column();
        END IF;
    END
    $$;
	`
	_, err := db.Exec(context.Background(), sql)
	if err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}

	log.Println("AutoMigrate applied successfully")
	return nil
}
