// Package config loads vectorcol's ambient configuration — which
// persistence backend to wire and its connection pieces — from the
// environment or a JSON file, mirroring the teacher's LoadConfigFromEnv/
// FindEnvFile pattern almost line for line.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// PersistenceConfig selects and configures a persistence backend. The
// engine itself never reads this type; a caller's main package uses it
// to decide which concrete persistence/{sqlite,postgres,mysql} adapter
// to construct and pass to collection.WithPersistence.
type PersistenceConfig struct {
	// Provider is one of "sqlite", "postgres", "mysql", or "none".
	Provider string `json:"provider"`

	// CollectionName names the backing table.
	CollectionName string `json:"collection_name"`

	// SQLitePath is the database file path, used when Provider == "sqlite".
	SQLitePath string `json:"sqlite_path,omitempty"`

	// Host, Port, User, Password, DBName, SSLMode configure postgres/mysql.
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	DBName   string `json:"db_name,omitempty"`
	SSLMode  string `json:"ssl_mode,omitempty"`
}

// VectorConfig is the environment-driven stub of a single named-vector
// configuration, loaded alongside PersistenceConfig.
type VectorConfig struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

// Config bundles everything LoadFromEnv produces.
type Config struct {
	Persistence PersistenceConfig `json:"persistence"`
	Vector      VectorConfig      `json:"vector"`
}

// LoadFromEnv loads configuration from environment variables.
//
// The function:
//  1. Searches for .env or .env.example files (current directory, then up to 4 parent directories)
//  2. Loads environment variables from the found file
//  3. Parses environment variables into a Config struct
//
// Supported environment variables:
//   - VECTORCOL_PERSISTENCE_PROVIDER (sqlite, postgres, mysql, none)
//   - VECTORCOL_COLLECTION_NAME
//   - VECTORCOL_SQLITE_PATH
//   - VECTORCOL_PG_HOST, VECTORCOL_PG_PORT, VECTORCOL_PG_USER, VECTORCOL_PG_PASSWORD, VECTORCOL_PG_DBNAME, VECTORCOL_PG_SSLMODE
//   - VECTORCOL_MYSQL_HOST, VECTORCOL_MYSQL_PORT, VECTORCOL_MYSQL_USER, VECTORCOL_MYSQL_PASSWORD, VECTORCOL_MYSQL_DBNAME
//   - VECTORCOL_VECTOR_SIZE, VECTORCOL_VECTOR_DISTANCE
func LoadFromEnv() (*Config, error) {
	envPath, found := FindEnvFile()
	if found {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	provider := getEnvOrDefault("VECTORCOL_PERSISTENCE_PROVIDER", "none")
	collectionName := getEnvOrDefault("VECTORCOL_COLLECTION_NAME", "default")

	persistence := PersistenceConfig{Provider: provider, CollectionName: collectionName}

	switch provider {
	case "sqlite":
		persistence.SQLitePath = getEnvOrDefault("VECTORCOL_SQLITE_PATH", "./vectorcol.db")
	case "postgres":
		port, _ := strconv.Atoi(getEnvOrDefault("VECTORCOL_PG_PORT", "5432"))
		persistence.Host = getEnvOrDefault("VECTORCOL_PG_HOST", "127.0.0.1")
		persistence.Port = port
		persistence.User = getEnvOrDefault("VECTORCOL_PG_USER", "postgres")
		persistence.Password = os.Getenv("VECTORCOL_PG_PASSWORD")
		persistence.DBName = getEnvOrDefault("VECTORCOL_PG_DBNAME", "vectorcol")
		persistence.SSLMode = getEnvOrDefault("VECTORCOL_PG_SSLMODE", "disable")
	case "mysql":
		port, _ := strconv.Atoi(getEnvOrDefault("VECTORCOL_MYSQL_PORT", "3306"))
		persistence.Host = getEnvOrDefault("VECTORCOL_MYSQL_HOST", "127.0.0.1")
		persistence.Port = port
		persistence.User = getEnvOrDefault("VECTORCOL_MYSQL_USER", "root")
		persistence.Password = os.Getenv("VECTORCOL_MYSQL_PASSWORD")
		persistence.DBName = getEnvOrDefault("VECTORCOL_MYSQL_DBNAME", "vectorcol")
	case "none":
	default:
		return nil, fmt.Errorf("unsupported persistence provider %q", provider)
	}

	size, _ := strconv.Atoi(getEnvOrDefault("VECTORCOL_VECTOR_SIZE", "0"))
	vector := VectorConfig{
		Size:     size,
		Distance: getEnvOrDefault("VECTORCOL_VECTOR_DISTANCE", "Cosine"),
	}

	return &Config{Persistence: persistence, Vector: vector}, nil
}

// LoadFromEnvFile loads configuration from a specific .env file.
func LoadFromEnvFile(envPath string) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return LoadFromEnv()
}

// LoadFromJSON loads configuration from a JSON file.
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadFromJSON: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("LoadFromJSON: %w", err)
	}
	return &cfg, nil
}

// FindEnvFile searches for .env or .env.example files.
//
// The search:
//  1. Checks the current directory
//  2. Walks upward through at most 5 directories in all (the current
//     directory and up to 4 parents)
//  3. Returns the first .env or .env.example file found
func FindEnvFile() (string, bool) {
	if _, err := os.Stat(".env"); err == nil {
		return ".env", true
	}
	if _, err := os.Stat(".env.example"); err == nil {
		return ".env.example", true
	}

	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		envExamplePath := filepath.Join(dir, ".env.example")

		if _, err := os.Stat(envPath); err == nil {
			return envPath, true
		}
		if _, err := os.Stat(envExamplePath); err == nil {
			return envExamplePath, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
