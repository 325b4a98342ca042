package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env         string
	Addr        string
	DataFile    string
	StoreDriver string
	SQLitePath  string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	CORSOrigins []string
	LogDir      string
	MaxUploadMB int64
}

// Load reads configuration from the environment. A .env file in the working
// directory and config/.env.<env> are loaded first when they exist.
func Load() (*Config, error) {
	env := strings.ToUpper(os.Getenv("ENV")) // DEV (default), TEST, PROD
	if env == "" {
		env = "DEV"
	}

	for _, path := range []string{".env", filepath.Join("config", ".env."+strings.ToLower(env))} {
		if err := loadDotEnv(path); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("data_file", "records.csv")
	v.SetDefault("store_driver", DriverCSV)
	v.SetDefault("sqlite_path", "records.db")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_user", "")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "")
	v.SetDefault("db_port", "5432")
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("log_dir", "")
	v.SetDefault("max_upload_mb", 10)
	v.AutomaticEnv()

	cfg := &Config{
		Env:         env,
		Addr:        v.GetString("addr"),
		DataFile:    v.GetString("data_file"),
		StoreDriver: strings.ToLower(v.GetString("store_driver")),
		SQLitePath:  v.GetString("sqlite_path"),
		DBHost:      v.GetString("db_host"),
		DBUser:      v.GetString("db_user"),
		DBPassword:  v.GetString("db_password"),
		DBName:      v.GetString("db_name"),
		DBPort:      v.GetString("db_port"),
		CORSOrigins: splitList(v.GetString("cors_origins")),
		LogDir:      v.GetString("log_dir"),
		MaxUploadMB: v.GetInt64("max_upload_mb"),
	}

	switch cfg.StoreDriver {
	case DriverCSV, DriverSQLite, DriverPostgres:
	default:
		return nil, errors.Errorf("config: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.MaxUploadMB < 1 {
		return nil, errors.Errorf("config: MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}

	return cfg, nil
}

// loadDotEnv loads path if it exists; existing environment variables win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "config: stat %s", path)
	}
	return errors.Wrapf(godotenv.Load(path), "config: load %s", path)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
