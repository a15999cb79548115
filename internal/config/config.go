package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"adminschema/internal/logger"
	"adminschema/internal/sink"
)

type Config struct {
	Port string `yaml:"port"`

	// Хранилище моделей: "memory" (default) | "sqlite" | "postgres"
	StorageDriver string `yaml:"storageDriver"`
	DBURL         string `yaml:"dbUrl"`      // для postgres
	SQLitePath    string `yaml:"sqlitePath"` // для sqlite

	CatalogPath string `yaml:"catalogPath"` // YAML с меню родителей (файл или папка)

	// Куда пишет синхронизация: "local" (default) | "s3"
	SinkDriver string        `yaml:"sinkDriver"`
	SinkRoot   string        `yaml:"sinkRoot"` // для local: база относительных путей
	S3         sink.S3Config `yaml:"s3"`

	RenderCacheSize int           `yaml:"renderCacheSize"`
	Log             logger.Config `yaml:"log"`
}

func def() Config {
	return Config{
		Port:          "8080",
		StorageDriver: "memory",
		SQLitePath:    "models.db",
		SinkDriver:    "local",
		S3: sink.S3Config{
			Region: "us-east-1",
		},
		RenderCacheSize: 256,
		Log: logger.Config{
			Level:      "info",
			Format:     "console",
			Output:     "stdout",
			FilePath:   "logs/adminschema.log",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

func loadYAML(path string) (Config, error) {
	c := def()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, nil
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getenvBool(k string, fallback bool) bool {
	if v, ok := os.LookupEnv(k); ok {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "1" || v == "true" || v == "yes" {
			return true
		}
		if v == "0" || v == "false" || v == "no" {
			return false
		}
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	if v, ok := os.LookupEnv(k); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

// LoadWithPath: .env, затем YAML по пути, ENV и флаги командной строки.
func LoadWithPath(yamlPath string) Config {
	return Load(yamlPath, os.Args[1:])
}

// Load — то же, что LoadWithPath, но с явными аргументами.
func Load(yamlPath string, args []string) Config {
	// .env не обязателен
	_ = godotenv.Load()

	cfg := def()

	// YAML (если файл существует)
	if st, err := os.Stat(yamlPath); err == nil && !st.IsDir() {
		if c2, err := loadYAML(yamlPath); err == nil {
			cfg = c2
		}
	}

	// ENV overrides
	cfg.Port = getenv("ADMINSCHEMA_PORT", cfg.Port)
	cfg.StorageDriver = getenv("ADMINSCHEMA_STORAGE_DRIVER", cfg.StorageDriver)
	cfg.DBURL = getenv("ADMINSCHEMA_DB_URL", cfg.DBURL)
	cfg.SQLitePath = getenv("ADMINSCHEMA_SQLITE_PATH", cfg.SQLitePath)
	cfg.CatalogPath = getenv("ADMINSCHEMA_CATALOG", cfg.CatalogPath)

	cfg.SinkDriver = getenv("ADMINSCHEMA_SINK_DRIVER", cfg.SinkDriver)
	cfg.SinkRoot = getenv("ADMINSCHEMA_SINK_ROOT", cfg.SinkRoot)
	cfg.S3.Endpoint = getenv("ADMINSCHEMA_S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.Region = getenv("ADMINSCHEMA_S3_REGION", cfg.S3.Region)
	cfg.S3.Bucket = getenv("ADMINSCHEMA_S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.Prefix = getenv("ADMINSCHEMA_S3_PREFIX", cfg.S3.Prefix)
	cfg.S3.AccessKey = getenv("ADMINSCHEMA_S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = getenv("ADMINSCHEMA_S3_SECRET_KEY", cfg.S3.SecretKey)
	cfg.S3.UseSSL = getenvBool("ADMINSCHEMA_S3_USE_SSL", cfg.S3.UseSSL)

	cfg.RenderCacheSize = getenvInt("ADMINSCHEMA_RENDER_CACHE", cfg.RenderCacheSize)
	cfg.Log.Level = getenv("ADMINSCHEMA_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getenv("ADMINSCHEMA_LOG_FORMAT", cfg.Log.Format)
	cfg.Log.Output = getenv("ADMINSCHEMA_LOG_OUTPUT", cfg.Log.Output)
	cfg.Log.FilePath = getenv("ADMINSCHEMA_LOG_FILE", cfg.Log.FilePath)

	// Flags overrides
	fs := flag.NewFlagSet("adminschema", flag.ContinueOnError)
	configPath := fs.String("config", yamlPath, "Path to config YAML")
	port := fs.String("port", cfg.Port, "HTTP port")
	storage := fs.String("storage", cfg.StorageDriver, "Model storage (memory/sqlite/postgres)")
	db := fs.String("db", cfg.DBURL, "Postgres URL (storage=postgres)")
	sqlitePath := fs.String("sqlite", cfg.SQLitePath, "SQLite file (storage=sqlite)")
	catalogPath := fs.String("catalog", cfg.CatalogPath, "Parent menu catalog (YAML file or directory)")
	sinkDriver := fs.String("sink", cfg.SinkDriver, "Sync sink (local/s3)")
	sinkRoot := fs.String("sink-root", cfg.SinkRoot, "Base dir for relative source files (sink=local)")
	s3b := fs.String("s3-bucket", cfg.S3.Bucket, "S3 bucket")
	s3p := fs.String("s3-prefix", cfg.S3.Prefix, "S3 key prefix")
	s3e := fs.String("s3-endpoint", cfg.S3.Endpoint, "S3 endpoint (MinIO/custom)")
	cache := fs.Int("render-cache", cfg.RenderCacheSize, "Rendered text cache size (0 = off)")
	logLevel := fs.String("log-level", cfg.Log.Level, "Log level (debug/info/warn/error)")

	if err := fs.Parse(args); err != nil {
		return cfg
	}

	// Если через флаг передали другой конфиг — перечитаем
	if *configPath != yamlPath {
		return Load(*configPath, args)
	}

	cfg.Port = strings.TrimSpace(*port)
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(*storage))
	cfg.DBURL = strings.TrimSpace(*db)
	cfg.SQLitePath = strings.TrimSpace(*sqlitePath)
	cfg.CatalogPath = strings.TrimSpace(*catalogPath)
	cfg.SinkDriver = strings.ToLower(strings.TrimSpace(*sinkDriver))
	cfg.SinkRoot = strings.TrimSpace(*sinkRoot)
	cfg.S3.Bucket = strings.TrimSpace(*s3b)
	cfg.S3.Prefix = strings.TrimSpace(*s3p)
	cfg.S3.Endpoint = strings.TrimSpace(*s3e)
	cfg.RenderCacheSize = *cache
	cfg.Log.Level = strings.TrimSpace(*logLevel)

	return cfg
}
