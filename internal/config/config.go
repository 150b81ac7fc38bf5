package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Store struct {
		Backend     string `yaml:"backend"` // memory, redis, postgres
		PostgresDSN string `yaml:"postgres_dsn"`
		RedisAddr   string `yaml:"redis_addr"`
		RedisDB     int    `yaml:"redis_db"`
	} `yaml:"store"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // в часах
	} `yaml:"jwt"`

	Worker struct {
		CloseInterval int `yaml:"close_interval"` // в минутах
	} `yaml:"worker"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию: сначала config.yaml (если есть),
// затем переменные окружения поверх. .env подхватывается автоматически.
func LoadConfig() {
	var cfg Config

	// .env не обязателен: в докере переменные приходят из окружения
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if f, err := os.Open(configPath); err == nil {
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}
		f.Close()
	}

	// --- Переопределения из окружения ---

	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			log.Fatalf("Invalid SERVER_PORT %q: %v", portStr, err)
		}
		cfg.Server.Port = port
	}
	if env := os.Getenv("SERVER_ENV"); env != "" {
		cfg.Server.Env = env
	}

	if backend := os.Getenv("STORE_BACKEND"); backend != "" {
		cfg.Store.Backend = backend
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Store.PostgresDSN = dsn
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Store.RedisAddr = addr
	}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			log.Fatalf("Invalid REDIS_DB %q: %v", dbStr, err)
		}
		cfg.Store.RedisDB = db
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}

	// --- Значения по умолчанию ---

	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "memory"
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 24
	}
	if cfg.Worker.CloseInterval == 0 {
		cfg.Worker.CloseInterval = 60
	}

	AppConfig = &cfg
}

// GetConfig возвращает загруженную конфигурацию
func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
