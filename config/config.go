package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel          string `env:"LOG_LEVEL"`
	Postgres          Postgres
	Telegram          Telegram
	Redis             Redis
	API               API
	Cache             Cache
	Jobs              Jobs
	GoogleDrive       GoogleDrive
	Game              Game
	SessionExpiration time.Duration `env:"SESSION_EXPIRATION"`
}

type Postgres struct {
	Host            string `env:"PG_HOST"`
	Port            int    `env:"PG_PORT"`
	DbName          string `env:"PG_DB_NAME"`
	Password        string `env:"PG_PASSWORD"`
	User            string `env:"PG_USER"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME"`
	MigrationDir    string `env:"PG_MIGRATION_DIR"`
}

type Telegram struct {
	Token      string        `env:"TELEGRAM_TOKEN"`
	UpdTimeout time.Duration `env:"TELEGRAM_UPD_TIMEOUT"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"`
}

type API struct {
	Debug      bool          `env:"API_DEBUG"`
	Timeout    time.Duration `env:"API_TIMEOUT"`
	CatalogApi CatalogApi
}

type CatalogApi struct {
	Url string `env:"CATALOG_API_URL"`
}

type Cache struct {
	QuotesExpiration time.Duration `env:"CACHE_QUOTES_EXPIRATION"`
	NewsExpiration   time.Duration `env:"CACHE_NEWS_EXPIRATION"`
}

type Jobs struct {
	RefreshPricesInterval  time.Duration `env:"REFRESH_PRICES_JOB_INTERVAL"`
	RotateNewsInterval     time.Duration `env:"ROTATE_NEWS_JOB_INTERVAL"`
	RefreshCatalogInterval time.Duration `env:"REFRESH_CATALOG_JOB_INTERVAL"`
	DriveCleanupInterval   time.Duration `env:"DRIVE_CLEANUP_JOB_INTERVAL"`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE"`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL"`
}

type Game struct {
	StartingCash       float64 `env:"GAME_STARTING_CASH" envDefault:"1000"`
	GameCash           float64 `env:"GAME_MINIGAME_CASH" envDefault:"500"`
	GameDays           int     `env:"GAME_MINIGAME_DAYS" envDefault:"10"`
	ChartDays          int     `env:"GAME_CHART_DAYS" envDefault:"30"`
	HistoryLimit       int     `env:"GAME_HISTORY_LIMIT" envDefault:"10"`
	ReportTransactions int     `env:"GAME_REPORT_TRANSACTIONS" envDefault:"100"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
