// backend-go/internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Cache    CacheConfig
	Models   ModelsConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AppConfig struct {
	UploadDir string
	DataDir   string
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

// ModelsConfig carries the tunable thresholds of the analytics models.
type ModelsConfig struct {
	ClassifyWorkers      int
	FastMinVelocity      float64
	SlowMaxVelocity      float64
	NewItemMaxAgeDays    float64
	DeadStockMinDaysIdle float64
	DBSCANEps            float64
	DBSCANMinSamples     int
	KMeansClusters       int
	LeadTimeDays         float64
	HoldingCostRate      float64
}

// StorageConfig configures the S3-compatible bucket used for result exports.
type StorageConfig struct {
	Enabled   bool
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "hydroinv")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_UPLOAD_DIR", "./data/uploads")
		viper.SetDefault("APP_DATA_DIR", "./data/output")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)

		viper.SetDefault("MODEL_CLASSIFY_WORKERS", 4)
		viper.SetDefault("MODEL_FAST_MIN_VELOCITY", 2.7)
		viper.SetDefault("MODEL_SLOW_MAX_VELOCITY", 0.5)
		viper.SetDefault("MODEL_NEW_ITEM_MAX_AGE_DAYS", 90)
		viper.SetDefault("MODEL_DEAD_STOCK_MIN_DAYS_IDLE", 180)
		viper.SetDefault("MODEL_DBSCAN_EPS", 0.5)
		viper.SetDefault("MODEL_DBSCAN_MIN_SAMPLES", 3)
		viper.SetDefault("MODEL_KMEANS_CLUSTERS", 3)
		viper.SetDefault("MODEL_LEAD_TIME_DAYS", 7)
		viper.SetDefault("MODEL_HOLDING_COST_RATE", 0.20)

		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_BUCKET", "")
		viper.SetDefault("STORAGE_REGION", "us-east-1")
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_PREFIX", "analytics")

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure upload and data directories exist
		ensureDir(viper.GetString("APP_UPLOAD_DIR"))
		ensureDir(viper.GetString("APP_DATA_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			App: AppConfig{
				UploadDir: viper.GetString("APP_UPLOAD_DIR"),
				DataDir:   viper.GetString("APP_DATA_DIR"),
			},
			Cache: CacheConfig{
				Enabled:             viper.GetBool("CACHE_ENABLED"),
				RedisURL:            viper.GetString("REDIS_URL"),
				RedisHost:           viper.GetString("REDIS_HOST"),
				RedisPort:           viper.GetString("REDIS_PORT"),
				RedisPassword:       viper.GetString("REDIS_PASSWORD"),
				RedisDB:             viper.GetInt("REDIS_DB"),
				DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
			},
			Models: ModelsConfig{
				ClassifyWorkers:      viper.GetInt("MODEL_CLASSIFY_WORKERS"),
				FastMinVelocity:      viper.GetFloat64("MODEL_FAST_MIN_VELOCITY"),
				SlowMaxVelocity:      viper.GetFloat64("MODEL_SLOW_MAX_VELOCITY"),
				NewItemMaxAgeDays:    viper.GetFloat64("MODEL_NEW_ITEM_MAX_AGE_DAYS"),
				DeadStockMinDaysIdle: viper.GetFloat64("MODEL_DEAD_STOCK_MIN_DAYS_IDLE"),
				DBSCANEps:            viper.GetFloat64("MODEL_DBSCAN_EPS"),
				DBSCANMinSamples:     viper.GetInt("MODEL_DBSCAN_MIN_SAMPLES"),
				KMeansClusters:       viper.GetInt("MODEL_KMEANS_CLUSTERS"),
				LeadTimeDays:         viper.GetFloat64("MODEL_LEAD_TIME_DAYS"),
				HoldingCostRate:      viper.GetFloat64("MODEL_HOLDING_COST_RATE"),
			},
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				Region:    viper.GetString("STORAGE_REGION"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Prefix:    viper.GetString("STORAGE_PREFIX"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
