package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Search   SearchConfig   `mapstructure:"search"`
	Blend    BlendConfig    `mapstructure:"recommendation"`
	Caching  CachingConfig  `mapstructure:"caching"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdleTime    time.Duration `mapstructure:"max_idle_time"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topics  struct {
		CatalogUpdates string `mapstructure:"catalog_updates"`
	} `mapstructure:"topics"`
}

type AuthConfig struct {
	JWTSecret string          `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration   `mapstructure:"token_ttl"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Default int           `mapstructure:"default"`
	Premium int           `mapstructure:"premium"`
	Window  time.Duration `mapstructure:"window"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SearchConfig tunes the vector-space indexer and similarity ranker.
type SearchConfig struct {
	MaxFeatures     int     `mapstructure:"max_features"`
	MinScore        float64 `mapstructure:"min_score"`
	DefaultLimit    int     `mapstructure:"default_limit"`
	RelevanceWeight float64 `mapstructure:"relevance_weight"`
	RatingWeight    float64 `mapstructure:"rating_weight"`
}

// BlendConfig tunes the collaborative filter and hybrid blender.
type BlendConfig struct {
	LatentRank          int     `mapstructure:"latent_rank"`
	NeighborCount       int     `mapstructure:"neighbor_count"`
	PositiveThreshold   float64 `mapstructure:"positive_threshold"`
	CollaborativeShare  float64 `mapstructure:"collaborative_share"`
	DefaultLimit        int     `mapstructure:"default_limit"`
	PreferenceBoostStep float64 `mapstructure:"preference_boost_step"`
}

type CachingConfig struct {
	SearchTTL          time.Duration `mapstructure:"search_ttl"`
	RecommendationsTTL time.Duration `mapstructure:"recommendations_ttl"`
	AnalyticsTTL       time.Duration `mapstructure:"analytics_ttl"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	// Environment variable overrides
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "development")

	// Database defaults
	viper.SetDefault("database.max_connections", 25)
	viper.SetDefault("database.max_idle_time", "15m")
	viper.SetDefault("database.max_lifetime", "1h")
	viper.SetDefault("database.connect_timeout", "10s")

	// Redis defaults
	viper.SetDefault("redis.url", "localhost:6379")
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.timeout", "5s")

	// Kafka defaults
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.topics.catalog_updates", "catalog-updates")

	// Auth defaults
	viper.SetDefault("auth.token_ttl", "24h")
	viper.SetDefault("auth.rate_limit.default", 1000)
	viper.SetDefault("auth.rate_limit.premium", 10000)
	viper.SetDefault("auth.rate_limit.window", "1h")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Search defaults
	viper.SetDefault("search.max_features", 10000)
	viper.SetDefault("search.min_score", 0.01)
	viper.SetDefault("search.default_limit", 20)
	viper.SetDefault("search.relevance_weight", 0.7)
	viper.SetDefault("search.rating_weight", 0.3)

	// Recommendation defaults
	viper.SetDefault("recommendation.latent_rank", 50)
	viper.SetDefault("recommendation.neighbor_count", 5)
	viper.SetDefault("recommendation.positive_threshold", 3.0)
	viper.SetDefault("recommendation.collaborative_share", 0.6)
	viper.SetDefault("recommendation.default_limit", 20)
	viper.SetDefault("recommendation.preference_boost_step", 0.2)

	// Caching defaults
	viper.SetDefault("caching.search_ttl", "30m")
	viper.SetDefault("caching.recommendations_ttl", "1h")
	viper.SetDefault("caching.analytics_ttl", "15m")

	// Security defaults
	viper.SetDefault("security.cors.allowed_origins", []string{"*"})
	viper.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("security.cors.allowed_headers", []string{"*"})
}
