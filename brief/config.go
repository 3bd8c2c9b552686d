package brief

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/lunagic/brief/briefservices/cache"
	"github.com/lunagic/brief/briefservices/database"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config selects and configures the database and cache drivers. Every field
// can be set from a .brief.yaml file or a BRIEF_ prefixed environment
// variable, e.g. BRIEF_MYSQL_HOST.
type Config struct {
	// Drivers
	DriverDatabase string `mapstructure:"driver_database"`
	DriverCache    string `mapstructure:"driver_cache"`
	// Services
	MySQLHost      string        `mapstructure:"mysql_host"`
	MySQLName      string        `mapstructure:"mysql_name"`
	MySQLPass      string        `mapstructure:"mysql_pass"`
	MySQLPort      int           `mapstructure:"mysql_port"`
	MySQLUser      string        `mapstructure:"mysql_user"`
	PostgresHost   string        `mapstructure:"postgres_host"`
	PostgresName   string        `mapstructure:"postgres_name"`
	PostgresPass   string        `mapstructure:"postgres_pass"`
	PostgresPort   int           `mapstructure:"postgres_port"`
	PostgresUser   string        `mapstructure:"postgres_user"`
	RedisHost      string        `mapstructure:"redis_host"`
	RedisNumber    int           `mapstructure:"redis_number"`
	RedisPass      string        `mapstructure:"redis_pass"`
	RedisPort      int           `mapstructure:"redis_port"`
	RedisUser      string        `mapstructure:"redis_user"`
	SQLitePath     string        `mapstructure:"sqlite_path"`
	QueryCacheTTL  time.Duration `mapstructure:"query_cache_ttl"`
	QueryCacheName string        `mapstructure:"query_cache_name"`
}

func NewConfig() Config {
	return Config{
		DriverCache:    "none",
		DriverDatabase: "sqlite",
		MySQLHost:      "127.0.0.1",
		MySQLPort:      3306,
		PostgresHost:   "127.0.0.1",
		PostgresPort:   5432,
		RedisHost:      "127.0.0.1",
		RedisPort:      6379,
		SQLitePath:     "database.sqlite",
		QueryCacheTTL:  time.Minute,
		QueryCacheName: "brief",
	}
}

// LoadConfig layers NewConfig's defaults, then the config file, then the
// environment. configFile may be empty to search for .brief.yaml in the
// working directory and then in ~/.config/brief. A .env file in the working
// directory is loaded first but never overrides variables already set.
func LoadConfig(configFile string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()

	defaults := map[string]any{}
	if err := mapstructure.Decode(NewConfig(), &defaults); err != nil {
		return Config{}, err
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".brief")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "brief"))
		}
	}

	v.SetEnvPrefix("BRIEF")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		notFound := viper.ConfigFileNotFoundError{}
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	config := Config{}
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	return config, nil
}

func (config Config) Database(ctx context.Context, logger *slog.Logger, configFuncs ...database.ServiceConfigFunc) (*database.Service, error) {
	driver, err := config.DatabaseDriver()
	if err != nil {
		return nil, err
	}

	if logger != nil {
		configFuncs = append(configFuncs, database.WithLogger(logger))
	}

	cacheDriver, err := config.Cache(ctx)
	if err != nil {
		return nil, err
	}
	if cacheDriver != nil {
		configFuncs = append(configFuncs, database.WithQueryCache(cacheDriver, config.QueryCacheName, config.QueryCacheTTL))
	}

	return database.New(driver, configFuncs...)
}

func (config Config) DatabaseDriver() (database.Driver, error) {
	switch config.DriverDatabase {
	case "sqlite":
		return database.NewDriverSQLite(config.SQLitePath), nil
	case "postgres":
		return database.NewDriverPostgres(database.DriverPostgresConfig{
			Host: config.PostgresHost,
			Port: config.PostgresPort,
			User: config.PostgresUser,
			Pass: config.PostgresPass,
			Name: config.PostgresName,
		}), nil
	case "mysql":
		return database.NewDriverMySQL(database.DriverMySQLConfig{
			Host: config.MySQLHost,
			Port: config.MySQLPort,
			User: config.MySQLUser,
			Pass: config.MySQLPass,
			Name: config.MySQLName,
		}), nil
	}

	return nil, fmt.Errorf("invalid database driver: %s", config.DriverDatabase)
}

// Cache returns nil when the query cache is turned off.
func (config Config) Cache(ctx context.Context) (cache.Driver, error) {
	switch config.DriverCache {
	case "", "none":
		return nil, nil
	case "memory":
		return cache.NewDriverMemory(ctx, time.Minute), nil
	case "redis":
		return cache.NewDriverRedis(cache.DriverRedisConfig{
			Host:   config.RedisHost,
			Number: config.RedisNumber,
			Pass:   config.RedisPass,
			Port:   config.RedisPort,
			User:   config.RedisUser,
		}), nil
	}

	return nil, fmt.Errorf("invalid cache driver: %s", config.DriverCache)
}
