package config

import (
	"io/fs"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from a .env file and
// environment variables. Environment variables win over the file.
type Config struct {
	ServerPort  string
	MySQLDSN    string
	ResetDB     bool
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	SecretKey   string
	Algorithm   string
	AccessTTL   time.Duration
	BcryptCost  int
	LogLevel    string
	StaticDir   string
	MediaDir    string
	SwaggerHost string
}

// ErrMissingSecret is returned when no signing secret is configured.
var ErrMissingSecret = errors.New("SECRET_KEY must be set")

// Load builds Config from the optional env file and the environment.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		// A missing env file is fine, the environment alone is enough.
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		ServerPort:  v.GetString("server_port"),
		MySQLDSN:    v.GetString("mysql_dsn"),
		ResetDB:     v.GetBool("reset_db"),
		RedisAddr:   v.GetString("redis_addr"),
		RedisDB:     v.GetInt("redis_db"),
		RedisPass:   v.GetString("redis_password"),
		SecretKey:   v.GetString("secret_key"),
		Algorithm:   v.GetString("algorithm"),
		AccessTTL:   time.Duration(v.GetInt("access_token_expire_minutes")) * time.Minute,
		BcryptCost:  v.GetInt("bcrypt_cost"),
		LogLevel:    v.GetString("log_level"),
		StaticDir:   v.GetString("static_dir"),
		MediaDir:    v.GetString("media_dir"),
		SwaggerHost: v.GetString("swagger_host"),
	}

	if cfg.SecretKey == "" {
		return nil, ErrMissingSecret
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 30 * time.Minute
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("mysql_dsn", "user:password@tcp(localhost:3306)/blog?charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("reset_db", false)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_password", "")
	v.SetDefault("secret_key", "")
	v.SetDefault("algorithm", "HS256")
	v.SetDefault("access_token_expire_minutes", 30)
	v.SetDefault("bcrypt_cost", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("static_dir", "static")
	v.SetDefault("media_dir", "media")
	v.SetDefault("swagger_host", "")
}
