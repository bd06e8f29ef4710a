// Package config 加载服务配置：YAML 文件 + COURSEADMIN_ 前缀的环境变量 + 默认值
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"katydid-course-admin/pkg/logger"
)

// EnvPrefix 环境变量前缀，例如 COURSEADMIN_API_BASE_URL 覆盖 api.base_url
const EnvPrefix = "COURSEADMIN"

// 缓存驱动
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid config")

// Config 服务配置
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      logger.Config  `mapstructure:"log"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Database DatabaseConfig `mapstructure:"database"`
	Updater  UpdaterConfig  `mapstructure:"updater"`
}

// APIConfig 课程后端接口
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Token 固定的 Bearer token，设置后不再签发 JWT
	Token     string        `mapstructure:"token"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTIssuer string        `mapstructure:"jwt_issuer"`
	JWTTTL    time.Duration `mapstructure:"jwt_ttl"`
	Timeout   time.Duration `mapstructure:"timeout"`
	// RateLimit 每秒请求数，0 表示不限流
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// Mode gin 运行模式：debug / release / test
	Mode    string `mapstructure:"mode"`
	Swagger bool   `mapstructure:"swagger"`
}

type CacheConfig struct {
	Driver string        `mapstructure:"driver"`
	TTL    time.Duration `mapstructure:"ttl"`
	Redis  RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type DatabaseConfig struct {
	// Driver sqlite / mysql / postgres
	Driver        string        `mapstructure:"driver"`
	DSN           string        `mapstructure:"dsn"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
	// NodeID 审计记录 ID 生成器的节点号，多实例部署时各不相同
	NodeID int64 `mapstructure:"node_id"`
}

type UpdaterConfig struct {
	// MaxConcurrency 同时进行的接口调用数，0 表示不限制
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.token", "")
	v.SetDefault("api.jwt_secret", "")
	v.SetDefault("api.jwt_issuer", "katydid-course-admin")
	v.SetDefault("api.jwt_ttl", 15*time.Minute)
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.rate_limit", 20.0)
	v.SetDefault("api.burst", 10)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.swagger", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("cache.driver", CacheMemory)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.redis.addr", "127.0.0.1:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.prefix", "course-admin:")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "course-admin.db")
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)
	v.SetDefault("database.node_id", 1)

	v.SetDefault("updater.max_concurrency", 0)
}

// Load 读取配置，path 为空时只使用默认值和环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查配置项的取值范围，base_url 允许为空（validate / convert 命令不需要后端）
func (c *Config) Validate() error {
	var problems []string

	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("api.base_url %q is not an absolute url", c.API.BaseURL))
		}
	}
	if c.API.Timeout < 0 {
		problems = append(problems, "api.timeout must not be negative")
	}
	if c.API.RateLimit < 0 || c.API.Burst < 0 {
		problems = append(problems, "api.rate_limit and api.burst must not be negative")
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		problems = append(problems, fmt.Sprintf("server.mode %q must be debug, release or test", c.Server.Mode))
	}

	switch c.Cache.Driver {
	case CacheMemory:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			problems = append(problems, "cache.redis.addr is required for the redis driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("cache.driver %q must be memory or redis", c.Cache.Driver))
	}

	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		problems = append(problems, fmt.Sprintf("database.driver %q must be sqlite, mysql or postgres", c.Database.Driver))
	}

	if c.Database.NodeID < 0 || c.Database.NodeID > 1023 {
		problems = append(problems, "database.node_id must be between 0 and 1023")
	}

	if c.Updater.MaxConcurrency < 0 {
		problems = append(problems, "updater.max_concurrency must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
