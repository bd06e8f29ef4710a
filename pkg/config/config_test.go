package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, CacheMemory, cfg.Cache.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, int64(1), cfg.Database.NodeID)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 0, cfg.Updater.MaxConcurrency)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://courses.example.com
  jwt_secret: s3cret
  timeout: 5s
  rate_limit: 2.5
server:
  addr: ":9090"
  mode: debug
  swagger: true
log:
  level: debug
  file: /tmp/course-admin.log
cache:
  driver: redis
  ttl: 1m
  redis:
    addr: redis:6379
    db: 2
database:
  driver: postgres
  dsn: host=db user=course
updater:
  max_concurrency: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://courses.example.com", cfg.API.BaseURL)
	assert.Equal(t, "s3cret", cfg.API.JWTSecret)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2.5, cfg.API.RateLimit)
	assert.Equal(t, 10, cfg.API.Burst)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.True(t, cfg.Server.Swagger)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/course-admin.log", cfg.Log.File)
	assert.Equal(t, CacheRedis, cfg.Cache.Driver)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 2, cfg.Cache.Redis.DB)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Updater.MaxConcurrency)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9090\"\n")
	t.Setenv("COURSEADMIN_SERVER_ADDR", ":7070")
	t.Setenv("COURSEADMIN_API_TOKEN", "static-token")
	t.Setenv("COURSEADMIN_UPDATER_MAX_CONCURRENCY", "4")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "static-token", cfg.API.Token)
	assert.Equal(t, 4, cfg.Updater.MaxConcurrency)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "相对地址", mutate: func(c *Config) { c.API.BaseURL = "/api" }},
		{name: "负超时", mutate: func(c *Config) { c.API.Timeout = -time.Second }},
		{name: "未知运行模式", mutate: func(c *Config) { c.Server.Mode = "prod" }},
		{name: "未知缓存驱动", mutate: func(c *Config) { c.Cache.Driver = "memcached" }},
		{name: "redis缺少地址", mutate: func(c *Config) { c.Cache.Driver = CacheRedis; c.Cache.Redis.Addr = "" }},
		{name: "未知数据库驱动", mutate: func(c *Config) { c.Database.Driver = "oracle" }},
		{name: "节点号越界", mutate: func(c *Config) { c.Database.NodeID = 1024 }},
		{name: "负并发", mutate: func(c *Config) { c.Updater.MaxConcurrency = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	assert.NoError(t, valid().Validate())
}
