package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://68cc3ae2716562cf5076f055.mockapi.io/api/books/book", cfg.Remote.CollectionURL())
	assert.Equal(t, 10, cfg.Dashboard.PageSize)
	assert.Equal(t, 300*time.Millisecond, cfg.Dashboard.SettleDelay)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.False(t, cfg.Remote.Breaker.Enabled)
	assert.False(t, cfg.MQ.Enabled)
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  port: 9090
remote:
  base_url: http://localhost:3000/api/
  resource: /books/
dashboard:
  page_size: 5
  settle_delay: 0s
cache:
  driver: redis
`)
	t.Setenv("BOOKDASH_SERVER_PORT", "9191")

	cfg, err := LoadWithOptions(Options{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port, "环境变量优先")
	assert.Equal(t, "http://localhost:3000/api/books", cfg.Remote.CollectionURL())
	assert.Equal(t, 5, cfg.Dashboard.PageSize)
	assert.Equal(t, time.Duration(0), cfg.Dashboard.SettleDelay)
	assert.Equal(t, "redis", cfg.Cache.Driver)
}

func TestLoad_EnvFile(t *testing.T) {
	envPath := writeFile(t, ".env", "BOOKDASH_DASHBOARD_PAGE_SIZE=25\n")
	t.Chdir(t.TempDir())
	t.Cleanup(func() { os.Unsetenv("BOOKDASH_DASHBOARD_PAGE_SIZE") })

	cfg, err := LoadWithOptions(Options{EnvFile: envPath})
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Dashboard.PageSize)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := LoadWithOptions(Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 8080, Mode: "debug"},
			Remote:    RemoteConfig{BaseURL: "https://example.com/api", Resource: "book"},
			Dashboard: DashboardConfig{PageSize: 10, CookieSecret: "s"},
			Cache:     CacheConfig{Driver: "memory"},
		}
	}

	t.Run("合法配置", func(t *testing.T) {
		assert.NoError(t, validate(valid()))
	})

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }},
		{"远端地址缺少scheme", func(c *Config) { c.Remote.BaseURL = "example.com/api" }},
		{"资源名为空", func(c *Config) { c.Remote.Resource = "/" }},
		{"每页条数为0", func(c *Config) { c.Dashboard.PageSize = 0 }},
		{"加载提示时长为负", func(c *Config) { c.Dashboard.SettleDelay = -time.Second }},
		{"未知缓存驱动", func(c *Config) { c.Cache.Driver = "memcached" }},
		{"生产环境默认密钥", func(c *Config) {
			c.Server.Mode = "release"
			c.Dashboard.CookieSecret = "change-me-in-production"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, validate(c))
		})
	}
}
