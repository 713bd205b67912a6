package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 6000
database:
  type: sqlite
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}

	if cfg.Server.Port != 6000 {
		t.Errorf("Port = %d, 期望 6000", cfg.Server.Port)
	}
	// 未配置的字段应填默认值
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %s, 期望默认 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Database.DSN == "" {
		t.Errorf("DSN 应有默认值")
	}
	if cfg.Auth.JWTExpireHours != 24 {
		t.Errorf("JWTExpireHours = %d, 期望默认 24", cfg.Auth.JWTExpireHours)
	}
	if cfg.Monitor.RecentRequests != 100 || cfg.Monitor.RecentErrors != 50 || cfg.Monitor.PerUserActivities != 20 {
		t.Errorf("监控容量默认值不正确: %+v", cfg.Monitor)
	}
	if cfg.Monitor.UnmatchedPath != "group" {
		t.Errorf("UnmatchedPath = %s, 期望默认 group", cfg.Monitor.UnmatchedPath)
	}
	if cfg.RateLimit.Burst != cfg.RateLimit.Rate {
		t.Errorf("Burst 默认应等于 Rate")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("不存在的配置文件应返回错误")
	}
}
