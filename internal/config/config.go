package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 应用配置结构体
// 包含服务器、数据库、认证和监控等配置信息
type Config struct {
	Server    ServerConfig    `yaml:"server"`     // 服务器配置
	Database  DatabaseConfig  `yaml:"database"`   // 数据库配置
	CORS      CORSConfig      `yaml:"cors"`       // CORS 配置
	RateLimit RateLimitConfig `yaml:"rate_limit"` // 限流配置
	Auth      AuthConfig      `yaml:"auth"`       // 认证配置
	Monitor   MonitorConfig   `yaml:"monitor"`    // 请求监控配置
}

// ServerConfig 服务器配置结构体
// 定义服务器监听地址和端口
type ServerConfig struct {
	Host    string `yaml:"host"`    // 监听地址
	Port    int    `yaml:"port"`    // 监听端口
	Version string `yaml:"version"` // 服务版本号，监控接口上报用
}

// DatabaseConfig 数据库配置结构体
// 定义数据库连接信息
type DatabaseConfig struct {
	Type            string `yaml:"type"`              // 数据库类型：sqlite / mysql
	DSN             string `yaml:"dsn"`               // 数据库连接字符串
	MaxOpenConns    int    `yaml:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int    `yaml:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // 连接最大生存时间（秒）
	LogLevel        string `yaml:"log_level"`         // 日志级别：silent, error, warn, info
}

// CORSConfig CORS 配置结构体
// 定义跨域资源共享配置
type CORSConfig struct {
	Enabled      bool     `yaml:"enabled"`       // 是否启用 CORS
	AllowOrigins []string `yaml:"allow_origins"` // 允许的来源
	AllowMethods []string `yaml:"allow_methods"` // 允许的 HTTP 方法
	AllowHeaders []string `yaml:"allow_headers"` // 允许的请求头
}

// RateLimitConfig 限流配置结构体
// 定义请求限流参数
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled"` // 是否启用限流
	Rate    int  `yaml:"rate"`    // 每秒允许的请求数
	Burst   int  `yaml:"burst"`   // 突发容量（可选，默认为 rate）
}

// AuthConfig 认证配置结构体
type AuthConfig struct {
	JWTSecret      string `yaml:"jwt_secret"`       // JWT 签名密钥
	JWTExpireHours int    `yaml:"jwt_expire_hours"` // JWT 有效期（小时）
}

// MonitorConfig 请求监控配置结构体
// 各容量均为固定上限，通过淘汰而非拒绝来约束内存
type MonitorConfig struct {
	RecentRequests    int    `yaml:"recent_requests"`     // 全局最近请求保留条数
	RecentErrors      int    `yaml:"recent_errors"`       // 最近错误保留条数
	PerUserActivities int    `yaml:"per_user_activities"` // 每用户活动保留条数
	UnmatchedPath     string `yaml:"unmatched_path"`      // 未匹配路由的计数方式：group（归并，默认）/ raw（原始 URL）
	LogRequests       bool   `yaml:"log_requests"`        // 是否输出请求日志行
}

// LoadConfig 加载配置文件
// filePath: 配置文件路径
// 返回: Config 实例和错误信息
func LoadConfig(filePath string) (*Config, error) {
	// 读取配置文件
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析 YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 设置默认值
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = "1.0.0"
	}
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "./finance_tracker.db"
	}
	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 25 // 默认最大打开连接数
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 5 // 默认最大空闲连接数
	}
	if cfg.Database.ConnMaxLifetime <= 0 {
		cfg.Database.ConnMaxLifetime = 300 // 默认5分钟
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn" // 默认日志级别
	}
	if cfg.RateLimit.Rate <= 0 {
		cfg.RateLimit.Rate = 100 // 默认每秒100个请求
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = cfg.RateLimit.Rate // 默认突发容量等于速率
	}
	if cfg.Auth.JWTExpireHours <= 0 {
		cfg.Auth.JWTExpireHours = 24 // 默认 24 小时
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "finance-tracker-default-secret-change-in-production"
	}
	if cfg.Monitor.RecentRequests <= 0 {
		cfg.Monitor.RecentRequests = 100
	}
	if cfg.Monitor.RecentErrors <= 0 {
		cfg.Monitor.RecentErrors = 50
	}
	if cfg.Monitor.PerUserActivities <= 0 {
		cfg.Monitor.PerUserActivities = 20
	}
	if cfg.Monitor.UnmatchedPath == "" {
		cfg.Monitor.UnmatchedPath = "group"
	}

	return &cfg, nil
}
