// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Log           LogConfig           `mapstructure:"log"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Context       ContextConfig       `mapstructure:"context"`
	RateLimit     RateLimitConfig     `mapstructure:"ratelimit"`
}

// ServerConfig 存储 HTTP 服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 存储令牌签发相关的配置。
// AdminSecretHash 是管理密钥的 bcrypt 哈希，用于换取访问令牌。
type AuthConfig struct {
	JWTSecret        string `mapstructure:"jwt_secret"`
	AdminSecretHash  string `mapstructure:"admin_secret_hash"`
	TokenExpireHours int    `mapstructure:"token_expire_hours"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// KafkaConfig 存储分析事件流相关的配置，Brokers 为空时禁用。
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// ElasticsearchConfig 存储会话全文检索相关的配置，Addresses 为空时禁用。
type ElasticsearchConfig struct {
	Addresses string `mapstructure:"addresses"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	IndexName string `mapstructure:"index_name"`
}

// MinIOConfig 存储报表导出用对象存储的配置，Endpoint 为空时禁用。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// CacheConfig 存储各类缓存条目的 TTL（秒）。
type CacheConfig struct {
	ContextTTLSeconds int `mapstructure:"context_ttl_seconds"`
	SessionTTLSeconds int `mapstructure:"session_ttl_seconds"`
}

// ContextConfig 控制用户上下文的组装参数。
type ContextConfig struct {
	MaxConversations int `mapstructure:"max_conversations"`
}

// RateLimitConfig 存储基于 Redis 的固定窗口限流配置。
type RateLimitConfig struct {
	WindowMinutes int `mapstructure:"window_minutes"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}

	applyDefaults()
}

// applyDefaults 为未配置的关键参数填入默认值。
func applyDefaults() {
	if Conf.Cache.ContextTTLSeconds <= 0 {
		Conf.Cache.ContextTTLSeconds = 600
	}
	if Conf.Cache.SessionTTLSeconds <= 0 {
		Conf.Cache.SessionTTLSeconds = 3600
	}
	if Conf.Context.MaxConversations <= 0 {
		Conf.Context.MaxConversations = 5
	}
	if Conf.RateLimit.WindowMinutes <= 0 {
		Conf.RateLimit.WindowMinutes = 15
	}
	if Conf.RateLimit.MaxRequests <= 0 {
		Conf.RateLimit.MaxRequests = 100
	}
	if Conf.Auth.TokenExpireHours <= 0 {
		Conf.Auth.TokenExpireHours = 24
	}
}
