package database

import (
	"context"

	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"
	"github.com/go-redis/redis/v8"
)

var RDB *redis.Client

// InitRedis 初始化 Redis 客户端连接。
// Redis 仅作为缓存加速层使用，连接失败不会阻止服务启动，
// 读写路径会在缓存不可用时直接回退到数据库。
func InitRedis(addr, password string, db int) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := RDB.Ping(ctx).Err(); err != nil {
		log.Warnf("redis unavailable at startup, continuing without cache: %v", err)
		return
	}

	log.Info("Redis client connected successfully")
}
