package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/go-redis/redis/v8"
)

// CacheRepository 抽象了缓存存储的窄契约：按 key 读/带 TTL 写/删/探活。
// 所有方法的失败都应被调用方按 best-effort 处理，不影响主流程。
type CacheRepository interface {
	GetContext(ctx context.Context, userID string) (*model.UserContext, error)
	SetContext(ctx context.Context, userID string, uc *model.UserContext, ttl time.Duration) error
	DeleteContext(ctx context.Context, userID string) error
	GetSession(ctx context.Context, sessionID string) (*model.ChatSession, error)
	SetSession(ctx context.Context, sessionID string, session *model.ChatSession, ttl time.Duration) error
	Ping(ctx context.Context) error
}

// redisCacheRepository 是 CacheRepository 接口的 Redis 实现。
type redisCacheRepository struct {
	redisClient *redis.Client
}

// NewCacheRepository 创建一个新的 CacheRepository 实例。
func NewCacheRepository(redisClient *redis.Client) CacheRepository {
	return &redisCacheRepository{redisClient: redisClient}
}

func contextKey(userID string) string {
	return fmt.Sprintf("user_context:%s", userID)
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// GetContext 读取缓存的用户上下文，key 不存在时返回 (nil, nil)。
func (r *redisCacheRepository) GetContext(ctx context.Context, userID string) (*model.UserContext, error) {
	jsonData, err := r.redisClient.Get(ctx, contextKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached context: %w", err)
	}
	var uc model.UserContext
	if err := json.Unmarshal([]byte(jsonData), &uc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached context: %w", err)
	}
	return &uc, nil
}

// SetContext 以给定 TTL 写入用户上下文。
func (r *redisCacheRepository) SetContext(ctx context.Context, userID string, uc *model.UserContext, ttl time.Duration) error {
	jsonData, err := json.Marshal(uc)
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}
	if err := r.redisClient.Set(ctx, contextKey(userID), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache context: %w", err)
	}
	return nil
}

// DeleteContext 删除用户上下文的缓存条目（写后失效钩子）。
func (r *redisCacheRepository) DeleteContext(ctx context.Context, userID string) error {
	if err := r.redisClient.Del(ctx, contextKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached context: %w", err)
	}
	return nil
}

// GetSession 读取缓存的会话对象，key 不存在时返回 (nil, nil)。
func (r *redisCacheRepository) GetSession(ctx context.Context, sessionID string) (*model.ChatSession, error) {
	jsonData, err := r.redisClient.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached session: %w", err)
	}
	var session model.ChatSession
	if err := json.Unmarshal([]byte(jsonData), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached session: %w", err)
	}
	return &session, nil
}

// SetSession 以给定 TTL 写入会话快查条目。
// 该缓存没有显式失效，只靠 TTL 过期（可接受的陈旧窗口）。
func (r *redisCacheRepository) SetSession(ctx context.Context, sessionID string, session *model.ChatSession, ttl time.Duration) error {
	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.redisClient.Set(ctx, sessionKey(sessionID), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}
	return nil
}

// Ping 探测缓存存储的可用性，供健康检查使用。
func (r *redisCacheRepository) Ping(ctx context.Context) error {
	return r.redisClient.Ping(ctx).Err()
}
