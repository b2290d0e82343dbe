package service

import (
	"context"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/caioalcolea/talkhub-mcp-server/internal/repository"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/events"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"

	"github.com/google/uuid"
)

// SessionService 定义了聊天会话生命周期的业务操作。
type SessionService interface {
	CreateSession(ctx context.Context, userID string, userData map[string]interface{}, platform string) (*model.ChatSession, error)
	GetSession(ctx context.Context, sessionID string) (*model.ChatSession, error)
}

// sessionService 是 SessionService 接口的实现。
type sessionService struct {
	sessionRepo repository.SessionRepository
	cache       repository.CacheRepository
	sessionTTL  time.Duration
	publishers  []events.Publisher
}

// NewSessionService 创建一个新的 SessionService 实例。
func NewSessionService(
	sessionRepo repository.SessionRepository,
	cache repository.CacheRepository,
	sessionTTL time.Duration,
	publishers ...events.Publisher,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		cache:       cache,
		sessionTTL:  sessionTTL,
		publishers:  publishers,
	}
}

// CreateSession 创建一条新的活跃会话记录。
// 新会话写入短 TTL 的快查缓存，该缓存只靠过期淘汰。
func (s *sessionService) CreateSession(ctx context.Context, userID string, userData map[string]interface{}, platform string) (*model.ChatSession, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if platform == "" {
		platform = "unknown"
	}

	session := &model.ChatSession{
		SessionID: "session_" + uuid.NewString(),
		UserID:    userID,
		UserData:  model.JSONMap(userData),
		Platform:  platform,
		Status:    model.SessionStatusActive,
	}

	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}

	if err := s.cache.SetSession(ctx, session.SessionID, session, s.sessionTTL); err != nil {
		log.Warnf("session cache write failed for %s: %v", session.SessionID, err)
	}

	publishEvent(ctx, s.publishers, events.AnalyticsEvent{
		EventType: events.TypeSessionCreated,
		UserID:    userID,
		SessionID: session.SessionID,
		Data:      map[string]interface{}{"platform": platform},
		Timestamp: time.Now().UTC(),
	})

	log.Infow("chat session created", "sessionId", session.SessionID, "userId", userID)
	return session, nil
}

// GetSession 先查快查缓存，未命中时回源数据库并回填。
func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*model.ChatSession, error) {
	cached, err := s.cache.GetSession(ctx, sessionID)
	if err != nil {
		log.Warnf("session cache read failed for %s: %v", sessionID, err)
	} else if cached != nil {
		return cached, nil
	}

	session, err := s.sessionRepo.FindBySessionID(sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetSession(ctx, sessionID, session, s.sessionTTL); err != nil {
		log.Warnf("session cache write failed for %s: %v", sessionID, err)
	}
	return session, nil
}

// publishEvent 把事件广播给所有发布端，失败只记录警告。
func publishEvent(ctx context.Context, publishers []events.Publisher, evt events.AnalyticsEvent) {
	for _, p := range publishers {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			log.Warnf("failed to publish %s event: %v", evt.EventType, err)
		}
	}
}
