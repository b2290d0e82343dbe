// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/analysis"
	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/caioalcolea/talkhub-mcp-server/internal/repository"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"
	"gorm.io/gorm"
)

// HardMaxConversations 是单次上下文组装可携带的历史会话上限。
const HardMaxConversations = 20

// ErrMissingUserID 表示请求缺少必需的 user_id。
var ErrMissingUserID = errors.New("user_id is required")

// ContextService 负责用户上下文的读穿透缓存与写后失效。
type ContextService interface {
	// GetUserContext 返回用户的组合上下文视图。
	// includeHistory 为 false 时只取档案和上下文记录，不触发历史聚合。
	// maxConversations <= 0 时使用配置的默认值。
	GetUserContext(ctx context.Context, userID string, includeHistory bool, maxConversations int) (*model.UserContext, error)
	// Invalidate 删除用户的上下文缓存条目。任何改变该用户档案或
	// 会话数据的写路径都必须在写成功后调用它。失败仅记录日志。
	Invalidate(ctx context.Context, userID string)
	// AddContextNote 写入一条上下文补充记录并使缓存失效。
	AddContextNote(ctx context.Context, note *model.ContextNote) error
}

// contextService 是 ContextService 接口的实现。
type contextService struct {
	profileRepo      repository.ProfileRepository
	conversationRepo repository.ConversationRepository
	noteRepo         repository.ContextNoteRepository
	cache            repository.CacheRepository
	contextTTL       time.Duration
	defaultMaxConvs  int
}

// NewContextService 创建一个新的 ContextService 实例。
func NewContextService(
	profileRepo repository.ProfileRepository,
	conversationRepo repository.ConversationRepository,
	noteRepo repository.ContextNoteRepository,
	cache repository.CacheRepository,
	contextTTL time.Duration,
	defaultMaxConversations int,
) ContextService {
	if defaultMaxConversations <= 0 {
		defaultMaxConversations = 5
	}
	return &contextService{
		profileRepo:      profileRepo,
		conversationRepo: conversationRepo,
		noteRepo:         noteRepo,
		cache:            cache,
		contextTTL:       contextTTL,
		defaultMaxConvs:  defaultMaxConversations,
	}
}

// GetUserContext 实现读穿透缓存：
// 命中未过期的缓存条目时直接返回，不做任何重算；
// 未命中时从底层表重建并以 TTL 写回。缓存故障不影响读取本身。
func (s *contextService) GetUserContext(ctx context.Context, userID string, includeHistory bool, maxConversations int) (*model.UserContext, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	limit := maxConversations
	if limit <= 0 {
		limit = s.defaultMaxConvs
	}
	if limit > HardMaxConversations {
		limit = HardMaxConversations
	}

	// 只有默认形态的完整上下文才进缓存，避免同一用户的
	// 不同截断长度互相污染；非默认请求直接走重建路径。
	cacheable := includeHistory && limit == s.defaultMaxConvs

	if cacheable {
		cached, err := s.cache.GetContext(ctx, userID)
		if err != nil {
			log.Warnf("context cache read failed for user %s: %v", userID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	uc, err := s.buildContext(ctx, userID, includeHistory, limit)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.SetContext(ctx, userID, uc, s.contextTTL); err != nil {
			log.Warnf("context cache write failed for user %s: %v", userID, err)
		}
	}

	return uc, nil
}

// buildContext 从底层表重建用户上下文。
func (s *contextService) buildContext(ctx context.Context, userID string, includeHistory bool, limit int) (*model.UserContext, error) {
	uc := &model.UserContext{
		UserID:              userID,
		RecentConversations: []model.Conversation{},
		CachedAt:            time.Now().UTC(),
	}

	profile, err := s.profileRepo.FindByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	uc.Profile = profile

	if includeHistory {
		conversations, err := s.conversationRepo.FindRecentByUserID(userID, limit)
		if err != nil {
			return nil, err
		}
		if len(conversations) > 0 {
			uc.HasHistory = true
			uc.RecentConversations = conversations
			uc.InteractionPatterns = analysis.AnalyzePatterns(conversations)
		}
	}

	notes, err := s.noteRepo.FindActiveByUserID(userID)
	if err != nil {
		return nil, err
	}
	uc.AdditionalContext = notes

	return uc, nil
}

// Invalidate 实现写后失效策略：删除失败只降级为日志，
// 陈旧窗口由 TTL 兜底。
func (s *contextService) Invalidate(ctx context.Context, userID string) {
	if err := s.cache.DeleteContext(ctx, userID); err != nil {
		log.Warnf("context cache invalidation failed for user %s: %v", userID, err)
	}
}

// AddContextNote 写入上下文记录；该写路径同样触发缓存失效。
func (s *contextService) AddContextNote(ctx context.Context, note *model.ContextNote) error {
	if note.UserID == "" {
		return ErrMissingUserID
	}
	if err := s.noteRepo.Create(note); err != nil {
		return err
	}
	s.Invalidate(ctx, note.UserID)
	return nil
}
