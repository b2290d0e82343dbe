package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/analysis"
	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/caioalcolea/talkhub-mcp-server/internal/repository"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/es"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/events"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"

	"github.com/google/uuid"
)

// 保存会话请求的校验错误。
var (
	ErrMissingSessionID = errors.New("session_id is required")
	ErrEmptyMessages    = errors.New("messages must not be empty")
)

// SaveConversationInput 是保存一次完整会话所需的全部数据。
type SaveConversationInput struct {
	SessionID string
	UserID    string
	Messages  []model.Message
	Metadata  map[string]interface{}
}

// ConversationService 定义了会话记录的业务操作。
type ConversationService interface {
	// Save 对消息做分类与参与度分析后持久化整条会话，
	// 并将所属会话标记为完成、使用户上下文缓存失效。
	Save(ctx context.Context, input SaveConversationInput) (*model.Conversation, error)
}

// conversationService 是 ConversationService 接口的实现。
type conversationService struct {
	conversationRepo repository.ConversationRepository
	sessionRepo      repository.SessionRepository
	contextService   ContextService
	esIndex          string
	publishers       []events.Publisher
}

// NewConversationService 创建一个新的 ConversationService 实例。
func NewConversationService(
	conversationRepo repository.ConversationRepository,
	sessionRepo repository.SessionRepository,
	contextService ContextService,
	esIndex string,
	publishers ...events.Publisher,
) ConversationService {
	return &conversationService{
		conversationRepo: conversationRepo,
		sessionRepo:      sessionRepo,
		contextService:   contextService,
		esIndex:          esIndex,
		publishers:       publishers,
	}
}

// Save 执行完整的保存流程。分类结果在此刻计算一次，之后不再变更。
// 会话状态级联、检索索引和事件发布都是显式的独立步骤：
// 它们的失败会被记录，但不会使保存本身失败。
func (s *conversationService) Save(ctx context.Context, input SaveConversationInput) (*model.Conversation, error) {
	if input.SessionID == "" {
		return nil, ErrMissingSessionID
	}
	if input.UserID == "" {
		return nil, ErrMissingUserID
	}
	if len(input.Messages) == 0 {
		return nil, ErrEmptyMessages
	}

	// 缺失的消息时间戳补为接收时间
	now := time.Now().UTC()
	messages := make([]model.Message, len(input.Messages))
	copy(messages, input.Messages)
	for i := range messages {
		if messages[i].Timestamp.IsZero() {
			messages[i].Timestamp = now
		}
	}

	result := analysis.Classify(messages)

	conversation := &model.Conversation{
		ConversationID: "conv_" + uuid.NewString(),
		SessionID:      input.SessionID,
		UserID:         input.UserID,
		Messages:       messages,
		IntentAnalysis: result,
		Metadata:       buildMetadata(messages, input.Metadata),
	}

	if err := s.conversationRepo.Create(conversation); err != nil {
		return nil, err
	}

	// 级联更新：所属会话标记为完成。没有外键约束，这是一次显式的独立调用。
	if err := s.sessionRepo.UpdateStatus(input.SessionID, model.SessionStatusCompleted); err != nil {
		log.Error("failed to mark session completed", err)
	}

	s.indexConversation(ctx, conversation)

	publishEvent(ctx, s.publishers, events.AnalyticsEvent{
		EventType: events.TypeConversationSaved,
		UserID:    input.UserID,
		SessionID: input.SessionID,
		Data: map[string]interface{}{
			"conversation_id": conversation.ConversationID,
			"intent":          result.Intent,
			"sentiment":       result.Sentiment,
			"message_count":   result.MessageCount,
		},
		Timestamp: time.Now().UTC(),
	})

	// 写后失效：下一次上下文读取会重新聚合
	s.contextService.Invalidate(ctx, input.UserID)

	log.Infow("conversation saved",
		"conversationId", conversation.ConversationID,
		"sessionId", input.SessionID,
		"userId", input.UserID,
		"intent", result.Intent,
	)
	return conversation, nil
}

// buildMetadata 由消息序列派生指标，并保留调用方的附加元数据。
func buildMetadata(messages []model.Message, extra map[string]interface{}) model.ConversationMetadata {
	metadata := model.ConversationMetadata{
		MessageCount:     len(messages),
		DurationSeconds:  analysis.DurationSeconds(messages),
		CompletionStatus: model.CompletionStatusCompleted,
	}

	if extra == nil {
		return metadata
	}

	remaining := make(model.JSONMap)
	for k, v := range extra {
		switch k {
		case "satisfaction_score":
			if score, ok := toFloat(v); ok {
				metadata.SatisfactionScore = &score
			}
		case "completion_status":
			if status, ok := v.(string); ok && status != "" {
				metadata.CompletionStatus = status
			}
		default:
			remaining[k] = v
		}
	}
	if len(remaining) > 0 {
		metadata.Extra = remaining
	}
	return metadata
}

// indexConversation 将会话写入检索索引；未启用或失败时只记录警告。
func (s *conversationService) indexConversation(ctx context.Context, c *model.Conversation) {
	if es.ESClient == nil {
		return
	}

	text := make([]string, 0, len(c.Messages))
	for _, m := range c.Messages {
		text = append(text, m.Content)
	}
	doc := model.EsConversation{
		ConversationID: c.ConversationID,
		SessionID:      c.SessionID,
		UserID:         c.UserID,
		Text:           strings.Join(text, "\n"),
		Intent:         c.IntentAnalysis.Intent,
		Sentiment:      c.IntentAnalysis.Sentiment,
		Topics:         c.IntentAnalysis.Topics,
		MessageCount:   c.IntentAnalysis.MessageCount,
		CreatedAt:      c.CreatedAt,
	}
	if err := es.IndexConversation(ctx, s.esIndex, doc); err != nil {
		log.Warnf("failed to index conversation %s: %v", c.ConversationID, err)
	}
}

// toFloat 宽松地把 JSON 解码产生的数值转换为 float64。
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
