package service

import (
	"context"
	"testing"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversationFixtures() (*mockConversationRepo, *mockSessionRepo, *mockCache, *mockPublisher, ConversationService) {
	profileRepo := newMockProfileRepo()
	conversationRepo := &mockConversationRepo{}
	noteRepo := &mockNoteRepo{}
	sessionRepo := newMockSessionRepo()
	cache := newMockCache()
	publisher := &mockPublisher{}

	contextSvc := NewContextService(profileRepo, conversationRepo, noteRepo, cache, 600*time.Second, 5)
	svc := NewConversationService(conversationRepo, sessionRepo, contextSvc, "conversations", publisher)
	return conversationRepo, sessionRepo, cache, publisher, svc
}

func validInput() SaveConversationInput {
	return SaveConversationInput{
		SessionID: "session_abc",
		UserID:    "user-1",
		Messages: []model.Message{
			{Role: model.RoleUser, Content: "quero comprar um produto"},
			{Role: model.RoleAssistant, Content: "claro, qual modelo?"},
		},
	}
}

func TestSaveConversationValidation(t *testing.T) {
	_, _, _, _, svc := newConversationFixtures()

	cases := []struct {
		name    string
		mutate  func(*SaveConversationInput)
		wantErr error
	}{
		{"missing session", func(i *SaveConversationInput) { i.SessionID = "" }, ErrMissingSessionID},
		{"missing user", func(i *SaveConversationInput) { i.UserID = "" }, ErrMissingUserID},
		{"empty messages", func(i *SaveConversationInput) { i.Messages = nil }, ErrEmptyMessages},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			_, err := svc.Save(context.Background(), input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestSaveConversationFullFlow(t *testing.T) {
	conversationRepo, sessionRepo, cache, publisher, svc := newConversationFixtures()
	sessionRepo.sessions["session_abc"] = &model.ChatSession{SessionID: "session_abc", Status: model.SessionStatusActive}

	conversation, err := svc.Save(context.Background(), validInput())
	require.NoError(t, err)

	// 持久化并生成唯一标识
	require.Len(t, conversationRepo.created, 1)
	assert.NotEmpty(t, conversation.ConversationID)
	assert.Contains(t, conversation.ConversationID, "conv_")

	// 保存时计算一次分类结果
	assert.Equal(t, "purchase", conversation.IntentAnalysis.Intent)
	assert.Contains(t, conversation.IntentAnalysis.Topics, "product")
	assert.Equal(t, 2, conversation.Metadata.MessageCount)

	// 所属会话被显式标记为完成
	assert.Equal(t, model.SessionStatusCompleted, sessionRepo.statusUpdates["session_abc"])

	// 事件发布
	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.TypeConversationSaved, publisher.published[0].EventType)
	assert.Equal(t, "user-1", publisher.published[0].UserID)

	// 写后失效
	assert.GreaterOrEqual(t, cache.contextDeletes, 1)
}

func TestSaveConversationFillsMissingTimestamps(t *testing.T) {
	_, _, _, _, svc := newConversationFixtures()

	conversation, err := svc.Save(context.Background(), validInput())
	require.NoError(t, err)

	for _, m := range conversation.Messages {
		assert.False(t, m.Timestamp.IsZero())
	}
}

func TestSaveConversationLiftsCallerMetadata(t *testing.T) {
	_, _, _, _, svc := newConversationFixtures()

	input := validInput()
	input.Metadata = map[string]interface{}{
		"satisfaction_score": 4.5,
		"completion_status":  "abandoned",
		"channel":            "whatsapp",
	}

	conversation, err := svc.Save(context.Background(), input)
	require.NoError(t, err)

	require.NotNil(t, conversation.Metadata.SatisfactionScore)
	assert.Equal(t, 4.5, *conversation.Metadata.SatisfactionScore)
	assert.Equal(t, "abandoned", conversation.Metadata.CompletionStatus)
	assert.Equal(t, "whatsapp", conversation.Metadata.Extra["channel"])
}

func TestSaveConversationDefaultsCompletionStatus(t *testing.T) {
	_, _, _, _, svc := newConversationFixtures()

	conversation, err := svc.Save(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, model.CompletionStatusCompleted, conversation.Metadata.CompletionStatus)
}

func TestSaveConversationInvalidatesStaleContext(t *testing.T) {
	conversationRepo, _, cache, _, svc := newConversationFixtures()

	profileRepo := newMockProfileRepo()
	noteRepo := &mockNoteRepo{}
	contextSvc := NewContextService(profileRepo, conversationRepo, noteRepo, cache, 600*time.Second, 5)

	// 先填充缓存
	_, err := contextSvc.GetUserContext(context.Background(), "user-1", true, 0)
	require.NoError(t, err)
	require.Contains(t, cache.contexts, "user-1")

	_, err = svc.Save(context.Background(), validInput())
	require.NoError(t, err)

	// 保存后的下一次读取反映新会话
	uc, err := contextSvc.GetUserContext(context.Background(), "user-1", true, 0)
	require.NoError(t, err)
	assert.True(t, uc.HasHistory)
	assert.Len(t, uc.RecentConversations, 1)
}
