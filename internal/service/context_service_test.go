package service

import (
	"context"
	"testing"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContextFixtures() (*mockProfileRepo, *mockConversationRepo, *mockNoteRepo, *mockCache, ContextService) {
	profileRepo := newMockProfileRepo()
	conversationRepo := &mockConversationRepo{}
	noteRepo := &mockNoteRepo{}
	cache := newMockCache()
	svc := NewContextService(profileRepo, conversationRepo, noteRepo, cache, 600*time.Second, 5)
	return profileRepo, conversationRepo, noteRepo, cache, svc
}

func TestGetUserContextRequiresUserID(t *testing.T) {
	_, _, _, _, svc := newContextFixtures()

	_, err := svc.GetUserContext(context.Background(), "", true, 0)
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestGetUserContextNoHistory(t *testing.T) {
	_, conversationRepo, _, _, svc := newContextFixtures()

	uc, err := svc.GetUserContext(context.Background(), "user-1", true, 0)
	require.NoError(t, err)

	assert.False(t, uc.HasHistory)
	assert.Empty(t, uc.RecentConversations)
	// 无历史时不做跨会话聚合
	assert.Nil(t, uc.InteractionPatterns)
	assert.Nil(t, uc.Profile)
	assert.Equal(t, 1, conversationRepo.recentCalls)
}

func TestGetUserContextWithHistory(t *testing.T) {
	profileRepo, conversationRepo, _, _, svc := newContextFixtures()

	profileRepo.profiles["user-1"] = &model.UserProfile{UserID: "user-1", Name: "Ana"}
	conversationRepo.conversations = []model.Conversation{
		{UserID: "user-1", CreatedAt: time.Now().Add(-time.Hour), Metadata: model.ConversationMetadata{MessageCount: 3}},
	}

	uc, err := svc.GetUserContext(context.Background(), "user-1", true, 0)
	require.NoError(t, err)

	assert.True(t, uc.HasHistory)
	assert.Len(t, uc.RecentConversations, 1)
	require.NotNil(t, uc.InteractionPatterns)
	assert.Equal(t, 1, uc.InteractionPatterns.TotalConversations)
	require.NotNil(t, uc.Profile)
	assert.Equal(t, "Ana", uc.Profile.Name)
}

func TestGetUserContextSkipsHistoryWhenNotRequested(t *testing.T) {
	_, conversationRepo, _, _, svc := newContextFixtures()
	conversationRepo.conversations = []model.Conversation{{UserID: "user-1"}}

	uc, err := svc.GetUserContext(context.Background(), "user-1", false, 0)
	require.NoError(t, err)

	assert.False(t, uc.HasHistory)
	assert.Zero(t, conversationRepo.recentCalls)
}

func TestGetUserContextReadThroughCache(t *testing.T) {
	_, conversationRepo, _, cache, svc := newContextFixtures()
	conversationRepo.conversations = []model.Conversation{{UserID: "user-1"}}

	first, err := svc.GetUserContext(context.Background(), "user-1", true, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.contextSets)
	assert.Equal(t, 1, conversationRepo.recentCalls)

	// 第二次读取命中缓存，不再回源
	second, err := svc.GetUserContext(context.Background(), "user-1", true, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, conversationRepo.recentCalls)
	assert.Equal(t, first.CachedAt, second.CachedAt)
}

func TestGetUserContextNonDefaultLimitBypassesCache(t *testing.T) {
	_, _, _, cache, svc := newContextFixtures()

	_, err := svc.GetUserContext(context.Background(), "user-1", true, 3)
	require.NoError(t, err)

	assert.Zero(t, cache.contextGets)
	assert.Zero(t, cache.contextSets)
}

func TestGetUserContextSurvivesCacheFailure(t *testing.T) {
	profileRepo, _, _, cache, svc := newContextFixtures()
	profileRepo.profiles["user-1"] = &model.UserProfile{UserID: "user-1"}
	cache.failing = true

	uc, err := svc.GetUserContext(context.Background(), "user-1", true, 0)
	require.NoError(t, err)
	require.NotNil(t, uc.Profile)
}

func TestInvalidateEvictsCachedContext(t *testing.T) {
	_, _, _, cache, svc := newContextFixtures()

	_, err := svc.GetUserContext(context.Background(), "user-1", true, 0)
	require.NoError(t, err)
	require.Contains(t, cache.contexts, "user-1")

	svc.Invalidate(context.Background(), "user-1")
	assert.NotContains(t, cache.contexts, "user-1")
}

func TestAddContextNoteInvalidatesCache(t *testing.T) {
	_, _, noteRepo, cache, svc := newContextFixtures()

	_, err := svc.GetUserContext(context.Background(), "user-1", true, 0)
	require.NoError(t, err)

	err = svc.AddContextNote(context.Background(), &model.ContextNote{
		UserID:      "user-1",
		ContextType: "preference",
		ContextData: model.JSONMap{"channel": "whatsapp"},
	})
	require.NoError(t, err)

	assert.Len(t, noteRepo.notes, 1)
	assert.NotContains(t, cache.contexts, "user-1")

	// 重建后的上下文携带新记录
	uc, err := svc.GetUserContext(context.Background(), "user-1", true, 0)
	require.NoError(t, err)
	require.Len(t, uc.AdditionalContext, 1)
	assert.Equal(t, "preference", uc.AdditionalContext[0].ContextType)
}

func TestAddContextNoteRequiresUserID(t *testing.T) {
	_, _, _, _, svc := newContextFixtures()

	err := svc.AddContextNote(context.Background(), &model.ContextNote{ContextType: "x"})
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestGetUserContextCapsConversationLimit(t *testing.T) {
	_, conversationRepo, _, _, svc := newContextFixtures()
	for i := 0; i < 30; i++ {
		conversationRepo.conversations = append(conversationRepo.conversations, model.Conversation{UserID: "user-1"})
	}

	uc, err := svc.GetUserContext(context.Background(), "user-1", true, 50)
	require.NoError(t, err)
	assert.Len(t, uc.RecentConversations, HardMaxConversations)
}
