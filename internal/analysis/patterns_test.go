package analysis

import (
	"testing"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conversationAt(createdAt time.Time, messageCount int) model.Conversation {
	return model.Conversation{
		UserID:    "user-1",
		CreatedAt: createdAt,
		Metadata:  model.ConversationMetadata{MessageCount: messageCount},
	}
}

func TestAnalyzePatternsEmptyInput(t *testing.T) {
	assert.Nil(t, AnalyzePatterns(nil))
	assert.Nil(t, AnalyzePatterns([]model.Conversation{}))
}

func TestAnalyzePatternsLowFrequency(t *testing.T) {
	now := time.Now()
	conversations := []model.Conversation{
		conversationAt(now.Add(-2*24*time.Hour), 3),
		conversationAt(now.Add(-10*24*time.Hour), 7),
	}

	p := AnalyzePatterns(conversations)
	require.NotNil(t, p)

	assert.Equal(t, 2, p.TotalConversations)
	assert.Equal(t, 5.0, p.AvgMessagesPerConversation)
	// 2 次会话 / 10 天 = 0.2 次/天
	assert.Equal(t, FrequencyLow, p.ConversationFrequency)
	assert.InDelta(t, 0.2, p.FrequencyPerDay, 0.01)
}

func TestAnalyzePatternsZeroDaySpanIsHighFrequency(t *testing.T) {
	// 最老会话就在当下（甚至因时钟偏差略在未来）时不做除法
	now := time.Now().Add(time.Second)
	conversations := []model.Conversation{conversationAt(now, 4)}

	p := AnalyzePatterns(conversations)
	require.NotNil(t, p)

	assert.Equal(t, FrequencyHigh, p.ConversationFrequency)
	assert.Equal(t, 1.0, p.FrequencyPerDay)
}

func TestAnalyzePatternsMediumFrequency(t *testing.T) {
	now := time.Now()
	// 5 次会话 / 10 天 = 0.5 次/天
	conversations := make([]model.Conversation, 0, 5)
	for i := 0; i < 5; i++ {
		conversations = append(conversations, conversationAt(now.Add(-10*24*time.Hour), 2))
	}

	p := AnalyzePatterns(conversations)
	require.NotNil(t, p)
	assert.Equal(t, FrequencyMedium, p.ConversationFrequency)
}

func TestAnalyzePatternsMostActiveHours(t *testing.T) {
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	conversations := []model.Conversation{
		conversationAt(day.Add(9*time.Hour), 1),
		conversationAt(day.Add(9*time.Hour).AddDate(0, 0, -1), 1),
		conversationAt(day.Add(14*time.Hour), 1),
		conversationAt(day.Add(14*time.Hour).AddDate(0, 0, -2), 1),
		conversationAt(day.Add(20*time.Hour), 1),
		conversationAt(day.Add(8*time.Hour), 1),
	}

	p := AnalyzePatterns(conversations)
	require.NotNil(t, p)

	// 9 点和 14 点各两次领先；第三名 8 点和 20 点同为一次，取小时更小的 8
	assert.Equal(t, []int{9, 14, 8}, p.MostActiveHours)
}

func TestAnalyzePatternsEngagementScoreCapped(t *testing.T) {
	now := time.Now()
	conversations := make([]model.Conversation, 0, 40)
	for i := 0; i < 40; i++ {
		conversations = append(conversations, conversationAt(now, 30))
	}

	p := AnalyzePatterns(conversations)
	require.NotNil(t, p)
	assert.Equal(t, 100.0, p.EngagementScore)
}

func TestAnalyzePatternsSummaryAndIntents(t *testing.T) {
	now := time.Now()
	score := 4.0

	withContent := func(daysAgo int, intent, content string, satisfaction *float64) model.Conversation {
		return model.Conversation{
			UserID:    "user-1",
			CreatedAt: now.Add(-time.Duration(daysAgo) * 24 * time.Hour),
			Messages: model.MessageList{
				{Role: model.RoleUser, Content: content},
			},
			IntentAnalysis: model.ClassificationResult{Intent: intent},
			Metadata: model.ConversationMetadata{
				CompletionStatus:  model.CompletionStatusCompleted,
				SatisfactionScore: satisfaction,
			},
		}
	}

	conversations := []model.Conversation{
		withContent(1, "purchase", "quero comprar um produto", &score),
		withContent(3, "purchase", "qual o prazo de entrega?", nil),
		withContent(5, "support", "erro no sistema", nil),
	}

	p := AnalyzePatterns(conversations)
	require.NotNil(t, p)
	require.NotNil(t, p.Summary)

	assert.Equal(t, 1.0, p.Summary.ResolutionRate)
	assert.Equal(t, 4.0, p.Summary.AvgSatisfaction)
	assert.Contains(t, p.Summary.TopTopics, "product")
	assert.Contains(t, p.Summary.TopTopics, "delivery")
	assert.NotContains(t, p.Summary.TopTopics, TopicGeneral)

	require.NotEmpty(t, p.CommonIntents)
	assert.Equal(t, "purchase", p.CommonIntents[0].Intent)
	assert.Equal(t, 2, p.CommonIntents[0].Count)
	assert.InDelta(t, 66.7, p.CommonIntents[0].Percentage, 0.1)
}
