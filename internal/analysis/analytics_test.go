package analysis

import (
	"testing"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classifiedConversation(userID, intent, sentiment string) model.Conversation {
	return model.Conversation{
		UserID: userID,
		IntentAnalysis: model.ClassificationResult{
			Intent:    intent,
			Sentiment: sentiment,
			Topics:    []string{"general"},
		},
		Metadata: model.ConversationMetadata{MessageCount: 4},
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	report := Aggregate(nil, nil)

	assert.Zero(t, report.TotalConversations)
	assert.Zero(t, report.UniqueUsers)
	assert.Zero(t, report.AvgMessagesPerConversation)
	assert.Empty(t, report.IntentDistribution)
	assert.Empty(t, report.SentimentAnalysis)
}

func TestAggregateDefaultMetrics(t *testing.T) {
	conversations := []model.Conversation{
		classifiedConversation("a", "support", model.SentimentNegative),
		classifiedConversation("a", "purchase", model.SentimentPositive),
		classifiedConversation("b", "support", model.SentimentNeutral),
	}

	report := Aggregate(conversations, nil)

	assert.Equal(t, 3, report.TotalConversations)
	assert.Equal(t, 2, report.UniqueUsers)
	assert.Equal(t, 4.0, report.AvgMessagesPerConversation)

	// 未指定 metrics 时只计算意图分布和情感分布
	assert.NotNil(t, report.IntentDistribution)
	assert.NotNil(t, report.SentimentAnalysis)
	assert.Nil(t, report.PeakHours)
	assert.Nil(t, report.CompletionRate)
	assert.Nil(t, report.Satisfaction)
	assert.Nil(t, report.TopTopics)
	assert.Nil(t, report.AvgResponseTimeSeconds)

	assert.Equal(t, map[string]int{"support": 2, "purchase": 1}, report.IntentDistribution)
}

func TestAggregateDistributionSumsEqualTotal(t *testing.T) {
	conversations := []model.Conversation{
		classifiedConversation("a", "support", model.SentimentNegative),
		classifiedConversation("b", "", ""),
		classifiedConversation("c", "booking", model.SentimentPositive),
	}

	report := Aggregate(conversations, []string{model.MetricIntentDistribution, model.MetricSentimentAnalysis})

	intentSum, sentimentSum := 0, 0
	for _, n := range report.IntentDistribution {
		intentSum += n
	}
	for _, n := range report.SentimentAnalysis {
		sentimentSum += n
	}
	assert.Equal(t, report.TotalConversations, intentSum)
	assert.Equal(t, report.TotalConversations, sentimentSum)

	// 空标签落入兜底类别
	assert.Equal(t, 1, report.IntentDistribution[model.IntentUnknown])
	assert.Equal(t, 1, report.SentimentAnalysis[model.SentimentNeutral])
}

func TestAggregateSatisfactionDistribution(t *testing.T) {
	score := func(v float64) *float64 { return &v }
	conversations := []model.Conversation{
		{UserID: "a", Metadata: model.ConversationMetadata{SatisfactionScore: score(5)}},
		{UserID: "b", Metadata: model.ConversationMetadata{SatisfactionScore: score(5)}},
		{UserID: "c", Metadata: model.ConversationMetadata{SatisfactionScore: score(3)}},
		{UserID: "d"},
	}

	report := Aggregate(conversations, []string{model.MetricSatisfactionDistribution})
	require.NotNil(t, report.Satisfaction)

	assert.Equal(t, 3, report.Satisfaction.Count)
	assert.InDelta(t, 13.0/3.0, report.Satisfaction.Average, 1e-9)
	assert.Equal(t, map[int]int{5: 2, 3: 1}, report.Satisfaction.Histogram)
}

func TestAggregateCompletionRate(t *testing.T) {
	conversations := []model.Conversation{
		{UserID: "a", Metadata: model.ConversationMetadata{CompletionStatus: model.CompletionStatusCompleted}},
		{UserID: "b", Metadata: model.ConversationMetadata{CompletionStatus: "abandoned"}},
	}

	report := Aggregate(conversations, []string{model.MetricCompletionRate})
	require.NotNil(t, report.CompletionRate)
	assert.Equal(t, 50.0, *report.CompletionRate)
}

func TestAggregatePeakHours(t *testing.T) {
	at := func(hour int) model.Conversation {
		return model.Conversation{
			UserID:    "a",
			CreatedAt: time.Date(2026, 8, 20, hour, 30, 0, 0, time.UTC),
		}
	}
	conversations := []model.Conversation{at(9), at(9), at(15)}

	report := Aggregate(conversations, []string{model.MetricPeakHours})
	assert.Equal(t, map[int]int{9: 2, 15: 1}, report.PeakHours)
}

func TestAggregateTopTopics(t *testing.T) {
	withTopics := func(topics ...string) model.Conversation {
		return model.Conversation{
			UserID:         "a",
			IntentAnalysis: model.ClassificationResult{Topics: topics},
		}
	}
	conversations := []model.Conversation{
		withTopics("product", "delivery"),
		withTopics("product"),
		withTopics("payment"),
	}

	report := Aggregate(conversations, []string{model.MetricTopTopics})
	require.NotEmpty(t, report.TopTopics)

	assert.Equal(t, "product", report.TopTopics[0].Topic)
	assert.Equal(t, 2, report.TopTopics[0].Count)
	assert.InDelta(t, 66.7, report.TopTopics[0].Percentage, 0.1)
}

func TestAggregateResponseTimeFiltersOutliers(t *testing.T) {
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	conversations := []model.Conversation{
		{
			UserID: "a",
			Messages: model.MessageList{
				{Role: model.RoleUser, Content: "a", Timestamp: base},
				{Role: model.RoleAssistant, Content: "b", Timestamp: base.Add(30 * time.Second)},
				// 超过一小时的间隔按离群值丢弃
				{Role: model.RoleUser, Content: "c", Timestamp: base.Add(3 * time.Hour)},
				{Role: model.RoleAssistant, Content: "d", Timestamp: base.Add(3*time.Hour + 90*time.Second)},
				// 非正间隔同样丢弃
				{Role: model.RoleUser, Content: "e", Timestamp: base.Add(3 * time.Hour)},
			},
		},
	}

	report := Aggregate(conversations, []string{model.MetricResponseTime})
	require.NotNil(t, report.AvgResponseTimeSeconds)
	assert.Equal(t, 60.0, *report.AvgResponseTimeSeconds)
}

func TestAggregateResponseTimeNoValidDeltas(t *testing.T) {
	conversations := []model.Conversation{
		{UserID: "a", Messages: model.MessageList{{Role: model.RoleUser, Content: "a"}}},
	}

	report := Aggregate(conversations, []string{model.MetricResponseTime})
	require.NotNil(t, report.AvgResponseTimeSeconds)
	assert.Zero(t, *report.AvgResponseTimeSeconds)
}
