package analysis

import (
	"testing"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestEngagementCountsOnlyUserMessages(t *testing.T) {
	messages := []model.Message{
		msg(model.RoleUser, "oi tudo bem"),
		msg(model.RoleAssistant, "olá, como posso ajudar com muitas palavras aqui"),
		msg(model.RoleUser, "quero saber do meu pedido"),
	}

	e := Engagement(messages)

	assert.Equal(t, 2, e.UserMessageCount)
	// (3 + 5) / 2
	assert.Equal(t, 4.0, e.AvgWordsPerMessage)
	assert.Equal(t, model.EngagementLow, e.EngagementLevel)
}

func TestEngagementTiers(t *testing.T) {
	buildMessages := func(userCount int) []model.Message {
		messages := make([]model.Message, 0, userCount)
		for i := 0; i < userCount; i++ {
			messages = append(messages, msg(model.RoleUser, "uma mensagem"))
		}
		return messages
	}

	assert.Equal(t, model.EngagementLow, Engagement(buildMessages(2)).EngagementLevel)
	assert.Equal(t, model.EngagementMedium, Engagement(buildMessages(3)).EngagementLevel)
	assert.Equal(t, model.EngagementMedium, Engagement(buildMessages(5)).EngagementLevel)
	assert.Equal(t, model.EngagementHigh, Engagement(buildMessages(6)).EngagementLevel)
}

func TestEngagementEmptyInput(t *testing.T) {
	e := Engagement(nil)

	assert.Zero(t, e.UserMessageCount)
	assert.Zero(t, e.AvgWordsPerMessage)
	assert.Equal(t, model.EngagementLow, e.EngagementLevel)
}

func TestDurationSeconds(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	messages := []model.Message{
		{Role: model.RoleUser, Content: "a", Timestamp: base},
		{Role: model.RoleAssistant, Content: "b", Timestamp: base.Add(90 * time.Second)},
	}
	assert.Equal(t, 90, DurationSeconds(messages))
}

func TestDurationSecondsSingleMessage(t *testing.T) {
	messages := []model.Message{
		{Role: model.RoleUser, Content: "a", Timestamp: time.Now()},
	}
	assert.Zero(t, DurationSeconds(messages))
}

func TestDurationSecondsClampsNegative(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	// 乱序时间戳不应产生负时长
	messages := []model.Message{
		{Role: model.RoleUser, Content: "a", Timestamp: base},
		{Role: model.RoleAssistant, Content: "b", Timestamp: base.Add(-5 * time.Minute)},
	}
	assert.Zero(t, DurationSeconds(messages))
}
