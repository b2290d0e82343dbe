package analysis

import (
	"strings"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
)

// Engagement 统计用户在一次会话中的参与度：
// 用户消息数、平均词数，以及 high(>5)/medium(>2)/low 三档。
func Engagement(messages []model.Message) model.UserEngagement {
	var userMessages, totalWords int
	for _, m := range messages {
		if m.Role != model.RoleUser {
			continue
		}
		userMessages++
		totalWords += len(strings.Fields(m.Content))
	}

	var avgWords float64
	if userMessages > 0 {
		avgWords = float64(totalWords) / float64(userMessages)
	}

	level := model.EngagementLow
	switch {
	case userMessages > 5:
		level = model.EngagementHigh
	case userMessages > 2:
		level = model.EngagementMedium
	}

	return model.UserEngagement{
		UserMessageCount:   userMessages,
		AvgWordsPerMessage: avgWords,
		EngagementLevel:    level,
	}
}

// DurationSeconds 返回首末消息的时间差（秒）。
// 消息数不足 2 时为 0；时间戳乱序导致的负差值被钳为 0。
func DurationSeconds(messages []model.Message) int {
	if len(messages) < 2 {
		return 0
	}
	d := messages[len(messages)-1].Timestamp.Sub(messages[0].Timestamp).Seconds()
	if d < 0 {
		return 0
	}
	return int(d)
}
