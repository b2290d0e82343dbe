package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
)

// 会话频率阈值（次/天）。
const (
	frequencyHighThreshold   = 1.0
	frequencyMediumThreshold = 0.3
)

// 频率标签。
const (
	FrequencyHigh   = "high"
	FrequencyMedium = "medium"
	FrequencyLow    = "low"
)

// AnalyzePatterns 对一个用户的历史会话集合做跨会话统计。
// 集合为空时返回 nil；调用方应在无历史时跳过聚合。
func AnalyzePatterns(conversations []model.Conversation) *model.InteractionPatterns {
	if len(conversations) == 0 {
		return nil
	}

	total := len(conversations)
	totalMessages := 0
	oldest := conversations[0].CreatedAt
	newest := conversations[0].CreatedAt
	hourCounts := make(map[int]int)

	for _, c := range conversations {
		totalMessages += messageCount(c)
		if c.CreatedAt.Before(oldest) {
			oldest = c.CreatedAt
		}
		if c.CreatedAt.After(newest) {
			newest = c.CreatedAt
		}
		hourCounts[c.CreatedAt.Hour()]++
	}

	avgMessages := float64(totalMessages) / float64(total)
	frequency, label := conversationFrequency(total, oldest)

	score := avgMessages*10 + float64(total)*2 + frequency*20
	if score > 100 {
		score = 100
	}

	return &model.InteractionPatterns{
		TotalConversations:         total,
		AvgMessagesPerConversation: avgMessages,
		MostActiveHours:            topHours(hourCounts, 3),
		ConversationFrequency:      label,
		FrequencyPerDay:            frequency,
		EngagementScore:            score,
		LastInteraction:            newest,
		Summary:                    summarize(conversations, oldest, newest),
		CommonIntents:              commonIntents(conversations, 5),
	}
}

// messageCount 优先取保存时记录的 message_count，缺失时回退到消息数组长度。
func messageCount(c model.Conversation) int {
	if c.Metadata.MessageCount > 0 {
		return c.Metadata.MessageCount
	}
	return len(c.Messages)
}

// conversationFrequency 计算日均会话频率及其标签。
// 最老会话距今的天数为零时不做除法，直接判为 high（单会话窗口的约定）。
func conversationFrequency(total int, oldest time.Time) (float64, string) {
	days := time.Since(oldest).Hours() / 24
	if days <= 0 {
		return float64(total), FrequencyHigh
	}

	frequency := float64(total) / days
	switch {
	case frequency > frequencyHighThreshold:
		return frequency, FrequencyHigh
	case frequency > frequencyMediumThreshold:
		return frequency, FrequencyMedium
	default:
		return frequency, FrequencyLow
	}
}

// topHours 返回出现次数最多的 n 个小时。
// 次数相同的按小时值从小到大排，保证结果稳定。
func topHours(counts map[int]int, n int) []int {
	hours := make([]int, 0, len(counts))
	for h := range counts {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool {
		if counts[hours[i]] != counts[hours[j]] {
			return counts[hours[i]] > counts[hours[j]]
		}
		return hours[i] < hours[j]
	})
	if len(hours) > n {
		hours = hours[:n]
	}
	return hours
}

// summarize 生成历史会话的概要：时间跨度、热门主题、解决率和平均满意度。
func summarize(conversations []model.Conversation, oldest, newest time.Time) *model.ConversationSummary {
	topicCounts := make(map[string]int)
	completed := 0
	var satisfactionSum float64
	var satisfactionCount int

	for _, c := range conversations {
		text := make([]string, 0, len(c.Messages))
		for _, m := range c.Messages {
			text = append(text, m.Content)
		}
		tokens := tokenize(strings.ToLower(strings.Join(text, " ")))
		for _, topic := range extractTopics(tokens) {
			if topic != TopicGeneral {
				topicCounts[topic]++
			}
		}

		if c.Metadata.CompletionStatus == model.CompletionStatusCompleted {
			completed++
		}
		if c.Metadata.SatisfactionScore != nil {
			satisfactionSum += *c.Metadata.SatisfactionScore
			satisfactionCount++
		}
	}

	var avgSatisfaction float64
	if satisfactionCount > 0 {
		avgSatisfaction = satisfactionSum / float64(satisfactionCount)
	}

	return &model.ConversationSummary{
		FirstInteraction: oldest,
		LastInteraction:  newest,
		TopTopics:        topCountedKeys(topicCounts, 5),
		ResolutionRate:   float64(completed) / float64(len(conversations)),
		AvgSatisfaction:  avgSatisfaction,
	}
}

// commonIntents 返回出现频率最高的 n 个意图及其占比。
func commonIntents(conversations []model.Conversation, n int) []model.IntentShare {
	counts := make(map[string]int)
	for _, c := range conversations {
		intent := c.IntentAnalysis.Intent
		if intent == "" {
			intent = model.IntentUnknown
		}
		counts[intent]++
	}

	intents := topCountedKeys(counts, n)
	shares := make([]model.IntentShare, 0, len(intents))
	for _, intent := range intents {
		shares = append(shares, model.IntentShare{
			Intent:     intent,
			Count:      counts[intent],
			Percentage: float64(counts[intent]) / float64(len(conversations)) * 100,
		})
	}
	return shares
}

// topCountedKeys 按计数降序（同数按字典序）返回前 n 个 key。
func topCountedKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
