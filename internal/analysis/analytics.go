package analysis

import (
	"math"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
)

// 响应间隔超过一小时的相邻消息被视为时钟异常或离群值，不计入均值。
const responseTimeOutlierSeconds = 3600

// Aggregate 对任意会话集合计算请求的分析指标。
// metrics 为空时默认计算意图分布和情感分布；
// 空集合不报错，返回全零/空的结果。
func Aggregate(conversations []model.Conversation, metrics []string) model.AnalyticsReport {
	report := model.AnalyticsReport{
		TotalConversations: len(conversations),
		UniqueUsers:        uniqueUsers(conversations),
	}
	if len(conversations) > 0 {
		totalMessages := 0
		for _, c := range conversations {
			totalMessages += messageCount(c)
		}
		report.AvgMessagesPerConversation = float64(totalMessages) / float64(len(conversations))
	}

	requested := requestedMetrics(metrics)

	if requested[model.MetricIntentDistribution] {
		report.IntentDistribution = intentDistribution(conversations)
	}
	if requested[model.MetricSentimentAnalysis] {
		report.SentimentAnalysis = sentimentDistribution(conversations)
	}
	if requested[model.MetricPeakHours] {
		report.PeakHours = peakHours(conversations)
	}
	if requested[model.MetricCompletionRate] {
		rate := completionRate(conversations)
		report.CompletionRate = &rate
	}
	if requested[model.MetricSatisfactionDistribution] {
		report.Satisfaction = satisfactionDistribution(conversations)
	}
	if requested[model.MetricTopTopics] {
		report.TopTopics = topTopics(conversations, 10)
	}
	if requested[model.MetricResponseTime] {
		avg := avgResponseTime(conversations)
		report.AvgResponseTimeSeconds = &avg
	}

	return report
}

// requestedMetrics 把指标列表归一化为集合，空列表落到默认指标。
func requestedMetrics(metrics []string) map[string]bool {
	if len(metrics) == 0 {
		return map[string]bool{
			model.MetricIntentDistribution: true,
			model.MetricSentimentAnalysis:  true,
		}
	}
	requested := make(map[string]bool, len(metrics))
	for _, m := range metrics {
		requested[m] = true
	}
	return requested
}

func uniqueUsers(conversations []model.Conversation) int {
	users := make(map[string]struct{})
	for _, c := range conversations {
		users[c.UserID] = struct{}{}
	}
	return len(users)
}

// intentDistribution 统计各意图标签的会话数，空标签归入 unknown。
func intentDistribution(conversations []model.Conversation) map[string]int {
	dist := make(map[string]int)
	for _, c := range conversations {
		intent := c.IntentAnalysis.Intent
		if intent == "" {
			intent = model.IntentUnknown
		}
		dist[intent]++
	}
	return dist
}

// sentimentDistribution 统计各情感标签的会话数，空标签归入 neutral。
func sentimentDistribution(conversations []model.Conversation) map[string]int {
	dist := make(map[string]int)
	for _, c := range conversations {
		sentiment := c.IntentAnalysis.Sentiment
		if sentiment == "" {
			sentiment = model.SentimentNeutral
		}
		dist[sentiment]++
	}
	return dist
}

// peakHours 按会话创建时刻的小时做直方图。
func peakHours(conversations []model.Conversation) map[int]int {
	hours := make(map[int]int)
	for _, c := range conversations {
		hours[c.CreatedAt.Hour()]++
	}
	return hours
}

// completionRate 返回完成状态会话的百分比，空集合为 0。
func completionRate(conversations []model.Conversation) float64 {
	if len(conversations) == 0 {
		return 0
	}
	completed := 0
	for _, c := range conversations {
		if c.Metadata.CompletionStatus == model.CompletionStatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(conversations)) * 100
}

// satisfactionDistribution 汇总非空满意度评分的均值、数量与按分值的直方图。
func satisfactionDistribution(conversations []model.Conversation) *model.SatisfactionDistribution {
	dist := &model.SatisfactionDistribution{Histogram: make(map[int]int)}
	var sum float64
	for _, c := range conversations {
		if c.Metadata.SatisfactionScore == nil {
			continue
		}
		score := *c.Metadata.SatisfactionScore
		sum += score
		dist.Count++
		dist.Histogram[int(math.Round(score))]++
	}
	if dist.Count > 0 {
		dist.Average = sum / float64(dist.Count)
	}
	return dist
}

// topTopics 统计分类结果中各主题出现的会话数，返回前 n 个及占比。
func topTopics(conversations []model.Conversation, n int) []model.TopicShare {
	counts := make(map[string]int)
	for _, c := range conversations {
		for _, topic := range c.IntentAnalysis.Topics {
			counts[topic]++
		}
	}

	topics := topCountedKeys(counts, n)
	shares := make([]model.TopicShare, 0, len(topics))
	for _, topic := range topics {
		shares = append(shares, model.TopicShare{
			Topic:      topic,
			Count:      counts[topic],
			Percentage: float64(counts[topic]) / float64(len(conversations)) * 100,
		})
	}
	return shares
}

// avgResponseTime 计算相邻消息时间差的全局均值（秒）。
// 非正差值和超过一小时的差值按离群处理丢弃，没有有效差值时为 0。
func avgResponseTime(conversations []model.Conversation) float64 {
	var sum float64
	var count int
	for _, c := range conversations {
		for i := 1; i < len(c.Messages); i++ {
			delta := c.Messages[i].Timestamp.Sub(c.Messages[i-1].Timestamp).Seconds()
			if delta <= 0 || delta > responseTimeOutlierSeconds {
				continue
			}
			sum += delta
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
