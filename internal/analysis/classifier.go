package analysis

import (
	"strings"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
)

// 情感得分超过该阈值判为 positive，低于其相反数判为 negative。
const sentimentThreshold = 0.01

// tokenTrimCutset 在匹配词表时去掉 token 两端的标点。
const tokenTrimCutset = ".,!?;:()[]{}\"'“”"

// Classify 对一次会话做完整的启发式分类。
// 输出是消息内容的确定性纯函数：相同输入永远得到相同结果。
func Classify(messages []model.Message) model.ClassificationResult {
	text := concatContent(messages)
	lower := strings.ToLower(text)
	tokens := tokenize(lower)

	return model.ClassificationResult{
		Sentiment:      scoreSentiment(tokens),
		Intent:         detectIntent(lower, tokens),
		Topics:         extractTopics(tokens),
		Confidence:     confidence(len(messages), len(text)),
		MessageCount:   len(messages),
		UserEngagement: Engagement(messages),
	}
}

// concatContent 将所有消息内容按空格拼接。
func concatContent(messages []model.Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, " ")
}

// tokenize 按空白切分并去除两端标点，保留原始 token 数。
func tokenize(lower string) []string {
	fields := strings.Fields(lower)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, strings.Trim(f, tokenTrimCutset))
	}
	return tokens
}

// scoreSentiment 用词表计数法给出情感标签。
// score = (正向词数 - 负向词数) / 总 token 数，空输入判为 neutral。
func scoreSentiment(tokens []string) string {
	if len(tokens) == 0 {
		return model.SentimentNeutral
	}

	var positive, negative int
	for _, tok := range tokens {
		if containsWord(positiveWords, tok) {
			positive++
		}
		if containsWord(negativeWords, tok) {
			negative++
		}
	}

	score := float64(positive-negative) / float64(len(tokens))
	switch {
	case score > sentimentThreshold:
		return model.SentimentPositive
	case score < -sentimentThreshold:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// detectIntent 在固定类别集中选出得分最高的意图。
// 单词命中计 1 分，短语（子串）命中计 2 分；
// 平分时按类别声明顺序取先声明者；全零时返回 unknown。
func detectIntent(lower string, tokens []string) string {
	best := model.IntentUnknown
	bestScore := 0

	for _, cat := range intentCategories {
		score := 0
		for _, kw := range cat.Keywords {
			score += countOccurrences(tokens, kw)
		}
		for _, phrase := range cat.Phrases {
			score += 2 * strings.Count(lower, phrase)
		}
		if score > bestScore {
			bestScore = score
			best = cat.Name
		}
	}

	return best
}

// extractTopics 返回消息文本命中的主题集合，无命中时为 {"general"}。
func extractTopics(tokens []string) []string {
	topics := make([]string, 0, 2)
	for _, cat := range topicCategories {
		for _, kw := range cat.Keywords {
			if containsWord(tokens, kw) {
				topics = append(topics, cat.Name)
				break
			}
		}
	}
	if len(topics) == 0 {
		return []string{TopicGeneral}
	}
	return topics
}

// confidence 根据消息数量和文本长度给出置信度。
// 基础 0.5，消息数 >5 加 0.2、>10 再加 0.1；
// 文本长度 >100 加 0.1、>500 再加 0.1；上限 0.95。
func confidence(messageCount, textLen int) float64 {
	c := 0.5
	if messageCount > 5 {
		c += 0.2
	}
	if messageCount > 10 {
		c += 0.1
	}
	if textLen > 100 {
		c += 0.1
	}
	if textLen > 500 {
		c += 0.1
	}
	if c > 0.95 {
		c = 0.95
	}
	return c
}

func containsWord(words []string, tok string) bool {
	for _, w := range words {
		if w == tok {
			return true
		}
	}
	return false
}

func countOccurrences(tokens []string, word string) int {
	n := 0
	for _, tok := range tokens {
		if tok == word {
			n++
		}
	}
	return n
}
