package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/analysis"
	"github.com/caioalcolea/talkhub-mcp-server/internal/config"
	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/caioalcolea/talkhub-mcp-server/internal/repository"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/es"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/storage"

	"github.com/google/uuid"
)

// 可选协作方未配置时的错误。
var (
	ErrStorageNotConfigured = errors.New("object storage not configured")
	ErrSearchNotConfigured  = errors.New("transcript search not configured")
)

// 导出报表下载链接的有效期。
const exportURLExpiry = 24 * time.Hour

// AnalyticsFilter 描述一次分析请求的过滤条件和指标选择。
type AnalyticsFilter struct {
	UserID  string
	Start   *time.Time
	End     *time.Time
	Metrics []string
}

// ExportResult 是一次报表导出的产物。
type ExportResult struct {
	ObjectName  string `json:"object_name"`
	DownloadURL string `json:"download_url"`
}

// AnalyticsService 定义了会话分析相关的业务操作。
type AnalyticsService interface {
	// GetAnalytics 对过滤后的会话集合计算聚合指标。
	GetAnalytics(ctx context.Context, filter AnalyticsFilter) (model.AnalyticsReport, error)
	// ExportReport 计算报表并上传到对象存储，返回限时下载链接。
	ExportReport(ctx context.Context, filter AnalyticsFilter) (*ExportResult, error)
	// SearchTranscripts 在检索索引上做全文搜索。
	SearchTranscripts(ctx context.Context, query string, limit int) ([]model.EsConversation, error)
}

// analyticsService 是 AnalyticsService 接口的实现。
type analyticsService struct {
	conversationRepo repository.ConversationRepository
	esCfg            config.ElasticsearchConfig
	minioCfg         config.MinIOConfig
}

// NewAnalyticsService 创建一个新的 AnalyticsService 实例。
func NewAnalyticsService(
	conversationRepo repository.ConversationRepository,
	esCfg config.ElasticsearchConfig,
	minioCfg config.MinIOConfig,
) AnalyticsService {
	return &analyticsService{
		conversationRepo: conversationRepo,
		esCfg:            esCfg,
		minioCfg:         minioCfg,
	}
}

// GetAnalytics 拉取过滤后的会话并在内存中做纯聚合。
// 空集合不报错，返回全零结果。
func (s *analyticsService) GetAnalytics(ctx context.Context, filter AnalyticsFilter) (model.AnalyticsReport, error) {
	conversations, err := s.conversationRepo.FindFiltered(repository.ConversationFilter{
		UserID: filter.UserID,
		Start:  filter.Start,
		End:    filter.End,
	})
	if err != nil {
		return model.AnalyticsReport{}, err
	}
	return analysis.Aggregate(conversations, filter.Metrics), nil
}

// ExportReport 序列化报表并写入对象存储。
func (s *analyticsService) ExportReport(ctx context.Context, filter AnalyticsFilter) (*ExportResult, error) {
	if storage.MinioClient == nil {
		return nil, ErrStorageNotConfigured
	}

	report, err := s.GetAnalytics(ctx, filter)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	objectName := fmt.Sprintf("analytics/report_%s.json", uuid.NewString())
	if err := storage.UploadJSON(ctx, s.minioCfg.BucketName, objectName, data); err != nil {
		return nil, fmt.Errorf("failed to upload report: %w", err)
	}

	url, err := storage.GetPresignedURL(ctx, s.minioCfg.BucketName, objectName, exportURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign report url: %w", err)
	}

	return &ExportResult{ObjectName: objectName, DownloadURL: url}, nil
}

// SearchTranscripts 在会话索引上执行全文查询。
func (s *analyticsService) SearchTranscripts(ctx context.Context, query string, limit int) ([]model.EsConversation, error) {
	if es.ESClient == nil {
		return nil, ErrSearchNotConfigured
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return es.SearchConversations(ctx, s.esCfg.IndexName, query, limit)
}
