package service

import (
	"context"
	"errors"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/caioalcolea/talkhub-mcp-server/internal/repository"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/events"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"
	"gorm.io/gorm"
)

// profile 更新请求的校验错误。
var (
	ErrMissingProfileData = errors.New("profile_data is required")
	ErrInvalidStrategy    = errors.New("unsupported merge strategy")
)

// ProfileService 定义了用户档案的业务操作。
type ProfileService interface {
	// UpdateProfile 按给定策略 upsert 用户档案并使其上下文缓存失效。
	// strategy 为空时默认 merge。
	UpdateProfile(ctx context.Context, userID string, data map[string]interface{}, strategy model.MergeStrategy) (*model.UserProfile, error)
}

// profileService 是 ProfileService 接口的实现。
type profileService struct {
	profileRepo    repository.ProfileRepository
	contextService ContextService
	publishers     []events.Publisher
}

// NewProfileService 创建一个新的 ProfileService 实例。
func NewProfileService(
	profileRepo repository.ProfileRepository,
	contextService ContextService,
	publishers ...events.Publisher,
) ProfileService {
	return &profileService{
		profileRepo:    profileRepo,
		contextService: contextService,
		publishers:     publishers,
	}
}

// UpdateProfile 读取现有档案、应用合并策略后写回。
// 同一用户的并发更新不在此串行化，以存储层的 upsert 语义为准。
func (s *profileService) UpdateProfile(ctx context.Context, userID string, data map[string]interface{}, strategy model.MergeStrategy) (*model.UserProfile, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if len(data) == 0 {
		return nil, ErrMissingProfileData
	}
	if strategy == "" {
		strategy = model.MergeStrategyMerge
	}
	if !strategy.Valid() {
		return nil, ErrInvalidStrategy
	}

	existing, err := s.profileRepo.FindByUserID(userID)
	isNew := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		existing = &model.UserProfile{UserID: userID, Status: "active"}
		isNew = true
	}

	applyProfileData(existing, data, strategy)

	if isNew {
		err = s.profileRepo.Create(existing)
	} else {
		err = s.profileRepo.Save(existing)
	}
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.publishers, events.AnalyticsEvent{
		EventType: events.TypeProfileUpdated,
		UserID:    userID,
		Data:      map[string]interface{}{"strategy": string(strategy)},
		Timestamp: time.Now().UTC(),
	})

	// 写后失效：保证紧随其后的上下文读取能看到新档案
	s.contextService.Invalidate(ctx, userID)

	log.Infow("user profile updated", "userId", userID, "strategy", string(strategy))
	return existing, nil
}

// applyProfileData 把请求数据按策略写入档案。
// replace 整体覆盖字典和标签字段；merge 深合并字典、覆盖标量；
// append 在 merge 的基础上把标签列表拼接到已有列表之后。
func applyProfileData(profile *model.UserProfile, data map[string]interface{}, strategy model.MergeStrategy) {
	if v, ok := data["name"].(string); ok {
		profile.Name = v
	}
	if v, ok := data["phone"].(string); ok {
		profile.Phone = v
	}
	if v, ok := data["email"].(string); ok {
		profile.Email = v
	}
	if v, ok := data["notes"].(string); ok {
		profile.Notes = v
	}
	if v, ok := data["status"].(string); ok && v != "" {
		profile.Status = v
	}

	if raw, ok := data["preferences"]; ok {
		profile.Preferences = mergeMapField(profile.Preferences, raw, strategy)
	}
	if raw, ok := data["interaction_stats"]; ok {
		profile.InteractionStats = mergeMapField(profile.InteractionStats, raw, strategy)
	}
	if raw, ok := data["tags"]; ok {
		incoming := toStringSlice(raw)
		if strategy == model.MergeStrategyAppend {
			profile.Tags = append(profile.Tags, incoming...)
		} else {
			profile.Tags = incoming
		}
	}
}

// mergeMapField 根据策略处理一个字典字段。
func mergeMapField(existing model.JSONMap, raw interface{}, strategy model.MergeStrategy) model.JSONMap {
	incoming, ok := raw.(map[string]interface{})
	if !ok {
		return existing
	}
	if strategy == model.MergeStrategyReplace {
		return model.JSONMap(incoming)
	}
	return deepMerge(existing, incoming)
}

// deepMerge 递归合并两个字典，嵌套字典逐层合并，其余值后写胜出。
func deepMerge(dst model.JSONMap, src map[string]interface{}) model.JSONMap {
	if dst == nil {
		dst = make(model.JSONMap, len(src))
	}
	for k, v := range src {
		if srcMap, ok := v.(map[string]interface{}); ok {
			if dstMap, ok := dst[k].(map[string]interface{}); ok {
				dst[k] = map[string]interface{}(deepMerge(model.JSONMap(dstMap), srcMap))
				continue
			}
		}
		dst[k] = v
	}
	return dst
}

// toStringSlice 把 JSON 解码产生的数组转换为字符串切片。
func toStringSlice(raw interface{}) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
