package model

import "time"

// MergeStrategy 指定 profile 更新时各字段的合并方式。
type MergeStrategy string

const (
	// MergeStrategyMerge 深合并字典字段，标量字段按提供值覆盖。
	MergeStrategyMerge MergeStrategy = "merge"
	// MergeStrategyReplace 以提供的数据整体替换原有字段。
	MergeStrategyReplace MergeStrategy = "replace"
	// MergeStrategyAppend 在 merge 的基础上把标签列表做拼接。
	MergeStrategyAppend MergeStrategy = "append"
)

// Valid 判断给定的合并策略是否受支持。
func (s MergeStrategy) Valid() bool {
	switch s {
	case MergeStrategyMerge, MergeStrategyReplace, MergeStrategyAppend:
		return true
	}
	return false
}

// UserProfile 代表一个用户的档案，可被多次 upsert。
type UserProfile struct {
	ID               uint       `gorm:"primaryKey" json:"-"`
	UserID           string     `gorm:"uniqueIndex;size:255;not null" json:"user_id"`
	Name             string     `gorm:"size:255" json:"name,omitempty"`
	Phone            string     `gorm:"size:50" json:"phone,omitempty"`
	Email            string     `gorm:"size:255" json:"email,omitempty"`
	Preferences      JSONMap    `gorm:"type:json" json:"preferences"`
	InteractionStats JSONMap    `gorm:"type:json" json:"interaction_stats"`
	Tags             StringList `gorm:"type:json" json:"tags"`
	Notes            string     `gorm:"type:text" json:"notes,omitempty"`
	Status           string     `gorm:"size:50;default:active" json:"status"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
