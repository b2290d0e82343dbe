package repository

import (
	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"gorm.io/gorm"
)

// ProfileRepository 接口定义了用户档案的持久化操作。
// 并发的读改写之间不做串行化，以数据库的 upsert 语义为准（后写胜出）。
type ProfileRepository interface {
	FindByUserID(userID string) (*model.UserProfile, error)
	Create(profile *model.UserProfile) error
	Save(profile *model.UserProfile) error
}

// profileRepository 是 ProfileRepository 接口的 GORM 实现。
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建一个新的 ProfileRepository 实例。
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindByUserID 根据 user_id 查找用户档案。
func (r *profileRepository) FindByUserID(userID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Create 创建一条新的用户档案记录。
func (r *profileRepository) Create(profile *model.UserProfile) error {
	return r.db.Create(profile).Error
}

// Save 保存一条已存在的用户档案记录。
func (r *profileRepository) Save(profile *model.UserProfile) error {
	return r.db.Save(profile).Error
}
