package repository

import (
	"froggocodes_backend/internal/model"

	"gorm.io/gorm"
)

type AccessLogRepository struct {
	DB *gorm.DB
}

func NewAccessLogRepository(db *gorm.DB) *AccessLogRepository {
	return &AccessLogRepository{DB: db}
}

func (r *AccessLogRepository) Create(entry *model.VideoAccessLog) error {
	return r.DB.Create(entry).Error
}

func (r *AccessLogRepository) FindByUser(userID uint, limit int) ([]model.VideoAccessLog, error) {
	var logs []model.VideoAccessLog
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
