package model

import "time"

// VideoAccessLog 每次签发播放令牌的审计记录
// swagger:model VideoAccessLog
type VideoAccessLog struct {
	BaseModel
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	VideoID   string    `gorm:"type:varchar(36);not null" json:"video_id"`
	CourseID  string    `gorm:"size:50;not null" json:"course_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (VideoAccessLog) TableName() string {
	return "video_access_logs"
}
