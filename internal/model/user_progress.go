package model

import "time"

// UserProgress 单视频观看状态，(user_id, video_id) 唯一，last-write-wins
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID      uint      `gorm:"not null;index:idx_user_video,unique" json:"user_id"`
	VideoID     string    `gorm:"type:varchar(36);not null;index:idx_user_video,unique" json:"video_id"`
	CourseID    string    `gorm:"size:50;not null;index" json:"course_id"`
	Completed   bool      `gorm:"default:false" json:"completed"`
	LastWatched time.Time `json:"last_watched"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
