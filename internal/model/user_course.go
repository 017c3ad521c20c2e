package model

import "time"

// UserCourse 报名记录，(user_id, course_id) 唯一
// 仅有报名记录不代表可观看：访问校验还要求对应支付记录为 completed
// swagger:model UserCourse
type UserCourse struct {
	BaseModel
	UserID       uint      `gorm:"not null;index:idx_user_course,unique" json:"user_id"`
	CourseID     string    `gorm:"size:50;not null;index:idx_user_course,unique" json:"course_id"`
	Title        string    `gorm:"size:200" json:"title"`     // 展示用冗余字段
	Thumbnail    string    `gorm:"size:255" json:"thumbnail"` // 展示用冗余字段
	Status       string    `gorm:"size:20;default:'active'" json:"status"`
	PurchasedAt  time.Time `json:"purchased_at"`
	LastAccessed time.Time `json:"last_accessed"`
}

func (UserCourse) TableName() string {
	return "user_courses"
}
