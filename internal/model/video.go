package model

// Video 课程视频元数据，视频文件托管在 Vimeo，这里只存不透明的 vimeo_id
// swagger:model Video
type Video struct {
	UUIDBase
	CourseID   string `gorm:"size:50;not null;index" json:"course_id"`
	Title      string `gorm:"size:200;not null" json:"title"`
	Duration   int    `gorm:"default:0" json:"duration"` // 秒
	VimeoID    string `gorm:"size:50" json:"vimeo_id"`
	OrderIndex int    `gorm:"default:0" json:"order_index"`
}

func (Video) TableName() string {
	return "videos"
}
