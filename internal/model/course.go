package model

import "encoding/json"

// Course 课程目录条目，主键为课程 slug（如 "zero-to-hero"）
// 价格按地区分档，存整数货币单位；折扣为百分比
// swagger:model Course
type Course struct {
	SlugBase
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	PriceIndia  int64  `gorm:"default:0" json:"price_india"` // 印度区定价（整卢比）
	PriceInt    int64  `gorm:"default:0" json:"price_int"`   // 国际区定价（整美元）
	Discount    int    `gorm:"default:0" json:"discount"`    // 折扣百分比 0-100
	Highlight   bool   `gorm:"default:false;index" json:"highlight"`
	Thumbnail   string `gorm:"size:255" json:"thumbnail"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseFeatures 课程卖点展示数据，缺省值统一由 ApplyFeatureDefaults 填充
// swagger:model CourseFeatures
type CourseFeatures struct {
	CourseID     string          `gorm:"primaryKey;size:50" json:"course_id"`
	VideoCount   string          `gorm:"size:20" json:"videoCount"`
	ProjectCount string          `gorm:"size:20" json:"projectCount"`
	Description  string          `gorm:"size:500" json:"description"`
	Features     json.RawMessage `gorm:"type:json" json:"features"` // JSON: []string
}

func (CourseFeatures) TableName() string {
	return "course_features"
}
