package database

import (
	"encoding/json"
	"fmt"
	"froggocodes_backend/internal/config"
	"froggocodes_backend/internal/model"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedCatalog(db)

	return db, nil
}

// Migrate 测试里也会对 sqlite 内存库调用，保持与生产一致的表结构
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.CourseFeatures{},
		&model.Video{},
		&model.Payment{},
		&model.UserCourse{},
		&model.UserProgress{},
		&model.VideoAccessLog{},
	)
}

// 空库时写入默认课程目录，课程卖点缺省值由 service 层统一填充
func seedCatalog(db *gorm.DB) {
	var count int64
	db.Model(&model.Course{}).Count(&count)
	if count > 0 {
		return
	}

	defaultCourses := []model.Course{
		{
			SlugBase:    model.SlugBase{ID: "zero-to-hero"},
			Title:       "Zero To Hero Bootcamp",
			Description: "Want to find a job? Or Build a startup?",
			PriceIndia:  9999,
			PriceInt:    499,
			Discount:    50,
			Highlight:   true,
		},
		{
			SlugBase:    model.SlugBase{ID: "ai-saas"},
			Title:       "AI SaaS Bootcamp",
			Description: "Ready to build the next big AI startup?",
			PriceIndia:  9999,
			PriceInt:    499,
			Discount:    50,
		},
	}
	for _, c := range defaultCourses {
		db.Create(&c)
	}

	features, _ := json.Marshal([]string{
		"Go from Zero to Advanced",
		"Build Real-World Projects",
		"Learn Job-Ready Skills & Interview Prep",
		"Get Lifetime Access to Updates",
		"Get a Certificate of Completion",
	})
	db.Create(&model.CourseFeatures{
		CourseID:     "zero-to-hero",
		VideoCount:   "30+",
		ProjectCount: "10+",
		Description:  "Want to find a job? Or Build a startup?",
		Features:     features,
	})
}
