package repository

import (
	"froggocodes_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// Upsert merge 语义，可重复调用；每次都会刷新 last_accessed
// tx 传 nil 时用仓库自身连接
func (r *EnrollmentRepository) Upsert(tx *gorm.DB, userID uint, courseID, title, thumbnail string) error {
	if tx == nil {
		tx = r.DB
	}

	now := time.Now()
	var enrollment model.UserCourse
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	if err == gorm.ErrRecordNotFound {
		enrollment = model.UserCourse{
			UserID:      userID,
			CourseID:    courseID,
			Status:      "active",
			PurchasedAt: now,
		}
	}

	if title != "" {
		enrollment.Title = title
	}
	if thumbnail != "" {
		enrollment.Thumbnail = thumbnail
	}
	enrollment.LastAccessed = now

	return tx.Save(&enrollment).Error
}

func (r *EnrollmentRepository) Exists(userID uint, courseID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UserCourse{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *EnrollmentRepository) FindByUser(userID uint) ([]model.UserCourse, error) {
	var enrollments []model.UserCourse
	err := r.DB.Where("user_id = ?", userID).
		Order("last_accessed DESC").Find(&enrollments).Error
	return enrollments, err
}
