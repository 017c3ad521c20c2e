package repository

import (
	"froggocodes_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert (user, video) 为键，重复的"看完"事件是幂等空操作
func (r *ProgressRepository) Upsert(userID uint, videoID, courseID string, completed bool) error {
	var progress model.UserProgress
	err := r.DB.Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&progress).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	if err == gorm.ErrRecordNotFound {
		progress = model.UserProgress{
			UserID:  userID,
			VideoID: videoID,
		}
	}

	progress.CourseID = courseID
	progress.Completed = completed
	progress.LastWatched = time.Now()

	return r.DB.Save(&progress).Error
}

func (r *ProgressRepository) FindByUserAndCourse(userID uint, courseID string) ([]model.UserProgress, error) {
	var entries []model.UserProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&entries).Error
	return entries, err
}

func (r *ProgressRepository) CountCompleted(userID uint, courseID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = ?", userID, courseID, true).
		Count(&count).Error
	return count, err
}
