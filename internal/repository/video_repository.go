package repository

import (
	"froggocodes_backend/internal/model"

	"gorm.io/gorm"
)

type VideoRepository struct {
	DB *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{DB: db}
}

func (r *VideoRepository) FindByID(videoID string) (*model.Video, error) {
	var video model.Video
	err := r.DB.Where("id = ?", videoID).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepository) FindByCourse(courseID string) ([]model.Video, error) {
	var videos []model.Video
	err := r.DB.Where("course_id = ?", courseID).
		Order("order_index").Find(&videos).Error
	return videos, err
}

func (r *VideoRepository) CountByCourse(courseID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Video{}).
		Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *VideoRepository) Create(video *model.Video) error {
	return r.DB.Create(video).Error
}

func (r *VideoRepository) Update(video *model.Video) error {
	return r.DB.Save(video).Error
}

func (r *VideoRepository) Delete(videoID string) error {
	return r.DB.Where("id = ?", videoID).Delete(&model.Video{}).Error
}
