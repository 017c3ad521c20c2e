package repository

import (
	"froggocodes_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) FindByID(courseID string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("id = ?", courseID).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindAll() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("created_at").Find(&courses).Error
	return courses, err
}

// FindHighlighted 没有任何高亮课程时回落到全量列表，首页永远有内容可渲染
func (r *CourseRepository) FindHighlighted() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("highlight = ?", true).Order("created_at").Find(&courses).Error
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return r.FindAll()
	}
	return courses, nil
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(courseID string) error {
	return r.DB.Where("id = ?", courseID).Delete(&model.Course{}).Error
}

func (r *CourseRepository) FindFeatures(courseID string) (*model.CourseFeatures, error) {
	var features model.CourseFeatures
	err := r.DB.Where("course_id = ?", courseID).First(&features).Error
	if err != nil {
		return nil, err
	}
	return &features, nil
}

func (r *CourseRepository) SaveFeatures(features *model.CourseFeatures) error {
	return r.DB.Save(features).Error
}
