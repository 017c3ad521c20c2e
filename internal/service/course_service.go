package service

import (
	"encoding/json"
	"errors"
	"froggocodes_backend/internal/model"
	"froggocodes_backend/internal/repository"
	"froggocodes_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	VideoRepo      *repository.VideoRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Pricing        *PricingService
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	videoRepo *repository.VideoRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	pricing *PricingService,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		VideoRepo:      videoRepo,
		EnrollmentRepo: enrollmentRepo,
		Pricing:        pricing,
	}
}

type CourseDetail struct {
	model.Course
	Videos []model.Video `json:"videos"`
}

type CourseWithPricing struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Pricing PricingData `json:"pricing"`
}

type EnrolledCourse struct {
	model.UserCourse
	Course *model.Course `json:"courses,omitempty"`
}

func (s *CourseService) ListCourses(highlightOnly bool) ([]model.Course, error) {
	if highlightOnly {
		return s.CourseRepo.FindHighlighted()
	}
	return s.CourseRepo.FindAll()
}

func (s *CourseService) CourseDetail(courseID string) (*CourseDetail, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	videos, err := s.VideoRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}

	return &CourseDetail{Course: *course, Videos: videos}, nil
}

// CourseWithPricing 课程查不到也要返回兜底定价，结账入口不能 404
func (s *CourseService) CourseWithPricing(courseID string, isIndia bool) *CourseWithPricing {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return &CourseWithPricing{
			ID:      courseID,
			Title:   "Zero To Hero Bootcamp",
			Pricing: s.Pricing.Resolve(nil, isIndia),
		}
	}

	return &CourseWithPricing{
		ID:      courseID,
		Title:   course.Title,
		Pricing: s.Pricing.Resolve(course, isIndia),
	}
}

// Features 查不到或出错都回默认卖点，老课程没有 features 行也能渲染
func (s *CourseService) Features(courseID string) *model.CourseFeatures {
	features, err := s.CourseRepo.FindFeatures(courseID)
	if err != nil {
		return ApplyFeatureDefaults(courseID, nil)
	}
	return ApplyFeatureDefaults(courseID, features)
}

// ApplyFeatureDefaults 缺省值只在这里填，调用方不得自带默认值
func ApplyFeatureDefaults(courseID string, f *model.CourseFeatures) *model.CourseFeatures {
	if f == nil {
		f = &model.CourseFeatures{CourseID: courseID}
	}
	if f.VideoCount == "" {
		f.VideoCount = "30+"
	}
	if f.ProjectCount == "" {
		f.ProjectCount = "10+"
	}
	if f.Description == "" {
		f.Description = "Want to find a job? Or Build a startup?"
	}
	if len(f.Features) == 0 {
		defaults, _ := json.Marshal([]string{
			"Go from Zero to Advanced",
			"Build Real-World Projects",
			"Learn Job-Ready Skills & Interview Prep",
			"Get Lifetime Access to Updates",
			"Get a Certificate of Completion",
		})
		f.Features = defaults
	}
	return f
}

// MyCourses 报名列表带出课程详情，课程已下架的条目跳过详情但保留记录
func (s *CourseService) MyCourses(userID uint) ([]EnrolledCourse, error) {
	enrollments, err := s.EnrollmentRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	result := make([]EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		item := EnrolledCourse{UserCourse: e}
		if course, err := s.CourseRepo.FindByID(e.CourseID); err == nil {
			item.Course = course
		}
		result = append(result, item)
	}
	return result, nil
}

// TouchLastAccessed 每次访问课程页刷新 last_accessed
// 这里可能创建无支付记录的报名行，但访问校验是双闸门，不会因此放行
func (s *CourseService) TouchLastAccessed(userID uint, courseID string) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	return s.EnrollmentRepo.Upsert(nil, userID, courseID, course.Title, course.Thumbnail)
}
