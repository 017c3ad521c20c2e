package service

import (
	"froggocodes_backend/internal/repository"
	"math"
	"time"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	VideoRepo    *repository.VideoRepository
}

func NewProgressService(progressRepo *repository.ProgressRepository, videoRepo *repository.VideoRepository) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		VideoRepo:    videoRepo,
	}
}

type VideoProgress struct {
	VideoID     string    `json:"video_id"`
	Completed   bool      `json:"completed"`
	LastWatched time.Time `json:"last_watched"`
}

type CourseProgress struct {
	CompletedCount int             `json:"completedCount"`
	TotalCount     int             `json:"totalCount"`
	Percentage     int             `json:"percentage"`
	Videos         []VideoProgress `json:"videos"`
}

// RecordCompletion 同一视频重复上报"看完"是幂等空操作
// 同用户并发写同一条记录 last-write-wins，正常使用下一个人只会有一个播放会话
func (s *ProgressService) RecordCompletion(userID uint, videoID, courseID string, completed bool) error {
	return s.ProgressRepo.Upsert(userID, videoID, courseID, completed)
}

// CourseProgress 分母是课程视频总数，分子是 completed=true 的条目数
// 课程没有视频时百分比为 0，不做除法
func (s *ProgressService) CourseProgress(userID uint, courseID string) (*CourseProgress, error) {
	total, err := s.VideoRepo.CountByCourse(courseID)
	if err != nil {
		return nil, err
	}

	entries, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}

	completed := 0
	videos := make([]VideoProgress, 0, len(entries))
	for _, e := range entries {
		if e.Completed {
			completed++
		}
		videos = append(videos, VideoProgress{
			VideoID:     e.VideoID,
			Completed:   e.Completed,
			LastWatched: e.LastWatched,
		})
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}

	return &CourseProgress{
		CompletedCount: completed,
		TotalCount:     int(total),
		Percentage:     percentage,
		Videos:         videos,
	}, nil
}
