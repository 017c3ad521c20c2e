package service

import (
	"fmt"
	"froggocodes_backend/internal/model"
	"froggocodes_backend/internal/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newProgressService(t *testing.T, db *gorm.DB) *ProgressService {
	t.Helper()
	return NewProgressService(
		repository.NewProgressRepository(db),
		repository.NewVideoRepository(db),
	)
}

func seedVideos(t *testing.T, db *gorm.DB, courseID string, n int) []model.Video {
	t.Helper()
	videos := make([]model.Video, 0, n)
	for i := 0; i < n; i++ {
		v := model.Video{
			CourseID:   courseID,
			Title:      fmt.Sprintf("Lesson %d", i+1),
			VimeoID:    fmt.Sprintf("vimeo-%d", i+1),
			OrderIndex: i,
		}
		assert.NoError(t, db.Create(&v).Error)
		videos = append(videos, v)
	}
	return videos
}

func TestCourseProgressEmptyCourse(t *testing.T) {
	db := newTestDB(t)
	s := newProgressService(t, db)

	// 没有视频的课程百分比为 0，不做除法
	progress, err := s.CourseProgress(1, "empty-course")
	assert.NoError(t, err)
	assert.Equal(t, 0, progress.TotalCount)
	assert.Equal(t, 0, progress.CompletedCount)
	assert.Equal(t, 0, progress.Percentage)
	assert.Empty(t, progress.Videos)
}

func TestCourseProgressHalfway(t *testing.T) {
	db := newTestDB(t)
	s := newProgressService(t, db)

	videos := seedVideos(t, db, "zero-to-hero", 4)
	assert.NoError(t, s.RecordCompletion(1, videos[0].ID, "zero-to-hero", true))
	assert.NoError(t, s.RecordCompletion(1, videos[1].ID, "zero-to-hero", true))

	progress, err := s.CourseProgress(1, "zero-to-hero")
	assert.NoError(t, err)
	assert.Equal(t, 4, progress.TotalCount)
	assert.Equal(t, 2, progress.CompletedCount)
	assert.Equal(t, 50, progress.Percentage)
	assert.Len(t, progress.Videos, 2)
}

func TestCourseProgressRounding(t *testing.T) {
	db := newTestDB(t)
	s := newProgressService(t, db)

	videos := seedVideos(t, db, "zero-to-hero", 3)
	assert.NoError(t, s.RecordCompletion(1, videos[0].ID, "zero-to-hero", true))

	// 1/3 → 33，2/3 → 67（四舍五入）
	progress, err := s.CourseProgress(1, "zero-to-hero")
	assert.NoError(t, err)
	assert.Equal(t, 33, progress.Percentage)

	assert.NoError(t, s.RecordCompletion(1, videos[1].ID, "zero-to-hero", true))
	progress, err = s.CourseProgress(1, "zero-to-hero")
	assert.NoError(t, err)
	assert.Equal(t, 67, progress.Percentage)
}

// 重复上报"看完"是幂等操作
func TestRecordCompletionIdempotent(t *testing.T) {
	db := newTestDB(t)
	s := newProgressService(t, db)

	videos := seedVideos(t, db, "zero-to-hero", 2)
	for i := 0; i < 3; i++ {
		assert.NoError(t, s.RecordCompletion(1, videos[0].ID, "zero-to-hero", true))
	}

	var count int64
	db.Model(&model.UserProgress{}).Where("user_id = ?", 1).Count(&count)
	assert.Equal(t, int64(1), count)

	progress, err := s.CourseProgress(1, "zero-to-hero")
	assert.NoError(t, err)
	assert.Equal(t, 1, progress.CompletedCount)
	assert.Equal(t, 50, progress.Percentage)
}

func TestRecordCompletionCanUnmark(t *testing.T) {
	db := newTestDB(t)
	s := newProgressService(t, db)

	videos := seedVideos(t, db, "zero-to-hero", 2)
	assert.NoError(t, s.RecordCompletion(1, videos[0].ID, "zero-to-hero", true))
	assert.NoError(t, s.RecordCompletion(1, videos[0].ID, "zero-to-hero", false))

	progress, err := s.CourseProgress(1, "zero-to-hero")
	assert.NoError(t, err)
	assert.Equal(t, 0, progress.CompletedCount)
	// 记录仍在列表里，完成位为假
	assert.Len(t, progress.Videos, 1)
	assert.False(t, progress.Videos[0].Completed)
}

func TestCourseProgressIsolatedPerUser(t *testing.T) {
	db := newTestDB(t)
	s := newProgressService(t, db)

	videos := seedVideos(t, db, "zero-to-hero", 2)
	assert.NoError(t, s.RecordCompletion(1, videos[0].ID, "zero-to-hero", true))

	progress, err := s.CourseProgress(2, "zero-to-hero")
	assert.NoError(t, err)
	assert.Equal(t, 0, progress.CompletedCount)
}
