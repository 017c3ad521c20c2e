package service

import (
	"froggocodes_backend/internal/config"
	"froggocodes_backend/internal/model"
	"froggocodes_backend/internal/repository"
	"froggocodes_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newAccessService(t *testing.T, db *gorm.DB, secret string) *AccessService {
	t.Helper()
	return NewAccessService(
		repository.NewEnrollmentRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewVideoRepository(db),
		repository.NewAccessLogRepository(db),
		&config.VideoConfig{TokenSecret: secret, TokenTTLHours: time.Hour},
	)
}

func seedEnrollment(t *testing.T, db *gorm.DB, userID uint, courseID string) {
	t.Helper()
	err := repository.NewEnrollmentRepository(db).Upsert(nil, userID, courseID, "", "")
	assert.NoError(t, err)
}

func seedCompletedPayment(t *testing.T, db *gorm.DB, userID uint, courseID string) {
	t.Helper()
	now := time.Now()
	err := db.Create(&model.Payment{
		UserID:    userID,
		CourseID:  courseID,
		Amount:    4999,
		Currency:  "INR",
		Status:    model.PaymentCompleted,
		OrderID:   "order_" + courseID,
		PaymentID: "pay_" + courseID,
		PaidAt:    &now,
	}).Error
	assert.NoError(t, err)
}

// 报名 × 支付完成 的四种组合，只有双是才放行
func TestVerifyAccessTruthTable(t *testing.T) {
	db := newTestDB(t)
	s := newAccessService(t, db, "token-secret")

	// 都没有
	assert.False(t, s.VerifyAccess(1, "zero-to-hero"))

	// 只有报名
	seedEnrollment(t, db, 2, "zero-to-hero")
	assert.False(t, s.VerifyAccess(2, "zero-to-hero"))

	// 只有支付完成
	seedCompletedPayment(t, db, 3, "zero-to-hero")
	assert.False(t, s.VerifyAccess(3, "zero-to-hero"))

	// 两者都有
	seedEnrollment(t, db, 4, "zero-to-hero")
	seedCompletedPayment(t, db, 4, "zero-to-hero")
	assert.True(t, s.VerifyAccess(4, "zero-to-hero"))
}

func TestVerifyAccessPendingPaymentDenied(t *testing.T) {
	db := newTestDB(t)
	s := newAccessService(t, db, "token-secret")

	seedEnrollment(t, db, 1, "zero-to-hero")
	db.Create(&model.Payment{
		UserID:   1,
		CourseID: "zero-to-hero",
		Amount:   4999,
		Status:   model.PaymentPending,
	})

	assert.False(t, s.VerifyAccess(1, "zero-to-hero"))
}

func TestIssueVideoTokenHappyPath(t *testing.T) {
	db := newTestDB(t)
	s := newAccessService(t, db, "token-secret")

	seedEnrollment(t, db, 1, "zero-to-hero")
	seedCompletedPayment(t, db, 1, "zero-to-hero")

	video := &model.Video{CourseID: "zero-to-hero", Title: "Intro", VimeoID: "123456789"}
	assert.NoError(t, db.Create(video).Error)

	start := 30
	opts := EmbedOptions{Autoplay: true, StartSeconds: &start}
	token, err := s.IssueVideoToken(1, video.ID, "zero-to-hero", opts)
	assert.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.Greater(t, token.Expires, time.Now().Unix())

	// 令牌可自验，载荷里是 vimeo id 而非库内视频 id
	payload, err := s.ParseVideoToken(token.Token)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), payload.Sub)
	assert.Equal(t, "123456789", payload.Video)
	assert.Equal(t, "zero-to-hero", payload.Course)
	assert.True(t, payload.Embed.Autoplay)
	assert.NotNil(t, payload.Embed.StartSeconds)
	assert.Equal(t, 30, *payload.Embed.StartSeconds)

	// 审计日志落表
	var logs []model.VideoAccessLog
	assert.NoError(t, db.Find(&logs).Error)
	assert.Len(t, logs, 1)
	assert.Equal(t, video.ID, logs[0].VideoID)
}

func TestIssueVideoTokenNoAccess(t *testing.T) {
	db := newTestDB(t)
	s := newAccessService(t, db, "token-secret")

	video := &model.Video{CourseID: "zero-to-hero", Title: "Intro", VimeoID: "123"}
	assert.NoError(t, db.Create(video).Error)

	_, err := s.IssueVideoToken(1, video.ID, "zero-to-hero", EmbedOptions{})
	assert.ErrorIs(t, err, util.ErrNoAccess)
}

func TestIssueVideoTokenMissingSecret(t *testing.T) {
	db := newTestDB(t)
	s := newAccessService(t, db, "")

	// 配置缺失必须在任何查询之前失败
	_, err := s.IssueVideoToken(1, "whatever", "zero-to-hero", EmbedOptions{})
	assert.ErrorIs(t, err, util.ErrServerConfig)
}

func TestIssueVideoTokenVideoNotFound(t *testing.T) {
	db := newTestDB(t)
	s := newAccessService(t, db, "token-secret")

	seedEnrollment(t, db, 1, "zero-to-hero")
	seedCompletedPayment(t, db, 1, "zero-to-hero")

	_, err := s.IssueVideoToken(1, "missing-video", "zero-to-hero", EmbedOptions{})
	assert.ErrorIs(t, err, util.ErrVideoNotFound)
}

func TestIssueVideoTokenNotPlayable(t *testing.T) {
	db := newTestDB(t)
	s := newAccessService(t, db, "token-secret")

	seedEnrollment(t, db, 1, "zero-to-hero")
	seedCompletedPayment(t, db, 1, "zero-to-hero")

	video := &model.Video{CourseID: "zero-to-hero", Title: "Draft"}
	assert.NoError(t, db.Create(video).Error)

	_, err := s.IssueVideoToken(1, video.ID, "zero-to-hero", EmbedOptions{})
	assert.ErrorIs(t, err, util.ErrVideoNotPlayable)
}

// 存储层出错时必须按无权处理，而不是 panic 或放行
func TestVerifyAccessStorageErrorDenies(t *testing.T) {
	db := newTestDB(t)
	s := newAccessService(t, db, "token-secret")

	seedEnrollment(t, db, 1, "zero-to-hero")
	seedCompletedPayment(t, db, 1, "zero-to-hero")
	assert.True(t, s.VerifyAccess(1, "zero-to-hero"))

	// 支付表查询失败
	assert.NoError(t, db.Migrator().DropTable(&model.Payment{}))
	assert.NotPanics(t, func() {
		assert.False(t, s.VerifyAccess(1, "zero-to-hero"))
	})

	// 报名表查询也失败
	assert.NoError(t, db.Migrator().DropTable(&model.UserCourse{}))
	assert.NotPanics(t, func() {
		assert.False(t, s.VerifyAccess(1, "zero-to-hero"))
	})
}

// 轮换签名密钥后，旧密钥签出的令牌立即失效
func TestUpdateTokenConfigInvalidatesOldTokens(t *testing.T) {
	db := newTestDB(t)
	s := newAccessService(t, db, "old-secret")

	seedEnrollment(t, db, 1, "zero-to-hero")
	seedCompletedPayment(t, db, 1, "zero-to-hero")

	video := &model.Video{CourseID: "zero-to-hero", Title: "Intro", VimeoID: "123"}
	assert.NoError(t, db.Create(video).Error)

	old, err := s.IssueVideoToken(1, video.ID, "zero-to-hero", EmbedOptions{})
	assert.NoError(t, err)
	_, err = s.ParseVideoToken(old.Token)
	assert.NoError(t, err)

	s.UpdateTokenConfig(&config.VideoConfig{TokenSecret: "new-secret", TokenTTLHours: time.Hour})

	_, err = s.ParseVideoToken(old.Token)
	assert.ErrorIs(t, err, util.ErrInvalidSignature)

	// 新密钥签发照常
	fresh, err := s.IssueVideoToken(1, video.ID, "zero-to-hero", EmbedOptions{})
	assert.NoError(t, err)
	_, err = s.ParseVideoToken(fresh.Token)
	assert.NoError(t, err)
}

func TestParseVideoTokenRejectsTampering(t *testing.T) {
	db := newTestDB(t)
	s := newAccessService(t, db, "token-secret")

	seedEnrollment(t, db, 1, "zero-to-hero")
	seedCompletedPayment(t, db, 1, "zero-to-hero")

	video := &model.Video{CourseID: "zero-to-hero", Title: "Intro", VimeoID: "123"}
	assert.NoError(t, db.Create(video).Error)

	token, err := s.IssueVideoToken(1, video.ID, "zero-to-hero", EmbedOptions{})
	assert.NoError(t, err)

	// 篡改签名尾部
	tampered := token.Token[:len(token.Token)-1] + "0"
	if tampered == token.Token {
		tampered = token.Token[:len(token.Token)-1] + "1"
	}
	_, err = s.ParseVideoToken(tampered)
	assert.ErrorIs(t, err, util.ErrInvalidSignature)

	// 缺分隔符
	_, err = s.ParseVideoToken("not-a-token")
	assert.ErrorIs(t, err, util.ErrInvalidSignature)
}
