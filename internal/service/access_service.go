package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"froggocodes_backend/internal/config"
	"froggocodes_backend/internal/model"
	"froggocodes_backend/internal/repository"
	"froggocodes_backend/internal/util"
	"froggocodes_backend/pkg/logger"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmbedOptions 播放器嵌入选项，显式字段枚举而不是任意 map
type EmbedOptions struct {
	Autoplay     bool `json:"autoplay"`
	Muted        bool `json:"muted"`
	Preload      bool `json:"preload"`
	StartSeconds *int `json:"startSeconds,omitempty"`
}

// VideoTokenPayload 播放令牌载荷，video 字段放的是 vimeo id 而非库内视频 id
type VideoTokenPayload struct {
	Sub    uint         `json:"sub"`
	Video  string       `json:"video"`
	Course string       `json:"course"`
	Iat    int64        `json:"iat"`
	Exp    int64        `json:"exp"`
	Embed  EmbedOptions `json:"embed"`
}

type VideoToken struct {
	Token   string `json:"token"`
	Expires int64  `json:"expires"`
}

// AccessService 访问裁决：报名记录与已完成支付双闸门
// 令牌签名配置支持热轮换（UpdateTokenConfig）
type AccessService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	PaymentRepo    *repository.PaymentRepository
	VideoRepo      *repository.VideoRepository
	AccessLogRepo  *repository.AccessLogRepository

	mu  sync.RWMutex
	cfg *config.VideoConfig
}

func NewAccessService(
	enrollmentRepo *repository.EnrollmentRepository,
	paymentRepo *repository.PaymentRepository,
	videoRepo *repository.VideoRepository,
	accessLogRepo *repository.AccessLogRepository,
	cfg *config.VideoConfig,
) *AccessService {
	return &AccessService{
		EnrollmentRepo: enrollmentRepo,
		PaymentRepo:    paymentRepo,
		VideoRepo:      videoRepo,
		AccessLogRepo:  accessLogRepo,
		cfg:            cfg,
	}
}

// UpdateTokenConfig 配置热重载时换入新的签名密钥与有效期
func (s *AccessService) UpdateTokenConfig(cfg *config.VideoConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

func (s *AccessService) tokenConfig() *config.VideoConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// VerifyAccess 两个条件都满足才放行（AND），任何存储错误都按无权处理
// 最坏情况是已付费用户暂时看不了片找客服，绝不会反过来
func (s *AccessService) VerifyAccess(userID uint, courseID string) bool {
	enrolled, err := s.EnrollmentRepo.Exists(userID, courseID)
	if err != nil {
		logger.Log.Error("enrollment check failed, denying access",
			zap.Uint("user_id", userID),
			zap.String("course_id", courseID),
			zap.Error(err))
		return false
	}
	if !enrolled {
		return false
	}

	completed, err := s.PaymentRepo.IsCompleted(userID, courseID)
	if err != nil {
		logger.Log.Error("payment check failed, denying access",
			zap.Uint("user_id", userID),
			zap.String("course_id", courseID),
			zap.Error(err))
		return false
	}

	return completed
}

// IssueVideoToken 签发一小时有效的播放令牌并写审计日志
func (s *AccessService) IssueVideoToken(userID uint, videoID, courseID string, opts EmbedOptions) (*VideoToken, error) {
	cfg := s.tokenConfig()
	if cfg.TokenSecret == "" {
		return nil, util.ErrServerConfig
	}

	if !s.VerifyAccess(userID, courseID) {
		return nil, util.ErrNoAccess
	}

	video, err := s.VideoRepo.FindByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrVideoNotFound
		}
		return nil, err
	}
	if video.VimeoID == "" {
		return nil, util.ErrVideoNotPlayable
	}

	now := time.Now()
	expires := now.Add(cfg.TokenTTLHours)

	payload := VideoTokenPayload{
		Sub:    userID,
		Video:  video.VimeoID,
		Course: courseID,
		Iat:    now.Unix(),
		Exp:    expires.Unix(),
		Embed:  opts,
	}

	token, err := signToken(payload, cfg.TokenSecret)
	if err != nil {
		return nil, err
	}

	if err := s.AccessLogRepo.Create(&model.VideoAccessLog{
		UserID:    userID,
		VideoID:   videoID,
		CourseID:  courseID,
		ExpiresAt: expires,
	}); err != nil {
		return nil, err
	}

	return &VideoToken{Token: token, Expires: expires.Unix()}, nil
}

// signToken token = base64(payload JSON) + "." + hex(HMAC-SHA256)
func signToken(payload VideoTokenPayload, secret string) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(data)
	signature := hex.EncodeToString(mac.Sum(nil))

	return base64.StdEncoding.EncodeToString(data) + "." + signature, nil
}

// ParseVideoToken 校验签名与有效期，供播放回调与测试使用
func (s *AccessService) ParseVideoToken(token string) (*VideoTokenPayload, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return nil, util.ErrInvalidSignature
	}

	data, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, util.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(s.tokenConfig().TokenSecret))
	mac.Write(data)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return nil, util.ErrInvalidSignature
	}

	var payload VideoTokenPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, util.ErrInvalidSignature
	}

	if time.Now().Unix() > payload.Exp {
		return nil, util.ErrInvalidSignature
	}

	return &payload, nil
}
