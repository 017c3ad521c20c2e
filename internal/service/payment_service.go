package service

import (
	"fmt"
	"froggocodes_backend/internal/model"
	"froggocodes_backend/internal/repository"
	"froggocodes_backend/internal/util"
	"froggocodes_backend/pkg/logger"
	"froggocodes_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService struct {
	PaymentRepo    *repository.PaymentRepository
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	Gateway        *GatewayService
	DB             *gorm.DB
}

func NewPaymentService(
	paymentRepo *repository.PaymentRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	gateway *GatewayService,
	db *gorm.DB,
) *PaymentService {
	return &PaymentService{
		PaymentRepo:    paymentRepo,
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		Gateway:        gateway,
		DB:             db,
	}
}

type CheckoutResult struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// InitiateCheckout 先落 pending 支付记录再去网关下单
// 同一 (user, course) 重复结账会覆盖旧的 pending 记录
func (s *PaymentService) InitiateCheckout(userID uint, courseID string, amount int64) (*CheckoutResult, error) {
	payment, err := s.PaymentRepo.UpsertPending(userID, courseID, amount)
	if err != nil {
		return nil, err
	}

	receipt := fmt.Sprintf("course_%s_%d", courseID, time.Now().Unix())
	orderID, err := s.Gateway.CreateOrder(amount, receipt)
	if err != nil {
		return nil, err
	}

	if err := s.PaymentRepo.SetOrderID(payment.ID, orderID); err != nil {
		return nil, err
	}

	monitoring.PaymentCounter.WithLabelValues("created").Inc()

	return &CheckoutResult{
		OrderID:  orderID,
		Amount:   amount,
		Currency: "INR",
		KeyID:    s.Gateway.KeyID(),
	}, nil
}

// ConfirmPayment 网关回调确认：验签 → 标记完成 → 报名，后两步在同一事务里
// 实际授权金额与课程取自下单时的 pending 记录，不用任何写死的默认值
func (s *PaymentService) ConfirmPayment(userID uint, orderID, paymentID, signature string) error {
	if !s.Gateway.VerifySignature(orderID, paymentID, signature) {
		// 完整上下文只进服务端日志，客户端只会看到固定文案
		logger.Log.Warn("payment signature verification failed",
			zap.Uint("user_id", userID),
			zap.String("order_id", orderID),
			zap.String("payment_id", paymentID))
		monitoring.PaymentCounter.WithLabelValues("rejected").Inc()
		return util.ErrInvalidSignature
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var payment model.Payment
		if err := tx.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return util.ErrOrderNotFound
			}
			return err
		}

		// 订单必须属于当前用户，否则按不存在处理
		if payment.UserID != userID {
			return util.ErrOrderNotFound
		}

		if err := s.PaymentRepo.MarkCompleted(tx, payment.ID, paymentID); err != nil {
			return err
		}

		// 报名记录的展示元数据尽力而为，课程查不到也不能挡住报名
		title, thumbnail := "", ""
		if course, err := s.CourseRepo.FindByID(payment.CourseID); err == nil {
			title = course.Title
			thumbnail = course.Thumbnail
		}

		return s.EnrollmentRepo.Upsert(tx, userID, payment.CourseID, title, thumbnail)
	})
	if err != nil {
		return err
	}

	monitoring.PaymentCounter.WithLabelValues("verified").Inc()

	logger.Log.Info("payment confirmed",
		zap.Uint("user_id", userID),
		zap.String("order_id", orderID))
	return nil
}

func (s *PaymentService) IsCompleted(userID uint, courseID string) (bool, error) {
	return s.PaymentRepo.IsCompleted(userID, courseID)
}
