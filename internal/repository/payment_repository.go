package repository

import (
	"froggocodes_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// UpsertPending (user, course) 为键的 merge 写入
// 同键重复结账会覆盖旧的 pending 记录，金额与时间戳取最新
func (r *PaymentRepository) UpsertPending(userID uint, courseID string, amount int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&payment).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if err == gorm.ErrRecordNotFound {
		payment = model.Payment{
			UserID:   userID,
			CourseID: courseID,
		}
	}

	payment.Amount = amount
	payment.Currency = "INR"
	payment.Status = model.PaymentPending
	payment.OrderID = ""
	payment.PaymentID = ""
	payment.PaidAt = nil

	if err := r.DB.Save(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) SetOrderID(id uint, orderID string) error {
	return r.DB.Model(&model.Payment{}).Where("id = ?", id).
		Update("order_id", orderID).Error
}

func (r *PaymentRepository) FindByOrderID(orderID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.DB.Where("order_id = ?", orderID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) FindByUserAndCourse(userID uint, courseID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// MarkCompleted 只能在网关验签通过后调用，tx 由调用方的事务传入
func (r *PaymentRepository) MarkCompleted(tx *gorm.DB, id uint, gatewayPaymentID string) error {
	now := time.Now()
	return tx.Model(&model.Payment{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.PaymentCompleted,
			"payment_id": gatewayPaymentID,
			"paid_at":    now,
		}).Error
}

// IsCompleted 存在性检查 + 状态相等，pending/failed 一律不算
func (r *PaymentRepository) IsCompleted(userID uint, courseID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Payment{}).
		Where("user_id = ? AND course_id = ? AND status = ?",
			userID, courseID, model.PaymentCompleted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
