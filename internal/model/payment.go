package model

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed" // 仅保留给人工处理，系统不会自动流转到此状态
)

// Payment 一次结账的生命周期记录，(user_id, course_id) 唯一
// 重新发起结账会覆盖同键的旧 pending 记录（merge 语义，非追加）
// swagger:model Payment
type Payment struct {
	BaseModel
	UserID    uint          `gorm:"not null;index:idx_user_course_payment,unique" json:"user_id"`
	CourseID  string        `gorm:"size:50;not null;index:idx_user_course_payment,unique" json:"course_id"`
	Amount    int64         `gorm:"not null" json:"amount"` // 整货币单位
	Currency  string        `gorm:"size:8;default:'INR'" json:"currency"`
	Status    PaymentStatus `gorm:"size:16;default:'pending';index" json:"status"`
	OrderID   string        `gorm:"size:64;index" json:"order_id"`  // 网关订单号
	PaymentID string        `gorm:"size:64" json:"payment_id"`      // 网关支付号，验签通过后才写入
	PaidAt    *time.Time    `json:"paid_at"`
}

func (Payment) TableName() string {
	return "payments"
}
