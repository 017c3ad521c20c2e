package service

import (
	"froggocodes_backend/internal/model"
	"froggocodes_backend/internal/repository"
	"froggocodes_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newPaymentService(t *testing.T, db *gorm.DB, gateway *GatewayService) *PaymentService {
	t.Helper()
	return NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
		gateway,
		db,
	)
}

func TestInitiateCheckoutCreatesPendingWithOrderID(t *testing.T) {
	db := newTestDB(t)
	orders := &fakeOrders{resp: map[string]interface{}{"id": "order_abc"}}
	gateway := NewGatewayServiceWithOrders(orders, "rzp_key", "secret")
	s := newPaymentService(t, db, gateway)

	result, err := s.InitiateCheckout(1, "zero-to-hero", 4999)
	assert.NoError(t, err)
	assert.Equal(t, "order_abc", result.OrderID)
	assert.Equal(t, int64(4999), result.Amount)
	assert.Equal(t, "INR", result.Currency)
	assert.Equal(t, "rzp_key", result.KeyID)

	payment, err := s.PaymentRepo.FindByOrderID("order_abc")
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentPending, payment.Status)
	assert.Equal(t, uint(1), payment.UserID)
	assert.Equal(t, int64(4999), payment.Amount)
}

func TestInitiateCheckoutOverwritesPreviousPending(t *testing.T) {
	db := newTestDB(t)
	orders := &fakeOrders{resp: map[string]interface{}{"id": "order_1"}}
	gateway := NewGatewayServiceWithOrders(orders, "key", "secret")
	s := newPaymentService(t, db, gateway)

	_, err := s.InitiateCheckout(1, "zero-to-hero", 4999)
	assert.NoError(t, err)

	orders.resp = map[string]interface{}{"id": "order_2"}
	_, err = s.InitiateCheckout(1, "zero-to-hero", 3999)
	assert.NoError(t, err)

	// 同 (user, course) 只保留一条记录，金额与订单号为最新
	var count int64
	db.Model(&model.Payment{}).Where("user_id = ? AND course_id = ?", 1, "zero-to-hero").Count(&count)
	assert.Equal(t, int64(1), count)

	payment, err := s.PaymentRepo.FindByUserAndCourse(1, "zero-to-hero")
	assert.NoError(t, err)
	assert.Equal(t, "order_2", payment.OrderID)
	assert.Equal(t, int64(3999), payment.Amount)
}

func TestConfirmPaymentHappyPath(t *testing.T) {
	db := newTestDB(t)
	orders := &fakeOrders{resp: map[string]interface{}{"id": "order_ok"}}
	gateway := NewGatewayServiceWithOrders(orders, "key", "secret")
	s := newPaymentService(t, db, gateway)

	db.Create(&model.Course{SlugBase: model.SlugBase{ID: "zero-to-hero"}, Title: "Zero To Hero Bootcamp"})

	_, err := s.InitiateCheckout(7, "zero-to-hero", 4999)
	assert.NoError(t, err)

	sig := signPayload("secret", "order_ok", "pay_ok")
	err = s.ConfirmPayment(7, "order_ok", "pay_ok", sig)
	assert.NoError(t, err)

	payment, err := s.PaymentRepo.FindByOrderID("order_ok")
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, payment.Status)
	assert.Equal(t, "pay_ok", payment.PaymentID)
	assert.NotNil(t, payment.PaidAt)

	enrolled, err := s.EnrollmentRepo.Exists(7, "zero-to-hero")
	assert.NoError(t, err)
	assert.True(t, enrolled)
}

// 伪造签名不能留下任何 completed 支付或报名记录
func TestConfirmPaymentForgedSignatureLeavesNoSideEffects(t *testing.T) {
	db := newTestDB(t)
	orders := &fakeOrders{resp: map[string]interface{}{"id": "order_x"}}
	gateway := NewGatewayServiceWithOrders(orders, "key", "secret")
	s := newPaymentService(t, db, gateway)

	_, err := s.InitiateCheckout(7, "zero-to-hero", 4999)
	assert.NoError(t, err)

	err = s.ConfirmPayment(7, "order_x", "pay_x", "deadbeef")
	assert.ErrorIs(t, err, util.ErrInvalidSignature)

	payment, err := s.PaymentRepo.FindByOrderID("order_x")
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentPending, payment.Status)
	assert.Empty(t, payment.PaymentID)

	enrolled, err := s.EnrollmentRepo.Exists(7, "zero-to-hero")
	assert.NoError(t, err)
	assert.False(t, enrolled)

	completed, err := s.IsCompleted(7, "zero-to-hero")
	assert.NoError(t, err)
	assert.False(t, completed)
}

func TestConfirmPaymentUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	gateway := NewGatewayServiceWithOrders(nil, "key", "secret")
	s := newPaymentService(t, db, gateway)

	sig := signPayload("secret", "order_missing", "pay_1")
	err := s.ConfirmPayment(1, "order_missing", "pay_1", sig)
	assert.ErrorIs(t, err, util.ErrOrderNotFound)
}

// 签名合法但订单属于别人，按订单不存在处理
func TestConfirmPaymentWrongUser(t *testing.T) {
	db := newTestDB(t)
	orders := &fakeOrders{resp: map[string]interface{}{"id": "order_w"}}
	gateway := NewGatewayServiceWithOrders(orders, "key", "secret")
	s := newPaymentService(t, db, gateway)

	_, err := s.InitiateCheckout(7, "zero-to-hero", 4999)
	assert.NoError(t, err)

	sig := signPayload("secret", "order_w", "pay_w")
	err = s.ConfirmPayment(8, "order_w", "pay_w", sig)
	assert.ErrorIs(t, err, util.ErrOrderNotFound)

	payment, err := s.PaymentRepo.FindByOrderID("order_w")
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentPending, payment.Status)
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	orders := &fakeOrders{resp: map[string]interface{}{"id": "order_i"}}
	gateway := NewGatewayServiceWithOrders(orders, "key", "secret")
	s := newPaymentService(t, db, gateway)

	_, err := s.InitiateCheckout(7, "zero-to-hero", 4999)
	assert.NoError(t, err)

	sig := signPayload("secret", "order_i", "pay_i")
	assert.NoError(t, s.ConfirmPayment(7, "order_i", "pay_i", sig))
	assert.NoError(t, s.ConfirmPayment(7, "order_i", "pay_i", sig))

	var count int64
	db.Model(&model.UserCourse{}).Where("user_id = ?", 7).Count(&count)
	assert.Equal(t, int64(1), count)
}
