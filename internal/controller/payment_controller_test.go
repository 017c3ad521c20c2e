package controller

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"froggocodes_backend/internal/config"
	"froggocodes_backend/internal/model"
	"froggocodes_backend/internal/repository"
	"froggocodes_backend/internal/service"
	"froggocodes_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type stubOrders struct {
	orderID string
}

func (s *stubOrders) Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error) {
	return map[string]interface{}{"id": s.orderID}, nil
}

func paymentTestRouter(t *testing.T, db *gorm.DB, userID uint) (*gin.Engine, *service.PaymentService) {
	t.Helper()
	gateway := service.NewGatewayServiceWithOrders(&stubOrders{orderID: "order_test"}, "rzp_key", "rzp_secret")
	return paymentTestRouterWithGateway(t, db, userID, gateway)
}

func paymentTestRouterWithGateway(t *testing.T, db *gorm.DB, userID uint, gateway *service.GatewayService) (*gin.Engine, *service.PaymentService) {
	t.Helper()

	pricingCfg := &config.PricingConfig{
		DefaultPriceIndia:   9999,
		DefaultPriceIntl:    499,
		DefaultDiscount:     50,
		FallbackAmountIndia: 4999,
		FallbackAmountIntl:  249,
	}
	pricing := service.NewPricingService(pricingCfg)

	courseRepo := repository.NewCourseRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	paymentService := service.NewPaymentService(paymentRepo, enrollmentRepo, courseRepo, gateway, db)
	courseService := service.NewCourseService(courseRepo, videoRepo, enrollmentRepo, pricing)
	ctl := NewPaymentController(paymentService, courseService, pricing, gateway)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("user", &util.Claims{UserID: userID, Role: model.Student})
		}
		c.Next()
	})
	router.POST("/create-payment", ctl.CreatePayment)
	router.POST("/verify-payment", ctl.VerifyPayment)
	return router, paymentService
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func razorpaySign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreatePaymentRejectsBadCourseID(t *testing.T) {
	db := newTestDB(t)
	router, _ := paymentTestRouter(t, db, 1)

	for _, id := range []string{"", "has space", "way/too/weird", "a#b", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"} {
		w := postJSON(router, "/create-payment", gin.H{"courseId": id})
		assert.Equal(t, http.StatusBadRequest, w.Code, "courseId=%q", id)
	}
}

func TestCreatePaymentRequiresAuth(t *testing.T) {
	db := newTestDB(t)
	router, _ := paymentTestRouter(t, db, 0)

	w := postJSON(router, "/create-payment", gin.H{"courseId": "zero-to-hero"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePaymentUsesCatalogPricing(t *testing.T) {
	db := newTestDB(t)
	router, _ := paymentTestRouter(t, db, 1)

	db.Create(&model.Course{
		SlugBase:   model.SlugBase{ID: "zero-to-hero"},
		Title:      "Zero To Hero Bootcamp",
		PriceIndia: 9999,
		Discount:   50,
	})

	w := postJSON(router, "/create-payment", gin.H{"courseId": "zero-to-hero"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data service.CheckoutResult `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "order_test", resp.Data.OrderID)
	assert.Equal(t, int64(4999), resp.Data.Amount)
	assert.Equal(t, "rzp_key", resp.Data.KeyID)
}

func TestCreatePaymentUnknownCourseUsesFallbackAmount(t *testing.T) {
	db := newTestDB(t)
	router, _ := paymentTestRouter(t, db, 1)

	w := postJSON(router, "/create-payment", gin.H{"courseId": "unknown-course"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data service.CheckoutResult `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(4999), resp.Data.Amount)
}

func TestVerifyPaymentBadSignature(t *testing.T) {
	db := newTestDB(t)
	router, ps := paymentTestRouter(t, db, 1)

	_, err := ps.InitiateCheckout(1, "zero-to-hero", 4999)
	assert.NoError(t, err)

	w := postJSON(router, "/verify-payment", gin.H{
		"razorpay_order_id":   "order_test",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "deadbeef",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid payment signature")

	// 伪造回调后支付仍是 pending
	completed, err := ps.IsCompleted(1, "zero-to-hero")
	assert.NoError(t, err)
	assert.False(t, completed)
}

func TestVerifyPaymentHappyPath(t *testing.T) {
	db := newTestDB(t)
	router, ps := paymentTestRouter(t, db, 1)

	_, err := ps.InitiateCheckout(1, "zero-to-hero", 4999)
	assert.NoError(t, err)

	w := postJSON(router, "/verify-payment", gin.H{
		"razorpay_order_id":   "order_test",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  razorpaySign("rzp_secret", "order_test", "pay_1"),
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.NotContains(t, w.Body.String(), "verified")

	completed, err := ps.IsCompleted(1, "zero-to-hero")
	assert.NoError(t, err)
	assert.True(t, completed)
}

// 网关密钥缺失时真实回调也过不了验签，必须报配置错误而不是当成篡改
func TestVerifyPaymentUnconfiguredGateway(t *testing.T) {
	db := newTestDB(t)
	gateway := service.NewGatewayServiceWithOrders(nil, "", "")
	router, _ := paymentTestRouterWithGateway(t, db, 1, gateway)

	w := postJSON(router, "/verify-payment", gin.H{
		"razorpay_order_id":   "order_test",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  razorpaySign("rzp_secret", "order_test", "pay_1"),
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server configuration error")
	assert.NotContains(t, w.Body.String(), "Invalid payment signature")
}

type failingOrders struct{}

func (failingOrders) Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error) {
	return nil, errors.New("upstream 5xx")
}

func TestCreatePaymentGatewayDown(t *testing.T) {
	db := newTestDB(t)
	gateway := service.NewGatewayServiceWithOrders(failingOrders{}, "rzp_key", "rzp_secret")
	router, _ := paymentTestRouterWithGateway(t, db, 1, gateway)

	w := postJSON(router, "/create-payment", gin.H{"courseId": "zero-to-hero"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Payment gateway unavailable")
}

func TestVerifyPaymentMissingFields(t *testing.T) {
	db := newTestDB(t)
	router, _ := paymentTestRouter(t, db, 1)

	w := postJSON(router, "/verify-payment", gin.H{"razorpay_order_id": "order_test"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyPaymentUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	router, _ := paymentTestRouter(t, db, 1)

	w := postJSON(router, "/verify-payment", gin.H{
		"razorpay_order_id":   "order_none",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  razorpaySign("rzp_secret", "order_none", "pay_1"),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
