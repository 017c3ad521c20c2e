package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"froggocodes_backend/internal/config"
	"froggocodes_backend/internal/util"
	"froggocodes_backend/pkg/logger"
	"sync"

	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"
)

// Razorpay 收据字段长度上限，超长截断而不是报错
const maxReceiptLen = 40

// RazorpayOrders 抽出 razorpay-go 的下单接口便于测试注入
type RazorpayOrders interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// GatewayService 支付网关适配层：远端下单 + 回调验签
// 密钥支持热轮换（UpdateCredentials），读写都过锁
type GatewayService struct {
	mu        sync.RWMutex
	orders    RazorpayOrders
	keyID     string
	keySecret string
}

func NewGatewayService(cfg *config.RazorpayConfig) *GatewayService {
	s := &GatewayService{}
	s.UpdateCredentials(cfg)
	return s
}

// NewGatewayServiceWithOrders 测试用构造
func NewGatewayServiceWithOrders(orders RazorpayOrders, keyID, keySecret string) *GatewayService {
	return &GatewayService{orders: orders, keyID: keyID, keySecret: keySecret}
}

// UpdateCredentials 配置热重载时换入新密钥对，密钥不全时网关回到未配置态
func (s *GatewayService) UpdateCredentials(cfg *config.RazorpayConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keyID = cfg.KeyID
	s.keySecret = cfg.KeySecret
	if cfg.KeyID != "" && cfg.KeySecret != "" {
		client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
		s.orders = client.Order
	} else {
		s.orders = nil
	}
}

// Configured 密钥对不全时相关接口必须回 500 配置错误
func (s *GatewayService) Configured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keyID != "" && s.keySecret != "" && s.orders != nil
}

func (s *GatewayService) KeyID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keyID
}

// CreateOrder 整货币单位金额换算为 paise(×100) 后提交
// 远端失败只向上抛 ErrGatewayUnavailable，底层错误细节不出服务端
func (s *GatewayService) CreateOrder(amount int64, receipt string) (string, error) {
	if !s.Configured() {
		return "", util.ErrServerConfig
	}

	if len(receipt) > maxReceiptLen {
		receipt = receipt[:maxReceiptLen]
	}

	data := map[string]interface{}{
		"amount":   amount * 100,
		"currency": "INR",
		"receipt":  receipt,
	}

	s.mu.RLock()
	orders := s.orders
	s.mu.RUnlock()

	body, err := orders.Create(data, nil)
	if err != nil {
		logger.Log.Error("razorpay order creation failed",
			zap.String("receipt", receipt),
			zap.Int64("amount", amount),
			zap.Error(err))
		return "", util.ErrGatewayUnavailable
	}

	orderID, _ := body["id"].(string)
	if orderID == "" {
		logger.Log.Error("razorpay order response missing id",
			zap.String("receipt", receipt))
		return "", util.ErrGatewayUnavailable
	}

	return orderID, nil
}

// VerifySignature 重新计算 HMAC-SHA256(orderID|paymentID) 并常数时间比较
// 这是整个系统唯一能证明"客户端上报的支付成功"真实性的检查
// 不匹配返回 false，不抛错
func (s *GatewayService) VerifySignature(orderID, paymentID, signature string) bool {
	s.mu.RLock()
	secret := s.keySecret
	s.mu.RUnlock()

	if secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
