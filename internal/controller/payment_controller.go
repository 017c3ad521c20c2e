package controller

import (
	"errors"
	"froggocodes_backend/internal/service"
	"froggocodes_backend/internal/util"
	"regexp"

	"github.com/gin-gonic/gin"
)

// 课程 ID 只允许 slug 字符，超出直接 400，不进任何下游查询
var courseIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,50}$`)

type PaymentController struct {
	PaymentService *service.PaymentService
	CourseService  *service.CourseService
	Pricing        *service.PricingService
	Gateway        *service.GatewayService
}

func NewPaymentController(
	paymentService *service.PaymentService,
	courseService *service.CourseService,
	pricing *service.PricingService,
	gateway *service.GatewayService,
) *PaymentController {
	return &PaymentController{
		PaymentService: paymentService,
		CourseService:  courseService,
		Pricing:        pricing,
		Gateway:        gateway,
	}
}

// CreatePaymentRequest 发起结账请求
type CreatePaymentRequest struct {
	CourseID string `json:"courseId" binding:"required"`
	Region   string `json:"region"`
}

// CreatePayment godoc
// @Summary 发起课程结账
// @Description 落 pending 支付记录并在网关创建订单，金额由服务端按课程定价计算
// @Tags 支付
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreatePaymentRequest true "结账请求"
// @Success 200 {object} util.Response{data=service.CheckoutResult} "订单已创建"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 429 {object} util.Response "请求过于频繁"
// @Failure 500 {object} util.Response "网关或配置错误"
// @Router /api/create-payment [post]
func (c *PaymentController) CreatePayment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if !courseIDPattern.MatchString(req.CourseID) {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	if !c.Gateway.Configured() {
		util.Error(ctx, 500, "Server configuration error")
		return
	}

	isIndia := req.Region != "intl"

	// 金额永远由服务端算，客户端报价一概不信
	amount := c.Pricing.FallbackAmount(isIndia)
	if detail, err := c.CourseService.CourseDetail(req.CourseID); err == nil {
		amount = c.Pricing.PaymentAmount(&detail.Course, isIndia)
	}
	if amount <= 0 {
		util.BadRequest(ctx, "Invalid payment amount")
		return
	}

	result, err := c.PaymentService.InitiateCheckout(claims.UserID, req.CourseID, amount)
	if err != nil {
		if errors.Is(err, util.ErrGatewayUnavailable) {
			util.Error(ctx, 500, "Payment gateway unavailable")
		} else if errors.Is(err, util.ErrServerConfig) {
			util.Error(ctx, 500, "Server configuration error")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// VerifyPaymentRequest 网关回调确认请求，字段名与 Razorpay Checkout 回传一致
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
	CourseID  string `json:"courseId"`
}

// VerifyPayment godoc
// @Summary 确认支付回调
// @Description 校验网关签名，通过后标记支付完成并开通课程（同一事务）
// @Tags 支付
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body VerifyPaymentRequest true "回调参数"
// @Success 200 {object} util.Response{data=object} "支付已确认"
// @Failure 400 {object} util.Response "签名无效"
// @Failure 404 {object} util.Response "订单不存在"
// @Failure 500 {object} util.Response "服务器配置错误"
// @Router /api/verify-payment [post]
func (c *PaymentController) VerifyPayment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 密钥缺失时验签必然失败，必须报配置错误而不是把真回调当篡改
	if !c.Gateway.Configured() {
		util.Error(ctx, 500, "Server configuration error")
		return
	}

	err := c.PaymentService.ConfirmPayment(claims.UserID, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidSignature):
			util.BadRequest(ctx, "Invalid payment signature")
		case errors.Is(err, util.ErrOrderNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"success": true})
}
