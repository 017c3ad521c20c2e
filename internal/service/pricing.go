package service

import (
	"fmt"
	"froggocodes_backend/internal/config"
	"froggocodes_backend/internal/model"
)

// PricingData 一门课在某个地区档位下的完整定价信息
// 原始金额给支付流程用，格式化串给展示层用
type PricingData struct {
	Regular            string `json:"regular"`
	Discounted         string `json:"discounted"`
	Percentage         string `json:"percentage"`
	Currency           string `json:"currency"`
	RegularAmount      int64  `json:"regularAmount"`
	DiscountedAmount   int64  `json:"discountedAmount"`
	DiscountPercentage int    `json:"discountPercentage"`
}

// PricingService 纯函数定价解析器，course 为 nil 时用配置兜底价
// 目录数据再脏，结账流程也不能崩
type PricingService struct {
	Cfg *config.PricingConfig
}

func NewPricingService(cfg *config.PricingConfig) *PricingService {
	return &PricingService{Cfg: cfg}
}

// CalculateDiscounted 折后价 = floor(base*(1-discount/100))，折扣≤0 时原价
func CalculateDiscounted(base int64, discount int) int64 {
	if discount <= 0 {
		return base
	}
	if discount >= 100 {
		return 0
	}
	return base * int64(100-discount) / 100
}

// FormatPrice 整单位金额 + 货币符号
func FormatPrice(amount int64, isIndia bool) string {
	if isIndia {
		return fmt.Sprintf("₹%d", amount)
	}
	return fmt.Sprintf("$%d", amount)
}

// Resolve 地区档位选价，缺失字段回落到配置默认值
func (s *PricingService) Resolve(course *model.Course, isIndia bool) PricingData {
	var base int64
	if isIndia {
		base = s.Cfg.DefaultPriceIndia
		if course != nil && course.PriceIndia > 0 {
			base = course.PriceIndia
		}
	} else {
		base = s.Cfg.DefaultPriceIntl
		if course != nil && course.PriceInt > 0 {
			base = course.PriceInt
		}
	}

	discount := s.Cfg.DefaultDiscount
	if course != nil && course.Discount > 0 {
		discount = course.Discount
	}

	discounted := CalculateDiscounted(base, discount)

	currency := "$"
	if isIndia {
		currency = "₹"
	}

	return PricingData{
		Regular:            FormatPrice(base, isIndia),
		Discounted:         FormatPrice(discounted, isIndia),
		Percentage:         fmt.Sprintf("%d%%", discount),
		Currency:           currency,
		RegularAmount:      base,
		DiscountedAmount:   discounted,
		DiscountPercentage: discount,
	}
}

// PaymentAmount 结账应付金额（折后价）
func (s *PricingService) PaymentAmount(course *model.Course, isIndia bool) int64 {
	return s.Resolve(course, isIndia).DiscountedAmount
}

// FallbackAmount 目录查询整体失败时的兜底应付金额
func (s *PricingService) FallbackAmount(isIndia bool) int64 {
	if isIndia {
		return s.Cfg.FallbackAmountIndia
	}
	return s.Cfg.FallbackAmountIntl
}
