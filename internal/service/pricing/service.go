package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
	couponRepo "github.com/agendafacil/booking-service/internal/infra/storage/coupon"
)

// Quote is the server-side pricing of a reservation. Discount amounts are
// always recomputed here with the server clock; client-supplied amounts are
// never trusted.
type Quote struct {
	Price          float64
	DiscountAmount float64
	DiscountCode   *string
	FinalPrice     float64

	// CouponID is set when a coupon participated in the quote; the
	// reservation and payment flows use it to increment usage once the
	// payment requirement is satisfied.
	CouponID *int64
}

// Service validates coupon codes and computes final prices.
type Service struct {
	couponRepo CouponRepository
	logger     Logger
}

// NewService creates a pricing service.
func NewService(couponRepo CouponRepository, logger Logger) *Service {
	return &Service{
		couponRepo: couponRepo,
		logger:     logger,
	}
}

// Quote prices the service for the establishment, applying the coupon code
// when given. Validation rules run in order, first failure wins: the code
// must exist and be active, now must fall inside the validity window when
// one is set, and the usage limit must not be exhausted. The discount is
// clamped so the final price never goes below zero.
func (s *Service) Quote(ctx context.Context, est *domain.Establishment, svc *domain.Service, couponCode string, now time.Time) (*Quote, error) {
	price := domain.RoundMoney(svc.BasePrice())

	if couponCode == "" {
		return &Quote{Price: price, FinalPrice: price}, nil
	}

	coupon, err := s.couponRepo.GetByCode(ctx, est.ID, couponCode)
	if err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			s.logger.Info("Quote: coupon %q not found for establishment=%d", couponCode, est.ID)
			return nil, ErrCouponNotFound
		}
		s.logger.Error("Quote: failed to load coupon %q: %v", couponCode, err)
		return nil, fmt.Errorf("%w: failed to load coupon: %w", ErrInternal, err)
	}

	if !coupon.Active {
		return nil, ErrCouponInactive
	}
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return nil, ErrCouponNotYetValid
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return nil, ErrCouponExpired
	}
	if coupon.Exhausted() {
		return nil, ErrCouponExhausted
	}

	discount := computeDiscount(coupon, price)

	return &Quote{
		Price:          price,
		DiscountAmount: discount,
		DiscountCode:   &coupon.Code,
		FinalPrice:     domain.RoundMoney(price - discount),
		CouponID:       &coupon.ID,
	}, nil
}

// computeDiscount applies the coupon rule to the base price, clamped to
// [0, price].
func computeDiscount(coupon *domain.Coupon, price float64) float64 {
	var discount float64
	switch coupon.DiscountType {
	case domain.DiscountPercentage:
		discount = price * coupon.Value / 100
	default:
		discount = coupon.Value
	}

	discount = domain.RoundMoney(discount)
	if discount < 0 {
		return 0
	}
	if discount > price {
		return price
	}
	return discount
}
